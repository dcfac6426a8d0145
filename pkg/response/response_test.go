package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewpulse/crewpulse-api/internal/models"
	appErrors "github.com/crewpulse/crewpulse-api/pkg/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	return c, rec
}

func TestJSONWithPaginationAndMeta(t *testing.T) {
	c, rec := newContext()
	JSON(c, http.StatusOK, []string{"w-1"}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, map[string]interface{}{"cache_hit": true})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []interface{}{"w-1"}, body["data"])
	assert.Equal(t, float64(1), body["pagination"].(map[string]interface{})["total_count"])
	assert.Equal(t, true, body["meta"].(map[string]interface{})["cache_hit"])
}

func TestErrorTypedAndUntyped(t *testing.T) {
	c, rec := newContext()
	Error(c, appErrors.Clone(appErrors.ErrDuplicateRating, "staff rating already submitted"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "DUPLICATE_RATING")
	assert.Empty(t, c.Errors)

	c, rec = newContext()
	Error(c, errors.New("connection refused"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.Len(t, c.Errors, 1)
}
