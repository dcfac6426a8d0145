package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/crewpulse/crewpulse-api/pkg/config"
	"github.com/crewpulse/crewpulse-api/pkg/middleware/requestid"
)

func TestBuildConfig(t *testing.T) {
	cfg := &config.Config{Env: config.EnvProduction, Log: config.LogConfig{Level: "debug", Format: "console"}}
	zapCfg := buildConfig(cfg)

	assert.Equal(t, "console", zapCfg.Encoding)
	assert.Equal(t, zapcore.DebugLevel, zapCfg.Level.Level())
	assert.Equal(t, "timestamp", zapCfg.EncoderConfig.TimeKey)

	cfg.Log = config.LogConfig{Level: "loud"}
	zapCfg = buildConfig(cfg)
	assert.Equal(t, "json", zapCfg.Encoding)
	assert.Equal(t, zapcore.InfoLevel, zapCfg.Level.Level())
}

func TestGinMiddlewareLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)

	router := gin.New()
	router.Use(requestid.Middleware(), GinMiddleware(zap.New(core)))
	router.GET("/workers/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/workers/w-1", nil))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "/workers/:id", entries[0].ContextMap()["route"])
	assert.Equal(t, "w-1", entries[0].ContextMap()["resource_id"])
	assert.NotEmpty(t, entries[0].ContextMap()["request_id"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}
