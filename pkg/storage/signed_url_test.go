package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("report-1", "roster/report-1.csv")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	reportID, path, err := signer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "report-1", reportID)
	assert.Equal(t, "roster/report-1.csv", path)
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate("report-1", "roster/report-1.csv")
	require.NoError(t, err)

	tampered := strings.Replace(token, "report-1", "report-2", 1)
	_, _, err = signer.Parse(tampered)
	assert.ErrorIs(t, err, ErrTokenSignature)

	_, _, err = signer.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	_, _, err = NewSignedURLSigner("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	token, _, err := signer.Generate("report-1", "roster/report-1.csv")
	require.NoError(t, err)

	signer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, _, err = signer.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
