package utils

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "matelas-orthopedique-queen", GenerateSlug("  Matelas Orthopédique (Queen) "))
	assert.Equal(t, "test-mattress", GenerateSlug("Test Mattress"))
}

func TestSplitLabels(t *testing.T) {
	assert.Equal(t, []string{"Queen", "King", "72 x 36"}, SplitLabels(" Queen, ,King,Queen,72   x 36,"))
	assert.Empty(t, SplitLabels(" , ,"))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NoError(t, CheckPassword(hash, "s3cret"))
	assert.Error(t, CheckPassword(hash, "wrong"))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("secret", "u1", "admin@saho.test", "ADMIN", time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateAccessToken("secret", "u1", "a@b.c", "ADMIN", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken(token, "secret")
	assert.Error(t, err)
}

func TestResolveContentType(t *testing.T) {
	v := NewImageValidator()

	ct, err := v.ResolveContentType("image/jpeg; charset=binary", "a.bin", nil)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)

	ct, err = v.ResolveContentType("", "photo.PNG", nil)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	ct, err = v.ResolveContentType("application/octet-stream", "upload", bytes.NewReader(png))
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	assert.True(t, v.Allowed("image/webp"))
	assert.False(t, v.Allowed("application/pdf"))
}
