package cli

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/brainrot/pkg/api"
)

func TestTokenExpiry(t *testing.T) {
	expires := time.Now().Add(2 * time.Hour).Truncate(time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := token.SignedString([]byte("any-secret"))
	require.NoError(t, err)

	// Подпись не проверяется - только exp claim
	assert.Equal(t, expires.Unix(), tokenExpiry(signed))
}

func TestTokenExpiry_Garbage(t *testing.T) {
	// Нечитаемый токен дает запасной срок примерно в сутки
	got := tokenExpiry("not-a-jwt")

	assert.Greater(t, got, time.Now().Add(23*time.Hour).Unix())
	assert.Less(t, got, time.Now().Add(25*time.Hour).Unix())
}

func TestRenderClipsTable(t *testing.T) {
	clips := []api.Clip{
		{
			ID:          "c1",
			VideoURL:    "https://cdn.example.com/1.mp4",
			GeneratedBy: api.GeneratedBy{UserID: "u1", Username: "alice"},
			CreatedAt:   "2026-08-30T12:00:00Z",
		},
		{
			ID:          "c2",
			VideoURL:    "https://cdn.example.com/2.mp4",
			GeneratedBy: api.GeneratedBy{UserID: "u2", Username: "bob"},
			CreatedAt:   "not-a-date", // сырое значение попадает в таблицу как есть
		},
	}

	out := renderClipsTable(clips)

	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "https://cdn.example.com/1.mp4")
	assert.Contains(t, out, "not-a-date")
	assert.Contains(t, out, "URL")
}

func TestCommandContext_Server(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		c := &commandContext{serverURL: "http://flag:3000"}
		t.Setenv("BRAINROT_SERVER", "http://env:3000")
		assert.Equal(t, "http://flag:3000", c.server())
	})

	t.Run("env fallback", func(t *testing.T) {
		c := &commandContext{}
		t.Setenv("BRAINROT_SERVER", "http://env:3000")
		assert.Equal(t, "http://env:3000", c.server())
	})

	t.Run("default", func(t *testing.T) {
		c := &commandContext{}
		t.Setenv("BRAINROT_SERVER", "")
		assert.Equal(t, defaultServerURL, c.server())
	})
}
