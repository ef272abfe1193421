package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/yatube/config"
)

func TestTokenRoundTrip(t *testing.T) {
	config.Use(config.AppConfig{JWTSecret: "unit-secret"})

	token, err := GenerateToken(7, "leo", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "leo", claims.Username)
	assert.Equal(t, "7", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), TokenExpiry(claims), 5*time.Second)

	config.Use(config.AppConfig{JWTSecret: "other-secret"})
	_, err = ParseToken(token)
	assert.Error(t, err, "signature must not verify with another secret")
}

func TestExpiredTokenRejected(t *testing.T) {
	config.Use(config.AppConfig{JWTSecret: "unit-secret"})
	token, err := GenerateToken(1, "old", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestBlacklistInMemory(t *testing.T) {
	SetRedis(nil)
	ctx := context.Background()

	assert.False(t, IsTokenBlacklisted(ctx, "tok-a"))
	BlacklistToken(ctx, "tok-a", time.Now().Add(time.Hour))
	assert.True(t, IsTokenBlacklisted(ctx, "tok-a"))
	assert.False(t, IsTokenBlacklisted(ctx, "tok-b"))

	BlacklistToken(ctx, "tok-c", time.Now().Add(-time.Second))
	assert.False(t, IsTokenBlacklisted(ctx, "tok-c"), "already expired tokens are not stored")
}

func TestBlacklistInRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	SetRedis(rc)
	t.Cleanup(func() {
		SetRedis(nil)
		_ = rc.Close()
	})
	ctx := context.Background()

	BlacklistToken(ctx, "tok-r", time.Now().Add(time.Minute))
	assert.True(t, mr.Exists(blacklistKey("tok-r")))
	assert.True(t, IsTokenBlacklisted(ctx, "tok-r"))

	mr.FastForward(2 * time.Minute)
	assert.False(t, IsTokenBlacklisted(ctx, "tok-r"))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestCleanTextKeepsContent(t *testing.T) {
	assert.Equal(t, "hello", CleanText("  hello  "))
	raw := `Tom & Jerry don't say "hi" when 2 < 3`
	assert.Equal(t, raw, CleanText(raw))
	assert.Equal(t, "<b>bold</b>", CleanText("<b>bold</b>"))
}

func TestBlank(t *testing.T) {
	assert.True(t, Blank(""))
	assert.True(t, Blank(" \n\t "))
	assert.True(t, Blank("<script>alert(1)</script>"))
	assert.True(t, Blank("<p>  </p>"))
	assert.False(t, Blank("<b>bold</b>"))
	assert.False(t, Blank("2 < 3"))
	assert.False(t, Blank("&"))
}
