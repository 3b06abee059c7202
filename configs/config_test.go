package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	for _, key := range []string{"PORT", "MONGO_URI", "MONGO_DB", "JWT_SECRET", "ALLOWED_ORIGINS", "REDIS_ADDR", "STATIC_DIR"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "tasktrack", cfg.MongoDatabase)
	assert.Equal(t, "*", cfg.AllowedOrigins)
	assert.Empty(t, cfg.JWTSecret)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("PORT", "8080")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("MONGO_DB", "tasks")
	t.Setenv("JWT_SECRET", "super-secret")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg := LoadConfig()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mongodb://db:27017", cfg.MongoURI)
	assert.Equal(t, "tasks", cfg.MongoDatabase)
	assert.Equal(t, "super-secret", cfg.JWTSecret)
	assert.Equal(t, "https://app.example.com", cfg.AllowedOrigins)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
}
