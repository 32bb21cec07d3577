package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE_DRIVER", "JWT_SECRET", "JWT_TTL", "ROOM_CODE_LENGTH", "ROOM_CODE_MAX_ATTEMPTS", "SKILL_APPROVAL_REQUIRED", "ENV", "REDIS_URL"} {
		t.Setenv(key, "")
	}
	t.Setenv("PORT", "8081")
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 8, cfg.RoomCodeLength)
	assert.Equal(t, 10, cfg.RoomCodeMaxAttempts)
	assert.False(t, cfg.SkillApprovalRequired)
	assert.Empty(t, cfg.RedisURL)
	assert.NotEmpty(t, cfg.JWTSecret, "development falls back to a dev secret")
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("ROOM_CODE_LENGTH", "6")
	t.Setenv("ROOM_CODE_MAX_ATTEMPTS", "3")
	t.Setenv("SKILL_APPROVAL_REQUIRED", "true")
	t.Setenv("REDIS_URL", "redis://cache:6379/0")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 90*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 6, cfg.RoomCodeLength)
	assert.Equal(t, 3, cfg.RoomCodeMaxAttempts)
	assert.True(t, cfg.SkillApprovalRequired)
	assert.Equal(t, "redis://cache:6379/0", cfg.RedisURL)
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad driver":        {"STORE_DRIVER": "sqlite"},
		"bad int":           {"ROOM_CODE_LENGTH": "eight"},
		"code too short":    {"ROOM_CODE_LENGTH": "2"},
		"zero attempts":     {"ROOM_CODE_MAX_ATTEMPTS": "0"},
		"bad bool":          {"SKILL_APPROVAL_REQUIRED": "sometimes"},
		"bad duration":      {"JWT_TTL": "a day"},
		"prod needs secret": {"ENV": "production", "JWT_SECRET": ""},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("STORE_DRIVER", "memory")
			t.Setenv("JWT_SECRET", "x")
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
