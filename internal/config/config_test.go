package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"PORT", "FRONTEND_URL", "PROJECTS_FILE", "MESSAGES_FILE", "UPLOAD_DIR",
		"MAX_UPLOAD_MB", "ANALYTICS_RETENTION", "APP_ENV", "SMTP_USER", "SMTP_PASS", "TO_EMAIL",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "*", cfg.Server.FrontendURL)
	assert.Equal(t, "projects.json", cfg.Storage.ProjectsFile)
	assert.Equal(t, "messages.json", cfg.Storage.MessagesFile)
	assert.Equal(t, "uploads", cfg.Storage.UploadDir)
	assert.Equal(t, 10, cfg.Storage.MaxUploadMB)
	assert.Equal(t, 365*24*time.Hour, cfg.Analytics.Retention)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.False(t, cfg.SMTP.Enabled())
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("FRONTEND_URL", "https://me.dev")
	t.Setenv("MAX_UPLOAD_MB", "2")
	t.Setenv("ANALYTICS_DB", "")
	t.Setenv("SMTP_USER", "me@x.com")
	t.Setenv("SMTP_PASS", "secret")
	t.Setenv("TO_EMAIL", "inbox@x.com")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "https://me.dev", cfg.Server.FrontendURL)
	assert.Equal(t, 2, cfg.Storage.MaxUploadMB)
	assert.Empty(t, cfg.Analytics.DBPath)
	assert.True(t, cfg.SMTP.Enabled())
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad upload size", "MAX_UPLOAD_MB", "ten"},
		{"zero upload size", "MAX_UPLOAD_MB", "0"},
		{"bad retention", "ANALYTICS_RETENTION", "forever"},
		{"same files", "MESSAGES_FILE", "projects.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
