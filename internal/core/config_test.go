package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
discord:
  token: "test-token"
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "test-token", config.Discord.Token)
	assert.Equal(t, "!", config.CommandPrefix)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, 100, config.Logging.MaxSize)
	assert.Equal(t, 5, config.Logging.MaxBackups)
	assert.Equal(t, 30, config.Logging.MaxAge)
	assert.Equal(t, 5, config.Interact.ItemsPerPage)
	assert.Equal(t, 2*time.Minute, config.Interact.PageBudget())
	assert.Equal(t, 2*time.Minute, config.Interact.SelectBudget())
	assert.Equal(t, 800*time.Millisecond, config.Interact.RemovalPaceDuration())
	assert.Equal(t, 500*time.Millisecond, config.Interact.DedupeWindowDuration())
	assert.Equal(t, 10*time.Minute, config.Interact.TrashTimeoutDuration())
	assert.Equal(t, time.Second, config.Interact.ClearGraceDuration())
}

func TestLoadConfigParsesCustomValues(t *testing.T) {
	path := writeConfig(t, `
discord:
  token: "test-token"
  channel_id: "555"
command_prefix: "?"
security:
  whitelist_enabled: true
  allowed_users: ["111", "222"]
  admins: ["111"]
interact:
  page_time_budget: "90s"
  select_time_budget: "45s"
  removal_pace: "250ms"
  dedupe_window: "300ms"
  trash_timeout: "5m"
  clear_grace: "2s"
  items_per_page: 3
logging:
  level: "debug"
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "?", config.CommandPrefix)
	assert.Equal(t, "555", config.Discord.ChannelID)
	assert.Equal(t, 90*time.Second, config.Interact.PageBudget())
	assert.Equal(t, 45*time.Second, config.Interact.SelectBudget())
	assert.Equal(t, 250*time.Millisecond, config.Interact.RemovalPaceDuration())
	assert.Equal(t, 300*time.Millisecond, config.Interact.DedupeWindowDuration())
	assert.Equal(t, 5*time.Minute, config.Interact.TrashTimeoutDuration())
	assert.Equal(t, 2*time.Second, config.Interact.ClearGraceDuration())
	assert.Equal(t, 3, config.Interact.ItemsPerPage)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfig(t, "discord: [unclosed")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigRequiresToken(t *testing.T) {
	path := writeConfig(t, `
command_prefix: "!"
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discord.token")
}

func TestLoadConfigExpandsEnvironment(t *testing.T) {
	t.Setenv("EMBEDNAV_TEST_TOKEN", "from-env")
	path := writeConfig(t, `
discord:
  token: "${EMBEDNAV_TEST_TOKEN}"
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", config.Discord.Token)
}

func TestLoadConfigReportsMissingEnvironment(t *testing.T) {
	path := writeConfig(t, `
discord:
  token: "${EMBEDNAV_DEFINITELY_UNSET_VAR}"
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMBEDNAV_DEFINITELY_UNSET_VAR")
}

func TestValidateConfigRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "whitelist enabled without users",
			mutate: func(c *Config) { c.Security.WhitelistEnabled = true },
		},
		{
			name:   "negative items per page",
			mutate: func(c *Config) { c.Interact.ItemsPerPage = -1 },
		},
		{
			name:   "unparseable duration",
			mutate: func(c *Config) { c.Interact.RemovalPace = "fast" },
		},
		{
			name:   "negative duration",
			mutate: func(c *Config) { c.Interact.PageTimeBudget = "-5s" },
		},
		{
			name:   "removal pace below floor",
			mutate: func(c *Config) { c.Interact.RemovalPace = "50ms" },
		},
		{
			name:   "removal pace above ceiling",
			mutate: func(c *Config) { c.Interact.RemovalPace = "11s" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{Discord: DiscordConfig{Token: "x"}}
			tt.mutate(config)
			assert.Error(t, ValidateConfig(config))
		})
	}
}

func TestIsUserAuthorized(t *testing.T) {
	open := &Config{}
	assert.True(t, open.IsUserAuthorized("anyone"))

	gated := &Config{
		Security: SecurityConfig{
			WhitelistEnabled: true,
			AllowedUsers:     []string{"111", "222"},
		},
	}
	assert.True(t, gated.IsUserAuthorized("111"))
	assert.False(t, gated.IsUserAuthorized("333"))
}

func TestIsAdmin(t *testing.T) {
	config := &Config{Security: SecurityConfig{Admins: []string{"111"}}}
	assert.True(t, config.IsAdmin("111"))
	assert.False(t, config.IsAdmin("222"))
}
