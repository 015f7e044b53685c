// Package core wires the configuration, the messenger connection, the
// command router, and the interactive widget sessions into one engine.
//
// Configuration is loaded from a YAML file with ${VAR} environment
// expansion, mirroring the rest of the configuration surface:
//
//	discord:
//	  token: "${DISCORD_TOKEN}"
//	  channel_id: "123456789"
//	command_prefix: "!"
//	security:
//	  whitelist_enabled: true
//	  allowed_users: ["111", "222"]
//	interact:
//	  page_time_budget: "2m"
//	  removal_pace: "800ms"
//	logging:
//	  level: "info"
package core

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kamdyne/embednav/pkg/constants"
	"gopkg.in/yaml.v3"
)

const (
	DefaultLogLevel      = "info"
	DefaultLogMaxBackups = 5
	DefaultCommandPrefix = "!"
	DefaultItemsPerPage  = 5

	// minRemovalPace guards against configs that would hammer the API.
	minRemovalPace = 100 * time.Millisecond
	maxRemovalPace = 10 * time.Second
)

// LoadConfig loads configuration from file and expands environment variables
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expandedData, err := expandEnv(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to expand environment variables: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := ValidateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// expandEnv replaces ${VAR_NAME} patterns with environment variable values
func expandEnv(input string) (string, error) {
	var missingVars []string

	result := os.Expand(input, func(key string) string {
		if val := os.Getenv(key); val != "" {
			return val
		}
		missingVars = append(missingVars, key)
		return ""
	})

	if len(missingVars) > 0 {
		return "", fmt.Errorf("missing required environment variables: %s",
			strings.Join(missingVars, ", "))
	}

	return result, nil
}

// ValidateConfig applies defaults and rejects invalid settings. Runs before
// anything connects, so configuration errors never reach the platform.
func ValidateConfig(config *Config) error {
	if config.Discord.Token == "" {
		return fmt.Errorf("discord.token is required")
	}

	if config.CommandPrefix == "" {
		config.CommandPrefix = DefaultCommandPrefix
	}

	if config.Logging.Level == "" {
		config.Logging.Level = DefaultLogLevel
	}
	if config.Logging.MaxSize == 0 {
		config.Logging.MaxSize = constants.DefaultLogMaxSize
	}
	if config.Logging.MaxBackups == 0 {
		config.Logging.MaxBackups = DefaultLogMaxBackups
	}
	if config.Logging.MaxAge == 0 {
		config.Logging.MaxAge = constants.DefaultLogMaxAge
	}

	if config.Security.WhitelistEnabled && len(config.Security.AllowedUsers) == 0 {
		return fmt.Errorf("security.allowed_users cannot be empty when whitelist is enabled")
	}

	if config.Interact.ItemsPerPage == 0 {
		config.Interact.ItemsPerPage = DefaultItemsPerPage
	}
	if config.Interact.ItemsPerPage < 0 {
		return fmt.Errorf("interact.items_per_page must be positive (got %d)", config.Interact.ItemsPerPage)
	}

	var err error
	ic := &config.Interact
	if ic.pageBudget, err = parseDuration("interact.page_time_budget", ic.PageTimeBudget, constants.DefaultPageTimeBudget); err != nil {
		return err
	}
	if ic.selectBudget, err = parseDuration("interact.select_time_budget", ic.SelectTimeBudget, constants.DefaultSelectTimeBudget); err != nil {
		return err
	}
	if ic.removalPace, err = parseDuration("interact.removal_pace", ic.RemovalPace, constants.RemovalPace); err != nil {
		return err
	}
	if ic.removalPace < minRemovalPace || ic.removalPace > maxRemovalPace {
		return fmt.Errorf("interact.removal_pace must be between %v and %v (got %v)", minRemovalPace, maxRemovalPace, ic.removalPace)
	}
	if ic.dedupeWindow, err = parseDuration("interact.dedupe_window", ic.DedupeWindow, constants.DedupeWindow); err != nil {
		return err
	}
	if ic.trashTimeout, err = parseDuration("interact.trash_timeout", ic.TrashTimeout, constants.TrashGuardTimeout); err != nil {
		return err
	}
	if ic.clearGrace, err = parseDuration("interact.clear_grace", ic.ClearGrace, constants.ReactionClearGrace); err != nil {
		return err
	}

	return nil
}

// parseDuration parses a configured duration, falling back to def when the
// field is unset.
func parseDuration(name, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive (got %v)", name, d)
	}
	return d, nil
}

// IsUserAuthorized checks if a user may drive interactive widgets.
func (c *Config) IsUserAuthorized(userID string) bool {
	if !c.Security.WhitelistEnabled {
		return true
	}
	for _, uid := range c.Security.AllowedUsers {
		if uid == userID {
			return true
		}
	}
	return false
}

// IsAdmin checks if a user is an admin
func (c *Config) IsAdmin(userID string) bool {
	for _, adminID := range c.Security.Admins {
		if adminID == userID {
			return true
		}
	}
	return false
}
