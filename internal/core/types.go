package core

import "time"

// Config represents the complete embednav configuration structure
type Config struct {
	Discord       DiscordConfig  `yaml:"discord"`
	CommandPrefix string         `yaml:"command_prefix"`
	Security      SecurityConfig `yaml:"security"`
	Interact      InteractConfig `yaml:"interact"`
	Logging       LoggingConfig  `yaml:"logging"`
}

// DiscordConfig represents the Discord connection configuration
type DiscordConfig struct {
	Token     string `yaml:"token"`
	ChannelID string `yaml:"channel_id"` // Default channel for engine-opened widgets
}

// SecurityConfig represents access control configuration
type SecurityConfig struct {
	WhitelistEnabled bool     `yaml:"whitelist_enabled"`
	AllowedUsers     []string `yaml:"allowed_users"`
	Admins           []string `yaml:"admins"`
}

// InteractConfig tunes the interactive session timing. All durations are
// given as Go duration strings ("2m", "800ms"); validation parses them.
type InteractConfig struct {
	PageTimeBudget   string `yaml:"page_time_budget"`   // Per-wait budget for pagination (default: 2m)
	SelectTimeBudget string `yaml:"select_time_budget"` // Per-wait budget for selection (default: 2m)
	RemovalPace      string `yaml:"removal_pace"`       // Interval between reaction removals (default: 800ms)
	DedupeWindow     string `yaml:"dedupe_window"`      // Duplicate-reaction suppression window (default: 500ms)
	TrashTimeout     string `yaml:"trash_timeout"`      // Trash guard wait bound (default: 10m)
	ClearGrace       string `yaml:"clear_grace"`        // Delay before clearing reactions (default: 1s)
	ItemsPerPage     int    `yaml:"items_per_page"`     // Selectables shown per option page (default: 5)

	pageBudget   time.Duration
	selectBudget time.Duration
	removalPace  time.Duration
	dedupeWindow time.Duration
	trashTimeout time.Duration
	clearGrace   time.Duration
}

// PageBudget returns the parsed pagination time budget.
func (c InteractConfig) PageBudget() time.Duration { return c.pageBudget }

// SelectBudget returns the parsed selection time budget.
func (c InteractConfig) SelectBudget() time.Duration { return c.selectBudget }

// RemovalPaceDuration returns the parsed removal pacing interval.
func (c InteractConfig) RemovalPaceDuration() time.Duration { return c.removalPace }

// DedupeWindowDuration returns the parsed dedupe window.
func (c InteractConfig) DedupeWindowDuration() time.Duration { return c.dedupeWindow }

// TrashTimeoutDuration returns the parsed trash guard bound.
func (c InteractConfig) TrashTimeoutDuration() time.Duration { return c.trashTimeout }

// ClearGraceDuration returns the parsed reaction-clear grace delay.
func (c InteractConfig) ClearGraceDuration() time.Duration { return c.clearGrace }

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	File         string `yaml:"file"`          // Log file path
	MaxSize      int    `yaml:"max_size"`      // Single file max size in MB (default: 100)
	MaxBackups   int    `yaml:"max_backups"`   // Number of backups to keep (default: 5)
	MaxAge       int    `yaml:"max_age"`       // Maximum days to retain (default: 30)
	Compress     bool   `yaml:"compress"`      // Whether to compress old logs (default: true)
	EnableStdout bool   `yaml:"enable_stdout"` // Also output to stdout (default: true)
}
