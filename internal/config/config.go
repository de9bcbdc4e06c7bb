package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config carries everything the commands need wired: file locations, the
// backend endpoint, and the timing policy of the debounce/retry machinery.
type Config struct {
	DataDir      string
	DatabasePath string
	LogFile      string

	BackendURL string

	// GameLogPath is the chat log the run command follows. Empty means the
	// platform default Minecraft location.
	GameLogPath string

	PersistDebounce      time.Duration
	SyncDebounce         time.Duration
	SyncInitialBackoff   time.Duration
	SyncMaxBackoff       time.Duration
	SyncMaxAttempts      int
	RosterPollTicks      int
	InventorySettleDelay time.Duration
}

// Load reads configuration from defaults, an optional TOML file in the data
// directory, and SKYRNG_-prefixed environment variables, in increasing
// precedence.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}
	dataDir := filepath.Join(home, ".skyrng")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(dataDir)
	v.SetEnvPrefix("SKYRNG")
	v.AutomaticEnv()

	v.SetDefault("data_dir", dataDir)
	v.SetDefault("database_path", "")
	v.SetDefault("log_file", "")
	v.SetDefault("backend_url", "https://api.skyrng.dev")
	v.SetDefault("game_log_path", defaultGameLogPath(home))
	v.SetDefault("persist_debounce", "2s")
	v.SetDefault("sync_debounce", "15s")
	v.SetDefault("sync_initial_backoff", "5s")
	v.SetDefault("sync_max_backoff", "5m")
	v.SetDefault("sync_max_attempts", 10)
	v.SetDefault("roster_poll_ticks", 20)
	v.SetDefault("inventory_settle_delay", "500ms")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		DataDir:              v.GetString("data_dir"),
		DatabasePath:         v.GetString("database_path"),
		LogFile:              v.GetString("log_file"),
		BackendURL:           v.GetString("backend_url"),
		GameLogPath:          v.GetString("game_log_path"),
		PersistDebounce:      v.GetDuration("persist_debounce"),
		SyncDebounce:         v.GetDuration("sync_debounce"),
		SyncInitialBackoff:   v.GetDuration("sync_initial_backoff"),
		SyncMaxBackoff:       v.GetDuration("sync_max_backoff"),
		SyncMaxAttempts:      v.GetInt("sync_max_attempts"),
		RosterPollTicks:      v.GetInt("roster_poll_ticks"),
		InventorySettleDelay: v.GetDuration("inventory_settle_delay"),
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(cfg.DataDir, "skyrng.db")
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, "skyrng.log")
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return Config{}, fmt.Errorf("create data directory: %w", err)
	}

	return cfg, nil
}

// defaultGameLogPath points at the standard Minecraft chat log location
func defaultGameLogPath(home string) string {
	return filepath.Join(home, ".minecraft", "logs", "latest.log")
}
