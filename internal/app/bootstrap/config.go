// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix is the prefix of every environment variable the service reads.
const EnvPrefix = "TASKHUB"

type appKey struct {
	Name    string
	Default any
	Desc    string
}

// appConfigKeys defines the configuration keys for TaskHub.
// Each key can be set from:
//   - Config files: http_addr, data_dir, etc.
//   - Environment variables: TASKHUB_HTTP_ADDR, TASKHUB_DATA_DIR, etc.
//   - Command-line flags: --http_addr, --data_dir, etc.
var appConfigKeys = []appKey{
	{Name: "env", Default: "dev", Desc: "Runtime environment: 'dev', 'test' or 'prod'"},
	{Name: "log_level", Default: "info", Desc: "Log level (debug, info, warn, error)"},
	{Name: "http_addr", Default: ":8080", Desc: "HTTP listen address"},

	// Collection files
	{Name: "data_dir", Default: "db", Desc: "Directory that relative collection files resolve against"},
	{Name: "users_file", Default: "users.json", Desc: "Users collection file"},
	{Name: "teams_file", Default: "teams.json", Desc: "Teams collection file"},
	{Name: "boards_file", Default: "boards.json", Desc: "Boards collection file"},

	{Name: "audit_log", Default: "log", Desc: "Audit event logging: 'log' or 'off'"},
	{Name: "watch_files", Default: true, Desc: "Report collection files edited outside the process"},
	{Name: "watch_debounce", Default: 500 * time.Millisecond, Desc: "Quiet period before a changed file is inspected"},
	{Name: "metrics_enabled", Default: true, Desc: "Serve Prometheus metrics at /metrics"},
	{Name: "rate_limit", Default: 0, Desc: "Writes allowed per client per rate_window (0 disables)"},
	{Name: "rate_window", Default: time.Minute, Desc: "Window for rate_limit"},

	// HTTP server timeouts
	{Name: "timeout_read_header", Default: 5 * time.Second, Desc: "HTTP read header timeout"},
	{Name: "timeout_read", Default: 15 * time.Second, Desc: "HTTP read timeout"},
	{Name: "timeout_write", Default: 30 * time.Second, Desc: "HTTP write timeout"},
	{Name: "timeout_idle", Default: 60 * time.Second, Desc: "HTTP idle timeout"},
	{Name: "timeout_shutdown", Default: 10 * time.Second, Desc: "Graceful shutdown timeout"},

	// Store call deadlines
	{Name: "timeout_health", Default: 2 * time.Second, Desc: "Deadline for health checks"},
	{Name: "timeout_lookup", Default: 5 * time.Second, Desc: "Deadline for collection reads"},
	{Name: "timeout_mutation", Default: 10 * time.Second, Desc: "Deadline for collection writes"},
}

var (
	validEnvs      = map[string]bool{"dev": true, "test": true, "prod": true}
	validAuditLogs = map[string]bool{"log": true, "off": true}
)

// BindFlags registers one flag per configuration key on flags.
func BindFlags(flags *pflag.FlagSet) {
	for _, k := range appConfigKeys {
		switch d := k.Default.(type) {
		case string:
			flags.String(k.Name, d, k.Desc)
		case int:
			flags.Int(k.Name, d, k.Desc)
		case bool:
			flags.Bool(k.Name, d, k.Desc)
		case time.Duration:
			flags.Duration(k.Name, d, k.Desc)
		}
	}
}

// LoadConfig loads the app config.
//
// A .env file in the working directory is loaded into the environment
// first; variables already set win. configFile names an explicit config
// file; when empty, taskhub.yaml is looked up in the working directory and
// skipped if absent. flags may be nil.
//
// Precedence: flags > env > file > defaults.
func LoadConfig(flags *pflag.FlagSet, configFile string, logger *zap.Logger) (AppConfig, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return AppConfig{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for _, k := range appConfigKeys {
		v.SetDefault(k.Name, k.Default)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("taskhub")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return AppConfig{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		logger.Info("loaded config file", zap.String("path", v.ConfigFileUsed()))
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return AppConfig{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	cfg := AppConfig{
		Env:      v.GetString("env"),
		LogLevel: v.GetString("log_level"),
		HTTPAddr: v.GetString("http_addr"),

		DataDir:    v.GetString("data_dir"),
		UsersFile:  v.GetString("users_file"),
		TeamsFile:  v.GetString("teams_file"),
		BoardsFile: v.GetString("boards_file"),

		AuditLog:       v.GetString("audit_log"),
		WatchFiles:     v.GetBool("watch_files"),
		WatchDebounce:  v.GetDuration("watch_debounce"),
		MetricsEnabled: v.GetBool("metrics_enabled"),
		RateLimit:      v.GetInt("rate_limit"),
		RateWindow:     v.GetDuration("rate_window"),

		ReadHeaderTimeout: v.GetDuration("timeout_read_header"),
		ReadTimeout:       v.GetDuration("timeout_read"),
		WriteTimeout:      v.GetDuration("timeout_write"),
		IdleTimeout:       v.GetDuration("timeout_idle"),
		ShutdownTimeout:   v.GetDuration("timeout_shutdown"),

		HealthTimeout:   v.GetDuration("timeout_health"),
		LookupTimeout:   v.GetDuration("timeout_lookup"),
		MutationTimeout: v.GetDuration("timeout_mutation"),
	}

	dataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return AppConfig{}, fmt.Errorf("resolve data_dir: %w", err)
	}
	cfg.DataDir = dataDir
	cfg.UsersFile = resolvePath(dataDir, cfg.UsersFile)
	cfg.TeamsFile = resolvePath(dataDir, cfg.TeamsFile)
	cfg.BoardsFile = resolvePath(dataDir, cfg.BoardsFile)

	return cfg, nil
}

func resolvePath(dir, file string) string {
	if file == "" || filepath.IsAbs(file) {
		return filepath.Clean(file)
	}
	return filepath.Join(dir, file)
}

// ValidateConfig rejects configurations the service cannot start with.
func ValidateConfig(cfg AppConfig, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !validEnvs[cfg.Env] {
		return fmt.Errorf("env must be one of dev, test, prod (got %q)", cfg.Env)
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	if cfg.HTTPAddr == "" {
		return errors.New("http_addr is required")
	}
	if !validAuditLogs[cfg.AuditLog] {
		return fmt.Errorf("audit_log must be 'log' or 'off' (got %q)", cfg.AuditLog)
	}

	if cfg.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative (got %d)", cfg.RateLimit)
	}
	if cfg.RateLimit > 0 && cfg.RateWindow <= 0 {
		return fmt.Errorf("rate_window must be positive when rate_limit is set (got %s)", cfg.RateWindow)
	}

	names := []string{"users_file", "teams_file", "boards_file"}
	seen := make(map[string]string, len(names))
	for i, p := range cfg.CollectionFiles() {
		if p == "" || p == "." {
			return fmt.Errorf("%s is required", names[i])
		}
		if prev, dup := seen[p]; dup {
			return fmt.Errorf("%s and %s point at the same file %s", prev, names[i], p)
		}
		seen[p] = names[i]
	}

	durations := map[string]time.Duration{
		"timeout_read_header": cfg.ReadHeaderTimeout,
		"timeout_read":        cfg.ReadTimeout,
		"timeout_write":       cfg.WriteTimeout,
		"timeout_idle":        cfg.IdleTimeout,
		"timeout_shutdown":    cfg.ShutdownTimeout,
		"timeout_health":      cfg.HealthTimeout,
		"timeout_lookup":      cfg.LookupTimeout,
		"timeout_mutation":    cfg.MutationTimeout,
	}
	for _, k := range appConfigKeys {
		if d, ok := durations[k.Name]; ok && d <= 0 {
			return fmt.Errorf("%s must be positive (got %s)", k.Name, d)
		}
	}

	if cfg.Env == "prod" && cfg.LogLevel == "debug" {
		logger.Warn("debug logging enabled in production")
	}
	return nil
}
