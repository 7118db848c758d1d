// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds the service configuration.
//
// Values come from flags, TASKHUB_* environment variables, a taskhub.yaml
// file, or the defaults in appConfigKeys (in that order of precedence).
// Collection file paths are absolute once LoadConfig returns.
type AppConfig struct {
	Env      string `yaml:"env"`       // dev, test or prod
	LogLevel string `yaml:"log_level"` // zap level name
	HTTPAddr string `yaml:"http_addr"`

	// Collection files
	DataDir    string `yaml:"data_dir"`
	UsersFile  string `yaml:"users_file"`
	TeamsFile  string `yaml:"teams_file"`
	BoardsFile string `yaml:"boards_file"`

	AuditLog       string        `yaml:"audit_log"` // log or off
	WatchFiles     bool          `yaml:"watch_files"`
	WatchDebounce  time.Duration `yaml:"watch_debounce"`
	MetricsEnabled bool          `yaml:"metrics_enabled"`

	// Per-client write limit; 0 disables it
	RateLimit  int           `yaml:"rate_limit"`
	RateWindow time.Duration `yaml:"rate_window"`

	// HTTP server timeouts
	ReadHeaderTimeout time.Duration `yaml:"timeout_read_header"`
	ReadTimeout       time.Duration `yaml:"timeout_read"`
	WriteTimeout      time.Duration `yaml:"timeout_write"`
	IdleTimeout       time.Duration `yaml:"timeout_idle"`
	ShutdownTimeout   time.Duration `yaml:"timeout_shutdown"`

	// Store call deadlines, see package timeouts
	HealthTimeout   time.Duration `yaml:"timeout_health"`
	LookupTimeout   time.Duration `yaml:"timeout_lookup"`
	MutationTimeout time.Duration `yaml:"timeout_mutation"`
}

// CollectionFiles returns the users, teams and boards paths.
func (c AppConfig) CollectionFiles() []string {
	return []string{c.UsersFile, c.TeamsFile, c.BoardsFile}
}
