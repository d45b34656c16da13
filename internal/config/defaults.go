package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Logs: LogsConfig{
			Root: "logs",
		},
		Storage: StorageConfig{
			Path:       "~/.config/devicepulse",
			SQLiteFile: "devicepulse.db",
		},
		Retention: RetentionConfig{
			Days: 90,
		},
		Export: ExportConfig{
			Dir: ".",
		},
		Report: ReportConfig{
			TopN: 5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
