package config

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level            string            `yaml:"level"`
	Structured       bool              `yaml:"structured"`
	StructuredFormat string            `yaml:"structured_format"`
	IncludePID       bool              `yaml:"include_pid"`
	ExtraFields      map[string]string `yaml:"extra_fields,omitempty"`
}

// Config is the root configuration structure.
type Config struct {
	// Dir holds the database and the generated zone files.
	Dir string `yaml:"dir"`
	// Database is the database file name inside Dir.
	Database string `yaml:"database"`
	// Prompt is shown before each line on an interactive terminal.
	Prompt  string        `yaml:"prompt"`
	Logging LoggingConfig `yaml:"logging"`
}
