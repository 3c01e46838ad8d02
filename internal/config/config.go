package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Log     LogConfig     `mapstructure:"log" validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Study   StudyConfig   `mapstructure:"study"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// Storage drivers
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverBadger   = "badger"
)

// StorageConfig selects and configures the deck storage backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=file postgres badger"`

	// DataDir holds deck.json and the backups directory for the file driver,
	// and the database directory for the badger driver.
	DataDir string `mapstructure:"data_dir" validate:"required_unless=Driver postgres"`

	// DatabaseURL is the connection string for the postgres driver.
	DatabaseURL string `mapstructure:"database_url" validate:"required_if=Driver postgres,omitempty,url"`
}

// StudyConfig holds the session filter applied when a study session starts.
type StudyConfig struct {
	ShowOnlyDue bool     `mapstructure:"show_only_due"`
	Lessons     []string `mapstructure:"lessons"`
}
