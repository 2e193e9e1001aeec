package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	SRS      SRSConfig      `mapstructure:"srs"`
	Mail     MailConfig     `mapstructure:"mail"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"gt=0"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost" validate:"gte=0,lte=31"`
}

// SRSConfig contains the scheduler calibration overrides. Zero values keep
// the standard SM-2 defaults.
type SRSConfig struct {
	MinEaseFactor   float64 `mapstructure:"min_ease_factor" validate:"gte=0"`
	PassThreshold   int     `mapstructure:"pass_threshold" validate:"gte=0,lte=5"`
	FirstInterval   int     `mapstructure:"first_interval" validate:"gte=0"`
	SecondInterval  int     `mapstructure:"second_interval" validate:"gte=0"`
	RelearnInterval int     `mapstructure:"relearn_interval" validate:"gte=0"`
	MaxInterval     int     `mapstructure:"max_interval" validate:"gte=0"`
}

// MailConfig contains the SMTP settings for deck moderation notifications.
// When Host is empty, notifications are logged instead of sent.
type MailConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"gte=0,lte=65535"`
	From string `mapstructure:"from" validate:"omitempty,email"`
}
