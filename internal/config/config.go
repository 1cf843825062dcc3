package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Study    StudyConfig    `mapstructure:"study"    validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains authentication and token settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// StudyConfig contains the tunables of the review and quiz engines.
type StudyConfig struct {
	// SessionLimit is the maximum number of words per review session.
	SessionLimit int `mapstructure:"session_limit" validate:"required,gt=0"`

	// MinStudyCount is the threshold below which a word still counts as
	// unlearned when building a learning-mode queue.
	MinStudyCount int `mapstructure:"min_study_count" validate:"gte=0"`

	// DailyGoal is the daily study goal seeded into newly created user
	// statistics.
	DailyGoal int `mapstructure:"daily_goal" validate:"required,gt=0"`

	// QuestionSeconds is the per-question countdown for quizzes.
	QuestionSeconds int `mapstructure:"question_seconds" validate:"required,gt=0"`
}
