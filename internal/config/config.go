package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	// Scoring covers both sides of the scoring boundary: where the API
	// finds the scoring service, and how the scoring service itself runs.
	Scoring struct {
		Host       string `yaml:"host" env:"SCORING_HOST"`
		Port       string `yaml:"port" env:"SCORING_PORT"`
		Timeout    string `yaml:"timeout" env:"SCORING_TIMEOUT"`
		ListenPort string `yaml:"listen_port" env:"SCORING_LISTEN_PORT"`
		ModelPath  string `yaml:"model_path" env:"SCORING_MODEL_PATH"`
	} `yaml:"scoring"`

	Auth struct {
		JWTSecret          string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
		TokenExpiration    string `yaml:"token_expiration" env:"AUTH_TOKEN_EXPIRATION"`
		Issuer             string `yaml:"issuer" env:"AUTH_ISSUER"`
		BankerEmail        string `yaml:"banker_email" env:"AUTH_BANKER_EMAIL"`
		BankerPasswordHash string `yaml:"banker_password_hash" env:"AUTH_BANKER_PASSWORD_HASH"`
	} `yaml:"auth"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// A .env file, when present, feeds the environment overrides below
	_ = godotenv.Load()

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "loanflow"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.Scoring.Host = "localhost"
	config.Scoring.Port = "8001"
	config.Scoring.Timeout = "10s"
	config.Scoring.ListenPort = "8001"
	config.Scoring.ModelPath = "configs/model.json"

	config.Auth.TokenExpiration = "1h"
	config.Auth.Issuer = "loanflow.app"
	config.Auth.BankerEmail = "banker@loanflow.app"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.Auth.JWTSecret == "" {
		return fmt.Errorf("auth JWT secret is required")
	}

	if _, err := time.ParseDuration(config.Auth.TokenExpiration); err != nil {
		return fmt.Errorf("invalid auth token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.Scoring.Timeout); err != nil {
		return fmt.Errorf("invalid scoring timeout format: %w", err)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// GetScoringURL returns the base URL of the scoring service
func (c *Config) GetScoringURL() string {
	return fmt.Sprintf("http://%s:%s", c.Scoring.Host, c.Scoring.Port)
}

// GetScoringTimeout parses the configured scoring timeout, falling back to 10s
func (c *Config) GetScoringTimeout() time.Duration {
	d, err := time.ParseDuration(c.Scoring.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetTokenExpiration parses the configured token expiration, falling back to 1h
func (c *Config) GetTokenExpiration() time.Duration {
	d, err := time.ParseDuration(c.Auth.TokenExpiration)
	if err != nil {
		return time.Hour
	}
	return d
}
