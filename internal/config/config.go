package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Security SecurityConfig `json:"security"`
	Logging  LoggingConfig  `json:"logging"`
	Workers  WorkersConfig  `json:"workers"`
	Workflow WorkflowConfig `json:"workflow"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host           string        `json:"host"`
	Port           int           `json:"port"`
	User           string        `json:"user"`
	Password       string        `json:"password"`
	DBName         string        `json:"db_name"`
	SSLMode        string        `json:"ssl_mode"`
	MaxConnections int           `json:"max_connections"`
	MaxIdleConns   int           `json:"max_idle_conns"`
	MaxLifetime    time.Duration `json:"max_lifetime"`
	MigrationsPath string        `json:"migrations_path"`
}

// SecurityConfig holds authentication settings
type SecurityConfig struct {
	JWTSecret string        `json:"jwt_secret"`
	TokenTTL  time.Duration `json:"token_ttl"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string `json:"level"`
}

// WorkersConfig holds background worker schedules
type WorkersConfig struct {
	RiskRecomputeSchedule string `json:"risk_recompute_schedule"`
}

// WorkflowConfig holds tunable workflow thresholds. Approval limits
// map role name to the maximum purchase order amount that role may
// approve; roles absent from the map are uncapped.
type WorkflowConfig struct {
	ApprovalLimits map[string]float64 `json:"approval_limits"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Default config
	config := &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    os.Getenv("USER"),
			DBName:  "procurement_portal",
			SSLMode: "disable",
		},
		Security: SecurityConfig{
			TokenTTL: 12 * time.Hour,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Workers: WorkersConfig{
			RiskRecomputeSchedule: "@every 15m",
		},
	}

	// Load from file if exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	overrideWithEnv(config)

	if config.Security.JWTSecret == "" {
		return nil, fmt.Errorf("security.jwt_secret is required (set JWT_SECRET)")
	}

	return config, nil
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if dbHost := os.Getenv("DATABASE_HOST"); dbHost != "" {
		config.Database.Host = dbHost
	}
	if dbPort := os.Getenv("DATABASE_PORT"); dbPort != "" {
		if p, err := strconv.Atoi(dbPort); err == nil {
			config.Database.Port = p
		}
	}
	if dbUser := os.Getenv("DATABASE_USER"); dbUser != "" {
		config.Database.User = dbUser
	}
	if dbPass := os.Getenv("DATABASE_PASSWORD"); dbPass != "" {
		config.Database.Password = dbPass
	}
	if dbName := os.Getenv("DATABASE_DBNAME"); dbName != "" {
		config.Database.DBName = dbName
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Security.JWTSecret = secret
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if schedule := os.Getenv("RISK_RECOMPUTE_SCHEDULE"); schedule != "" {
		config.Workers.RiskRecomputeSchedule = schedule
	}
}

// GetDatabaseURL returns the database connection string
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
