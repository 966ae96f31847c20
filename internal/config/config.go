package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Security SecurityConfig `yaml:"security"`
	CORS     CORSConfig     `yaml:"cors"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"`
}

type DatabaseConfig struct {
	Type     string         `yaml:"type"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	Charset  string `yaml:"charset"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

type JWTConfig struct {
	Secret           string `yaml:"secret"`
	AccessExpiresIn  string `yaml:"access_expires_in"`
	RefreshExpiresIn string `yaml:"refresh_expires_in"`
	Issuer           string `yaml:"issuer"`
}

type SecurityConfig struct {
	BcryptCost int `yaml:"bcrypt_cost"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load reads the configuration file and applies environment overrides.
func Load(configPath string) (*Config, error) {
	// .env overlay for local development; missing file is fine
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if jwtSecret := os.Getenv("NETVAULT_JWT_SECRET"); jwtSecret != "" {
		cfg.JWT.Secret = jwtSecret
	}

	if dbType := os.Getenv("NETVAULT_DB_TYPE"); dbType != "" {
		cfg.Database.Type = dbType
	}

	if dbPath := os.Getenv("NETVAULT_DB_PATH"); dbPath != "" {
		cfg.Database.SQLite.Path = dbPath
	}

	if mysqlHost := os.Getenv("NETVAULT_MYSQL_HOST"); mysqlHost != "" {
		cfg.Database.MySQL.Host = mysqlHost
	}

	if mysqlUser := os.Getenv("NETVAULT_MYSQL_USER"); mysqlUser != "" {
		cfg.Database.MySQL.Username = mysqlUser
	}

	if mysqlPass := os.Getenv("NETVAULT_MYSQL_PASSWORD"); mysqlPass != "" {
		cfg.Database.MySQL.Password = mysqlPass
	}

	if mysqlDB := os.Getenv("NETVAULT_MYSQL_DATABASE"); mysqlDB != "" {
		cfg.Database.MySQL.Database = mysqlDB
	}

	if pgHost := os.Getenv("NETVAULT_POSTGRES_HOST"); pgHost != "" {
		cfg.Database.Postgres.Host = pgHost
	}

	if pgUser := os.Getenv("NETVAULT_POSTGRES_USER"); pgUser != "" {
		cfg.Database.Postgres.Username = pgUser
	}

	if pgPass := os.Getenv("NETVAULT_POSTGRES_PASSWORD"); pgPass != "" {
		cfg.Database.Postgres.Password = pgPass
	}

	if pgDB := os.Getenv("NETVAULT_POSTGRES_DATABASE"); pgDB != "" {
		cfg.Database.Postgres.Database = pgDB
	}

	if cfg.JWT.AccessExpiresIn == "" {
		cfg.JWT.AccessExpiresIn = "1h"
	}
	if cfg.JWT.RefreshExpiresIn == "" {
		cfg.JWT.RefreshExpiresIn = "720h"
	}
	if cfg.Security.BcryptCost == 0 {
		cfg.Security.BcryptCost = 12
	}

	// Ensure data directory exists for SQLite
	if cfg.Database.Type == "sqlite" {
		dataDir := filepath.Dir(cfg.Database.SQLite.Path)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	if cfg.Database.Type == "mysql" {
		if cfg.Database.MySQL.Username == "" {
			return nil, fmt.Errorf("MySQL username is required")
		}
		if cfg.Database.MySQL.Database == "" {
			return nil, fmt.Errorf("MySQL database name is required")
		}
	}

	if cfg.Database.Type == "postgres" {
		if cfg.Database.Postgres.Username == "" {
			return nil, fmt.Errorf("Postgres username is required")
		}
		if cfg.Database.Postgres.Database == "" {
			return nil, fmt.Errorf("Postgres database name is required")
		}
	}

	return &cfg, nil
}
