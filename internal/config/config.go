package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config represents the complete application configuration.
type Config struct {
	HTTP     HTTPConfig    `toml:"http"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig   `toml:"redis"`
	Minio    MinioConfig   `toml:"minio"`
	Company  CompanyConfig `toml:"company"`
	Session  SessionConfig `toml:"session"`
	Export   ExportConfig  `toml:"export"`
	Admin    AdminConfig   `toml:"admin"`
}

type HTTPConfig struct {
	Port int `toml:"port"`
}

type DatabaseConfig struct {
	URL string `toml:"url"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type MinioConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	UseSSL    bool   `toml:"use_ssl"`
}

// CompanyConfig is the business identity printed on every export.
type CompanyConfig struct {
	Name    string `toml:"name"`
	Address string `toml:"address"`
	Phone   string `toml:"phone"`
}

type SessionConfig struct {
	TTLHours int `toml:"ttl_hours"`
}

// ExportConfig selects the PDF layout policy and, when ArchiveBucket is set,
// enables archiving of generated exports to object storage.
type ExportConfig struct {
	PDFLayout     string `toml:"pdf_layout"`
	ArchiveBucket string `toml:"archive_bucket"`
}

// AdminConfig seeds the initial login when the users table is empty.
type AdminConfig struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// Load reads the TOML config file when present and applies environment
// overrides for the deployment-specific values.
func Load(filename string) (*Config, error) {
	cfg := &Config{
		HTTP:    HTTPConfig{Port: 8080},
		Redis:   RedisConfig{Addr: "localhost:6379"},
		Minio:   MinioConfig{Endpoint: "localhost:9000", AccessKey: "minioadmin", SecretKey: "minioadmin"},
		Session: SessionConfig{TTLHours: 24},
		Export:  ExportConfig{PDFLayout: "dynamic"},
	}

	if filename != "" {
		if _, err := os.Stat(filename); err == nil {
			if _, err := toml.DecodeFile(filename, cfg); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	applyEnvOverrides(cfg)

	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("database URL is required (set [database] url or DATABASE_URL)")
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Port = port
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		}
	}
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		cfg.Minio.Endpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		cfg.Minio.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		cfg.Minio.SecretKey = v
	}
	if v := os.Getenv("MINIO_USE_SSL"); v == "true" {
		cfg.Minio.UseSSL = true
	}
	if v := os.Getenv("ADMIN_USERNAME"); v != "" {
		cfg.Admin.Username = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.Admin.Password = v
	}
}
