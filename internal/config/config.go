package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Store backends for metadata.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Payload backends.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	TablePrefix string // separates dev/test/prod tables in one database
	Store       string // postgres | memory
	CORSOrigins string
	JWKSURL     string // empty = dev static auth
	DevOwnerID  string
	QuotaBytes  int64 // fixed per-account byte budget
	Storage     StorageConfig
}

// StorageConfig selects the payload backend once at startup. Call sites
// never branch on the variant; they see only the Backend interface.
type StorageConfig struct {
	Backend   string   `yaml:"backend"` // local | s3
	LocalRoot string   `yaml:"local_root"`
	S3        S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		TablePrefix: getEnv("TABLE_PREFIX", ""),
		Store:       getEnv("STORE", StoreMemory),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		JWKSURL:     getEnv("JWKS_URL", ""),
		DevOwnerID:  getEnv("DEV_OWNER_ID", "dev-owner"),
		QuotaBytes:  DefaultQuotaBytes,
		Storage: StorageConfig{
			Backend:   getEnv("STORAGE_BACKEND", BackendLocal),
			LocalRoot: getEnv("STORAGE_ROOT", "./data"),
			S3: S3Config{
				Endpoint:  getEnv("S3_ENDPOINT", ""),
				AccessKey: getEnv("S3_ACCESS_KEY", ""),
				SecretKey: getEnv("S3_SECRET_KEY", ""),
				Bucket:    getEnv("S3_BUCKET", "cumulus"),
				UseSSL:    getEnv("S3_USE_SSL", "false") == "true",
			},
		},
	}

	// Optional YAML file overrides the storage and quota settings
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fileConfig is the YAML-settable subset of Config
type fileConfig struct {
	Storage    *StorageConfig `yaml:"storage"`
	QuotaBytes *int64         `yaml:"quota_bytes"`
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Storage != nil {
		c.Storage = *fc.Storage
	}
	if fc.QuotaBytes != nil {
		c.QuotaBytes = *fc.QuotaBytes
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("STORE=postgres requires DATABASE_URL")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}

	switch c.Storage.Backend {
	case BackendLocal:
		if c.Storage.LocalRoot == "" {
			return fmt.Errorf("local storage requires a root directory")
		}
	case BackendS3:
		if c.Storage.S3.Endpoint == "" {
			return fmt.Errorf("s3 storage requires S3_ENDPOINT")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.QuotaBytes <= 0 {
		return fmt.Errorf("quota must be positive, got %d", c.QuotaBytes)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
