package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	APIPort        int      `mapstructure:"apiPort"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
	TempDir        string   `mapstructure:"tempDir"`
	MaxUploadMB    int      `mapstructure:"maxUploadMB"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	Database struct {
		Type            string        `mapstructure:"type"`
		Path            string        `mapstructure:"path"`
		Host            string        `mapstructure:"host"`
		Port            string        `mapstructure:"port"`
		Name            string        `mapstructure:"name"`
		User            string        `mapstructure:"user"`
		Password        string        `mapstructure:"password"`
		SSLMode         string        `mapstructure:"sslMode"`
		MaxOpenConns    int           `mapstructure:"maxOpenConns"`
		MaxIdleConns    int           `mapstructure:"maxIdleConns"`
		ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"`
	} `mapstructure:"database"`

	Auth struct {
		JWTSecret string        `mapstructure:"jwtSecret"`
		TokenTTL  time.Duration `mapstructure:"tokenTTL"`
	} `mapstructure:"auth"`

	Redis struct {
		Addr     string        `mapstructure:"addr"`
		Password string        `mapstructure:"password"`
		DB       int           `mapstructure:"db"`
		Requests int           `mapstructure:"requests"`
		Window   time.Duration `mapstructure:"window"`
	} `mapstructure:"redis"`

	AMQP struct {
		URL   string `mapstructure:"url"`
		Queue string `mapstructure:"queue"`
	} `mapstructure:"amqp"`

	Storage struct {
		Enabled         bool          `mapstructure:"enabled"`
		Endpoint        string        `mapstructure:"endpoint"`
		Region          string        `mapstructure:"region"`
		Bucket          string        `mapstructure:"bucket"`
		AccessKeyID     string        `mapstructure:"accessKeyID"`
		SecretAccessKey string        `mapstructure:"secretAccessKey"`
		PresignTTL      time.Duration `mapstructure:"presignTTL"`
	} `mapstructure:"storage"`

	OCR struct {
		Languages []string `mapstructure:"languages"`
		PoolSize  int      `mapstructure:"poolSize"`
	} `mapstructure:"ocr"`

	PDF struct {
		RenderDPI   float64 `mapstructure:"renderDPI"`
		JPEGQuality int     `mapstructure:"jpegQuality"`
	} `mapstructure:"pdf"`
}

// IsProduction reports whether cookies must carry the Secure flag.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// MaxUploadBytes is the request body cap for multipart uploads.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("apiPort", 3000)
	v.SetDefault("environment", "development")
	v.SetDefault("allowedOrigins", []string{"http://localhost:3001"})
	v.SetDefault("tempDir", "temp")
	v.SetDefault("maxUploadMB", 25)

	v.SetDefault("log.level", "info")

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.path", "data/toolur.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "toolur")
	v.SetDefault("database.user", "toolur")
	v.SetDefault("database.password", "")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 10)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", time.Hour)

	v.SetDefault("auth.jwtSecret", defaultJWTSecret)
	v.SetDefault("auth.tokenTTL", 7*24*time.Hour)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.requests", 60)
	v.SetDefault("redis.window", time.Minute)

	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.queue", "tool.usage")

	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.accessKeyID", "")
	v.SetDefault("storage.secretAccessKey", "")
	v.SetDefault("storage.presignTTL", 24*time.Hour)

	v.SetDefault("ocr.languages", []string{"eng"})
	v.SetDefault("ocr.poolSize", 2)

	v.SetDefault("pdf.renderDPI", 144.0)
	v.SetDefault("pdf.jpegQuality", 95)
}

// LoadConfig loads the configuration from file and environment variables.
// A missing file is not an error; every key has a default.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		log.Printf("Warning: config file %s not found, using defaults and environment", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	if c.APIPort <= 0 {
		return fmt.Errorf("apiPort must be positive, got %d", c.APIPort)
	}
	switch c.Database.Type {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}
	if c.IsProduction() && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == defaultJWTSecret) {
		return errors.New("auth.jwtSecret must be set in production")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("maxUploadMB must be positive, got %d", c.MaxUploadMB)
	}
	if c.Storage.Enabled && c.Storage.Bucket == "" {
		return errors.New("storage.bucket is required when storage is enabled")
	}
	return nil
}
