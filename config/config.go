// Package config loads winesheet settings from an optional config file,
// a .env file and WINESHEET_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ByLCY/winesheet/imageloader"
	"github.com/ByLCY/winesheet/logging"
	"github.com/ByLCY/winesheet/store"
)

const EnvPrefix = "WINESHEET"

type Config struct {
	Env      string
	Server   ServerConfig
	Database store.Config
	Media    MediaConfig
	S3       S3Config
	Document DocumentConfig
	Log      logging.Config
}

type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// GenerateTimeout bounds one PDF generation, image fetch included.
	GenerateTimeout time.Duration
}

// MediaConfig tells the image loader where product images live.
type MediaConfig struct {
	BaseURL      string
	PublicDir    string
	Placeholder  string
	Origin       string
	Timeout      time.Duration
	MaxDimension int
}

type S3Config struct {
	Enabled bool
	imageloader.S3Config
}

type DocumentConfig struct {
	Renderer string // fpdf | canvas
	Locale   string // fi | en
	Theme    string // 主题文件路径，空则使用内置主题
	Validate bool
}

// LoadOptions points at optional files; both may be empty.
type LoadOptions struct {
	ConfigFile string
	EnvFile    string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.generate_timeout", "30s")

	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", "30m")

	v.SetDefault("media.placeholder", "/placeholder-wine.png")
	v.SetDefault("media.timeout", "10s")
	v.SetDefault("media.max_dimension", 1200)

	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.use_ssl", true)

	v.SetDefault("document.renderer", "fpdf")
	v.SetDefault("document.locale", "fi")
	v.SetDefault("document.validate", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
}

// Load resolves configuration. Priority, highest first: WINESHEET_*
// environment variables (including those from the .env file), the config
// file, built-in defaults.
func Load(opts LoadOptions) (*Config, error) {
	if err := loadDotEnv(opts.EnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Env: v.GetString("env"),
		Server: ServerConfig{
			Addr:            v.GetString("server.addr"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
			GenerateTimeout: v.GetDuration("server.generate_timeout"),
		},
		Database: store.Config{
			URL:             v.GetString("database.url"),
			Host:            v.GetString("database.host"),
			Port:            v.GetString("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			Name:            v.GetString("database.name"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		Media: MediaConfig{
			BaseURL:      v.GetString("media.base_url"),
			PublicDir:    v.GetString("media.public_dir"),
			Placeholder:  v.GetString("media.placeholder"),
			Origin:       v.GetString("media.origin"),
			Timeout:      v.GetDuration("media.timeout"),
			MaxDimension: v.GetInt("media.max_dimension"),
		},
		S3: S3Config{
			Enabled: v.GetBool("s3.enabled"),
			S3Config: imageloader.S3Config{
				Region:       v.GetString("s3.region"),
				Endpoint:     v.GetString("s3.endpoint"),
				AccessKey:    v.GetString("s3.access_key"),
				SecretKey:    v.GetString("s3.secret_key"),
				UsePathStyle: v.GetBool("s3.use_path_style"),
				UseSSL:       v.GetBool("s3.use_ssl"),
			},
		},
		Document: DocumentConfig{
			Renderer: strings.ToLower(v.GetString("document.renderer")),
			Locale:   v.GetString("document.locale"),
			Theme:    v.GetString("document.theme"),
			Validate: v.GetBool("document.validate"),
		},
		Log: logging.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv 在非生产环境下读取 .env，文件不存在时忽略。
func loadDotEnv(path string) error {
	if os.Getenv(EnvPrefix+"_ENV") == "production" {
		return nil
	}
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if err := godotenv.Overload(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Validate rejects values the rest of the program cannot work with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Document.Renderer {
	case "fpdf", "canvas":
	default:
		errs = append(errs, fmt.Errorf("document.renderer must be fpdf or canvas, got %q", c.Document.Renderer))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Media.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("media.timeout must be positive"))
	}
	if c.Server.GenerateTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.generate_timeout must be positive"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether env is "production".
func (c *Config) IsProduction() bool { return c.Env == "production" }
