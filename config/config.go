package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "SHOPFRONT"

// Config represents the configuration implementation.
type Config struct {
	AppName string
	RunMode string
	Server  *Server
	Logger  *Logger
	Data    *Data
	Auth    *Auth
	Cookie  *Cookie
	Email   *Email
	Viper   *viper.Viper
}

// Server server config struct
type Server struct {
	Host   string
	Port   int
	Domain string
}

// Address returns the listen address.
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsRelease reports whether the app runs in release mode.
func (c *Config) IsRelease() bool {
	return c.RunMode == "release"
}

// Load loads the configuration from the file and the environment.
// An empty path searches the default locations; a missing file is then
// tolerated so the process can be configured from the environment alone.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/shopfront")
		v.AddConfigPath("$HOME/.shopfront")
		if ex, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(ex))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		AppName: v.GetString("app_name"),
		RunMode: v.GetString("run_mode"),
		Server: &Server{
			Host:   v.GetString("server.host"),
			Port:   v.GetInt("server.port"),
			Domain: v.GetString("server.domain"),
		},
		Logger: getLoggerConfig(v),
		Data:   getDataConfig(v),
		Auth:   getAuth(v),
		Cookie: getCookieConfig(v),
		Email:  getEmailConfig(v),
		Viper:  v,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings the process cannot start without.
func (c *Config) Validate() error {
	var errs []error

	if c.Data.MongoDB.URI == "" {
		errs = append(errs, errors.New("data.mongodb.uri is required"))
	}
	errs = append(errs, c.Auth.validate()...)
	errs = append(errs, c.Email.validate(c.IsRelease())...)
	errs = append(errs, c.Cookie.validate()...)

	switch c.RunMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("run_mode %q is invalid", c.RunMode))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "shopfront")
	v.SetDefault("run_mode", "release")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.domain", "localhost")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.output_file", "")
	v.SetDefault("logger.desensitization", true)

	v.SetDefault("data.mongodb.uri", "")
	v.SetDefault("data.mongodb.database", "shopfront")
	v.SetDefault("data.mongodb.timeout", "10s")
	v.SetDefault("data.redis.addr", "")
	v.SetDefault("data.redis.username", "")
	v.SetDefault("data.redis.password", "")
	v.SetDefault("data.redis.db", 0)
	v.SetDefault("data.redis.dial_timeout", "5s")

	v.SetDefault("auth.jwt.access_secret", "")
	v.SetDefault("auth.jwt.refresh_secret", "")
	v.SetDefault("auth.jwt.admin_secret", "")
	v.SetDefault("auth.jwt.access_expire", DefaultAccessExpire)
	v.SetDefault("auth.jwt.refresh_expire", DefaultRefreshExpire)
	v.SetDefault("auth.jwt.admin_expire", DefaultAdminExpire)
	v.SetDefault("auth.jwt.issuer", "shopfront")
	v.SetDefault("auth.bcrypt_cost", DefaultBcryptCost)
	v.SetDefault("auth.allow_query_token", false)
	v.SetDefault("auth.verification.code_length", DefaultCodeLength)
	v.SetDefault("auth.verification.code_ttl", DefaultCodeTTL)
	v.SetDefault("auth.verification.max_attempts", DefaultMaxAttempts)

	v.SetDefault("cookie.domain", "")
	v.SetDefault("cookie.secure", true)
	v.SetDefault("cookie.same_site", "none")

	v.SetDefault("email.provider", "log")
	v.SetDefault("email.from", "")
	v.SetDefault("email.mailgun.domain", "")
	v.SetDefault("email.mailgun.key", "")
	v.SetDefault("email.mailgun.api_base", "")
	v.SetDefault("email.sendgrid.key", "")
	v.SetDefault("email.smtp.host", "")
	v.SetDefault("email.smtp.port", 587)
	v.SetDefault("email.smtp.username", "")
	v.SetDefault("email.smtp.password", "")
}
