package config

import (
	"time"

	"github.com/spf13/viper"
)

// Data represents the data configuration
type Data struct {
	MongoDB *MongoDB
	Redis   *Redis
}

// MongoDB mongodb config struct
type MongoDB struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Redis redis config struct
type Redis struct {
	Addr        string
	Username    string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// Enabled reports whether a redis address is configured.
func (r *Redis) Enabled() bool {
	return r != nil && r.Addr != ""
}

// getDataConfig returns data config
func getDataConfig(v *viper.Viper) *Data {
	return &Data{
		MongoDB: &MongoDB{
			URI:      v.GetString("data.mongodb.uri"),
			Database: getStringOrDefault(v, "data.mongodb.database", "shopfront"),
			Timeout:  getDurationOrDefault(v, "data.mongodb.timeout", 10*time.Second),
		},
		Redis: &Redis{
			Addr:        v.GetString("data.redis.addr"),
			Username:    v.GetString("data.redis.username"),
			Password:    v.GetString("data.redis.password"),
			DB:          v.GetInt("data.redis.db"),
			DialTimeout: getDurationOrDefault(v, "data.redis.dial_timeout", 5*time.Second),
		},
	}
}
