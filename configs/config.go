package configs

import (
	"log"
	"sync"

	"github.com/spf13/viper"
)

var (
	config *Config
	once   sync.Once
)

type Config struct {
	Viper *viper.Viper
}

func GetConfig() *Config {
	once.Do(func() {
		config = initialize()
	})
	return config
}

func initialize() *Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AutomaticEnv()

	v.SetDefault("server.port", 8000)
	v.SetDefault("redis.address", "presence-hub-redis:6379")
	v.SetDefault("jwt.secret", "aycEW3OtV+axBFZQL4cplAVRFMhSEc+xRrcHXxhTM8U=")
	v.SetDefault("jwt.verification_timeout", 5)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "presence_hub")
	v.SetDefault("database.ssl", "disable")
	v.SetDefault("database.timezone", "UTC")

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	return &Config{Viper: v}
}

func (c *Config) JwtKey() []byte {
	return []byte(c.Viper.GetString("jwt.secret"))
}
