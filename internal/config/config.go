package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	Persistence PersistenceConfig `mapstructure:"persistence"`
	Casino      CasinoConfig      `mapstructure:"casino"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite, postgres, mysql
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Expire int    `mapstructure:"expire"` // hours
}

type PersistenceConfig struct {
	Driver       string `mapstructure:"driver"` // gorm, redis, memory
	StateKey     string `mapstructure:"stateKey"`
	HistoryLimit int    `mapstructure:"historyLimit"`
}

type CasinoConfig struct {
	StartingBalance int64                    `mapstructure:"startingBalance"`
	Variants        map[string]VariantConfig `mapstructure:"variants"`
}

type VariantConfig struct {
	Title       string  `mapstructure:"title"`
	Policy      string  `mapstructure:"policy"` // fair, weighted
	AllowDouble bool    `mapstructure:"allowDouble"`
	Win         float64 `mapstructure:"win"`
	Loss        float64 `mapstructure:"loss"`
	Draw        float64 `mapstructure:"draw"`
}

var GlobalConfig *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "casino.db")
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("jwt.secret", "casino-dev-secret")
	v.SetDefault("jwt.expire", 720)
	v.SetDefault("persistence.driver", "gorm")
	v.SetDefault("persistence.stateKey", "fakemegamble_state")
	v.SetDefault("persistence.historyLimit", 200)
	v.SetDefault("casino.startingBalance", 10000)
}

func LoadConfig(path string) {
	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}
	GlobalConfig = cfg
}

// Load reads path into a Config. A missing path yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		log.Fatalf("Unable to decode defaults, %v", err)
	}
	return cfg
}
