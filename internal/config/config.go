package config

import (
	"fmt"
	"net"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Redis    Redis  `yaml:"redis"`
	Solver   Solver `yaml:"solver"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Solver struct {
	// Parallel searches root actions concurrently.
	Parallel bool `yaml:"parallel" env:"SOLVER_PARALLEL"`
	// DisableCache searches every board instead of keeping solved boards in Redis.
	DisableCache bool `yaml:"disable-cache" env:"SOLVER_DISABLE_CACHE"`
	// CacheTTL bounds the life of a cached board; zero keeps it forever.
	CacheTTL time.Duration `yaml:"cache-ttl" env:"SOLVER_CACHE_TTL"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return net.JoinHostPort(that.Host, that.Port)
}
