package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env            string        `yaml:"env" env:"ENV" env-default:"local"`
	OffersCacheTTL time.Duration `yaml:"offers_cache_ttl" env:"OFFERS_CACHE_TTL" env-default:"15m"`
	Log            LogConfig     `yaml:"log"`
	Redis          RedisConfig   `yaml:"redis"`
	Amadeus        AmadeusConfig `yaml:"amadeus"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"warn"`
}

// RedisConfig enables the offers cache only when an address is set;
// the tool runs fine without any Redis around.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type AmadeusConfig struct {
	BaseURL    string        `yaml:"base_url" env:"AMADEUS_BASE_URL" env-default:"https://test.api.amadeus.com"`
	Key        string        `yaml:"key" env:"AMADEUS_API_KEY"`
	Secret     string        `yaml:"secret" env:"AMADEUS_API_SECRET"`
	Currency   string        `yaml:"currency" env:"AMADEUS_CURRENCY" env-default:"GBP"`
	Timeout    time.Duration `yaml:"timeout" env:"AMADEUS_TIMEOUT" env-default:"20s"`
	RetryDelay time.Duration `yaml:"retry_delay" env:"AMADEUS_RETRY_DELAY" env-default:"5s"`
	RPS        float64       `yaml:"rps" env:"AMADEUS_RPS" env-default:"1"`
}

// MustLoad reads CONFIG_PATH when it points at a file, otherwise the
// environment alone. The command line belongs to the search flags, so
// unlike a service there is no -config flag here.
func MustLoad() *Config {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if _, err := os.Stat(path); err != nil {
			panic("config file does not exist: " + path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			panic("cannot read the config: " + err.Error())
		}
		return &cfg
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("cannot read the config: " + err.Error())
	}
	return &cfg
}
