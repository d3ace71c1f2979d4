package server

import (
	"github.com/joeshaw/envdecode"
)

// Config holds the process configuration, sourced from the environment.
type Config struct {
	Addr        string `env:"ADDR,default=:8080"`
	StaticDir   string `env:"STATIC_DIR,default=web/dist"`
	HistoryPath string `env:"HISTORY_PATH,default=history.json"`
	Debug       bool   `env:"DEBUG,default=false"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
