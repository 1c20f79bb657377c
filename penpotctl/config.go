package main

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/docopt/docopt-go"
)

type Config struct {
	ApiUrl   string `toml:"api_url"`
	Email    string `toml:"email"`
	Password string `toml:"password"`
}

// loadConfig reads the config file named by --config. A missing file is
// not an error; flags and environment variables can stand in for all of
// its fields.
func loadConfig(opts docopt.Opts) *Config {
	config := &Config{}

	path, _ := opts.String("--config")
	path = expandHome(path)
	if _, err := os.Stat(path); err != nil {
		return config
	}
	if _, err := toml.DecodeFile(path, config); err != nil {
		Err.Fatalf("could not parse %s: %s", path, err)
	}
	return config
}
