package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries the service-mode settings loadable from a YAML file.
// Flags override nothing here; the file is only consulted when -config
// is given.
type Config struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

func defaultConfig() Config {
	return Config{
		Host: "127.0.0.1",
		Port: 8080,
	}
}

func loadConfig(path string) (Config, error) {
	conf := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return conf, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return conf, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return conf, nil
}
