package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// EnvConfig is the environment form of Config.
type EnvConfig struct {
	AddPrefixes    []string `env:"GQLPATCH_ADD_PREFIXES" envSeparator:","`
	RemovePrefixes []string `env:"GQLPATCH_REMOVE_PREFIXES" envSeparator:","`
	UpdatePrefixes []string `env:"GQLPATCH_UPDATE_PREFIXES" envSeparator:","`
	IDField        string   `env:"GQLPATCH_ID_FIELD"`
}

// ParseEnv loads environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// FromEnv returns Default() merged with any GQLPATCH_* variables that are set.
func FromEnv() (Config, error) {
	var ec EnvConfig
	if err := ParseEnv(&ec); err != nil {
		return Config{}, err
	}
	cfg := Default().Merge(Config{
		AddPrefixes:    trimAll(ec.AddPrefixes),
		RemovePrefixes: trimAll(ec.RemovePrefixes),
		UpdatePrefixes: trimAll(ec.UpdatePrefixes),
		IDField:        strings.TrimSpace(ec.IDField),
	})
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// trimAll trims each list entry, so "update, edit" yields "edit". Nil stays nil.
func trimAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
