// Package config provides a reusable loader for taskcore configuration files
// and environment variables. It is versioned so that applications can depend
// on a stable API contract.
//
// Version: v0.1.0
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/DaveEstey/openbook-protocol/core"
	"github.com/DaveEstey/openbook-protocol/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig core.Config

// Load reads cmd/config/default.yaml, merges cmd/config/<env>.yaml over it
// when env is non-empty, loads a .env file into the process environment if
// present, and unmarshals into AppConfig. The resulting core.Config is
// stored in AppConfig and returned.
func Load(env string) (*core.Config, error) {
	_ = godotenv.Load()

	viper.SetConfigName("default")
	viper.AddConfigPath("cmd/config")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.SetEnvPrefix("TASKCORE")
	viper.AutomaticEnv()

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the TASKCORE_ENV environment
// variable to select which overlay file to merge.
func LoadFromEnv() (*core.Config, error) {
	return Load(utils.EnvOrDefault("TASKCORE_ENV", ""))
}

// GovernanceAuthoritySet parses cfg.GovernanceAuthorities into a
// core.GovernanceAuthoritySet. An entry that fails to parse as a hex-encoded
// Address makes it return an error and no set.
func GovernanceAuthoritySet(cfg *core.Config) (core.GovernanceAuthoritySet, error) {
	addrs := make([]core.Address, 0, len(cfg.GovernanceAuthorities))
	for _, s := range cfg.GovernanceAuthorities {
		a, err := core.ParseAddress(s)
		if err != nil {
			return nil, utils.Wrap(err, "parse governance authority")
		}
		addrs = append(addrs, a)
	}
	return core.NewGovernanceAuthoritySet(addrs...), nil
}
