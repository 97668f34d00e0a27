package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

// initConfig wires viper: GHPR_* environment variables override an
// optional ~/.config/ghpr/config.yaml. All keys have working defaults so
// the tool runs with no config at all.
func initConfig() {
	viper.SetEnvPrefix("GHPR")
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.config/ghpr")
	viper.AddConfigPath(".")

	viper.SetDefault("draft_dir", os.TempDir())
	viper.SetDefault("worktree_dir", os.TempDir())
	viper.SetDefault("merge_method", "squash")

	// Missing config file is fine.
	_ = viper.ReadInConfig()
}

// resolveToken finds a GitHub access credential from the ambient
// environment: GITHUB_TOKEN, then GH_TOKEN, then the gh CLI's hosts.yml
// (legacy oauth_token field, or the system keyring for newer gh
// versions). Tokens are never accepted as CLI arguments so they cannot
// leak into shell history or process lists.
func resolveToken() (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}
	if token := os.Getenv("GH_TOKEN"); token != "" {
		return token, nil
	}

	hostname := "github.com"

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get home directory: %w", err)
	}

	hostsPath := filepath.Join(home, ".config", "gh", "hosts.yml")
	data, err := os.ReadFile(hostsPath)
	if err != nil {
		return "", fmt.Errorf("no GITHUB_TOKEN and could not read gh config: %w", err)
	}

	var hosts map[string]struct {
		User       string `yaml:"user"`
		OAuthToken string `yaml:"oauth_token"`
	}
	if err := yaml.Unmarshal(data, &hosts); err != nil {
		return "", fmt.Errorf("could not parse gh config: %w", err)
	}

	hostConfig, ok := hosts[hostname]
	if !ok {
		return "", fmt.Errorf("no config for %s in gh hosts.yml", hostname)
	}

	// Legacy oauth_token field first (older gh versions).
	if hostConfig.OAuthToken != "" {
		return hostConfig.OAuthToken, nil
	}

	// Newer gh versions store the token in secret storage.
	if hostConfig.User == "" {
		return "", fmt.Errorf("no user configured for %s in gh hosts.yml", hostname)
	}

	service := "gh:" + hostname
	token, err := keyring.Get(service, hostConfig.User)
	if err != nil {
		return "", fmt.Errorf("could not get token from keyring (service=%q, user=%q): %w", service, hostConfig.User, err)
	}

	return token, nil
}
