// Package config loads and validates the eddmcp settings from the
// environment and an optional YAML file.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Settings holds the three required connection settings for an EDD
// store, immutable after Load.
type Settings struct {
	BaseURL   string
	PublicKey string
	Token     string
}

// settingSources maps each viper key to the environment variable that
// feeds it, for error messages and `config check` output.
var settingSources = map[string]string{
	"base_url":   "EDD_BASE_URL",
	"public_key": "EDD_PUBLIC_KEY",
	"token":      "EDD_TOKEN",
}

// MissingSettingsError reports every required setting that is absent,
// so the operator fixes them all in one pass.
type MissingSettingsError struct {
	Missing []string
}

func (e *MissingSettingsError) Error() string {
	return fmt.Sprintf("missing required settings: %s", strings.Join(e.Missing, ", "))
}

// Load reads settings from viper (environment variables with the EDD
// prefix, plus any config file already read into viper) and validates
// that all required values are present. The base URL is normalized to
// end with a path separator.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		BaseURL:   v.GetString("base_url"),
		PublicKey: v.GetString("public_key"),
		Token:     v.GetString("token"),
	}

	var missing []string
	if s.BaseURL == "" {
		missing = append(missing, settingSources["base_url"])
	}
	if s.PublicKey == "" {
		missing = append(missing, settingSources["public_key"])
	}
	if s.Token == "" {
		missing = append(missing, settingSources["token"])
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingSettingsError{Missing: missing}
	}

	if !strings.HasSuffix(s.BaseURL, "/") {
		s.BaseURL += "/"
	}
	return s, nil
}

// Describe returns each required setting's env var name and whether it
// is currently set, in stable order. Used by `config check`.
func Describe(v *viper.Viper) []SettingStatus {
	keys := make([]string, 0, len(settingSources))
	for key := range settingSources {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	statuses := make([]SettingStatus, 0, len(keys))
	for _, key := range keys {
		statuses = append(statuses, SettingStatus{
			Key:    key,
			EnvVar: settingSources[key],
			Set:    v.GetString(key) != "",
		})
	}
	return statuses
}

// SettingStatus is one row of `config check` output.
type SettingStatus struct {
	Key    string
	EnvVar string
	Set    bool
}
