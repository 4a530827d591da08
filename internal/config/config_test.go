package config

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadReportsAllMissingSettings(t *testing.T) {
	tests := []struct {
		name        string
		set         map[string]string
		wantMissing []string
	}{
		{
			name:        "all missing",
			set:         nil,
			wantMissing: []string{"EDD_BASE_URL", "EDD_PUBLIC_KEY", "EDD_TOKEN"},
		},
		{
			name:        "token missing",
			set:         map[string]string{"base_url": "https://x/", "public_key": "pk"},
			wantMissing: []string{"EDD_TOKEN"},
		},
		{
			name:        "key and token missing",
			set:         map[string]string{"base_url": "https://x/"},
			wantMissing: []string{"EDD_PUBLIC_KEY", "EDD_TOKEN"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.set {
				v.Set(k, val)
			}

			_, err := Load(v)
			var missing *MissingSettingsError
			if !errors.As(err, &missing) {
				t.Fatalf("error type = %T, want *MissingSettingsError", err)
			}
			if !reflect.DeepEqual(missing.Missing, tt.wantMissing) {
				t.Errorf("Missing = %v, want %v", missing.Missing, tt.wantMissing)
			}
			for _, name := range tt.wantMissing {
				if !strings.Contains(err.Error(), name) {
					t.Errorf("error %q does not name %s", err, name)
				}
			}
		})
	}
}

func TestLoadNormalizesBaseURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"adds trailing slash", "https://store.example.com/edd-api", "https://store.example.com/edd-api/"},
		{"keeps trailing slash", "https://store.example.com/edd-api/", "https://store.example.com/edd-api/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set("base_url", tt.in)
			v.Set("public_key", "pk")
			v.Set("token", "tk")

			s, err := Load(v)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if s.BaseURL != tt.want {
				t.Errorf("BaseURL = %q, want %q", s.BaseURL, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	v := viper.New()
	v.Set("base_url", "https://x/")

	statuses := Describe(v)
	if len(statuses) != 3 {
		t.Fatalf("len = %d, want 3", len(statuses))
	}

	byKey := make(map[string]SettingStatus)
	for _, st := range statuses {
		byKey[st.Key] = st
	}
	if !byKey["base_url"].Set {
		t.Error("base_url should be set")
	}
	if byKey["token"].Set {
		t.Error("token should not be set")
	}
	if byKey["public_key"].EnvVar != "EDD_PUBLIC_KEY" {
		t.Errorf("public_key env var = %q, want EDD_PUBLIC_KEY", byKey["public_key"].EnvVar)
	}
}
