package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got, want := GlobalConfigPath(), "/custom/config/bibmetrics/config.yml"; got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	want := filepath.Join(home, ".config", "bibmetrics", "config.yml")
	if got := GlobalConfigPath(); got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"/abs/path", "/abs/path"},
		{"relative/path", "relative/path"},
		{"~/works.jsonl", filepath.Join(home, "works.jsonl")},
		{"~", home},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.input); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMarshalMaskedYAML(t *testing.T) {
	cfg := Default()
	cfg.ADS.Token = "secret-ads-token"
	cfg.S2.APIKey = "abc"

	data, err := cfg.MarshalMaskedYAML()
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if strings.Contains(out, "secret-ads-token") || strings.Contains(out, "api_key: abc") {
		t.Errorf("credentials leaked:\n%s", out)
	}
	if !strings.Contains(out, "token: '****oken'") && !strings.Contains(out, `token: "****oken"`) {
		t.Errorf("masked token missing:\n%s", out)
	}
	if !strings.Contains(out, "general_library: jtVFaJEgTa-f_8rDodxeJg") {
		t.Errorf("non-secret values should be kept:\n%s", out)
	}

	// The receiver is left untouched.
	if cfg.ADS.Token != "secret-ads-token" {
		t.Errorf("Masked() modified the original config")
	}
}

func TestHelpfulConfigMessage(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	msg := HelpfulConfigMessage()
	if !strings.Contains(msg, "/cfg/bibmetrics/config.yml") || !strings.Contains(msg, "BIBMETRICS_ADS__GENERAL_LIBRARY") {
		t.Errorf("HelpfulConfigMessage() = %q", msg)
	}
}
