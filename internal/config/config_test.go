package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	epost "github.com/Quosimadu/epost-api"
)

var envKeys = []string{
	"EPOST_BASE_URL",
	"EPOST_TIMEOUT",
	"EPOST_RETRIES",
	"EPOST_RATE_LIMIT",
	"EPOST_VENDOR_ID",
	"EPOST_EKP",
	"EPOST_SECRET",
	"EPOST_PASSWORD",
	"EPOST_TEST_MODE",
	"EPOST_LOG_LEVEL",
	"EPOST_LOG_DEVELOPMENT",
	"EPOST_LOG_FILE",
}

// clearEnv unsets every EPOST_ variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		key := key
		if value, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, value) })
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != epost.DefaultBaseURL {
		t.Errorf("BaseURL = %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.API.Timeout)
	}
	if cfg.API.Retries != 0 || cfg.API.RateLimit != 0 {
		t.Errorf("Retries = %d, RateLimit = %v, want 0", cfg.API.Retries, cfg.API.RateLimit)
	}
	if cfg.TestMode {
		t.Error("TestMode = true, want false")
	}
	if cfg.Log.Level != "info" || cfg.Log.Development || cfg.Log.LogFile != "" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Credentials() != (epost.Credentials{}) {
		t.Errorf("Credentials() = %+v, want empty", cfg.Credentials())
	}
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("EPOST_BASE_URL", "https://staging.example.com")
	t.Setenv("EPOST_TIMEOUT", "5s")
	t.Setenv("EPOST_RETRIES", "2")
	t.Setenv("EPOST_RATE_LIMIT", "1.5")
	t.Setenv("EPOST_VENDOR_ID", "vendor")
	t.Setenv("EPOST_EKP", "1234567890")
	t.Setenv("EPOST_SECRET", "secret")
	t.Setenv("EPOST_PASSWORD", "password")
	t.Setenv("EPOST_TEST_MODE", "true")
	t.Setenv("EPOST_LOG_LEVEL", "debug")
	t.Setenv("EPOST_LOG_DEVELOPMENT", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "https://staging.example.com" {
		t.Errorf("BaseURL = %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second || cfg.API.Retries != 2 || cfg.API.RateLimit != 1.5 {
		t.Errorf("API = %+v", cfg.API)
	}
	want := epost.Credentials{VendorID: "vendor", EKP: "1234567890", Secret: "secret", Password: "password"}
	if cfg.Credentials() != want {
		t.Errorf("Credentials() = %+v, want %+v", cfg.Credentials(), want)
	}
	if !cfg.TestMode {
		t.Error("TestMode = false, want true")
	}
	if cfg.Log.Level != "debug" || !cfg.Log.Development {
		t.Errorf("Log = %+v", cfg.Log)
	}

	opts := cfg.ClientOptions(nil)
	if len(opts) != 5 {
		t.Errorf("len(ClientOptions()) = %d, want 5", len(opts))
	}
	client, err := epost.New(opts...)
	if err != nil {
		t.Fatalf("epost.New() error = %v", err)
	}
	if !client.NewLetter().IsTestEnvironment() {
		t.Error("client does not carry test mode")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad timeout", "EPOST_TIMEOUT", "soon"},
		{"zero timeout", "EPOST_TIMEOUT", "0s"},
		{"negative retries", "EPOST_RETRIES", "-1"},
		{"blank base url", "EPOST_BASE_URL", "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q expected error", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	dir, _ := os.Getwd()
	content := "EPOST_VENDOR_ID=from-file\nEPOST_TEST_MODE=true\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("EPOST_VENDOR_ID")
		os.Unsetenv("EPOST_TEST_MODE")
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Account.VendorID != "from-file" || !cfg.TestMode {
		t.Errorf("values from .env not applied: %+v", cfg)
	}
}

func TestLoad_EnvFileDoesNotOverride(t *testing.T) {
	clearEnv(t)
	dir, _ := os.Getwd()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("EPOST_EKP=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EPOST_EKP", "from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Account.EKP != "from-env" {
		t.Errorf("EKP = %q, want from-env", cfg.Account.EKP)
	}
}
