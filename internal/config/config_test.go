package config

import (
	"path/filepath"
	"strings"
	"testing"
)

var keys = []string{
	"APP_PORT", "LOG_LEVEL", "CORS_ALLOWED_ORIGINS", "STORAGE_DRIVER", "MONGODB_URI", "MONGODB_DB_NAME",
	"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID", "REPORT_CRON_SCHEDULE", "TIMEZONE",
	"WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID", "WHATSAPP_BASE_URL", "WHATSAPP_API_VERSION", "WHATSAPP_SUMMARY_RECIPIENT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(missingEnvFile(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Storage.Driver != StorageMongoDB || cfg.Storage.MongoDB.DBName != "ricemill" {
		t.Errorf("Unexpected storage defaults %+v", cfg.Storage)
	}
	if cfg.Reporting.CronSchedule != "0 20 * * *" || cfg.Reporting.Timezone != "Asia/Kolkata" {
		t.Errorf("Unexpected reporting defaults %+v", cfg.Reporting)
	}
	if len(cfg.Server.CORSAllowedOrigins) != 1 || cfg.Server.CORSAllowedOrigins[0] != "*" {
		t.Errorf("Expected wildcard CORS origin, got %v", cfg.Server.CORSAllowedOrigins)
	}
	if cfg.WhatsApp.Enabled() || cfg.Sheets.Enabled() {
		t.Error("Expected WhatsApp and Sheets to be disabled by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://mill.example.com,")
	t.Setenv("WHATSAPP_TOKEN", "token")
	t.Setenv("WHATSAPP_PHONE_NUMBER_ID", "123")
	t.Setenv("WHATSAPP_SUMMARY_RECIPIENT", "919800000000")

	cfg, err := Load(missingEnvFile(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Driver != StorageMemory {
		t.Errorf("Expected memory driver, got %s", cfg.Storage.Driver)
	}
	if len(cfg.Server.CORSAllowedOrigins) != 2 || cfg.Server.CORSAllowedOrigins[1] != "https://mill.example.com" {
		t.Errorf("Unexpected CORS origins %v", cfg.Server.CORSAllowedOrigins)
	}
	if !cfg.WhatsApp.Enabled() {
		t.Error("Expected WhatsApp to be enabled")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "8080"},
			Storage:   StorageConfig{Driver: StorageMemory},
			WhatsApp:  WhatsAppConfig{BaseURL: "https://graph.facebook.com", APIVersion: "v20.0"},
			Reporting: ReportingConfig{CronSchedule: "0 20 * * *", Timezone: "UTC"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing port", func(c *Config) { c.Server.Port = "" }, "APP_PORT"},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "postgres" }, "STORAGE_DRIVER"},
		{"mongodb without uri", func(c *Config) { c.Storage.Driver = StorageMongoDB }, "MONGODB_URI"},
		{"half configured sheets", func(c *Config) { c.Sheets.SpreadsheetID = "abc" }, "GOOGLE_SHEETS_CREDENTIALS_PATH"},
		{"whatsapp without phone id", func(c *Config) {
			c.WhatsApp.AccessToken = "t"
			c.WhatsApp.SummaryRecipient = "91"
		}, "WHATSAPP_PHONE_NUMBER_ID"},
		{"bad timezone", func(c *Config) { c.Reporting.Timezone = "Mars/Olympus" }, "TIMEZONE"},
		{"missing schedule", func(c *Config) { c.Reporting.CronSchedule = "" }, "REPORT_CRON_SCHEDULE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error mentioning %s, got %v", tt.wantErr, err)
			}
		})
	}
}
