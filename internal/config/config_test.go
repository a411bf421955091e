package config

import (
	"strings"
	"testing"
	"time"
)

func envMap(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(envMap(nil))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Import.MaxFileSize != 10<<20 {
		t.Errorf("Import.MaxFileSize = %d, want %d", cfg.Import.MaxFileSize, 10<<20)
	}
	if cfg.Import.PreviewRows != 10 {
		t.Errorf("Import.PreviewRows = %d, want 10", cfg.Import.PreviewRows)
	}
	if cfg.Import.MaxErrors != 100 {
		t.Errorf("Import.MaxErrors = %d, want 100", cfg.Import.MaxErrors)
	}
	if cfg.Import.QueueTimeout != 20*time.Second {
		t.Errorf("Import.QueueTimeout = %v, want 20s", cfg.Import.QueueTimeout)
	}
	if cfg.Database.URL != "" {
		t.Errorf("Database.URL = %q, want empty", cfg.Database.URL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := LoadFrom(envMap(map[string]string{
		"PORT":                  "9090",
		"IMPORT_MAX_FILE_SIZE":  "512KB",
		"IMPORT_MAX_CONCURRENT": "8",
		"DB_URL":                "postgres://localhost/school",
		"API_KEYS":              " a , b ,,",
		"LOG_LEVEL":             "debug",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090 via PORT", cfg.Server.Port)
	}
	if cfg.Import.MaxFileSize != 512<<10 {
		t.Errorf("Import.MaxFileSize = %d, want %d", cfg.Import.MaxFileSize, 512<<10)
	}
	if cfg.Import.MaxConcurrent != 8 {
		t.Errorf("Import.MaxConcurrent = %d, want 8", cfg.Import.MaxConcurrent)
	}
	if cfg.Database.URL != "postgres://localhost/school" {
		t.Errorf("Database.URL = %q", cfg.Database.URL)
	}
	if len(cfg.Security.APIKeys) != 2 || cfg.Security.APIKeys[1] != "b" {
		t.Errorf("Security.APIKeys = %v, want [a b]", cfg.Security.APIKeys)
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	_, err := LoadFrom(envMap(map[string]string{"SERVER_PORT": "eighty"}))
	if err == nil {
		t.Fatal("expected error for non-numeric port")
	}
	if !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Errorf("error %q should name SERVER_PORT", err)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	_, err := LoadFrom(envMap(map[string]string{
		"IMPORT_MAX_ROWS": "0",
		"LOG_FORMAT":      "xml",
		"REQUIRE_API_KEY": "true",
	}))
	if err == nil {
		t.Fatal("expected validation error")
	}

	for _, want := range []string{"IMPORT_MAX_ROWS", "LOG_FORMAT", "API_KEYS"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s, got: %v", want, err)
		}
	}
}

func TestParseByteSize(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1024", 1024, false},
		{"10MB", 10 << 20, false},
		{"10mb", 10 << 20, false},
		{"64KB", 64 << 10, false},
		{"100B", 100, false},
		{"ten", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseByteSize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseByteSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseByteSize(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestString_MasksDatabaseURL(t *testing.T) {
	cfg, err := LoadFrom(envMap(map[string]string{"DATABASE_URL": "postgres://user:secret@db/app"}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if s := cfg.String(); strings.Contains(s, "secret") {
		t.Errorf("String() leaked credentials: %s", s)
	}
}

func TestLoad_ProxiesAndMigrate(t *testing.T) {
	cfg, err := LoadFrom(envMap(map[string]string{
		"TRUSTED_PROXIES": "10.0.0.0/8, 127.0.0.1",
		"DB_AUTO_MIGRATE": "false",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if len(cfg.Security.TrustedProxies) != 2 || cfg.Security.TrustedProxies[1] != "127.0.0.1" {
		t.Errorf("Security.TrustedProxies = %v, want [10.0.0.0/8 127.0.0.1]", cfg.Security.TrustedProxies)
	}
	if cfg.Database.AutoMigrate {
		t.Error("Database.AutoMigrate = true, want false")
	}
}
