package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerPort != "8080" || cfg.DocumentStore != StorePostgres || cfg.FetchEngine != EngineChromedp {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.BrandSessionTTL() != time.Hour || cfg.BrandSessionCapacity != 300 {
		t.Errorf("brand session defaults = %v / %d", cfg.BrandSessionTTL(), cfg.BrandSessionCapacity)
	}
	if cfg.ProductSessionCapacity != 1000 || cfg.DeferredPayloadTTL() != 6*time.Hour || cfg.DeferredPayloadCapacity != 500 {
		t.Errorf("unexpected store defaults %+v", cfg)
	}
}

func TestLoadFile_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "SERVER_PORT=9000\nDOCUMENT_STORE=mongo\nCONTACT_DISCOVERY_RATE=2.5\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("FETCH_ENGINE", "ROD")
	t.Setenv("DEDUPLICATION_HOURS", "12")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerPort != "9100" {
		t.Errorf("env should win over file, got %q", cfg.ServerPort)
	}
	if cfg.DocumentStore != StoreMongo || cfg.FetchEngine != EngineRod {
		t.Errorf("unexpected backends %q %q", cfg.DocumentStore, cfg.FetchEngine)
	}
	if cfg.ContactDiscoveryRate != 2.5 || cfg.DeduplicationWindow() != 12*time.Hour {
		t.Errorf("unexpected values %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"valid", Config{DocumentStore: "postgres", FetchEngine: "chromedp", MaxConcurrency: 1}, true},
		{"bad store", Config{DocumentStore: "sqlite", FetchEngine: "chromedp", MaxConcurrency: 1}, false},
		{"bad engine", Config{DocumentStore: "mongo", FetchEngine: "colly", MaxConcurrency: 1}, false},
		{"no workers", Config{DocumentStore: "mongo", FetchEngine: "rod"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err == nil) != tt.ok {
				t.Fatalf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}
