package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.DefaultChunkSize != 200 {
		t.Errorf("DefaultChunkSize = %d, want 200", cfg.DefaultChunkSize)
	}
	if cfg.DefaultOverlapWidth != 1 {
		t.Errorf("DefaultOverlapWidth = %d, want 1", cfg.DefaultOverlapWidth)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DEFAULT_CHUNK_SIZE", "64")
	t.Setenv("WORKER_COUNT", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultChunkSize != 64 {
		t.Errorf("DefaultChunkSize = %d, want 64", cfg.DefaultChunkSize)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("WorkerCount = %d, want 2", cfg.WorkerCount)
	}
}

func TestValidate_RejectsNonPositive(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	cfg.WorkerCount = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero worker count must be rejected")
	}
}
