package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/tripcast/internal/model"
)

func TestAccrualFor_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	tests := map[string]model.AccrualType{
		"Flights":       model.AccrualFixed,
		"health":        model.AccrualFixed,
		"Meals":         model.AccrualVariable,
		"Accommodation": model.AccrualMixed,
		"Scuba Diving":  model.AccrualMixed,
	}
	for category, want := range tests {
		if got := cfg.AccrualFor(category); got != want {
			t.Fatalf("AccrualFor(%q) = %q, want %q", category, got, want)
		}
	}
}

func TestAccrualFor_UserOverrideWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Categories.Accrual = map[string]model.AccrualType{
		"meals":        model.AccrualMixed,
		"Scuba Diving": model.AccrualFixed,
	}
	if got := cfg.AccrualFor("Meals"); got != model.AccrualMixed {
		t.Fatalf("AccrualFor(Meals) = %q, want mixed", got)
	}
	if got := cfg.AccrualFor("Scuba Diving"); got != model.AccrualFixed {
		t.Fatalf("AccrualFor(Scuba Diving) = %q, want fixed", got)
	}
}

func TestLoadFile_MissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Daemon.Schedule != "@every 15s" {
		t.Fatalf("Daemon.Schedule = %q, want default", cfg.Daemon.Schedule)
	}
	if len(cfg.SeedCategories()) != len(DefaultCategories) {
		t.Fatalf("SeedCategories() = %v, want defaults", cfg.SeedCategories())
	}
}

func TestSaveFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := DefaultConfig()
	cfg.General.DefaultTrip = "japan-2026"
	cfg.Categories.Accrual = map[string]model.AccrualType{"Ferries": model.AccrualFixed}

	if err := SaveFile(path, cfg); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got.General.DefaultTrip != "japan-2026" {
		t.Fatalf("DefaultTrip = %q, want japan-2026", got.General.DefaultTrip)
	}
	if got.AccrualFor("Ferries") != model.AccrualFixed {
		t.Fatalf("AccrualFor(Ferries) = %q, want fixed", got.AccrualFor("Ferries"))
	}
}

func TestLoadFile_RejectsUnknownAccrual(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[categories.accrual]\nMeals = \"hourly\"\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("LoadFile accepted an unknown accrual type")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvDBPath, "/tmp/ledger.db")
	t.Setenv(EnvLogPretty, "false")
	t.Setenv(EnvDaemonAddr, "")

	cfg := DefaultConfig()
	applyEnv(&cfg)

	if cfg.DBPath() != "/tmp/ledger.db" {
		t.Fatalf("DBPath() = %q, want /tmp/ledger.db", cfg.DBPath())
	}
	if cfg.Log.Pretty {
		t.Fatal("Log.Pretty = true, want false from env")
	}
	if cfg.Daemon.Addr != "127.0.0.1:8742" {
		t.Fatalf("Daemon.Addr = %q, want default when env is empty", cfg.Daemon.Addr)
	}
}
