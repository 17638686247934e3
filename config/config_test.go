package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OwnerAddress == "" {
		t.Fatalf("expected a generated OwnerAddress")
	}
	if cfg.ListenAddress == "" || cfg.DataDir == "" {
		t.Fatalf("expected default ListenAddress/DataDir to be set")
	}
	if cfg.DefaultFees.TradeFeeDen == 0 {
		t.Fatalf("expected a nonzero default fee schedule")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected Load to persist a config file: %v", err)
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("ValidateConfig on a freshly created default: %v", err)
	}
}

func TestLoadRoundTripsPersistedConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	first, err := Load(path)
	if err != nil {
		t.Fatalf("Load (create): %v", err)
	}

	second, err := Load(path)
	if err != nil {
		t.Fatalf("Load (reload): %v", err)
	}
	if second.OwnerAddress != first.OwnerAddress {
		t.Fatalf("OwnerAddress changed across reload: %s != %s", second.OwnerAddress, first.OwnerAddress)
	}
}

func TestLoadRejectsMissingOwnerAddress(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`ListenAddress = ":8080"`+"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected Load to reject a config with no OwnerAddress")
	}
}

func TestValidateConfigRejectsBadFees(t *testing.T) {
	cfg := &Config{
		OwnerAddress: mustGenerateOwner(t),
		DefaultFees:  FeesConfig{TradeFeeNum: 1, TradeFeeDen: 0},
	}
	if err := ValidateConfig(cfg); err == nil {
		t.Fatalf("expected ValidateConfig to reject a zero-denominator fee")
	}
}

func mustGenerateOwner(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg.OwnerAddress
}
