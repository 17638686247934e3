package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/snailsfinance/snails-contracts/crypto"
	"github.com/snailsfinance/snails-contracts/native/fees"
)

// Config holds the settings the exchanged process needs to boot: where to
// listen, where to keep its LevelDB, who administers the exchange, a default
// fee schedule, and whether the exchange should start Paused. DefaultFees is
// checked by ValidateConfig only; pool creation takes its fee schedule
// explicitly and does not read it.
type Config struct {
	ListenAddress string     `toml:"ListenAddress"`
	DataDir       string     `toml:"DataDir"`
	OwnerAddress  string     `toml:"OwnerAddress"`
	DefaultFees   FeesConfig `toml:"DefaultFees"`
	StartPaused   bool       `toml:"StartPaused"`
}

// FeesConfig is the TOML-friendly mirror of native/fees.Fees.
type FeesConfig struct {
	TradeFeeNum         uint64 `toml:"TradeFeeNum"`
	TradeFeeDen         uint64 `toml:"TradeFeeDen"`
	AdminTradeFeeNum    uint64 `toml:"AdminTradeFeeNum"`
	AdminTradeFeeDen    uint64 `toml:"AdminTradeFeeDen"`
	WithdrawFeeNum      uint64 `toml:"WithdrawFeeNum"`
	WithdrawFeeDen      uint64 `toml:"WithdrawFeeDen"`
	AdminWithdrawFeeNum uint64 `toml:"AdminWithdrawFeeNum"`
	AdminWithdrawFeeDen uint64 `toml:"AdminWithdrawFeeDen"`
}

// ToFees converts the TOML representation into native/fees.Fees.
func (f FeesConfig) ToFees() fees.Fees {
	return fees.Fees{
		TradeFeeNum:         f.TradeFeeNum,
		TradeFeeDen:         f.TradeFeeDen,
		AdminTradeFeeNum:    f.AdminTradeFeeNum,
		AdminTradeFeeDen:    f.AdminTradeFeeDen,
		WithdrawFeeNum:      f.WithdrawFeeNum,
		WithdrawFeeDen:      f.WithdrawFeeDen,
		AdminWithdrawFeeNum: f.AdminWithdrawFeeNum,
		AdminWithdrawFeeDen: f.AdminWithdrawFeeDen,
	}
}

func defaultFeesConfig() FeesConfig {
	return FeesConfig{
		TradeFeeNum:         4,
		TradeFeeDen:         10000,
		AdminTradeFeeNum:    50,
		AdminTradeFeeDen:    100,
		WithdrawFeeNum:      4,
		WithdrawFeeDen:      10000,
		AdminWithdrawFeeNum: 50,
		AdminWithdrawFeeDen: 100,
	}
}

// Load reads the config at path, writing a fresh default (with a freshly
// generated owner address) if the file does not yet exist.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.OwnerAddress) == "" {
		return nil, fmt.Errorf("config: OwnerAddress must be set")
	}
	if _, err := crypto.DecodeAddress(cfg.OwnerAddress); err != nil {
		return nil, fmt.Errorf("config: invalid OwnerAddress: %w", err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./exchange-data"
	}
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":8080"
	}
	return cfg, nil
}

// createDefault generates an owner keypair, writes a default config.toml to
// path, and returns the resulting Config.
func createDefault(path string) (*Config, error) {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	owner := key.PubKey().Address()

	cfg := &Config{
		ListenAddress: ":8080",
		DataDir:       "./exchange-data",
		OwnerAddress:  owner.String(),
		DefaultFees:   defaultFeesConfig(),
	}
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Owner decodes the configured owner address.
func (c *Config) Owner() (crypto.Address, error) {
	return crypto.DecodeAddress(c.OwnerAddress)
}
