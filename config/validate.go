package config

import "fmt"

// ValidateConfig checks DefaultFees with fees.Validate and re-checks that
// OwnerAddress decodes. Load itself checks only the owner address, so fee
// validation lives in this separate entry point, the way the teacher
// separates parsing from policy validation.
func ValidateConfig(c *Config) error {
	f := c.DefaultFees.ToFees()
	if err := f.Validate(); err != nil {
		return fmt.Errorf("config: invalid DefaultFees: %w", err)
	}
	if _, err := c.Owner(); err != nil {
		return fmt.Errorf("config: invalid OwnerAddress: %w", err)
	}
	return nil
}
