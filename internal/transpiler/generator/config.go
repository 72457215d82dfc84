package generator

import (
	"fmt"

	"martianoff/bfgo/internal/policy"
)

// Config is the generator configuration for one run.
type Config struct {
	policy.Policies

	// FixedInput, when set, is embedded into the program and replaces reading stdin.
	FixedInput *string
}

// DefaultConfig returns the reference configuration: default policies and stdin input.
func DefaultConfig() Config {
	return Config{Policies: policy.Default()}
}

// Validate rejects configurations the generated program could not honor.
func (c Config) Validate() error {
	if err := c.Policies.Validate(); err != nil {
		return err
	}
	if c.FixedInput != nil {
		if err := policy.CheckASCII([]byte(*c.FixedInput)); err != nil {
			return fmt.Errorf("fixed input: %w", err)
		}
	}
	return nil
}
