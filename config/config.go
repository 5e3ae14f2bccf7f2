// Package config holds the riscv-calyx tool configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/tailscale/hujson"

	"github.com/calyxir/calyx-riscv/calyx"
	"github.com/calyxir/calyx-riscv/report"
)

// AssemblerEnv overrides Config.Assembler when set.
const AssemblerEnv = "RISCV_CALYX_AS"

// Config holds the tool settings. Files may contain comments and trailing
// commas (JWCC).
type Config struct {
	// Assembler is the RISC-V assembler used by encode.
	// Default: riscv64-unknown-elf-as.
	Assembler string `json:"assembler"`

	// InstructionMemory names the memory holding instruction words.
	// Default: insts.
	InstructionMemory string `json:"instructionMemory"`

	// RegisterMemory names the memory holding the register file.
	// Default: reg_file.
	RegisterMemory string `json:"registerMemory"`

	// ABINames prints registers by calling-convention name in listings.
	ABINames bool `json:"abiNames"`

	// SignedImmediates prints immediates sign-extended in listings.
	SignedImmediates bool `json:"signedImmediates"`
}

// Default returns a Config with the default values.
func Default() *Config {
	return &Config{
		Assembler:         "riscv64-unknown-elf-as",
		InstructionMemory: calyx.DefaultInstructionMemory,
		RegisterMemory:    report.DefaultRegisterMemory,
	}
}

// Load loads a Config from a JWCC file, starting from the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if err := c.MergeFile(path); err != nil {
		return nil, err
	}
	return c, nil
}

// MergeFiles applies each file in order over c. Missing files are skipped.
// It returns the paths that were read.
func (c *Config) MergeFiles(paths ...string) ([]string, error) {
	var read []string
	for _, path := range paths {
		err := c.MergeFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return read, err
		}
		read = append(read, path)
	}
	return read, nil
}

// MergeFile applies the JWCC file at path over c.
func (c *Config) MergeFile(path string) error {
	huJSONData, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	jsonData, err := hujson.Standardize(huJSONData)
	if err != nil {
		return fmt.Errorf("read %s: %v", path, err)
	}
	if err := jsonv2.Unmarshal(jsonData, c, jsonv2.RejectUnknownMembers(true)); err != nil {
		return fmt.Errorf("read %s: %v", path, err)
	}
	return nil
}

// MergeEnvironment applies environment overrides.
func (c *Config) MergeEnvironment() {
	if as := os.Getenv(AssemblerEnv); as != "" {
		c.Assembler = as
	}
}

// Save writes c to path as indented JSON.
func (c *Config) Save(path string) error {
	data, err := jsonv2.Marshal(c, jsontext.WithIndent("  "))
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that all required values are set.
func (c *Config) Validate() error {
	if c.Assembler == "" {
		return fmt.Errorf("assembler must be set")
	}
	if c.InstructionMemory == "" {
		return fmt.Errorf("instructionMemory must be set")
	}
	if c.RegisterMemory == "" {
		return fmt.Errorf("registerMemory must be set")
	}
	if c.InstructionMemory == c.RegisterMemory {
		return fmt.Errorf("instructionMemory and registerMemory must differ")
	}
	return nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
