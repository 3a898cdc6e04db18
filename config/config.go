// Package config holds the runtime configuration of the CHIP-8 simulator.
package config

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// KeyCount is the number of keys on the CHIP-8 keypad.
const KeyCount = 16

// MaxScale is the largest supported presentation scale.
const MaxScale = 8

// CacheConfig describes the geometry of the instruction fetch cache.
type CacheConfig struct {
	// Size is the total capacity in bytes. Default: 256.
	Size int `json:"size" yaml:"size"`

	// Associativity is the number of ways per set. Default: 2.
	Associativity int `json:"associativity" yaml:"associativity"`

	// BlockSize is the line size in bytes. Default: 16.
	BlockSize int `json:"block_size" yaml:"block_size"`
}

// Config holds the simulator settings.
type Config struct {
	// ClockHz is the instruction rate. Default: 500, one instruction every 2ms.
	ClockHz int `json:"clock_hz" yaml:"clock_hz"`

	// TimerHz is the rate at which delay and sound timers tick and frames
	// are presented. Default: 60.
	TimerHz int `json:"timer_hz" yaml:"timer_hz"`

	// Seed seeds the RND instruction. Zero seeds from the wall clock.
	Seed uint64 `json:"seed" yaml:"seed"`

	// Scale multiplies the terminal rendering. Default: 1.
	Scale int `json:"scale" yaml:"scale"`

	// Keys maps keypad keys 0..F, in order, to keyboard characters.
	// Default: "x123qweasdzc4rfv".
	Keys string `json:"keys" yaml:"keys"`

	// KeyHoldFrames is how many frames a key stays down after the terminal
	// reports it, since terminals do not report releases. Default: 6.
	KeyHoldFrames int `json:"key_hold_frames" yaml:"key_hold_frames"`

	// FetchCache enables the instruction fetch cache model.
	FetchCache bool `json:"fetch_cache" yaml:"fetch_cache"`

	// Cache is the fetch cache geometry.
	Cache CacheConfig `json:"cache" yaml:"cache"`
}

// Default returns a Config with the standard CHIP-8 settings.
func Default() *Config {
	return &Config{
		ClockHz:       500,
		TimerHz:       60,
		Scale:         1,
		Keys:          "x123qweasdzc4rfv",
		KeyHoldFrames: 6,
		Cache: CacheConfig{
			Size:          256,
			Associativity: 2,
			BlockSize:     16,
		},
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads a Config from a JSON or YAML file, chosen by extension.
// Fields absent from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the Config to path as JSON or YAML, chosen by extension.
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if c.TimerHz <= 0 {
		return fmt.Errorf("timer_hz must be > 0")
	}
	if c.ClockHz < c.TimerHz {
		return fmt.Errorf("clock_hz must be >= timer_hz")
	}
	if c.Scale < 1 || c.Scale > MaxScale {
		return fmt.Errorf("scale must be in 1..%d", MaxScale)
	}
	if c.KeyHoldFrames < 1 {
		return fmt.Errorf("key_hold_frames must be > 0")
	}
	if err := validateKeys(c.Keys); err != nil {
		return err
	}
	return c.Cache.Validate()
}

func validateKeys(keys string) error {
	if len(keys) != KeyCount {
		return fmt.Errorf("keys must have %d characters, got %d", KeyCount, len(keys))
	}

	seen := make(map[byte]int, KeyCount)
	for i := 0; i < len(keys); i++ {
		ch := keys[i]
		if ch < 0x21 || ch > 0x7E {
			return fmt.Errorf("keys: key %X is not a printable character", i)
		}
		folded := foldCase(ch)
		if prev, ok := seen[folded]; ok {
			return fmt.Errorf("keys: %q bound to both %X and %X", ch, prev, i)
		}
		seen[folded] = i
	}
	return nil
}

// Validate checks that the cache geometry is a set of powers of two that
// divide evenly.
func (c CacheConfig) Validate() error {
	for _, f := range []struct {
		name  string
		value int
	}{
		{"cache.size", c.Size},
		{"cache.associativity", c.Associativity},
		{"cache.block_size", c.BlockSize},
	} {
		if f.value <= 0 || bits.OnesCount(uint(f.value)) != 1 {
			return fmt.Errorf("%s must be a positive power of two", f.name)
		}
	}
	if c.BlockSize < 2 {
		return fmt.Errorf("cache.block_size must hold an instruction word")
	}
	if c.Size < c.Associativity*c.BlockSize {
		return fmt.Errorf("cache.size must be >= associativity * block_size")
	}
	return nil
}

// NumSets returns the number of sets implied by the geometry.
func (c CacheConfig) NumSets() int {
	return c.Size / (c.Associativity * c.BlockSize)
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// KeyMap returns the keyboard character to keypad key lookup for Keys.
// Letters match regardless of case.
func (c *Config) KeyMap() map[byte]uint8 {
	m := make(map[byte]uint8, 2*len(c.Keys))
	for i := 0; i < len(c.Keys); i++ {
		ch := c.Keys[i]
		m[ch] = uint8(i)
		m[foldCase(ch)] = uint8(i)
		if ch >= 'a' && ch <= 'z' {
			m[ch-'a'+'A'] = uint8(i)
		}
	}
	return m
}

func foldCase(ch byte) byte {
	if ch >= 'A' && ch <= 'Z' {
		return ch - 'A' + 'a'
	}
	return ch
}
