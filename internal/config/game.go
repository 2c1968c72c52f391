package config

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Game rule keys and their defaults.
const (
	KeyInitialHandSize   = "initial_hand_size"
	KeyMaxHandSize       = "max_hand_size"
	KeyMaxActionsPerTurn = "max_actions_per_turn"
	KeyInitialHealth     = "initial_health"
	KeyRandomSeed        = "random_seed"
)

// GameConfig is a flat key=value rules file read through viper's dotenv
// codec. Lines starting with # are comments. Keys are case-insensitive.
type GameConfig struct {
	v *viper.Viper
}

// DefaultGameConfig returns the built-in rules.
func DefaultGameConfig() *GameConfig {
	c := &GameConfig{v: viper.New()}
	c.v.SetConfigType("dotenv")
	c.v.SetDefault(KeyInitialHandSize, 5)
	c.v.SetDefault(KeyMaxHandSize, 7)
	c.v.SetDefault(KeyMaxActionsPerTurn, 3)
	c.v.SetDefault(KeyInitialHealth, 20)
	c.v.SetDefault(KeyRandomSeed, 0)
	return c
}

// LoadGameConfig reads a rules file on top of the defaults.
func LoadGameConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read game config %s: %w", path, err)
	}
	return ParseGameConfig(data)
}

// ParseGameConfig reads rules from data on top of the defaults.
func ParseGameConfig(data []byte) (*GameConfig, error) {
	c := DefaultGameConfig()
	if err := c.v.ReadConfig(bytes.NewReader(normalize(data))); err != nil {
		return nil, fmt.Errorf("parse game config: %w", err)
	}
	return c, nil
}

// normalize drops comments and blank lines and trims the space around '='
// so "max_hand_size = 7" reads the same as "max_hand_size=7".
func normalize(data []byte) []byte {
	var out bytes.Buffer
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		fmt.Fprintf(&out, "%s=%s\n", key, strings.TrimSpace(value))
	}
	return out.Bytes()
}

// Has reports whether key was set by a file or a setter.
func (c *GameConfig) Has(key string) bool {
	return c.v.InConfig(key) || c.v.IsSet(key)
}

func (c *GameConfig) raw(key string) (string, bool) {
	if !c.Has(key) {
		return "", false
	}
	return strings.TrimSpace(c.v.GetString(key)), true
}

// GetString returns the value of key or def.
func (c *GameConfig) GetString(key, def string) string {
	if s, ok := c.raw(key); ok {
		return s
	}
	return def
}

// GetInt returns key parsed as an integer, or def.
func (c *GameConfig) GetInt(key string, def int) int {
	s, ok := c.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// GetBool accepts true, 1, yes and on (any case) as true.
func (c *GameConfig) GetBool(key string, def bool) bool {
	s, ok := c.raw(key)
	if !ok {
		return def
	}
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}

// GetFloat returns key parsed as a float, or def.
func (c *GameConfig) GetFloat(key string, def float64) float64 {
	s, ok := c.raw(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

// GetUint8 returns key as a uint8. Values outside 0..255 yield def.
func (c *GameConfig) GetUint8(key string, def uint8) uint8 {
	n := c.GetInt(key, -1)
	if n < 0 || n > math.MaxUint8 {
		return def
	}
	return uint8(n)
}

// Set stores a raw value.
func (c *GameConfig) Set(key, value string) {
	c.v.Set(key, value)
}

// SetInt stores an integer value.
func (c *GameConfig) SetInt(key string, value int) {
	c.v.Set(key, strconv.Itoa(value))
}

// SetBool stores a boolean value.
func (c *GameConfig) SetBool(key string, value bool) {
	c.v.Set(key, strconv.FormatBool(value))
}

// Keys returns every known key, sorted.
func (c *GameConfig) Keys() []string {
	keys := c.v.AllKeys()
	sort.Strings(keys)
	return keys
}
