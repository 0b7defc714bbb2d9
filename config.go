// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package websnap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Config holds the tunable parameters for a snapshot capture.
// All values have working defaults; see NewDefaultConfig.
type Config struct {
	// ViewportWidth and ViewportHeight are the emulated browser viewport
	// dimensions in pixels.
	ViewportWidth  int `yaml:"viewport_width"`
	ViewportHeight int `yaml:"viewport_height"`
	// UserAgent is sent with every request issued during the capture.
	UserAgent string `yaml:"user_agent"`
	// TimeoutMs bounds the whole snapshot operation, navigation included.
	// When the deadline elapses the snapshot is returned with whatever was
	// collected up to that point.
	TimeoutMs int `yaml:"timeout_ms"`
	// SettleMs is an additional wait after the page reports ready, giving
	// client-side frameworks time to hydrate before the tree is dumped.
	SettleMs int `yaml:"settle_ms"`
	// MaxBodyCapture is the largest response body (in bytes, per the
	// Content-Length header) that is captured verbatim. Larger or binary
	// bodies are replaced with a placeholder.
	MaxBodyCapture int64 `yaml:"max_body_capture"`
	// PreviewLength is the number of response-body characters shown per
	// network entry in the formatted output.
	PreviewLength int `yaml:"preview_length"`
	// InteractiveKeywords classify accessibility-tree lines as interactive.
	// A line containing any keyword (case-insensitive) receives a reference
	// tag. Different accessibility-engine versions label roles differently,
	// so this is configuration rather than a constant.
	InteractiveKeywords []string `yaml:"interactive_keywords"`
	// IgnoreURLPatterns are glob patterns for request URLs that should be
	// excluded from network capture (analytics beacons, tracking pixels).
	IgnoreURLPatterns []string `yaml:"ignore_url_patterns"`

	ignoreGlobs []glob.Glob
}

// NewDefaultConfig returns a Config with the standard capture settings.
func NewDefaultConfig() *Config {
	return &Config{
		ViewportWidth:       1920,
		ViewportHeight:      1080,
		UserAgent:           "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36",
		TimeoutMs:           15000,
		SettleMs:            1500,
		MaxBodyCapture:      50000,
		PreviewLength:       200,
		InteractiveKeywords: []string{"button", "link", "input", "textbox"},
	}
}

// LoadConfigFile reads a YAML config file and overlays it on the defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Compile(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envMap maps WEBSNAP_* environment variable suffixes to config setters.
// Invalid numeric values are ignored and the default kept.
var envMap = map[string]func(*Config, string){
	"VIEWPORT_WIDTH": func(c *Config, val string) {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			c.ViewportWidth = n
		}
	},
	"VIEWPORT_HEIGHT": func(c *Config, val string) {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			c.ViewportHeight = n
		}
	},
	"USER_AGENT": func(c *Config, val string) {
		c.UserAgent = val
	},
	"TIMEOUT_MS": func(c *Config, val string) {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			c.TimeoutMs = n
		}
	},
	"SETTLE_MS": func(c *Config, val string) {
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			c.SettleMs = n
		}
	},
	"MAX_BODY_CAPTURE": func(c *Config, val string) {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil && n >= 0 {
			c.MaxBodyCapture = n
		}
	},
	"INTERACTIVE_KEYWORDS": func(c *Config, val string) {
		c.InteractiveKeywords = splitAndTrim(val)
	},
	"IGNORE_URL_PATTERNS": func(c *Config, val string) {
		c.IgnoreURLPatterns = splitAndTrim(val)
	},
}

// ApplyEnv overrides config values from WEBSNAP_* environment variables.
func (c *Config) ApplyEnv() {
	for suffix, fn := range envMap {
		if val, ok := os.LookupEnv("WEBSNAP_" + suffix); ok && val != "" {
			fn(c, val)
		}
	}
}

// Compile validates the config and compiles the ignore patterns.
// It must be called after the pattern list changes.
func (c *Config) Compile() error {
	c.ignoreGlobs = c.ignoreGlobs[:0]
	for _, pattern := range c.IgnoreURLPatterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		c.ignoreGlobs = append(c.ignoreGlobs, g)
	}
	return nil
}

// Timeout returns the overall snapshot deadline as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// SettleWait returns the post-load settle delay as a duration.
func (c *Config) SettleWait() time.Duration {
	return time.Duration(c.SettleMs) * time.Millisecond
}

func splitAndTrim(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
