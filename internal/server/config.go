package server

import (
	"os"
	"strings"
)

// Config represents the configuration for the HTTP server
type Config struct {
	// Port the API listens on
	Port string
	// DataDir holds the JSON documents and mirrors
	DataDir string
	// MediaDir holds uploaded media assets
	MediaDir string
	// StrictCategories rejects entries outside the fixed category set
	StrictCategories bool
}

// DefaultConfig returns the default server configuration
func DefaultConfig() *Config {
	return &Config{
		Port:             "8080",
		DataDir:          "data",
		MediaDir:         "media",
		StrictCategories: false,
	}
}

// ConfigFromEnv builds the configuration from environment variables,
// falling back to the defaults.
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if dir := os.Getenv("VOCAB_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	if dir := os.Getenv("MEDIA_DIR"); dir != "" {
		cfg.MediaDir = dir
	}
	if v := os.Getenv("STRICT_CATEGORIES"); v != "" {
		cfg.StrictCategories = strings.EqualFold(v, "true") || v == "1"
	}
	return cfg
}
