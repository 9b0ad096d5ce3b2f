package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name looked up in the search directories.
const FileName = "folio.yaml"

// Load loads the modal configuration and applies environment secrets.
// Search order: customPath -> ~/.folio/configs/folio.yaml -> ./configs/folio.yaml -> embedded default.
// Files are decoded over the defaults, so a file only needs the keys it changes.
func Load(customPath string) (ModalConfig, error) {
	cfg := embedded()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return finish(cfg)
	}

	// Try user config directory, then local configs directory
	for _, path := range []string{userConfigPath(FileName), filepath.Join("configs", FileName)} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		candidate := embedded()
		if err := yaml.Unmarshal(data, &candidate); err == nil {
			return finish(candidate)
		}
	}

	return finish(cfg)
}

// embedded decodes the embedded default YAML, falling back to Default.
func embedded() ModalConfig {
	var cfg ModalConfig
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return Default() // Fallback to hardcoded if embed fails
	}
	return cfg
}

func finish(cfg ModalConfig) (ModalConfig, error) {
	ApplyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv copies secrets and deployment overrides from the environment.
// A .env file in the working directory is loaded by the binary at startup.
func ApplyEnv(cfg *ModalConfig) {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Chatbot.APIKey = v
	}
	if v := os.Getenv("BOOKING_ENDPOINT"); v != "" {
		cfg.Booking.Endpoint = v
	}
	if v := os.Getenv("CONTACT_ENDPOINT"); v != "" {
		cfg.Booking.ContactEndpoint = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.HTTPAddr = ":" + v
	}
	if v := os.Getenv("FOLIO_DB"); v != "" {
		cfg.Server.DBPath = v
	}
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".folio", "configs", filename)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
