package cli

import (
	"errors"
	"os"
)

var errMissingPlayer = errors.New("no player set: pass --player or set MAYI_PLAYER")

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Player    string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("MAYI_SERVER", "http://localhost:8080"),
		Player:    os.Getenv("MAYI_PLAYER"),
		Output:    "text",
		Verbose:   false,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
