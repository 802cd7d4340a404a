package config

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseDir:  DefaultBaseDir(),
		Language: "en-US",
	}
}
