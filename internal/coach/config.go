package coach

// Config holds debrief generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the debrief defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   400,
		Temperature: 0.4,
	}
}
