package cli

import (
	"os"
	"path/filepath"

	"codeberg.org/snonux/recipetrans/internal/lang"
	"codeberg.org/snonux/recipetrans/internal/translation"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile   string
	StorePath string
	Language  string
	BatchFile string
	LogLevel  string
	DevLog    bool

	// Translation flags
	Provider          string
	OpenAIModel       string
	GeminiModel       string
	LibreTranslateURL string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		StorePath:         DefaultStorePath(),
		Language:          lang.English,
		LogLevel:          "info",
		Provider:          translation.ProviderOpenAI,
		OpenAIModel:       translation.DefaultOpenAIModel,
		GeminiModel:       translation.DefaultGeminiModel,
		LibreTranslateURL: translation.DefaultConfig().LibreTranslateURL,
	}
}

// DefaultStorePath returns the database location under the user's state directory
func DefaultStorePath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "recipetrans", "recipes.db")
}
