package cli

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"codeberg.org/snonux/recipetrans/internal/lang"
	"codeberg.org/snonux/recipetrans/internal/translation"
)

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	setDefaults()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".recipetrans" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".recipetrans")
	}

	// Environment variables
	viper.SetEnvPrefix("RECIPETRANS")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults() {
	defaults := translation.DefaultConfig()
	viper.SetDefault("translation.breaker_failures", defaults.BreakerFailures)
	viper.SetDefault("translation.breaker_timeout", defaults.BreakerTimeout)
	viper.SetDefault("translation.coalesce", defaults.Coalesce)
	viper.SetDefault("translation.preserve_case_languages", lang.DefaultPreserveCase)
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("translation.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("translation.gemini_key")
}

// TranslationConfig builds the translation provider configuration from
// viper, falling back to the flag values
func TranslationConfig(flags *Flags) *translation.Config {
	config := translation.DefaultConfig()

	config.Provider = stringOr("translation.provider", flags.Provider)
	config.OpenAIKey = GetOpenAIKey()
	config.OpenAIModel = stringOr("translation.openai_model", flags.OpenAIModel)
	config.GeminiKey = GetGeminiKey()
	config.GeminiModel = stringOr("translation.gemini_model", flags.GeminiModel)
	config.LibreTranslateURL = stringOr("translation.libretranslate_url", flags.LibreTranslateURL)
	config.LibreTranslateKey = viper.GetString("translation.libretranslate_key")

	if n := viper.GetUint32("translation.breaker_failures"); n > 0 {
		config.BreakerFailures = n
	}
	if d := viper.GetDuration("translation.breaker_timeout"); d > 0 {
		config.BreakerTimeout = d
	}
	if viper.IsSet("translation.coalesce") {
		config.Coalesce = viper.GetBool("translation.coalesce")
	}
	return config
}

// PreserveCaseLanguages returns the languages whose translated ingredient
// names keep their capitalization
func PreserveCaseLanguages() []string {
	if !viper.IsSet("translation.preserve_case_languages") {
		return lang.DefaultPreserveCase
	}
	return viper.GetStringSlice("translation.preserve_case_languages")
}

// StorePath returns the configured database path
func StorePath(flags *Flags) string {
	return stringOr("store.path", flags.StorePath)
}

// LogSettings returns the configured log level and development mode
func LogSettings(flags *Flags) (string, bool) {
	return stringOr("log.level", flags.LogLevel), viper.GetBool("log.development") || flags.DevLog
}

func stringOr(key, fallback string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}
