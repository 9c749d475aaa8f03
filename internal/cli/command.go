package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/recipetrans/internal"
)

// Runner executes the subcommands. It is built after configuration has
// been loaded and closed when the subcommand returns.
type Runner interface {
	Resolve(ctx context.Context, names []string) error
	ResolveBatch(ctx context.Context, filename string) error
	View(ctx context.Context, recipeID string) error
	Titles(ctx context.Context) error
	Share(ctx context.Context, token string) error
	Import(ctx context.Context, filename string) error
	Override(ctx context.Context, recipeIngredientID, code, name string) error
	Archive(ctx context.Context) error
	ListModels(ctx context.Context) error
	Close() error
}

// RunnerFactory creates a Runner from the parsed flags
type RunnerFactory func(flags *Flags) (Runner, error)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, newRunner RunnerFactory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "recipetrans",
		Short: "Multilingual recipe translation engine",
		Long: `recipetrans resolves ingredient names typed in any language to canonical
ingredients and renders recipes in any language, caching every translation.

Examples:
  recipetrans resolve --lang de Tomaten      # Resolve a German ingredient name
  recipetrans resolve --batch pantry.txt     # Resolve names from a file
  recipetrans import recipes.yaml            # Save recipes from YAML
  recipetrans view --lang fr <recipe-id>     # Show a recipe in French
  recipetrans titles --lang ja               # List recipe titles in Japanese`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	with := func(run func(ctx context.Context, r Runner) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			r, err := newRunner(flags)
			if err != nil {
				return err
			}
			defer r.Close()
			return run(cmd.Context(), r)
		}
	}

	resolveCmd := &cobra.Command{
		Use:   "resolve [name...]",
		Short: "Resolve ingredient names to canonical ingredients",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.BatchFile == "" && len(args) == 0 {
				return fmt.Errorf("requires at least one name or --batch")
			}
			return with(func(ctx context.Context, r Runner) error {
				if flags.BatchFile != "" {
					return r.ResolveBatch(ctx, flags.BatchFile)
				}
				return r.Resolve(ctx, args)
			})(cmd, args)
		},
	}
	resolveCmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Resolve names from file (one per line, optional 'lang = name')")

	viewCmd := &cobra.Command{
		Use:   "view <recipe-id>",
		Short: "Show a recipe in the selected language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return with(func(ctx context.Context, r Runner) error {
				return r.View(ctx, args[0])
			})(cmd, args)
		},
	}

	titlesCmd := &cobra.Command{
		Use:   "titles",
		Short: "List recipe titles in the selected language",
		Args:  cobra.NoArgs,
		RunE: with(func(ctx context.Context, r Runner) error {
			return r.Titles(ctx)
		}),
	}

	shareCmd := &cobra.Command{
		Use:   "share <token>",
		Short: "Show a shared public recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return with(func(ctx context.Context, r Runner) error {
				return r.Share(ctx, args[0])
			})(cmd, args)
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Save recipes from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return with(func(ctx context.Context, r Runner) error {
				return r.Import(ctx, args[0])
			})(cmd, args)
		},
	}

	overrideCmd := &cobra.Command{
		Use:   "override <recipe-ingredient-id> <lang> [name]",
		Short: "Set or, without a name, clear a recipe-specific ingredient name",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 3 {
				name = args[2]
			}
			return with(func(ctx context.Context, r Runner) error {
				return r.Override(ctx, args[0], args[1], name)
			})(cmd, args)
		},
	}

	archiveCmd := &cobra.Command{
		Use:   "archive",
		Short: "Snapshot the database to a timestamped archive",
		Args:  cobra.NoArgs,
		RunE: with(func(ctx context.Context, r Runner) error {
			return r.Archive(ctx)
		}),
	}

	listModelsCmd := &cobra.Command{
		Use:   "list-models",
		Short: "List OpenAI chat models available for the current API key",
		Args:  cobra.NoArgs,
		RunE: with(func(ctx context.Context, r Runner) error {
			return r.ListModels(ctx)
		}),
	}

	rootCmd.AddCommand(resolveCmd, viewCmd, titlesCmd, shareCmd, importCmd, overrideCmd, archiveCmd, listModelsCmd)
	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.recipetrans.yaml)")
	cmd.PersistentFlags().StringVar(&flags.StorePath, "db", flags.StorePath, "SQLite database file (':memory:' for a throwaway store)")
	cmd.PersistentFlags().StringVarP(&flags.Language, "lang", "l", flags.Language, "Language code for input and output (e.g. en, de, fr-CA)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	cmd.PersistentFlags().BoolVar(&flags.DevLog, "dev-log", false, "Human-readable console logs")

	// Translation flags
	cmd.PersistentFlags().StringVar(&flags.Provider, "provider", flags.Provider, "Translation provider: openai, gemini or libretranslate")
	cmd.PersistentFlags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI chat model used for translation")
	cmd.PersistentFlags().StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini model used for translation")
	cmd.PersistentFlags().StringVar(&flags.LibreTranslateURL, "libretranslate-url", flags.LibreTranslateURL, "LibreTranslate server URL")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("store.path", cmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.development", cmd.PersistentFlags().Lookup("dev-log"))
	viper.BindPFlag("translation.provider", cmd.PersistentFlags().Lookup("provider"))
	viper.BindPFlag("translation.openai_model", cmd.PersistentFlags().Lookup("openai-model"))
	viper.BindPFlag("translation.gemini_model", cmd.PersistentFlags().Lookup("gemini-model"))
	viper.BindPFlag("translation.libretranslate_url", cmd.PersistentFlags().Lookup("libretranslate-url"))
}
