package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/recipetrans/internal/archive"
	"codeberg.org/snonux/recipetrans/internal/batch"
	"codeberg.org/snonux/recipetrans/internal/cli"
	"codeberg.org/snonux/recipetrans/internal/ingredient"
	"codeberg.org/snonux/recipetrans/internal/lang"
	"codeberg.org/snonux/recipetrans/internal/logging"
	"codeberg.org/snonux/recipetrans/internal/models"
	"codeberg.org/snonux/recipetrans/internal/plural"
	"codeberg.org/snonux/recipetrans/internal/recipe"
	"codeberg.org/snonux/recipetrans/internal/store"
	"codeberg.org/snonux/recipetrans/internal/translation"
)

const memoryStore = ":memory:"

// Processor runs the recipetrans subcommands against one store
type Processor struct {
	flags    *cli.Flags
	out      io.Writer
	logger   *zap.Logger
	dbPath   string
	store    store.Store
	resolver *ingredient.Resolver
	recipes  *recipe.Service
	sharer   *recipe.Sharer
}

// NewProcessor opens the configured store and translation provider
func NewProcessor(flags *cli.Flags, out io.Writer) (*Processor, error) {
	level, development := cli.LogSettings(flags)
	logger, err := logging.New(level, development)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	dbPath := cli.StorePath(flags)
	var st store.Store
	if dbPath == memoryStore {
		st = store.NewMemory()
	} else {
		// Create the state directory (including parent directories)
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		sqlite, err := store.OpenSQLite(ctx, dbPath)
		if err != nil {
			return nil, err
		}
		st = sqlite
	}

	svc, err := translation.NewService(ctx, cli.TranslationConfig(flags), logger)
	if err != nil {
		st.Close()
		return nil, err
	}

	return New(flags, out, logger, st, translation.NewMemo(svc, translation.NewTranslationCache()), dbPath), nil
}

// New wires a processor from an open store and translation service
func New(flags *cli.Flags, out io.Writer, logger *zap.Logger, st store.Store, svc translation.Service, dbPath string) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}

	cases := lang.NewCaseRules(cli.PreserveCaseLanguages())
	resolver := ingredient.NewResolver(st, svc, plural.NewRules(), logger.Named("ingredient"))
	orchestrator := recipe.NewOrchestrator(st, svc, cases, logger.Named("orchestrator"))
	updater := recipe.NewUpdater(st, svc, logger.Named("updater"))

	return &Processor{
		flags:    flags,
		out:      out,
		logger:   logger,
		dbPath:   dbPath,
		store:    st,
		resolver: resolver,
		recipes:  recipe.NewService(st, resolver, orchestrator, updater, logger.Named("recipe")),
		sharer:   recipe.NewSharer(st, orchestrator),
	}
}

// Close closes the store and flushes the logger
func (p *Processor) Close() error {
	_ = p.logger.Sync()
	return p.store.Close()
}

func (p *Processor) language() string {
	if code := lang.Normalize(p.flags.Language); code != "" {
		return code
	}
	return lang.English
}

// Resolve resolves names typed in the selected language
func (p *Processor) Resolve(ctx context.Context, names []string) error {
	code := p.language()
	for _, name := range names {
		if err := p.resolveOne(ctx, name, code); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) resolveOne(ctx context.Context, name, code string) error {
	id, err := p.resolver.Resolve(ctx, name, code)
	if err != nil {
		return fmt.Errorf("failed to resolve '%s': %w", name, err)
	}
	ing, err := p.store.GetIngredient(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load ingredient %s: %w", id, err)
	}

	fmt.Fprintf(p.out, "%s (%s) -> %s [%s]\n", name, code, ing.SingularName, id)
	return nil
}

// ResolveBatch resolves every name listed in filename
func (p *Processor) ResolveBatch(ctx context.Context, filename string) error {
	entries, err := batch.ReadIngredientFile(filename, p.language())
	if err != nil {
		return err
	}

	// Track statistics
	resolved := 0
	errorCount := 0

	for i, entry := range entries {
		fmt.Fprintf(p.out, "%d/%d: ", i+1, len(entries))
		if err := p.resolveOne(ctx, entry.Name, entry.Language); err != nil {
			fmt.Fprintf(p.out, "error: %v\n", err)
			errorCount++
			// Continue with next name
			continue
		}
		resolved++
	}

	// Print summary
	fmt.Fprintf(p.out, "\n=== Batch Summary ===\n")
	fmt.Fprintf(p.out, "Total names: %d\n", len(entries))
	fmt.Fprintf(p.out, "Resolved: %d\n", resolved)
	if errorCount > 0 {
		fmt.Fprintf(p.out, "Errors: %d\n", errorCount)
	}
	fmt.Fprintf(p.out, "=====================\n")

	if errorCount > 0 && resolved == 0 {
		return fmt.Errorf("no names could be resolved")
	}
	return nil
}

// Import saves every recipe from a YAML file
func (p *Processor) Import(ctx context.Context, filename string) error {
	drafts, err := batch.ReadRecipeFile(filename)
	if err != nil {
		return err
	}

	for _, d := range drafts {
		if d.Language == "" {
			d.Language = p.language()
		}
		r, err := p.recipes.Save(ctx, d)
		if err != nil {
			return fmt.Errorf("failed to save '%s': %w", d.Title, err)
		}
		fmt.Fprintf(p.out, "Saved %s [%s]\n", r.Title, r.ID)
		if r.Public {
			fmt.Fprintf(p.out, "  Share token: %s\n", r.ShareToken)
		}
	}
	return nil
}

// View prints a recipe in the selected language
func (p *Processor) View(ctx context.Context, recipeID string) error {
	v, err := p.recipes.View(ctx, recipeID, p.language())
	if err != nil {
		return err
	}
	PrintView(p.out, v)
	return nil
}

// Share prints a shared public recipe in the selected language
func (p *Processor) Share(ctx context.Context, token string) error {
	v, err := p.sharer.SharedRecipe(ctx, token, p.language())
	if err != nil {
		return err
	}
	PrintView(p.out, v)
	return nil
}

// Titles prints every recipe title in the selected language
func (p *Processor) Titles(ctx context.Context) error {
	titles, err := p.recipes.Titles(ctx, p.language())
	if err != nil {
		return err
	}
	if len(titles) == 0 {
		fmt.Fprintln(p.out, "No recipes found")
		return nil
	}
	for _, t := range titles {
		fmt.Fprintf(p.out, "%s  %s\n", t.RecipeID, t.Title)
	}
	return nil
}

// Override sets, or with an empty name clears, a recipe-specific name
func (p *Processor) Override(ctx context.Context, recipeIngredientID, code, name string) error {
	code = lang.Normalize(code)
	if !lang.IsCode(code) {
		return fmt.Errorf("invalid language code '%s'", code)
	}
	if err := p.recipes.SetNameOverride(ctx, recipeIngredientID, code, name); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		fmt.Fprintf(p.out, "Cleared %s name override of %s\n", code, recipeIngredientID)
	} else {
		fmt.Fprintf(p.out, "Set %s name override of %s to %s\n", code, recipeIngredientID, name)
	}
	return nil
}

// Archive snapshots the database to a timestamped archive
func (p *Processor) Archive(ctx context.Context) error {
	if p.dbPath == "" || p.dbPath == memoryStore {
		return errors.New("an in-memory store cannot be archived")
	}
	dst, err := archive.ArchiveDatabase(ctx, p.dbPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Archived database to %s\n", dst)
	return nil
}

// ListModels prints the OpenAI chat models usable for translation
func (p *Processor) ListModels(ctx context.Context) error {
	config := cli.TranslationConfig(p.flags)
	available, err := models.NewLister(config.OpenAIKey).ChatModels(ctx)
	if err != nil {
		return err
	}
	models.Print(p.out, available, config.OpenAIModel)
	return nil
}

// PrintView writes a rendered recipe
func PrintView(w io.Writer, v recipe.View) {
	fmt.Fprintf(w, "%s\n", v.Title)
	if v.Category != "" {
		fmt.Fprintf(w, "Category: %s\n", v.Category)
	}
	if v.Degraded {
		fmt.Fprintf(w, "(some text is shown in %s)\n", v.SourceLanguage)
	}

	if len(v.Ingredients) > 0 {
		fmt.Fprintf(w, "\nIngredients:\n")
		subheading := ""
		for _, ing := range v.Ingredients {
			if ing.Subheading != "" && ing.Subheading != subheading {
				subheading = ing.Subheading
				fmt.Fprintf(w, " %s\n", subheading)
			}
			fmt.Fprintf(w, "  - %s\n", ing.Line())
		}
	}

	if len(v.Instructions) > 0 {
		fmt.Fprintf(w, "\nInstructions:\n")
		step := 0
		for _, line := range v.Instructions {
			if strings.TrimSpace(line) == "" {
				continue
			}
			step++
			fmt.Fprintf(w, "  %d. %s\n", step, line)
		}
	}

	if v.Notes != "" {
		fmt.Fprintf(w, "\nNotes: %s\n", v.Notes)
	}
	if v.Source != "" {
		fmt.Fprintf(w, "Source: %s\n", v.Source)
	}
}
