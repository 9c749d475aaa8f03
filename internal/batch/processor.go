package batch

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"codeberg.org/snonux/recipetrans/internal/lang"
)

// Entry is an ingredient name to resolve together with its language
type Entry struct {
	Language string
	Name     string
}

// ReadIngredientFile reads ingredient names from a file
// Supports formats:
// - Name only: "Tomaten" (resolved in defaultLang)
// - With language: "de = Tomaten"
// Blank lines and lines starting with '#' are skipped. A left-hand side that
// is not a language code keeps the whole line as the name.
func ReadIngredientFile(filename, defaultLang string) ([]Entry, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer file.Close()

	defaultLang = lang.Normalize(defaultLang)
	if defaultLang == "" {
		defaultLang = lang.English
	}

	var entries []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, parseLine(line, defaultLang))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	return entries, nil
}

func parseLine(line, defaultLang string) Entry {
	code, name, found := strings.Cut(line, "=")
	if !found {
		return Entry{Language: defaultLang, Name: line}
	}

	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if name == "" || !lang.IsCode(code) {
		return Entry{Language: defaultLang, Name: line}
	}
	return Entry{Language: lang.Normalize(code), Name: name}
}
