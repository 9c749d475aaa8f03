package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ArchiveDatabase writes a snapshot of the SQLite database into an "archive"
// directory next to it, named after the file with a timestamp. It returns
// the archive path. The snapshot is taken with VACUUM INTO so it stays
// consistent while the database is open elsewhere.
func ArchiveDatabase(ctx context.Context, dbPath string) (string, error) {
	// Check if the database exists
	info, err := os.Stat(dbPath)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", dbPath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat database: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("database path is a directory: %s", dbPath)
	}

	// Create archive directory if it doesn't exist
	archiveDir := filepath.Join(filepath.Dir(dbPath), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	ext := filepath.Ext(dbPath)
	base := strings.TrimSuffix(filepath.Base(dbPath), ext)

	timestamp := time.Now().Format("20060102-150405")
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", base, timestamp, ext))

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		// Add microseconds to make it unique
		timestamp = time.Now().Format("20060102-150405.000000")
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", base, timestamp, ext))
	}

	if err := snapshot(ctx, dbPath, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive database: %w", err)
	}
	return archivePath, nil
}

func snapshot(ctx context.Context, src, dst string) error {
	db, err := sql.Open("sqlite3", "file:"+src+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return err
	}
	defer db.Close()

	// VACUUM INTO refuses to overwrite an existing file
	if _, err := db.ExecContext(ctx, "VACUUM INTO ?", dst); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}
