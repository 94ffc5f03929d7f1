package stores

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/hay-kot/mbot/internal/data/db"
)

var corruptCodes = []int{
	sqlite3.SQLITE_CORRUPT,
	sqlite3.SQLITE_NOTADB,
	sqlite3.SQLITE_CANTOPEN,
}

var corruptMessages = []string{
	"database disk image is malformed",
	"file is not a database",
	"database corruption",
}

func sqliteCode(err error) (int, bool) {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code(), true
	}
	return 0, false
}

// IsBusyError reports whether err is SQLITE_BUSY.
func IsBusyError(err error) bool {
	code, ok := sqliteCode(err)
	return ok && code == sqlite3.SQLITE_BUSY
}

// IsCorruptionError reports whether err means the history database file is
// unusable and should be replaced.
func IsCorruptionError(err error) bool {
	if code, ok := sqliteCode(err); ok {
		return slices.Contains(corruptCodes, code)
	}

	msg := err.Error()
	return slices.ContainsFunc(corruptMessages, func(s string) bool {
		return strings.Contains(msg, s)
	})
}

// RecoverFromCorruption moves the database file and its WAL and SHM
// companions aside as <name>.corrupt.<timestamp>, so the next Open starts an
// empty history. Missing files are skipped. A companion that cannot be moved
// is removed, since a stale WAL would be replayed into the new database.
func RecoverFromCorruption(dataDir string) error {
	dbPath := filepath.Join(dataDir, db.FileName)
	backup := fmt.Sprintf("%s.corrupt.%s", dbPath, time.Now().Format("20060102-150405"))

	for _, suffix := range []string{"", "-wal", "-shm"} {
		src := dbPath + suffix
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}

		err := os.Rename(src, backup+suffix)
		if err == nil {
			continue
		}
		if suffix == "" {
			return fmt.Errorf("failed to move corrupt database aside: %w", err)
		}
		if rmErr := os.Remove(src); rmErr != nil {
			return fmt.Errorf("failed to move or remove %s: %w", filepath.Base(src), err)
		}
	}

	return nil
}
