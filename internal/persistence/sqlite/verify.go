package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// VerifyMode selects the integrity pragma run by VerifyIntegrity.
type VerifyMode string

const (
	// VerifyQuick runs PRAGMA quick_check: O(N), skips index consistency.
	VerifyQuick VerifyMode = "quick"
	// VerifyFull runs PRAGMA integrity_check.
	VerifyFull VerifyMode = "full"
)

// ParseVerifyMode accepts "quick" or "full".
func ParseVerifyMode(s string) (VerifyMode, error) {
	switch m := VerifyMode(strings.ToLower(strings.TrimSpace(s))); m {
	case VerifyQuick, VerifyFull:
		return m, nil
	default:
		return "", fmt.Errorf("unknown verify mode %q (want quick or full)", s)
	}
}

func (m VerifyMode) pragma() string {
	if m == VerifyFull {
		return "PRAGMA integrity_check;"
	}
	return "PRAGMA quick_check;"
}

// VerifyIntegrity opens the history database read-only and checks it for
// structural corruption. It returns the diagnostic rows when the check
// fails and nil when the database is healthy.
func VerifyIntegrity(ctx context.Context, path string, mode VerifyMode) ([]string, error) {
	if _, err := ParseVerifyMode(string(mode)); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(2000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s for verification: %w", path, err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, mode.pragma())
	if err != nil {
		return nil, fmt.Errorf("%s check: %w", mode, err)
	}
	defer func() { _ = rows.Close() }()

	var results []string
	for rows.Next() {
		var res string
		if err := rows.Scan(&res); err != nil {
			return nil, fmt.Errorf("scan %s check row: %w", mode, err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s check: %w", mode, err)
	}

	// healthy is exactly one "ok" row
	if len(results) == 1 && strings.EqualFold(results[0], "ok") {
		return nil, nil
	}
	if len(results) == 0 {
		return []string{mode.String() + " check returned no rows"}, nil
	}
	return results, nil
}

func (m VerifyMode) String() string { return string(m) }
