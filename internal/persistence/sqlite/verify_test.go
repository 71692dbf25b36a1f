package sqlite

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ManuGH/deploycfg/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedHistory writes enough rows to span several pages.
func seedHistory(t *testing.T, path string) {
	t.Helper()
	s, err := OpenHistory(path)
	require.NoError(t, err)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 100; i++ {
		require.NoError(t, s.Record(ctx, Event{
			ID:      fmt.Sprintf("load-%03d", i),
			Path:    "deploy.yaml",
			Format:  "yaml",
			Outcome: config.OutcomeInvalid,
			Error:   strings.Repeat("A", 100),
			At:      base.Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, s.Close())
}

func TestParseVerifyMode(t *testing.T) {
	for in, want := range map[string]VerifyMode{"quick": VerifyQuick, "FULL": VerifyFull, " full ": VerifyFull} {
		got, err := ParseVerifyMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseVerifyMode("deep")
	assert.Error(t, err)
}

func TestVerifyIntegrity_Healthy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.sqlite")
	seedHistory(t, path)

	for _, mode := range []VerifyMode{VerifyQuick, VerifyFull} {
		issues, err := VerifyIntegrity(context.Background(), path, mode)
		require.NoError(t, err, mode)
		assert.Nil(t, issues, mode)
	}
}

func TestVerifyIntegrity_RejectsUnknownMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.sqlite")
	seedHistory(t, path)

	_, err := VerifyIntegrity(context.Background(), path, VerifyMode("deep"))
	assert.Error(t, err)
}

func TestVerifyIntegrity_Corruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.sqlite")
	seedHistory(t, path)

	// overwrite 100 bytes of the second page
	f, err := os.OpenFile(path, os.O_RDWR, 0o600)
	require.NoError(t, err)
	junk := make([]byte, 100)
	_, _ = rand.Read(junk)
	_, err = f.WriteAt(junk, 4096)
	require.NoError(t, f.Close())
	require.NoError(t, err)

	issues, err := VerifyIntegrity(context.Background(), path, VerifyFull)
	if err == nil {
		assert.NotEmpty(t, issues, "corruption went undetected")
	}
}
