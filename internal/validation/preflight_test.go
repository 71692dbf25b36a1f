// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package validation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ManuGH/deploycfg/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rpcServer answers eth_chainId with chainID.
func rpcServer(t *testing.T, chainID string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if req.Method == "eth_chainId" {
			resp["result"] = chainID
		} else {
			resp["error"] = map[string]any{"code": -32601, "message": "method not found"}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setup(urls map[string]string, chainIDs map[string]uint64) (config.ProjectConfig, config.Credentials) {
	cfg := config.ProjectConfig{
		CompilerVersion: "0.8.6",
		DefaultNetwork:  "hardhat",
		Networks:        map[string]config.NetworkProfile{"hardhat": {}},
	}
	creds := config.Credentials{Networks: map[string]config.ResolvedNetwork{"hardhat": {}}}
	for name, url := range urls {
		cfg.Networks[name] = config.NetworkProfile{URL: url, ChainID: chainIDs[name]}
		creds.Networks[name] = config.ResolvedNetwork{URL: url, ChainID: chainIDs[name]}
	}
	return cfg, creds
}

func TestPreflight_EthDialer(t *testing.T) {
	sepolia := rpcServer(t, "0xaa36a7")
	cfg, creds := setup(
		map[string]string{"sepolia": sepolia.URL},
		map[string]uint64{"sepolia": 11155111},
	)

	results, err := PerformPreflightChecks(context.Background(), cfg, creds, Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "sepolia", results[0].Network)
	assert.Equal(t, uint64(11155111), results[0].ChainID)
	assert.Equal(t, OutcomeOK, results[0].Outcome)
}

func TestPreflight_ChainIDMismatch(t *testing.T) {
	srv := rpcServer(t, "0x1")
	cfg, creds := setup(
		map[string]string{"sepolia": srv.URL},
		map[string]uint64{"sepolia": 11155111},
	)

	results, err := PerformPreflightChecks(context.Background(), cfg, creds, Options{})
	require.ErrorIs(t, err, config.ErrConfiguration)

	var cerr *config.ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, []string{"networks.sepolia.chainId"}, cerr.Fields())
	require.Len(t, results, 1)
	assert.Equal(t, OutcomeMismatch, results[0].Outcome)
}

type fakeDialer struct {
	ids      map[string]uint64
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeDialer) ChainID(ctx context.Context, url string) (uint64, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	select {
	case <-time.After(10 * time.Millisecond):
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	id, ok := f.ids[url]
	if !ok {
		return 0, errors.New("dial " + url + ": connection refused")
	}
	return id, nil
}

func TestPreflight_AggregatesFailures(t *testing.T) {
	key := "https://eth-mainnet.g.alchemy.com/v2/abcdefghij0123456789"
	cfg, creds := setup(
		map[string]string{
			"a":       "https://a.example.org",
			"b":       "https://b.example.org",
			"c":       "https://c.example.org",
			"mainnet": key,
		},
		map[string]uint64{"a": 1, "b": 2, "c": 3, "mainnet": 1},
	)
	dialer := &fakeDialer{ids: map[string]uint64{
		"https://a.example.org": 1,
		"https://b.example.org": 20,
		"https://c.example.org": 3,
	}}

	results, err := PerformPreflightChecks(context.Background(), cfg, creds, Options{Dialer: dialer, Concurrency: 2})
	var cerr *config.ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.ElementsMatch(t, []string{"networks.b.chainId", "networks.mainnet.url"}, cerr.Fields())
	assert.NotContains(t, err.Error(), "abcdefghij0123456789")

	require.Len(t, results, 4)
	assert.Equal(t, []string{"a", "b", "c", "mainnet"}, []string{results[0].Network, results[1].Network, results[2].Network, results[3].Network})
	assert.LessOrEqual(t, dialer.peak.Load(), int32(2))
}

func TestPreflight_UndeclaredChainIDAcceptsAny(t *testing.T) {
	cfg, creds := setup(map[string]string{"a": "https://a.example.org"}, nil)
	dialer := &fakeDialer{ids: map[string]uint64{"https://a.example.org": 42}}

	results, err := PerformPreflightChecks(context.Background(), cfg, creds, Options{Dialer: dialer})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), results[0].ChainID)
}

func TestPreflight_SelectedNetworks(t *testing.T) {
	cfg, creds := setup(map[string]string{"a": "https://a.example.org", "b": "https://b.example.org"}, nil)
	dialer := &fakeDialer{ids: map[string]uint64{"https://a.example.org": 1}}

	results, err := PerformPreflightChecks(context.Background(), cfg, creds, Options{Dialer: dialer, Networks: []string{"a"}})
	require.NoError(t, err)
	require.Len(t, results, 1)

	_, err = PerformPreflightChecks(context.Background(), cfg, creds, Options{Dialer: dialer, Networks: []string{"zzz"}})
	assert.ErrorIs(t, err, config.ErrConfiguration)
}

func TestPreflight_OutputDir(t *testing.T) {
	cfg, creds := setup(nil, nil)

	_, err := PerformPreflightChecks(context.Background(), cfg, creds, Options{OutputDir: t.TempDir()})
	require.NoError(t, err)

	_, err = PerformPreflightChecks(context.Background(), cfg, creds, Options{OutputDir: "/definitely/not/here"})
	assert.ErrorContains(t, err, "does not exist")
}
