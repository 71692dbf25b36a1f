// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package validation runs preflight checks that need the outside world:
// RPC endpoints and the build output directory.
package validation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ManuGH/deploycfg/internal/config"
	"github.com/ManuGH/deploycfg/internal/log"
	"github.com/ManuGH/deploycfg/internal/metrics"
	"github.com/ManuGH/deploycfg/internal/validate"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Probe outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeMismatch    = "chain_id_mismatch"
	OutcomeUnreachable = "unreachable"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultConcurrency = 4
)

// Dialer fetches the chain id served by an RPC endpoint.
type Dialer interface {
	ChainID(ctx context.Context, url string) (uint64, error)
}

// EthDialer talks JSON-RPC through go-ethereum's client.
type EthDialer struct{}

// ChainID dials url and calls eth_chainId.
func (EthDialer) ChainID(ctx context.Context, url string) (uint64, error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return 0, err
	}
	defer client.Close()

	id, err := client.ChainID(ctx)
	if err != nil {
		return 0, err
	}
	if !id.IsUint64() {
		return 0, fmt.Errorf("chain id %s out of range", id)
	}
	return id.Uint64(), nil
}

// Options tune PerformPreflightChecks. Zero values pick defaults.
type Options struct {
	Timeout     time.Duration // per probe
	Concurrency int
	Dialer      Dialer
	Networks    []string // restrict probing to these networks; empty means all
	OutputDir   string   // checked for writability when set
}

// Result is the outcome of probing one network.
type Result struct {
	Network  string
	ChainID  uint64
	Outcome  string
	Duration time.Duration
	Err      error
}

// PerformPreflightChecks probes every network that has a URL: the endpoint
// must answer eth_chainId within the timeout and match the declared chainId
// when one is declared. Failures are aggregated into one
// *config.ConfigurationError naming networks.<name>.url or
// networks.<name>.chainId. Results are sorted by network name.
func PerformPreflightChecks(ctx context.Context, cfg config.ProjectConfig, creds config.Credentials, opts Options) ([]Result, error) {
	logger := log.WithComponentFromContext(ctx, "preflight")
	logger.Info().Str(log.FieldEvent, "preflight.start").Msg("running preflight checks")

	if opts.OutputDir != "" {
		if err := checkOutputDir(logger, opts.OutputDir); err != nil {
			return nil, fmt.Errorf("output directory check failed: %w", err)
		}
	}

	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.Dialer == nil {
		opts.Dialer = EthDialer{}
	}

	names := opts.Networks
	if len(names) == 0 {
		names = cfg.NetworkNames()
	}

	var (
		mu      sync.Mutex
		results = make([]Result, 0, len(names))
		v       = validate.New()
	)
	for _, name := range names {
		if _, ok := cfg.Networks[name]; !ok {
			v.AddError("networks", fmt.Sprintf("network %q is not declared", name), name)
		}
	}
	if !v.IsValid() {
		return nil, config.NewConfigurationError("preflight", v.Errors()...)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for _, name := range names {
		resolved, _ := creds.Network(name)
		if resolved.URL == "" {
			continue
		}
		declared := cfg.Networks[name].ChainID
		g.Go(func() error {
			res := probe(gctx, opts, name, resolved.URL, declared)
			mu.Lock()
			defer mu.Unlock()
			results = append(results, res)
			switch res.Outcome {
			case OutcomeUnreachable:
				v.AddError("networks."+name+".url", res.Err.Error(), config.MaskURL(resolved.URL))
			case OutcomeMismatch:
				v.AddError("networks."+name+".chainId", res.Err.Error(), declared)
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Network < results[j].Network })
	if err := ctx.Err(); err != nil {
		return results, err
	}
	if !v.IsValid() {
		cerr := config.NewConfigurationError("preflight", v.Errors()...)
		logger.Error().
			Str(log.FieldEvent, "preflight.failed").
			Strs("fields", cerr.Fields()).
			Msg("preflight checks failed")
		return results, cerr
	}

	logger.Info().
		Str(log.FieldEvent, "preflight.success").
		Int("probed", len(results)).
		Msg("all preflight checks passed")
	return results, nil
}

func probe(ctx context.Context, opts Options, name, url string, declared uint64) Result {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	start := time.Now()
	id, err := opts.Dialer.ChainID(ctx, url)
	res := Result{Network: name, ChainID: id, Duration: time.Since(start)}

	switch {
	case err != nil:
		res.Outcome = OutcomeUnreachable
		res.Err = fmt.Errorf("endpoint %s unreachable: %w", config.MaskURL(url), maskedError(err, url))
	case declared != 0 && id != declared:
		res.Outcome = OutcomeMismatch
		res.Err = fmt.Errorf("endpoint serves chain %d, declared %d", id, declared)
	default:
		res.Outcome = OutcomeOK
	}
	metrics.RecordPreflightProbe(res.Outcome, res.Duration.Seconds())
	return res
}

// maskedError hides url inside transport errors, which often echo it.
func maskedError(err error, url string) error {
	masked := config.MaskURL(url)
	if masked == url || !strings.Contains(err.Error(), url) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), url, masked))
}

func checkOutputDir(logger zerolog.Logger, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", path)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	testFile := filepath.Join(path, ".write_test")
	if err := os.WriteFile(testFile, []byte("ok"), 0600); err != nil {
		return fmt.Errorf("directory is not writable: %s (error: %v)", path, err)
	}
	_ = os.Remove(testFile)

	logger.Info().Str(log.FieldPath, path).Msg("output directory is writable")
	return nil
}
