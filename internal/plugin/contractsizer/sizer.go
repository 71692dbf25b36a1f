// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package contractsizer measures compiled contract artifacts against the
// EVM code size limits.
package contractsizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/ManuGH/deploycfg/internal/config"
	xglog "github.com/ManuGH/deploycfg/internal/log"
	"github.com/ManuGH/deploycfg/internal/metrics"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Name is the plugin name that enables the capability.
const Name = "hardhat-contract-sizer"

const (
	// MaxRuntimeSize is the EIP-170 limit on deployed bytecode.
	MaxRuntimeSize = 24576
	// MaxInitSize is the EIP-3860 limit on init code.
	MaxInitSize = 2 * MaxRuntimeSize
)

// ErrContractTooLarge is returned in strict mode when any contract exceeds a limit.
var ErrContractTooLarge = errors.New("contract code size exceeds limit")

// Library link placeholders are 40 characters: __$<34 hex>$__
var linkPlaceholder = regexp.MustCompile(`__\$[0-9a-fA-F]{34}\$__`)

// Report is the measured size of one contract.
type Report struct {
	Contract    string `json:"contract"`
	Source      string `json:"source"`
	RuntimeSize int    `json:"runtimeSize"`
	InitSize    int    `json:"initSize"`
}

// ExceedsRuntime reports whether the deployed code is over EIP-170.
func (r Report) ExceedsRuntime() bool { return r.RuntimeSize > MaxRuntimeSize }

// ExceedsInit reports whether the init code is over EIP-3860.
func (r Report) ExceedsInit() bool { return r.InitSize > MaxInitSize }

// Oversized reports whether any limit is exceeded.
func (r Report) Oversized() bool { return r.ExceedsRuntime() || r.ExceedsInit() }

type artifact struct {
	ContractName     string `json:"contractName"`
	SourceName       string `json:"sourceName"`
	Bytecode         string `json:"bytecode"`
	DeployedBytecode string `json:"deployedBytecode"`
}

// Measure walks dir for Hardhat artifacts and sizes every contract with
// deployed code. Debug files, build-info and interfaces are skipped. Results
// are sorted by source then contract name.
func Measure(ctx context.Context, dir string) ([]Report, error) {
	var reports []Report
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".json") || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}

		rep, ok, err := measureFile(path)
		if err != nil {
			return err
		}
		if ok {
			reports = append(reports, rep)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].Source != reports[j].Source {
			return reports[i].Source < reports[j].Source
		}
		return reports[i].Contract < reports[j].Contract
	})
	return reports, nil
}

func measureFile(path string) (Report, bool, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from walking the artifacts dir
	if err != nil {
		return Report{}, false, err
	}
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return Report{}, false, fmt.Errorf("%s: %w", path, err)
	}
	if a.ContractName == "" || a.DeployedBytecode == "" {
		return Report{}, false, nil
	}

	runtime, err := codeSize(a.DeployedBytecode)
	if err != nil {
		return Report{}, false, fmt.Errorf("%s: deployedBytecode: %w", path, err)
	}
	if runtime == 0 {
		return Report{}, false, nil
	}
	initSize, err := codeSize(a.Bytecode)
	if err != nil {
		return Report{}, false, fmt.Errorf("%s: bytecode: %w", path, err)
	}
	return Report{
		Contract:    a.ContractName,
		Source:      a.SourceName,
		RuntimeSize: runtime,
		InitSize:    initSize,
	}, true, nil
}

func codeSize(code string) (int, error) {
	if code == "" {
		return 0, nil
	}
	code = linkPlaceholder.ReplaceAllLiteralString(code, strings.Repeat("0", 40))
	b, err := hexutil.Decode(code)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

// Capability sizes the artifacts in a directory whenever it is activated.
type Capability struct {
	dir string

	mu      sync.Mutex
	reports []Report
}

// New returns a sizer reading artifacts from dir.
func New(dir string) *Capability {
	return &Capability{dir: dir}
}

func (c *Capability) Name() string { return Name }

// Configure measures the artifacts. A missing artifacts directory means
// nothing has been compiled yet and is not an error. In strict mode any
// oversized contract fails with ErrContractTooLarge.
func (c *Capability) Configure(ctx context.Context, snap config.Snapshot) error {
	logger := xglog.WithComponentFromContext(ctx, "contractsizer")

	if _, err := os.Stat(c.dir); errors.Is(err, fs.ErrNotExist) {
		logger.Debug().
			Str(xglog.FieldEvent, "contractsizer.no_artifacts").
			Str(xglog.FieldPath, c.dir).
			Msg("artifacts directory not found, skipping")
		return nil
	}

	reports, err := Measure(ctx, c.dir)
	if err != nil {
		return fmt.Errorf("measure artifacts: %w", err)
	}

	c.mu.Lock()
	c.reports = reports
	c.mu.Unlock()

	var oversized []string
	for _, r := range reports {
		metrics.SetContractSize(r.Contract, r.RuntimeSize)
		if !r.Oversized() {
			continue
		}
		oversized = append(oversized, r.Contract)
		logger.Warn().
			Str(xglog.FieldEvent, "contractsizer.oversized").
			Str(xglog.FieldContract, r.Contract).
			Int(xglog.FieldBytes, r.RuntimeSize).
			Int("init_bytes", r.InitSize).
			Msg("contract exceeds code size limit")
	}

	if len(oversized) > 0 && snap.ContractSizer().Strict {
		return fmt.Errorf("%w: %s", ErrContractTooLarge, strings.Join(oversized, ", "))
	}
	return nil
}

// Reports returns the sizes measured by the last activation.
func (c *Capability) Reports() []Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Report, len(c.reports))
	copy(out, c.reports)
	return out
}
