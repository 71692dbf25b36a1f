// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Change is one differing leaf between two configurations.
type Change struct {
	Path string // canonical field path, e.g. "networks.rinkeby.url"
	Old  any    // nil when the field was added
	New  any    // nil when the field was removed
}

func (c Change) String() string {
	switch {
	case c.Old == nil:
		return fmt.Sprintf("+ %s: %v", c.Path, c.New)
	case c.New == nil:
		return fmt.Sprintf("- %s: %v", c.Path, c.Old)
	default:
		return fmt.Sprintf("~ %s: %v -> %v", c.Path, c.Old, c.New)
	}
}

// fieldNames maps Go field names to their file keys.
var fieldNames = func() map[string]string {
	out := make(map[string]string)
	for _, t := range []reflect.Type{
		reflect.TypeOf(ProjectConfig{}),
		reflect.TypeOf(NetworkProfile{}),
		reflect.TypeOf(OptimizerSettings{}),
		reflect.TypeOf(ContractSizerOptions{}),
	} {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
			out[f.Name] = name
		}
	}
	return out
}()

// Diff lists the leaf differences between old and next. Values are masked.
func Diff(old, next ProjectConfig) []Change {
	var r changeReporter
	cmp.Equal(MaskConfig(old), MaskConfig(next), cmpopts.EquateEmpty(), cmp.Reporter(&r))
	return r.changes
}

// DiffText renders a human-readable diff of the masked configurations.
// It is empty when they are equal.
func DiffText(old, next ProjectConfig) string {
	return cmp.Diff(MaskConfig(old), MaskConfig(next), cmpopts.EquateEmpty())
}

type changeReporter struct {
	path    cmp.Path
	changes []Change
}

func (r *changeReporter) PushStep(ps cmp.PathStep) { r.path = append(r.path, ps) }

func (r *changeReporter) PopStep() { r.path = r.path[:len(r.path)-1] }

func (r *changeReporter) Report(rs cmp.Result) {
	if rs.Equal() {
		return
	}
	vx, vy := r.path.Last().Values()
	r.changes = append(r.changes, Change{
		Path: canonicalPath(r.path),
		Old:  valueOf(vx),
		New:  valueOf(vy),
	})
}

func valueOf(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	return v.Interface()
}

func canonicalPath(p cmp.Path) string {
	var b strings.Builder
	for _, step := range p {
		switch s := step.(type) {
		case cmp.StructField:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(fieldNames[s.Name()])
		case cmp.MapIndex:
			b.WriteByte('.')
			b.WriteString(fmt.Sprint(s.Key().Interface()))
		case cmp.SliceIndex:
			k := s.Key()
			if k < 0 {
				kx, ky := s.SplitKeys()
				k = max(kx, ky)
			}
			fmt.Fprintf(&b, "[%d]", k)
		}
	}
	return b.String()
}
