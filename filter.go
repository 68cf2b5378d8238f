package quiesce

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ---------------------------------------------------------------------------
// Lock-category filter (TOML-based)
// ---------------------------------------------------------------------------
//
// Hosts tag every lock-mode change with a category. Some categories are
// raised by the host's own transient bookkeeping and say nothing about
// whether the surface is busy; changes in those categories must not trigger
// a refresh. Which categories those are is host-specific, so the filter is
// data, not code: a TOML file of [[ignore]] rules compiled into a
// predicate.

// filterRule matches one lock category.
type filterRule struct {
	Category string `toml:"category"`
	Match    string `toml:"match"` // "substring" (default) or "exact"
}

// filterFile is the top-level TOML structure.
type filterFile struct {
	Ignore []filterRule `toml:"ignore"`
}

const defaultFilterTOML = `# quiesce lock-category filter
# Lock-mode changes whose category matches an [[ignore]] rule are dropped
# by the tracker. match is "substring" (default) or "exact".

[[ignore]]
category = "Internal"
match = "substring"
`

// LoadFilter reads filter rules from path and compiles them into an ignore
// predicate. An empty path compiles the built-in default rules.
func LoadFilter(path string) (func(category string) bool, error) {
	var f filterFile
	if path == "" {
		if _, err := toml.Decode(defaultFilterTOML, &f); err != nil {
			return nil, fmt.Errorf("parse built-in filter: %w", err)
		}
		return compileFilter(f)
	}
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("parse filter %s: %w", path, err)
	}
	return compileFilter(f)
}

// EnsureFilterFile writes the default rules to path if no file exists yet,
// creating parent directories as needed.
func EnsureFilterFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir filter dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultFilterTOML), 0o644); err != nil {
		return fmt.Errorf("write filter: %w", err)
	}
	return nil
}

func compileFilter(f filterFile) (func(string) bool, error) {
	for _, r := range f.Ignore {
		switch r.Match {
		case "", "substring", "exact":
		default:
			return nil, fmt.Errorf("filter rule %q: unknown match mode %q", r.Category, r.Match)
		}
	}
	rules := f.Ignore
	return func(category string) bool {
		for _, r := range rules {
			switch r.Match {
			case "exact":
				if category == r.Category {
					return true
				}
			default:
				if r.Category != "" && strings.Contains(category, r.Category) {
					return true
				}
			}
		}
		return false
	}, nil
}
