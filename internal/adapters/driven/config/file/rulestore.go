package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
	"github.com/custodia-labs/voucherbill/internal/core/ports/driven"
	"github.com/custodia-labs/voucherbill/internal/logger"
	"github.com/custodia-labs/voucherbill/internal/rules"
)

// Ensure RuleStore implements the interface.
var _ driven.RuleStore = (*RuleStore)(nil)

// RulesFileName is the name of the user-editable rules file.
const RulesFileName = "rules.toml"

// RuleStore loads parsing rules from a user-editable TOML file, with the
// embedded defaults as fallback.
//
// Initialisation is lazy: the directory, the default rules file and a
// README are only written on the first Load.
type RuleStore struct {
	mu       sync.RWMutex
	dir      string
	cache    *domain.Rules
	initOnce sync.Once
	initErr  error
}

// NewRuleStore creates a new file-based rule store.
// If dir is empty, defaults to ~/.voucherbill.
// The constructor performs no I/O.
func NewRuleStore(dir string) (*RuleStore, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = d
	}
	return &RuleStore{dir: dir}, nil
}

// Load returns the current rules.
//
// A missing file, or a directory that cannot be initialised, yields the
// embedded defaults. A file that exists but does not parse is an error
// wrapping domain.ErrInvalidInput, so a typo is never silently ignored.
// Sections left out of the file fall back to the defaults.
func (s *RuleStore) Load() (*domain.Rules, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		logger.Warn("rules: %v; using built-in rules", s.initErr)
		return rules.Default(), nil
	}

	s.mu.RLock()
	if s.cache != nil {
		r := s.cache
		s.mu.RUnlock()
		return r, nil
	}
	s.mu.RUnlock()

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return rules.Default(), nil
		}
		return nil, fmt.Errorf("read rules: %w", err)
	}

	parsed, err := rules.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path(), err)
	}
	r := rules.Merge(parsed, rules.Default())

	s.mu.Lock()
	if s.cache == nil {
		s.cache = r
	} else {
		r = s.cache
	}
	s.mu.Unlock()

	return r, nil
}

// Reload clears the cached rules, forcing a fresh read on next Load.
func (s *RuleStore) Reload() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
}

// Path returns the rules file path.
func (s *RuleStore) Path() string {
	return filepath.Join(s.dir, RulesFileName)
}

// initialise creates the directory, the default rules file and a README.
// Called once via sync.Once on first Load.
func (s *RuleStore) initialise() {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		s.initErr = fmt.Errorf("create rules directory: %w", err)
		return
	}

	path := s.Path()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, rules.DefaultTOML(), 0600); err != nil {
			s.initErr = fmt.Errorf("write default rules: %w", err)
			return
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// createReadme writes a README explaining the rules file.
func (s *RuleStore) createReadme() error {
	path := filepath.Join(s.dir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	content := `# voucherbill rules

` + "`rules.toml`" + ` controls how voucher text is cleaned and read.

## Sections

- ` + "`currencies`" + ` - currency codes that mark an amount line
- ` + "`detectors`" + ` - line detectors, highest priority first; only the first
  detector that matches a line is applied
- ` + "`[[corrections]]`" + ` - literal from/to replacements applied in file order

## Editing corrections

Corrections run one after another, so put a longer pattern before any
pattern that is a prefix of it. A replacement must not contain any
pattern, or cleaning the same text twice would change it again.

Run ` + "`voucherbill rules check`" + ` after editing. Delete the file to get
the built-in rules back.
`
	return os.WriteFile(path, []byte(content), 0600)
}
