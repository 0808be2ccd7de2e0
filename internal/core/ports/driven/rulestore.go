package driven

import "github.com/custodia-labs/voucherbill/internal/core/domain"

// RuleStore provides the data-driven parsing rules.
// Implementations may load rules from a user-editable file with
// embedded defaults as fallback.
type RuleStore interface {
	// Load returns the current rules.
	Load() (*domain.Rules, error)

	// Reload clears any cached rules, forcing a fresh load on next access.
	Reload()

	// Path returns where the rules are stored.
	Path() string
}
