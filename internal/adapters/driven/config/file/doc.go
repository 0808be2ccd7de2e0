// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem, by default under
// ~/.voucherbill.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage (config.toml)
//   - RuleStore: user-editable parsing rules (rules.toml)
package file
