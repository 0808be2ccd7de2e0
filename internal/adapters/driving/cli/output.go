package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// writeJSON prints v as JSON. Output is indented on a terminal unless
// compact is set, and always indented when pretty is set.
func writeJSON(cmd *cobra.Command, v any, pretty, compact bool) error {
	indent := pretty || (!compact && isTerminal(cmd.OutOrStdout()))

	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// readInput reads a file, or standard input when path is "-" or empty.
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInputError, err)
	}
	return data, nil
}

// isPDF reports whether path names a PDF by extension.
func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// loadRecord parses a voucher PDF, or decodes a saved record from JSON.
func loadRecord(cmd *cobra.Command, path string) (*domain.VoucherRecord, error) {
	if isPDF(path) {
		if voucherService == nil {
			return nil, errVoucherNotConfigured
		}
		return voucherService.Parse(cmd.Context(), path)
	}

	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	var rec domain.VoucherRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: invalid record JSON: %w", domain.ErrInputError, err)
	}
	return &rec, nil
}
