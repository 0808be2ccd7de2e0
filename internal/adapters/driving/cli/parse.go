package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
)

var (
	parseText    bool
	parsePretty  bool
	parseCompact bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a voucher into a JSON record",
	Long: `Extracts the text of a voucher PDF and recovers booking, billing and
line item fields as a JSON record.

With --text the file is read as already-extracted text ("-" reads stdin).
Fields that cannot be found are left empty; a voucher with no billable rows
gets a single placeholder line item.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseText, "text", false, "treat the input as extracted text")
	parseCmd.Flags().BoolVar(&parsePretty, "pretty", false, "always indent the JSON output")
	parseCmd.Flags().BoolVar(&parseCompact, "compact", false, "never indent the JSON output")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if voucherService == nil {
		return errVoucherNotConfigured
	}

	var (
		rec *domain.VoucherRecord
		err error
	)
	if parseText {
		var data []byte
		data, err = readInput(cmd, args[0])
		if err != nil {
			return err
		}
		rec, err = voucherService.ParseText(cmd.Context(), string(data))
	} else {
		rec, err = voucherService.Parse(cmd.Context(), args[0])
	}
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	return writeJSON(cmd, rec, parsePretty, parseCompact)
}
