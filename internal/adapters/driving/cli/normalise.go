package cli

import (
	"github.com/spf13/cobra"
)

var normaliseCmd = &cobra.Command{
	Use:   "normalise [file|-]",
	Short: "Repair spacing defects in extracted voucher text",
	Long: `Applies the correction table and spacing repairs used before parsing.
Reads the named text file, or stdin when no file or "-" is given.`,
	Aliases: []string{"normalize"},
	Args:    cobra.MaximumNArgs(1),
	RunE:    runNormalise,
}

func init() {
	rootCmd.AddCommand(normaliseCmd)
}

func runNormalise(cmd *cobra.Command, args []string) error {
	if voucherService == nil {
		return errVoucherNotConfigured
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	cmd.Print(voucherService.Normalise(string(data)))
	return nil
}
