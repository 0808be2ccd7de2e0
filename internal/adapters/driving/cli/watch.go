package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/voucherbill/internal/adapters/driving/watch"
)

var (
	watchRate int
	watchOnce bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Parse vouchers as they arrive in a directory",
	Long: `Watches a directory for voucher PDFs and writes a <name>.voucher.json
record next to each one.

Existing vouchers without an up-to-date record are processed first. With
--once the command exits after that initial scan.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchRate, "rate", 0, "vouchers parsed per second (default from settings)")
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "scan once and exit")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if voucherService == nil {
		return errVoucherNotConfigured
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot watch %s: not a directory", dir)
	}

	rate := watchRate
	if rate <= 0 && settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			rate = settings.Watch.RatePerSecond
		}
	}

	opts := []watch.Option{watch.WithResultHandler(func(res watch.Result) {
		if res.Err != nil {
			cmd.PrintErrf("✗ %s: %v\n", res.Path, res.Err)
			return
		}
		cmd.Printf("✓ %s -> %s\n", res.Path, res.Output)
	})}
	if rate > 0 {
		opts = append(opts, watch.WithRate(rate))
	}
	w := watch.New(dir, voucherService, opts...)

	n, err := w.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	cmd.Printf("Processed %d voucher(s).\n", n)
	if watchOnce {
		return nil
	}

	cmd.Printf("Watching %s (ctrl+c to stop)\n", dir)
	if err := w.Run(cmd.Context()); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}
