package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/voucherbill/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can parse
vouchers and read the invoice register.

Tools: parse_voucher, normalise_text, next_invoice_number.
Resources: voucherbill://invoices, voucherbill://invoices/{number}.

By default, the server communicates over stdio using JSON-RPC. Use --port
to start an HTTP server instead, for example to test with MCP Inspector.

Examples:
  # Stdio mode (default)
  voucherbill mcp serve

  # HTTP mode
  voucherbill mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "voucherbill": {
        "command": "/path/to/voucherbill",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Voucher: voucherService,
		Invoice: invoiceService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
