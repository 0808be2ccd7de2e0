package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/voucherbill/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// shutdownTimeout bounds how long in-flight HTTP requests may finish
// after the context is cancelled.
const shutdownTimeout = 5 * time.Second

// Server exposes voucher parsing to AI assistants.
//
// Tools: parse_voucher and normalise_text always; next_invoice_number when
// an invoice service is configured. Resources: the invoice register at
// voucherbill://invoices and single invoices at voucherbill://invoices/{number},
// also only with an invoice service.
type Server struct {
	ports        *Ports
	server       *mcp.Server
	instructions string
}

// NewServer creates a server over the given ports. The voucher service is
// required; without an invoice service the register tools and resources
// are not offered.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports:        ports,
		instructions: instructions(ports.Invoice != nil),
	}
	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "voucherbill",
		Version: Version,
	}, &mcp.ServerOptions{
		Instructions: s.instructions,
	})

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Instructions returns the usage notes sent to clients on initialisation.
func (s *Server) Instructions() string {
	return s.instructions
}

// instructions describes what the server offers for the configured ports.
func instructions(invoicing bool) string {
	var b strings.Builder
	b.WriteString("voucherbill reads accommodation vouchers and returns structured billing records.\n")
	b.WriteString("Use parse_voucher with a local PDF path, or with text already extracted from one. ")
	b.WriteString("Fields that could not be found are empty strings; line_items is never empty.\n")
	b.WriteString("Use normalise_text to repair spacing in extracted text before reading it yourself.\n")
	if invoicing {
		b.WriteString("next_invoice_number shows the number the next invoice will get without reserving it. ")
		b.WriteString("The register is available as the voucherbill://invoices resource, ")
		b.WriteString("and single invoices as voucherbill://invoices/{number}.\n")
	}
	return b.String()
}

// Run serves over stdio until the context is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("mcp: serving over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until the context
// is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp: http shutdown: %v", err)
		}
	}()

	logger.Debug("mcp: serving over http on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("mcp http server: %w", err)
	}
	return nil
}
