package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for voucherbill resources.
	uriScheme = "voucherbill://"
)

// registerResources registers the invoice register resources.
func (s *Server) registerResources() {
	if s.ports.Invoice == nil {
		return
	}

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "invoices",
		Name:        "invoices",
		Description: "Summary of every invoice in the register",
		MIMEType:    "application/json",
	}, s.handleInvoicesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "invoices/{number}",
		Name:        "invoice",
		Description: "A single invoice with its voucher record",
		MIMEType:    "application/json",
	}, s.handleInvoiceResource)
}

// invoiceSummary is one row of the invoices resource.
type invoiceSummary struct {
	Number      string `json:"number"`
	IssuedAt    string `json:"issued_at"`
	Voucher     string `json:"voucher_number"`
	Guest       string `json:"guest"`
	Total       string `json:"total"`
	Outstanding string `json:"outstanding"`
	File        string `json:"file,omitempty"`
}

// invoiceDetail is the body of a single invoice resource.
type invoiceDetail struct {
	invoiceSummary
	Payment string               `json:"payment_received"`
	Record  domain.VoucherRecord `json:"record"`
}

func summarise(inv *domain.Invoice) invoiceSummary {
	return invoiceSummary{
		Number:      inv.Number,
		IssuedAt:    inv.IssuedAt.Format("2006-01-02"),
		Voucher:     inv.Record.VoucherNumber,
		Guest:       inv.Record.PassengerNames,
		Total:       inv.Total.StringFixed(2),
		Outstanding: inv.Outstanding().StringFixed(2),
		File:        inv.FilePath,
	}
}

// handleInvoicesResource lists the register.
func (s *Server) handleInvoicesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	invoices, err := s.ports.Invoice.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	summaries := make([]invoiceSummary, len(invoices))
	for i := range invoices {
		summaries[i] = summarise(&invoices[i])
	}

	return jsonResult(req.Params.URI, summaries)
}

// handleInvoiceResource returns one invoice.
func (s *Server) handleInvoiceResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	number := extractInvoiceNumber(req.Params.URI)
	if number == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	inv, err := s.ports.Invoice.Get(ctx, number)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	return jsonResult(req.Params.URI, invoiceDetail{
		invoiceSummary: summarise(inv),
		Payment:        inv.PaymentReceived.StringFixed(2),
		Record:         inv.Record,
	})
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractInvoiceNumber extracts the number from voucherbill://invoices/{number}.
func extractInvoiceNumber(uri string) string {
	const prefix = uriScheme + "invoices/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	number := strings.TrimPrefix(uri, prefix)
	if strings.Contains(number, "/") {
		return ""
	}
	return number
}
