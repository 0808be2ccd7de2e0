package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
)

// ParseVoucherInput is the input schema for the parse_voucher tool.
type ParseVoucherInput struct {
	Path string `json:"path,omitempty" jsonschema:"path to a voucher PDF on the local machine"`
	Text string `json:"text,omitempty" jsonschema:"voucher text already extracted from a PDF; used when path is empty"`
}

// NormaliseInput is the input schema for the normalise_text tool.
type NormaliseInput struct {
	Text string `json:"text" jsonschema:"raw text extracted from a voucher PDF"`
}

// NormaliseOutput is the output schema for the normalise_text tool.
type NormaliseOutput struct {
	Text  string `json:"text"`
	Lines int    `json:"lines"`
}

// NextInvoiceOutput is the output schema for the next_invoice_number tool.
type NextInvoiceOutput struct {
	Number string `json:"number"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "parse_voucher",
		Description: "Parse a travel voucher into a structured billing record with line items",
	}, s.handleParseVoucher)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "normalise_text",
		Description: "Repair spacing defects in text extracted from a voucher PDF",
	}, s.handleNormalise)

	if s.ports.Invoice != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "next_invoice_number",
			Description: "Show the invoice number the next generated invoice will get",
		}, s.handleNextInvoice)
	}
}

// handleParseVoucher parses a PDF path or raw text.
// The record is returned as a plain JSON object so money stays numeric.
func (s *Server) handleParseVoucher(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ParseVoucherInput,
) (*mcp.CallToolResult, any, error) {
	var (
		record *domain.VoucherRecord
		err    error
	)
	switch {
	case strings.TrimSpace(input.Path) != "":
		record, err = s.ports.Voucher.Parse(ctx, input.Path)
	case strings.TrimSpace(input.Text) != "":
		record, err = s.ports.Voucher.ParseText(ctx, input.Text)
	default:
		return nil, nil, fmt.Errorf("%w: path or text is required", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, nil, err
	}

	out, err := toObject(record)
	if err != nil {
		return nil, nil, err
	}
	return nil, out, nil
}

// handleNormalise returns normalised text.
func (s *Server) handleNormalise(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input NormaliseInput,
) (*mcp.CallToolResult, NormaliseOutput, error) {
	text := s.ports.Voucher.Normalise(input.Text)
	lines := 0
	if text != "" {
		lines = strings.Count(text, "\n") + 1
	}
	return nil, NormaliseOutput{Text: text, Lines: lines}, nil
}

// handleNextInvoice peeks at the invoice counter without reserving a number.
func (s *Server) handleNextInvoice(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, NextInvoiceOutput, error) {
	number, err := s.ports.Invoice.PeekNumber(ctx)
	if err != nil {
		return nil, NextInvoiceOutput{}, err
	}
	return nil, NextInvoiceOutput{Number: number}, nil
}

// toObject converts a value to its generic JSON form.
func toObject(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshalling record: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshalling record: %w", err)
	}
	return out, nil
}
