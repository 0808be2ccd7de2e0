package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
)

func TestExtractInvoiceNumber(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{name: "valid invoice URI", uri: "voucherbill://invoices/INV-000600", expected: "INV-000600"},
		{name: "invalid prefix", uri: "file://invoices/INV-000600", expected: ""},
		{name: "nested path", uri: "voucherbill://invoices/INV-1/extra", expected: ""},
		{name: "empty URI", uri: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractInvoiceNumber(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func testInvoice() domain.Invoice {
	return domain.Invoice{
		Number:          "INV-000600",
		IssuedAt:        time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC),
		Record:          *testRecord(),
		Total:           decimal.RequireFromString("3377"),
		PaymentReceived: decimal.RequireFromString("1000"),
		FilePath:        "/invoices/INV-000600.pdf",
	}
}

func TestServer_handleInvoicesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists invoices", func(t *testing.T) {
		server := newTestServer(t, &Ports{
			Voucher: &mockVoucherService{},
			Invoice: &mockInvoiceService{invoices: []domain.Invoice{testInvoice()}},
		})

		result, err := server.handleInvoicesResource(ctx, makeReadResourceRequest("voucherbill://invoices"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		text := result.Contents[0].Text
		assert.Contains(t, text, "INV-000600")
		assert.Contains(t, text, "2025-09-05")
		assert.Contains(t, text, `"outstanding": "2377.00"`)
		assert.Contains(t, text, "G844979")
	})

	t.Run("empty register", func(t *testing.T) {
		server := newTestServer(t, &Ports{
			Voucher: &mockVoucherService{},
			Invoice: &mockInvoiceService{},
		})

		result, err := server.handleInvoicesResource(ctx, makeReadResourceRequest("voucherbill://invoices"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("list failure", func(t *testing.T) {
		server := newTestServer(t, &Ports{
			Voucher: &mockVoucherService{},
			Invoice: &mockInvoiceService{err: errors.New("database error")},
		})

		_, err := server.handleInvoicesResource(ctx, makeReadResourceRequest("voucherbill://invoices"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing invoices")
	})
}

func TestServer_handleInvoiceResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns one invoice", func(t *testing.T) {
		inv := testInvoice()
		server := newTestServer(t, &Ports{
			Voucher: &mockVoucherService{},
			Invoice: &mockInvoiceService{invoice: &inv},
		})

		result, err := server.handleInvoiceResource(ctx, makeReadResourceRequest("voucherbill://invoices/INV-000600"))

		require.NoError(t, err)
		text := result.Contents[0].Text
		assert.Contains(t, text, `"payment_received": "1000.00"`)
		assert.Contains(t, text, `"record"`)
		assert.Contains(t, text, `"invoice_total": 3377.00`)
	})

	t.Run("unknown invoice", func(t *testing.T) {
		server := newTestServer(t, &Ports{
			Voucher: &mockVoucherService{},
			Invoice: &mockInvoiceService{err: domain.ErrNotFound},
		})

		_, err := server.handleInvoiceResource(ctx, makeReadResourceRequest("voucherbill://invoices/INV-999999"))
		assert.Error(t, err)
	})

	t.Run("malformed URI", func(t *testing.T) {
		server := newTestServer(t, &Ports{
			Voucher: &mockVoucherService{},
			Invoice: &mockInvoiceService{},
		})

		_, err := server.handleInvoiceResource(ctx, makeReadResourceRequest("voucherbill://other/x"))
		assert.Error(t, err)
	})
}
