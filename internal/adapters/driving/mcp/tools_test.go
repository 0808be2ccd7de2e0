package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
)

func testRecord() *domain.VoucherRecord {
	rec := domain.NewVoucherRecord()
	rec.VoucherNumber = "G844979"
	rec.LineItems = []domain.LineItem{
		domain.NewLineItem("Accommodation", 2, decimal.RequireFromString("1688.50")),
	}
	return &rec
}

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleParseVoucher(t *testing.T) {
	ctx := context.Background()

	t.Run("parses a path", func(t *testing.T) {
		voucher := &mockVoucherService{record: testRecord()}
		server := newTestServer(t, &Ports{Voucher: voucher})

		_, out, err := server.handleParseVoucher(ctx, nil, ParseVoucherInput{Path: "/tmp/v.pdf"})

		require.NoError(t, err)
		assert.Equal(t, "/tmp/v.pdf", voucher.lastPath)

		obj, ok := out.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "G844979", obj["voucher_number"])
		assert.InDelta(t, 3377.0, obj["invoice_total"], 0.001)
		items, ok := obj["line_items"].([]any)
		require.True(t, ok)
		assert.Len(t, items, 1)
	})

	t.Run("parses text when path is empty", func(t *testing.T) {
		voucher := &mockVoucherService{record: testRecord()}
		server := newTestServer(t, &Ports{Voucher: voucher})

		_, _, err := server.handleParseVoucher(ctx, nil, ParseVoucherInput{Text: "Voucher Number G844979"})

		require.NoError(t, err)
		assert.Empty(t, voucher.lastPath)
		assert.Equal(t, "Voucher Number G844979", voucher.lastText)
	})

	t.Run("requires path or text", func(t *testing.T) {
		server := newTestServer(t, &Ports{Voucher: &mockVoucherService{}})

		_, _, err := server.handleParseVoucher(ctx, nil, ParseVoucherInput{Path: "  "})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("propagates input errors", func(t *testing.T) {
		voucher := &mockVoucherService{err: domain.ErrInputError}
		server := newTestServer(t, &Ports{Voucher: voucher})

		_, _, err := server.handleParseVoucher(ctx, nil, ParseVoucherInput{Path: "/tmp/broken.pdf"})
		assert.ErrorIs(t, err, domain.ErrInputError)
	})
}

func TestServer_handleNormalise(t *testing.T) {
	server := newTestServer(t, &Ports{Voucher: &mockVoucherService{}})

	tests := []struct {
		name  string
		input string
		lines int
	}{
		{"single line", "a", 1},
		{"two lines", "a\nb", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleNormalise(context.Background(), nil, NormaliseInput{Text: tt.input})

			require.NoError(t, err)
			assert.Equal(t, "normalised: "+tt.input, out.Text)
			assert.Equal(t, tt.lines, out.Lines)
		})
	}
}

func TestServer_handleNextInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the next number", func(t *testing.T) {
		server := newTestServer(t, &Ports{
			Voucher: &mockVoucherService{},
			Invoice: &mockInvoiceService{next: "INV-000600"},
		})

		_, out, err := server.handleNextInvoice(ctx, nil, struct{}{})

		require.NoError(t, err)
		assert.Equal(t, "INV-000600", out.Number)
	})

	t.Run("returns store errors", func(t *testing.T) {
		server := newTestServer(t, &Ports{
			Voucher: &mockVoucherService{},
			Invoice: &mockInvoiceService{err: errors.New("database locked")},
		})

		_, _, err := server.handleNextInvoice(ctx, nil, struct{}{})
		assert.Error(t, err)
	})
}
