package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"getInvoiceByID", "get-invoice-by-id"},
		{"Create Payment Request", "create-payment-request"},
		{"payment_requests", "payment-requests"},
		{"GET /v2/invoices", "get-v2-invoices"},
		{"already-kebab", "already-kebab"},
		{"--weird--input--", "weird-input"},
		{"API v2 (beta)", "api-v2-beta"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.in))
		})
	}
}

func TestSlugifyOpFallback(t *testing.T) {
	assert.Equal(t, "call", slugifyOp("!!!"))
	assert.Equal(t, "call", slugifyOp(""))
	assert.Equal(t, "list-invoices", slugifyOp("listInvoices"))
}

func TestPathFromRaw(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"full url", "https://api.example.com/v2/invoices?limit=5", "/v2/invoices"},
		{"bare path", "/balance", "/balance"},
		{"variable base", "{{base_url}}/payouts", "/payouts"},
		{"variable base no slash", "{{base_url}}payouts", "/payouts"},
		{"variable only", "{{base_url}}", "/"},
		{"relative", "v2/invoices", "/v2/invoices"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, pathFromRaw(tt.raw))
		})
	}
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/invoices/{id}", normalizePath("/invoices/{id}"))
	assert.Equal(t, "/invoices/{id}", normalizePath("/invoices/:id"))
	assert.Equal(t, "/invoices/{invoice_id}", normalizePath("/invoices/{{invoice_id}}"))
	assert.Equal(t, "/a/{x}/b/{y}", normalizePath("/a/:x/b/{{y}}"))
}

func TestDefaultResourceFor(t *testing.T) {
	assert.Equal(t, "invoices", defaultResourceFor("/invoices/{id}"))
	assert.Equal(t, "v2", defaultResourceFor("/v2/invoices"))
	assert.Equal(t, "root", defaultResourceFor("/"))
	assert.Equal(t, "balance", defaultResourceFor("/{version}/balance"))
}
