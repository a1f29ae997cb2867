package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"apictl/internal/tree"
	"apictl/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logging.InitForCLI(logging.LevelError, io.Discard)
	os.Exit(m.Run())
}

func resolverTree() *tree.CommandTree {
	return &tree.CommandTree{
		Version: tree.CurrentVersion,
		BaseURL: "https://api.example.com",
		Resources: []tree.Resource{
			{
				Name: "invoices",
				Ops: []tree.Operation{
					{
						Name:   "get",
						Method: "GET",
						Path:   "/v2/invoices/{invoice_id}",
						Params: []tree.Parameter{
							{Name: "invoice_id", Flag: "invoice-id", Location: tree.LocationPath, Required: true},
							{Name: "limit", Flag: "limit", Location: tree.LocationQuery, Type: tree.TypeInteger, Default: "10"},
							{Name: "status", Flag: "status", Location: tree.LocationQuery, Type: tree.TypeEnum, Enum: []string{"PENDING", "PAID"}},
							{Name: "archived", Flag: "archived", Location: tree.LocationQuery, Type: tree.TypeBoolean},
							{Name: "X-Version", Flag: "x-version", Location: tree.LocationHeader, Default: "2024-01-01"},
						},
					},
					{
						Name:   "create",
						Method: "POST",
						Path:   "/v2/invoices",
						Body:   &tree.BodyDescriptor{ContentType: "application/json", Required: true},
					},
				},
			},
			{
				Name: "payment-requests",
				Ops: []tree.Operation{
					{
						Name:   "create",
						Method: "POST",
						Path:   "/payment_requests",
						Body:   &tree.BodyDescriptor{ContentType: "application/json"},
						Params: []tree.Parameter{
							{Name: "amount", Flag: "amount", Location: tree.LocationBodyField, Type: tree.TypeInteger},
							{Name: "currency", Flag: "currency", Location: tree.LocationBodyField, Default: "IDR"},
						},
					},
				},
			},
		},
	}
}

func invocation(resource, operation string, args map[string]string) Invocation {
	set := make(map[string]bool, len(args))
	for k := range args {
		set[k] = true
	}
	return Invocation{Resource: resource, Operation: operation, Args: args, Set: set}
}

func TestResolveHappyPath(t *testing.T) {
	inv := invocation("invoices", "get", map[string]string{
		"invoice-id": "inv 123",
		"status":     "PAID",
		"archived":   "true",
	})

	op, plan, err := Resolve(resolverTree(), inv)
	require.NoError(t, err)
	require.NotNil(t, op)

	assert.Equal(t, "GET", plan.Method)
	assert.Equal(t, "/v2/invoices/inv%20123", plan.Path, "path values are URL-escaped")

	// Declared order: limit (default), status, archived.
	assert.Equal(t, []KV{
		{Key: "limit", Value: "10"},
		{Key: "status", Value: "PAID"},
		{Key: "archived", Value: "true"},
	}, plan.Query)

	// Header default fills in.
	assert.Equal(t, []KV{{Key: "X-Version", Value: "2024-01-01"}}, plan.Headers)
	assert.Nil(t, plan.Body)
}

func TestResolveCaseInsensitiveLookup(t *testing.T) {
	inv := invocation("Invoices", "GET", map[string]string{"invoice-id": "x"})
	op, _, err := Resolve(resolverTree(), inv)
	require.NoError(t, err)
	assert.Equal(t, "get", op.Name)
}

func TestResolveUnknownResource(t *testing.T) {
	_, _, err := Resolve(resolverTree(), invocation("invoice", "get", nil))

	var unknown *UnknownCommandError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "invoice", unknown.Resource)
	assert.Empty(t, unknown.Operation)
	assert.Contains(t, unknown.Suggestions, "invoices")
}

func TestResolveUnknownOperation(t *testing.T) {
	_, _, err := Resolve(resolverTree(), invocation("invoices", "gte", nil))

	var unknown *UnknownCommandError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "gte", unknown.Operation)
	assert.Contains(t, unknown.Suggestions, "get")
}

func TestResolveMissingRequired(t *testing.T) {
	_, _, err := Resolve(resolverTree(), invocation("invoices", "get", nil))

	var missing *MissingRequiredError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "invoice_id", missing.Param)
	assert.Contains(t, err.Error(), "--invoice-id")
}

func TestResolveTypeMismatch(t *testing.T) {
	tests := []struct {
		name string
		args map[string]string
	}{
		{"integer", map[string]string{"invoice-id": "x", "limit": "ten"}},
		{"boolean", map[string]string{"invoice-id": "x", "archived": "maybe"}},
		{"enum", map[string]string{"invoice-id": "x", "status": "UNPAID"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Resolve(resolverTree(), invocation("invoices", "get", tt.args))
			var mismatch *TypeMismatchError
			require.ErrorAs(t, err, &mismatch)
		})
	}
}

func TestResolveExplicitFlagOverridesDefault(t *testing.T) {
	inv := invocation("invoices", "get", map[string]string{"invoice-id": "x", "limit": "25"})
	_, plan, err := Resolve(resolverTree(), inv)
	require.NoError(t, err)
	assert.Contains(t, plan.Query, KV{Key: "limit", Value: "25"})
}

func TestResolveBodyLiteral(t *testing.T) {
	inv := invocation("invoices", "create", nil)
	inv.Body = `{"amount": 10000}`
	inv.BodySet = true

	op, plan, err := Resolve(resolverTree(), inv)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"amount": 10000}`), plan.Body)
	assert.Equal(t, "application/json", plan.ContentType)
	require.NotNil(t, op.Body)
}

func TestResolveBodyFromFile(t *testing.T) {
	content := []byte(`{"amount": 10000, "currency": "IDR"}` + "\n")
	path := filepath.Join(t.TempDir(), "body.json")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	inv := invocation("invoices", "create", nil)
	inv.Body = "@" + path
	inv.BodySet = true

	_, plan, err := Resolve(resolverTree(), inv)
	require.NoError(t, err)
	assert.Equal(t, content, plan.Body, "file bytes are used verbatim")
}

func TestResolveBodyFileMissing(t *testing.T) {
	inv := invocation("invoices", "create", nil)
	inv.Body = "@" + filepath.Join(t.TempDir(), "absent.json")
	inv.BodySet = true

	_, _, err := Resolve(resolverTree(), inv)
	assert.ErrorContains(t, err, "read body file")
}

func TestResolveRequiredBodyMissing(t *testing.T) {
	_, _, err := Resolve(resolverTree(), invocation("invoices", "create", nil))

	var missing *MissingRequiredError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "body", missing.Param)
}

func TestResolveBodyNotAllowed(t *testing.T) {
	inv := invocation("invoices", "get", map[string]string{"invoice-id": "x"})
	inv.Body = "{}"
	inv.BodySet = true

	_, _, err := Resolve(resolverTree(), inv)
	var notAllowed *BodyNotAllowedError
	require.ErrorAs(t, err, &notAllowed)
	assert.True(t, IsValidationError(err))
}

func TestResolveBodyFieldAssembly(t *testing.T) {
	inv := invocation("payment-requests", "create", map[string]string{"amount": "10000"})

	_, plan, err := Resolve(resolverTree(), inv)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount": 10000, "currency": "IDR"}`, string(plan.Body))
}

func TestResolvePerformsNoNetworkIO(t *testing.T) {
	// Resolution of a failing invocation must not touch the network; the
	// absence of any dialer or client in the resolver makes this
	// structural, so the test just exercises the error path end to end.
	_, plan, err := Resolve(resolverTree(), invocation("invoices", "get", nil))
	assert.Error(t, err)
	assert.Nil(t, plan)
}
