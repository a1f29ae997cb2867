package spec

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
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

const openapiFixture = `{
	"openapi": "3.0.0",
	"info": {"title": "Payments API", "version": "1.0"},
	"servers": [{"url": "https://api.example.com"}],
	"tags": [{"name": "Invoices", "description": "Invoice management"}],
	"paths": {
		"/v2/invoices": {
			"get": {
				"operationId": "listInvoices",
				"tags": ["Invoices"],
				"summary": "List invoices",
				"parameters": [
					{"name": "limit", "in": "query", "schema": {"type": "integer", "default": 10}},
					{"name": "status", "in": "query", "schema": {"type": "string", "enum": ["PENDING", "PAID"]}},
					{"name": "X-Idempotency-Key", "in": "header", "schema": {"type": "string"}},
					{"name": "Authorization", "in": "header", "schema": {"type": "string"}}
				]
			},
			"post": {
				"operationId": "createInvoice",
				"tags": ["Invoices"],
				"requestBody": {
					"required": true,
					"content": {"application/json": {"schema": {"$ref": "#/components/schemas/CreateInvoiceRequest"}}}
				}
			}
		},
		"/v2/invoices/{invoice_id}": {
			"get": {
				"operationId": "getInvoice",
				"tags": ["Invoices"],
				"parameters": [
					{"name": "invoice_id", "in": "path", "required": true, "schema": {"type": "string"}}
				]
			}
		},
		"/balance": {
			"get": {"operationId": "getBalance"}
		}
	}
}`

const postmanFixture = `{
	"info": {
		"name": "Payments",
		"schema": "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"
	},
	"variable": [{"key": "base_url", "value": "https://api.postman-example.com"}],
	"item": [
		{
			"name": "Payouts",
			"description": "Payout operations",
			"item": [
				{
					"name": "Create Payout",
					"request": {
						"method": "POST",
						"url": {
							"raw": "{{base_url}}/payouts",
							"path": ["payouts"]
						},
						"header": [
							{"key": "X-Idempotency-Key", "value": "demo-key"},
							{"key": "Content-Type", "value": "application/json"}
						],
						"body": {"mode": "raw"}
					}
				},
				{
					"name": "Get Payout",
					"request": {
						"method": "GET",
						"url": {
							"raw": "{{base_url}}/payouts/:payout_id",
							"path": ["payouts", ":payout_id"],
							"variable": [{"key": "payout_id"}],
							"query": [
								{"key": "expand"},
								{"key": "internal", "disabled": true}
							]
						}
					}
				}
			]
		},
		{
			"name": "Get Balance",
			"request": {"method": "GET", "url": "{{base_url}}/balance"}
		}
	]
}`

func normalizeOne(t *testing.T, name, doc string) *tree.CommandTree {
	t.Helper()
	tr, err := Normalize(context.Background(), []Source{{Name: name, Data: []byte(doc)}})
	require.NoError(t, err)
	return tr
}

func TestNormalizeOpenAPI(t *testing.T) {
	tr := normalizeOne(t, "openapi.json", openapiFixture)

	assert.Equal(t, "https://api.example.com", tr.BaseURL)
	require.Len(t, tr.Resources, 2)
	// Resources sorted by name.
	assert.Equal(t, "balance", tr.Resources[0].Name)
	assert.Equal(t, "invoices", tr.Resources[1].Name)
	assert.Equal(t, "Invoice management", tr.Resources[1].Description)

	res, op := tr.Operation("invoices", "list-invoices")
	require.NotNil(t, op)
	assert.Equal(t, "GET", op.Method)
	assert.Equal(t, "/v2/invoices", op.Path)
	assert.Equal(t, "List invoices", op.Description)
	assert.Equal(t, "invoices", res.Name)

	limit := op.Param("limit")
	require.NotNil(t, limit)
	assert.Equal(t, tree.TypeInteger, limit.Type)
	assert.Equal(t, "10", limit.Default)
	assert.Equal(t, tree.LocationQuery, limit.Location)

	status := op.Param("status")
	require.NotNil(t, status)
	assert.Equal(t, tree.TypeEnum, status.Type)
	assert.Equal(t, []string{"PENDING", "PAID"}, status.Enum)

	// Custom headers become header params; Authorization is reserved.
	idem := op.Param("X-Idempotency-Key")
	require.NotNil(t, idem)
	assert.Equal(t, tree.LocationHeader, idem.Location)
	assert.Nil(t, op.Param("Authorization"))

	_, create := tr.Operation("invoices", "create-invoice")
	require.NotNil(t, create)
	require.NotNil(t, create.Body)
	assert.Equal(t, "application/json", create.Body.ContentType)
	assert.Equal(t, "CreateInvoiceRequest", create.Body.Schema)
	assert.True(t, create.Body.Required)

	_, get := tr.Operation("invoices", "get-invoice")
	require.NotNil(t, get)
	id := get.Param("invoice_id")
	require.NotNil(t, id)
	assert.Equal(t, tree.LocationPath, id.Location)
	assert.True(t, id.Required)

	// Untagged op grouped under its first path segment.
	_, bal := tr.Operation("balance", "get-balance")
	assert.NotNil(t, bal)
}

func TestNormalizePostman(t *testing.T) {
	tr := normalizeOne(t, "collection.json", postmanFixture)

	assert.Equal(t, "https://api.postman-example.com", tr.BaseURL)

	res := tr.Resource("payouts")
	require.NotNil(t, res)
	assert.Equal(t, "Payout operations", res.Description)

	_, create := tr.Operation("payouts", "create-payout")
	require.NotNil(t, create)
	assert.Equal(t, "POST", create.Method)
	assert.Equal(t, "/payouts", create.Path)
	require.NotNil(t, create.Body)

	// Content-Type is reserved; the idempotency header survives with its
	// collection value as default.
	assert.Nil(t, create.Param("Content-Type"))
	idem := create.Param("X-Idempotency-Key")
	require.NotNil(t, idem)
	assert.Equal(t, "demo-key", idem.Default)

	_, get := tr.Operation("payouts", "get-payout")
	require.NotNil(t, get)
	assert.Equal(t, "/payouts/{payout_id}", get.Path)
	id := get.Param("payout_id")
	require.NotNil(t, id)
	assert.Equal(t, tree.LocationPath, id.Location)
	assert.True(t, id.Required)
	assert.NotNil(t, get.Param("expand"))
	assert.Nil(t, get.Param("internal"), "disabled query params are dropped")

	// Item outside any folder lands under its path segment.
	_, bal := tr.Operation("balance", "get-balance")
	assert.NotNil(t, bal)
	assert.Nil(t, bal.Body, "GET never carries a body descriptor")
}

func TestNormalizeDeterministic(t *testing.T) {
	sources := []Source{
		{Name: "collection.json", Data: []byte(postmanFixture)},
		{Name: "openapi.json", Data: []byte(openapiFixture)},
	}

	first, err := Normalize(context.Background(), sources)
	require.NoError(t, err)

	var a bytes.Buffer
	require.NoError(t, first.Encode(&a))

	for i := 0; i < 5; i++ {
		again, err := Normalize(context.Background(), sources)
		require.NoError(t, err)
		var b bytes.Buffer
		require.NoError(t, again.Encode(&b))
		assert.Equal(t, a.Bytes(), b.Bytes(), "normalizing twice must be byte-identical")
	}
}

func TestMergeFirstDocumentWins(t *testing.T) {
	bootstrap := `{
		"openapi": "3.0.0",
		"paths": {
			"/balance": {"get": {"operationId": "getBalance", "tags": ["Balance"], "summary": "bootstrap definition"}}
		}
	}`
	full := `{
		"openapi": "3.0.0",
		"servers": [{"url": "https://api.example.com"}],
		"paths": {
			"/balance": {"get": {"operationId": "getBalance", "tags": ["Balance"], "summary": "full definition"}},
			"/payouts": {"get": {"operationId": "listPayouts", "tags": ["Payouts"]}}
		}
	}`

	tr, err := Normalize(context.Background(), []Source{
		{Name: "bootstrap.json", Data: []byte(bootstrap)},
		{Name: "full.json", Data: []byte(full)},
	})
	require.NoError(t, err)

	_, op := tr.Operation("balance", "get-balance")
	require.NotNil(t, op)
	assert.Equal(t, "bootstrap definition", op.Description, "first document must win on collision")

	// Later documents still add new operations.
	_, added := tr.Operation("payouts", "list-payouts")
	assert.NotNil(t, added)

	// Base URL comes from the first document that declares one.
	assert.Equal(t, "https://api.example.com", tr.BaseURL)
}

func TestOperationNameCollisionSuffixes(t *testing.T) {
	doc := `{
		"openapi": "3.0.0",
		"paths": {
			"/things": {
				"get": {"operationId": "things", "tags": ["Things"]},
				"post": {"operationId": "things", "tags": ["Things"]},
				"put": {"operationId": "things-post", "tags": ["Things"]}
			}
		}
	}`
	tr := normalizeOne(t, "dup.json", doc)

	res := tr.Resource("things")
	require.NotNil(t, res)
	names := make([]string, 0, len(res.Ops))
	for _, op := range res.Ops {
		names = append(names, op.Name)
	}
	// get keeps the bare name, post gets the method suffix, put collides
	// with the suffixed name and is disambiguated with its own method.
	assert.Equal(t, []string{"things", "things-post", "things-post-put"}, names)
}

func TestNormalizeErrors(t *testing.T) {
	t.Run("malformed JSON", func(t *testing.T) {
		_, err := Normalize(context.Background(), []Source{{Name: "bad.json", Data: []byte("{nope")}})
		var specErr *SpecError
		require.ErrorAs(t, err, &specErr)
		assert.Equal(t, KindMalformed, specErr.Kind)
		assert.Equal(t, "bad.json", specErr.Document)
		assert.Contains(t, err.Error(), "bad.json")
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := Normalize(context.Background(), []Source{{Name: "other.json", Data: []byte(`{"hello": "world"}`)}})
		var specErr *SpecError
		require.ErrorAs(t, err, &specErr)
		assert.Equal(t, KindUnsupported, specErr.Kind)
	})

	t.Run("missing top-level field", func(t *testing.T) {
		_, err := Normalize(context.Background(), []Source{{Name: "empty.json", Data: []byte(`{"openapi": "3.0.0"}`)}})
		var specErr *SpecError
		require.ErrorAs(t, err, &specErr)
		assert.Equal(t, KindMissingField, specErr.Kind)
		assert.Equal(t, "paths", specErr.Location)
	})

	t.Run("no sources", func(t *testing.T) {
		_, err := Normalize(context.Background(), nil)
		assert.Error(t, err)
		assert.False(t, errors.As(err, new(*SpecError)))
	})
}

func TestLoadSources(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSources([]string{"/nonexistent/spec.json"})
		assert.ErrorContains(t, err, "read spec")
	})
}
