package cli

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResponse() *Response {
	return &Response{
		Status:     200,
		StatusLine: "200 OK",
		Headers: http.Header{
			"Content-Type": {"application/json"},
			"X-Rate-Limit": {"100"},
		},
		Body:     []byte(`{"id":"inv-1","amount":10000}`),
		JSON:     map[string]interface{}{"id": "inv-1", "amount": float64(10000)},
		Duration: 123456 * time.Microsecond,
	}
}

func TestRenderHuman(t *testing.T) {
	text.DisableColors()
	defer text.EnableColors()

	out := RenderResponse(sampleResponse(), OutputModeHuman)
	lines := strings.Split(out, "\n")

	assert.Equal(t, "200 OK  (29 B in 123ms)", lines[0])
	assert.Contains(t, out, `"amount": 10000`)
	assert.Contains(t, out, `"id": "inv-1"`)
}

func TestRenderHumanEmptyBody(t *testing.T) {
	text.DisableColors()
	defer text.EnableColors()

	resp := &Response{Status: 204, StatusLine: "204 No Content", Duration: time.Millisecond}
	out := RenderResponse(resp, OutputModeHuman)
	assert.Equal(t, "204 No Content  (0 B in 1ms)", out)
}

func TestRenderPretty(t *testing.T) {
	out := RenderResponse(sampleResponse(), OutputModePretty)

	// Only the indented body, no status line.
	assert.True(t, strings.HasPrefix(out, "{"))
	assert.NotContains(t, out, "200 OK")
	assert.Contains(t, out, "  \"amount\": 10000")
}

func TestRenderPrettyNonJSON(t *testing.T) {
	resp := &Response{Status: 200, StatusLine: "200 OK", Body: []byte("hello\n")}
	assert.Equal(t, "hello", RenderResponse(resp, OutputModePretty))
}

func TestRenderRaw(t *testing.T) {
	out := RenderResponse(sampleResponse(), OutputModeRaw)
	lines := strings.Split(out, "\n")

	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "200 OK", lines[0], "raw output begins with the status line")
	assert.Equal(t, "Content-Type: application/json", lines[1], "headers sorted by name")
	assert.Equal(t, "X-Rate-Limit: 100", lines[2])
	assert.Equal(t, "", lines[3], "blank line separates headers from body")
	assert.Equal(t, `{"id":"inv-1","amount":10000}`, lines[4], "body bytes untouched")
}

func TestResponseExitOK(t *testing.T) {
	assert.True(t, ResponseExitOK(&Response{Status: 200}))
	assert.True(t, ResponseExitOK(&Response{Status: 301}))
	assert.False(t, ResponseExitOK(&Response{Status: 400}))
	assert.False(t, ResponseExitOK(&Response{Status: 500}))
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", &MissingRequiredError{Param: "id", Flag: "id"}, "validation"},
		{"unknown command", &UnknownCommandError{Resource: "x"}, "validation"},
		{"execution", &ExecutionError{Kind: ExecutionErrorDNS}, "execution"},
		{"http status", &HTTPStatusError{Status: 404}, "http"},
		{"other", assert.AnError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorKind(tt.err))
		})
	}
}

func TestRenderErrorJSON(t *testing.T) {
	out := RenderErrorJSON(&TypeMismatchError{Param: "limit", Expected: "integer", Value: "ten"})

	assert.Contains(t, out, `"kind": "validation"`)
	assert.Contains(t, out, `--limit`)
}
