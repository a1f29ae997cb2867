package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/text"
)

// OutputMode selects how a response is rendered.
type OutputMode string

const (
	// OutputModeHuman prints a status line followed by the pretty-printed
	// body. This is the default.
	OutputModeHuman OutputMode = "human"
	// OutputModePretty prints only the indented JSON body, for piping.
	OutputModePretty OutputMode = "pretty"
	// OutputModeRaw prints the status line, all headers, and the body
	// bytes unmodified.
	OutputModeRaw OutputMode = "raw"
)

// RenderResponse serializes a response in the selected mode.
func RenderResponse(resp *Response, mode OutputMode) string {
	switch mode {
	case OutputModeRaw:
		return renderRaw(resp)
	case OutputModePretty:
		return renderBody(resp)
	default:
		return renderHuman(resp)
	}
}

// ResponseExitOK reports whether the response status maps to exit code
// zero: any received status below 400.
func ResponseExitOK(resp *Response) bool {
	return resp.Status < 400
}

func renderHuman(resp *Response) string {
	status := resp.StatusLine
	switch {
	case resp.Status >= 400:
		status = text.FgRed.Sprint(status)
	case resp.Status >= 300:
		status = text.FgYellow.Sprint(status)
	default:
		status = text.FgGreen.Sprint(status)
	}

	line := fmt.Sprintf("%s  (%s in %s)", status,
		humanize.Bytes(uint64(len(resp.Body))),
		resp.Duration.Round(time.Millisecond))

	body := renderBody(resp)
	if body == "" {
		return line
	}
	return line + "\n" + body
}

// renderBody pretty-prints the parsed JSON body, falling back to the raw
// text for non-JSON responses.
func renderBody(resp *Response) string {
	if resp.JSON != nil {
		pretty, err := json.MarshalIndent(resp.JSON, "", "  ")
		if err == nil {
			return string(pretty)
		}
	}
	return strings.TrimRight(string(resp.Body), "\n")
}

// renderRaw emits the status line, headers sorted by name for stable
// output, a blank separator, and the body bytes untouched.
func renderRaw(resp *Response) string {
	var sb strings.Builder
	sb.WriteString(resp.StatusLine)
	sb.WriteByte('\n')

	names := make([]string, 0, len(resp.Headers))
	for name := range resp.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, value := range resp.Headers[name] {
			sb.WriteString(name)
			sb.WriteString(": ")
			sb.WriteString(value)
			sb.WriteByte('\n')
		}
	}

	sb.WriteByte('\n')
	sb.Write(resp.Body)
	return strings.TrimRight(sb.String(), "\n")
}

// errorEnvelope is the structured error form emitted under --json modes so
// automated callers never have to parse prose.
type errorEnvelope struct {
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

// ErrorKind classifies an error for the structured error envelope.
func ErrorKind(err error) string {
	var execErr *ExecutionError
	var statusErr *HTTPStatusError
	switch {
	case IsValidationError(err):
		return "validation"
	case errors.As(err, &execErr):
		return "execution"
	case errors.As(err, &statusErr):
		return "http"
	default:
		return "error"
	}
}

// RenderErrorJSON serializes an error as a JSON envelope.
func RenderErrorJSON(err error) string {
	var env errorEnvelope
	env.Error.Kind = ErrorKind(err)
	env.Error.Message = err.Error()
	data, marshalErr := json.MarshalIndent(env, "", "  ")
	if marshalErr != nil {
		return fmt.Sprintf(`{"error":{"kind":"error","message":%q}}`, err.Error())
	}
	return string(data)
}
