package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"apictl/internal/cli"
	"apictl/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
)

// operationSummary is the list_operations row.
type operationSummary struct {
	Resource    string `json:"resource"`
	Operation   string `json:"operation"`
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
}

// parameterDetail is one parameter entry in describe_operation output.
type parameterDetail struct {
	Name        string   `json:"name"`
	Flag        string   `json:"flag"`
	Location    string   `json:"location"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Default     string   `json:"default,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Description string   `json:"description,omitempty"`
}

// operationDetail is the describe_operation output.
type operationDetail struct {
	Resource    string            `json:"resource"`
	Operation   string            `json:"operation"`
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Description string            `json:"description,omitempty"`
	Parameters  []parameterDetail `json:"parameters"`
	Body        *bodyDetail       `json:"body,omitempty"`
}

type bodyDetail struct {
	ContentType string `json:"content_type"`
	Schema      string `json:"schema,omitempty"`
	Required    bool   `json:"required"`
}

// callResult is the call_operation output. Body carries the parsed JSON
// when the response was JSON, the raw text otherwise.
type callResult struct {
	Status     int         `json:"status"`
	StatusLine string      `json:"status_line"`
	DurationMS int64       `json:"duration_ms"`
	Body       interface{} `json:"body,omitempty"`
}

func (s *Server) handleListOperations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter, _ := request.GetArguments()["resource"].(string)

	var rows []operationSummary
	for _, res := range s.tree.Resources {
		if filter != "" && res.Name != filter {
			continue
		}
		for _, op := range res.Ops {
			rows = append(rows, operationSummary{
				Resource:    res.Name,
				Operation:   op.Name,
				Method:      op.Method,
				Path:        op.Path,
				Description: op.Description,
			})
		}
	}
	if filter != "" && len(rows) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("Resource not found: %s", filter)), nil
	}

	jsonData, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format operations: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (s *Server) handleDescribeOperation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resource, err := request.RequireString("resource")
	if err != nil {
		return mcp.NewToolResultError("resource argument is required"), nil
	}
	operation, err := request.RequireString("operation")
	if err != nil {
		return mcp.NewToolResultError("operation argument is required"), nil
	}

	res, op := s.tree.Operation(resource, operation)
	if op == nil {
		return mcp.NewToolResultError(fmt.Sprintf("Operation not found: %s %s", resource, operation)), nil
	}

	detail := operationDetail{
		Resource:    res.Name,
		Operation:   op.Name,
		Method:      op.Method,
		Path:        op.Path,
		Description: op.Description,
		Parameters:  make([]parameterDetail, 0, len(op.Params)),
	}
	for _, p := range op.Params {
		detail.Parameters = append(detail.Parameters, parameterDetail{
			Name:        p.Name,
			Flag:        p.Flag,
			Location:    string(p.Location),
			Type:        string(p.EffectiveType()),
			Required:    p.Required,
			Default:     p.Default,
			Enum:        p.Enum,
			Description: p.Description,
		})
	}
	if op.Body != nil {
		detail.Body = &bodyDetail{
			ContentType: op.Body.ContentType,
			Schema:      op.Body.Schema,
			Required:    op.Body.Required,
		}
	}

	jsonData, err := json.MarshalIndent(detail, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format operation: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (s *Server) handleCallOperation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resource, err := request.RequireString("resource")
	if err != nil {
		return mcp.NewToolResultError("resource argument is required"), nil
	}
	operation, err := request.RequireString("operation")
	if err != nil {
		return mcp.NewToolResultError("operation argument is required"), nil
	}

	inv := cli.Invocation{
		Resource:  resource,
		Operation: operation,
		Args:      make(map[string]string),
		Set:       make(map[string]bool),
	}
	if raw, ok := request.GetArguments()["arguments"].(map[string]interface{}); ok {
		for name, value := range raw {
			inv.Args[name] = argValueString(value)
			inv.Set[name] = true
		}
	}
	if body, ok := request.GetArguments()["body"].(string); ok && body != "" {
		inv.Body = body
		inv.BodySet = true
	}

	_, plan, err := cli.Resolve(s.tree, inv)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	logging.Debug("Agent", "call_operation %s %s", resource, operation)
	resp, err := s.executor.Execute(ctx, plan)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := callResult{
		Status:     resp.Status,
		StatusLine: resp.StatusLine,
		DurationMS: resp.Duration.Milliseconds(),
	}
	if resp.JSON != nil {
		result.Body = resp.JSON
	} else if len(resp.Body) > 0 {
		result.Body = string(resp.Body)
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// argValueString renders an MCP argument value in the form the resolver's
// type coercion expects.
func argValueString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}
