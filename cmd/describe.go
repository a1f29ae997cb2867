package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"apictl/internal/cli"
	"apictl/internal/tree"

	"github.com/spf13/cobra"
)

// describeCmd shows the full contract of one operation: method, path,
// every parameter with its type and location, and the request body.
var describeCmd = &cobra.Command{
	Use:   "describe <resource> <operation>",
	Short: "Show the full contract of one operation",
	Long: `Describe one operation: its HTTP method and path, every parameter
with flag name, location, type, and default, and the request body it
accepts. Use --json for machine-readable output.

Examples:
  apictl describe invoices get
  apictl describe invoices create --json`,
	Args: cobra.ExactArgs(2),
	RunE: runDescribe,
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

// describedOperation is the --json shape of a describe result.
type describedOperation struct {
	Resource    string               `json:"resource"`
	Operation   string               `json:"operation"`
	Method      string               `json:"method"`
	Path        string               `json:"path"`
	Description string               `json:"description,omitempty"`
	Parameters  []tree.Parameter     `json:"parameters"`
	Body        *tree.BodyDescriptor `json:"body,omitempty"`
}

func runDescribe(cmd *cobra.Command, args []string) error {
	t, _, err := loadTree()
	if err != nil {
		return err
	}

	res, op := t.Operation(args[0], args[1])
	if op == nil {
		if res == nil {
			return &cli.UnknownCommandError{
				Resource:    args[0],
				Suggestions: cli.Suggest(args[0], t.ResourceNames()),
			}
		}
		names := make([]string, 0, len(res.Ops))
		for _, o := range res.Ops {
			names = append(names, o.Name)
		}
		return &cli.UnknownCommandError{
			Resource:    res.Name,
			Operation:   args[1],
			Suggestions: cli.Suggest(args[1], names),
		}
	}

	if rootJSON {
		described := describedOperation{
			Resource:    res.Name,
			Operation:   op.Name,
			Method:      op.Method,
			Path:        op.Path,
			Description: op.Description,
			Parameters:  op.Params,
			Body:        op.Body,
		}
		data, err := json.MarshalIndent(described, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), formatOperation(res, op))
	return nil
}

// formatOperation renders the human-readable describe output.
func formatOperation(res *tree.Resource, op *tree.Operation) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", op.Method, op.Path)
	fmt.Fprintf(&sb, "Usage: apictl %s %s", res.Name, op.Name)
	for _, p := range op.Params {
		if p.Required {
			fmt.Fprintf(&sb, " --%s <%s>", p.Flag, p.EffectiveType())
		}
	}
	sb.WriteByte('\n')
	if op.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", op.Description)
	}

	if len(op.Params) > 0 {
		sb.WriteString("\nParameters:\n")
		for _, p := range op.Params {
			fmt.Fprintf(&sb, "  --%-24s %s %s", p.Flag, p.Location, p.EffectiveType())
			if p.Required {
				sb.WriteString(" (required)")
			}
			if p.Default != "" {
				fmt.Fprintf(&sb, " (default: %s)", p.Default)
			}
			if len(p.Enum) > 0 {
				fmt.Fprintf(&sb, " [%s]", strings.Join(p.Enum, ", "))
			}
			sb.WriteByte('\n')
		}
	}

	if op.Body != nil {
		fmt.Fprintf(&sb, "\nBody: %s", op.Body.ContentType)
		if op.Body.Schema != "" {
			fmt.Fprintf(&sb, " (%s)", op.Body.Schema)
		}
		if op.Body.Required {
			sb.WriteString(" (required)")
		}
		sb.WriteString("\n  Supply with --body '<json>' or --body @file.json\n")
	}
	return sb.String()
}
