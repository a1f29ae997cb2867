package cmd

import (
	"encoding/json"
	"fmt"

	"apictl/internal/cli"

	"github.com/spf13/cobra"
)

// listCmd enumerates the operations in the compiled command tree.
var listCmd = &cobra.Command{
	Use:   "list [resource]",
	Short: "List available resources and operations",
	Long: `List every operation in the command tree, or only those of one
resource. Use --json for machine-readable output.

Examples:
  apictl list
  apictl list invoices
  apictl list --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	t, _, err := loadTree()
	if err != nil {
		return err
	}

	filter := ""
	if len(args) == 1 {
		filter = args[0]
	}
	if filter != "" && t.Resource(filter) == nil {
		return &cli.UnknownCommandError{
			Resource:    filter,
			Suggestions: cli.Suggest(filter, t.ResourceNames()),
		}
	}

	var rows []cli.ListRow
	for _, res := range t.Resources {
		if filter != "" && t.Resource(filter).Name != res.Name {
			continue
		}
		for _, op := range res.Ops {
			rows = append(rows, cli.ListRow{
				Resource:  res.Name,
				Operation: op.Name,
				Method:    op.Method,
				Path:      op.Path,
			})
		}
	}

	if rootJSON {
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderListTable(rows))
	return nil
}
