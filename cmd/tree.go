package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// treeCmd prints the whole command hierarchy at a glance.
var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the command tree",
	Long: `Print the full command hierarchy: every resource and its
operations, indented. With --json the compiled tree document itself is
emitted, byte-identical to the tree file.`,
	Args: cobra.NoArgs,
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	t, _, err := loadTree()
	if err != nil {
		return err
	}

	if rootJSON {
		return t.Encode(cmd.OutOrStdout())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "apictl (%s)\n", t.BaseURL)
	for i, res := range t.Resources {
		resPrefix, opIndent := "├── ", "│   "
		if i == len(t.Resources)-1 {
			resPrefix, opIndent = "└── ", "    "
		}
		sb.WriteString(resPrefix + res.Name + "\n")
		for j, op := range res.Ops {
			opPrefix := opIndent + "├── "
			if j == len(res.Ops)-1 {
				opPrefix = opIndent + "└── "
			}
			fmt.Fprintf(&sb, "%s%s  %s %s\n", opPrefix, op.Name, op.Method, op.Path)
		}
	}
	fmt.Fprint(cmd.OutOrStdout(), sb.String())
	return nil
}
