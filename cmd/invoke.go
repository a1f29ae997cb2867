package cmd

import (
	"fmt"

	"apictl/internal/cli"
	"apictl/internal/config"
	"apictl/internal/tree"
	"apictl/pkg/logging"

	"github.com/spf13/cobra"
)

// registerTreeCommands adds one subcommand per resource and, under each,
// one per operation. Every tree parameter becomes a string flag; type
// coercion happens in the resolver so validation errors carry the
// declared type, not cobra's parse wording.
func registerTreeCommands(root *cobra.Command, t *tree.CommandTree) {
	builtin := make(map[string]bool)
	for _, c := range root.Commands() {
		builtin[c.Name()] = true
	}

	for i := range t.Resources {
		res := &t.Resources[i]
		if builtin[res.Name] {
			// Cobra would silently shadow the resource behind the built-in
			// command of the same name.
			logging.Warn("CLI", "resource %q collides with a built-in command and is not registered", res.Name)
			continue
		}
		resCmd := &cobra.Command{
			Use:   res.Name,
			Short: resourceShort(res),
			RunE: func(cmd *cobra.Command, args []string) error {
				if len(args) == 0 {
					return cmd.Help()
				}
				names := make([]string, 0, len(res.Ops))
				for _, o := range res.Ops {
					names = append(names, o.Name)
				}
				return &cli.UnknownCommandError{
					Resource:    res.Name,
					Operation:   args[0],
					Suggestions: cli.Suggest(args[0], names),
				}
			},
		}
		for j := range res.Ops {
			resCmd.AddCommand(newOperationCmd(t, res, &res.Ops[j]))
		}
		root.AddCommand(resCmd)
	}
}

func resourceShort(res *tree.Resource) string {
	if res.Description != "" {
		return res.Description
	}
	return fmt.Sprintf("Operations on %s", res.Name)
}

// newOperationCmd builds the leaf command that resolves arguments,
// executes the HTTP request, and renders the response.
func newOperationCmd(t *tree.CommandTree, res *tree.Resource, op *tree.Operation) *cobra.Command {
	short := op.Description
	if short == "" {
		short = fmt.Sprintf("%s %s", op.Method, op.Path)
	}

	opCmd := &cobra.Command{
		Use:   op.Name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, t, res, op)
		},
	}

	for _, p := range op.Params {
		usage := p.Description
		if usage == "" {
			usage = fmt.Sprintf("%s %s parameter", p.Location, p.EffectiveType())
		}
		if p.Required {
			usage += " (required)"
		}
		opCmd.Flags().String(p.Flag, p.Default, usage)
	}
	if op.Body != nil {
		opCmd.Flags().String("body", "", "Request body: literal JSON or @file")
	}
	return opCmd
}

func runOperation(cmd *cobra.Command, t *tree.CommandTree, res *tree.Resource, op *tree.Operation) error {
	inv := cli.Invocation{
		Resource:  res.Name,
		Operation: op.Name,
		Args:      make(map[string]string),
		Set:       make(map[string]bool),
	}
	for _, p := range op.Params {
		if cmd.Flags().Changed(p.Flag) {
			value, err := cmd.Flags().GetString(p.Flag)
			if err != nil {
				return err
			}
			inv.Args[p.Flag] = value
			inv.Set[p.Flag] = true
		}
	}
	if op.Body != nil && cmd.Flags().Changed("body") {
		body, err := cmd.Flags().GetString("body")
		if err != nil {
			return err
		}
		inv.Body = body
		inv.BodySet = true
	}

	_, plan, err := cli.Resolve(t, inv)
	if err != nil {
		return err
	}

	configPath := rootConfigPath
	if configPath == "" {
		configPath = config.GetDefaultConfigPathOrPanic()
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	apiKey := config.ResolveAPIKey(rootAPIKey)
	if apiKey == "" {
		return fmt.Errorf("no API key: set --api-key or %s", config.EnvAPIKey)
	}
	baseURL := config.ResolveBaseURL(rootBaseURL, cfg, t.BaseURL)
	if baseURL == "" {
		return fmt.Errorf("no base URL: set --base-url, %s, or base_url in config", config.EnvBaseURL)
	}

	executor := cli.NewExecutor(cli.ExecutorOptions{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		Auth:      cfg.Auth,
		Timeout:   cfg.Timeout(),
		Quiet:     rootQuiet,
		UserAgent: "apictl/" + GetVersion(),
	})

	resp, err := executor.Execute(cmd.Context(), plan)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderResponse(resp, outputMode()))
	if !cli.ResponseExitOK(resp) {
		return &cli.HTTPStatusError{Status: resp.Status}
	}
	return nil
}
