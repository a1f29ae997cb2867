package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"apictl/internal/cli"
	"apictl/internal/config"
	"apictl/internal/tree"
	"apictl/pkg/logging"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands. These are stable so scripts can branch on
// the failure class without parsing output.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (bad flags, unreadable files).
	ExitCodeError = 1
	// ExitCodeValidation indicates the invocation failed argument
	// validation before any request was sent.
	ExitCodeValidation = 2
	// ExitCodeExecution indicates a transport failure (timeout, DNS, TLS,
	// connectivity).
	ExitCodeExecution = 3
	// ExitCodeHTTPError indicates a response was received with status >= 400.
	ExitCodeHTTPError = 4
)

var (
	rootAPIKey     string
	rootBaseURL    string
	rootTreePath   string
	rootConfigPath string
	rootQuiet      bool
	rootDebug      bool
	rootPretty     bool
	rootRaw        bool
	rootJSON       bool
)

// rootCmd represents the base command for the apictl application.
var rootCmd = &cobra.Command{
	Use:   "apictl",
	Short: "Call any API described by a compiled command tree",
	Long: `apictl compiles OpenAPI and Postman specifications into a command
tree and exposes every operation in it as a subcommand. Compile once with
'apictl compile', then discover operations with 'apictl list' and invoke
them as 'apictl <resource> <operation>'.`,
	SilenceUsage: true,
	// Errors are printed by Execute so the JSON modes can emit structured
	// envelopes instead of prose.
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.LevelWarn
		if rootDebug {
			level = logging.LevelDebug
		} else if rootQuiet {
			level = logging.LevelError
		}
		logging.InitForCLI(level, os.Stderr)
	},
}

// SetVersion sets the version for the root command. Called from main with
// the build-time version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application. It loads the
// command tree if one is available, registers its operations as
// subcommands, and runs the root command.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "apictl version %s\n" .Version}}`)

	// Startup tree loading runs before cobra has parsed flags, so the
	// logging flags are scanned from os.Args the same way --tree is.
	// PersistentPreRun re-initializes with the parsed values.
	logging.InitForCLI(startupLogLevel(os.Args[1:]), os.Stderr)

	if t, err := loadTreeForStartup(); err == nil && t != nil {
		registerTreeCommands(rootCmd, t)
	} else if err != nil {
		// A broken tree file must not mask compile/list/version; warn and
		// continue with only the built-in commands.
		fmt.Fprintf(os.Stderr, "Warning: command tree not loaded: %v\n", err)
	}

	err := rootCmd.Execute()
	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps an error to its semantic exit code.
func getExitCode(err error) int {
	var statusErr *cli.HTTPStatusError
	if errors.As(err, &statusErr) {
		return ExitCodeHTTPError
	}

	var execErr *cli.ExecutionError
	if errors.As(err, &execErr) {
		return ExitCodeExecution
	}

	if cli.IsValidationError(err) {
		return ExitCodeValidation
	}

	return ExitCodeError
}

// reportError prints an error in the mode-appropriate form. An HTTP
// status error carries no message of its own: the response was already
// rendered, only the exit code remains.
func reportError(w io.Writer, err error) {
	var statusErr *cli.HTTPStatusError
	if errors.As(err, &statusErr) {
		return
	}
	if rootJSON {
		fmt.Fprintln(w, cli.RenderErrorJSON(err))
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

// loadTreeForStartup locates and loads the command tree before cobra has
// parsed flags, so the tree's operations can be registered as
// subcommands. The --tree and --config-path values are scanned from
// os.Args directly. A missing tree file is not an error: discovery of
// built-in commands still works.
func loadTreeForStartup() (*tree.CommandTree, error) {
	configPath := scanFlag(os.Args[1:], "--config-path")
	if configPath == "" {
		configPath = config.GetDefaultConfigPathOrPanic()
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	treePath := config.ResolveTreePath(scanFlag(os.Args[1:], "--tree"), cfg, configPath)
	if _, err := os.Stat(treePath); err != nil {
		return nil, nil
	}
	return tree.Load(treePath)
}

// startupLogLevel mirrors PersistentPreRun's level selection for the
// pre-parse startup phase.
func startupLogLevel(args []string) logging.LogLevel {
	switch {
	case scanBoolFlag(args, "--debug"):
		return logging.LevelDebug
	case scanBoolFlag(args, "--quiet"), scanBoolFlag(args, "-q"):
		return logging.LevelError
	default:
		return logging.LevelWarn
	}
}

// scanBoolFlag reports whether a boolean flag is set in raw arguments.
func scanBoolFlag(args []string, name string) bool {
	for _, arg := range args {
		if arg == name || arg == name+"=true" {
			return true
		}
	}
	return false
}

// scanFlag extracts a string flag value from raw arguments, accepting
// both "--name value" and "--name=value".
func scanFlag(args []string, name string) string {
	for i, arg := range args {
		if arg == name && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(arg, name+"="); ok {
			return v
		}
	}
	return ""
}

// loadTree loads the command tree for a subcommand run, after flags have
// been parsed. Unlike startup loading, a missing tree here is an error.
func loadTree() (*tree.CommandTree, config.Config, error) {
	configPath := rootConfigPath
	if configPath == "" {
		configPath = config.GetDefaultConfigPathOrPanic()
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, config.Config{}, err
	}

	treePath := config.ResolveTreePath(rootTreePath, cfg, configPath)
	t, err := tree.Load(treePath)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("load command tree: %w (run 'apictl compile' first)", err)
	}
	return t, cfg, nil
}

// outputMode resolves the render mode from the output flags.
func outputMode() cli.OutputMode {
	switch {
	case rootRaw:
		return cli.OutputModeRaw
	case rootPretty:
		return cli.OutputModePretty
	default:
		return cli.OutputModeHuman
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootAPIKey, "api-key", "", "API credential (env: APICTL_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&rootBaseURL, "base-url", "", "Override the API base URL (env: APICTL_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&rootTreePath, "tree", "", "Command tree file (env: APICTL_TREE)")
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config-path", "", "Configuration directory (env: APICTL_CONFIG_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&rootQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&rootPretty, "pretty", false, "Print only the JSON body, indented")
	rootCmd.PersistentFlags().BoolVar(&rootRaw, "raw", false, "Print status line, headers, and body unmodified")
	rootCmd.PersistentFlags().BoolVar(&rootJSON, "json", false, "Emit structured JSON output (discovery and errors)")
	rootCmd.MarkFlagsMutuallyExclusive("pretty", "raw")

	rootCmd.AddCommand(newVersionCmd())
}
