package config

// Environment variable names recognized by apictl.
const (
	// EnvAPIKey supplies the API credential. Required for real calls;
	// discovery commands work without it.
	EnvAPIKey = "APICTL_API_KEY"
	// EnvBaseURL overrides the base URL from config and tree.
	EnvBaseURL = "APICTL_BASE_URL"
	// EnvTree overrides the command tree file location.
	EnvTree = "APICTL_TREE"
	// EnvConfigPath overrides the configuration directory.
	EnvConfigPath = "APICTL_CONFIG_PATH"
)

// DefaultTimeoutSeconds is the request timeout when none is configured.
const DefaultTimeoutSeconds = 30

// DefaultTreeFilename is the command tree filename looked up in the
// working directory and in the configuration directory.
const DefaultTreeFilename = "command_tree.json"

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() Config {
	return Config{
		Auth:           AuthConfig{Scheme: AuthSchemeBearer},
		TimeoutSeconds: DefaultTimeoutSeconds,
	}
}
