// Package config provides configuration management for apictl.
//
// Configuration is loaded from a single directory (default
// ~/.config/apictl, overridable with --config-path or APICTL_CONFIG_PATH)
// containing an optional config.yaml. A missing file is not an error; the
// defaults apply.
//
// Runtime values resolve with a fixed precedence so scripted and
// interactive use behave identically:
//
//	command-line flag > environment variable > config.yaml > compiled tree
//
// The credential never comes from config.yaml: it is taken from the
// --api-key flag or the APICTL_API_KEY environment variable only, to keep
// secrets out of on-disk configuration.
package config
