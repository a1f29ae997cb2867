// Package logging provides structured logging for apictl, built on the
// standard library slog package.
//
// Log entries carry a subsystem identifier so diagnostic output can be
// filtered by origin (Compiler, Resolver, Executor, Agent, Config). The
// logger writes to stderr so it never interferes with command output on
// stdout, which scripts and automated agents parse.
//
// Initialization happens once at process start:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//	logging.Debug("Compiler", "loaded spec from %s", path)
//	logging.Error("Executor", err, "request failed")
//
// Level filtering happens at the handler, so filtered-out messages cost
// nothing beyond the enabled check.
package logging
