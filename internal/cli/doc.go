// Package cli implements the runtime dispatcher: argument resolution,
// request construction and execution, and response rendering.
//
// The flow for one invocation is
//
//	Resolve: bind CLI flags against the operation's parameter contract,
//	         producing a validated RequestPlan (no network I/O)
//	Execute: build and send exactly one HTTP request from the plan
//	Render:  serialize the Response in the selected output mode
//
// Errors are split along the line the exit-code policy depends on:
// validation errors (unknown command, missing required parameter, type
// mismatch) are reported before any network traffic; execution errors
// (timeout, DNS, TLS, connection failure) mean the request never produced
// a response. A received HTTP error status is neither: it is data,
// rendered as-is, with the exit code derived from the status.
package cli
