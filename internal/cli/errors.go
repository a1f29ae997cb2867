package cli

import (
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"apictl/internal/tree"
)

// UnknownCommandError indicates a resource or operation name that does not
// exist in the command tree.
type UnknownCommandError struct {
	// Resource is the resource name as supplied by the user.
	Resource string
	// Operation is the operation name as supplied, empty when the resource
	// itself was not found.
	Operation string
	// Suggestions lists similar known names, when any scored close enough.
	Suggestions []string
}

// Error returns a user-friendly message including did-you-mean hints.
func (e *UnknownCommandError) Error() string {
	var msg string
	if e.Operation == "" {
		msg = fmt.Sprintf("unknown resource %q", e.Resource)
	} else {
		msg = fmt.Sprintf("unknown operation %q for resource %q", e.Operation, e.Resource)
	}
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	msg += "\n\nRun 'apictl list' to see available commands."
	return msg
}

// Is reports whether target is an *UnknownCommandError.
func (e *UnknownCommandError) Is(target error) bool {
	var t *UnknownCommandError
	return errors.As(target, &t)
}

// MissingRequiredError indicates a required parameter left unset after
// defaulting.
type MissingRequiredError struct {
	// Param is the parameter name.
	Param string
	// Flag is the CLI flag that supplies it.
	Flag string
}

// Error returns a message naming the missing flag.
func (e *MissingRequiredError) Error() string {
	return fmt.Sprintf("missing required argument --%s", e.Flag)
}

// Is reports whether target is a *MissingRequiredError.
func (e *MissingRequiredError) Is(target error) bool {
	var t *MissingRequiredError
	return errors.As(target, &t)
}

// TypeMismatchError indicates a flag value that does not parse as the
// parameter's declared type.
type TypeMismatchError struct {
	Param    string
	Expected tree.ParamType
	Value    string
}

// Error returns a message naming the parameter and expected type.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("invalid value %q for --%s: expected %s", e.Value, e.Param, e.Expected)
}

// Is reports whether target is a *TypeMismatchError.
func (e *TypeMismatchError) Is(target error) bool {
	var t *TypeMismatchError
	return errors.As(target, &t)
}

// IsValidationError reports whether err is any of the validation error
// kinds, all of which are raised before network I/O.
func IsValidationError(err error) bool {
	var unknown *UnknownCommandError
	var missing *MissingRequiredError
	var mismatch *TypeMismatchError
	var body *BodyNotAllowedError
	return errors.As(err, &unknown) || errors.As(err, &missing) ||
		errors.As(err, &mismatch) || errors.As(err, &body)
}

// ExecutionErrorKind categorizes transport failures.
type ExecutionErrorKind int

const (
	// ExecutionErrorUnknown indicates an unclassified transport failure.
	ExecutionErrorUnknown ExecutionErrorKind = iota
	// ExecutionErrorTimeout indicates the request timed out.
	ExecutionErrorTimeout
	// ExecutionErrorDNS indicates a DNS resolution failure.
	ExecutionErrorDNS
	// ExecutionErrorTLS indicates a TLS/certificate verification failure.
	ExecutionErrorTLS
	// ExecutionErrorNetwork indicates a network connectivity failure
	// (connection refused, unreachable).
	ExecutionErrorNetwork
)

// String returns a human-readable name for the execution error kind.
func (k ExecutionErrorKind) String() string {
	switch k {
	case ExecutionErrorTimeout:
		return "request timeout"
	case ExecutionErrorDNS:
		return "DNS resolution error"
	case ExecutionErrorTLS:
		return "TLS certificate error"
	case ExecutionErrorNetwork:
		return "network error"
	default:
		return "request error"
	}
}

// ExecutionError indicates the HTTP request failed before any response was
// received. A response with an error status is not an ExecutionError.
type ExecutionError struct {
	// Kind categorizes the failure.
	Kind ExecutionErrorKind
	// URL is the request URL that failed.
	URL string
	// Reason is the underlying transport error.
	Reason error
}

// Error returns a message with the category and underlying cause.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s for %s: %v", e.Kind, e.URL, e.Reason)
}

// Unwrap returns the underlying transport error.
func (e *ExecutionError) Unwrap() error {
	return e.Reason
}

// Is reports whether target is an *ExecutionError.
func (e *ExecutionError) Is(target error) bool {
	var t *ExecutionError
	return errors.As(target, &t)
}

// ClassifyExecutionError analyzes a transport error and wraps it in an
// ExecutionError with the appropriate kind. Returns nil for a nil error.
func ClassifyExecutionError(err error, requestURL string) *ExecutionError {
	if err == nil {
		return nil
	}

	kind := ExecutionErrorUnknown
	switch {
	case isTimeoutError(err):
		kind = ExecutionErrorTimeout
	case isDNSError(err):
		kind = ExecutionErrorDNS
	case isTLSError(err):
		kind = ExecutionErrorTLS
	case isNetworkError(err):
		kind = ExecutionErrorNetwork
	}

	return &ExecutionError{Kind: kind, URL: requestURL, Reason: err}
}

// isTimeoutError checks for net.Error timeouts through the unwrap chain
// and for context deadline wording.
func isTimeoutError(err error) bool {
	for e := err; e != nil; {
		if ne, ok := e.(net.Error); ok && ne.Timeout() {
			return true
		}
		if u, ok := e.(interface{ Unwrap() error }); ok {
			e = u.Unwrap()
		} else {
			break
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded")
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isTLSError checks for x509 certificate errors and TLS-related wording.
func isTLSError(err error) bool {
	var certErr *x509.CertificateInvalidError
	var hostErr *x509.HostnameError
	var unknownAuthErr *x509.UnknownAuthorityError
	var systemRootsErr *x509.SystemRootsError

	if errors.As(err, &certErr) || errors.As(err, &hostErr) ||
		errors.As(err, &unknownAuthErr) || errors.As(err, &systemRootsErr) {
		return true
	}

	errStr := err.Error()
	for _, keyword := range []string{"x509:", "certificate", "tls:", "TLS handshake"} {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}

func isNetworkError(err error) bool {
	errStr := err.Error()
	for _, keyword := range []string{
		"connection refused",
		"connection reset",
		"network is unreachable",
		"no route to host",
		"dial tcp",
	} {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}

// HTTPStatusError marks an invocation that received an HTTP response with
// status >= 400. The response has already been rendered; this error only
// carries the status to the exit-code mapping.
type HTTPStatusError struct {
	Status int
}

// Error returns the status line.
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Status)
}

// Is reports whether target is an *HTTPStatusError.
func (e *HTTPStatusError) Is(target error) bool {
	var t *HTTPStatusError
	return errors.As(target, &t)
}
