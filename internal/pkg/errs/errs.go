/*
Package errs defines the failure taxonomy shared by the gateway and the
client.

Three kinds of failure exist in this system: a missing credential
(ConfigurationError), a third-party provider failing or answering with a
non-success status (UpstreamError), and the client being unable to reach the
gateway at all (TransportError). Handlers translate these into wire
responses; nothing re-throws them further.
*/
package errs

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a credential or setting that is required for an
// upstream call but was never configured. The gateway treats it exactly like
// an upstream failure.
type ConfigurationError struct {
	// Setting is the name of the missing environment variable.
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no %s configured", e.Setting)
}

// UpstreamError reports a failed call to a third-party provider: either a
// non-2xx response (Status holds the provider's status code) or a transport
// failure (Status is zero).
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return "upstream request failed: " + e.Message
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.Status, e.Message)
}

// TransportError reports that the client could not reach the gateway. Op
// names the attempted operation.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: gateway unreachable: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsConfiguration reports whether err is a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsUpstream reports whether err is an UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
