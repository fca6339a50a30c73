// Package relay implements both sides of the chat relay boundary:
// the client the chat front-end talks to, and the HTTP handler that
// forwards a conversation turn to the upstream model provider.
package relay

import "fmt"

// ValidationError reports a malformed request shape. It is raised
// before anything goes over the wire, or when the relay answers 400.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid chat request: %s", e.Reason)
}

// ProviderError reports that the upstream model API returned an error.
type ProviderError struct {
	Status  int
	Message string
	Details string
}

func (e *ProviderError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("provider error (%d): %s: %s", e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("provider error (%d): %s", e.Status, e.Message)
}

// TransportError reports a network or otherwise unexpected failure
// reaching the relay.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("relay transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
