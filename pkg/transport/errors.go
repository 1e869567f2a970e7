package transport

import "fmt"

// ProviderFault is a business-level rejection: the provider answered with a
// non-2xx status and a well-formed fault document. It carries the provider's
// error symbol and human-readable description. Faults are never retried
// automatically.
type ProviderFault struct {
	StatusCode  int
	Symbol      string
	Description string
}

func (e *ProviderFault) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("provider fault %d (%s): %s", e.StatusCode, e.Symbol, e.Description)
	}
	return fmt.Sprintf("provider fault %d (%s)", e.StatusCode, e.Symbol)
}

// TransportError means no usable response was obtained: a connection,
// timeout or DNS failure, or a non-2xx status whose body could not be parsed
// as a fault document. StatusCode is zero when no response arrived at all.
// Callers may choose to retry these.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport failure (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
