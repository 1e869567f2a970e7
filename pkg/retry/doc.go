// Package retry is an opt-in helper for callers who want to retry transport
// failures. The client itself never retries: a provider fault is a semantic
// rejection and retrying it would be wrong, so only *transport.TransportError
// is considered retryable here. Backoff scheduling comes from
// github.com/cenkalti/backoff/v4.
package retry
