package rebill

import "fmt"

// UsageError reports a misuse of the client itself rather than a failure of
// the provider or the network: an operation invoked on an unopened or closed
// client, or a request entity that cannot legally be sent (an empty required
// identifier, a plan priced in zero currencies).
type UsageError struct {
	Op     string
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}
