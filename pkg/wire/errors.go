package wire

import "fmt"

// DecodeError reports a response body that does not conform to the expected
// entity shape: a missing required element, an unparsable scalar, or a
// malformed currency element. Decoding never falls back to zero values.
type DecodeError struct {
	Element string
	Reason  string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode %s: %s: %v", e.Element, e.Reason, e.Err)
	}
	return fmt.Sprintf("decode %s: %s", e.Element, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
