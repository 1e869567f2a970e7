package model

import "github.com/platinummonkey/rebill/pkg/wire"

// Fault is the provider's XML error document, returned with non-2xx statuses
// for business-level rejections (duplicate account code, invalid card).
type Fault struct {
	Symbol      string
	Description wire.Optional[string]
}

// ElementName returns the fault root element tag.
func (f *Fault) ElementName() string { return "error" }

// Fields returns the wire mapping for this fault.
func (f *Fault) Fields() []wire.Field {
	return []wire.Field{
		{Tag: "symbol", Required: true, Value: wire.RawString(&f.Symbol)},
		{Tag: "description", Value: wire.String(&f.Description)},
	}
}
