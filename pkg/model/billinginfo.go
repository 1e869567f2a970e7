package model

import "github.com/platinummonkey/rebill/pkg/wire"

// BillingInfo is the payment details attached to an account. AccountCode is
// a weak back-reference to the owning account; it routes the request but is
// never serialized into the payload. CardType is derived by the provider
// from the card number and appears only on responses.
type BillingInfo struct {
	AccountCode       string
	FirstName         wire.Optional[string]
	LastName          wire.Optional[string]
	Number            wire.Optional[string]
	VerificationValue wire.Optional[int]
	Month             wire.Optional[int]
	Year              wire.Optional[int]
	CardType          wire.Optional[string]
}

// ElementName returns the billing info root element tag.
func (b *BillingInfo) ElementName() string { return "billing_info" }

// Fields returns the wire mapping for this billing info.
func (b *BillingInfo) Fields() []wire.Field {
	return []wire.Field{
		{Tag: "first_name", Value: wire.String(&b.FirstName)},
		{Tag: "last_name", Value: wire.String(&b.LastName)},
		{Tag: "number", Value: wire.String(&b.Number)},
		{Tag: "verification_value", Value: wire.Int(&b.VerificationValue)},
		{Tag: "month", Value: wire.Int(&b.Month)},
		{Tag: "year", Value: wire.Int(&b.Year)},
		{Tag: "card_type", ReadOnly: true, Value: wire.String(&b.CardType)},
	}
}
