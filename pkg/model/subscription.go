package model

import (
	"time"

	"github.com/platinummonkey/rebill/pkg/wire"
)

// Subscription enrolls an account in a plan. On create the owning account is
// embedded as a nested element; the provider responds with the server-owned
// UUID, State and ActivatedAt fields populated.
type Subscription struct {
	PlanCode    string
	Account     *Account
	Quantity    wire.Optional[int]
	Currency    wire.Optional[string]
	UUID        wire.Optional[string]
	State       wire.Optional[string]
	ActivatedAt wire.Optional[time.Time]
}

// ElementName returns the subscription root element tag.
func (s *Subscription) ElementName() string { return "subscription" }

// Fields returns the wire mapping for this subscription.
func (s *Subscription) Fields() []wire.Field {
	return []wire.Field{
		{Tag: "plan_code", Required: true, Value: wire.RawString(&s.PlanCode)},
		{Tag: "account", Value: wire.Nested(
			func() wire.Entity {
				if s.Account == nil {
					return nil
				}
				return s.Account
			},
			func() wire.Entity {
				s.Account = &Account{}
				return s.Account
			},
		)},
		{Tag: "quantity", Value: wire.Int(&s.Quantity)},
		{Tag: "currency", Value: wire.String(&s.Currency)},
		{Tag: "uuid", ReadOnly: true, Value: wire.String(&s.UUID)},
		{Tag: "state", ReadOnly: true, Value: wire.String(&s.State)},
		{Tag: "activated_at", ReadOnly: true, Value: wire.Time(&s.ActivatedAt)},
	}
}

// Subscriptions is one response page of subscriptions.
type Subscriptions struct {
	Items []*Subscription
}

// ElementName returns the collection root element tag.
func (c *Subscriptions) ElementName() string { return "subscriptions" }

// NewItem allocates storage for one decoded subscription.
func (c *Subscriptions) NewItem() wire.Entity {
	s := &Subscription{}
	c.Items = append(c.Items, s)
	return s
}

// Len returns the number of subscriptions in the page.
func (c *Subscriptions) Len() int { return len(c.Items) }

// At returns the i-th subscription in the page.
func (c *Subscriptions) At(i int) wire.Entity { return c.Items[i] }
