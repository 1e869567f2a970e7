package model

import (
	"time"

	"github.com/platinummonkey/rebill/pkg/wire"
)

// Plan is a subscription plan. SetupFeeInCents and UnitAmountInCents may
// carry amounts in several currencies at once; on the wire each currency is
// its own element with the currency code appended to the base tag
// (unit_amount_in_centsEUR). CreatedAt is provider-assigned.
type Plan struct {
	PlanCode          string
	Name              string
	Description       wire.Optional[string]
	SetupFeeInCents   wire.CurrencyAmount
	UnitAmountInCents wire.CurrencyAmount
	CreatedAt         wire.Optional[time.Time]
}

// ElementName returns the plan root element tag.
func (p *Plan) ElementName() string { return "plan" }

// Fields returns the wire mapping for this plan.
func (p *Plan) Fields() []wire.Field {
	return []wire.Field{
		{Tag: "plan_code", Required: true, Value: wire.RawString(&p.PlanCode)},
		{Tag: "name", Required: true, Value: wire.RawString(&p.Name)},
		{Tag: "description", Value: wire.String(&p.Description)},
		{Tag: "setup_fee_in_cents", Value: wire.Currency(&p.SetupFeeInCents)},
		{Tag: "unit_amount_in_cents", Value: wire.Currency(&p.UnitAmountInCents)},
		{Tag: "created_at", ReadOnly: true, Value: wire.Time(&p.CreatedAt)},
	}
}

// Plans is one response page of plans.
type Plans struct {
	Items []*Plan
}

// ElementName returns the collection root element tag.
func (c *Plans) ElementName() string { return "plans" }

// NewItem allocates storage for one decoded plan.
func (c *Plans) NewItem() wire.Entity {
	p := &Plan{}
	c.Items = append(c.Items, p)
	return p
}

// Len returns the number of plans in the page.
func (c *Plans) Len() int { return len(c.Items) }

// At returns the i-th plan in the page.
func (c *Plans) At(i int) wire.Entity { return c.Items[i] }
