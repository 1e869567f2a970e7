package model

import (
	"time"

	"github.com/platinummonkey/rebill/pkg/wire"
)

// Account is a customer account. AccountCode is the caller-chosen unique
// identifier and is immutable once the account exists. CreatedAt is assigned
// by the provider and only ever appears on responses.
//
// An account owns at most one BillingInfo, but by reference: billing
// information is fetched and replaced through its own endpoint keyed by the
// account code, never embedded in account payloads.
type Account struct {
	AccountCode    string
	Username       wire.Optional[string]
	Email          wire.Optional[string]
	FirstName      wire.Optional[string]
	LastName       wire.Optional[string]
	CompanyName    wire.Optional[string]
	AcceptLanguage wire.Optional[string]
	CreatedAt      wire.Optional[time.Time]
}

// ElementName returns the account root element tag.
func (a *Account) ElementName() string { return "account" }

// Fields returns the wire mapping for this account.
func (a *Account) Fields() []wire.Field {
	return []wire.Field{
		{Tag: "account_code", Required: true, Value: wire.RawString(&a.AccountCode)},
		{Tag: "username", Value: wire.String(&a.Username)},
		{Tag: "email", Value: wire.String(&a.Email)},
		{Tag: "first_name", Value: wire.String(&a.FirstName)},
		{Tag: "last_name", Value: wire.String(&a.LastName)},
		{Tag: "company_name", Value: wire.String(&a.CompanyName)},
		{Tag: "accept_language", Value: wire.String(&a.AcceptLanguage)},
		{Tag: "created_at", ReadOnly: true, Value: wire.Time(&a.CreatedAt)},
	}
}

// Accounts is one response page of accounts.
type Accounts struct {
	Items []*Account
}

// ElementName returns the collection root element tag.
func (c *Accounts) ElementName() string { return "accounts" }

// NewItem allocates storage for one decoded account.
func (c *Accounts) NewItem() wire.Entity {
	a := &Account{}
	c.Items = append(c.Items, a)
	return a
}

// Len returns the number of accounts in the page.
func (c *Accounts) Len() int { return len(c.Items) }

// At returns the i-th account in the page.
func (c *Accounts) At(i int) wire.Entity { return c.Items[i] }
