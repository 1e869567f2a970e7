// Package model defines the typed records for the provider's billing
// resources: accounts, billing information, plans and subscriptions, plus
// their one-page collection wrappers and the provider fault document.
//
// Each entity declares its root element name and an ordered field table; the
// generic codec in pkg/wire consumes the table for both directions. Entities
// are plain values: callers build them for requests, the codec materializes
// them from responses, and decoded results are not mutated afterwards.
package model
