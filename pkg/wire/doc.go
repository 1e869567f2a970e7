// Package wire implements the XML dialect spoken by the billing provider.
//
// # Overview
//
// Entities declare a fixed root element name and a statically declared field
// table mapping struct fields to child elements. A single generic codec walks
// that table to encode requests and decode responses, so no entity carries its
// own serialization logic.
//
// The dialect has three conventions that rule out off-the-shelf XML binding:
//
//   - Optional fields are tri-state. An absent field is omitted from the
//     document entirely; decoding a document without the element yields the
//     absent state, never an empty string or zero.
//   - Multi-currency amounts are flattened into sibling elements whose tag is
//     the base tag plus the currency code (unit_amount_in_centsEUR).
//   - Read-only fields (server timestamps, derived card types) appear only in
//     responses and are never encoded on requests.
//
// Documents are built and parsed with github.com/beevik/etree.
package wire
