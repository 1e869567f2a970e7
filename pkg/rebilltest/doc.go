// Package rebilltest provides an in-memory fake of the billing provider for
// tests. It speaks the same XML dialect through the pkg/wire codec, enforces
// the Basic credential header, assigns server-owned fields (creation
// timestamps, derived card types, subscription UUIDs) and answers with fault
// documents for business-level rejections, so client tests can exercise the
// full encode/execute/decode path without the network.
package rebilltest
