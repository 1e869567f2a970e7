// Package rebill is the client facade for the provider's subscription
// billing API. A Client composes the XML codec and the request executor into
// one operation per entity and verb.
//
// A Client moves through an explicit lifecycle: Unopened, then Open after
// Open() acquires the underlying HTTP executor, then Closed after Close()
// releases it. Entity operations are only valid while Open; outside that
// state they return a *UsageError. Close is idempotent so cleanup paths may
// call it twice.
//
// One open Client is safe for concurrent use: each operation is a single
// self-contained exchange and no state is shared beyond the fixed credential
// and base URL. The client never retries; transport failures surface
// immediately and callers decide retry policy (pkg/retry helps with that).
package rebill
