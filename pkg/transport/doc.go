// Package transport issues authenticated requests against the provider's
// versioned REST API and maps responses onto typed results or typed failures.
//
// The raw HTTP exchange is an injected capability (HTTPExecutor) so callers
// control pooling, TLS and timeout policy; StockExecutor is the net/http
// implementation used by default, optionally instrumented with otelhttp.
//
// Executor layers the protocol on top: the static Basic credential header
// (computed once at construction), the fixed XML content type, single-page
// list pagination, and the response mapping contract. A 2xx body decodes into
// the expected entity; a non-2xx with a parseable fault document becomes a
// *ProviderFault; anything else becomes a *TransportError. The executor never
// retries: a ProviderFault is a semantic rejection, and retry policy for
// transport failures belongs to the caller (see pkg/retry).
package transport
