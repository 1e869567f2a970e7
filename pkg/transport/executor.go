package transport

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/rebill/pkg/model"
	"github.com/platinummonkey/rebill/pkg/wire"
)

// DefaultBaseURL is the provider's current API version endpoint.
const DefaultBaseURL = "https://api.rebill.example/v2"

const xmlContentType = "application/xml; charset=utf-8"

// PageOptions selects one page of a list endpoint. The executor fetches
// exactly one page per call; walking all pages is the caller's concern.
type PageOptions struct {
	PerPage int
	Page    int
}

func (p PageOptions) encode() string {
	q := url.Values{}
	if p.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// Executor issues authenticated requests and maps responses per the provider
// contract. It holds no mutable state beyond the fixed credential header and
// base URL, so one Executor is safe for concurrent use.
type Executor struct {
	httpExec   HTTPExecutor
	baseURL    string
	authHeader string
	log        *logrus.Logger
}

// NewExecutor creates an executor bound to baseURL, authenticating every
// request with the given API key. The Basic credential header is computed
// once here and reused verbatim on every call.
func NewExecutor(apiKey, baseURL string, httpExec HTTPExecutor, log *logrus.Logger) *Executor {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = logrus.New()
	}
	return &Executor{
		httpExec:   httpExec,
		baseURL:    strings.TrimRight(baseURL, "/"),
		authHeader: "Basic " + base64.StdEncoding.EncodeToString([]byte(apiKey+":")),
		log:        log,
	}
}

// HTTP returns the underlying HTTP executor, for lifecycle management.
func (e *Executor) HTTP() HTTPExecutor {
	return e.httpExec
}

// Get fetches path and decodes the 2xx body into out.
func (e *Executor) Get(ctx context.Context, path string, out wire.Entity) error {
	status, body, err := e.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if !is2xx(status) {
		return e.fault(status, body)
	}
	return wire.Decode(body, out)
}

// GetList fetches one page of path and decodes the 2xx body into out.
func (e *Executor) GetList(ctx context.Context, path string, page PageOptions, out wire.Collection) error {
	status, body, err := e.do(ctx, http.MethodGet, path+page.encode(), nil)
	if err != nil {
		return err
	}
	if !is2xx(status) {
		return e.fault(status, body)
	}
	return wire.DecodeList(body, out)
}

// Post encodes in, submits it to path as a create, and decodes the 2xx body
// into out.
func (e *Executor) Post(ctx context.Context, path string, in, out wire.Entity) error {
	return e.send(ctx, http.MethodPost, path, in, out)
}

// Put encodes in and submits it to path with create-or-replace semantics:
// the provider decides create versus replace from its existing state.
func (e *Executor) Put(ctx context.Context, path string, in, out wire.Entity) error {
	return e.send(ctx, http.MethodPut, path, in, out)
}

func (e *Executor) send(ctx context.Context, method, path string, in, out wire.Entity) error {
	payload, err := wire.EncodeBytes(in)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", in.ElementName(), err)
	}
	status, body, err := e.do(ctx, method, path, payload)
	if err != nil {
		return err
	}
	if !is2xx(status) {
		return e.fault(status, body)
	}
	return wire.Decode(body, out)
}

// do performs one exchange. A transport-level failure (no usable response)
// surfaces as *TransportError; status mapping happens in the callers.
func (e *Executor) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	header := http.Header{}
	header.Set("Authorization", e.authHeader)
	header.Set("Accept", "application/xml")
	if body != nil {
		header.Set("Content-Type", xmlContentType)
	}

	u := e.baseURL + "/" + path
	status, respBody, err := e.httpExec.Execute(ctx, method, u, header, body)
	if err != nil {
		return 0, nil, &TransportError{Err: err}
	}
	e.log.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"status": status,
	}).Debug("billing API exchange")
	return status, respBody, nil
}

// fault maps a non-2xx response: a parseable fault document becomes a
// *ProviderFault, anything else a *TransportError carrying the status.
func (e *Executor) fault(status int, body []byte) error {
	f := &model.Fault{}
	if err := wire.Decode(body, f); err != nil {
		return &TransportError{StatusCode: status, Err: fmt.Errorf("no parseable fault body: %w", err)}
	}
	return &ProviderFault{
		StatusCode:  status,
		Symbol:      f.Symbol,
		Description: f.Description.OrZero(),
	}
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}
