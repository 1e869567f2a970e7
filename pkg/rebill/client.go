package rebill

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/rebill/pkg/model"
	"github.com/platinummonkey/rebill/pkg/transport"
)

type clientState int

const (
	stateUnopened clientState = iota
	stateOpen
	stateClosed
)

// Client talks to the billing provider. Construct with NewClient, call Open
// before the first operation, and Close when done.
type Client struct {
	exec     *transport.Executor
	httpExec transport.HTTPExecutor

	mu    sync.RWMutex
	state clientState
}

type options struct {
	baseURL  string
	httpExec transport.HTTPExecutor
	log      *logrus.Logger
}

// Option customizes a Client.
type Option func(*options)

// WithBaseURL overrides the provider endpoint, e.g. for a sandbox.
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithHTTPExecutor injects the raw HTTP capability. The default is a
// transport.StockExecutor with pooled connections.
func WithHTTPExecutor(h transport.HTTPExecutor) Option {
	return func(o *options) { o.httpExec = h }
}

// WithLogger injects the logger used for request debug logging.
func WithLogger(log *logrus.Logger) Option {
	return func(o *options) { o.log = log }
}

// NewClient creates an unopened client authenticating with apiKey.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.httpExec == nil {
		o.httpExec = transport.NewStockExecutor()
	}
	return &Client{
		exec:     transport.NewExecutor(apiKey, o.baseURL, o.httpExec, o.log),
		httpExec: o.httpExec,
	}, nil
}

// Open acquires the underlying HTTP executor. Opening an already-open or
// closed client is a usage error.
func (c *Client) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case stateOpen:
		return &UsageError{Op: "open", Reason: "client is already open"}
	case stateClosed:
		return &UsageError{Op: "open", Reason: "client is closed"}
	}
	if err := c.httpExec.Acquire(); err != nil {
		return fmt.Errorf("failed to acquire http executor: %w", err)
	}
	c.state = stateOpen
	return nil
}

// Close releases the underlying HTTP executor. The release happens exactly
// once; further calls are no-ops. Close must not race with in-flight
// operations.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == stateOpen {
		if err := c.httpExec.Release(); err != nil {
			return fmt.Errorf("failed to release http executor: %w", err)
		}
	}
	c.state = stateClosed
	return nil
}

func (c *Client) guard(op string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch c.state {
	case stateUnopened:
		return &UsageError{Op: op, Reason: "client is not open"}
	case stateClosed:
		return &UsageError{Op: op, Reason: "client is closed"}
	}
	return nil
}

// CreateAccount creates a new account. The provider echoes the submitted
// fields back along with the server-assigned creation timestamp.
func (c *Client) CreateAccount(ctx context.Context, account *model.Account) (*model.Account, error) {
	if err := c.guard("createAccount"); err != nil {
		return nil, err
	}
	if account == nil || account.AccountCode == "" {
		return nil, &UsageError{Op: "createAccount", Reason: "account code is required"}
	}
	created := &model.Account{}
	if err := c.exec.Post(ctx, "accounts", account, created); err != nil {
		return nil, err
	}
	return created, nil
}

// GetAccount fetches the account with the given code.
func (c *Client) GetAccount(ctx context.Context, accountCode string) (*model.Account, error) {
	if err := c.guard("getAccount"); err != nil {
		return nil, err
	}
	if accountCode == "" {
		return nil, &UsageError{Op: "getAccount", Reason: "account code is required"}
	}
	account := &model.Account{}
	if err := c.exec.Get(ctx, "accounts/"+url.PathEscape(accountCode), account); err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccounts fetches one page of accounts. The zero PageOptions requests
// the provider's default page.
func (c *Client) GetAccounts(ctx context.Context, page transport.PageOptions) (*model.Accounts, error) {
	if err := c.guard("getAccounts"); err != nil {
		return nil, err
	}
	accounts := &model.Accounts{}
	if err := c.exec.GetList(ctx, "accounts", page, accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// CreateOrUpdateBillingInfo submits billing info for the owning account with
// upsert semantics: the provider creates or replaces based on existing
// state. The owning account is identified by info.AccountCode.
func (c *Client) CreateOrUpdateBillingInfo(ctx context.Context, info *model.BillingInfo) (*model.BillingInfo, error) {
	if err := c.guard("createOrUpdateBillingInfo"); err != nil {
		return nil, err
	}
	if info == nil || info.AccountCode == "" {
		return nil, &UsageError{Op: "createOrUpdateBillingInfo", Reason: "owning account code is required"}
	}
	updated := &model.BillingInfo{}
	path := "accounts/" + url.PathEscape(info.AccountCode) + "/billing_info"
	if err := c.exec.Put(ctx, path, info, updated); err != nil {
		return nil, err
	}
	updated.AccountCode = info.AccountCode
	return updated, nil
}

// GetBillingInfo fetches the billing info attached to an account.
func (c *Client) GetBillingInfo(ctx context.Context, accountCode string) (*model.BillingInfo, error) {
	if err := c.guard("getBillingInfo"); err != nil {
		return nil, err
	}
	if accountCode == "" {
		return nil, &UsageError{Op: "getBillingInfo", Reason: "account code is required"}
	}
	info := &model.BillingInfo{}
	path := "accounts/" + url.PathEscape(accountCode) + "/billing_info"
	if err := c.exec.Get(ctx, path, info); err != nil {
		return nil, err
	}
	info.AccountCode = accountCode
	return info, nil
}

// CreatePlan creates a new plan. A plan must be priced in at least one
// currency.
func (c *Client) CreatePlan(ctx context.Context, plan *model.Plan) (*model.Plan, error) {
	if err := c.guard("createPlan"); err != nil {
		return nil, err
	}
	if plan == nil || plan.PlanCode == "" {
		return nil, &UsageError{Op: "createPlan", Reason: "plan code is required"}
	}
	if len(plan.UnitAmountInCents) == 0 {
		return nil, &UsageError{Op: "createPlan", Reason: "unit amount requires at least one currency"}
	}
	created := &model.Plan{}
	if err := c.exec.Post(ctx, "plans", plan, created); err != nil {
		return nil, err
	}
	return created, nil
}

// GetPlan fetches the plan with the given code.
func (c *Client) GetPlan(ctx context.Context, planCode string) (*model.Plan, error) {
	if err := c.guard("getPlan"); err != nil {
		return nil, err
	}
	if planCode == "" {
		return nil, &UsageError{Op: "getPlan", Reason: "plan code is required"}
	}
	plan := &model.Plan{}
	if err := c.exec.Get(ctx, "plans/"+url.PathEscape(planCode), plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// GetPlans fetches one page of plans.
func (c *Client) GetPlans(ctx context.Context, page transport.PageOptions) (*model.Plans, error) {
	if err := c.guard("getPlans"); err != nil {
		return nil, err
	}
	plans := &model.Plans{}
	if err := c.exec.GetList(ctx, "plans", page, plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// CreateSubscription enrolls the embedded account in a plan.
func (c *Client) CreateSubscription(ctx context.Context, sub *model.Subscription) (*model.Subscription, error) {
	if err := c.guard("createSubscription"); err != nil {
		return nil, err
	}
	if sub == nil || sub.PlanCode == "" {
		return nil, &UsageError{Op: "createSubscription", Reason: "plan code is required"}
	}
	if sub.Account == nil || sub.Account.AccountCode == "" {
		return nil, &UsageError{Op: "createSubscription", Reason: "embedded account with account code is required"}
	}
	created := &model.Subscription{}
	if err := c.exec.Post(ctx, "subscriptions", sub, created); err != nil {
		return nil, err
	}
	return created, nil
}

// GetSubscription fetches the subscription with the given UUID.
func (c *Client) GetSubscription(ctx context.Context, uuid string) (*model.Subscription, error) {
	if err := c.guard("getSubscription"); err != nil {
		return nil, err
	}
	if uuid == "" {
		return nil, &UsageError{Op: "getSubscription", Reason: "subscription uuid is required"}
	}
	sub := &model.Subscription{}
	if err := c.exec.Get(ctx, "subscriptions/"+url.PathEscape(uuid), sub); err != nil {
		return nil, err
	}
	return sub, nil
}
