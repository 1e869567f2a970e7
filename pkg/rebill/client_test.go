package rebill_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/rebill/pkg/model"
	"github.com/platinummonkey/rebill/pkg/rebill"
	"github.com/platinummonkey/rebill/pkg/rebilltest"
	"github.com/platinummonkey/rebill/pkg/transport"
	"github.com/platinummonkey/rebill/pkg/wire"
)

const testAPIKey = "test-api-key"

func randomCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func newOpenClient(t *testing.T) *rebill.Client {
	t.Helper()
	server := rebilltest.NewServer(testAPIKey)
	t.Cleanup(server.Close)

	client, err := rebill.NewClient(testAPIKey, rebill.WithBaseURL(server.BaseURL()))
	require.NoError(t, err)
	require.NoError(t, client.Open())
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := rebill.NewClient("")
	assert.Error(t, err)
}

func TestLifecycleGuards(t *testing.T) {
	client, err := rebill.NewClient(testAPIKey)
	require.NoError(t, err)

	ctx := context.Background()

	// Any operation before Open is a usage failure.
	_, err = client.GetAccount(ctx, "a1")
	var usageErr *rebill.UsageError
	require.ErrorAs(t, err, &usageErr)

	require.NoError(t, client.Open())
	assert.Error(t, client.Open(), "double open must fail")

	require.NoError(t, client.Close())
	require.NoError(t, client.Close(), "double close is a no-op")

	// Operations after Close are usage failures again.
	_, err = client.GetAccount(ctx, "a1")
	require.ErrorAs(t, err, &usageErr)

	// A closed client cannot be reopened.
	err = client.Open()
	require.ErrorAs(t, err, &usageErr)
}

func TestCloseBeforeOpen(t *testing.T) {
	client, err := rebill.NewClient(testAPIKey)
	require.NoError(t, err)
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
}

func TestCreateAccountFlow(t *testing.T) {
	client := newOpenClient(t)
	ctx := context.Background()

	accountData := &model.Account{
		AccountCode:    randomCode(),
		Email:          wire.Some(randomCode() + "@example.com"),
		FirstName:      wire.Some(randomCode()),
		LastName:       wire.Some(randomCode()),
		Username:       wire.Some(randomCode()),
		AcceptLanguage: wire.Some("en_US"),
		CompanyName:    wire.Some(randomCode()),
	}

	creationTime := time.Now().UTC()
	account, err := client.CreateAccount(ctx, accountData)
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, accountData.AccountCode, account.AccountCode)
	assert.Equal(t, accountData.Email, account.Email)
	assert.Equal(t, accountData.FirstName, account.FirstName)
	assert.Equal(t, accountData.LastName, account.LastName)
	assert.Equal(t, accountData.Username, account.Username)
	assert.Equal(t, accountData.AcceptLanguage, account.AcceptLanguage)
	assert.Equal(t, accountData.CompanyName, account.CompanyName)

	// The server-assigned timestamp survives serialization and sits inside
	// the call's wall-clock window.
	createdAt, ok := account.CreatedAt.Get()
	require.True(t, ok)
	assert.WithinDuration(t, creationTime, createdAt, 2*time.Minute)

	retrievedAccounts, err := client.GetAccounts(ctx, transport.PageOptions{})
	require.NoError(t, err)
	assert.Greater(t, len(retrievedAccounts.Items), 0)

	retrievedAccount, err := client.GetAccount(ctx, account.AccountCode)
	require.NoError(t, err)
	assert.Equal(t, account, retrievedAccount)

	billingInfoData := &model.BillingInfo{
		AccountCode:       account.AccountCode,
		FirstName:         wire.Some(randomCode()),
		LastName:          wire.Some(randomCode()),
		Number:            wire.Some("4111-1111-1111-1111"),
		VerificationValue: wire.Some(123),
		Month:             wire.Some(11),
		Year:              wire.Some(2015),
	}

	billingInfo, err := client.CreateOrUpdateBillingInfo(ctx, billingInfoData)
	require.NoError(t, err)
	require.NotNil(t, billingInfo)
	assert.Equal(t, billingInfoData.FirstName, billingInfo.FirstName)
	assert.Equal(t, billingInfoData.LastName, billingInfo.LastName)
	assert.Equal(t, billingInfoData.Month, billingInfo.Month)
	assert.Equal(t, billingInfoData.Year, billingInfo.Year)
	assert.Equal(t, wire.Some("Visa"), billingInfo.CardType)

	retrievedBillingInfo, err := client.GetBillingInfo(ctx, account.AccountCode)
	require.NoError(t, err)
	assert.Equal(t, billingInfo, retrievedBillingInfo)
}

func TestCreatePlanFlow(t *testing.T) {
	client := newOpenClient(t)
	ctx := context.Background()

	plan := &model.Plan{
		PlanCode:          "P1",
		Name:              randomCode(),
		SetupFeeInCents:   wire.CurrencyAmount{"EUR": 1200},
		UnitAmountInCents: wire.CurrencyAmount{"EUR": 1200},
	}

	creationTime := time.Now().UTC()
	_, err := client.CreatePlan(ctx, plan)
	require.NoError(t, err)

	plans, err := client.GetPlans(ctx, transport.PageOptions{})
	require.NoError(t, err)
	assert.Greater(t, len(plans.Items), 0)

	retrievedPlan, err := client.GetPlan(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, plan.PlanCode, retrievedPlan.PlanCode)
	assert.Equal(t, plan.Name, retrievedPlan.Name)
	assert.Equal(t, wire.CurrencyAmount{"EUR": 1200}, retrievedPlan.UnitAmountInCents)
	assert.Equal(t, wire.CurrencyAmount{"EUR": 1200}, retrievedPlan.SetupFeeInCents)

	createdAt, ok := retrievedPlan.CreatedAt.Get()
	require.True(t, ok)
	assert.WithinDuration(t, creationTime, createdAt, 2*time.Minute)
}

func TestCreatePlanRequiresCurrency(t *testing.T) {
	client := newOpenClient(t)

	_, err := client.CreatePlan(context.Background(), &model.Plan{PlanCode: "P1", Name: "One"})
	var usageErr *rebill.UsageError
	require.ErrorAs(t, err, &usageErr)
}

func TestDuplicateAccountIsProviderFault(t *testing.T) {
	client := newOpenClient(t)
	ctx := context.Background()

	account := &model.Account{AccountCode: "dup"}
	_, err := client.CreateAccount(ctx, account)
	require.NoError(t, err)

	_, err = client.CreateAccount(ctx, &model.Account{AccountCode: "dup"})
	var fault *transport.ProviderFault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, 422, fault.StatusCode)
	assert.Equal(t, "taken", fault.Symbol)
	assert.NotEmpty(t, fault.Description)
}

func TestMissingAccountIsProviderFault(t *testing.T) {
	client := newOpenClient(t)

	_, err := client.GetAccount(context.Background(), "nope")
	var fault *transport.ProviderFault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, 404, fault.StatusCode)
	assert.Equal(t, "not_found", fault.Symbol)
}

func TestBillingInfoUpsertReplaces(t *testing.T) {
	client := newOpenClient(t)
	ctx := context.Background()

	_, err := client.CreateAccount(ctx, &model.Account{AccountCode: "a1"})
	require.NoError(t, err)

	first := &model.BillingInfo{AccountCode: "a1", Number: wire.Some("4111-1111-1111-1111")}
	created, err := client.CreateOrUpdateBillingInfo(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, wire.Some("Visa"), created.CardType)

	// Same endpoint, second call replaces: the provider decides create
	// versus replace from its existing state.
	second := &model.BillingInfo{AccountCode: "a1", Number: wire.Some("5105-1051-0510-5100")}
	replaced, err := client.CreateOrUpdateBillingInfo(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, wire.Some("MasterCard"), replaced.CardType)

	current, err := client.GetBillingInfo(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, wire.Some("MasterCard"), current.CardType)
}

func TestSubscriptionFlow(t *testing.T) {
	client := newOpenClient(t)
	ctx := context.Background()

	_, err := client.CreateAccount(ctx, &model.Account{AccountCode: "a1"})
	require.NoError(t, err)
	_, err = client.CreatePlan(ctx, &model.Plan{
		PlanCode:          "gold",
		Name:              "Gold",
		UnitAmountInCents: wire.CurrencyAmount{"EUR": 1200},
	})
	require.NoError(t, err)

	created, err := client.CreateSubscription(ctx, &model.Subscription{
		PlanCode: "gold",
		Account:  &model.Account{AccountCode: "a1"},
		Quantity: wire.Some(2),
		Currency: wire.Some("EUR"),
	})
	require.NoError(t, err)
	assert.True(t, created.UUID.Present())
	assert.Equal(t, wire.Some("active"), created.State)
	assert.True(t, created.ActivatedAt.Present())

	retrieved, err := client.GetSubscription(ctx, created.UUID.OrZero())
	require.NoError(t, err)
	assert.Equal(t, created.UUID, retrieved.UUID)
	assert.Equal(t, "gold", retrieved.PlanCode)
	require.NotNil(t, retrieved.Account)
	assert.Equal(t, "a1", retrieved.Account.AccountCode)
}

func TestConcurrentOperations(t *testing.T) {
	client := newOpenClient(t)
	ctx := context.Background()

	done := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func(n int) {
			_, err := client.CreateAccount(ctx, &model.Account{AccountCode: randomCode()})
			done <- err
		}(i)
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, <-done)
	}

	accounts, err := client.GetAccounts(ctx, transport.PageOptions{PerPage: 100})
	require.NoError(t, err)
	assert.Len(t, accounts.Items, 10)
}

func TestBadCredentialIsProviderFault(t *testing.T) {
	server := rebilltest.NewServer(testAPIKey)
	t.Cleanup(server.Close)

	client, err := rebill.NewClient("wrong-key", rebill.WithBaseURL(server.BaseURL()))
	require.NoError(t, err)
	require.NoError(t, client.Open())
	t.Cleanup(func() { client.Close() })

	_, err = client.GetAccount(context.Background(), "a1")
	var fault *transport.ProviderFault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, 401, fault.StatusCode)
	assert.Equal(t, "unauthorized", fault.Symbol)
}
