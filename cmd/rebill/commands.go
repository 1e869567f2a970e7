package main

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"time"

	"github.com/platinummonkey/rebill/pkg/config"
	"github.com/platinummonkey/rebill/pkg/model"
	"github.com/platinummonkey/rebill/pkg/rebill"
	"github.com/platinummonkey/rebill/pkg/transport"
	"github.com/platinummonkey/rebill/pkg/wire"
)

// Command represents a CLI command
type Command struct {
	Name        string
	Description string
	Run         func(args []string) error
	Subcommands map[string]*Command
	Flags       *flag.FlagSet
}

// newRootCommand creates the root command
func newRootCommand() *Command {
	root := &Command{
		Name:        "rebill",
		Description: "rebill - billing API command line client",
		Subcommands: make(map[string]*Command),
		Flags:       flag.NewFlagSet("rebill", flag.ExitOnError),
	}

	root.Subcommands["create-account"] = newCreateAccountCommand()
	root.Subcommands["get-account"] = newGetAccountCommand()
	root.Subcommands["list-accounts"] = newListAccountsCommand()
	root.Subcommands["create-plan"] = newCreatePlanCommand()
	root.Subcommands["get-plan"] = newGetPlanCommand()
	root.Subcommands["list-plans"] = newListPlansCommand()

	return root
}

// Execute runs the command
func (c *Command) Execute(args []string) error {
	if len(args) == 0 {
		return c.usage()
	}

	if args[0] == "-h" || args[0] == "--help" {
		return c.usage()
	}

	if subcmd, ok := c.Subcommands[args[0]]; ok {
		return subcmd.Run(args[1:])
	}

	return fmt.Errorf("unknown command: %s", args[0])
}

// usage prints the command usage
func (c *Command) usage() error {
	fmt.Printf("Usage: %s <command> [args]\n\n", c.Name)
	fmt.Printf("Commands:\n")
	names := make([]string, 0, len(c.Subcommands))
	for name := range c.Subcommands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-16s %s\n", name, c.Subcommands[name].Description)
	}
	return nil
}

// withClient loads configuration, opens a client and runs fn against it.
func withClient(fn func(ctx context.Context, client *rebill.Client) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client, err := rebill.NewClient(cfg.APIKey,
		rebill.WithBaseURL(cfg.BaseURL),
		rebill.WithLogger(cfg.Logger()),
		rebill.WithHTTPExecutor(newHTTPExecutor(cfg)),
	)
	if err != nil {
		return err
	}
	if err := client.Open(); err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	return fn(ctx, client)
}

func newHTTPExecutor(cfg *config.Config) transport.HTTPExecutor {
	opts := []transport.StockOption{transport.WithTimeout(cfg.Timeout)}
	if cfg.OTelEnabled {
		opts = append(opts, transport.WithInstrumentation())
	}
	return transport.NewStockExecutor(opts...)
}

func newCreateAccountCommand() *Command {
	cmd := &Command{
		Name:        "create-account",
		Description: "Create a new account",
		Flags:       flag.NewFlagSet("create-account", flag.ExitOnError),
	}

	code := cmd.Flags.String("code", "", "Account code (required)")
	email := cmd.Flags.String("email", "", "Email address")
	firstName := cmd.Flags.String("first-name", "", "First name")
	lastName := cmd.Flags.String("last-name", "", "Last name")
	company := cmd.Flags.String("company", "", "Company name")

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		account := &model.Account{AccountCode: *code}
		if *email != "" {
			account.Email.Set(*email)
		}
		if *firstName != "" {
			account.FirstName.Set(*firstName)
		}
		if *lastName != "" {
			account.LastName.Set(*lastName)
		}
		if *company != "" {
			account.CompanyName.Set(*company)
		}

		return withClient(func(ctx context.Context, client *rebill.Client) error {
			created, err := client.CreateAccount(ctx, account)
			if err != nil {
				return err
			}
			printAccount(created)
			return nil
		})
	}
	return cmd
}

func newGetAccountCommand() *Command {
	cmd := &Command{
		Name:        "get-account",
		Description: "Fetch an account by code",
		Flags:       flag.NewFlagSet("get-account", flag.ExitOnError),
	}

	code := cmd.Flags.String("code", "", "Account code (required)")

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		return withClient(func(ctx context.Context, client *rebill.Client) error {
			account, err := client.GetAccount(ctx, *code)
			if err != nil {
				return err
			}
			printAccount(account)
			return nil
		})
	}
	return cmd
}

func newListAccountsCommand() *Command {
	cmd := &Command{
		Name:        "list-accounts",
		Description: "List one page of accounts",
		Flags:       flag.NewFlagSet("list-accounts", flag.ExitOnError),
	}

	perPage := cmd.Flags.Int("per-page", 0, "Page size")
	pageNum := cmd.Flags.Int("page", 0, "Page number")

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		return withClient(func(ctx context.Context, client *rebill.Client) error {
			accounts, err := client.GetAccounts(ctx, transport.PageOptions{PerPage: *perPage, Page: *pageNum})
			if err != nil {
				return err
			}
			for _, account := range accounts.Items {
				printAccount(account)
			}
			fmt.Printf("%d account(s)\n", len(accounts.Items))
			return nil
		})
	}
	return cmd
}

func newCreatePlanCommand() *Command {
	cmd := &Command{
		Name:        "create-plan",
		Description: "Create a new plan",
		Flags:       flag.NewFlagSet("create-plan", flag.ExitOnError),
	}

	code := cmd.Flags.String("code", "", "Plan code (required)")
	name := cmd.Flags.String("name", "", "Plan name (required)")
	currency := cmd.Flags.String("currency", "USD", "Currency code for the unit amount")
	amount := cmd.Flags.Int("amount", 0, "Unit amount in cents")
	setupFee := cmd.Flags.Int("setup-fee", 0, "Setup fee in cents")

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		plan := &model.Plan{
			PlanCode:          *code,
			Name:              *name,
			UnitAmountInCents: wire.CurrencyAmount{*currency: *amount},
		}
		if *setupFee > 0 {
			plan.SetupFeeInCents = wire.CurrencyAmount{*currency: *setupFee}
		}

		return withClient(func(ctx context.Context, client *rebill.Client) error {
			created, err := client.CreatePlan(ctx, plan)
			if err != nil {
				return err
			}
			printPlan(created)
			return nil
		})
	}
	return cmd
}

func newGetPlanCommand() *Command {
	cmd := &Command{
		Name:        "get-plan",
		Description: "Fetch a plan by code",
		Flags:       flag.NewFlagSet("get-plan", flag.ExitOnError),
	}

	code := cmd.Flags.String("code", "", "Plan code (required)")

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		return withClient(func(ctx context.Context, client *rebill.Client) error {
			plan, err := client.GetPlan(ctx, *code)
			if err != nil {
				return err
			}
			printPlan(plan)
			return nil
		})
	}
	return cmd
}

func newListPlansCommand() *Command {
	cmd := &Command{
		Name:        "list-plans",
		Description: "List one page of plans",
		Flags:       flag.NewFlagSet("list-plans", flag.ExitOnError),
	}

	perPage := cmd.Flags.Int("per-page", 0, "Page size")
	pageNum := cmd.Flags.Int("page", 0, "Page number")

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		return withClient(func(ctx context.Context, client *rebill.Client) error {
			plans, err := client.GetPlans(ctx, transport.PageOptions{PerPage: *perPage, Page: *pageNum})
			if err != nil {
				return err
			}
			for _, plan := range plans.Items {
				printPlan(plan)
			}
			fmt.Printf("%d plan(s)\n", len(plans.Items))
			return nil
		})
	}
	return cmd
}

func printAccount(a *model.Account) {
	fmt.Printf("account %s", a.AccountCode)
	if email, ok := a.Email.Get(); ok {
		fmt.Printf("  email=%s", email)
	}
	if createdAt, ok := a.CreatedAt.Get(); ok {
		fmt.Printf("  created=%s", createdAt.Format(time.RFC3339))
	}
	fmt.Println()
}

func printPlan(p *model.Plan) {
	fmt.Printf("plan %s  name=%q", p.PlanCode, p.Name)
	codes := make([]string, 0, len(p.UnitAmountInCents))
	for code := range p.UnitAmountInCents {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		fmt.Printf("  %s=%d", code, p.UnitAmountInCents[code])
	}
	if createdAt, ok := p.CreatedAt.Get(); ok {
		fmt.Printf("  created=%s", createdAt.Format(time.RFC3339))
	}
	fmt.Println()
}
