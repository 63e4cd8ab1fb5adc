package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"budgetapp/internal/amqp"
	"budgetapp/internal/backend"
	"budgetapp/internal/budget"
	"budgetapp/internal/cli"
	"budgetapp/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger().WithComponent(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateStore(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	// AMQP is optional: without it the spreadsheet mirror simply is not fed.
	var notifier budget.CommitNotifier
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
		} else {
			defer amqpClient.Close()
			notifier = amqpClient
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	service := budget.NewService(result.Store, notifier)
	prompter := cli.NewPrompter(os.Stdin, os.Stdout)

	if err := run(ctx, service, prompter); err != nil {
		logger.Error("Session ended with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, service *budget.Service, p *cli.Prompter) error {
	overview, err := service.Overview(ctx)
	if err != nil {
		return fmt.Errorf("load budget: %w", err)
	}
	p.Printf("Welcome back. Budgeted total: %s\n", overview.Total)

	for {
		p.Printf("\n[i]ncome  [p]ayment  [t]ransfer  [r]ecent  [b]udget  [a]dd category  [d]elete category  [c]heck balance  [q]uit\n")
		choice, err := p.ReadLine("> ")
		if err != nil {
			return err
		}

		var opErr error
		switch choice {
		case "i":
			opErr = income(ctx, service, p)
		case "p":
			opErr = payment(ctx, service, p)
		case "t":
			opErr = transfer(ctx, service, p)
		case "r":
			opErr = recent(ctx, service, p)
		case "b":
			opErr = showBudget(ctx, service, p)
		case "a":
			opErr = addCategory(ctx, service, p)
		case "d":
			opErr = deleteCategory(ctx, service, p)
		case "c":
			opErr = reconcile(ctx, service, p)
		case "q":
			p.Printf("Bye.\n")
			return nil
		default:
			continue
		}

		switch {
		case opErr == nil:
		case errors.Is(opErr, cli.ErrAborted):
			p.Printf("Nothing changed.\n")
		default:
			p.Printf("error: %v\n", opErr)
		}
	}
}

func income(ctx context.Context, service *budget.Service, p *cli.Prompter) error {
	overview, err := service.Overview(ctx)
	if err != nil {
		return err
	}
	if len(overview.Categories) == 0 {
		p.Printf("No categories to delegate into; add one first.\n")
		return nil
	}
	amount, err := p.Money("income amount: ")
	if err != nil {
		return err
	}
	payer, err := p.String("from whom: ")
	if err != nil {
		return err
	}
	date, err := p.Date("date (DD-MM-YY, empty for today): ")
	if err != nil {
		return err
	}
	if err := service.Income(ctx, amount, payer, date, p.Allocator("income")); err != nil {
		return err
	}
	p.Printf("Income of %s recorded and delegated.\n", amount)
	return nil
}

func payment(ctx context.Context, service *budget.Service, p *cli.Prompter) error {
	overview, err := service.Overview(ctx)
	if err != nil {
		return err
	}
	if len(overview.Categories) == 0 {
		p.Printf("No categories yet; add one first.\n")
		return nil
	}
	amount, err := p.Money("payment amount: ")
	if err != nil {
		return err
	}
	counterparty, err := p.String("to whom: ")
	if err != nil {
		return err
	}
	date, err := p.Date("date (DD-MM-YY, empty for today): ")
	if err != nil {
		return err
	}
	p.PrintCategories(overview.Categories)
	ordinal, err := p.Ordinal("pay from category number (q to abort): ", len(overview.Categories))
	if err != nil {
		return err
	}
	if err := service.Spend(ctx, amount, counterparty, date, ordinal); err != nil {
		return err
	}
	p.Printf("Payment of %s to %s recorded.\n", amount, counterparty)
	return nil
}

func transfer(ctx context.Context, service *budget.Service, p *cli.Prompter) error {
	overview, err := service.Overview(ctx)
	if err != nil {
		return err
	}
	if len(overview.Categories) < 2 {
		p.Printf("Transfers need at least two categories.\n")
		return nil
	}
	p.PrintCategories(overview.Categories)
	from, err := p.Ordinal("move from category number (q to abort): ", len(overview.Categories))
	if err != nil {
		return err
	}
	to, err := p.Ordinal("move to category number (q to abort): ", len(overview.Categories))
	if err != nil {
		return err
	}
	amount, err := p.Money("amount to move: ")
	if err != nil {
		return err
	}
	if err := service.Transfer(ctx, from, to, amount); err != nil {
		return err
	}
	p.Printf("Moved %s.\n", amount)
	return nil
}

func recent(ctx context.Context, service *budget.Service, p *cli.Prompter) error {
	count, err := service.TransactionCount(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		p.Printf("No transactions yet.\n")
		return nil
	}
	n, err := p.Ordinal(fmt.Sprintf("how many (1-%d, q to abort): ", count), count)
	if err != nil {
		return err
	}
	txs, err := service.Recent(ctx, n)
	if err != nil {
		return err
	}
	for _, tx := range txs {
		p.Printf("  %s  %10s  %-20s %s\n", tx.Date, tx.Amount, tx.Counterparty, tx.Category)
	}
	return nil
}

func showBudget(ctx context.Context, service *budget.Service, p *cli.Prompter) error {
	overview, err := service.Overview(ctx)
	if err != nil {
		return err
	}
	p.PrintCategories(overview.Categories)
	p.Printf("  total: %s\n", overview.Total)
	return nil
}

func addCategory(ctx context.Context, service *budget.Service, p *cli.Prompter) error {
	name, err := p.String("new category name: ")
	if err != nil {
		return err
	}
	if err := service.AddCategory(ctx, name); err != nil {
		return err
	}
	p.Printf("Category %q added.\n", name)
	return nil
}

func deleteCategory(ctx context.Context, service *budget.Service, p *cli.Prompter) error {
	overview, err := service.Overview(ctx)
	if err != nil {
		return err
	}
	if len(overview.Categories) == 0 {
		p.Printf("No categories to delete.\n")
		return nil
	}
	p.PrintCategories(overview.Categories)
	ordinal, err := p.Ordinal("delete category number (q to abort): ", len(overview.Categories))
	if err != nil {
		return err
	}
	name := overview.Categories[ordinal-1].Name
	balance := overview.Categories[ordinal-1].Balance
	if !balance.IsZero() {
		p.Printf("%q still holds %s; redistribute it first.\n", name, balance)
	}
	if err := service.DeleteCategory(ctx, ordinal, p.Allocator("redistribution")); err != nil {
		return err
	}
	p.Printf("Category %q deleted.\n", name)
	return nil
}

func reconcile(ctx context.Context, service *budget.Service, p *cli.Prompter) error {
	overview, err := service.Overview(ctx)
	if err != nil {
		return err
	}
	if len(overview.Categories) == 0 {
		p.Printf("No categories to reconcile against; add one first.\n")
		return nil
	}
	reported, err := p.Money("bank balance as reported: ")
	if err != nil {
		return err
	}
	res, err := service.Reconcile(ctx, reported, p.Allocator("surplus"), p.WithdrawalAllocator())
	if err != nil {
		return err
	}
	switch {
	case res.Surplus.IsZero():
		p.Printf("Balances already match at %s.\n", res.Reported)
	case res.Surplus.IsPositive():
		p.Printf("Surplus of %s delegated; budget now matches the bank.\n", res.Surplus)
	default:
		p.Printf("Deficit of %s withdrawn; budget now matches the bank.\n", res.Surplus.Neg())
	}
	return nil
}
