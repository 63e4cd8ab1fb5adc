package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"budgetapp/internal/budget"
	"budgetapp/internal/core"
)

// ErrAborted is returned when the user backs out of an operation. The budget
// service discards the staged snapshot, so an aborted operation writes nothing.
var ErrAborted = errors.New("aborted by user")

// Prompter reads interactive input line by line. Invalid input is re-asked
// rather than failing the surrounding operation; only an explicit "q" aborts.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// ReadLine prints the prompt and returns one trimmed input line.
func (p *Prompter) ReadLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// String re-asks until a non-empty line arrives; "q" aborts.
func (p *Prompter) String(prompt string) (string, error) {
	for {
		line, err := p.ReadLine(prompt)
		if err != nil {
			return "", err
		}
		if line == "q" {
			return "", ErrAborted
		}
		if line != "" {
			return line, nil
		}
	}
}

// Money re-asks until a positive decimal amount arrives; "q" aborts.
func (p *Prompter) Money(prompt string) (core.Money, error) {
	for {
		line, err := p.ReadLine(prompt)
		if err != nil {
			return core.Money{}, err
		}
		if line == "q" {
			return core.Money{}, ErrAborted
		}
		amount, err := core.ParseMoney(line)
		if err != nil {
			p.Printf("invalid amount %q, use e.g. 12.50\n", line)
			continue
		}
		return amount, nil
	}
}

// Date re-asks until a DD-MM-YY date arrives; an empty line means today.
func (p *Prompter) Date(prompt string) (core.Date, error) {
	for {
		line, err := p.ReadLine(prompt)
		if err != nil {
			return core.Date{}, err
		}
		if line == "q" {
			return core.Date{}, ErrAborted
		}
		if line == "" {
			return core.Today(), nil
		}
		date, err := core.ParseDate(line)
		if err != nil {
			p.Printf("invalid date %q, use DD-MM-YY\n", line)
			continue
		}
		return date, nil
	}
}

// Ordinal re-asks until a number between 1 and max arrives; "q" aborts.
func (p *Prompter) Ordinal(prompt string, max int) (int, error) {
	for {
		line, err := p.ReadLine(prompt)
		if err != nil {
			return 0, err
		}
		if line == "q" {
			return 0, ErrAborted
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > max {
			p.Printf("pick a number between 1 and %d\n", max)
			continue
		}
		return n, nil
	}
}

// PrintCategories lists the categories with their ordinals and balances.
func (p *Prompter) PrintCategories(categories []budget.Category) {
	for i, cat := range categories {
		p.Printf("  %2d. %-20s %10s\n", i+1, cat.Name, cat.Balance)
	}
}

// Allocator returns an interactive allocation step: show the pool and the
// categories, ask which one gets how much. Entering "a" as the amount assigns
// everything still remaining; "q" aborts the whole operation.
func (p *Prompter) Allocator(verb string) budget.Allocator {
	return budget.AllocatorFunc(func(ctx context.Context, remaining core.Money, categories []budget.Category) (int, core.Money, error) {
		if err := ctx.Err(); err != nil {
			return 0, core.Money{}, err
		}
		p.Printf("\n%s remaining: %s\n", verb, remaining)
		p.PrintCategories(categories)

		ordinal, err := p.Ordinal("category number (q to abort): ", len(categories))
		if err != nil {
			return 0, core.Money{}, err
		}

		for {
			line, err := p.ReadLine(fmt.Sprintf("amount for %q (a for all %s, q to abort): ", categories[ordinal-1].Name, remaining))
			if err != nil {
				return 0, core.Money{}, err
			}
			switch line {
			case "q":
				return 0, core.Money{}, ErrAborted
			case "a", "":
				return ordinal, remaining, nil
			}
			amount, err := core.ParseMoney(line)
			if err != nil {
				p.Printf("invalid amount %q, use e.g. 12.50\n", line)
				continue
			}
			if amount.GreaterThan(remaining) {
				p.Printf("only %s remaining\n", remaining)
				continue
			}
			return ordinal, amount, nil
		}
	})
}

// WithdrawalAllocator mirrors Allocator for reconciliation deficits: the
// chosen amount is additionally bounded by the category's own balance.
func (p *Prompter) WithdrawalAllocator() budget.Allocator {
	return budget.AllocatorFunc(func(ctx context.Context, remaining core.Money, categories []budget.Category) (int, core.Money, error) {
		if err := ctx.Err(); err != nil {
			return 0, core.Money{}, err
		}
		p.Printf("\ndeficit remaining: %s\n", remaining)
		p.PrintCategories(categories)

		var ordinal int
		var limit core.Money
		for {
			var err error
			ordinal, err = p.Ordinal("take from category number (q to abort): ", len(categories))
			if err != nil {
				return 0, core.Money{}, err
			}
			balance := categories[ordinal-1].Balance
			limit = remaining
			if balance.Pence < limit.Pence {
				limit = balance
			}
			if limit.IsPositive() {
				break
			}
			p.Printf("%q has nothing left to take\n", categories[ordinal-1].Name)
		}

		for {
			line, err := p.ReadLine(fmt.Sprintf("amount from %q (up to %s, q to abort): ", categories[ordinal-1].Name, limit))
			if err != nil {
				return 0, core.Money{}, err
			}
			switch line {
			case "q":
				return 0, core.Money{}, ErrAborted
			case "a", "":
				return ordinal, limit, nil
			}
			amount, err := core.ParseMoney(line)
			if err != nil {
				p.Printf("invalid amount %q, use e.g. 12.50\n", line)
				continue
			}
			if amount.GreaterThan(limit) {
				p.Printf("at most %s can come from here\n", limit)
				continue
			}
			return ordinal, amount, nil
		}
	})
}
