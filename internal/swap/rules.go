package swap

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrAmountRequired = errors.New("amount is required")

// Rule validates a session and returns a user-facing error, nil when it passes.
type Rule func(s Session) error

func RequiredAmount(s Session) error {
	if s.From.Value == "" {
		return ErrAmountRequired
	}
	return nil
}

// MaxBalance rejects source amounts above balance; the balance itself is allowed.
func MaxBalance(balance decimal.Decimal) Rule {
	return func(s Session) error {
		if s.From.Value == "" {
			return nil
		}
		amount, err := decimal.NewFromString(s.From.Value)
		if err != nil {
			return err
		}
		if amount.GreaterThan(balance) {
			return fmt.Errorf("insufficient balance: enter value less or equal to %s %s",
				balance.Truncate(s.From.Decimals).String(), s.SourceCurrency)
		}
		return nil
	}
}

// Validate runs every rule and collects the messages of the failing ones.
func Validate(s Session, rules []Rule) []string {
	var msgs []string
	for _, rule := range rules {
		if err := rule(s); err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	return msgs
}
