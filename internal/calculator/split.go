package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetly/internal/models"
)

// MaxAmount is the largest amount accepted for an expense or a share.
// Cent values up to it are exact in a float64.
const MaxAmount = 1e12

var (
	ErrNoBeneficiaries   = errors.New("must have at least one beneficiary")
	ErrNegativeAmount    = errors.New("amount cannot be negative")
	ErrAmountOutOfRange  = errors.New("amount out of range")
	ErrSplitsExceedTotal = errors.New("splits exceed the expense amount")
)

// checkAmount rejects negative, non-finite and oversized amounts.
func checkAmount(amount float64) error {
	switch {
	case math.IsNaN(amount) || math.IsInf(amount, 0) || amount > MaxAmount:
		return fmt.Errorf("%w: %v", ErrAmountOutOfRange, amount)
	case amount < 0:
		return ErrNegativeAmount
	}
	return nil
}

// SplitEqually divides amount between the beneficiaries in whole cents.
// Leftover cents go to the first beneficiaries, one each, so the shares always
// add up to the amount. Duplicate beneficiaries are counted once.
func SplitEqually(amount float64, beneficiaries []string) ([]models.GroupExpenseSplit, error) {
	if err := checkAmount(amount); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(beneficiaries))
	var users []string
	for _, id := range beneficiaries {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		users = append(users, id)
	}
	if len(users) == 0 {
		return nil, ErrNoBeneficiaries
	}

	shifted := decimal.NewFromFloat(amount).Shift(2).Round(0)
	if !shifted.BigInt().IsInt64() {
		return nil, fmt.Errorf("%w: %v", ErrAmountOutOfRange, amount)
	}
	cents := shifted.IntPart()
	n := int64(len(users))
	per := cents / n
	remainder := cents % n

	splits := make([]models.GroupExpenseSplit, len(users))
	for i, id := range users {
		share := per
		if int64(i) < remainder {
			share++
		}
		splits[i] = models.GroupExpenseSplit{
			UserID:      id,
			ShareAmount: decimal.New(share, -2).InexactFloat64(),
		}
	}

	return splits, nil
}

// ValidateSplits checks that every share is a finite non-negative amount and that the shares
// do not add up to more than the expense amount (within a cent).
func ValidateSplits(amount float64, splits []models.GroupExpenseSplit) error {
	if err := checkAmount(amount); err != nil {
		return err
	}

	total := decimal.Zero
	for _, s := range splits {
		if s.UserID == "" {
			return fmt.Errorf("split without user_id")
		}
		if err := checkAmount(s.ShareAmount); err != nil {
			return fmt.Errorf("share for %s: %w", s.UserID, err)
		}
		total = total.Add(decimal.NewFromFloat(s.ShareAmount))
	}

	limit := decimal.NewFromFloat(amount).Add(decimal.New(1, -2))
	if total.GreaterThan(limit) {
		return fmt.Errorf("%w: %s > %s", ErrSplitsExceedTotal, total.StringFixed(2), decimal.NewFromFloat(amount).StringFixed(2))
	}
	return nil
}
