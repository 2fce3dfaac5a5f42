// Package policy holds the platform's pricing, admission and withdrawal constants.
package policy

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/crownhub/crowns-be/internal/models"
)

// Policy groups the values that govern admission and crown accounting.
type Policy struct {
	Capacity                   int
	PriceMultiplier            decimal.Decimal
	FeeMultiplier              decimal.Decimal
	PayoutMultiplier           decimal.Decimal
	WithdrawalPenaltyThreshold int64
	WithdrawalPenaltyRate      decimal.Decimal
}

// Default returns the launch values: 500 creators, 1.5/0.5/1.0 USD per crown and a 50%
// penalty below one million crowns.
func Default() Policy {
	return Policy{
		Capacity:                   500,
		PriceMultiplier:            decimal.RequireFromString("1.5"),
		FeeMultiplier:              decimal.RequireFromString("0.5"),
		PayoutMultiplier:           decimal.RequireFromString("1.0"),
		WithdrawalPenaltyThreshold: 1_000_000,
		WithdrawalPenaltyRate:      decimal.RequireFromString("0.5"),
	}
}

// Parse builds a Policy from textual multipliers, as read from the environment.
func Parse(capacity int, price, fee, payout string, threshold int64, rate string) (Policy, error) {
	p := Policy{Capacity: capacity, WithdrawalPenaltyThreshold: threshold}
	fields := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"price multiplier", price, &p.PriceMultiplier},
		{"fee multiplier", fee, &p.FeeMultiplier},
		{"payout multiplier", payout, &p.PayoutMultiplier},
		{"withdrawal penalty rate", rate, &p.WithdrawalPenaltyRate},
	}
	for _, f := range fields {
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return Policy{}, fmt.Errorf("parse %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = d
	}
	return p, p.Validate()
}

// Validate rejects values that would break the balance invariants.
func (p Policy) Validate() error {
	switch {
	case p.Capacity < 0:
		return errors.New("capacity must not be negative")
	case p.PriceMultiplier.IsNegative(), p.FeeMultiplier.IsNegative(), p.PayoutMultiplier.IsNegative():
		return errors.New("multipliers must not be negative")
	case p.WithdrawalPenaltyThreshold < 0:
		return errors.New("withdrawal penalty threshold must not be negative")
	case p.WithdrawalPenaltyRate.IsNegative() || p.WithdrawalPenaltyRate.GreaterThan(decimal.NewFromInt(1)):
		return errors.New("withdrawal penalty rate must be between 0 and 1")
	}
	return nil
}

// AdmissionStatus is the status a new creator gets when activeCreators are already active.
func (p Policy) AdmissionStatus(activeCreators int) string {
	if activeCreators < p.Capacity {
		return models.StatusPending
	}
	return models.StatusWaitingList
}

// Quote is the money side of a crown purchase.
type Quote struct {
	Price       decimal.Decimal
	PlatformFee decimal.Decimal
	CreatorPay  decimal.Decimal
}

// Quote prices a purchase of crowns.
func (p Policy) Quote(crowns int64) Quote {
	n := decimal.NewFromInt(crowns)
	return Quote{
		Price:       n.Mul(p.PriceMultiplier),
		PlatformFee: n.Mul(p.FeeMultiplier),
		CreatorPay:  n.Mul(p.PayoutMultiplier),
	}
}

// Penalty returns the crowns withheld when withdrawing balance, and what remains.
func (p Policy) Penalty(balance int64) (penalty, final int64) {
	if balance >= p.WithdrawalPenaltyThreshold {
		return 0, balance
	}
	penalty = decimal.NewFromInt(balance).Mul(p.WithdrawalPenaltyRate).Floor().IntPart()
	return penalty, balance - penalty
}

// Progress is the leaderboard milestone percentage: one point per 10,000 crowns, capped at 100.
func Progress(crowns int64) int {
	pct := decimal.NewFromInt(crowns).Div(decimal.NewFromInt(10_000)).Round(0).IntPart()
	if pct > 100 {
		return 100
	}
	return int(pct)
}
