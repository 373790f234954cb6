package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/cardfolio/cardfolio-backend/internal/domain"
)

// Metrics is the full derived-value set for one holding. All amounts stay
// at full decimal precision: rounding happens only at presentation time,
// never mid-calculation.
type Metrics struct {
	TotalQuantity     int64
	SoldQuantity      int64
	RemainingQuantity int64
	AverageCost       decimal.Decimal
	TotalCost         decimal.Decimal
	CurrentValue      decimal.Decimal // currentEstimate x remaining quantity
	RealizedPnL       decimal.Decimal
	UnrealizedPnL     decimal.Decimal
	TotalPnL          decimal.Decimal
	TotalPnLPct       decimal.Decimal // 0 when cost basis is 0, never NaN/Inf
}

// Performance identifies a holding and its percentage return, used for
// best/worst performer in the portfolio summary.
type Performance struct {
	HoldingID   string
	Name        string
	TotalPnLPct decimal.Decimal
}

// Summary aggregates metrics across a whole portfolio
type Summary struct {
	TotalCost         decimal.Decimal
	TotalCurrentValue decimal.Decimal
	TotalRealizedPnL  decimal.Decimal
	TotalPnL          decimal.Decimal
	TotalPnLPct       decimal.Decimal
	BestPerformer     *Performance
	WorstPerformer    *Performance
}

var hundred = decimal.NewFromInt(100)

// ComputeHoldingMetrics derives all valuation figures for a holding.
// Pure function of its input: no side effects, same holding in means
// identical metrics out.
//
// Realized P&L is booked against the weighted-average cost of the
// currently-present lots, recomputed at call time. Unrealized P&L marks
// the remaining unsold quantity to the manually-maintained estimate.
func ComputeHoldingMetrics(h *domain.Holding) Metrics {
	m := Metrics{
		TotalQuantity: h.TotalQuantity(),
		SoldQuantity:  h.SoldQuantity(),
		AverageCost:   h.AverageCost(),
		TotalCost:     h.TotalCost(),
		CurrentValue:  decimal.Zero,
		RealizedPnL:   decimal.Zero,
		UnrealizedPnL: decimal.Zero,
		TotalPnL:      decimal.Zero,
		TotalPnLPct:   decimal.Zero,
	}
	m.RemainingQuantity = m.TotalQuantity - m.SoldQuantity

	// realized = sum of net proceeds - average cost x sold quantity
	netProceeds := decimal.Zero
	for _, sale := range h.Sales {
		netProceeds = netProceeds.Add(sale.Net)
	}
	if m.SoldQuantity > 0 {
		m.RealizedPnL = netProceeds.Sub(m.AverageCost.Mul(decimal.NewFromInt(m.SoldQuantity)))
	}

	// unrealized marks only the unsold remainder, so sold units are never
	// counted twice
	if m.RemainingQuantity > 0 {
		remaining := decimal.NewFromInt(m.RemainingQuantity)
		m.CurrentValue = h.CurrentEstimate.Mul(remaining)
		m.UnrealizedPnL = h.CurrentEstimate.Sub(m.AverageCost).Mul(remaining)
	}

	m.TotalPnL = m.RealizedPnL.Add(m.UnrealizedPnL)
	if m.TotalCost.IsPositive() {
		m.TotalPnLPct = m.TotalPnL.Div(m.TotalCost).Mul(hundred)
	}

	return m
}

// ComputePortfolioSummary aggregates metrics across holdings.
// Current value covers only still-held quantity; the sold portion enters
// through realized P&L. Best/worst performer ties break to the holding
// encountered first in input order.
func ComputePortfolioSummary(holdings []*domain.Holding) Summary {
	s := Summary{
		TotalCost:         decimal.Zero,
		TotalCurrentValue: decimal.Zero,
		TotalRealizedPnL:  decimal.Zero,
		TotalPnL:          decimal.Zero,
		TotalPnLPct:       decimal.Zero,
	}

	for _, h := range holdings {
		m := ComputeHoldingMetrics(h)
		s.TotalCost = s.TotalCost.Add(m.TotalCost)
		s.TotalCurrentValue = s.TotalCurrentValue.Add(m.CurrentValue)
		s.TotalRealizedPnL = s.TotalRealizedPnL.Add(m.RealizedPnL)
		s.TotalPnL = s.TotalPnL.Add(m.TotalPnL)

		perf := &Performance{
			HoldingID:   h.ID.String(),
			Name:        h.Name,
			TotalPnLPct: m.TotalPnLPct,
		}
		if s.BestPerformer == nil || perf.TotalPnLPct.GreaterThan(s.BestPerformer.TotalPnLPct) {
			s.BestPerformer = perf
		}
		if s.WorstPerformer == nil || perf.TotalPnLPct.LessThan(s.WorstPerformer.TotalPnLPct) {
			s.WorstPerformer = perf
		}
	}

	if s.TotalCost.IsPositive() {
		s.TotalPnLPct = s.TotalPnL.Div(s.TotalCost).Mul(hundred)
	}

	return s
}
