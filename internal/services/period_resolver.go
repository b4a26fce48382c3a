package services

import (
	"sort"
	"time"

	"envel/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// periodResolver computes which budget amount and usage total apply to an
// envelope for a given calendar month. It is the single source of truth for
// that question: the dashboard, the envelope list, the envelope detail view
// and the shared-envelope views all resolve through it. Pure functions of
// their inputs; no I/O and no state.
type periodResolver struct{}

// NewPeriodResolver creates a new PeriodResolverInterface instance
func NewPeriodResolver() PeriodResolverInterface {
	return &periodResolver{}
}

// AmountAt returns the budget amount in effect at the given month-end
// boundary: the record with the latest effective date not exceeding the
// boundary. The ok result is false when every record is later than the
// boundary, meaning the envelope did not exist yet.
//
// The candidates are explicitly stable-sorted by effective date descending;
// result order never depends on insertion order.
func (r *periodResolver) AmountAt(amounts []models.Amount, monthEnd time.Time) (models.Amount, bool) {
	candidates := make([]models.Amount, 0, len(amounts))
	for _, amt := range amounts {
		if !amt.EffectiveDate.After(monthEnd) {
			candidates = append(candidates, amt)
		}
	}

	if len(candidates) == 0 {
		return models.Amount{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].EffectiveDate.After(candidates[j].EffectiveDate)
	})

	return candidates[0], true
}

// UsedFor returns the spend total recorded for the envelope in the given
// calendar month, or zero if no aggregate exists. Matching is by year and
// month number only; day-of-month on either side is irrelevant. Totals
// referencing other envelopes are never matched, so orphaned aggregates are
// silently ignored.
func (r *periodResolver) UsedFor(usedTotals []models.UsedTotal, envelopeID uuid.UUID, month time.Time) decimal.Decimal {
	for _, ut := range usedTotals {
		if ut.EnvelopeID == envelopeID && models.SameMonth(ut.Month, month) {
			return ut.Used
		}
	}
	return decimal.Zero
}

// Resolve produces the period summary for one envelope and one target month.
//
// Visibility policy, evaluated in order:
//  1. months before the envelope's earliest budget record are invisible
//     (the envelope did not exist yet);
//  2. recurring envelopes are visible in every month from creation onward,
//     even with zero usage;
//  3. one-off envelopes are visible only when the month has its own budget
//     record or nonzero usage, so a stale one-off budget line does not
//     clutter later months.
//
// Remaining may go negative; that signals overspend and is not clamped.
func (r *periodResolver) Resolve(envelope *models.Envelope, usedTotals []models.UsedTotal, month time.Time) models.PeriodSummary {
	monthStart := models.MonthStart(month)
	monthEnd := models.MonthEnd(month)

	summary := models.PeriodSummary{
		EnvelopeID: envelope.ID,
		Name:       envelope.Name,
		Amount:     decimal.Zero,
		Used:       decimal.Zero,
		Remaining:  decimal.Zero,
		Recurring:  envelope.Recurring,
	}

	effective, ok := r.AmountAt(envelope.Amounts, monthEnd)
	if !ok {
		// No amount at or before month-end: either the envelope has no
		// amounts at all or the month precedes its creation. Both degrade
		// to a zero-amount, invisible period rather than an error.
		return summary
	}

	used := r.UsedFor(usedTotals, envelope.ID, monthStart)

	summary.Amount = effective.Value
	summary.Used = used
	summary.Remaining = effective.Value.Sub(used)
	summary.PercentUsed = r.PercentOf(used, effective.Value)
	summary.EffectiveDate = effective.EffectiveDate
	summary.Visible = r.resolveVisibility(envelope, monthStart, used)

	return summary
}

func (r *periodResolver) resolveVisibility(envelope *models.Envelope, monthStart time.Time, used decimal.Decimal) bool {
	if envelope.Recurring {
		return true
	}

	for _, amt := range envelope.Amounts {
		if models.SameMonth(amt.EffectiveDate, monthStart) {
			return true
		}
	}

	return used.IsPositive()
}

// ResolveAll resolves every envelope for the target month and returns the
// visible summaries, in input order.
func (r *periodResolver) ResolveAll(envelopes []models.Envelope, usedTotals []models.UsedTotal, month time.Time) []models.PeriodSummary {
	summaries := make([]models.PeriodSummary, 0, len(envelopes))
	for i := range envelopes {
		summary := r.Resolve(&envelopes[i], usedTotals, month)
		if summary.Visible {
			summaries = append(summaries, summary)
		}
	}
	return summaries
}

// RollUp computes aggregate totals across the visible summaries of one month.
// Summation is order-independent and recomputed in full on every call.
func (r *periodResolver) RollUp(summaries []models.PeriodSummary) models.AggregateTotals {
	totals := models.AggregateTotals{
		TotalBudget:    decimal.Zero,
		TotalUsed:      decimal.Zero,
		TotalRemaining: decimal.Zero,
	}

	for i := range summaries {
		if !summaries[i].Visible {
			continue
		}
		totals.TotalBudget = totals.TotalBudget.Add(summaries[i].Amount)
		totals.TotalUsed = totals.TotalUsed.Add(summaries[i].Used)
	}

	totals.TotalRemaining = totals.TotalBudget.Sub(totals.TotalUsed)
	totals.PercentUsed = r.PercentOf(totals.TotalUsed, totals.TotalBudget)

	return totals
}

// PercentOf returns round(used/amount*100), with a zero amount reported as
// 0% regardless of usage sign, so callers never divide by zero.
func (r *periodResolver) PercentOf(used, amount decimal.Decimal) int {
	if amount.IsZero() {
		return 0
	}
	return int(used.Div(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}
