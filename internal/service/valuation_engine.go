package service

import (
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/localday"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/model"
)

// zeroEpsilon is the threshold below which a residual holding is considered
// numerically zero. When a sale drives AUM to or below it, AUM, cost basis
// and average cost are snapped to exactly zero in the same step so no stale
// residuals survive into later days.
var zeroEpsilon = decimal.New(1, -9)

// DataQualityWarning records an input-data condition the engine compensated
// for without failing the run. Warnings are surfaced to the caller separately
// from errors so the information loss stays visible.
type DataQualityWarning struct {
	Day     localday.Day
	Event   model.EventType
	Message string
}

func (w DataQualityWarning) String() string {
	return fmt.Sprintf("%s [%s]: %s", w.Day, w.Event, w.Message)
}

// ValuationEngine computes the dense daily summary sequence for a portfolio
// from its assembled raw data, using the average-cost inventory method.
//
// State carried across days: held quantity (AUM), total cost basis, and the
// last known market price. Each run starts from zero state; the engine never
// reads previously stored summaries, which is what makes recomputation
// idempotent.
type ValuationEngine struct {
	location *time.Location
	now      func() time.Time
}

// NewValuationEngine creates a ValuationEngine computing local days in loc.
func NewValuationEngine(loc *time.Location) *ValuationEngine {
	return &ValuationEngine{location: loc, now: time.Now}
}

// dayState is the accumulation state threaded through the calendar-day loop.
// lastPrice stays invalid until the first price is observed; "no price known
// yet" is distinct from a price of zero.
type dayState struct {
	aum       decimal.Decimal
	costBasis decimal.Decimal
	avgCost   decimal.Decimal
	lastPrice decimal.NullDecimal
}

// ComputeDailySummaries produces one DailySummary per local calendar day from
// the earliest observed record through the later of the latest observed day
// and today, with no gaps. Days without events carry state forward and reuse
// the last known price.
//
// Returns the summary sequence plus any data-quality warnings (oversells
// clamped to held inventory, event types with no defined accounting effect).
// An empty RawData input yields an empty sequence and no warnings.
func (e *ValuationEngine) ComputeDailySummaries(portfolio model.AssetPortfolio, data RawData) ([]model.DailySummary, []DataQualityWarning) {
	if data.Empty() {
		return []model.DailySummary{}, nil
	}

	firstDay := data.FirstDay()
	lastDay := localday.Max(data.LastDay(), localday.FromTime(e.now(), e.location))

	eventsByDay := groupEventsByDay(data.Events)

	var warnings []DataQualityWarning
	var state dayState
	summaries := []model.DailySummary{}
	priceIdx := 0

	for day := firstDay; !day.After(lastDay); day = day.Add(1) {
		// Price resolution: latest observation at or before the end of the
		// local day. The index only moves forward; when no new observation
		// lands on this day the previous day's price carries over.
		dayEnd := day.End(e.location)
		for priceIdx < len(data.Prices) && !data.Prices[priceIdx].TimestampUTC.After(dayEnd) {
			state.lastPrice = decimal.NullDecimal{Decimal: data.Prices[priceIdx].Price, Valid: true}
			priceIdx++
		}

		dailyRealized := decimal.Zero
		for _, event := range eventsByDay[day] {
			realized, warning := e.applyEvent(&state, event)
			dailyRealized = dailyRealized.Add(realized)
			if warning != nil {
				warnings = append(warnings, *warning)
			}
		}

		summaries = append(summaries, e.emitDay(portfolio, day, state, dailyRealized))
	}

	return summaries, warnings
}

// applyEvent applies one event to the running state and returns the realized
// proceeds it contributes to the day, plus a warning when the event carried a
// data-quality condition. The event switch is exhaustive: kinds without a
// defined accounting treatment are explicit no-ops, not silent ones.
func (e *ValuationEngine) applyEvent(state *dayState, event model.PortfolioEvent) (decimal.Decimal, *DataQualityWarning) {
	switch event.Event {
	case model.EventBuy:
		// Ingest validates quantity positive, but the repository keeps rows
		// whose numeric columns failed to parse with those fields zeroed. A
		// zero-quantity buy on an empty holding would divide by zero, so a
		// buy without a positive quantity is skipped and the day still emits
		// with prior state.
		if !event.Quantity.IsPositive() {
			return decimal.Zero, &DataQualityWarning{
				Day:     event.LocalDay,
				Event:   event.Event,
				Message: fmt.Sprintf("buy quantity %s is not positive, skipped", event.Quantity),
			}
		}
		state.costBasis = state.costBasis.Add(event.Value)
		state.aum = state.aum.Add(event.Quantity)
		state.avgCost = state.costBasis.Div(state.aum)
		return decimal.Zero, nil

	case model.EventSell:
		sellQty := event.Quantity.Abs()
		proceeds := event.Value.Abs()

		var warning *DataQualityWarning
		if sellQty.GreaterThan(state.aum) {
			warning = &DataQualityWarning{
				Day:     event.LocalDay,
				Event:   event.Event,
				Message: fmt.Sprintf("sell quantity %s exceeds held %s, clamped", sellQty, state.aum),
			}
			sellQty = state.aum
		}

		// Proceeds count in full even when the quantity is clamped: realized
		// value is what the event says was received, not what inventory
		// could cover.
		if state.aum.IsPositive() {
			state.costBasis = state.costBasis.Sub(sellQty.Mul(state.avgCost))
			state.aum = state.aum.Sub(sellQty)

			if state.aum.LessThanOrEqual(zeroEpsilon) {
				state.aum = decimal.Zero
				state.costBasis = decimal.Zero
				state.avgCost = decimal.Zero
			}
		}
		return proceeds, warning

	case model.EventConvert, model.EventSend, model.EventReceive, model.EventReward, model.EventAdjustment:
		// No defined accounting treatment yet; recorded but ignored.
		// Kept visible as a warning until a product decision lands.
		log.Printf("Event type %q has no accounting effect, treated as no-op (day %s)", event.Event, event.LocalDay)
		return decimal.Zero, &DataQualityWarning{
			Day:     event.LocalDay,
			Event:   event.Event,
			Message: "unsupported event type, treated as no-op",
		}

	default:
		log.Printf("Unknown event type %q ignored (day %s)", event.Event, event.LocalDay)
		return decimal.Zero, &DataQualityWarning{
			Day:     event.LocalDay,
			Event:   event.Event,
			Message: "unknown event type, treated as no-op",
		}
	}
}

// emitDay renders the end-of-day state as a DailySummary. Average cost is
// reported as zero for an empty holding, and unrealized value is present only
// when something is held and a price has ever been observed.
func (e *ValuationEngine) emitDay(portfolio model.AssetPortfolio, day localday.Day, state dayState, dailyRealized decimal.Decimal) model.DailySummary {
	summary := model.DailySummary{
		CpmID:            portfolio.CpmID,
		AssetPortfolioID: portfolio.ID,
		Pair:             portfolio.Pair,
		Day:              day,
		AUM:              state.aum,
		RealizedValue:    dailyRealized,
	}

	if state.aum.IsPositive() {
		summary.AvgCost = state.avgCost
		if state.lastPrice.Valid {
			summary.UnrealizedValue = decimal.NullDecimal{
				Decimal: state.aum.Mul(state.lastPrice.Decimal),
				Valid:   true,
			}
		}
	} else {
		summary.AvgCost = decimal.Zero
	}

	return summary
}

// groupEventsByDay buckets events by their derived local day. Input order is
// preserved inside each bucket, which keeps the timestamp-then-ingestion
// ordering established by the assembler.
func groupEventsByDay(events []model.PortfolioEvent) map[localday.Day][]model.PortfolioEvent {
	byDay := make(map[localday.Day][]model.PortfolioEvent)
	for _, event := range events {
		byDay[event.LocalDay] = append(byDay[event.LocalDay], event)
	}
	return byDay
}
