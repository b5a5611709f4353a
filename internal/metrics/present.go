package metrics

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Tone is a presentation hint for a dashboard value.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneError   Tone = "error"
)

// ProfitTone is success for a non-negative profit.
func ProfitTone(profit decimal.Decimal) Tone {
	if profit.IsNegative() {
		return ToneError
	}
	return ToneSuccess
}

// OnTimeTone grades the on-time percentage: 80 and up is success, 60 and up
// a warning.
func OnTimeTone(pct float64) Tone {
	switch {
	case pct >= 80:
		return ToneSuccess
	case pct >= 60:
		return ToneWarning
	default:
		return ToneError
	}
}

// DaysDisplay truncates the average payment time, e.g. "10 dni".
func DaysDisplay(avg float64) string {
	return fmt.Sprintf("%d dni", int(avg))
}

// PercentDisplay truncates a percentage, e.g. "87%".
func PercentDisplay(pct float64) string {
	return fmt.Sprintf("%d%%", int(pct))
}
