// Package display derives the values dashboard panels render from raw records.
package display

import (
	"fmt"
	"math"
	"time"

	"blood-bank-dashboard/internal/models"
)

// DateLayout is the long date format shown next to eligibility labels
const DateLayout = "Jan 2, 2006"

const (
	LabelEligible       = "Eligible"
	LabelNotEligibleYet = "Not Eligible Yet"
)

// Percentage returns units as a percentage of capacity, 0 when capacity is not positive
func Percentage(units, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	return float64(units) / float64(capacity) * 100
}

// InventoryStatus classifies a stock level by its fill percentage
func InventoryStatus(units, capacity int) models.InventoryStatus {
	pct := Percentage(units, capacity)
	switch {
	case pct < 20:
		return models.InventoryCritical
	case pct < 40:
		return models.InventoryLow
	case pct > 90:
		return models.InventoryExcess
	default:
		return models.InventoryNormal
	}
}

// StatusClasses maps an inventory status to its badge color classes
func StatusClasses(status models.InventoryStatus) string {
	switch status {
	case models.InventoryCritical:
		return "bg-red-100 text-red-800"
	case models.InventoryLow:
		return "bg-yellow-100 text-yellow-800"
	case models.InventoryExcess:
		return "bg-blue-100 text-blue-800"
	default:
		return "bg-green-100 text-green-800"
	}
}

// Trend summarizes a series by the change between its last and first value
type Trend struct {
	Direction string  `json:"direction"`
	Change    float64 `json:"change"`
}

// SeriesTrend computes the trend of values in chronological order
func SeriesTrend(values []float64) Trend {
	if len(values) < 2 {
		return Trend{Direction: "→"}
	}
	diff := values[len(values)-1] - values[0]
	switch {
	case diff > 0:
		return Trend{Direction: "↑", Change: diff}
	case diff < 0:
		return Trend{Direction: "↓", Change: math.Abs(diff)}
	default:
		return Trend{Direction: "→"}
	}
}

// Eligibility is the eligibility line of a donor card
type Eligibility struct {
	Label string `json:"label"`
	Date  string `json:"date,omitempty"`
}

// EligibilityAt describes eligibility relative to now. A missing or past
// next eligible date means the donor may donate.
func EligibilityAt(next *time.Time, now time.Time) Eligibility {
	if next == nil || !next.After(now) {
		return Eligibility{Label: LabelEligible}
	}
	return Eligibility{Label: LabelNotEligibleYet, Date: next.Format(DateLayout)}
}

// Badge is the label and color of a stored eligibility status
type Badge struct {
	Label   string `json:"label"`
	Classes string `json:"classes"`
}

func EligibilityBadge(status models.EligibilityStatus) Badge {
	switch status {
	case models.EligibilityEligible:
		return Badge{Label: "Eligible", Classes: "bg-green-100 text-green-800"}
	case models.EligibilityIneligible:
		return Badge{Label: "Ineligible", Classes: "bg-red-100 text-red-800"}
	default:
		return Badge{Label: "Pending", Classes: "bg-yellow-100 text-yellow-800"}
	}
}

// FormatPercentage renders a percentage with no decimals
func FormatPercentage(pct float64) string {
	return fmt.Sprintf("%.0f%%", pct)
}
