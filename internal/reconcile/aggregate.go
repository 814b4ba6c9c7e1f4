package reconcile

import "lotdesk/internal/model"

// Summary holds the derived totals over a working set of line items. It is
// recomputed after every edit to drive live totals and again at submission
// time.
type Summary struct {
	ItemCount      int     `json:"itemCount"`
	TotalUnits     int     `json:"totalUnits"`
	TotalValue     float64 `json:"totalValue"`
	AveragePrice   float64 `json:"averagePrice"`
	PercentOffMSRP float64 `json:"percentOffMsrp"`
}

// Summarize computes summary statistics over any line-item collection.
// Pure and side-effect free.
//
// PercentOffMSRP is computed only over lines with a known retail price above
// zero; lines lacking one are excluded from both the retail and the offer
// sum rather than counted as zero.
func Summarize(lines []model.LineItem) Summary {
	s := Summary{ItemCount: len(lines)}

	var retailTotal, offerAtRetailTotal float64
	for _, line := range lines {
		s.TotalUnits += line.RequestedQuantity
		s.TotalValue += float64(line.RequestedQuantity) * line.UnitPrice

		if line.RetailPrice != nil && *line.RetailPrice > 0 {
			retailTotal += float64(line.RequestedQuantity) * *line.RetailPrice
			offerAtRetailTotal += float64(line.RequestedQuantity) * line.UnitPrice
		}
	}

	if s.TotalUnits > 0 {
		s.AveragePrice = s.TotalValue / float64(s.TotalUnits)
	}
	if retailTotal > 0 {
		s.PercentOffMSRP = (retailTotal - offerAtRetailTotal) / retailTotal * 100
	}

	return s
}
