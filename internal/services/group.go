package services

import (
	"sort"
	"time"

	"github.com/diewo77/go-billing/internal/models"
)

// BillingGroup holds all billings sharing one calendar date.
type BillingGroup struct {
	Date     time.Time
	Billings []models.Billing
}

// Total sums the totals of all billings in the group.
func (g BillingGroup) Total() float64 {
	var total float64
	for i := range g.Billings {
		total += g.Billings[i].Total()
	}
	return total
}

// GroupByDate groups billings by calendar date (the timestamp truncated to
// its own day), in ascending date order. Billings sharing a date keep their
// original relative order. The input slice is not modified.
func GroupByDate(billings []models.Billing) []BillingGroup {
	sorted := make([]models.Billing, len(billings))
	copy(sorted, billings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return truncateToDay(sorted[i].Date).Before(truncateToDay(sorted[j].Date))
	})

	var groups []BillingGroup
	for _, b := range sorted {
		day := truncateToDay(b.Date)
		if len(groups) == 0 || !groups[len(groups)-1].Date.Equal(day) {
			groups = append(groups, BillingGroup{Date: day})
		}
		groups[len(groups)-1].Billings = append(groups[len(groups)-1].Billings, b)
	}
	return groups
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
