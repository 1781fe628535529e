package services

import (
	"testing"
	"time"

	"github.com/diewo77/go-billing/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestGroupByDateOrderAndStability(t *testing.T) {
	billings := []models.Billing{
		{ID: 1, Date: day(2024, time.January, 2, 9)},
		{ID: 2, Date: day(2024, time.January, 1, 14)},
		{ID: 3, Date: day(2024, time.January, 2, 8)},
	}

	groups := GroupByDate(billings)
	require.Len(t, groups, 2)

	assert.Equal(t, day(2024, time.January, 1, 0), groups[0].Date)
	assert.Equal(t, day(2024, time.January, 2, 0), groups[1].Date)

	require.Len(t, groups[0].Billings, 1)
	assert.Equal(t, uint(2), groups[0].Billings[0].ID)

	// Same-date billings keep their original relative order even though
	// billing 3 has the earlier time of day.
	require.Len(t, groups[1].Billings, 2)
	assert.Equal(t, uint(1), groups[1].Billings[0].ID)
	assert.Equal(t, uint(3), groups[1].Billings[1].ID)
}

func TestGroupByDateEmpty(t *testing.T) {
	assert.Empty(t, GroupByDate(nil))
	assert.Empty(t, GroupByDate([]models.Billing{}))
}

func TestGroupByDateDoesNotModifyInput(t *testing.T) {
	billings := []models.Billing{
		{ID: 1, Date: day(2024, time.March, 5, 0)},
		{ID: 2, Date: day(2024, time.March, 1, 0)},
	}
	GroupByDate(billings)
	assert.Equal(t, uint(1), billings[0].ID)
	assert.Equal(t, uint(2), billings[1].ID)
}

func TestBillingGroupTotal(t *testing.T) {
	group := BillingGroup{
		Billings: []models.Billing{
			{Items: []models.BillingItem{
				{Quantity: 2, Product: models.Product{Price: 10}},
				{Quantity: 1, Product: models.Product{Price: 5}},
			}},
			{Items: []models.BillingItem{
				{Quantity: 3, Product: models.Product{Price: 1}},
			}},
		},
	}
	assert.InDelta(t, 28, group.Total(), 0.001)
}
