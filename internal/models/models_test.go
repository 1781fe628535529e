package models

import "testing"

func TestBillingItem_Total(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		quantity int
		want     float64
	}{
		{"single unit", 9.5, 1, 9.5},
		{"three units", 9.5, 3, 28.5},
		{"zero quantity", 9.5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := BillingItem{Quantity: tt.quantity, Product: Product{Price: tt.price}}
			got := item.Total()
			// Use a small epsilon for floating point comparison
			if diff := got - tt.want; diff > 0.001 || diff < -0.001 {
				t.Errorf("Total() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestBilling_Total(t *testing.T) {
	billing := Billing{
		Items: []BillingItem{
			{Quantity: 2, Product: Product{Price: 10}},
			{Quantity: 1, Product: Product{Price: 5.5}},
		},
	}
	if got := billing.Total(); got != 25.5 {
		t.Errorf("Total() = %f, want 25.5", got)
	}
}
