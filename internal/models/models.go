package models

import "time"

type Product struct {
	ID    uint    `gorm:"primaryKey"`
	Name  string  `gorm:"size:100;not null"`
	Price float64 `gorm:"not null"`
}

type Customer struct {
	ID       uint      `gorm:"primaryKey"`
	Name     string    `gorm:"size:100;not null"`
	Billings []Billing `gorm:"constraint:OnDelete:CASCADE"`
}

type Billing struct {
	ID         uint          `gorm:"primaryKey"`
	Date       time.Time     `gorm:"not null"`
	CustomerID uint          `gorm:"index;not null"`
	Items      []BillingItem `gorm:"constraint:OnDelete:CASCADE"`
}

type BillingItem struct {
	ID        uint    `gorm:"primaryKey"`
	BillingID uint    `gorm:"index;not null"`
	ProductID uint    `gorm:"index;not null"`
	Quantity  int     `gorm:"not null"`
	Product   Product
}

// Total returns the line amount for the item. The product must be loaded.
func (i BillingItem) Total() float64 {
	return i.Product.Price * float64(i.Quantity)
}

// Total sums the line amounts of all items on the billing.
func (b Billing) Total() float64 {
	var total float64
	for i := range b.Items {
		total += b.Items[i].Total()
	}
	return total
}
