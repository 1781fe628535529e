package services

import (
	"errors"
	"time"

	"github.com/diewo77/go-billing/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrProductInUse is returned when deleting a product that is still
// referenced by billing items.
var ErrProductInUse = errors.New("product is referenced by billing items")

// BillingService implements the domain operations over products, customers
// and billings. Every multi-row write runs in a single transaction.
type BillingService struct {
	db *gorm.DB
}

func NewBillingService(db *gorm.DB) *BillingService {
	return &BillingService{db: db}
}

func (s *BillingService) CreateProduct(name string, price float64) (*models.Product, error) {
	product := models.Product{Name: name, Price: price}
	if err := s.db.Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *BillingService) ListProducts() ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *BillingService) GetProduct(id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product from the catalog. Deletion is refused
// while any billing item still references the product, so billing history
// never ends up with dangling product references.
func (s *BillingService) DeleteProduct(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		var refs int64
		if err := tx.Model(&models.BillingItem{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrProductInUse
		}
		return tx.Delete(&product).Error
	})
}

func (s *BillingService) CreateCustomer(name string) (*models.Customer, error) {
	customer := models.Customer{Name: name}
	if err := s.db.Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *BillingService) ListCustomers() ([]models.Customer, error) {
	var customers []models.Customer
	if err := s.db.Order("id").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// GetCustomer loads a customer with its full billing history: every billing,
// its items and each item's product.
func (s *BillingService) GetCustomer(id uint) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.Preload("Billings").Preload("Billings.Items").Preload("Billings.Items.Product").
		First(&customer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// DeleteCustomer removes the customer together with all of its billings and
// their items. Children are deleted before parents inside one transaction so
// the cascade holds regardless of driver-level foreign key enforcement.
func (s *BillingService) DeleteCustomer(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		billingIDs := tx.Model(&models.Billing{}).Select("id").Where("customer_id = ?", id)
		if err := tx.Where("billing_id IN (?)", billingIDs).Delete(&models.BillingItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.Billing{}).Error; err != nil {
			return err
		}
		return tx.Delete(&customer).Error
	})
}

// CreateBillingWithItem records a new billing for the customer, dated now
// (UTC), holding a single line item for the given product and quantity.
// Either both rows are committed or neither is.
func (s *BillingService) CreateBillingWithItem(customerID, productID uint, quantity int) (*models.Billing, error) {
	var billing models.Billing
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		billing = models.Billing{CustomerID: customer.ID, Date: time.Now().UTC()}
		if err := tx.Create(&billing).Error; err != nil {
			return err
		}
		item := models.BillingItem{BillingID: billing.ID, ProductID: product.ID, Quantity: quantity}
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &billing, nil
}
