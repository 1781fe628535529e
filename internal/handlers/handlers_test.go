package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/diewo77/go-billing/internal/models"
	"github.com/diewo77/go-billing/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestService(t *testing.T) *services.BillingService {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Customer{}, &models.Billing{}, &models.BillingItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return services.NewBillingService(db)
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestCustomerDetailNotFound(t *testing.T) {
	h := NewCustomerHandler(setupTestService(t))

	req := httptest.NewRequest(http.MethodGet, "/customer/99999", nil)
	req.SetPathValue("id", "99999")
	w := httptest.NewRecorder()
	h.View(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

func TestAddCustomerValidation(t *testing.T) {
	h := NewCustomerHandler(setupTestService(t))

	req := formRequest(http.MethodPost, "/add_customer", url.Values{"name": {"   "}})
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected re-rendered form got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "required") {
		t.Fatalf("expected field error in body: %s", w.Body.String())
	}
}

func TestAddCustomerRedirects(t *testing.T) {
	svc := setupTestService(t)
	h := NewCustomerHandler(svc)

	req := formRequest(http.MethodPost, "/add_customer", url.Values{"name": {"Acme"}})
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to / got %s", loc)
	}

	customers, err := svc.ListCustomers()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(customers) != 1 || customers[0].Name != "Acme" {
		t.Fatalf("unexpected customers: %+v", customers)
	}
}

func TestDeleteCustomer(t *testing.T) {
	svc := setupTestService(t)
	customer, err := svc.CreateCustomer("Acme")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	h := NewCustomerHandler(svc)

	req := formRequest(http.MethodPost, "/delete_customer/1", nil)
	req.SetPathValue("id", strconv.Itoa(int(customer.ID)))
	w := httptest.NewRecorder()
	h.Delete(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", w.Code)
	}
	if _, err := svc.GetCustomer(customer.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected customer gone, got %v", err)
	}
}

func TestAddProductValidation(t *testing.T) {
	h := NewProductHandler(setupTestService(t))

	req := formRequest(http.MethodPost, "/add_product", url.Values{"name": {"Widget"}, "price": {"abc"}})
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected re-rendered form got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not_a_number") {
		t.Fatalf("expected price error in body: %s", w.Body.String())
	}
}

func TestAddProductThenList(t *testing.T) {
	svc := setupTestService(t)
	h := NewProductHandler(svc)

	req := formRequest(http.MethodPost, "/add_product", url.Values{"name": {"Widget"}, "price": {"9.5"}})
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", w.Code)
	}

	listReq := httptest.NewRequest(http.MethodGet, "/products", nil)
	listW := httptest.NewRecorder()
	h.List(listW, listReq)
	if listW.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", listW.Code)
	}
	if !strings.Contains(listW.Body.String(), "Widget") {
		t.Fatalf("expected Widget in list: %s", listW.Body.String())
	}
}

func TestDeleteProductInUse(t *testing.T) {
	svc := setupTestService(t)
	customer, _ := svc.CreateCustomer("Acme")
	product, _ := svc.CreateProduct("Widget", 9.5)
	if _, err := svc.CreateBillingWithItem(customer.ID, product.ID, 1); err != nil {
		t.Fatalf("billing: %v", err)
	}
	h := NewProductHandler(svc)

	req := formRequest(http.MethodPost, "/delete_product/1", nil)
	req.SetPathValue("id", strconv.Itoa(int(product.ID)))
	w := httptest.NewRecorder()
	h.Delete(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected re-rendered list got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "product_in_use") {
		t.Fatalf("expected product_in_use notice: %s", w.Body.String())
	}
	if _, err := svc.GetProduct(product.ID); err != nil {
		t.Fatalf("product should still exist: %v", err)
	}
}

func TestAddBillingFlow(t *testing.T) {
	svc := setupTestService(t)
	customer, _ := svc.CreateCustomer("Acme")
	product, _ := svc.CreateProduct("Widget", 9.5)
	h := NewBillingHandler(svc, nil, nil)

	form := url.Values{
		"product_id": {strconv.Itoa(int(product.ID))},
		"quantity":   {"3"},
	}
	req := formRequest(http.MethodPost, "/add_billing/1", form)
	req.SetPathValue("id", strconv.Itoa(int(customer.ID)))
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d body=%s", w.Code, w.Body.String())
	}

	got, err := svc.GetCustomer(customer.ID)
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if len(got.Billings) != 1 || len(got.Billings[0].Items) != 1 {
		t.Fatalf("unexpected billing history: %+v", got.Billings)
	}
	if got.Billings[0].Items[0].Quantity != 3 {
		t.Fatalf("unexpected quantity: %d", got.Billings[0].Items[0].Quantity)
	}
}

func TestAddBillingUnknownProduct(t *testing.T) {
	svc := setupTestService(t)
	customer, _ := svc.CreateCustomer("Acme")
	h := NewBillingHandler(svc, nil, nil)

	form := url.Values{"product_id": {"99999"}, "quantity": {"1"}}
	req := formRequest(http.MethodPost, "/add_billing/1", form)
	req.SetPathValue("id", strconv.Itoa(int(customer.ID)))
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected re-rendered form got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "unknown_product") {
		t.Fatalf("expected unknown_product error: %s", w.Body.String())
	}
}

func TestAddBillingUnknownCustomer(t *testing.T) {
	h := NewBillingHandler(setupTestService(t), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/add_billing/99999", nil)
	req.SetPathValue("id", "99999")
	w := httptest.NewRecorder()
	h.New(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

type stubRenderer struct {
	data []byte
	err  error
}

func (s *stubRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	return s.data, s.err
}

func TestGeneratePDFEmptyHistory(t *testing.T) {
	svc := setupTestService(t)
	customer, _ := svc.CreateCustomer("Acme")
	h := NewBillingHandler(svc, &stubRenderer{data: []byte("%PDF-1.4 stub")}, nil)

	req := httptest.NewRequest(http.MethodGet, "/generate_pdf/1", nil)
	req.SetPathValue("id", strconv.Itoa(int(customer.ID)))
	w := httptest.NewRecorder()
	h.PDF(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type: %s", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "Acme_billing.pdf") {
		t.Fatalf("unexpected disposition: %s", cd)
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF") {
		t.Fatalf("expected PDF bytes, got: %s", w.Body.String())
	}
}

func TestGeneratePDFConverterFailure(t *testing.T) {
	svc := setupTestService(t)
	customer, _ := svc.CreateCustomer("Acme")
	h := NewBillingHandler(svc, &stubRenderer{err: errors.New("converter down")}, nil)

	req := httptest.NewRequest(http.MethodGet, "/generate_pdf/1", nil)
	req.SetPathValue("id", strconv.Itoa(int(customer.ID)))
	w := httptest.NewRecorder()
	h.PDF(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", w.Code)
	}
}

func TestGeneratePDFNotFound(t *testing.T) {
	h := NewBillingHandler(setupTestService(t), &stubRenderer{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/generate_pdf/99999", nil)
	req.SetPathValue("id", "99999")
	w := httptest.NewRecorder()
	h.PDF(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}
