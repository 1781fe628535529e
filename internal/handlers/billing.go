package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/diewo77/go-billing/internal/models"
	"github.com/diewo77/go-billing/internal/services"
	"github.com/diewo77/go-billing/internal/validation"
	"github.com/diewo77/go-billing/internal/view"
	"go.uber.org/zap"
)

// PDFRenderer converts a complete HTML document into PDF bytes.
type PDFRenderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

type BillingHandler struct {
	svc      *services.BillingService
	renderer PDFRenderer
	logger   *zap.Logger
}

func NewBillingHandler(svc *services.BillingService, renderer PDFRenderer, logger *zap.Logger) *BillingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillingHandler{svc: svc, renderer: renderer, logger: logger}
}

// New shows the single-item billing form for a customer, with the product
// catalog to pick from.
func (h *BillingHandler) New(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.loadCustomer(w, r)
	if !ok {
		return
	}
	products, err := h.svc.ListProducts()
	if err != nil {
		http.Error(w, "Failed to load products", http.StatusInternalServerError)
		return
	}
	view.Render(w, "add_billing.html", map[string]any{
		"Customer": customer,
		"Products": products,
	})
}

// Create records one billing with one line item for the customer.
func (h *BillingHandler) Create(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.loadCustomer(w, r)
	if !ok {
		return
	}

	v := make(validation.Violations)
	productID := validation.Int("product_id", r.FormValue("product_id"), v)
	quantity := validation.Int("quantity", r.FormValue("quantity"), v)
	if _, bad := v["quantity"]; !bad {
		validation.PositiveInt("quantity", quantity, v)
	}
	if _, bad := v["product_id"]; !bad {
		validation.PositiveInt("product_id", productID, v)
	}

	if v.Empty() {
		_, err := h.svc.CreateBillingWithItem(customer.ID, uint(productID), quantity)
		switch {
		case err == nil:
			http.Redirect(w, r, fmt.Sprintf("/customer/%d", customer.ID), http.StatusSeeOther)
			return
		case errors.Is(err, services.ErrNotFound):
			// The customer was checked above; the unknown id is the product.
			v["product_id"] = "unknown_product"
		default:
			http.Error(w, "Failed to create billing", http.StatusInternalServerError)
			return
		}
	}

	products, err := h.svc.ListProducts()
	if err != nil {
		http.Error(w, "Failed to load products", http.StatusInternalServerError)
		return
	}
	view.Render(w, "add_billing.html", map[string]any{
		"Customer":  customer,
		"Products":  products,
		"ProductID": r.FormValue("product_id"),
		"Quantity":  r.FormValue("quantity"),
		"Errors":    v,
	})
}

// PDF streams the customer's grouped billing history as a PDF attachment.
func (h *BillingHandler) PDF(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.loadCustomer(w, r)
	if !ok {
		return
	}

	html, err := view.RenderString("pdf_template.html", map[string]any{
		"Customer": customer,
		"Groups":   services.GroupByDate(customer.Billings),
	})
	if err != nil {
		h.logger.Error("pdf template failed", zap.Error(err))
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	data, err := h.renderer.Render(r.Context(), html)
	if err != nil {
		h.logger.Error("pdf conversion failed", zap.Uint("customer_id", customer.ID), zap.Error(err))
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", customer.Name+"_billing.pdf"))
	w.Write(data)
}

// loadCustomer resolves the {id} path value to a customer with its billing
// history. On failure it writes the response itself and returns ok=false.
func (h *BillingHandler) loadCustomer(w http.ResponseWriter, r *http.Request) (*models.Customer, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	customer, err := h.svc.GetCustomer(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.NotFound(w, r)
			return nil, false
		}
		http.Error(w, "Failed to load customer", http.StatusInternalServerError)
		return nil, false
	}
	return customer, true
}
