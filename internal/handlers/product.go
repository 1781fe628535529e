package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/diewo77/go-billing/internal/services"
	"github.com/diewo77/go-billing/internal/validation"
	"github.com/diewo77/go-billing/internal/view"
)

type ProductHandler struct {
	svc *services.BillingService
}

func NewProductHandler(svc *services.BillingService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, "")
}

func (h *ProductHandler) renderList(w http.ResponseWriter, errMsg string) {
	products, err := h.svc.ListProducts()
	if err != nil {
		http.Error(w, "Failed to load products", http.StatusInternalServerError)
		return
	}
	view.Render(w, "products.html", map[string]any{
		"Products": products,
		"Error":    errMsg,
	})
}

func (h *ProductHandler) New(w http.ResponseWriter, r *http.Request) {
	view.Render(w, "add_product.html", nil)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")

	v := make(validation.Violations)
	validation.Required("name", name, v)
	price := validation.Float("price", r.FormValue("price"), v)
	if _, ok := v["price"]; !ok {
		validation.PositiveFloat("price", price, v)
	}

	if !v.Empty() {
		view.Render(w, "add_product.html", map[string]any{
			"Name":   name,
			"Price":  r.FormValue("price"),
			"Errors": v,
		})
		return
	}

	if _, err := h.svc.CreateProduct(name, price); err != nil {
		http.Error(w, "Failed to create product", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	switch err := h.svc.DeleteProduct(uint(id)); {
	case err == nil:
		http.Redirect(w, r, "/products", http.StatusSeeOther)
	case errors.Is(err, services.ErrNotFound):
		http.NotFound(w, r)
	case errors.Is(err, services.ErrProductInUse):
		h.renderList(w, "product_in_use")
	default:
		http.Error(w, "Failed to delete product", http.StatusInternalServerError)
	}
}
