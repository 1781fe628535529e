package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/diewo77/go-billing/internal/services"
	"github.com/diewo77/go-billing/internal/validation"
	"github.com/diewo77/go-billing/internal/view"
)

type CustomerHandler struct {
	svc *services.BillingService
}

func NewCustomerHandler(svc *services.BillingService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.ListCustomers()
	if err != nil {
		http.Error(w, "Failed to load customers", http.StatusInternalServerError)
		return
	}
	view.Render(w, "index.html", map[string]any{
		"Customers": customers,
	})
}

func (h *CustomerHandler) New(w http.ResponseWriter, r *http.Request) {
	view.Render(w, "add_customer.html", nil)
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")

	v := make(validation.Violations)
	validation.Required("name", name, v)
	if !v.Empty() {
		view.Render(w, "add_customer.html", map[string]any{
			"Name":   name,
			"Errors": v,
		})
		return
	}

	if _, err := h.svc.CreateCustomer(name); err != nil {
		http.Error(w, "Failed to create customer", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *CustomerHandler) View(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	customer, err := h.svc.GetCustomer(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Failed to load customer", http.StatusInternalServerError)
		return
	}

	view.Render(w, "customer_details.html", map[string]any{
		"Customer": customer,
		"Groups":   services.GroupByDate(customer.Billings),
	})
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.svc.DeleteCustomer(uint(id)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Failed to delete customer", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
