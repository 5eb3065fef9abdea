package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nikolayk812/cartsync/internal/cartsync"
	"github.com/nikolayk812/cartsync/internal/checkout"
	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/nikolayk812/cartsync/internal/payment"
)

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r)
	respondJSON(w, http.StatusOK, toCartDTO(c.Cart, nil))
}

// addItem puts a catalog product in the cart. Name, price and image always
// come from the catalog, never from the request.
func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r)

	var req addItemRequest
	if !decode(w, r, &req) {
		return
	}
	if req.ProductID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if !validQuantity(w, req.Quantity) {
		return
	}

	product, err := s.products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		respondDomainError(w, s.log, err)
		return
	}

	res := c.Cart.AddItem(r.Context(), cartsync.AddItemRequest{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.CartImage(),
		Quantity:  req.Quantity,
	})
	if res.Status == domain.SyncInvalid {
		respondDomainError(w, s.log, res.Err)
		return
	}

	respondJSON(w, http.StatusOK, toCartDTO(c.Cart, &res))
}

func (s *Server) updateQuantity(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r)

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req updateQuantityRequest
	if !decode(w, r, &req) {
		return
	}
	if !validQuantity(w, req.Quantity) {
		return
	}

	res := c.Cart.UpdateQuantity(r.Context(), productID, req.Quantity)
	if errors.Is(res.Err, domain.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product is not in the cart")
		return
	}
	if res.Status == domain.SyncInvalid {
		respondDomainError(w, s.log, res.Err)
		return
	}

	respondJSON(w, http.StatusOK, toCartDTO(c.Cart, &res))
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r)

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	res := c.Cart.RemoveItem(r.Context(), productID)
	respondJSON(w, http.StatusOK, toCartDTO(c.Cart, &res))
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r)

	res := c.Cart.ClearCart(r.Context())
	respondJSON(w, http.StatusOK, toCartDTO(c.Cart, &res))
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r)

	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}

	p, err := c.Identity.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		respondDomainError(w, s.log, err)
		return
	}

	respondJSON(w, http.StatusOK, toPrincipalDTO(&p))
}

func (s *Server) signUp(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r)

	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}

	p, err := c.Identity.SignUp(r.Context(), req.Email, req.Password, req.Name)
	if errors.Is(err, domain.ErrVerificationNeeded) {
		respondJSON(w, http.StatusAccepted, map[string]string{
			"status":  "verification_needed",
			"message": "Please check your email to confirm your account",
		})
		return
	}
	if err != nil {
		respondDomainError(w, s.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, toPrincipalDTO(&p))
}

func (s *Server) signOut(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r)

	c.Identity.SignOut(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r)

	p, err := c.Identity.Refresh(r.Context())
	if err != nil {
		s.log.Warn().Err(err).Str("session", c.ID).Msg("refresh principal failed, using cached")
	}
	if p == nil {
		respondError(w, http.StatusUnauthorized, "not_authenticated", domain.ErrNotAuthenticated.Error())
		return
	}

	respondJSON(w, http.StatusOK, toPrincipalDTO(p))
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r)

	if c.Identity.Principal() == nil {
		respondError(w, http.StatusUnauthorized, "not_authenticated", domain.ErrNotAuthenticated.Error())
		return
	}

	if res := c.Cart.LoadOrders(r.Context()); res.Err != nil {
		respondDomainError(w, s.log, res.Err)
		return
	}

	orders := c.Cart.Orders()
	out := make([]orderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderDTO(o))
	}
	respondJSON(w, http.StatusOK, out)
}

// getOrder returns one order to its owner or to an administrator. Other
// callers get not found.
func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r)

	p := c.Identity.Principal()
	if p == nil {
		respondError(w, http.StatusUnauthorized, "not_authenticated", domain.ErrNotAuthenticated.Error())
		return
	}

	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	o, err := s.registry.Orders().GetOrder(r.Context(), orderID)
	if err == nil && o.OwnerID != p.ID && !p.IsAdmin() {
		err = fmt.Errorf("order[%s]: %w", orderID, domain.ErrNotFound)
	}
	if err != nil {
		respondDomainError(w, s.log, err)
		return
	}

	respondJSON(w, http.StatusOK, toOrderDTO(o))
}

func (s *Server) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r)

	p, err := c.Identity.Refresh(r.Context())
	if err != nil {
		s.log.Warn().Err(err).Str("session", c.ID).Msg("refresh principal failed, using cached")
	}
	if p == nil {
		respondError(w, http.StatusUnauthorized, "not_authenticated", domain.ErrNotAuthenticated.Error())
		return
	}
	if !p.IsAdmin() {
		respondError(w, http.StatusForbidden, "forbidden", "administrator role required")
		return
	}

	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if !decode(w, r, &req) {
		return
	}

	o, err := s.updateStatus(r, orderID, req.Status)
	if err != nil {
		respondDomainError(w, s.log, err)
		return
	}

	s.log.Info().
		Str("order_id", orderID.String()).
		Str("status", string(o.Status)).
		Str("by", p.ID).
		Msg("order status changed")

	respondJSON(w, http.StatusOK, toOrderDTO(o))
}

func (s *Server) updateStatus(r *http.Request, orderID uuid.UUID, raw string) (domain.Order, error) {
	to, err := domain.ParseOrderStatus(raw)
	if err != nil {
		return domain.Order{}, err
	}

	orders := s.registry.Orders()

	o, err := orders.GetOrder(r.Context(), orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !o.Status.CanTransition(to) {
		return domain.Order{}, fmt.Errorf("%s to %s: %w", o.Status, to, domain.ErrInvalidTransition)
	}

	if err := orders.UpdateStatus(r.Context(), orderID, to); err != nil {
		return domain.Order{}, err
	}

	o.Status = to
	return o, nil
}

func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r)

	var form checkout.Form
	if !decode(w, r, &form) {
		return
	}

	receipt, err := s.checkout.PlaceOrder(r.Context(), c.Identity.Principal(), c.Cart, form)
	if err != nil {
		respondDomainError(w, s.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, checkoutResponse{
		Order:         toOrderDTO(receipt.Order),
		TransactionID: receipt.Payment.TransactionID,
	})
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.products.ListProducts(r.Context())
	if err != nil {
		respondDomainError(w, s.log, err)
		return
	}

	out := make([]productDTO, 0, len(products))
	for _, p := range products {
		out = append(out, toProductDTO(p))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	p, err := s.products.GetProduct(r.Context(), productID)
	if err != nil {
		respondDomainError(w, s.log, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductDTO(p))
}

func (s *Server) paymentMethods(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, payment.Methods())
}

func validQuantity(w http.ResponseWriter, qty int) bool {
	if qty > domain.MaxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity",
			fmt.Sprintf("quantity must not exceed %d", domain.MaxQuantity))
		return false
	}
	return true
}

func orderIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a uuid")
		return uuid.Nil, false
	}
	return id, true
}

func productIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a uuid")
		return uuid.Nil, false
	}
	return id, true
}
