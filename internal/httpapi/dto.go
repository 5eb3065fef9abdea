package httpapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartsync/internal/cartsync"
	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/shopspring/decimal"
)

type moneyDTO struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func toMoneyDTO(m domain.Money) moneyDTO {
	return moneyDTO{Amount: m.Amount, Currency: m.Currency.String()}
}

type cartItemDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     moneyDTO  `json:"price"`
	Image     string    `json:"image"`
	Quantity  int       `json:"quantity"`
	LineTotal moneyDTO  `json:"line_total"`
}

type cartDTO struct {
	Items         []cartItemDTO `json:"items"`
	TotalPrice    moneyDTO      `json:"total_price"`
	TotalItems    int           `json:"total_items"`
	PendingWrites int           `json:"pending_writes"`
	Sync          string        `json:"sync,omitempty"`
	SyncError     string        `json:"sync_error,omitempty"`
}

func toCartDTO(s *cartsync.Synchronizer, res *domain.SyncResult) cartDTO {
	items := s.Items()

	out := cartDTO{
		Items:         make([]cartItemDTO, 0, len(items)),
		TotalPrice:    toMoneyDTO(s.TotalPrice()),
		TotalItems:    s.TotalItems(),
		PendingWrites: s.PendingWrites(),
	}
	for _, item := range items {
		out.Items = append(out.Items, cartItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     toMoneyDTO(item.Price),
			Image:     item.Image,
			Quantity:  item.Quantity,
			LineTotal: toMoneyDTO(item.LineTotal()),
		})
	}

	if res != nil {
		out.Sync = res.Status.String()
		if res.Err != nil {
			out.SyncError = res.Err.Error()
		}
	}

	return out
}

type productDTO struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Price   moneyDTO  `json:"price"`
	Images  []string  `json:"images"`
	Image   string    `json:"image"`
	Stock   int       `json:"stock"`
	InStock bool      `json:"in_stock"`
}

func toProductDTO(p domain.Product) productDTO {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return productDTO{
		ID:      p.ID,
		Name:    p.Name,
		Price:   toMoneyDTO(p.Price),
		Images:  images,
		Image:   p.CartImage(),
		Stock:   p.Stock,
		InStock: p.Stock > 0,
	}
}

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type principalDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func toPrincipalDTO(p *domain.Principal) *principalDTO {
	if p == nil {
		return nil
	}
	return &principalDTO{ID: p.ID, Email: p.Email, Name: p.Name, Role: string(p.Role)}
}

type addressDTO struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Line1      string `json:"address_line_1"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func toAddressDTO(a domain.Address) addressDTO {
	return addressDTO{
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Line1:      a.Line1,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

type orderLineDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice moneyDTO  `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	Total     moneyDTO  `json:"total"`
}

type orderDTO struct {
	ID            uuid.UUID      `json:"id"`
	Number        string         `json:"order_number"`
	Email         string         `json:"email"`
	Status        string         `json:"status"`
	PaymentStatus string         `json:"payment_status"`
	PaymentMethod string         `json:"payment_method"`
	Subtotal      moneyDTO       `json:"subtotal"`
	Tax           moneyDTO       `json:"tax_amount"`
	Shipping      moneyDTO       `json:"shipping_amount"`
	Total         moneyDTO       `json:"total"`
	Billing       addressDTO     `json:"billing"`
	ShippingTo    addressDTO     `json:"shipping"`
	Lines         []orderLineDTO `json:"items"`
	CreatedAt     time.Time      `json:"created_at"`
}

func toOrderDTO(o domain.Order) orderDTO {
	out := orderDTO{
		ID:            o.ID,
		Number:        o.Number,
		Email:         o.Email,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		PaymentMethod: o.PaymentMethod,
		Subtotal:      toMoneyDTO(o.Subtotal),
		Tax:           toMoneyDTO(o.Tax),
		Shipping:      toMoneyDTO(o.Shipping),
		Total:         toMoneyDTO(o.Total),
		Billing:       toAddressDTO(o.Billing),
		ShippingTo:    toAddressDTO(o.ShippingTo),
		Lines:         make([]orderLineDTO, 0, len(o.Lines)),
		CreatedAt:     o.CreatedAt,
	}
	for _, l := range o.Lines {
		out.Lines = append(out.Lines, orderLineDTO{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: toMoneyDTO(l.UnitPrice),
			Quantity:  l.Quantity,
			Total:     toMoneyDTO(l.Total),
		})
	}
	return out
}

type checkoutResponse struct {
	Order         orderDTO `json:"order"`
	TransactionID string   `json:"transaction_id"`
}
