package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order statuses. Orders move strictly forward through the fulfilment
// chain; cancelled is terminal and reachable from any non-terminal
// state.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// orderTransitions is the legal transition table. Anything not listed
// here is rejected with ErrInvalidTransition.
var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// ErrInvalidTransition reports an order status change outside the
// transition table.
type ErrInvalidTransition struct {
	From string
	To   string
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("order status cannot change from %q to %q", e.From, e.To)
}

// IsValidOrderStatus reports whether s is a known order status.
func IsValidOrderStatus(s string) bool {
	_, ok := orderTransitions[s]
	return ok
}

// TransitionSources lists the statuses from which to is reachable.
// Used to filter bulk status updates down to eligible rows.
func TransitionSources(to string) []string {
	var sources []string
	for from, nexts := range orderTransitions {
		for _, next := range nexts {
			if next == to {
				sources = append(sources, from)
			}
		}
	}
	return sources
}

// CanTransition reports whether the status change from -> to is legal.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is a customer purchase header. TotalAmount is a stored column
// kept equal to the sum of the items' total prices; every item
// mutation recomputes it inside the same transaction.
type Order struct {
	ID              string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderNumber     string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_number"`
	UserTelegramID  int64           `gorm:"index;not null" json:"user_telegram_id"`
	UserName        string          `gorm:"type:varchar(255);not null" json:"user_name"`
	UserPhone       string          `gorm:"type:varchar(20);not null" json:"user_phone"`
	Status          string          `gorm:"type:varchar(20);default:pending;index" json:"status"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	DeliveryAddress string          `gorm:"type:text;not null" json:"delivery_address"`
	Notes           string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem is one line of an order. Price snapshots the book's final
// price at purchase time so later catalog edits never alter history;
// the referenced book is restrict-on-delete for the same reason.
type OrderItem struct {
	ID        string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID   string          `gorm:"type:varchar(36);index;not null" json:"order_id"`
	BookID    string          `gorm:"type:varchar(36);index;not null" json:"book_id"`
	Quantity  int             `gorm:"not null;default:1" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt time.Time       `json:"created_at"`

	Book Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = generateUUID()
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	return nil
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == "" {
		oi.ID = generateUUID()
	}
	return nil
}

// TotalPrice is the line total, price x quantity.
func (oi *OrderItem) TotalPrice() decimal.Decimal {
	return oi.Price.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}

// Transition applies a status change, rejecting anything outside the
// transition table.
func (o *Order) Transition(to string) error {
	if !CanTransition(o.Status, to) {
		return &ErrInvalidTransition{From: o.Status, To: to}
	}
	o.Status = to
	return nil
}

// SumItems returns the sum of line totals across items.
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].TotalPrice())
	}
	return total
}
