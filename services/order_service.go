package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"kitobxona_go/models"
	"kitobxona_go/websocket"
)

// OrderService implements order intake and lifecycle. Every item
// mutation recomputes total_amount inside the same transaction so the
// stored total never drifts from the item rows.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// OrderItemRequest is one line of an incoming order.
type OrderItemRequest struct {
	BookID   string `json:"book_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	UserTelegramID  int64              `json:"user_telegram_id" binding:"required"`
	UserName        string             `json:"user_name" binding:"required,max=255"`
	UserPhone       string             `json:"user_phone" binding:"required,phone"`
	DeliveryAddress string             `json:"delivery_address" binding:"required"`
	Notes           string             `json:"notes"`
	Items           []OrderItemRequest `json:"items"`
}

// UpdateOrderRequest edits contact fields on an order. Status changes
// go through TransitionStatus instead.
type UpdateOrderRequest struct {
	UserName        string `json:"user_name" binding:"required,max=255"`
	UserPhone       string `json:"user_phone" binding:"required,phone"`
	DeliveryAddress string `json:"delivery_address" binding:"required"`
	Notes           string `json:"notes"`
}

// CreateOrder stores the order and its items atomically. Unit prices
// are snapshotted at the book's current final price so later catalog
// edits never rewrite an order's history.
func (os *OrderService) CreateOrder(req *CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	order := models.Order{
		OrderNumber:     fmt.Sprintf("ORD-%d", time.Now().UnixNano()),
		UserTelegramID:  req.UserTelegramID,
		UserName:        req.UserName,
		UserPhone:       req.UserPhone,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
		Status:          models.OrderStatusPending,
	}

	err := os.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range req.Items {
			var book models.Book
			if err := tx.First(&book, "id = ? AND is_active = ?", item.BookID, true).Error; err != nil {
				return notFoundOr(err, "book")
			}
			order.Items = append(order.Items, models.OrderItem{
				BookID:   book.ID,
				Price:    book.FinalPrice(),
				Quantity: item.Quantity,
			})
		}
		order.TotalAmount = models.SumItems(order.Items)
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	os.broadcast("order_created", &order)
	return &order, nil
}

// GetOrder loads an order with its items and their books.
func (os *OrderService) GetOrder(id string) (*models.Order, error) {
	var order models.Order
	err := os.db.
		Preload("Items").
		Preload("Items.Book").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, notFoundOr(err, "order")
	}
	return &order, nil
}

// GetOrders lists orders newest first, optionally filtered by status.
func (os *OrderService) GetOrders(page, limit int, status string) ([]models.Order, int64, error) {
	q := os.db.Model(&models.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	var orders []models.Order
	err := q.
		Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

// GetUserOrders lists one telegram user's orders, newest first.
func (os *OrderService) GetUserOrders(telegramID int64) ([]models.Order, error) {
	var orders []models.Order
	err := os.db.
		Preload("Items").
		Where("user_telegram_id = ?", telegramID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("user orders: %w", err)
	}
	return orders, nil
}

// UpdateOrder edits contact fields on an order.
func (os *OrderService) UpdateOrder(id string, req *UpdateOrderRequest) (*models.Order, error) {
	var order models.Order
	if err := os.db.First(&order, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "order")
	}

	updates := map[string]interface{}{
		"user_name":        req.UserName,
		"user_phone":       req.UserPhone,
		"delivery_address": req.DeliveryAddress,
		"notes":            req.Notes,
	}
	if err := os.db.Model(&order).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	return os.GetOrder(id)
}

// AddItem appends a line to an order and recomputes the total.
func (os *OrderService) AddItem(orderID string, req *OrderItemRequest) (*models.Order, error) {
	err := os.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			return notFoundOr(err, "order")
		}
		var book models.Book
		if err := tx.First(&book, "id = ?", req.BookID).Error; err != nil {
			return notFoundOr(err, "book")
		}
		item := models.OrderItem{
			OrderID:  orderID,
			BookID:   book.ID,
			Price:    book.FinalPrice(),
			Quantity: req.Quantity,
		}
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("add order item: %w", err)
		}
		return os.recomputeTotal(tx, orderID)
	})
	if err != nil {
		return nil, err
	}
	return os.GetOrder(orderID)
}

// UpdateItemQuantity changes one line's quantity and recomputes the
// total. The snapshotted price is kept.
func (os *OrderService) UpdateItemQuantity(orderID, itemID string, quantity int) (*models.Order, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	err := os.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.OrderItem{}).
			Where("id = ? AND order_id = ?", itemID, orderID).
			Update("quantity", quantity)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order item: %w", ErrNotFound)
		}
		return os.recomputeTotal(tx, orderID)
	})
	if err != nil {
		return nil, err
	}
	return os.GetOrder(orderID)
}

// RemoveItem deletes one line and recomputes the total. Removing the
// last line is allowed; the order keeps a zero total until cancelled.
func (os *OrderService) RemoveItem(orderID, itemID string) (*models.Order, error) {
	err := os.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND order_id = ?", itemID, orderID).Delete(&models.OrderItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order item: %w", ErrNotFound)
		}
		return os.recomputeTotal(tx, orderID)
	})
	if err != nil {
		return nil, err
	}
	return os.GetOrder(orderID)
}

// TransitionStatus moves an order along its lifecycle. Reaching
// delivered also bumps the sales counters of the ordered books, in the
// same transaction as the status write.
func (os *OrderService) TransitionStatus(id, to string) (*models.Order, error) {
	var order models.Order
	err := os.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "order")
		}
		if err := order.Transition(to); err != nil {
			return err
		}
		if err := tx.Model(&order).Update("status", to).Error; err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		if to == models.OrderStatusDelivered {
			return os.bumpSales(tx, []string{id})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	os.broadcast("order_status_changed", &order)
	return os.GetOrder(id)
}

// BulkTransition applies one status change to many orders with a
// single filtered UPDATE: only rows currently in a state that legally
// reaches the target are touched, the rest are skipped silently.
func (os *OrderService) BulkTransition(ids []string, to string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	fromStates := models.TransitionSources(to)
	if len(fromStates) == 0 {
		return 0, &models.ErrInvalidTransition{From: "*", To: to}
	}

	var affected int64
	err := os.db.Transaction(func(tx *gorm.DB) error {
		if to == models.OrderStatusDelivered {
			// Counters first, while the rows still hold their
			// pre-transition status.
			var eligible []string
			if err := tx.Model(&models.Order{}).
				Where("id IN ? AND status IN ?", ids, fromStates).
				Pluck("id", &eligible).Error; err != nil {
				return err
			}
			if len(eligible) > 0 {
				if err := os.bumpSales(tx, eligible); err != nil {
					return err
				}
			}
		}
		res := tx.Model(&models.Order{}).
			Where("id IN ? AND status IN ?", ids, fromStates).
			Update("status", to)
		if res.Error != nil {
			return fmt.Errorf("bulk transition: %w", res.Error)
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// DeleteOrder removes an order and its items.
func (os *OrderService) DeleteOrder(id string) error {
	var order models.Order
	if err := os.db.First(&order, "id = ?", id).Error; err != nil {
		return notFoundOr(err, "order")
	}
	return os.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
}

// recomputeTotal rewrites total_amount from the live item rows.
func (os *OrderService) recomputeTotal(tx *gorm.DB, orderID string) error {
	var items []models.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return err
	}
	return tx.Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("total_amount", models.SumItems(items)).Error
}

// bumpSales adds each delivered order's quantities onto the books'
// sales counters with relative increments.
func (os *OrderService) bumpSales(tx *gorm.DB, orderIDs []string) error {
	return tx.Exec(
		"UPDATE books b JOIN order_items oi ON oi.book_id = b.id "+
			"SET b.sales_count = b.sales_count + oi.quantity WHERE oi.order_id IN ?",
		orderIDs,
	).Error
}

func (os *OrderService) broadcast(eventType string, order *models.Order) {
	websocket.BroadcastOrderEvent(&websocket.OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		TotalAmount: order.TotalAmount.String(),
		Timestamp:   time.Now().Unix(),
	})
}
