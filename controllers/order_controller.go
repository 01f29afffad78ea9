package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"kitobxona_go/models"
	"kitobxona_go/services"
	"kitobxona_go/utils"
)

// OrderController exposes order intake and lifecycle management to the
// admin console.
type OrderController struct {
	orderService *services.OrderService
}

func NewOrderController(orderService *services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// TransitionRequest requests a single order's status change.
type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

// BulkTransitionRequest applies one status change to many orders.
type BulkTransitionRequest struct {
	IDs    []string `json:"ids" binding:"required,min=1"`
	Status string   `json:"status" binding:"required"`
}

// QuantityRequest changes an order item's quantity.
type QuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		bindError(c, err)
		return
	}
	order, err := oc.orderService.CreateOrder(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Created(c, order)
}

func (oc *OrderController) GetOrder(c *gin.Context) {
	order, err := oc.orderService.GetOrder(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, order)
}

func (oc *OrderController) ListOrders(c *gin.Context) {
	page, limit := pageParams(c)
	status := c.Query("status")
	if status != "" && !models.IsValidOrderStatus(status) {
		utils.Error(c, utils.CodeError, "unknown order status")
		return
	}
	orders, total, err := oc.orderService.GetOrders(page, limit, status)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Paginate(c, orders, total, page, limit)
}

func (oc *OrderController) ListUserOrders(c *gin.Context) {
	telegramID, err := strconv.ParseInt(c.Param("telegram_id"), 10, 64)
	if err != nil {
		utils.Error(c, utils.CodeError, "telegram_id must be an integer")
		return
	}
	orders, err := oc.orderService.GetUserOrders(telegramID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, orders)
}

func (oc *OrderController) UpdateOrder(c *gin.Context) {
	var req services.UpdateOrderRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		bindError(c, err)
		return
	}
	order, err := oc.orderService.UpdateOrder(c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, order)
}

func (oc *OrderController) DeleteOrder(c *gin.Context) {
	if err := oc.orderService.DeleteOrder(c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, nil)
}

func (oc *OrderController) AddItem(c *gin.Context) {
	var req services.OrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	order, err := oc.orderService.AddItem(c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, order)
}

func (oc *OrderController) UpdateItemQuantity(c *gin.Context) {
	var req QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	order, err := oc.orderService.UpdateItemQuantity(c.Param("id"), c.Param("item_id"), req.Quantity)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, order)
}

func (oc *OrderController) RemoveItem(c *gin.Context) {
	order, err := oc.orderService.RemoveItem(c.Param("id"), c.Param("item_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, order)
}

func (oc *OrderController) TransitionStatus(c *gin.Context) {
	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if !models.IsValidOrderStatus(req.Status) {
		utils.Error(c, utils.CodeError, "unknown order status")
		return
	}
	order, err := oc.orderService.TransitionStatus(c.Param("id"), req.Status)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, order)
}

func (oc *OrderController) BulkTransition(c *gin.Context) {
	var req BulkTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if !models.IsValidOrderStatus(req.Status) {
		utils.Error(c, utils.CodeError, "unknown order status")
		return
	}
	affected, err := oc.orderService.BulkTransition(req.IDs, req.Status)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, gin.H{"affected": affected})
}
