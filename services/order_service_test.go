package services

import (
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitobxona_go/models"
)

func bookRow(id, price string, discount interface{}) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "price", "discount_price", "is_active"}).
		AddRow(id, "Kitob "+id, price, discount, true)
}

func orderRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "order_number", "user_telegram_id", "user_name", "user_phone",
		"status", "total_amount", "delivery_address",
	})
}

func TestCreateOrderComputesTotal(t *testing.T) {
	db, mock := newMockDB(t)
	os := NewOrderService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `books`").
		WillReturnRows(bookRow("b-1", "50000", nil))
	mock.ExpectQuery("SELECT \\* FROM `books`").
		WillReturnRows(bookRow("b-2", "30000", nil))
	mock.ExpectExec("INSERT INTO `orders`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `order_items`").
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectCommit()

	order, err := os.CreateOrder(&CreateOrderRequest{
		UserTelegramID:  555,
		UserName:        "Aziz Aziz",
		UserPhone:       "+998901234567",
		DeliveryAddress: "Tashkent",
		Items: []OrderItemRequest{
			{BookID: "b-1", Quantity: 2},
			{BookID: "b-2", Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(dec(t, "130000")), "got %s", order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderSnapshotsDiscountedPrice(t *testing.T) {
	db, mock := newMockDB(t)
	os := NewOrderService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `books`").
		WillReturnRows(bookRow("b-1", "100000", "80000"))
	mock.ExpectExec("INSERT INTO `orders`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `order_items`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	order, err := os.CreateOrder(&CreateOrderRequest{
		UserTelegramID:  555,
		UserName:        "Aziz Aziz",
		UserPhone:       "+998901234567",
		DeliveryAddress: "Tashkent",
		Items:           []OrderItemRequest{{BookID: "b-1", Quantity: 1}},
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].Price.Equal(dec(t, "80000")))
	assert.True(t, order.TotalAmount.Equal(dec(t, "80000")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	db, _ := newMockDB(t)
	os := NewOrderService(db)

	_, err := os.CreateOrder(&CreateOrderRequest{
		UserTelegramID:  555,
		UserName:        "Aziz Aziz",
		UserPhone:       "+998901234567",
		DeliveryAddress: "Tashkent",
	})
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestUpdateItemQuantityRecomputesTotal(t *testing.T) {
	db, mock := newMockDB(t)
	os := NewOrderService(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `order_items` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT \\* FROM `order_items`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "book_id", "quantity", "price"}).
			AddRow("i-1", "o-1", "b-1", 3, "50000"))
	mock.ExpectExec("UPDATE `orders` SET `total_amount`").
		WithArgs("150000", sqlmock.AnyArg(), "o-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Reload after the transaction.
	mock.ExpectQuery("SELECT \\* FROM `orders`").
		WillReturnRows(orderRows().
			AddRow("o-1", "ORD-1", 555, "Aziz Aziz", "+998901234567", "pending", "150000", "Tashkent"))
	mock.ExpectQuery("SELECT \\* FROM `order_items`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "book_id", "quantity", "price"}))

	order, err := os.UpdateItemQuantity("o-1", "i-1", 3)
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(dec(t, "150000")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateItemQuantityUnknownItem(t *testing.T) {
	db, mock := newMockDB(t)
	os := NewOrderService(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `order_items` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := os.UpdateItemQuantity("o-1", "missing", 3)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveItemRecomputesTotal(t *testing.T) {
	db, mock := newMockDB(t)
	os := NewOrderService(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `order_items`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT \\* FROM `order_items`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "book_id", "quantity", "price"}))
	mock.ExpectExec("UPDATE `orders` SET `total_amount`").
		WithArgs("0", sqlmock.AnyArg(), "o-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("SELECT \\* FROM `orders`").
		WillReturnRows(orderRows().
			AddRow("o-1", "ORD-1", 555, "Aziz Aziz", "+998901234567", "pending", "0", "Tashkent"))
	mock.ExpectQuery("SELECT \\* FROM `order_items`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "book_id", "quantity", "price"}))

	order, err := os.RemoveItem("o-1", "i-1")
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionStatusRejectsIllegalMove(t *testing.T) {
	db, mock := newMockDB(t)
	os := NewOrderService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `orders`").
		WillReturnRows(orderRows().
			AddRow("o-1", "ORD-1", 555, "Aziz Aziz", "+998901234567", "delivered", "130000", "Tashkent"))
	mock.ExpectRollback()

	_, err := os.TransitionStatus("o-1", models.OrderStatusConfirmed)

	var invalid *models.ErrInvalidTransition
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "delivered", invalid.From)
	assert.Equal(t, "confirmed", invalid.To)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionToDeliveredBumpsSales(t *testing.T) {
	db, mock := newMockDB(t)
	os := NewOrderService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `orders`").
		WillReturnRows(orderRows().
			AddRow("o-1", "ORD-1", 555, "Aziz Aziz", "+998901234567", "shipped", "130000", "Tashkent"))
	mock.ExpectExec("UPDATE `orders` SET `status`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE books b JOIN order_items oi").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	mock.ExpectQuery("SELECT \\* FROM `orders`").
		WillReturnRows(orderRows().
			AddRow("o-1", "ORD-1", 555, "Aziz Aziz", "+998901234567", "delivered", "130000", "Tashkent"))
	mock.ExpectQuery("SELECT \\* FROM `order_items`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "book_id", "quantity", "price"}))

	order, err := os.TransitionStatus("o-1", models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkTransitionFiltersEligibleRows(t *testing.T) {
	db, mock := newMockDB(t)
	os := NewOrderService(db)

	// Only pending rows can be confirmed; the filtered UPDATE touches
	// two of the three selected orders.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `orders` SET `status`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	affected, err := os.BulkTransition([]string{"o-1", "o-2", "o-3"}, models.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkTransitionUnreachableTarget(t *testing.T) {
	db, _ := newMockDB(t)
	os := NewOrderService(db)

	_, err := os.BulkTransition([]string{"o-1"}, models.OrderStatusPending)

	var invalid *models.ErrInvalidTransition
	assert.ErrorAs(t, err, &invalid)
}
