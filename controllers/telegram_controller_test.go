package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"kitobxona_go/services"
)

func newTelegramRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	tc := NewTelegramController(services.NewTelegramService(db))
	r.POST("/api/telegram/user/create/", tc.CreateUser)
	r.GET("/api/check-user/:telegram_id/", tc.CheckUser)
	r.GET("/api/user/:telegram_id/", tc.GetUser)
	r.POST("/api/feedback/create/", tc.CreateFeedback)
	return r, mock
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func emptyUserRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "telegram_id", "full_name", "phone_number", "username", "is_active",
	})
}

func TestCreateUserEndpoint(t *testing.T) {
	r, mock := newTelegramRouter(t)

	mock.ExpectQuery("SELECT \\* FROM `telegram_users`").
		WillReturnRows(emptyUserRows())
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `telegram_users`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w := doJSON(r, http.MethodPost, "/api/telegram/user/create/", gin.H{
		"telegram_id":  555,
		"full_name":    "Aziz Aziz",
		"phone_number": "+998901234567",
		"username":     "aziz",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(555), body["telegram_id"])
	assert.Equal(t, "Aziz Aziz", body["full_name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserEndpointDuplicate(t *testing.T) {
	r, mock := newTelegramRouter(t)

	mock.ExpectQuery("SELECT \\* FROM `telegram_users`").
		WillReturnRows(emptyUserRows().
			AddRow("u-1", 555, "Aziz Aziz", "+998901234567", "aziz", true))

	w := doJSON(r, http.MethodPost, "/api/telegram/user/create/", gin.H{
		"telegram_id":  555,
		"full_name":    "Aziz Aziz",
		"phone_number": "+998901234567",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserEndpointRejectsNonPositiveID(t *testing.T) {
	r, _ := newTelegramRouter(t)

	w := doJSON(r, http.MethodPost, "/api/telegram/user/create/", gin.H{
		"telegram_id":  -5,
		"full_name":    "Aziz Aziz",
		"phone_number": "+998901234567",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckUserEndpointMiss(t *testing.T) {
	r, mock := newTelegramRouter(t)

	mock.ExpectQuery("SELECT \\* FROM `telegram_users`").
		WillReturnRows(emptyUserRows())

	w := doJSON(r, http.MethodGet, "/api/check-user/999999/", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["exists"])
	assert.Equal(t, float64(999999), body["telegram_id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckUserEndpointHit(t *testing.T) {
	r, mock := newTelegramRouter(t)

	mock.ExpectQuery("SELECT \\* FROM `telegram_users`").
		WillReturnRows(emptyUserRows().
			AddRow("u-1", 555, "Aziz Aziz", "+998901234567", "aziz", true))

	w := doJSON(r, http.MethodGet, "/api/check-user/555/", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["exists"])
	assert.Equal(t, "Aziz Aziz", body["full_name"])
	assert.Equal(t, "+998901234567", body["phone_number"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserEndpointNotFound(t *testing.T) {
	r, mock := newTelegramRouter(t)

	mock.ExpectQuery("SELECT \\* FROM `telegram_users`").
		WillReturnRows(emptyUserRows())

	w := doJSON(r, http.MethodGet, "/api/user/999999/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFeedbackEndpointUnknownUser(t *testing.T) {
	r, mock := newTelegramRouter(t)

	mock.ExpectQuery("SELECT \\* FROM `telegram_users`").
		WillReturnRows(emptyUserRows())

	w := doJSON(r, http.MethodPost, "/api/feedback/create/", gin.H{
		"telegram_id": 777,
		"message":     "salom",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not registered")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFeedbackEndpoint(t *testing.T) {
	r, mock := newTelegramRouter(t)

	mock.ExpectQuery("SELECT \\* FROM `telegram_users`").
		WillReturnRows(emptyUserRows().
			AddRow("u-1", 555, "Aziz Aziz", "+998901234567", "aziz", true))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `feedbacks`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w := doJSON(r, http.MethodPost, "/api/feedback/create/", gin.H{
		"telegram_id": 555,
		"message":     "salom",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Aziz Aziz", body["user_full_name"])
	assert.Equal(t, float64(555), body["user_telegram_id"])
	assert.Equal(t, "salom", body["message"])
	assert.NotEmpty(t, body["created_date"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
