package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func telegramUserRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "telegram_id", "full_name", "phone_number", "username", "is_active",
	})
}

func TestRegisterUser(t *testing.T) {
	db, mock := newMockDB(t)
	ts := NewTelegramService(db)

	mock.ExpectQuery("SELECT \\* FROM `telegram_users`").
		WillReturnRows(telegramUserRows())
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `telegram_users`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	user, err := ts.RegisterUser(&RegisterUserRequest{
		TelegramID:  555,
		FullName:    "Aziz Aziz",
		PhoneNumber: "+998901234567",
		Username:    "aziz",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(555), user.TelegramID)
	assert.NotEmpty(t, user.ID)
	assert.True(t, user.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterUserDuplicateTelegramID(t *testing.T) {
	db, mock := newMockDB(t)
	ts := NewTelegramService(db)

	mock.ExpectQuery("SELECT \\* FROM `telegram_users`").
		WillReturnRows(telegramUserRows().
			AddRow("u-1", 555, "Aziz Aziz", "+998901234567", "aziz", true))

	_, err := ts.RegisterUser(&RegisterUserRequest{
		TelegramID:  555,
		FullName:    "Aziz Aziz",
		PhoneNumber: "+998901234567",
	})
	assert.ErrorIs(t, err, ErrUserExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterUserRejectsBadPhone(t *testing.T) {
	db, _ := newMockDB(t)
	ts := NewTelegramService(db)

	_, err := ts.RegisterUser(&RegisterUserRequest{
		TelegramID:  555,
		FullName:    "Aziz Aziz",
		PhoneNumber: "not-a-phone",
	})
	assert.Error(t, err)
}

func TestCheckUserMissIsNotAnError(t *testing.T) {
	db, mock := newMockDB(t)
	ts := NewTelegramService(db)

	mock.ExpectQuery("SELECT \\* FROM `telegram_users`").
		WillReturnRows(telegramUserRows())

	exists, user, err := ts.CheckUser(999999)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckUserHit(t *testing.T) {
	db, mock := newMockDB(t)
	ts := NewTelegramService(db)

	mock.ExpectQuery("SELECT \\* FROM `telegram_users`").
		WillReturnRows(telegramUserRows().
			AddRow("u-1", 555, "Aziz Aziz", "+998901234567", "aziz", true))

	exists, user, err := ts.CheckUser(555)
	require.NoError(t, err)
	assert.True(t, exists)
	require.NotNil(t, user)
	assert.Equal(t, "Aziz Aziz", user.FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFeedbackUnknownUser(t *testing.T) {
	db, mock := newMockDB(t)
	ts := NewTelegramService(db)

	mock.ExpectQuery("SELECT \\* FROM `telegram_users`").
		WillReturnRows(telegramUserRows())

	_, err := ts.CreateFeedback(&FeedbackRequest{TelegramID: 777, Message: "salom"})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFeedbackEchoesUser(t *testing.T) {
	db, mock := newMockDB(t)
	ts := NewTelegramService(db)

	mock.ExpectQuery("SELECT \\* FROM `telegram_users`").
		WillReturnRows(telegramUserRows().
			AddRow("u-1", 555, "Aziz Aziz", "+998901234567", "aziz", true))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `feedbacks`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	resp, err := ts.CreateFeedback(&FeedbackRequest{TelegramID: 555, Message: "salom"})
	require.NoError(t, err)
	assert.Equal(t, "Aziz Aziz", resp.UserFullName)
	assert.Equal(t, "+998901234567", resp.UserPhone)
	assert.Equal(t, int64(555), resp.UserTelegramID)
	assert.Equal(t, "salom", resp.Message)
	assert.NotEmpty(t, resp.CreatedDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfileIncludesFeedbackCount(t *testing.T) {
	db, mock := newMockDB(t)
	ts := NewTelegramService(db)

	mock.ExpectQuery("SELECT \\* FROM `telegram_users`").
		WillReturnRows(telegramUserRows().
			AddRow("u-1", 555, "Aziz Aziz", "+998901234567", "aziz", true))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `feedbacks`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(3))

	profile, err := ts.GetProfile(555)
	require.NoError(t, err)
	assert.Equal(t, int64(3), profile.FeedbacksCount)
	assert.Equal(t, "https://t.me/aziz", profile.TelegramLink)
	assert.NotEmpty(t, profile.RegistrationDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}
