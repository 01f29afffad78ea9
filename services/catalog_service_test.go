package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authorRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "bio", "photo", "slug"})
}

func TestCreateAuthorDerivesSlug(t *testing.T) {
	db, mock := newMockDB(t)
	cs := NewCatalogService(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `authors`").
		WithArgs("aziz-aziz").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `authors`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	author, err := cs.CreateAuthor(&PersonRequest{Name: "Aziz Aziz"})
	require.NoError(t, err)
	assert.Equal(t, "aziz-aziz", author.Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAuthorDisambiguatesSlugCollision(t *testing.T) {
	db, mock := newMockDB(t)
	cs := NewCatalogService(db)

	// A second author with the same name gets a suffixed slug instead
	// of a uniqueness violation.
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `authors`").
		WithArgs("aziz-aziz").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `authors`").
		WithArgs("aziz-aziz-2").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `authors`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	author, err := cs.CreateAuthor(&PersonRequest{Name: "Aziz Aziz"})
	require.NoError(t, err)
	assert.Equal(t, "aziz-aziz-2", author.Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAuthorRejectsTakenExplicitSlug(t *testing.T) {
	db, mock := newMockDB(t)
	cs := NewCatalogService(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `authors`").
		WithArgs("aziz").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	_, err := cs.CreateAuthor(&PersonRequest{Name: "Aziz Aziz", Slug: "aziz"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAuthorRestrictedWhileBooksExist(t *testing.T) {
	db, mock := newMockDB(t)
	cs := NewCatalogService(db)

	mock.ExpectQuery("SELECT \\* FROM `authors`").
		WillReturnRows(authorRows().AddRow("a-1", "Aziz Aziz", "", "", "aziz-aziz"))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `books`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(2))

	err := cs.DeleteAuthor("a-1")
	assert.ErrorIs(t, err, ErrHasBooks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAuthorWithoutBooks(t *testing.T) {
	db, mock := newMockDB(t)
	cs := NewCatalogService(db)

	mock.ExpectQuery("SELECT \\* FROM `authors`").
		WillReturnRows(authorRows().AddRow("a-1", "Aziz Aziz", "", "", "aziz-aziz"))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `books`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `authors`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, cs.DeleteAuthor("a-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTranslatorDetachesBooks(t *testing.T) {
	db, mock := newMockDB(t)
	cs := NewCatalogService(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `translators`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}).
			AddRow("t-1", "Tarjimon", "tarjimon"))
	mock.ExpectExec("UPDATE `books` SET").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM `translators`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, cs.DeleteTranslator("t-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAuthorNeverTouchesSlug(t *testing.T) {
	db, mock := newMockDB(t)
	cs := NewCatalogService(db)

	mock.ExpectQuery("SELECT \\* FROM `authors`").
		WillReturnRows(authorRows().AddRow("a-1", "Old Name", "", "", "old-name"))
	mock.ExpectBegin()
	// The update writes name/bio/photo only; the slug column stays as
	// created.
	mock.ExpectExec("UPDATE `authors` SET `bio`=\\?,`name`=\\?,`photo`=\\?,`updated_at`=\\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	author, err := cs.UpdateAuthor("a-1", &PersonRequest{Name: "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "old-name", author.Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorStatsEmptySet(t *testing.T) {
	db, mock := newMockDB(t)
	cs := NewCatalogService(db)

	mock.ExpectQuery("SELECT \\* FROM `authors`").
		WillReturnRows(authorRows().AddRow("a-1", "Aziz Aziz", "", "", "aziz-aziz"))
	mock.ExpectQuery("SELECT \\* FROM `books`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "price", "views_count", "sales_count"}))

	stats, err := cs.AuthorStats("a-1")
	require.NoError(t, err)
	assert.Zero(t, stats.BooksCount)
	assert.True(t, stats.AvgFinalPrice.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorStatsAggregates(t *testing.T) {
	db, mock := newMockDB(t)
	cs := NewCatalogService(db)

	mock.ExpectQuery("SELECT \\* FROM `authors`").
		WillReturnRows(authorRows().AddRow("a-1", "Aziz Aziz", "", "", "aziz-aziz"))
	mock.ExpectQuery("SELECT \\* FROM `books`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "price", "discount_price", "views_count", "sales_count"}).
			AddRow("b-1", "100000", "80000", 200, 10).
			AddRow("b-2", "40000", nil, 100, 5))

	stats, err := cs.AuthorStats("a-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.BooksCount)
	assert.Equal(t, int64(15), stats.TotalSales)
	assert.Equal(t, int64(300), stats.TotalViews)
	assert.True(t, stats.AvgFinalPrice.Equal(dec(t, "60000")), "got %s", stats.AvgFinalPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}
