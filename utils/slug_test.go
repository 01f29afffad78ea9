package utils

import (
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Aziz Aziz", "aziz-aziz"},
		{"  O'tkan Kunlar  ", "o-tkan-kunlar"},
		{"Mehrobdan Chayon!", "mehrobdan-chayon"},
		{"Café, Crème & Brûlée", "cafe-creme-brulee"},
		{"UPPER CASE", "upper-case"},
		{"---", "item"},
		{"", "item"},
		{"a--b___c", "a-b-c"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "input %q", tt.in)
	}
}

func TestSlugifyCapsLength(t *testing.T) {
	long := strings.Repeat("abc ", 200)
	slug := Slugify(long)
	assert.LessOrEqual(t, len(slug), slugMaxLen)
	assert.False(t, strings.HasSuffix(slug, "-"))
}

func newSlugTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func countQuery() *regexp.Regexp {
	return regexp.MustCompile("SELECT count\\(\\*\\) FROM `authors`")
}

func TestEnsureUniqueSlugFreeBase(t *testing.T) {
	db, mock := newSlugTestDB(t)

	mock.ExpectQuery(countQuery().String()).
		WithArgs("aziz-aziz").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

	slug, err := EnsureUniqueSlug(db, "authors", "slug", "aziz-aziz")
	require.NoError(t, err)
	assert.Equal(t, "aziz-aziz", slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureUniqueSlugSuffixesOnCollision(t *testing.T) {
	db, mock := newSlugTestDB(t)

	// Two authors named "Aziz Aziz": the second probe lands on -2.
	mock.ExpectQuery(countQuery().String()).
		WithArgs("aziz-aziz").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectQuery(countQuery().String()).
		WithArgs("aziz-aziz-2").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

	slug, err := EnsureUniqueSlug(db, "authors", "slug", "aziz-aziz")
	require.NoError(t, err)
	assert.Equal(t, "aziz-aziz-2", slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureUniqueSlugSkipsTakenSuffixes(t *testing.T) {
	db, mock := newSlugTestDB(t)

	mock.ExpectQuery(countQuery().String()).
		WithArgs("tarix").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectQuery(countQuery().String()).
		WithArgs("tarix-2").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectQuery(countQuery().String()).
		WithArgs("tarix-3").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

	slug, err := EnsureUniqueSlug(db, "authors", "slug", "tarix")
	require.NoError(t, err)
	assert.Equal(t, "tarix-3", slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}
