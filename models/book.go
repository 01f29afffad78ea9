package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Book language / alphabet / cover / format enumerations.
const (
	LanguageUzbek   = "uzbek"
	LanguageRussian = "russian"
	LanguageEnglish = "english"
	LanguageOther   = "other"

	AlphabetCyrillic = "cyrillic"
	AlphabetLatin    = "latin"
	AlphabetArabic   = "arabic"

	CoverHard = "hard"
	CoverSoft = "soft"

	FormatA4    = "A4"
	FormatA5    = "A5"
	FormatA6    = "A6"
	FormatOther = "other"
)

// Book is the central catalog entity. Author, genre and category are
// required and restrict-on-delete; translator, publisher and printing
// house are optional and cleared when their record is deleted.
// ViewsCount and SalesCount only ever grow: they are incremented with
// relative UPDATEs and never assigned from request input.
type Book struct {
	ID    string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title string `gorm:"type:varchar(500);not null;index" json:"title"`

	AuthorID     string  `gorm:"type:varchar(36);index;not null" json:"author_id"`
	TranslatorID *string `gorm:"type:varchar(36);index" json:"translator_id,omitempty"`
	GenreID      string  `gorm:"type:varchar(36);index;not null" json:"genre_id"`
	CategoryID   string  `gorm:"type:varchar(36);index;not null" json:"category_id"`

	Description string `gorm:"type:text" json:"description,omitempty"`
	AgeLimit    *int   `gorm:"type:int" json:"age_limit,omitempty"`

	Pages     int             `gorm:"not null" json:"pages"`
	Language  string          `gorm:"type:varchar(20);default:uzbek" json:"language"`
	Alphabet  string          `gorm:"type:varchar(20)" json:"alphabet"`
	CoverType string          `gorm:"type:varchar(20)" json:"cover_type"`
	Format    string          `gorm:"type:varchar(20)" json:"format"`
	Height    decimal.Decimal `gorm:"type:decimal(5,2)" json:"height"`
	Width     decimal.Decimal `gorm:"type:decimal(5,2)" json:"width"`
	Thickness decimal.Decimal `gorm:"type:decimal(5,2)" json:"thickness"`

	PublisherID     *string `gorm:"type:varchar(36);index" json:"publisher_id,omitempty"`
	PrintingHouseID *string `gorm:"type:varchar(36);index" json:"printing_house_id,omitempty"`
	PublicationYear int     `gorm:"not null" json:"publication_year"`

	Price         decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"price"`
	DiscountPrice *decimal.Decimal `gorm:"type:decimal(10,2)" json:"discount_price,omitempty"`
	StockQuantity int              `gorm:"default:0" json:"stock_quantity"`

	CoverImage string `gorm:"type:varchar(500);not null" json:"cover_image"`

	ViewsCount int64 `gorm:"default:0;index:idx_books_views" json:"views_count"`
	SalesCount int64 `gorm:"default:0;index:idx_books_sales" json:"sales_count"`

	IsActive   bool `gorm:"default:true" json:"is_active"`
	IsFeatured bool `gorm:"default:false;index" json:"is_featured"`
	IsNew      bool `gorm:"default:false;index" json:"is_new"`

	Slug      string    `gorm:"type:varchar(500);uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author           Author         `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Translator       *Translator    `gorm:"foreignKey:TranslatorID" json:"translator,omitempty"`
	Genre            Genre          `gorm:"foreignKey:GenreID" json:"genre,omitempty"`
	Category         Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Publisher        *Publisher     `gorm:"foreignKey:PublisherID" json:"publisher,omitempty"`
	PrintingHouse    *PrintingHouse `gorm:"foreignKey:PrintingHouseID" json:"printing_house,omitempty"`
	AdditionalImages []BookImage    `gorm:"many2many:book_additional_images" json:"additional_images,omitempty"`
}

// BookImage is a supplementary gallery image shared between books
// through a many-to-many set.
type BookImage struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Image       string    `gorm:"type:varchar(500);not null" json:"image"`
	Description string    `gorm:"type:varchar(255)" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	Books []Book `gorm:"many2many:book_additional_images" json:"books,omitempty"`
}

func (Book) TableName() string {
	return "books"
}

func (BookImage) TableName() string {
	return "book_images"
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = generateUUID()
	}
	return nil
}

func (bi *BookImage) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == "" {
		bi.ID = generateUUID()
	}
	return nil
}

var oneHundred = decimal.NewFromInt(100)

// hasDiscount treats a null or zero discount price the same way: no
// discount. A stored 0 is a cleared discount, not a free book.
func (b *Book) hasDiscount() bool {
	return b.DiscountPrice != nil && b.DiscountPrice.IsPositive()
}

// DiscountPercentage is the discount relative to the list price,
// rounded to the nearest whole percent. 0 when no discount is set.
func (b *Book) DiscountPercentage() int {
	if !b.hasDiscount() || !b.Price.IsPositive() {
		return 0
	}
	pct := b.Price.Sub(*b.DiscountPrice).Div(b.Price).Mul(oneHundred)
	return int(pct.Round(0).IntPart())
}

// FinalPrice is the effective selling price: the discount price when
// one is set, the list price otherwise.
func (b *Book) FinalPrice() decimal.Decimal {
	if b.hasDiscount() {
		return *b.DiscountPrice
	}
	return b.Price
}

// IsInStock reports whether at least one copy is available.
func (b *Book) IsInStock() bool {
	return b.StockQuantity > 0
}

// ConversionRate is sales over views as a percentage, rounded to two
// decimal places. 0 when the book has never been viewed.
func (b *Book) ConversionRate() float64 {
	if b.ViewsCount == 0 {
		return 0
	}
	rate := decimal.NewFromInt(b.SalesCount).
		Div(decimal.NewFromInt(b.ViewsCount)).
		Mul(oneHundred)
	return rate.Round(2).InexactFloat64()
}

// BookStats aggregates sales, views and pricing over a set of books.
// Recomputed from the live set on every read, never stored.
type BookStats struct {
	BooksCount    int64           `json:"books_count"`
	TotalSales    int64           `json:"total_sales"`
	TotalViews    int64           `json:"total_views"`
	AvgFinalPrice decimal.Decimal `json:"avg_final_price"`
}

// AggregateStats sums sales and views and averages the final price
// across books. An empty set yields all zeroes.
func AggregateStats(books []Book) BookStats {
	stats := BookStats{AvgFinalPrice: decimal.Zero}
	if len(books) == 0 {
		return stats
	}

	priceSum := decimal.Zero
	for i := range books {
		stats.TotalSales += books[i].SalesCount
		stats.TotalViews += books[i].ViewsCount
		priceSum = priceSum.Add(books[i].FinalPrice())
	}
	stats.BooksCount = int64(len(books))
	stats.AvgFinalPrice = priceSum.Div(decimal.NewFromInt(stats.BooksCount)).Round(2)
	return stats
}

// BookResponse is the serialized book together with its computed
// display properties.
type BookResponse struct {
	Book
	DiscountPercentage int             `json:"discount_percentage"`
	FinalPrice         decimal.Decimal `json:"final_price"`
	InStock            bool            `json:"is_in_stock"`
	ConversionRate     float64         `json:"conversion_rate"`
}

// ToResponse attaches the derived metrics to the book.
func (b *Book) ToResponse() BookResponse {
	return BookResponse{
		Book:               *b,
		DiscountPercentage: b.DiscountPercentage(),
		FinalPrice:         b.FinalPrice(),
		InStock:            b.IsInStock(),
		ConversionRate:     b.ConversionRate(),
	}
}
