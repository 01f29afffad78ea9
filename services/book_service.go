package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kitobxona_go/config"
	"kitobxona_go/middleware"
	"kitobxona_go/models"
	"kitobxona_go/utils"
)

var redisCtx = context.Background()

// BookService manages the catalog's central entity. Views are counted
// off the request path through a buffered queue so that a public page
// load never waits on the counter write.
type BookService struct {
	db             *gorm.DB
	viewStatsQueue chan *BookViewStat
}

// BookViewStat records one public book view.
type BookViewStat struct {
	BookID    string
	Timestamp time.Time
}

func NewBookService(db *gorm.DB) *BookService {
	bs := &BookService{
		db:             db,
		viewStatsQueue: make(chan *BookViewStat, 2000),
	}
	bs.startStatsWorkers()
	return bs
}

// ==================== Requests ====================

// CreateBookRequest carries every writable book field. Counters and
// slug are intentionally absent from updates: the slug is assigned
// once and the counters only move through increment events.
type CreateBookRequest struct {
	Title        string  `json:"title" binding:"required,max=500"`
	AuthorID     string  `json:"author_id" binding:"required"`
	TranslatorID *string `json:"translator_id"`
	GenreID      string  `json:"genre_id" binding:"required"`
	CategoryID   string  `json:"category_id" binding:"required"`

	Description string `json:"description"`
	AgeLimit    *int   `json:"age_limit" binding:"omitempty,gte=0,lte=18"`

	Pages     int             `json:"pages" binding:"required,gt=0"`
	Language  string          `json:"language" binding:"omitempty,oneof=uzbek russian english other"`
	Alphabet  string          `json:"alphabet" binding:"required,oneof=cyrillic latin arabic"`
	CoverType string          `json:"cover_type" binding:"required,oneof=hard soft"`
	Format    string          `json:"format" binding:"required,oneof=A4 A5 A6 other"`
	Height    decimal.Decimal `json:"height"`
	Width     decimal.Decimal `json:"width"`
	Thickness decimal.Decimal `json:"thickness"`

	PublisherID     *string `json:"publisher_id"`
	PrintingHouseID *string `json:"printing_house_id"`
	PublicationYear int     `json:"publication_year" binding:"required,gt=0"`

	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price"`
	StockQuantity int              `json:"stock_quantity" binding:"gte=0"`

	CoverImage string   `json:"cover_image" binding:"required,max=500"`
	ImageIDs   []string `json:"image_ids"`

	IsActive   *bool  `json:"is_active"`
	IsFeatured bool   `json:"is_featured"`
	IsNew      bool   `json:"is_new"`
	Slug       string `json:"slug" binding:"omitempty,max=500"`
}

// BookFilters narrows admin and public book listings.
type BookFilters struct {
	AuthorID   string
	GenreID    string
	CategoryID string
	Search     string
	ActiveOnly bool
	Featured   *bool
	New        *bool
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

// ==================== CRUD ====================

// CreateBook validates the references, assigns the slug and stores the
// book. A discount at or above the list price is stored as-is but
// logged for the operator; the catalog treats it as a data-quality
// signal, not a hard error.
func (bs *BookService) CreateBook(req *CreateBookRequest) (*models.Book, error) {
	if !req.Price.IsPositive() {
		return nil, fmt.Errorf("price must be positive")
	}
	if err := bs.checkReferences(req); err != nil {
		return nil, err
	}

	slug := utils.Slugify(req.Title)
	if req.Slug != "" {
		slug = utils.Slugify(req.Slug)
	}
	slug, err := utils.EnsureUniqueSlug(bs.db, "books", "slug", slug)
	if err != nil {
		return nil, err
	}

	if req.DiscountPrice != nil && req.DiscountPrice.GreaterThanOrEqual(req.Price) {
		middleware.InfoLogger("discount price at or above list price",
			zap.String("title", req.Title),
			zap.String("price", req.Price.String()),
			zap.String("discount_price", req.DiscountPrice.String()),
		)
	}

	language := req.Language
	if language == "" {
		language = models.LanguageUzbek
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	book := models.Book{
		Title:           req.Title,
		AuthorID:        req.AuthorID,
		TranslatorID:    req.TranslatorID,
		GenreID:         req.GenreID,
		CategoryID:      req.CategoryID,
		Description:     req.Description,
		AgeLimit:        req.AgeLimit,
		Pages:           req.Pages,
		Language:        language,
		Alphabet:        req.Alphabet,
		CoverType:       req.CoverType,
		Format:          req.Format,
		Height:          req.Height,
		Width:           req.Width,
		Thickness:       req.Thickness,
		PublisherID:     req.PublisherID,
		PrintingHouseID: req.PrintingHouseID,
		PublicationYear: req.PublicationYear,
		Price:           req.Price,
		DiscountPrice:   req.DiscountPrice,
		StockQuantity:   req.StockQuantity,
		CoverImage:      req.CoverImage,
		IsActive:        isActive,
		IsFeatured:      req.IsFeatured,
		IsNew:           req.IsNew,
		Slug:            slug,
	}

	err = bs.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&book).Error; err != nil {
			return fmt.Errorf("create book: %w", err)
		}
		if len(req.ImageIDs) > 0 {
			return bs.replaceImages(tx, &book, req.ImageIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	go bs.clearBookCaches(book.Slug)
	return &book, nil
}

// UpdateBook rewrites the writable fields. The slug, views and sales
// counters are never touched here.
func (bs *BookService) UpdateBook(id string, req *CreateBookRequest) (*models.Book, error) {
	var book models.Book
	if err := bs.db.First(&book, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "book")
	}
	if !req.Price.IsPositive() {
		return nil, fmt.Errorf("price must be positive")
	}
	if err := bs.checkReferences(req); err != nil {
		return nil, err
	}

	if req.DiscountPrice != nil && req.DiscountPrice.GreaterThanOrEqual(req.Price) {
		middleware.InfoLogger("discount price at or above list price",
			zap.String("book_id", id),
			zap.String("price", req.Price.String()),
			zap.String("discount_price", req.DiscountPrice.String()),
		)
	}

	language := req.Language
	if language == "" {
		language = models.LanguageUzbek
	}
	isActive := book.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	updates := map[string]interface{}{
		"title":             req.Title,
		"author_id":         req.AuthorID,
		"translator_id":     req.TranslatorID,
		"genre_id":          req.GenreID,
		"category_id":       req.CategoryID,
		"description":       req.Description,
		"age_limit":         req.AgeLimit,
		"pages":             req.Pages,
		"language":          language,
		"alphabet":          req.Alphabet,
		"cover_type":        req.CoverType,
		"format":            req.Format,
		"height":            req.Height,
		"width":             req.Width,
		"thickness":         req.Thickness,
		"publisher_id":      req.PublisherID,
		"printing_house_id": req.PrintingHouseID,
		"publication_year":  req.PublicationYear,
		"price":             req.Price,
		"discount_price":    req.DiscountPrice,
		"stock_quantity":    req.StockQuantity,
		"cover_image":       req.CoverImage,
		"is_active":         isActive,
		"is_featured":       req.IsFeatured,
		"is_new":            req.IsNew,
	}

	err := bs.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&book).Updates(updates).Error; err != nil {
			return fmt.Errorf("update book: %w", err)
		}
		if req.ImageIDs != nil {
			return bs.replaceImages(tx, &book, req.ImageIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := bs.db.First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	go bs.clearBookCaches(book.Slug)
	return &book, nil
}

// DeleteBook rejects the delete while any order item references the
// book, preserving historical pricing.
func (bs *BookService) DeleteBook(id string) error {
	var book models.Book
	if err := bs.db.First(&book, "id = ?", id).Error; err != nil {
		return notFoundOr(err, "book")
	}

	var refs int64
	if err := bs.db.Model(&models.OrderItem{}).Where("book_id = ?", id).Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("book appears in %d order items: %w", refs, ErrBookInOrders)
	}

	err := bs.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM book_additional_images WHERE book_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM collection_books WHERE book_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&book).Error
	})
	if err != nil {
		return err
	}

	go bs.clearBookCaches(book.Slug)
	return nil
}

// GetBook loads a book by id with its references, for the admin
// console. No view counting here.
func (bs *BookService) GetBook(id string) (*models.Book, error) {
	var book models.Book
	err := bs.db.
		Preload("Author").
		Preload("Translator").
		Preload("Genre").
		Preload("Category").
		Preload("Publisher").
		Preload("PrintingHouse").
		Preload("AdditionalImages").
		First(&book, "id = ?", id).Error
	if err != nil {
		return nil, notFoundOr(err, "book")
	}
	return &book, nil
}

// GetBookBySlug serves the public detail page: cache-first, and every
// hit queues a view-count increment.
func (bs *BookService) GetBookBySlug(slug string) (*models.Book, error) {
	cacheKey := fmt.Sprintf("book:%s", slug)
	if config.RedisClient != nil {
		cached, err := config.RedisClient.Get(redisCtx, cacheKey).Result()
		if err == nil {
			var book models.Book
			if json.Unmarshal([]byte(cached), &book) == nil {
				bs.queueView(book.ID)
				return &book, nil
			}
		}
	}

	var book models.Book
	err := bs.db.
		Preload("Author").
		Preload("Translator").
		Preload("Genre").
		Preload("Category").
		Preload("Publisher").
		Preload("PrintingHouse").
		Preload("AdditionalImages").
		Where("is_active = ?", true).
		First(&book, "slug = ?", slug).Error
	if err != nil {
		return nil, notFoundOr(err, "book")
	}

	bs.queueView(book.ID)

	go func() {
		if config.RedisClient != nil {
			data, _ := json.Marshal(book)
			config.RedisClient.Set(redisCtx, cacheKey, data, 10*time.Minute)
		}
	}()

	return &book, nil
}

// GetBooks lists books with filters and pagination, newest first.
func (bs *BookService) GetBooks(page, limit int, filters BookFilters) ([]models.Book, int64, error) {
	q := bs.db.Model(&models.Book{})

	if filters.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if filters.AuthorID != "" {
		q = q.Where("author_id = ?", filters.AuthorID)
	}
	if filters.GenreID != "" {
		q = q.Where("genre_id = ?", filters.GenreID)
	}
	if filters.CategoryID != "" {
		q = q.Where("category_id = ?", filters.CategoryID)
	}
	if filters.Featured != nil {
		q = q.Where("is_featured = ?", *filters.Featured)
	}
	if filters.New != nil {
		q = q.Where("is_new = ?", *filters.New)
	}
	if filters.MinPrice != nil {
		q = q.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		q = q.Where("price <= ?", *filters.MaxPrice)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	var books []models.Book
	err := q.
		Preload("Author").
		Preload("Genre").
		Preload("Category").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&books).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	return books, total, nil
}

// GetHotBooks returns the sales leaders, cached briefly in Redis.
func (bs *BookService) GetHotBooks(limit int) ([]models.Book, error) {
	cacheKey := "hot:books"
	if config.RedisClient != nil {
		cached, err := config.RedisClient.Get(redisCtx, cacheKey).Result()
		if err == nil {
			var books []models.Book
			if json.Unmarshal([]byte(cached), &books) == nil {
				return books, nil
			}
		}
	}

	var books []models.Book
	err := bs.db.
		Where("is_active = ?", true).
		Order("sales_count DESC, views_count DESC, created_at DESC").
		Limit(limit).
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("hot books: %w", err)
	}

	go func() {
		if config.RedisClient != nil {
			data, _ := json.Marshal(books)
			config.RedisClient.Set(redisCtx, cacheKey, data, 10*time.Minute)
		}
	}()

	return books, nil
}

// ==================== Bulk admin actions ====================

// BulkSetNew flips the is_new flag on the selected books.
func (bs *BookService) BulkSetNew(ids []string, value bool) (int64, error) {
	return bs.bulkFlag(ids, "is_new", value)
}

// BulkSetFeatured flips the is_featured flag on the selected books.
func (bs *BookService) BulkSetFeatured(ids []string, value bool) (int64, error) {
	return bs.bulkFlag(ids, "is_featured", value)
}

// BulkSetActive activates or deactivates the selected books.
func (bs *BookService) BulkSetActive(ids []string, value bool) (int64, error) {
	return bs.bulkFlag(ids, "is_active", value)
}

func (bs *BookService) bulkFlag(ids []string, column string, value bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := bs.db.Model(&models.Book{}).Where("id IN ?", ids).Update(column, value)
	if res.Error != nil {
		return 0, fmt.Errorf("bulk update %s: %w", column, res.Error)
	}
	go bs.clearListCaches()
	return res.RowsAffected, nil
}

// ==================== View counting ====================

func (bs *BookService) queueView(bookID string) {
	select {
	case bs.viewStatsQueue <- &BookViewStat{BookID: bookID, Timestamp: time.Now()}:
	default:
		// Queue full; losing a view beats blocking a page load.
	}
}

func (bs *BookService) startStatsWorkers() {
	for i := 0; i < 5; i++ {
		go bs.processViewStats()
	}
}

func (bs *BookService) processViewStats() {
	for stat := range bs.viewStatsQueue {
		// Relative increment keeps the counter monotone under
		// concurrent views.
		bs.db.Exec("UPDATE books SET views_count = views_count + 1 WHERE id = ?", stat.BookID)

		if config.RedisClient != nil {
			config.RedisClient.ZIncrBy(redisCtx, "rank:book:views", 1, stat.BookID)
			config.RedisClient.Expire(redisCtx, "rank:book:views", 7*24*time.Hour)
		}
	}
}

// ==================== Helpers ====================

// checkReferences verifies the required author/genre/category and any
// optional references actually exist, so a bad id fails with a clear
// message instead of a raw constraint error.
func (bs *BookService) checkReferences(req *CreateBookRequest) error {
	var count int64
	if err := bs.db.Model(&models.Author{}).Where("id = ?", req.AuthorID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("author: %w", ErrNotFound)
	}
	if err := bs.db.Model(&models.Genre{}).Where("id = ?", req.GenreID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("genre: %w", ErrNotFound)
	}
	if err := bs.db.Model(&models.Category{}).Where("id = ?", req.CategoryID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("category: %w", ErrNotFound)
	}
	if req.TranslatorID != nil {
		if err := bs.db.Model(&models.Translator{}).Where("id = ?", *req.TranslatorID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("translator: %w", ErrNotFound)
		}
	}
	if req.PublisherID != nil {
		if err := bs.db.Model(&models.Publisher{}).Where("id = ?", *req.PublisherID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("publisher: %w", ErrNotFound)
		}
	}
	if req.PrintingHouseID != nil {
		if err := bs.db.Model(&models.PrintingHouse{}).Where("id = ?", *req.PrintingHouseID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("printing house: %w", ErrNotFound)
		}
	}
	return nil
}

// replaceImages rewrites the book's supplementary image set.
func (bs *BookService) replaceImages(tx *gorm.DB, book *models.Book, imageIDs []string) error {
	var count int64
	if err := tx.Model(&models.BookImage{}).Where("id IN ?", imageIDs).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(imageIDs)) {
		return fmt.Errorf("book image: %w", ErrNotFound)
	}

	if err := tx.Exec("DELETE FROM book_additional_images WHERE book_id = ?", book.ID).Error; err != nil {
		return err
	}
	for _, imageID := range imageIDs {
		if err := tx.Exec(
			"INSERT INTO book_additional_images (book_id, book_image_id) VALUES (?, ?)",
			book.ID, imageID,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

func (bs *BookService) clearBookCaches(slug string) {
	if config.RedisClient == nil {
		return
	}
	config.RedisClient.Del(redisCtx, fmt.Sprintf("book:%s", slug))
	bs.clearListCaches()
}

func (bs *BookService) clearListCaches() {
	if config.RedisClient == nil {
		return
	}
	config.RedisClient.Del(redisCtx, "hot:books")
}
