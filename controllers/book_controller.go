package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"kitobxona_go/models"
	"kitobxona_go/services"
	"kitobxona_go/utils"
)

// BookController serves both the admin book CRUD and the public
// storefront reads. Public responses carry the computed display
// fields.
type BookController struct {
	bookService *services.BookService
}

func NewBookController(bookService *services.BookService) *BookController {
	return &BookController{bookService: bookService}
}

// BulkIDsRequest selects books for a bulk flag action.
type BulkIDsRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

func bookFilters(c *gin.Context, activeOnly bool) services.BookFilters {
	filters := services.BookFilters{
		AuthorID:   c.Query("author_id"),
		GenreID:    c.Query("genre_id"),
		CategoryID: c.Query("category_id"),
		Search:     c.Query("search"),
		ActiveOnly: activeOnly,
	}
	if !activeOnly && c.Query("is_active") != "" {
		v := c.Query("is_active") == "true"
		filters.ActiveOnly = v
	}
	if c.Query("is_featured") != "" {
		v := c.Query("is_featured") == "true"
		filters.Featured = &v
	}
	if c.Query("is_new") != "" {
		v := c.Query("is_new") == "true"
		filters.New = &v
	}
	if raw := c.Query("min_price"); raw != "" {
		if price, err := decimal.NewFromString(raw); err == nil {
			filters.MinPrice = &price
		}
	}
	if raw := c.Query("max_price"); raw != "" {
		if price, err := decimal.NewFromString(raw); err == nil {
			filters.MaxPrice = &price
		}
	}
	return filters
}

func toResponses(books []models.Book) []models.BookResponse {
	responses := make([]models.BookResponse, 0, len(books))
	for i := range books {
		responses = append(responses, books[i].ToResponse())
	}
	return responses
}

// ==================== Admin ====================

func (bc *BookController) CreateBook(c *gin.Context) {
	var req services.CreateBookRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		bindError(c, err)
		return
	}
	book, err := bc.bookService.CreateBook(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Created(c, book.ToResponse())
}

func (bc *BookController) UpdateBook(c *gin.Context) {
	var req services.CreateBookRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		bindError(c, err)
		return
	}
	book, err := bc.bookService.UpdateBook(c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, book.ToResponse())
}

func (bc *BookController) DeleteBook(c *gin.Context) {
	if err := bc.bookService.DeleteBook(c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, nil)
}

func (bc *BookController) GetBook(c *gin.Context) {
	book, err := bc.bookService.GetBook(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, book.ToResponse())
}

func (bc *BookController) ListBooks(c *gin.Context) {
	page, limit := pageParams(c)
	books, total, err := bc.bookService.GetBooks(page, limit, bookFilters(c, false))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Paginate(c, toResponses(books), total, page, limit)
}

func (bc *BookController) bulkAction(c *gin.Context, apply func([]string) (int64, error)) {
	var req BulkIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	affected, err := apply(req.IDs)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, gin.H{"affected": affected})
}

func (bc *BookController) MarkNew(c *gin.Context) {
	bc.bulkAction(c, func(ids []string) (int64, error) {
		return bc.bookService.BulkSetNew(ids, true)
	})
}

func (bc *BookController) UnmarkNew(c *gin.Context) {
	bc.bulkAction(c, func(ids []string) (int64, error) {
		return bc.bookService.BulkSetNew(ids, false)
	})
}

func (bc *BookController) MarkFeatured(c *gin.Context) {
	bc.bulkAction(c, func(ids []string) (int64, error) {
		return bc.bookService.BulkSetFeatured(ids, true)
	})
}

func (bc *BookController) UnmarkFeatured(c *gin.Context) {
	bc.bulkAction(c, func(ids []string) (int64, error) {
		return bc.bookService.BulkSetFeatured(ids, false)
	})
}

func (bc *BookController) Activate(c *gin.Context) {
	bc.bulkAction(c, func(ids []string) (int64, error) {
		return bc.bookService.BulkSetActive(ids, true)
	})
}

func (bc *BookController) Deactivate(c *gin.Context) {
	bc.bulkAction(c, func(ids []string) (int64, error) {
		return bc.bookService.BulkSetActive(ids, false)
	})
}

// ==================== Public ====================

func (bc *BookController) PublicListBooks(c *gin.Context) {
	page, limit := pageParams(c)
	books, total, err := bc.bookService.GetBooks(page, limit, bookFilters(c, true))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Paginate(c, toResponses(books), total, page, limit)
}

func (bc *BookController) HotBooks(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}
	books, err := bc.bookService.GetHotBooks(limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, toResponses(books))
}

func (bc *BookController) GetBookBySlug(c *gin.Context) {
	book, err := bc.bookService.GetBookBySlug(c.Param("slug"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, book.ToResponse())
}
