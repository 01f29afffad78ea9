package controllers

import (
	"github.com/gin-gonic/gin"

	"kitobxona_go/services"
	"kitobxona_go/utils"
)

// CatalogController exposes admin CRUD for the reference entities and
// their per-entity stats.
type CatalogController struct {
	catalogService *services.CatalogService
}

func NewCatalogController(catalogService *services.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// ==================== Authors ====================

func (cc *CatalogController) CreateAuthor(c *gin.Context) {
	var req services.PersonRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		bindError(c, err)
		return
	}
	author, err := cc.catalogService.CreateAuthor(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Created(c, author)
}

func (cc *CatalogController) UpdateAuthor(c *gin.Context) {
	var req services.PersonRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		bindError(c, err)
		return
	}
	author, err := cc.catalogService.UpdateAuthor(c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, author)
}

func (cc *CatalogController) DeleteAuthor(c *gin.Context) {
	if err := cc.catalogService.DeleteAuthor(c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, nil)
}

func (cc *CatalogController) GetAuthor(c *gin.Context) {
	author, err := cc.catalogService.GetAuthor(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, author)
}

func (cc *CatalogController) ListAuthors(c *gin.Context) {
	page, limit := pageParams(c)
	authors, total, err := cc.catalogService.ListAuthors(page, limit, c.Query("search"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Paginate(c, authors, total, page, limit)
}

func (cc *CatalogController) AuthorStats(c *gin.Context) {
	stats, err := cc.catalogService.AuthorStats(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, stats)
}

// ==================== Translators ====================

func (cc *CatalogController) CreateTranslator(c *gin.Context) {
	var req services.PersonRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		bindError(c, err)
		return
	}
	translator, err := cc.catalogService.CreateTranslator(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Created(c, translator)
}

func (cc *CatalogController) UpdateTranslator(c *gin.Context) {
	var req services.PersonRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		bindError(c, err)
		return
	}
	translator, err := cc.catalogService.UpdateTranslator(c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, translator)
}

func (cc *CatalogController) DeleteTranslator(c *gin.Context) {
	if err := cc.catalogService.DeleteTranslator(c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, nil)
}

func (cc *CatalogController) GetTranslator(c *gin.Context) {
	translator, err := cc.catalogService.GetTranslator(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, translator)
}

func (cc *CatalogController) ListTranslators(c *gin.Context) {
	page, limit := pageParams(c)
	translators, total, err := cc.catalogService.ListTranslators(page, limit, c.Query("search"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Paginate(c, translators, total, page, limit)
}

func (cc *CatalogController) TranslatorStats(c *gin.Context) {
	stats, err := cc.catalogService.TranslatorStats(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, stats)
}

// ==================== Genres ====================

func (cc *CatalogController) CreateGenre(c *gin.Context) {
	var req services.NamedRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		bindError(c, err)
		return
	}
	genre, err := cc.catalogService.CreateGenre(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Created(c, genre)
}

func (cc *CatalogController) UpdateGenre(c *gin.Context) {
	var req services.NamedRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		bindError(c, err)
		return
	}
	genre, err := cc.catalogService.UpdateGenre(c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, genre)
}

func (cc *CatalogController) DeleteGenre(c *gin.Context) {
	if err := cc.catalogService.DeleteGenre(c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, nil)
}

func (cc *CatalogController) GetGenre(c *gin.Context) {
	genre, err := cc.catalogService.GetGenre(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, genre)
}

func (cc *CatalogController) ListGenres(c *gin.Context) {
	page, limit := pageParams(c)
	genres, total, err := cc.catalogService.ListGenres(page, limit, c.Query("search"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Paginate(c, genres, total, page, limit)
}

func (cc *CatalogController) GenreStats(c *gin.Context) {
	stats, err := cc.catalogService.GenreStats(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, stats)
}

// ==================== Categories ====================

func (cc *CatalogController) CreateCategory(c *gin.Context) {
	var req services.NamedRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		bindError(c, err)
		return
	}
	category, err := cc.catalogService.CreateCategory(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Created(c, category)
}

func (cc *CatalogController) UpdateCategory(c *gin.Context) {
	var req services.NamedRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		bindError(c, err)
		return
	}
	category, err := cc.catalogService.UpdateCategory(c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, category)
}

func (cc *CatalogController) DeleteCategory(c *gin.Context) {
	if err := cc.catalogService.DeleteCategory(c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, nil)
}

func (cc *CatalogController) GetCategory(c *gin.Context) {
	category, err := cc.catalogService.GetCategory(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, category)
}

func (cc *CatalogController) ListCategories(c *gin.Context) {
	page, limit := pageParams(c)
	categories, total, err := cc.catalogService.ListCategories(page, limit, c.Query("search"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Paginate(c, categories, total, page, limit)
}

func (cc *CatalogController) CategoryStats(c *gin.Context) {
	stats, err := cc.catalogService.CategoryStats(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, stats)
}

// ==================== Publishers ====================

func (cc *CatalogController) CreatePublisher(c *gin.Context) {
	var req services.PublisherRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		bindError(c, err)
		return
	}
	publisher, err := cc.catalogService.CreatePublisher(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Created(c, publisher)
}

func (cc *CatalogController) UpdatePublisher(c *gin.Context) {
	var req services.PublisherRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		bindError(c, err)
		return
	}
	publisher, err := cc.catalogService.UpdatePublisher(c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, publisher)
}

func (cc *CatalogController) DeletePublisher(c *gin.Context) {
	if err := cc.catalogService.DeletePublisher(c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, nil)
}

func (cc *CatalogController) GetPublisher(c *gin.Context) {
	publisher, err := cc.catalogService.GetPublisher(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, publisher)
}

func (cc *CatalogController) ListPublishers(c *gin.Context) {
	page, limit := pageParams(c)
	publishers, total, err := cc.catalogService.ListPublishers(page, limit, c.Query("search"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Paginate(c, publishers, total, page, limit)
}

func (cc *CatalogController) PublisherStats(c *gin.Context) {
	stats, err := cc.catalogService.PublisherStats(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, stats)
}

// ==================== Printing houses ====================

func (cc *CatalogController) CreatePrintingHouse(c *gin.Context) {
	var req services.PrintingHouseRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		bindError(c, err)
		return
	}
	ph, err := cc.catalogService.CreatePrintingHouse(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Created(c, ph)
}

func (cc *CatalogController) UpdatePrintingHouse(c *gin.Context) {
	var req services.PrintingHouseRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		bindError(c, err)
		return
	}
	ph, err := cc.catalogService.UpdatePrintingHouse(c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, ph)
}

func (cc *CatalogController) DeletePrintingHouse(c *gin.Context) {
	if err := cc.catalogService.DeletePrintingHouse(c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, nil)
}

func (cc *CatalogController) GetPrintingHouse(c *gin.Context) {
	ph, err := cc.catalogService.GetPrintingHouse(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, ph)
}

func (cc *CatalogController) ListPrintingHouses(c *gin.Context) {
	page, limit := pageParams(c)
	phs, total, err := cc.catalogService.ListPrintingHouses(page, limit, c.Query("search"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Paginate(c, phs, total, page, limit)
}

func (cc *CatalogController) PrintingHouseStats(c *gin.Context) {
	stats, err := cc.catalogService.PrintingHouseStats(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, stats)
}

// ==================== Book images ====================

func (cc *CatalogController) CreateBookImage(c *gin.Context) {
	var req services.BookImageRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		bindError(c, err)
		return
	}
	image, err := cc.catalogService.CreateBookImage(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Created(c, image)
}

func (cc *CatalogController) DeleteBookImage(c *gin.Context) {
	if err := cc.catalogService.DeleteBookImage(c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, nil)
}

func (cc *CatalogController) ListBookImages(c *gin.Context) {
	page, limit := pageParams(c)
	images, total, err := cc.catalogService.ListBookImages(page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Paginate(c, images, total, page, limit)
}
