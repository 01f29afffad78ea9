package controllers

import (
	"github.com/gin-gonic/gin"

	"kitobxona_go/models"
	"kitobxona_go/services"
	"kitobxona_go/utils"
)

// CollectionController serves admin collection management and the
// public collection pages.
type CollectionController struct {
	collectionService *services.CollectionService
}

func NewCollectionController(collectionService *services.CollectionService) *CollectionController {
	return &CollectionController{collectionService: collectionService}
}

// CollectionBooksRequest selects books to add or remove.
type CollectionBooksRequest struct {
	BookIDs []string `json:"book_ids" binding:"required,min=1"`
}

func collectionResponses(collections []models.Collection) []models.CollectionResponse {
	responses := make([]models.CollectionResponse, 0, len(collections))
	for i := range collections {
		responses = append(responses, collections[i].ToResponse())
	}
	return responses
}

// ==================== Admin ====================

func (cc *CollectionController) CreateCollection(c *gin.Context) {
	var req services.CollectionRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		bindError(c, err)
		return
	}
	collection, err := cc.collectionService.CreateCollection(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Created(c, collection)
}

func (cc *CollectionController) UpdateCollection(c *gin.Context) {
	var req services.CollectionRequest
	if err := utils.BindAndValidate(c, &req); err != nil {
		bindError(c, err)
		return
	}
	collection, err := cc.collectionService.UpdateCollection(c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, collection)
}

func (cc *CollectionController) DeleteCollection(c *gin.Context) {
	if err := cc.collectionService.DeleteCollection(c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, nil)
}

func (cc *CollectionController) GetCollection(c *gin.Context) {
	collection, err := cc.collectionService.GetCollection(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, collection.ToResponse())
}

func (cc *CollectionController) ListCollections(c *gin.Context) {
	collections, err := cc.collectionService.GetCollections(false)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, collectionResponses(collections))
}

func (cc *CollectionController) Activate(c *gin.Context) {
	if err := cc.collectionService.SetActive(c.Param("id"), true); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, nil)
}

func (cc *CollectionController) Deactivate(c *gin.Context) {
	if err := cc.collectionService.SetActive(c.Param("id"), false); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, nil)
}

func (cc *CollectionController) AddBooks(c *gin.Context) {
	var req CollectionBooksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := cc.collectionService.AddBooks(c.Param("id"), req.BookIDs); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, nil)
}

func (cc *CollectionController) RemoveBooks(c *gin.Context) {
	var req CollectionBooksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := cc.collectionService.RemoveBooks(c.Param("id"), req.BookIDs); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, nil)
}

// ==================== Public ====================

func (cc *CollectionController) PublicListCollections(c *gin.Context) {
	collections, err := cc.collectionService.GetCollections(true)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, collectionResponses(collections))
}

func (cc *CollectionController) GetCollectionBySlug(c *gin.Context) {
	collection, err := cc.collectionService.GetCollectionBySlug(c.Param("slug"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, collection.ToResponse())
}
