package services

import (
	"fmt"

	"gorm.io/gorm"

	"kitobxona_go/models"
	"kitobxona_go/utils"
)

// CollectionService manages curated book sets shown on the storefront.
type CollectionService struct {
	db *gorm.DB
}

func NewCollectionService(db *gorm.DB) *CollectionService {
	return &CollectionService{db: db}
}

// CollectionRequest carries the writable collection fields.
type CollectionRequest struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Description string   `json:"description"`
	CoverImage  string   `json:"cover_image" binding:"omitempty,max=500"`
	Order       int      `json:"order" binding:"gte=0"`
	IsActive    *bool    `json:"is_active"`
	BookIDs     []string `json:"book_ids"`
	Slug        string   `json:"slug" binding:"omitempty,max=255"`
}

// CreateCollection stores a collection with its initial book set.
func (cs *CollectionService) CreateCollection(req *CollectionRequest) (*models.Collection, error) {
	base := req.Title
	if req.Slug != "" {
		base = req.Slug
	}
	slug, err := utils.EnsureUniqueSlug(cs.db, "collections", "slug", utils.Slugify(base))
	if err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	collection := models.Collection{
		Title:       req.Title,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Order:       req.Order,
		IsActive:    isActive,
		Slug:        slug,
	}

	err = cs.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&collection).Error; err != nil {
			return fmt.Errorf("create collection: %w", err)
		}
		if len(req.BookIDs) > 0 {
			return cs.replaceBooks(tx, collection.ID, req.BookIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

// UpdateCollection rewrites the writable fields. The slug stays fixed
// so storefront links keep working. A nil BookIDs leaves the book set
// alone; an empty slice clears it.
func (cs *CollectionService) UpdateCollection(id string, req *CollectionRequest) (*models.Collection, error) {
	var collection models.Collection
	if err := cs.db.First(&collection, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "collection")
	}

	isActive := collection.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	updates := map[string]interface{}{
		"title":         req.Title,
		"description":   req.Description,
		"cover_image":   req.CoverImage,
		"display_order": req.Order,
		"is_active":     isActive,
	}

	err := cs.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&collection).Updates(updates).Error; err != nil {
			return fmt.Errorf("update collection: %w", err)
		}
		if req.BookIDs != nil {
			return cs.replaceBooks(tx, id, req.BookIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := cs.db.First(&collection, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &collection, nil
}

// DeleteCollection removes the collection and its membership rows. The
// books themselves are untouched.
func (cs *CollectionService) DeleteCollection(id string) error {
	var collection models.Collection
	if err := cs.db.First(&collection, "id = ?", id).Error; err != nil {
		return notFoundOr(err, "collection")
	}
	return cs.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM collection_books WHERE collection_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&collection).Error
	})
}

// GetCollection loads one collection with its books preloaded.
func (cs *CollectionService) GetCollection(id string) (*models.Collection, error) {
	var collection models.Collection
	err := cs.db.
		Preload("Books").
		Preload("Books.Author").
		First(&collection, "id = ?", id).Error
	if err != nil {
		return nil, notFoundOr(err, "collection")
	}
	return &collection, nil
}

// GetCollectionBySlug serves the public collection page: only active
// collections resolve, and only active books are included.
func (cs *CollectionService) GetCollectionBySlug(slug string) (*models.Collection, error) {
	var collection models.Collection
	err := cs.db.
		Preload("Books", "is_active = ?", true).
		Preload("Books.Author").
		Where("is_active = ?", true).
		First(&collection, "slug = ?", slug).Error
	if err != nil {
		return nil, notFoundOr(err, "collection")
	}
	return &collection, nil
}

// GetCollections lists collections in display order, then newest
// first. Public callers get only active ones.
func (cs *CollectionService) GetCollections(activeOnly bool) ([]models.Collection, error) {
	q := cs.db.Model(&models.Collection{})
	if activeOnly {
		q = q.Preload("Books", "is_active = ?", true)
		q = q.Where("is_active = ?", true)
	} else {
		q = q.Preload("Books")
	}

	var collections []models.Collection
	err := q.Order("display_order ASC, created_at DESC").Find(&collections).Error
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return collections, nil
}

// SetActive toggles collection visibility.
func (cs *CollectionService) SetActive(id string, value bool) error {
	res := cs.db.Model(&models.Collection{}).Where("id = ?", id).Update("is_active", value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("collection: %w", ErrNotFound)
	}
	return nil
}

// AddBooks appends books to the collection, skipping ones already in
// it.
func (cs *CollectionService) AddBooks(id string, bookIDs []string) error {
	var collection models.Collection
	if err := cs.db.First(&collection, "id = ?", id).Error; err != nil {
		return notFoundOr(err, "collection")
	}
	if err := cs.checkBooks(cs.db, bookIDs); err != nil {
		return err
	}
	return cs.db.Transaction(func(tx *gorm.DB) error {
		for _, bookID := range bookIDs {
			if err := tx.Exec(
				"INSERT IGNORE INTO collection_books (collection_id, book_id) VALUES (?, ?)",
				id, bookID,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RemoveBooks detaches books from the collection.
func (cs *CollectionService) RemoveBooks(id string, bookIDs []string) error {
	var collection models.Collection
	if err := cs.db.First(&collection, "id = ?", id).Error; err != nil {
		return notFoundOr(err, "collection")
	}
	if len(bookIDs) == 0 {
		return nil
	}
	return cs.db.Exec(
		"DELETE FROM collection_books WHERE collection_id = ? AND book_id IN ?",
		id, bookIDs,
	).Error
}

func (cs *CollectionService) replaceBooks(tx *gorm.DB, collectionID string, bookIDs []string) error {
	if err := cs.checkBooks(tx, bookIDs); err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM collection_books WHERE collection_id = ?", collectionID).Error; err != nil {
		return err
	}
	for _, bookID := range bookIDs {
		if err := tx.Exec(
			"INSERT INTO collection_books (collection_id, book_id) VALUES (?, ?)",
			collectionID, bookID,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

func (cs *CollectionService) checkBooks(tx *gorm.DB, bookIDs []string) error {
	if len(bookIDs) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Book{}).Where("id IN ?", bookIDs).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(bookIDs)) {
		return fmt.Errorf("book: %w", ErrNotFound)
	}
	return nil
}
