package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"kitobxona_go/models"
	"kitobxona_go/utils"
)

// CatalogService manages the reference entities books hang off:
// authors, translators, genres, categories, publishers, printing
// houses and gallery images. Slug-carrying entities get their slug
// assigned once at creation and keep it forever.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// PersonRequest creates or updates an author or translator.
type PersonRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	Bio   string `json:"bio"`
	Photo string `json:"photo" binding:"omitempty,max=500"`
	Slug  string `json:"slug" binding:"omitempty,max=255"`
}

// NamedRequest creates or updates a genre or category.
type NamedRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Image       string `json:"image" binding:"omitempty,max=500"`
	Slug        string `json:"slug" binding:"omitempty,max=100"`
}

// PublisherRequest creates or updates a publisher.
type PublisherRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	Logo        string `json:"logo" binding:"omitempty,max=500"`
	Slug        string `json:"slug" binding:"omitempty,max=255"`
}

// PrintingHouseRequest creates or updates a printing house.
type PrintingHouseRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Address string `json:"address"`
}

// BookImageRequest creates or updates a gallery image.
type BookImageRequest struct {
	Image       string `json:"image" binding:"required,max=500"`
	Description string `json:"description" binding:"omitempty,max=255"`
}

// assignSlug resolves the slug for a new record. An explicitly
// supplied slug must be free and is rejected on conflict; a derived
// slug is disambiguated with a numeric suffix.
func (cs *CatalogService) assignSlug(table, explicit, name string) (string, error) {
	if explicit != "" {
		slug := utils.Slugify(explicit)
		var count int64
		if err := cs.db.Table(table).Where("LOWER(slug) = LOWER(?)", slug).Count(&count).Error; err != nil {
			return "", err
		}
		if count > 0 {
			return "", fmt.Errorf("slug %q: %w", slug, ErrAlreadyExists)
		}
		return slug, nil
	}
	return utils.EnsureUniqueSlug(cs.db, table, "slug", utils.Slugify(name))
}

// nameTaken reports whether a unique-name entity already uses name.
func (cs *CatalogService) nameTaken(table, name, excludeID string) (bool, error) {
	q := cs.db.Table(table).Where("name = ?", name)
	if excludeID != "" {
		q = q.Where("id != ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ==================== Authors ====================

func (cs *CatalogService) CreateAuthor(req *PersonRequest) (*models.Author, error) {
	slug, err := cs.assignSlug("authors", req.Slug, req.Name)
	if err != nil {
		return nil, err
	}

	author := models.Author{
		Name:  req.Name,
		Bio:   req.Bio,
		Photo: req.Photo,
		Slug:  slug,
	}
	if err := cs.db.Create(&author).Error; err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}
	return &author, nil
}

func (cs *CatalogService) UpdateAuthor(id string, req *PersonRequest) (*models.Author, error) {
	var author models.Author
	if err := cs.db.First(&author, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "author")
	}

	// Slug is immutable once set; a rename never recomputes it.
	updates := map[string]interface{}{
		"name":  req.Name,
		"bio":   req.Bio,
		"photo": req.Photo,
	}
	if err := cs.db.Model(&author).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update author: %w", err)
	}
	return &author, nil
}

// DeleteAuthor rejects the delete while any book references the
// author.
func (cs *CatalogService) DeleteAuthor(id string) error {
	var author models.Author
	if err := cs.db.First(&author, "id = ?", id).Error; err != nil {
		return notFoundOr(err, "author")
	}

	var books int64
	if err := cs.db.Model(&models.Book{}).Where("author_id = ?", id).Count(&books).Error; err != nil {
		return err
	}
	if books > 0 {
		return fmt.Errorf("author has %d books: %w", books, ErrHasBooks)
	}
	return cs.db.Delete(&author).Error
}

func (cs *CatalogService) GetAuthor(id string) (*models.Author, error) {
	var author models.Author
	if err := cs.db.First(&author, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "author")
	}
	return &author, nil
}

func (cs *CatalogService) ListAuthors(page, limit int, search string) ([]models.Author, int64, error) {
	var authors []models.Author
	var total int64

	q := cs.db.Model(&models.Author{})
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("name ASC").Limit(limit).Offset((page - 1) * limit).Find(&authors).Error
	return authors, total, err
}

// AuthorStats aggregates over the author's live book set.
func (cs *CatalogService) AuthorStats(id string) (*models.BookStats, error) {
	if _, err := cs.GetAuthor(id); err != nil {
		return nil, err
	}
	return cs.statsWhere("author_id = ?", id)
}

// ==================== Translators ====================

func (cs *CatalogService) CreateTranslator(req *PersonRequest) (*models.Translator, error) {
	slug, err := cs.assignSlug("translators", req.Slug, req.Name)
	if err != nil {
		return nil, err
	}

	translator := models.Translator{
		Name:  req.Name,
		Bio:   req.Bio,
		Photo: req.Photo,
		Slug:  slug,
	}
	if err := cs.db.Create(&translator).Error; err != nil {
		return nil, fmt.Errorf("create translator: %w", err)
	}
	return &translator, nil
}

func (cs *CatalogService) UpdateTranslator(id string, req *PersonRequest) (*models.Translator, error) {
	var translator models.Translator
	if err := cs.db.First(&translator, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "translator")
	}

	updates := map[string]interface{}{
		"name":  req.Name,
		"bio":   req.Bio,
		"photo": req.Photo,
	}
	if err := cs.db.Model(&translator).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update translator: %w", err)
	}
	return &translator, nil
}

// DeleteTranslator clears the translator reference on its books and
// removes the record, all in one transaction.
func (cs *CatalogService) DeleteTranslator(id string) error {
	return cs.db.Transaction(func(tx *gorm.DB) error {
		var translator models.Translator
		if err := tx.First(&translator, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "translator")
		}
		if err := tx.Model(&models.Book{}).
			Where("translator_id = ?", id).
			Update("translator_id", nil).Error; err != nil {
			return fmt.Errorf("detach books: %w", err)
		}
		return tx.Delete(&translator).Error
	})
}

func (cs *CatalogService) GetTranslator(id string) (*models.Translator, error) {
	var translator models.Translator
	if err := cs.db.First(&translator, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "translator")
	}
	return &translator, nil
}

func (cs *CatalogService) ListTranslators(page, limit int, search string) ([]models.Translator, int64, error) {
	var translators []models.Translator
	var total int64

	q := cs.db.Model(&models.Translator{})
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("name ASC").Limit(limit).Offset((page - 1) * limit).Find(&translators).Error
	return translators, total, err
}

func (cs *CatalogService) TranslatorStats(id string) (*models.BookStats, error) {
	if _, err := cs.GetTranslator(id); err != nil {
		return nil, err
	}
	return cs.statsWhere("translator_id = ?", id)
}

// ==================== Genres ====================

func (cs *CatalogService) CreateGenre(req *NamedRequest) (*models.Genre, error) {
	taken, err := cs.nameTaken("genres", req.Name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("genre %q: %w", req.Name, ErrAlreadyExists)
	}

	slug, err := cs.assignSlug("genres", req.Slug, req.Name)
	if err != nil {
		return nil, err
	}

	genre := models.Genre{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Slug:        slug,
	}
	if err := cs.db.Create(&genre).Error; err != nil {
		return nil, fmt.Errorf("create genre: %w", err)
	}
	return &genre, nil
}

func (cs *CatalogService) UpdateGenre(id string, req *NamedRequest) (*models.Genre, error) {
	var genre models.Genre
	if err := cs.db.First(&genre, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "genre")
	}

	taken, err := cs.nameTaken("genres", req.Name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("genre %q: %w", req.Name, ErrAlreadyExists)
	}

	updates := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"image":       req.Image,
	}
	if err := cs.db.Model(&genre).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update genre: %w", err)
	}
	return &genre, nil
}

func (cs *CatalogService) DeleteGenre(id string) error {
	var genre models.Genre
	if err := cs.db.First(&genre, "id = ?", id).Error; err != nil {
		return notFoundOr(err, "genre")
	}

	var books int64
	if err := cs.db.Model(&models.Book{}).Where("genre_id = ?", id).Count(&books).Error; err != nil {
		return err
	}
	if books > 0 {
		return fmt.Errorf("genre has %d books: %w", books, ErrHasBooks)
	}
	return cs.db.Delete(&genre).Error
}

func (cs *CatalogService) GetGenre(id string) (*models.Genre, error) {
	var genre models.Genre
	if err := cs.db.First(&genre, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "genre")
	}
	return &genre, nil
}

func (cs *CatalogService) ListGenres(page, limit int, search string) ([]models.Genre, int64, error) {
	var genres []models.Genre
	var total int64

	q := cs.db.Model(&models.Genre{})
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("name ASC").Limit(limit).Offset((page - 1) * limit).Find(&genres).Error
	return genres, total, err
}

func (cs *CatalogService) GenreStats(id string) (*models.BookStats, error) {
	if _, err := cs.GetGenre(id); err != nil {
		return nil, err
	}
	return cs.statsWhere("genre_id = ?", id)
}

// ==================== Categories ====================

func (cs *CatalogService) CreateCategory(req *NamedRequest) (*models.Category, error) {
	taken, err := cs.nameTaken("categories", req.Name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("category %q: %w", req.Name, ErrAlreadyExists)
	}

	slug, err := cs.assignSlug("categories", req.Slug, req.Name)
	if err != nil {
		return nil, err
	}

	category := models.Category{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Slug:        slug,
	}
	if err := cs.db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}

func (cs *CatalogService) UpdateCategory(id string, req *NamedRequest) (*models.Category, error) {
	var category models.Category
	if err := cs.db.First(&category, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "category")
	}

	taken, err := cs.nameTaken("categories", req.Name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("category %q: %w", req.Name, ErrAlreadyExists)
	}

	updates := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"image":       req.Image,
	}
	if err := cs.db.Model(&category).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return &category, nil
}

func (cs *CatalogService) DeleteCategory(id string) error {
	var category models.Category
	if err := cs.db.First(&category, "id = ?", id).Error; err != nil {
		return notFoundOr(err, "category")
	}

	var books int64
	if err := cs.db.Model(&models.Book{}).Where("category_id = ?", id).Count(&books).Error; err != nil {
		return err
	}
	if books > 0 {
		return fmt.Errorf("category has %d books: %w", books, ErrHasBooks)
	}
	return cs.db.Delete(&category).Error
}

func (cs *CatalogService) GetCategory(id string) (*models.Category, error) {
	var category models.Category
	if err := cs.db.First(&category, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "category")
	}
	return &category, nil
}

func (cs *CatalogService) ListCategories(page, limit int, search string) ([]models.Category, int64, error) {
	var categories []models.Category
	var total int64

	q := cs.db.Model(&models.Category{})
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("name ASC").Limit(limit).Offset((page - 1) * limit).Find(&categories).Error
	return categories, total, err
}

func (cs *CatalogService) CategoryStats(id string) (*models.BookStats, error) {
	if _, err := cs.GetCategory(id); err != nil {
		return nil, err
	}
	return cs.statsWhere("category_id = ?", id)
}

// ==================== Publishers ====================

func (cs *CatalogService) CreatePublisher(req *PublisherRequest) (*models.Publisher, error) {
	slug, err := cs.assignSlug("publishers", req.Slug, req.Name)
	if err != nil {
		return nil, err
	}

	publisher := models.Publisher{
		Name:        req.Name,
		Description: req.Description,
		Logo:        req.Logo,
		Slug:        slug,
	}
	if err := cs.db.Create(&publisher).Error; err != nil {
		return nil, fmt.Errorf("create publisher: %w", err)
	}
	return &publisher, nil
}

func (cs *CatalogService) UpdatePublisher(id string, req *PublisherRequest) (*models.Publisher, error) {
	var publisher models.Publisher
	if err := cs.db.First(&publisher, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "publisher")
	}

	updates := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"logo":        req.Logo,
	}
	if err := cs.db.Model(&publisher).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update publisher: %w", err)
	}
	return &publisher, nil
}

func (cs *CatalogService) DeletePublisher(id string) error {
	return cs.db.Transaction(func(tx *gorm.DB) error {
		var publisher models.Publisher
		if err := tx.First(&publisher, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "publisher")
		}
		if err := tx.Model(&models.Book{}).
			Where("publisher_id = ?", id).
			Update("publisher_id", nil).Error; err != nil {
			return fmt.Errorf("detach books: %w", err)
		}
		return tx.Delete(&publisher).Error
	})
}

func (cs *CatalogService) GetPublisher(id string) (*models.Publisher, error) {
	var publisher models.Publisher
	if err := cs.db.First(&publisher, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "publisher")
	}
	return &publisher, nil
}

func (cs *CatalogService) ListPublishers(page, limit int, search string) ([]models.Publisher, int64, error) {
	var publishers []models.Publisher
	var total int64

	q := cs.db.Model(&models.Publisher{})
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("name ASC").Limit(limit).Offset((page - 1) * limit).Find(&publishers).Error
	return publishers, total, err
}

func (cs *CatalogService) PublisherStats(id string) (*models.BookStats, error) {
	if _, err := cs.GetPublisher(id); err != nil {
		return nil, err
	}
	return cs.statsWhere("publisher_id = ?", id)
}

// ==================== Printing houses ====================

func (cs *CatalogService) CreatePrintingHouse(req *PrintingHouseRequest) (*models.PrintingHouse, error) {
	ph := models.PrintingHouse{
		Name:    req.Name,
		Address: req.Address,
	}
	if err := cs.db.Create(&ph).Error; err != nil {
		return nil, fmt.Errorf("create printing house: %w", err)
	}
	return &ph, nil
}

func (cs *CatalogService) UpdatePrintingHouse(id string, req *PrintingHouseRequest) (*models.PrintingHouse, error) {
	var ph models.PrintingHouse
	if err := cs.db.First(&ph, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "printing house")
	}

	updates := map[string]interface{}{
		"name":    req.Name,
		"address": req.Address,
	}
	if err := cs.db.Model(&ph).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update printing house: %w", err)
	}
	return &ph, nil
}

func (cs *CatalogService) DeletePrintingHouse(id string) error {
	return cs.db.Transaction(func(tx *gorm.DB) error {
		var ph models.PrintingHouse
		if err := tx.First(&ph, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "printing house")
		}
		if err := tx.Model(&models.Book{}).
			Where("printing_house_id = ?", id).
			Update("printing_house_id", nil).Error; err != nil {
			return fmt.Errorf("detach books: %w", err)
		}
		return tx.Delete(&ph).Error
	})
}

func (cs *CatalogService) GetPrintingHouse(id string) (*models.PrintingHouse, error) {
	var ph models.PrintingHouse
	if err := cs.db.First(&ph, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "printing house")
	}
	return &ph, nil
}

func (cs *CatalogService) ListPrintingHouses(page, limit int, search string) ([]models.PrintingHouse, int64, error) {
	var houses []models.PrintingHouse
	var total int64

	q := cs.db.Model(&models.PrintingHouse{})
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("name ASC").Limit(limit).Offset((page - 1) * limit).Find(&houses).Error
	return houses, total, err
}

func (cs *CatalogService) PrintingHouseStats(id string) (*models.BookStats, error) {
	if _, err := cs.GetPrintingHouse(id); err != nil {
		return nil, err
	}
	return cs.statsWhere("printing_house_id = ?", id)
}

// ==================== Gallery images ====================

func (cs *CatalogService) CreateBookImage(req *BookImageRequest) (*models.BookImage, error) {
	image := models.BookImage{
		Image:       req.Image,
		Description: req.Description,
	}
	if err := cs.db.Create(&image).Error; err != nil {
		return nil, fmt.Errorf("create book image: %w", err)
	}
	return &image, nil
}

// DeleteBookImage removes the gallery image and its book links.
func (cs *CatalogService) DeleteBookImage(id string) error {
	return cs.db.Transaction(func(tx *gorm.DB) error {
		var image models.BookImage
		if err := tx.First(&image, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "book image")
		}
		if err := tx.Exec("DELETE FROM book_additional_images WHERE book_image_id = ?", id).Error; err != nil {
			return fmt.Errorf("detach image: %w", err)
		}
		return tx.Delete(&image).Error
	})
}

func (cs *CatalogService) ListBookImages(page, limit int) ([]models.BookImage, int64, error) {
	var images []models.BookImage
	var total int64

	if err := cs.db.Model(&models.BookImage{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := cs.db.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&images).Error
	return images, total, err
}

// ==================== Shared ====================

// statsWhere loads the live associated book set and aggregates it in
// memory, per the display-metrics contract.
func (cs *CatalogService) statsWhere(cond string, args ...interface{}) (*models.BookStats, error) {
	var books []models.Book
	if err := cs.db.Where(cond, args...).Find(&books).Error; err != nil {
		return nil, err
	}
	stats := models.AggregateStats(books)
	return &stats, nil
}

func notFoundOr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return err
}
