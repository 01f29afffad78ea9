package main

import (
	"fmt"
	"log"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"kitobxona_go/config"
	"kitobxona_go/middleware"
	"kitobxona_go/models"
	"kitobxona_go/services"
)

// Seeds a demo catalog: reference entities, books, a collection, a few
// registered telegram users with orders, and one staff login
// (admin@kitobxona.uz / admin12345).
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment variables")
	}
	if err := middleware.InitLogger("release"); err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	if err := config.InitDatabase(); err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	defer config.CloseDatabase()

	gofakeit.Seed(42)

	db := config.DB
	catalog := services.NewCatalogService(db)
	books := services.NewBookService(db)
	collections := services.NewCollectionService(db)
	orders := services.NewOrderService(db)
	telegram := services.NewTelegramService(db)
	auth := services.NewAuthService(db)

	var authorIDs, genreIDs, categoryIDs, bookIDs []string

	for i := 0; i < 10; i++ {
		author, err := catalog.CreateAuthor(&services.PersonRequest{
			Name: gofakeit.Name(),
			Bio:  gofakeit.Paragraph(1, 3, 12, " "),
		})
		if err != nil {
			log.Fatalf("seed author: %v", err)
		}
		authorIDs = append(authorIDs, author.ID)
	}

	for _, name := range []string{"Fiction", "History", "Science", "Poetry", "Children"} {
		genre, err := catalog.CreateGenre(&services.NamedRequest{Name: name})
		if err != nil {
			log.Fatalf("seed genre: %v", err)
		}
		genreIDs = append(genreIDs, genre.ID)
	}

	for _, name := range []string{"Bestsellers", "Classics", "New arrivals"} {
		category, err := catalog.CreateCategory(&services.NamedRequest{Name: name})
		if err != nil {
			log.Fatalf("seed category: %v", err)
		}
		categoryIDs = append(categoryIDs, category.ID)
	}

	publisher, err := catalog.CreatePublisher(&services.PublisherRequest{
		Name: gofakeit.Company(),
	})
	if err != nil {
		log.Fatalf("seed publisher: %v", err)
	}

	for i := 0; i < 40; i++ {
		price := decimal.NewFromInt(int64(gofakeit.Number(20, 200) * 1000))
		req := services.CreateBookRequest{
			Title:           gofakeit.BookTitle(),
			AuthorID:        authorIDs[gofakeit.Number(0, len(authorIDs)-1)],
			GenreID:         genreIDs[gofakeit.Number(0, len(genreIDs)-1)],
			CategoryID:      categoryIDs[gofakeit.Number(0, len(categoryIDs)-1)],
			Description:     gofakeit.Paragraph(1, 4, 15, " "),
			Pages:           gofakeit.Number(80, 900),
			Language:        models.LanguageUzbek,
			Alphabet:        models.AlphabetLatin,
			CoverType:       models.CoverHard,
			Format:          models.FormatA5,
			PublisherID:     &publisher.ID,
			PublicationYear: gofakeit.Number(1995, 2025),
			Price:           price,
			StockQuantity:   gofakeit.Number(0, 50),
			CoverImage:      gofakeit.ImageURL(300, 400),
			IsFeatured:      gofakeit.Bool(),
			IsNew:           i < 10,
		}
		if gofakeit.Bool() {
			discount := price.Mul(decimal.NewFromFloat(0.8)).Round(0)
			req.DiscountPrice = &discount
		}
		book, err := books.CreateBook(&req)
		if err != nil {
			log.Fatalf("seed book: %v", err)
		}
		bookIDs = append(bookIDs, book.ID)
	}

	if _, err := collections.CreateCollection(&services.CollectionRequest{
		Title:       "Editor's picks",
		Description: "Hand-picked titles of the season.",
		Order:       1,
		BookIDs:     bookIDs[:8],
	}); err != nil {
		log.Fatalf("seed collection: %v", err)
	}

	for i := 0; i < 5; i++ {
		telegramID := int64(100000 + i)
		user, err := telegram.RegisterUser(&services.RegisterUserRequest{
			TelegramID:  telegramID,
			FullName:    gofakeit.Name(),
			PhoneNumber: fmt.Sprintf("+99890%07d", gofakeit.Number(0, 9999999)),
			Username:    gofakeit.Username(),
		})
		if err != nil {
			log.Fatalf("seed telegram user: %v", err)
		}

		if _, err := orders.CreateOrder(&services.CreateOrderRequest{
			UserTelegramID:  user.TelegramID,
			UserName:        user.FullName,
			UserPhone:       user.PhoneNumber,
			DeliveryAddress: gofakeit.Address().Address,
			Items: []services.OrderItemRequest{
				{BookID: bookIDs[gofakeit.Number(0, len(bookIDs)-1)], Quantity: gofakeit.Number(1, 3)},
				{BookID: bookIDs[gofakeit.Number(0, len(bookIDs)-1)], Quantity: 1},
			},
		}); err != nil {
			log.Fatalf("seed order: %v", err)
		}
	}

	if _, err := auth.RegisterStaff(&services.RegisterStaffRequest{
		Email:    "admin@kitobxona.uz",
		Name:     "Administrator",
		Password: "admin12345",
	}); err != nil {
		log.Fatalf("seed staff: %v", err)
	}

	log.Println("seed complete")
}
