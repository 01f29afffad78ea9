package routes

import (
	"github.com/gin-gonic/gin"

	"kitobxona_go/config"
	"kitobxona_go/controllers"
	"kitobxona_go/middleware"
	"kitobxona_go/services"
	"kitobxona_go/websocket"
)

// SetupRoutes wires every endpoint group onto the router. Telegram and
// storefront routes are public; everything under /api/admin requires a
// staff token.
func SetupRoutes(r *gin.Engine) {
	db := config.DB

	catalogService := services.NewCatalogService(db)
	bookService := services.NewBookService(db)
	collectionService := services.NewCollectionService(db)
	orderService := services.NewOrderService(db)
	telegramService := services.NewTelegramService(db)
	authService := services.NewAuthService(db)

	catalogController := controllers.NewCatalogController(catalogService)
	bookController := controllers.NewBookController(bookService)
	collectionController := controllers.NewCollectionController(collectionService)
	orderController := controllers.NewOrderController(orderService)
	telegramController := controllers.NewTelegramController(telegramService)
	authController := controllers.NewAuthController(authService)

	r.Use(middleware.Logger())

	api := r.Group("/api")
	{
		// Telegram mini-app endpoints, paths fixed by the bot client.
		api.POST("/telegram/user/create/", telegramController.CreateUser)
		api.GET("/check-user/:telegram_id/", telegramController.CheckUser)
		api.GET("/user/:telegram_id/", telegramController.GetUser)
		api.POST("/feedback/create/", telegramController.CreateFeedback)

		// Public storefront reads.
		api.GET("/books", bookController.PublicListBooks)
		api.GET("/books/hot", bookController.HotBooks)
		api.GET("/books/:slug", bookController.GetBookBySlug)
		api.GET("/collections", collectionController.PublicListCollections)
		api.GET("/collections/:slug", collectionController.GetCollectionBySlug)

		api.POST("/auth/login", authController.Login)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	{
		admin.POST("/auth/register", authController.Register)

		authors := admin.Group("/authors")
		{
			authors.POST("", catalogController.CreateAuthor)
			authors.GET("", catalogController.ListAuthors)
			authors.GET("/:id", catalogController.GetAuthor)
			authors.PUT("/:id", catalogController.UpdateAuthor)
			authors.DELETE("/:id", catalogController.DeleteAuthor)
			authors.GET("/:id/stats", catalogController.AuthorStats)
		}

		translators := admin.Group("/translators")
		{
			translators.POST("", catalogController.CreateTranslator)
			translators.GET("", catalogController.ListTranslators)
			translators.GET("/:id", catalogController.GetTranslator)
			translators.PUT("/:id", catalogController.UpdateTranslator)
			translators.DELETE("/:id", catalogController.DeleteTranslator)
			translators.GET("/:id/stats", catalogController.TranslatorStats)
		}

		genres := admin.Group("/genres")
		{
			genres.POST("", catalogController.CreateGenre)
			genres.GET("", catalogController.ListGenres)
			genres.GET("/:id", catalogController.GetGenre)
			genres.PUT("/:id", catalogController.UpdateGenre)
			genres.DELETE("/:id", catalogController.DeleteGenre)
			genres.GET("/:id/stats", catalogController.GenreStats)
		}

		categories := admin.Group("/categories")
		{
			categories.POST("", catalogController.CreateCategory)
			categories.GET("", catalogController.ListCategories)
			categories.GET("/:id", catalogController.GetCategory)
			categories.PUT("/:id", catalogController.UpdateCategory)
			categories.DELETE("/:id", catalogController.DeleteCategory)
			categories.GET("/:id/stats", catalogController.CategoryStats)
		}

		publishers := admin.Group("/publishers")
		{
			publishers.POST("", catalogController.CreatePublisher)
			publishers.GET("", catalogController.ListPublishers)
			publishers.GET("/:id", catalogController.GetPublisher)
			publishers.PUT("/:id", catalogController.UpdatePublisher)
			publishers.DELETE("/:id", catalogController.DeletePublisher)
			publishers.GET("/:id/stats", catalogController.PublisherStats)
		}

		printingHouses := admin.Group("/printing-houses")
		{
			printingHouses.POST("", catalogController.CreatePrintingHouse)
			printingHouses.GET("", catalogController.ListPrintingHouses)
			printingHouses.GET("/:id", catalogController.GetPrintingHouse)
			printingHouses.PUT("/:id", catalogController.UpdatePrintingHouse)
			printingHouses.DELETE("/:id", catalogController.DeletePrintingHouse)
			printingHouses.GET("/:id/stats", catalogController.PrintingHouseStats)
		}

		images := admin.Group("/book-images")
		{
			images.POST("", catalogController.CreateBookImage)
			images.GET("", catalogController.ListBookImages)
			images.DELETE("/:id", catalogController.DeleteBookImage)
		}

		books := admin.Group("/books")
		{
			books.POST("", bookController.CreateBook)
			books.GET("", bookController.ListBooks)
			books.GET("/:id", bookController.GetBook)
			books.PUT("/:id", bookController.UpdateBook)
			books.DELETE("/:id", bookController.DeleteBook)

			books.POST("/mark-new", bookController.MarkNew)
			books.POST("/unmark-new", bookController.UnmarkNew)
			books.POST("/mark-featured", bookController.MarkFeatured)
			books.POST("/unmark-featured", bookController.UnmarkFeatured)
			books.POST("/activate", bookController.Activate)
			books.POST("/deactivate", bookController.Deactivate)
		}

		collections := admin.Group("/collections")
		{
			collections.POST("", collectionController.CreateCollection)
			collections.GET("", collectionController.ListCollections)
			collections.GET("/:id", collectionController.GetCollection)
			collections.PUT("/:id", collectionController.UpdateCollection)
			collections.DELETE("/:id", collectionController.DeleteCollection)
			collections.POST("/:id/activate", collectionController.Activate)
			collections.POST("/:id/deactivate", collectionController.Deactivate)
			collections.POST("/:id/books", collectionController.AddBooks)
			collections.DELETE("/:id/books", collectionController.RemoveBooks)
		}

		orders := admin.Group("/orders")
		{
			orders.POST("", orderController.CreateOrder)
			orders.GET("", orderController.ListOrders)
			orders.GET("/:id", orderController.GetOrder)
			orders.PUT("/:id", orderController.UpdateOrder)
			orders.DELETE("/:id", orderController.DeleteOrder)
			orders.GET("/user/:telegram_id", orderController.ListUserOrders)

			orders.POST("/:id/items", orderController.AddItem)
			orders.PUT("/:id/items/:item_id", orderController.UpdateItemQuantity)
			orders.DELETE("/:id/items/:item_id", orderController.RemoveItem)

			orders.POST("/:id/status", orderController.TransitionStatus)
			orders.POST("/bulk-status", orderController.BulkTransition)
		}

		admin.GET("/telegram-users", telegramController.ListUsers)
		admin.GET("/feedbacks", telegramController.ListFeedbacks)
	}

	r.GET("/ws/orders", websocket.HandleConnection)
}
