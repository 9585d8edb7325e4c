package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eraam/booksaloon-api/internal/application/auth"
	"github.com/eraam/booksaloon-api/internal/application/usecase"
	"github.com/eraam/booksaloon-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.UseCase
	UserUC    *usecase.UserUseCase
	BookUC    *usecase.BookUseCase
	ReviewUC  *usecase.ReviewUseCase
	Resolver  UserResolver
	JWTSecret string
	Cookie    CookieConfig
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookie)
	userHandler := NewUserHandler(deps.UserUC)
	bookHandler := NewBookHandler(deps.BookUC)
	reviewHandler := NewReviewHandler(deps.ReviewUC)

	protect := Protect(deps.JWTSecret, deps.Resolver)

	// Users: auth público primero, luego todo lo demás exige sesión
	users := api.Group("/users")
	users.Post("/signup", authHandler.Signup)
	users.Post("/login", authHandler.Login)
	users.Get("/logout", authHandler.Logout)
	users.Post("/forgotPassword", authHandler.ForgotPassword)
	users.Patch("/resetPassword/:token", authHandler.ResetPassword)

	users.Patch("/updateMyPassword", protect, authHandler.UpdateMyPassword)
	users.Get("/me", protect, userHandler.Me)
	users.Patch("/updateMe", protect, userHandler.UpdateMe)
	users.Delete("/deleteMe", protect, userHandler.DeleteMe)

	// Administración de cuentas (solo admin)
	adminOnly := RequireRole(entity.RoleAdmin)
	users.Get("/", protect, adminOnly, userHandler.List)
	users.Get("/:id", protect, adminOnly, userHandler.Get)
	users.Patch("/:id", protect, adminOnly, userHandler.Update)
	users.Delete("/:id", protect, adminOnly, userHandler.Delete)

	// Books: lectura pública, escritura para staff. El listado resuelve la
	// identidad si la hay: staff puede pedir ?hidden=true
	staffOnly := RequireRole(entity.RoleAdmin, entity.RoleLibrarian)
	books := api.Group("/books")
	books.Get("/top-10-books", bookHandler.TopRated)
	books.Get("/book-stats", bookHandler.Stats)
	books.Get("/books-by-month/:year", bookHandler.ByMonth)
	books.Get("/", IsLoggedIn(deps.JWTSecret, deps.Resolver), bookHandler.List)
	books.Post("/", protect, staffOnly, bookHandler.Create)
	books.Get("/:id", bookHandler.Get)
	books.Patch("/:id", protect, staffOnly, bookHandler.Update)
	books.Delete("/:id", protect, staffOnly, bookHandler.Delete)

	// Reviews anidadas bajo books; crear es solo para lectores (rol user)
	reviews := books.Group("/:bookId/reviews")
	reviews.Get("/", reviewHandler.ListByBook)
	reviews.Post("/", protect, RequireRole(entity.RoleUser), reviewHandler.Create)
	reviews.Get("/:id", reviewHandler.Get)
	reviews.Patch("/:id", protect, reviewHandler.Update)
	reviews.Delete("/:id", protect, reviewHandler.Delete)
}
