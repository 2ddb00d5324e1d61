package server

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/marketpoint/marketpoint"
	"github.com/marketpoint/marketpoint/products"
)

// Deps carries everything the HTTP boundary needs.
type Deps struct {
	Logger   marketpoint.Logger
	Config   marketpoint.Config
	Auther   marketpoint.Authenticator
	Tokens   marketpoint.TokenService
	Repo     marketpoint.RepositoryManager
	Products *products.Service
}

// Server owns the fiber app and its routes.
type Server struct {
	app    *fiber.App
	logger marketpoint.Logger
}

func New(deps Deps) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "marketpoint",
		ErrorHandler: NewErrorHandler(deps.Logger),
	})

	srv := &Server{
		app:    app,
		logger: deps.Logger,
	}

	srv.registerRoutes(deps)

	return srv
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) registerRoutes(deps Deps) {
	protected := Protected(deps.Config, deps.Tokens)

	authCtrl := NewAuthController(deps.Logger, deps.Config, deps.Auther, deps.Repo)
	productCtrl := NewProductController(deps.Logger, deps.Config, deps.Products)

	s.app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth := s.app.Group("/api/auth")
	auth.Post("/signup", authCtrl.Signup)
	auth.Post("/login", authCtrl.Login)
	auth.Post("/verify-email", authCtrl.VerifyEmail)
	auth.Get("/verify-email", authCtrl.VerifyEmail)
	auth.Post("/resend-verification", protected, authCtrl.ResendVerification)
	auth.Get("/profile", protected, authCtrl.Profile)
	auth.Put("/update", protected, authCtrl.Update)
	auth.Post("/change-password", protected, authCtrl.ChangePassword)
	auth.Delete("/delete", protected, authCtrl.Delete)

	prods := s.app.Group("/api/products")
	prods.Get("/", productCtrl.List)
	prods.Get("/:id", productCtrl.Show)
	prods.Post("/", protected, productCtrl.Create)
	prods.Put("/:id", protected, productCtrl.Update)
	prods.Delete("/:id", protected, productCtrl.Delete)

	s.app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Route not found",
		})
	})
}

// Serve blocks listening on the given address.
func (s *Server) Serve(addr string) error {
	s.logger.Info("listening on %s", addr)
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
