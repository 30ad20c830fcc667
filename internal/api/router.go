package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config carries the router's settings.
type Config struct {
	JWTSecret   string
	AdminSecret string
	CORSOrigin  string
	Location    *time.Location
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, cfg Config) http.Handler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	authHandler := &AuthHandler{DB: db, JWTSecret: cfg.JWTSecret, AdminSecret: cfg.AdminSecret}
	inventoryHandler := &InventoryHandler{DB: db}
	salesHandler := &SalesHandler{DB: db, Location: cfg.Location}
	employeesHandler := &EmployeesHandler{DB: db}
	expensesHandler := &ExpensesHandler{DB: db, Location: cfg.Location}
	settingsHandler := &SettingsHandler{DB: db, Location: cfg.Location}
	dashboardHandler := &DashboardHandler{DB: db, Location: cfg.Location}

	r := chi.NewRouter()
	r.Use(LoggingMiddleware)

	if cfg.CORSOrigin != "" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{cfg.CORSOrigin},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	authMW := AuthMiddleware(cfg.JWTSecret, db)

	r.Route("/api", func(r chi.Router) {
		// Public auth endpoints.
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/auth/me", authHandler.Me)

		// Authenticated surface.
		r.Group(func(r chi.Router) {
			r.Use(authMW)

			r.Post("/auth/logout", authHandler.Logout)
			r.Put("/auth/password", authHandler.ChangePassword)

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", inventoryHandler.List)
				r.Post("/", inventoryHandler.Add)
				r.Patch("/{id}", inventoryHandler.Update)
				r.Delete("/{id}", inventoryHandler.Delete)
				r.Post("/import/excel", inventoryHandler.ImportExcel)
				r.Get("/export/{type}", inventoryHandler.Export)
			})

			r.Route("/sales", func(r chi.Router) {
				r.Post("/", salesHandler.Create)
				r.Get("/", salesHandler.List)
				r.Get("/day", salesHandler.ListForDay)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", employeesHandler.List)
				r.Post("/", employeesHandler.Create)
				r.Put("/{id}", employeesHandler.Update)
				r.Delete("/{id}", employeesHandler.Delete)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", expensesHandler.List)
				r.Post("/", expensesHandler.Create)
				r.Get("/day", expensesHandler.ListForDay)
				r.Delete("/{id}", expensesHandler.Delete)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/profile", settingsHandler.GetProfile)
				r.Put("/profile", settingsHandler.UpdateProfile)
				r.Get("/preferences", settingsHandler.GetPreferences)
				r.Put("/preferences", settingsHandler.UpdatePreferences)
				r.Get("/inventory-audit", settingsHandler.InventoryAudit)

				r.Group(func(r chi.Router) {
					r.Use(RequireAdmin)
					r.Get("/users", settingsHandler.ListUsers)
					r.Post("/users", settingsHandler.CreateUser)
					r.Delete("/users/{id}", settingsHandler.DeleteUser)
				})
			})

			r.With(RequireAdmin).Get("/admin/dashboard", dashboardHandler.Get)
		})
	})

	return r
}
