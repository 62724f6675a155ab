package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/DeiversonMedeiros/payroll-backend-go/internal/handler/http/middleware"
	"github.com/DeiversonMedeiros/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	jwtService jwt.Service,
	allowedOrigins []string,
	eventHandler PayrollEventHandler,
	calculationHandler CalculationHandler,
	rubricaHandler RubricaHandler,
	esocialHandler ESocialHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/payroll-events", func(r chi.Router) {
				r.Get("/", eventHandler.List)
				r.Post("/consolidate", eventHandler.Consolidate)
				r.Post("/approve", eventHandler.Approve)
				r.Post("/reject", eventHandler.Reject)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Route("/calculations", func(r chi.Router) {
					r.Get("/", calculationHandler.List)
					r.Post("/", calculationHandler.Calculate)
					r.Get("/{id}", calculationHandler.Get)
					r.Post("/{id}/approve", calculationHandler.Approve)
				})

				r.Route("/rubricas", func(r chi.Router) {
					r.Get("/", rubricaHandler.List)
					r.Post("/", rubricaHandler.Create)
					r.Post("/seed", rubricaHandler.Seed)
					r.Get("/{id}", rubricaHandler.Get)
					r.Put("/{id}", rubricaHandler.Update)
					r.Delete("/{id}", rubricaHandler.Deactivate)
				})

				r.Get("/tax-tables", rubricaHandler.GetTaxTables)
			})

			r.Route("/esocial", func(r chi.Router) {
				r.Post("/process", esocialHandler.Process)
				r.Post("/retry", esocialHandler.Retry)
				r.Get("/events", esocialHandler.ListEvents)
				r.Get("/batches", esocialHandler.ListBatches)
			})
		})
	})

	return r
}
