package router

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	mem "github.com/jtmst/dash-md/internal/adapters/storage/memory"
	pg "github.com/jtmst/dash-md/internal/adapters/storage/postgres"
	"github.com/jtmst/dash-md/internal/adapters/textgen/openrouter"
	"github.com/jtmst/dash-md/internal/api"
	"github.com/jtmst/dash-md/internal/config"
	"github.com/jtmst/dash-md/internal/domain/notes"
	"github.com/jtmst/dash-md/internal/domain/patients"
	"github.com/jtmst/dash-md/internal/domain/summary"
	"github.com/jtmst/dash-md/internal/middleware"
	"github.com/jtmst/dash-md/internal/platform/seed"
	"github.com/jtmst/dash-md/internal/ports/textgen"
)

type Options struct {
	Config config.Config

	// Opcional: si viene, usa esa DB. Si no, intenta DATABASE_URL y cae a
	// in-memory.
	DB *sql.DB

	// Opcional: generador de texto a inyectar (tests). Si es nil y el modo
	// LLM está habilitado, se construye el cliente OpenRouter una vez.
	Generator textgen.Generator
}

func NewRouter(opts Options) http.Handler {
	cfg := opts.Config

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Recover)

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowedHeaders:   []string{"Content-Type", "Authorization", middleware.HeaderRequestID},
			AllowCredentials: true,
		}))
	}

	var (
		patientRepo patients.Repository
		noteRepo    notes.Repository
	)

	db := opts.DB
	if db == nil && cfg.DatabaseURL != "" {
		opened, err := pg.Open(cfg.DatabaseURL)
		if err != nil {
			log.Error().Err(err).Msg("could not open database, falling back to in-memory store")
		} else {
			db = opened
		}
	}

	if db != nil {
		patientRepo = pg.NewPatientsRepo(db)
		noteRepo = pg.NewNotesRepo(db)
	} else {
		store := mem.NewStore()
		patientRepo = store.Patients()
		noteRepo = store.Notes()
	}

	patientsSvc := patients.NewService(patientRepo)
	notesSvc := notes.NewService(noteRepo, patientsSvc)

	gen := opts.Generator
	if gen == nil && cfg.LLMEnabled() {
		client, err := openrouter.New(cfg.OpenRouterAPIKey, cfg.OpenRouterModel)
		if err != nil {
			log.Warn().Err(err).Msg("could not build llm client, summaries will use the template path")
		} else {
			gen = client
		}
	}
	summarySvc := summary.NewService(gen)

	if cfg.SeedData {
		if err := seed.Patients(context.Background(), patientsSvc); err != nil {
			log.Warn().Err(err).Msg("seeding failed")
		}
	}

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		patients.RegisterRoutes(ar, patientsSvc)
		notes.RegisterRoutes(ar, notesSvc)
		summary.RegisterRoutes(ar, patientsSvc, notesSvc, summarySvc)
	})

	return r
}
