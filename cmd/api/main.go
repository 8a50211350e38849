package main

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jtmst/dash-md/internal/config"
	"github.com/jtmst/dash-md/internal/platform/logger"
	"github.com/jtmst/dash-md/internal/router"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat, "dash-md")

	r := router.NewRouter(router.Options{Config: cfg})

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 5 * time.Second,
		// el request de summary puede esperar hasta 30s por el LLM
		WriteTimeout: 60 * time.Second,
	}

	log.Info().Str("addr", srv.Addr).Msg("starting server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server error")
	}
}
