// Command local serves the mail dispatcher over plain HTTP for development.
// Every path is forwarded, so /ping and POST / behave as they do behind
// API Gateway.
package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"email-processor/bootstrap"
	"email-processor/config"
	"email-processor/logging"
	"email-processor/mailer"
)

const maxBodyBytes = 1 << 20

func newRouter(h *mailer.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}

		resp := h.Handle(r.Context(), mailer.Request{
			Path:    r.URL.Path,
			Body:    string(body),
			BodyRaw: string(body),
		})

		w.Header().Set("Content-Type", resp.ContentType)
		w.WriteHeader(resp.StatusCode)
		w.Write(resp.Body)
	})

	return r
}

func main() {
	rt := config.LoadRuntime(os.Getenv)
	logger := logging.New(rt.LogLevel)

	h, err := bootstrap.Mailer(context.Background(), rt, logger)
	if err != nil {
		log.Fatalf("unable to initialize handler, %v", err)
	}

	logger.Info("listening", "addr", rt.ListenAddr)
	if err := http.ListenAndServe(rt.ListenAddr, newRouter(h)); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
