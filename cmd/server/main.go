package main

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Equinox89/1000/internal/history"
	"github.com/Equinox89/1000/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := server.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, err := buildLogger(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	store, err := history.NewFileStore(cfg.HistoryPath)
	if err != nil {
		logger.Fatal("opening history store", zap.Error(err))
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", server.NewHandler(store, logger))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Serve frontend build with SPA fallback
	mux.Handle("/", spaHandler(cfg.StaticDir))

	handler := handlers.CombinedLoggingHandler(os.Stdout, mux)
	handler = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
	)(handler)

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func spaHandler(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean(r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	})
}
