package handler

import (
	"net/http"

	"batch-scanner/internal/domain"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(controller domain.SessionController, config domain.Config, logger domain.Logger) http.Handler {
	router := mux.NewRouter()

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","service":"batch-scanner"}`))
	}).Methods("GET")

	scanHandler := NewScanHandler(controller, config, logger)

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/scan", scanHandler.Scan).Methods("POST")
	api.HandleFunc("/preview/{id}", scanHandler.Preview).Methods("GET")
	api.HandleFunc("/session", scanHandler.Session).Methods("GET")
	api.HandleFunc("/save", scanHandler.Save).Methods("POST")
	api.HandleFunc("/discard", scanHandler.Discard).Methods("POST")
	api.HandleFunc("/scanner_info", scanHandler.ScannerInfo).Methods("GET")

	// Configure CORS for the local browser UI
	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5000",
			"http://localhost:5173",
			"http://localhost:3000",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
		},
		MaxAge: 300,
	})

	return c.Handler(router)
}
