package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/markdembo/do-collab/internal/api"
	"github.com/markdembo/do-collab/internal/catalog"
	"github.com/markdembo/do-collab/internal/project"
)

func main() {
	dbPath := os.Getenv("COLLAB_DB_PATH")
	if dbPath == "" {
		dbPath = "./data/collab.db"
	}

	cat, err := catalog.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize catalog: %v", err)
	}
	defer cat.Close()

	registry := project.NewRegistry()
	apiHandler := api.New(registry, cat)

	handler := corsMiddleware(apiHandler.Router())

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		cat.Close()
		os.Exit(0)
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Collab server starting on :%s", port)
	log.Printf("Catalog: %s", dbPath)
	log.Println("Endpoints:")
	log.Println("  - Generate:  POST /generate")
	log.Println("  - Projects:  GET /projects")
	log.Println("  - State:     GET/POST /{projectId}/state")
	log.Println("  - WebSocket: /{projectId}/ws")
	log.Println("  - Health:    GET /health")
	log.Println("  - Stats:     GET /stats")

	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatal("ListenAndServe: ", err)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User-Name")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
