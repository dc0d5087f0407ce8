package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/markdembo/do-collab/internal/catalog"
	"github.com/markdembo/do-collab/internal/project"
	"github.com/markdembo/do-collab/internal/ws"
)

// API serves the request/response surface beside the WebSocket channel.
type API struct {
	registry *project.Registry
	catalog  *catalog.Catalog
}

func New(registry *project.Registry, cat *catalog.Catalog) *API {
	return &API{
		registry: registry,
		catalog:  cat,
	}
}

func jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats := map[string]interface{}{
		"active_projects": a.registry.Count(),
		"active_sessions": a.registry.SessionCount(),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	}

	if a.catalog != nil {
		catStats, err := a.catalog.GetStats()
		if err == nil {
			stats["known_projects"] = catStats["project_count"]
		}
	}

	jsonResponse(w, http.StatusOK, stats)
}

// GenerateHandler allocates a fresh project identifier.
func (a *API) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()

	if a.catalog != nil {
		if err := a.catalog.CreateProject(id); err != nil {
			errorResponse(w, http.StatusInternalServerError, "Failed to create project")
			return
		}
	}

	jsonResponse(w, http.StatusOK, map[string]string{"id": id})
}

func (a *API) ListProjectsHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	projects, err := a.catalog.ListProjects(limit, offset)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "Failed to list projects")
		return
	}
	if projects == nil {
		projects = []catalog.Project{}
	}

	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"projects": projects,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetStateHandler returns the full current document for a project.
func (a *API) GetStateHandler(w http.ResponseWriter, r *http.Request) {
	coordinator := a.resolve(r)
	jsonResponse(w, http.StatusOK, coordinator.Snapshot())
}

// PostStateHandler applies a partial document update on behalf of the user
// named in the X-User-Name header.
func (a *API) PostStateHandler(w http.ResponseWriter, r *http.Request) {
	coordinator := a.resolve(r)

	var update project.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userName := r.Header.Get("X-User-Name")

	state, err := coordinator.ApplyUpdate(update, userName)
	if err != nil {
		var validation *project.ValidationError
		if errors.As(err, &validation) {
			jsonResponse(w, http.StatusBadRequest, map[string]interface{}{
				"success": false,
				"errors":  validation.Errors,
			})
			return
		}

		var denied *project.LockDeniedError
		if errors.As(err, &denied) {
			jsonResponse(w, http.StatusForbidden, map[string]interface{}{
				"success": false,
				"error":   denied.Reason,
			})
			return
		}

		errorResponse(w, http.StatusInternalServerError, "Failed to apply update")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"state":   state,
	})
}

// WSHandler upgrades the connection and hands it to the coordinator.
func (a *API) WSHandler(w http.ResponseWriter, r *http.Request) {
	coordinator := a.resolve(r)
	ws.ServeWs(coordinator, w, r)
}

// NotFoundHandler mirrors the JSON body every other route speaks.
func (a *API) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	errorResponse(w, http.StatusNotFound, "Not Found")
}

// resolve looks up the addressed coordinator, creating it on first access,
// and records catalog activity best-effort.
func (a *API) resolve(r *http.Request) *project.Coordinator {
	projectID := mux.Vars(r)["projectID"]

	if a.catalog != nil {
		if err := a.catalog.Touch(projectID); err != nil {
			log.Printf("Failed to touch project %s in catalog: %v", projectID, err)
		}
	}

	return a.registry.Get(projectID)
}

// Router builds the full route table.
func (a *API) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", a.HealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/stats", a.StatsHandler).Methods(http.MethodGet)
	router.HandleFunc("/generate", a.GenerateHandler).Methods(http.MethodPost)
	router.HandleFunc("/projects", a.ListProjectsHandler).Methods(http.MethodGet)
	router.HandleFunc("/{projectID}/state", a.GetStateHandler).Methods(http.MethodGet)
	router.HandleFunc("/{projectID}/state", a.PostStateHandler).Methods(http.MethodPost)
	router.HandleFunc("/{projectID}/ws", a.WSHandler).Methods(http.MethodGet)
	router.NotFoundHandler = http.HandlerFunc(a.NotFoundHandler)

	return router
}
