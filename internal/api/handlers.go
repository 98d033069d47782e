package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sitegen_ai_server/internal/assembler"
	"sitegen_ai_server/internal/logger"
	"sitegen_ai_server/internal/pipeline"
	"sitegen_ai_server/internal/store"
	"sitegen_ai_server/internal/types"
)

// statusClientClosedRequest is logged and recorded when the caller goes away mid-generation.
const statusClientClosedRequest = 499

// Generator runs the website pipeline. *pipeline.Orchestrator satisfies it.
type Generator interface {
	Generate(ctx context.Context, raw types.RawRequirements, progress pipeline.ProgressFunc) (*types.GeneratedWebsite, error)
}

// GenerationObserver counts finished requests. *metrics.Recorder satisfies it.
type GenerationObserver interface {
	ObserveGeneration(result string)
}

// APIHandler holds dependencies for API endpoints.
type APIHandler struct {
	generator Generator
	store     store.SiteStore
	observer  GenerationObserver
	log       logger.Logger
}

// NewAPIHandler initializes a new API handler with its dependencies. observer may be nil.
func NewAPIHandler(gen Generator, sites store.SiteStore, observer GenerationObserver, log logger.Logger) *APIHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &APIHandler{generator: gen, store: sites, observer: observer, log: log}
}

// --- Structs for API Requests/Responses ---

type GenerateResponse struct {
	ProjectID string                  `json:"projectId"`
	Website   *types.GeneratedWebsite `json:"website"`
	Events    []types.ProgressEvent   `json:"events"`
}

type FilesResponse struct {
	Files []types.GeneratedFile `json:"files"`
}

type ErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

// --- API Handlers ---

// POST /project/generate
func (h *APIHandler) GenerateSite(c *gin.Context) {
	var req types.RawRequirements
	if err := c.ShouldBindJSON(&req); err != nil {
		h.record("rejected")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	h.log.Info("Received generation request",
		logger.String("business", req.BusinessName),
		logger.String("industry", req.Industry),
	)

	var events []types.ProgressEvent
	site, err := h.generator.Generate(c.Request.Context(), req, func(e types.ProgressEvent) {
		events = append(events, e)
	})
	if err != nil {
		h.generateFailed(c, err)
		return
	}

	if err := h.store.Save(c.Request.Context(), site); err != nil {
		h.record("failed")
		h.log.Error("Failed to store website", logger.String("project_id", site.ID), logger.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to store generated website"})
		return
	}

	h.record("completed")
	h.log.Info("Site generation successful",
		logger.String("project_id", site.ID),
		logger.Duration("duration", site.GeneratedIn),
	)
	c.JSON(http.StatusCreated, GenerateResponse{ProjectID: site.ID, Website: site, Events: events})
}

func (h *APIHandler) generateFailed(c *gin.Context, err error) {
	var verr *pipeline.ValidationError
	switch {
	case errors.As(err, &verr):
		h.record("rejected")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: verr.Error(), Fields: verr.Fields})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.record("cancelled")
		h.log.Info("Generation abandoned by caller", logger.Error(err))
		c.AbortWithStatus(statusClientClosedRequest)
	default:
		h.record("failed")
		h.log.Error("Error generating site", logger.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate site"})
	}
}

// GET /project/:id
func (h *APIHandler) GetProject(c *gin.Context) {
	site, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, site)
}

// GET /project/:id/files
func (h *APIHandler) GetProjectFiles(c *gin.Context) {
	site, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, FilesResponse{Files: assembler.Files(site)})
}

func (h *APIHandler) load(c *gin.Context) (*types.GeneratedWebsite, bool) {
	projectID := c.Param("id")
	site, err := h.store.Get(c.Request.Context(), projectID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Project not found"})
		return nil, false
	}
	if err != nil {
		h.log.Error("Error fetching project", logger.String("project_id", projectID), logger.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve project"})
		return nil, false
	}
	return site, true
}

func (h *APIHandler) record(result string) {
	if h.observer != nil {
		h.observer.ObserveGeneration(result)
	}
}
