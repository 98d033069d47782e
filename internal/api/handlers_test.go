package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitegen_ai_server/internal/ai"
	"sitegen_ai_server/internal/catalog"
	"sitegen_ai_server/internal/metrics"
	"sitegen_ai_server/internal/pipeline"
	"sitegen_ai_server/internal/store"
	"sitegen_ai_server/internal/types"
)

type generatorFunc func(ctx context.Context, raw types.RawRequirements, progress pipeline.ProgressFunc) (*types.GeneratedWebsite, error)

func (f generatorFunc) Generate(ctx context.Context, raw types.RawRequirements, progress pipeline.ProgressFunc) (*types.GeneratedWebsite, error) {
	return f(ctx, raw, progress)
}

type failingStore struct{ store.SiteStore }

func (failingStore) Save(context.Context, *types.GeneratedWebsite) error {
	return errors.New("store unavailable")
}

func setupRouter(t *testing.T, gen Generator, sites store.SiteStore) (*gin.Engine, *metrics.Recorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := metrics.NewRecorder()
	router := gin.New()
	RegisterRoutes(router, NewAPIHandler(gen, sites, rec, nil), rec.Handler())
	return router, rec
}

func offlineOrchestrator(t *testing.T, rec pipeline.Observer) *pipeline.Orchestrator {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	o, err := pipeline.New(pipeline.Options{
		Completer: ai.NewGenerator(ai.Options{}),
		Catalog:   cat,
		Observer:  rec,
	})
	require.NoError(t, err)
	return o
}

func doJSON(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestGenerateStoreAndFetch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := metrics.NewRecorder()
	router := gin.New()
	RegisterRoutes(router, NewAPIHandler(offlineOrchestrator(t, rec), store.NewMemoryStore(time.Hour), rec, nil), rec.Handler())

	w := doJSON(router, http.MethodPost, "/project/generate",
		`{"businessName": "Harbor Bakery", "industry": "restaurant", "location": "Portland", "services": ["Sourdough", "Catering"]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ProjectID)
	assert.Equal(t, resp.ProjectID, resp.Website.ID)
	assert.Contains(t, resp.Website.Markup, "Harbor Bakery")
	require.NotEmpty(t, resp.Events)
	assert.Equal(t, pipeline.StageAssemble, resp.Events[len(resp.Events)-1].Stage)
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.GenerationsTotal.WithLabelValues("completed")))

	w = doJSON(router, http.MethodGet, "/project/"+resp.ProjectID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var site types.GeneratedWebsite
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &site))
	assert.Equal(t, resp.Website.Markup, site.Markup)

	w = doJSON(router, http.MethodGet, "/project/"+resp.ProjectID+"/files", "")
	require.Equal(t, http.StatusOK, w.Code)
	var files FilesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &files))
	require.Len(t, files.Files, 2)
	assert.Equal(t, "index.html", files.Files[0].Filename)
	assert.Equal(t, "HTML", files.Files[0].Type)
	assert.Equal(t, "styles.css", files.Files[1].Filename)
	assert.Equal(t, "CSS", files.Files[1].Type)

	w = doJSON(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sitegen_pipeline_stages_total")
}

func TestGenerateValidationError(t *testing.T) {
	router, rec := setupRouter(t, offlineOrchestrator(t, nil), store.NewMemoryStore(time.Hour))

	w := doJSON(router, http.MethodPost, "/project/generate", `{"businessName": "  ", "industry": ""}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []string{"businessName", "industry"}, resp.Fields)
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.GenerationsTotal.WithLabelValues("rejected")))
}

func TestGenerateMalformedBody(t *testing.T) {
	router, _ := setupRouter(t, offlineOrchestrator(t, nil), store.NewMemoryStore(time.Hour))

	w := doJSON(router, http.MethodPost, "/project/generate", `{"businessName": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateCancelledByCaller(t *testing.T) {
	gen := generatorFunc(func(context.Context, types.RawRequirements, pipeline.ProgressFunc) (*types.GeneratedWebsite, error) {
		return nil, context.Canceled
	})
	router, rec := setupRouter(t, gen, store.NewMemoryStore(time.Hour))

	w := doJSON(router, http.MethodPost, "/project/generate", `{"businessName": "Acme", "industry": "generic"}`)
	assert.Equal(t, statusClientClosedRequest, w.Code)
	assert.Empty(t, w.Body.Bytes())
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.GenerationsTotal.WithLabelValues("cancelled")))
}

func TestGenerateStoreFailure(t *testing.T) {
	router, rec := setupRouter(t, offlineOrchestrator(t, nil), failingStore{})

	w := doJSON(router, http.MethodPost, "/project/generate", `{"businessName": "Acme", "industry": "generic"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.GenerationsTotal.WithLabelValues("failed")))
}

func TestGetProjectNotFound(t *testing.T) {
	router, _ := setupRouter(t, offlineOrchestrator(t, nil), store.NewMemoryStore(time.Hour))

	for _, path := range []string{"/project/missing", "/project/missing/files"} {
		w := doJSON(router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestHealth(t *testing.T) {
	router, _ := setupRouter(t, offlineOrchestrator(t, nil), store.NewMemoryStore(time.Hour))

	w := doJSON(router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}

func TestGenerateUsesRequestBody(t *testing.T) {
	var got types.RawRequirements
	gen := generatorFunc(func(_ context.Context, raw types.RawRequirements, progress pipeline.ProgressFunc) (*types.GeneratedWebsite, error) {
		got = raw
		progress(types.ProgressEvent{GenerationID: "g1", Stage: pipeline.StageNormalize, Status: types.StatusStarted, Seq: 1})
		return &types.GeneratedWebsite{ID: "g1"}, nil
	})
	router, _ := setupRouter(t, gen, store.NewMemoryStore(time.Hour))

	body, err := json.Marshal(types.RawRequirements{
		BusinessName:     "Acme",
		Industry:         "technology",
		Pages:            []string{"pricing"},
		BrandPreferences: &types.BrandPreferences{PrimaryColor: "#123456"},
	})
	require.NoError(t, err)
	w := doJSON(router, http.MethodPost, "/project/generate", string(body))
	require.Equal(t, http.StatusCreated, w.Code)

	assert.Equal(t, []string{"pricing"}, got.Pages)
	require.NotNil(t, got.BrandPreferences)
	assert.Equal(t, "#123456", got.BrandPreferences.PrimaryColor)

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "g1", resp.ProjectID)
	require.Len(t, resp.Events, 1)
}
