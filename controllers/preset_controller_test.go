package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"equilibrio-api/models"
	"equilibrio-api/services/presets"
	"equilibrio-api/storage"

	"github.com/gin-gonic/gin"
)

func presetRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	pc := NewPresetController(presets.NewService(storage.NewMemoryStore()))

	router := gin.New()
	router.GET("/api/filters", pc.GetActiveFilter)
	router.PUT("/api/filters", pc.SetActiveFilter)
	router.PATCH("/api/filters", pc.PatchActiveFilter)
	router.DELETE("/api/filters", pc.ResetActiveFilter)
	router.GET("/api/presets", pc.GetPresets)
	router.POST("/api/presets", pc.CreatePreset)
	router.DELETE("/api/presets/:id", pc.DeletePreset)
	router.POST("/api/presets/:id/apply", pc.ApplyPreset)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestActiveFilterLifecycle(t *testing.T) {
	router := presetRouter()

	// Fresh install serves the defaults.
	w := doJSON(t, router, http.MethodGet, "/api/filters", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var filter models.StockFilter
	if err := json.Unmarshal(w.Body.Bytes(), &filter); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if filter.RSIMax != models.RSIFilterMax || filter.SearchTerm != "" {
		t.Errorf("expected defaults, got %+v", filter)
	}

	// Replace the whole filter, then read it back.
	filter.SearchTerm = "tech"
	filter.Sectors = []string{"Technology"}
	if w := doJSON(t, router, http.MethodPut, "/api/filters", filter); w.Code != http.StatusOK {
		t.Fatalf("put status = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/api/filters", nil)
	var got models.StockFilter
	json.Unmarshal(w.Body.Bytes(), &got)
	if got.SearchTerm != "tech" || len(got.Sectors) != 1 {
		t.Errorf("round trip mismatch: %+v", got)
	}

	// Single-field patch leaves the rest alone.
	patch := map[string]interface{}{"field": "rsiMax", "number": 30.0}
	w = doJSON(t, router, http.MethodPatch, "/api/filters", patch)
	if w.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body = %s", w.Code, w.Body.String())
	}
	json.Unmarshal(w.Body.Bytes(), &got)
	if got.RSIMax != 30 || got.SearchTerm != "tech" {
		t.Errorf("patch result: %+v", got)
	}

	// Unknown fields are rejected.
	bad := map[string]interface{}{"field": "nope", "number": 1.0}
	if w := doJSON(t, router, http.MethodPatch, "/api/filters", bad); w.Code != http.StatusBadRequest {
		t.Errorf("unknown field: status = %d, want 400", w.Code)
	}

	// Reset restores the defaults.
	if w := doJSON(t, router, http.MethodDelete, "/api/filters", nil); w.Code != http.StatusOK {
		t.Fatalf("reset status = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/api/filters", nil)
	json.Unmarshal(w.Body.Bytes(), &got)
	if got.SearchTerm != "" || got.RSIMax != models.RSIFilterMax {
		t.Errorf("reset did not restore defaults: %+v", got)
	}
}

func TestPresetEndpoints(t *testing.T) {
	router := presetRouter()

	criteria := models.DefaultStockFilter()
	criteria.EquilibriumZone = []string{"discount"}

	w := doJSON(t, router, http.MethodPost, "/api/presets", map[string]interface{}{
		"name":    "Discount hunters",
		"filters": criteria,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created models.FilterPreset
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created preset has no id")
	}

	// Invalid payloads are rejected with 400.
	bad := models.DefaultStockFilter()
	bad.RSIMin = 80
	bad.RSIMax = 20
	w = doJSON(t, router, http.MethodPost, "/api/presets", map[string]interface{}{
		"name":    "bad",
		"filters": bad,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("degenerate range: status = %d, want 400", w.Code)
	}

	// Applying a preset mirrors its criteria into the active filter.
	if w := doJSON(t, router, http.MethodPost, "/api/presets/"+created.ID+"/apply", nil); w.Code != http.StatusOK {
		t.Fatalf("apply status = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/api/filters", nil)
	var active models.StockFilter
	json.Unmarshal(w.Body.Bytes(), &active)
	if len(active.EquilibriumZone) != 1 || active.EquilibriumZone[0] != "discount" {
		t.Errorf("active filter after apply: %+v", active)
	}

	if w := doJSON(t, router, http.MethodPost, "/api/presets/missing/apply", nil); w.Code != http.StatusNotFound {
		t.Errorf("apply unknown: status = %d, want 404", w.Code)
	}

	// Delete is idempotent.
	if w := doJSON(t, router, http.MethodDelete, "/api/presets/"+created.ID, nil); w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/api/presets", nil)
	var list struct {
		Presets []models.FilterPreset `json:"presets"`
	}
	json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Presets) != 0 {
		t.Errorf("list after delete: %+v", list.Presets)
	}
}
