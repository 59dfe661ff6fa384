package controllers

import (
	"errors"
	"net/http"

	"equilibrio-api/models"
	"equilibrio-api/services/presets"
	"equilibrio-api/services/screener"

	"github.com/gin-gonic/gin"
)

// PresetController handles saved filter presets and the active-filter mirror.
type PresetController struct {
	presets *presets.Service
}

// NewPresetController creates a new preset controller.
func NewPresetController(svc *presets.Service) *PresetController {
	return &PresetController{presets: svc}
}

type presetRequest struct {
	Name        string             `json:"name" binding:"required"`
	Description string             `json:"description"`
	Filters     models.StockFilter `json:"filters"`
}

// GetPresets returns all saved presets in insertion order
// GET /api/presets
func (pc *PresetController) GetPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": pc.presets.List(c.Request.Context())})
}

// GetPreset returns one preset by id
// GET /api/presets/:id
func (pc *PresetController) GetPreset(c *gin.Context) {
	preset, err := pc.presets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Preset not found"})
		return
	}
	c.JSON(http.StatusOK, preset)
}

// CreatePreset saves a new named preset
// POST /api/presets
func (pc *PresetController) CreatePreset(c *gin.Context) {
	var req presetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid preset payload"})
		return
	}

	preset, err := pc.presets.Save(c.Request.Context(), req.Name, req.Description, req.Filters)
	if err != nil {
		if errors.Is(err, models.ErrInvalidPreset) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save preset"})
		return
	}
	c.JSON(http.StatusCreated, preset)
}

// UpdatePreset rewrites an existing preset in place
// PUT /api/presets/:id
func (pc *PresetController) UpdatePreset(c *gin.Context) {
	var req presetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid preset payload"})
		return
	}

	preset, err := pc.presets.Update(c.Request.Context(), c.Param("id"), req.Name, req.Description, req.Filters)
	if err != nil {
		switch {
		case errors.Is(err, presets.ErrPresetNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Preset not found"})
		case errors.Is(err, models.ErrInvalidPreset):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update preset"})
		}
		return
	}
	c.JSON(http.StatusOK, preset)
}

// DeletePreset removes a preset; deleting an unknown id succeeds
// DELETE /api/presets/:id
func (pc *PresetController) DeletePreset(c *gin.Context) {
	pc.presets.Delete(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "Preset deleted"})
}

// ApplyPreset loads a preset's criteria into the active filter
// POST /api/presets/:id/apply
func (pc *PresetController) ApplyPreset(c *gin.Context) {
	filter, err := pc.presets.Apply(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, presets.ErrPresetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Preset not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply preset"})
		return
	}
	c.JSON(http.StatusOK, filter)
}

// GetActiveFilter returns the persisted active filter, falling back to the
// defaults when nothing usable is stored
// GET /api/filters
func (pc *PresetController) GetActiveFilter(c *gin.Context) {
	c.JSON(http.StatusOK, pc.presets.ActiveFilter(c.Request.Context()))
}

// SetActiveFilter replaces the whole active filter
// PUT /api/filters
func (pc *PresetController) SetActiveFilter(c *gin.Context) {
	var filter models.StockFilter
	if err := c.ShouldBindJSON(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter payload"})
		return
	}
	pc.presets.SetActiveFilter(c.Request.Context(), filter)
	c.JSON(http.StatusOK, filter)
}

// PatchActiveFilter applies one single-field update to the active filter
// PATCH /api/filters
func (pc *PresetController) PatchActiveFilter(c *gin.Context) {
	var update screener.FilterUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter update"})
		return
	}

	current := pc.presets.ActiveFilter(c.Request.Context())
	next, err := screener.ApplyUpdate(current, update)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pc.presets.SetActiveFilter(c.Request.Context(), next)
	c.JSON(http.StatusOK, next)
}

// ResetActiveFilter restores the default filter
// DELETE /api/filters
func (pc *PresetController) ResetActiveFilter(c *gin.Context) {
	c.JSON(http.StatusOK, pc.presets.ResetActiveFilter(c.Request.Context()))
}
