package stubserver

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/raphaelgruber/plagcheck/internal/analysis"
	"github.com/raphaelgruber/plagcheck/internal/interpret"
	"github.com/raphaelgruber/plagcheck/internal/models"
)

// analyzeRequest mirrors models.AnalysisRequest with optional fields so
// defaults can be applied like the real service does.
type analyzeRequest struct {
	Texts     []string  `json:"texts"`
	Threshold *float64  `json:"threshold"`
	Models    *[]string `json:"models"`
}

// NewRouter constructs a gin engine serving the fixture.
func NewRouter(fixture *Fixture, logger *slog.Logger) *gin.Engine {
	if fixture == nil {
		fixture = DefaultFixture()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	h := &handler{fixture: fixture}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(logger))

	g := r.Group("/api")
	g.GET("/models", h.listModels)
	g.GET("/health", h.health)
	g.POST("/analyze", h.analyze)
	return r
}

type handler struct {
	fixture *Fixture
}

func (h *handler) listModels(c *gin.Context) {
	catalog := models.Catalog{Models: make([]models.ModelInfo, 0, len(h.fixture.Models))}
	for _, m := range h.fixture.Models {
		catalog.Models = append(catalog.Models, models.ModelInfo{Name: m.Name, Description: m.Description})
	}
	c.JSON(http.StatusOK, catalog)
}

func (h *handler) health(c *gin.Context) {
	names := make([]string, 0, len(h.fixture.Models))
	for _, m := range h.fixture.Models {
		names = append(names, m.Name)
	}
	c.JSON(http.StatusOK, models.HealthReport{
		Status:          "healthy",
		ModelsLoaded:    len(names),
		AvailableModels: names,
	})
}

func (h *handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.Texts) < models.MinTexts {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide at least 2 texts to compare"})
		return
	}
	texts := analysis.FilterTexts(req.Texts)
	if len(texts) < models.MinTexts {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide at least 2 non-empty texts"})
		return
	}

	threshold := models.DefaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	selected := []string{models.DefaultModel}
	if req.Models != nil {
		selected = *req.Models
	}

	results := make(map[string]models.ModelResult, len(selected))
	for _, name := range selected {
		if msg, ok := h.fixture.Failures[name]; ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
			return
		}

		m, ok := h.fixture.model(name)
		if !ok {
			// unknown models are skipped, not rejected
			continue
		}
		if m.Matrix.Size() != len(texts) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf(
				"fixture matrix for %s is %dx%d, request has %d texts",
				name, m.Matrix.Size(), m.Matrix.Size(), len(texts))})
			return
		}

		clones := interpret.ClonePairs(m.Matrix, threshold)
		for i := range clones {
			clones[i].Similarity = round(clones[i].Similarity, 4)
		}
		results[name] = models.ModelResult{
			SimilarityMatrix: m.Matrix,
			Clones:           clones,
			Threshold:        threshold,
			ProcessingTime:   round(m.ProcessingTime, 3),
		}
	}

	c.JSON(http.StatusOK, models.AnalysisResponse{
		Success:   true,
		Texts:     texts,
		Results:   results,
		TextCount: len(texts),
	})
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
