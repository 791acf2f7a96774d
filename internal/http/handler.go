package http

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"go.osat.io/swath-api/internal/domain"
	"go.osat.io/swath-api/internal/observability"
	"go.osat.io/swath-api/internal/usecase"
)

// Handler handles HTTP requests for swath extractions.
type Handler struct {
	extractor    *usecase.Extractor
	dataDir      string
	defaultRadii []int
	metrics      *observability.Metrics
}

// NewHandler creates a new HTTP handler. Files named in requests are
// resolved under dataDir.
func NewHandler(extractor *usecase.Extractor, dataDir string, defaultRadii []int, metrics *observability.Metrics) *Handler {
	return &Handler{
		extractor:    extractor,
		dataDir:      dataDir,
		defaultRadii: defaultRadii,
		metrics:      metrics,
	}
}

// GetExtract handles GET /v1/extract.
func (h *Handler) GetExtract(c *gin.Context) {
	file := c.Query("file")
	if file == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file parameter is required"})
		return
	}
	// Reject absolute paths and anything escaping the data directory.
	if !filepath.IsLocal(file) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file must be a path relative to the data directory"})
		return
	}
	path := filepath.Join(h.dataDir, file)

	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid latitude: %v", err)})
		return
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid longitude: %v", err)})
		return
	}

	radii := h.defaultRadii
	if radiiStr := c.Query("radii"); radiiStr != "" {
		radii, err = parseRadii(radiiStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	// The metric label is the resolved product name, never the file name,
	// so the label set stays bounded.
	product := "unknown"
	if schema, serr := domain.Resolve(filepath.Base(file)); serr == nil {
		product = schema.Name
	}

	start := time.Now()
	result, err := h.extractor.Extract(path, lat, lon, radii)
	if h.metrics != nil {
		h.metrics.ObserveExtraction(product, err, time.Since(start).Seconds())
	}
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProducts handles GET /v1/products.
func (h *Handler) GetProducts(c *gin.Context) {
	type productInfo struct {
		Name         string   `json:"name"`
		Token        string   `json:"token"`
		PrimaryField string   `json:"primary_field"`
		AuxFields    []string `json:"aux_fields"`
	}

	schemas := domain.KnownSchemas()
	response := make([]productInfo, len(schemas))
	for i, s := range schemas {
		response[i] = productInfo{
			Name:         s.Name,
			Token:        s.Token,
			PrimaryField: s.PrimaryField,
			AuxFields:    s.AuxFields,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"products": response,
		"count":    len(response),
	})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSchemaMismatch):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrContainerUnreadable):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrFieldNotFound),
		errors.Is(err, domain.ErrShapeMismatch),
		errors.Is(err, domain.ErrOutOfRange):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// parseRadii parses the radii query parameter, e.g. "1,2".
func parseRadii(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	radii := make([]int, 0, len(parts))
	for _, p := range parts {
		r, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || r < 0 {
			return nil, fmt.Errorf("invalid radius %q", p)
		}
		radii = append(radii, r)
	}
	return radii, nil
}
