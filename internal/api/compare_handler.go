package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strconv"

	"gocompare/adapters/excel"
	"gocompare/app"
	"gocompare/domain/comparison"
	"gocompare/domain/core"
	"gocompare/internal"
	"gocompare/internal/errors"
	"gocompare/ports"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"
)

// CompareRequest is the JSON body of POST /api/v1/compare. Each row maps a
// header to a string or number; null means an empty cell.
type CompareRequest struct {
	Source string                   `json:"source"`
	Rows   []map[string]interface{} `json:"rows" binding:"required"`
}

// CompareHandler runs comparisons on request and serves stored runs
type CompareHandler struct {
	service   *app.ComparisonService
	repo      ports.ResultRepository
	sem       *semaphore.Weighted
	capacity  int64
	maxUpload int64
	logger    *internal.Logger
}

// NewCompareHandler creates a new compare handler. capacity bounds the input
// rows being compared across all in-flight requests.
func NewCompareHandler(service *app.ComparisonService, repo ports.ResultRepository, capacity, maxUpload int64) *CompareHandler {
	if capacity < 1 {
		capacity = 1
	}
	return &CompareHandler{
		service:   service,
		repo:      repo,
		sem:       semaphore.NewWeighted(capacity),
		capacity:  capacity,
		maxUpload: maxUpload,
		logger:    internal.DefaultLogger.WithComponent("API"),
	}
}

// Register mounts the routes
func (h *CompareHandler) Register(r gin.IRouter) {
	r.GET("/healthz", h.Health)
	v1 := r.Group("/api/v1")
	v1.POST("/compare", h.Compare)
	v1.GET("/runs", h.ListRuns)
	v1.GET("/runs/:id", h.GetRun)
}

// NewRouter builds a gin engine with the handler mounted
func NewRouter(h *CompareHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	h.Register(router)
	return router
}

// Health reports liveness
func (h *CompareHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Compare accepts either a JSON CompareRequest or a multipart upload with a
// csv/xlsx "file" field, runs the comparison and stores the result.
func (h *CompareHandler) Compare(c *gin.Context) {
	source, err := h.sourceFromRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	table, err := source.ReadTable(ctx)
	if err != nil {
		respondError(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}

	weight := int64(len(table.Rows))
	if weight < 1 {
		weight = 1
	}
	if weight > h.capacity {
		weight = h.capacity
	}
	if err := h.sem.Acquire(ctx, weight); err != nil {
		respondError(c, errors.Busy("request cancelled while waiting for capacity"))
		return
	}
	result, err := h.service.Run(ctx, source.Name(), table)
	h.sem.Release(weight)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.repo.WriteResults(ctx, result.Manifest, result.Records); err != nil {
		h.logger.Error("failed to store run %s: %v", result.Manifest.RunID, err)
		respondError(c, errors.DatabaseError("failed to store run", err))
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListRuns returns recent run manifests
func (h *CompareHandler) ListRuns(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	runs, err := h.repo.ListRuns(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

// GetRun returns one stored run with its records
func (h *CompareHandler) GetRun(c *gin.Context) {
	runID, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	stored, err := h.repo.GetRun(c.Request.Context(), runID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stored)
}

func (h *CompareHandler) sourceFromRequest(c *gin.Context) (ports.TableSource, error) {
	if c.ContentType() == "multipart/form-data" {
		header, err := c.FormFile("file")
		if err != nil {
			return nil, errors.InvalidInput("multipart request needs a file field")
		}
		if header.Size > h.maxUpload {
			return nil, errors.InvalidInput("upload too large")
		}
		f, err := header.Open()
		if err != nil {
			return nil, errors.Wrap(err, "failed to open upload")
		}
		defer f.Close()
		body, err := io.ReadAll(io.LimitReader(f, h.maxUpload))
		if err != nil {
			return nil, errors.Wrap(err, "failed to read upload")
		}
		return excel.NewBytesSource(header.Filename, body)
	}

	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, errors.InvalidInput("invalid request body: " + err.Error())
	}
	if req.Source == "" {
		req.Source = "api"
	}
	return jsonSource{name: req.Source, table: tableFromJSON(req.Rows)}, nil
}

// jsonSource adapts an already decoded request body to ports.TableSource
type jsonSource struct {
	name  string
	table comparison.RawTable
}

func (s jsonSource) Name() string { return s.name }

func (s jsonSource) ReadTable(ctx context.Context) (comparison.RawTable, error) {
	return s.table, ctx.Err()
}

// tableFromJSON stringifies cell values so JSON rows go through the same
// coercion as file input. Headers are the sorted union of row keys.
func tableFromJSON(rows []map[string]interface{}) comparison.RawTable {
	seen := make(map[string]bool)
	raw := make([]comparison.RawRow, 0, len(rows))
	for _, row := range rows {
		r := make(comparison.RawRow, len(row))
		for key, value := range row {
			seen[key] = true
			r[key] = cellString(value)
		}
		raw = append(raw, r)
	}

	headers := make([]string, 0, len(seen))
	for key := range seen {
		headers = append(headers, key)
	}
	sort.Strings(headers)
	return comparison.RawTable{Headers: headers, Rows: raw}
}

func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(errors.HTTPStatus(err), gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
