package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"recap-backend/models"
	"recap-backend/repository"
	"recap-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecordFetcher looks up raw CourtListener records by id
type RecordFetcher interface {
	GetDocket(ctx context.Context, id string) (json.RawMessage, error)
	GetRecapDocument(ctx context.Context, id string) (json.RawMessage, error)
}

// CaseHandler handles HTTP requests for case search and record lookup
type CaseHandler struct {
	caseService *service.CaseService
	records     RecordFetcher
	logger      *zap.Logger
}

// NewCaseHandler creates a new case handler
func NewCaseHandler(caseService *service.CaseService, records RecordFetcher, logger *zap.Logger) *CaseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CaseHandler{
		caseService: caseService,
		records:     records,
		logger:      logger,
	}
}

// SearchCases handles GET /api/cases/search
func (h *CaseHandler) SearchCases(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Query parameter q is required",
			},
		})
		return
	}

	opts := models.SearchOptions{
		OrderBy:     c.Query("order_by"),
		Court:       c.Query("court"),
		FiledAfter:  c.Query("filed_after"),
		FiledBefore: c.Query("filed_before"),
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_REQUEST",
					"message": "limit must be a positive integer",
				},
			})
			return
		}
		opts.Limit = limit
	}

	result, err := h.caseService.SearchCases(c.Request.Context(), service.SearchCasesRequest{
		Query:   query,
		Options: opts,
	})
	if err != nil {
		h.respondProviderError(c, "SEARCH_FAILED", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"cases":   result.Cases,
			"context": result.Context,
		},
	})
}

// GetDocket handles GET /api/dockets/:id
func (h *CaseHandler) GetDocket(c *gin.Context) {
	raw, err := h.records.GetDocket(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondProviderError(c, "LOOKUP_FAILED", err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// GetRecapDocument handles GET /api/recap-documents/:id
func (h *CaseHandler) GetRecapDocument(c *gin.Context) {
	raw, err := h.records.GetRecapDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondProviderError(c, "LOOKUP_FAILED", err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// respondProviderError maps provider failures onto the error envelope
func (h *CaseHandler) respondProviderError(c *gin.Context, fallbackCode string, err error) {
	status := http.StatusInternalServerError
	code := fallbackCode

	var providerErr *repository.ProviderError
	switch {
	case errors.Is(err, repository.ErrMissingID), errors.Is(err, service.ErrEmptyQuery):
		status, code = http.StatusBadRequest, "INVALID_REQUEST"
	case errors.As(err, &providerErr) && providerErr.StatusCode == http.StatusNotFound:
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.As(err, &providerErr):
		status, code = http.StatusBadGateway, "PROVIDER_ERROR"
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("case provider request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}

	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": err.Error(),
		},
	})
}
