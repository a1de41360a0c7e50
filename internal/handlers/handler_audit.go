package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/openstay/folio-engine/internal/apperrors"
	portssvc "github.com/openstay/folio-engine/internal/core/ports/services"
	"github.com/openstay/folio-engine/internal/dto"
	"github.com/openstay/folio-engine/internal/middleware"
)

// auditHandler exposes the consistency auditor over HTTP.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

// newAuditHandler creates a new auditHandler.
func newAuditHandler(auditService portssvc.AuditSvcFacade) *auditHandler {
	return &auditHandler{auditService: auditService}
}

// registerAuditRoutes wires the audit routes.
func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := newAuditHandler(auditService)

	rg.GET("/folios/:folioID/audit", h.auditFolio)
	rg.POST("/folios/:folioID/audit/fix", h.auditAndFix)
	rg.GET("/hotels/:hotelID/audit", h.auditHotel)
}

func (h *auditHandler) auditFolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	folioID := c.Param("folioID")

	report, err := h.auditService.AuditFolio(c.Request.Context(), folioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Folio not found"})
			return
		}
		logger.Error("Failed to audit folio", slog.String("error", err.Error()), slog.String("folio_id", folioID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to audit folio"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *auditHandler) auditAndFix(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	folioID := c.Param("folioID")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	report, err := h.auditService.AuditAndFix(c.Request.Context(), folioID, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Folio not found"})
			return
		}
		logger.Error("Failed to audit and fix folio", slog.String("error", err.Error()), slog.String("folio_id", folioID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to audit folio"})
		return
	}

	logger.Info("Folio audited",
		slog.String("folio_id", folioID),
		slog.Int("mismatch_count", len(report.Mismatches)),
		slog.Int("fixed_count", len(report.Fixed)))
	c.JSON(http.StatusOK, report)
}

func (h *auditHandler) auditHotel(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	hotelID := c.Param("hotelID")

	params := dto.ListFoliosParams{}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		params.Limit = limit
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	fix := c.Query("fix") == "true"
	actorID, _ := middleware.GetActorIDFromContext(c)
	if fix && actorID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reports, err := h.auditService.AuditHotel(c.Request.Context(), hotelID, params, fix, actorID)
	if err != nil {
		logger.Error("Failed to audit hotel", slog.String("error", err.Error()), slog.String("hotel_id", hotelID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to audit hotel"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}
