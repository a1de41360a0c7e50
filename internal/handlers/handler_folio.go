package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/openstay/folio-engine/internal/apperrors"
	portssvc "github.com/openstay/folio-engine/internal/core/ports/services"
	"github.com/openstay/folio-engine/internal/core/services"
	"github.com/openstay/folio-engine/internal/dto"
	"github.com/openstay/folio-engine/internal/middleware"
)

// folioHandler handles HTTP requests related to folios.
type folioHandler struct {
	folioService   portssvc.FolioSvcFacade
	balanceService portssvc.BalanceSvcFacade
}

// newFolioHandler creates a new folioHandler.
func newFolioHandler(folioService portssvc.FolioSvcFacade, balanceService portssvc.BalanceSvcFacade) *folioHandler {
	return &folioHandler{
		folioService:   folioService,
		balanceService: balanceService,
	}
}

// registerFolioRoutes wires the folio lifecycle and balance routes.
func registerFolioRoutes(rg *gin.RouterGroup, folioService portssvc.FolioSvcFacade, balanceService portssvc.BalanceSvcFacade) {
	h := newFolioHandler(folioService, balanceService)

	folios := rg.Group("/folios")
	{
		folios.POST("", h.createFolio)
		folios.GET("", h.listFolios)
		folios.GET("/:folioID", h.getFolio)
		folios.POST("/:folioID/close", h.closeFolio)
		folios.GET("/:folioID/balance", h.getBalance)
		folios.POST("/:folioID/balance/recompute", h.recomputeBalance)
	}
}

func (h *folioHandler) createFolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.CreateFolioRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for CreateFolio", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	folio, err := h.folioService.CreateFolio(c.Request.Context(), req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, services.ErrFolioOwnerMissing) {
			logger.Warn("Validation error creating folio", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create folio", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create folio"})
		return
	}

	logger.Info("Folio created", slog.String("folio_id", folio.FolioID), slog.String("hotel_id", folio.HotelID))
	c.JSON(http.StatusCreated, dto.ToFolioResponse(folio))
}

func (h *folioHandler) getFolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	folioID := c.Param("folioID")

	folio, err := h.folioService.GetFolioByID(c.Request.Context(), folioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Folio not found"})
			return
		}
		logger.Error("Failed to get folio", slog.String("error", err.Error()), slog.String("folio_id", folioID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve folio"})
		return
	}

	c.JSON(http.StatusOK, dto.ToFolioResponse(folio))
}

func (h *folioHandler) listFolios(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	hotelID := c.Query("hotelID")
	if hotelID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hotelID query parameter is required"})
		return
	}

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
	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from parameter, expected RFC3339"})
			return
		}
		params.From = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to parameter, expected RFC3339"})
			return
		}
		params.To = &to
	}

	resp, err := h.folioService.ListFolios(c.Request.Context(), hotelID, params)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == 400 {
			c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Message})
			return
		}
		logger.Error("Failed to list folios", slog.String("error", err.Error()), slog.String("hotel_id", hotelID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list folios"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *folioHandler) closeFolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	folioID := c.Param("folioID")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	folio, err := h.folioService.CloseFolio(c.Request.Context(), folioID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Folio not found"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to close folio", slog.String("error", err.Error()), slog.String("folio_id", folioID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close folio"})
		}
		return
	}

	logger.Info("Folio closed", slog.String("folio_id", folioID))
	c.JSON(http.StatusOK, dto.ToFolioResponse(folio))
}

func (h *folioHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	folioID := c.Param("folioID")

	snapshot, err := h.balanceService.Peek(c.Request.Context(), folioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Folio not found"})
			return
		}
		logger.Error("Failed to derive balance", slog.String("error", err.Error()), slog.String("folio_id", folioID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to derive balance"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (h *folioHandler) recomputeBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	folioID := c.Param("folioID")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	snapshot, err := h.balanceService.Recompute(c.Request.Context(), folioID, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Folio not found"})
			return
		}
		logger.Error("Failed to recompute balance", slog.String("error", err.Error()), slog.String("folio_id", folioID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute balance"})
		return
	}

	logger.Info("Balance recomputed", slog.String("folio_id", folioID))
	c.JSON(http.StatusOK, snapshot)
}
