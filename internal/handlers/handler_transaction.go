package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/openstay/folio-engine/internal/apperrors"
	portssvc "github.com/openstay/folio-engine/internal/core/ports/services"
	"github.com/openstay/folio-engine/internal/core/services"
	"github.com/openstay/folio-engine/internal/dto"
	"github.com/openstay/folio-engine/internal/middleware"
)

// transactionHandler handles HTTP requests for the folio transaction ledger.
type transactionHandler struct {
	ledgerService   portssvc.LedgerSvcFacade
	transferService portssvc.TransferSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ledgerService portssvc.LedgerSvcFacade, transferService portssvc.TransferSvcFacade) *transactionHandler {
	return &transactionHandler{
		ledgerService:   ledgerService,
		transferService: transferService,
	}
}

// registerTransactionRoutes wires the ledger append, void and transfer routes.
func registerTransactionRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, transferService portssvc.TransferSvcFacade) {
	h := newTransactionHandler(ledgerService, transferService)

	folios := rg.Group("/folios/:folioID")
	{
		folios.POST("/charges", h.appendCharge)
		folios.POST("/payments", h.appendPayment)
		folios.POST("/room-postings", h.appendRoomPosting)
		folios.GET("/transactions", h.listTransactions)
	}

	txns := rg.Group("/transactions")
	{
		txns.GET("/:transactionID", h.getTransaction)
		txns.POST("/:transactionID/void", h.voidTransaction)
		txns.POST("/:transactionID/transfer", h.transfer)
	}
}

func (h *transactionHandler) appendCharge(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	folioID := c.Param("folioID")

	req := dto.AppendChargeRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for AppendCharge", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.ledgerService.AppendCharge(c.Request.Context(), folioID, req, actorID)
	if err != nil {
		h.writeLedgerError(c, logger, err, "Failed to append charge")
		return
	}

	logger.Info("Charge appended",
		slog.String("folio_id", folioID),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("amount", txn.Amount.String()))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

func (h *transactionHandler) appendPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	folioID := c.Param("folioID")

	req := dto.AppendPaymentRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for AppendPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.ledgerService.AppendPayment(c.Request.Context(), folioID, req, actorID)
	if err != nil {
		h.writeLedgerError(c, logger, err, "Failed to append payment")
		return
	}

	logger.Info("Payment appended",
		slog.String("folio_id", folioID),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("amount", txn.Amount.String()))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

func (h *transactionHandler) appendRoomPosting(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	folioID := c.Param("folioID")

	req := dto.AppendRoomPostingRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for AppendRoomPosting", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txns, err := h.ledgerService.AppendRoomPosting(c.Request.Context(), folioID, req, actorID)
	if err != nil {
		h.writeLedgerError(c, logger, err, "Failed to append room posting")
		return
	}

	logger.Info("Room posting appended",
		slog.String("folio_id", folioID),
		slog.Int("row_count", len(txns)))
	c.JSON(http.StatusCreated, gin.H{"transactions": dto.ToTransactionResponses(txns)})
}

func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	txn, err := h.ledgerService.GetTransactionByID(c.Request.Context(), transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
			return
		}
		logger.Error("Failed to get transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transaction"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	folioID := c.Param("folioID")

	params := dto.ListTransactionsParams{}
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

	resp, err := h.ledgerService.ListTransactions(c.Request.Context(), folioID, params)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == 400 {
			c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Message})
			return
		}
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Folio not found"})
			return
		}
		logger.Error("Failed to list transactions", slog.String("error", err.Error()), slog.String("folio_id", folioID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *transactionHandler) voidTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	req := dto.VoidTransactionRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for VoidTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.ledgerService.VoidTransaction(c.Request.Context(), transactionID, req.Reason, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		case errors.Is(err, apperrors.ErrAlreadyVoided):
			c.JSON(http.StatusConflict, gin.H{"error": "Transaction already voided"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to void transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to void transaction"})
		}
		return
	}

	logger.Info("Transaction voided",
		slog.String("transaction_id", transactionID),
		slog.String("voided_by", actorID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

func (h *transactionHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sourceTransactionID := c.Param("transactionID")

	req := dto.TransferRequest{TargetFolioID: c.Query("targetFolioID")}
	if req.TargetFolioID == "" {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	pair, err := h.transferService.Transfer(c.Request.Context(), sourceTransactionID, req.TargetFolioID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction or target folio not found"})
		case errors.Is(err, apperrors.ErrTransferTargetMismatch):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrTransferSourceVoided),
			errors.Is(err, services.ErrTransferSelf),
			errors.Is(err, services.ErrTransferOfTransfer),
			errors.Is(err, services.ErrFolioClosed),
			errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to transfer transaction", slog.String("error", err.Error()), slog.String("transaction_id", sourceTransactionID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to transfer transaction"})
		}
		return
	}

	logger.Info("Transfer completed",
		slog.String("source_transaction_id", sourceTransactionID),
		slog.String("target_folio_id", req.TargetFolioID))
	c.JSON(http.StatusCreated, pair)
}

// writeLedgerError maps append-path errors onto HTTP statuses.
func (h *transactionHandler) writeLedgerError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Folio not found"})
	case errors.Is(err, services.ErrFolioClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
