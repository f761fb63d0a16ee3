package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "budgetd/internal/errors"
	"budgetd/internal/models"
	"budgetd/internal/services"
	"budgetd/internal/storage"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionPayload represents one transaction in a batch-create request.
type TransactionPayload struct {
	Date        string  `json:"date" binding:"required,calendar_date"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category" binding:"max=100"`
	Description string  `json:"description" binding:"max=500"`
}

// BatchCreateRequest represents the batch-create request payload.
type BatchCreateRequest struct {
	Transactions []TransactionPayload `json:"transactions" binding:"required,min=1,dive"`
}

// BatchCreateResponse represents the batch-create response.
type BatchCreateResponse struct {
	Message      string               `json:"message"`
	Count        int                  `json:"count"`
	Transactions []models.Transaction `json:"transactions"`
}

// ImportCSV handles bulk ingestion from an uploaded CSV file with
// date, amount, category, and description columns.
// @Summary     Import transactions from CSV
// @Description Upload a CSV file (columns date, amount, category, description); each row becomes one transaction. The import is all-or-nothing.
// @Tags        transactions
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       file formData file true "CSV file"
// @Success     200 {object} ImportResponse "Import result"
// @Failure     400 {object} ErrorResponse "No file or malformed CSV"
// @Failure     500 {object} ErrorResponse "Insert failure"
// @Router      /imports [post]
func (h *TransactionHandler) ImportCSV(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer file.Close()

	count, err := h.transactionService.ImportCSV(file)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "CSV imported successfully",
		"count":   count,
	})
}

// ImportResponse represents the CSV import response.
type ImportResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// BatchCreate handles batch insertion of transactions.
// @Summary     Create transactions in batch
// @Description Insert a non-empty array of transactions. The batch is all-or-nothing.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BatchCreateRequest true "Transactions to create"
// @Success     200 {object} BatchCreateResponse "Created transactions"
// @Failure     400 {object} ErrorResponse "Empty or invalid batch"
// @Router      /transactions/batch [post]
func (h *TransactionHandler) BatchCreate(c *gin.Context) {
	var req BatchCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	txns := make([]models.Transaction, 0, len(req.Transactions))
	for _, payload := range req.Transactions {
		date, err := models.ParseDate(payload.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		txns = append(txns, models.Transaction{
			Date:        date,
			Amount:      payload.Amount,
			Category:    payload.Category,
			Description: payload.Description,
		})
	}

	created, err := h.transactionService.BatchCreate(txns)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Batch of transactions has been saved",
		"count":        len(created),
		"transactions": created,
	})
}

// List handles the retrieval of all transactions.
// @Summary     List transactions
// @Description Get every transaction ordered by date descending
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Transaction "Transactions"
// @Failure     500 {object} ErrorResponse "Storage failure"
// @Router      /transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	txns, err := h.transactionService.GetAll()
	if err != nil {
		respondWithError(c, err)
		return
	}
	if txns == nil {
		txns = []models.Transaction{}
	}
	c.JSON(http.StatusOK, txns)
}

// UpdateTransactionRequest represents the partial-update request payload.
// Omitted fields keep their existing values.
type UpdateTransactionRequest struct {
	Date        *string  `json:"date" binding:"omitempty,calendar_date"`
	Amount      *float64 `json:"amount"`
	Category    *string  `json:"category" binding:"omitempty,max=100"`
	Description *string  `json:"description" binding:"omitempty,max=500"`
}

// UpdateTransactionResponse represents the update response.
type UpdateTransactionResponse struct {
	Message     string             `json:"message"`
	Transaction models.Transaction `json:"transaction"`
}

// Update handles a partial update of a transaction.
// @Summary     Update transaction
// @Description Update a transaction; omitted fields are preserved
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to update"
// @Success     200 {object} UpdateTransactionResponse "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := storage.TransactionUpdate{
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
	}
	if req.Date != nil {
		date, err := models.ParseDate(*req.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		fields.Date = &date
	}

	txn, err := h.transactionService.UpdateOne(id, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     fmt.Sprintf("Transaction with ID %s has been updated", id),
		"transaction": txn,
	})
}

// Delete handles the deletion of a transaction.
// @Summary     Delete transaction
// @Description Delete a transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.transactionService.DeleteOne(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Transaction with ID %s has been deleted", id),
	})
}
