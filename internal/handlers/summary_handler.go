package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "budgetd/internal/errors"
	"budgetd/internal/services"
)

// SummaryHandler handles monthly summary requests.
type SummaryHandler struct {
	transactionService services.TransactionServicer
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(transactionService services.TransactionServicer) *SummaryHandler {
	return &SummaryHandler{transactionService: transactionService}
}

// Monthly returns income/expense totals. With both year and month query
// parameters it returns a single `{income, expenses}` pair; otherwise a
// breakdown keyed by month label, most recent first.
// @Summary     Monthly summary
// @Description Income and expense totals for one month, or for every month when no filter is given
// @Tags        summary
// @Produce     json
// @Security    BearerAuth
// @Param       year  query int false "Calendar year"
// @Param       month query int false "Calendar month (1-12)"
// @Success     200 {object} summary.Totals "Totals"
// @Failure     400 {object} ErrorResponse "Invalid year or month"
// @Failure     500 {object} ErrorResponse "Storage failure"
// @Router      /summary/monthly [get]
func (h *SummaryHandler) Monthly(c *gin.Context) {
	yearParam := c.Query("year")
	monthParam := c.Query("month")

	if yearParam != "" && monthParam != "" {
		year, err := strconv.Atoi(yearParam)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid year"))
			return
		}
		month, err := strconv.Atoi(monthParam)
		if err != nil || month < 1 || month > 12 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid month, must be 1-12"))
			return
		}

		totals, err := h.transactionService.MonthlySummary(year, time.Month(month))
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, totals)
		return
	}

	report, err := h.transactionService.MonthlyBreakdown()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
