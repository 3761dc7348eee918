package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
)

// EntryHandler handles finance-entry requests
type EntryHandler struct {
	entryService   services.EntryServicer
	summaryService services.SummaryServicer
	now            func() time.Time
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(entryService services.EntryServicer, summaryService services.SummaryServicer) *EntryHandler {
	return &EntryHandler{entryService: entryService, summaryService: summaryService, now: time.Now}
}

// SummaryQuery selects the month to summarize. Zero values mean the current
// year or month.
type SummaryQuery struct {
	Year  int `form:"year" binding:"omitempty,min=1,max=9999"`
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
}

// List returns the caller's entries, newest first
func (h *EntryHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.entryService.List(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Create adds an entry
func (h *EntryHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var input services.EntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondWithError(c, bindError(err, apperrors.ErrMissingFields))
		return
	}

	entry, err := h.entryService.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry, "message": "Entry created successfully"})
}

// Update replaces an entry's fields
func (h *EntryHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var input services.EntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondWithError(c, bindError(err, apperrors.ErrMissingFields))
		return
	}

	entry, err := h.entryService.Update(c.Request.Context(), userID, id, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry, "message": "Entry updated successfully"})
}

// Delete removes an entry
func (h *EntryHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.entryService.Delete(c.Request.Context(), userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted successfully"})
}

// Summary returns income, expense and balance totals for one month
func (h *EntryHandler) Summary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q SummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.ErrInvalidSummaryArg)
		return
	}

	now := h.now()
	year, month := now.Year(), now.Month()
	if q.Year != 0 {
		year = q.Year
	}
	if q.Month != 0 {
		month = time.Month(q.Month)
	}

	s, err := h.summaryService.Monthly(c.Request.Context(), userID, year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, s)
}
