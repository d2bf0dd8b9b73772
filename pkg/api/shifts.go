package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aulastudio-aps/gestionale/pkg/core/services"
)

// handleListShifts returns the weekly grid. ?week selects the current
// (0, default), next (1) or look-ahead (2) week.
func (s *Server) handleListShifts(c *gin.Context) {
	week, err := strconv.Atoi(c.DefaultQuery("week", "0"))
	if err != nil {
		s.failure(c, http.StatusBadRequest, "week must be a number", err)
		return
	}

	grid, err := services.ListWeekShifts(c.Request.Context(), s.deps.Store, s.logger, s.clock.Now(), week)
	if err != nil {
		s.failure(c, http.StatusBadRequest, "failed to list shifts", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": grid})
}

type claimShiftRequest struct {
	Date  string `json:"date" binding:"required"`
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
	Note  string `json:"note"`
}

// handleClaimShift assigns the authenticated user to one window.
func (s *Server) handleClaimShift(c *gin.Context) {
	var req claimShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.failure(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	session := currentSession(c)
	err := services.ClaimShift(c.Request.Context(), s.deps.Store, s.logger, s.clock.Now(), session.UserID, req.Date, req.Start, req.End, req.Note)
	if err != nil {
		s.failure(c, http.StatusBadRequest, "failed to claim shift", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"claimed": true})
}

// handleReleaseShift drops the assignment identified by the
// date/start/end query parameters.
func (s *Server) handleReleaseShift(c *gin.Context) {
	date := c.Query("date")
	start := c.Query("start")
	end := c.Query("end")
	if date == "" || start == "" || end == "" {
		s.failure(c, http.StatusBadRequest, "date, start and end are required", nil)
		return
	}

	err := services.ReleaseShift(c.Request.Context(), s.deps.Store, s.logger, s.clock.Now(), date, start, end)
	if err != nil {
		s.failure(c, http.StatusBadRequest, "failed to release shift", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"released": true})
}
