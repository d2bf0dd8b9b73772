package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulastudio-aps/gestionale/pkg/core/services"
)

func (s *Server) handleListAttendance(c *gin.Context) {
	rows, err := services.ListWeekAttendance(c.Request.Context(), s.deps.Store, s.logger)
	if err != nil {
		s.failure(c, http.StatusInternalServerError, "failed to list attendance", err)
		return
	}

	views := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		views = append(views, gin.H{
			"date":  row.Date,
			"band":  row.Band,
			"count": row.Count,
			"note":  row.Note,
		})
	}
	c.JSON(http.StatusOK, gin.H{"attendance": views})
}

type recordAttendanceRequest struct {
	Date  string `json:"date" binding:"required"`
	Band  string `json:"band" binding:"required"`
	Count *int   `json:"count" binding:"required"`
	Note  string `json:"note"`
}

// handleRecordAttendance upserts one headcount. Count is a pointer so
// a recorded zero survives the required-field check.
func (s *Server) handleRecordAttendance(c *gin.Context) {
	var req recordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.failure(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	err := services.RecordAttendance(c.Request.Context(), s.deps.Store, s.logger, s.clock.Now(), req.Date, req.Band, *req.Count, req.Note)
	if err != nil {
		s.failure(c, http.StatusBadRequest, "failed to record attendance", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recorded": true})
}
