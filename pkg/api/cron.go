package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aulastudio-aps/gestionale/pkg/core/schedule"
	"github.com/aulastudio-aps/gestionale/pkg/core/services"
)

// handleCronTrigger resolves the task for the current Italian minute
// and runs it. The caller carries no payload: the wall clock alone
// decides what happens.
func (s *Server) handleCronTrigger(c *gin.Context) {
	now := s.clock.Now()
	task := schedule.Resolve(now)

	if err := services.RunScheduledTask(c.Request.Context(), s.deps, task, now); err != nil {
		s.failure(c, http.StatusInternalServerError, "scheduled task failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "task completed",
		"taskType":  task.Kind.String(),
		"timestamp": now.Format(time.RFC3339),
		"executed":  true,
	})
}

type upcomingView struct {
	TaskType string `json:"taskType"`
	Window   int    `json:"window"`
	At       string `json:"at"`
}

// handleCronSchedule reports the next firing of every timetable entry,
// for operators checking that the external scheduler and this service
// agree on the timetable.
func (s *Server) handleCronSchedule(c *gin.Context) {
	runs, err := schedule.NextRuns(s.clock.Now())
	if err != nil {
		s.failure(c, http.StatusInternalServerError, "failed to compute schedule", err)
		return
	}

	views := make([]upcomingView, 0, len(runs))
	for _, run := range runs {
		views = append(views, upcomingView{
			TaskType: run.Task.Kind.String(),
			Window:   run.Task.Window,
			At:       run.At.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"upcoming": views})
}
