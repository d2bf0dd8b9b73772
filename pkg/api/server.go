package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aulastudio-aps/gestionale/pkg/core/schedule"
	"github.com/aulastudio-aps/gestionale/pkg/core/services"
)

// Server holds the dependencies shared by every HTTP handler.
type Server struct {
	deps      services.TaskDeps
	clock     schedule.Clock
	cronToken string
	logger    *zap.Logger
}

// New builds the handler set. The cron token guards the trigger and
// schedule routes; everything else is session-authenticated.
func New(deps services.TaskDeps, clock schedule.Clock, cronToken string, logger *zap.Logger) *Server {
	return &Server{deps: deps, clock: clock, cronToken: cronToken, logger: logger}
}

// Router assembles the gin engine with the full route table.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestID(), s.requestLog())

	router.GET("/api/health", s.handleHealth)

	cron := router.Group("/api/cron", s.cronAuth())
	{
		cron.GET("/trigger", s.handleCronTrigger)
		cron.POST("/trigger", s.handleCronTrigger)
		cron.GET("/schedule", s.handleCronSchedule)
	}

	authed := router.Group("/api", s.sessionAuth())
	{
		authed.GET("/turni", s.handleListShifts)
		authed.PUT("/turni", s.handleClaimShift)
		authed.DELETE("/turni", s.handleReleaseShift)

		authed.GET("/presenze", s.handleListAttendance)
		authed.PUT("/presenze", s.handleRecordAttendance)

		authed.GET("/notifiche", s.handleListSubscriptions)
		authed.POST("/notifiche", s.handleSubscribe)
		authed.DELETE("/notifiche", s.handleUnsubscribe)
	}

	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// failure is the error body every handler returns on an internal
// fault.
func (s *Server) failure(c *gin.Context, status int, message string, err error) {
	body := gin.H{
		"error":     message,
		"timestamp": s.clock.Now().Format(time.RFC3339),
		"requestId": c.GetString(requestIDKey),
	}
	if err != nil {
		body["details"] = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}
