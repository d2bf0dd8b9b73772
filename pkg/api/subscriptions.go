package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulastudio-aps/gestionale/pkg/core/services"
)

func (s *Server) handleListSubscriptions(c *gin.Context) {
	session := currentSession(c)
	subs, err := services.ListSubscriptions(c.Request.Context(), s.deps.Store, s.logger, session.UserID)
	if err != nil {
		s.failure(c, http.StatusInternalServerError, "failed to list subscriptions", err)
		return
	}

	categories := make([]string, 0, len(subs))
	for _, sub := range subs {
		categories = append(categories, sub.Category)
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

type subscriptionRequest struct {
	Category string `json:"category" binding:"required"`
}

func (s *Server) handleSubscribe(c *gin.Context) {
	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.failure(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	session := currentSession(c)
	if err := services.Subscribe(c.Request.Context(), s.deps.Store, s.logger, session.UserID, req.Category); err != nil {
		s.failure(c, http.StatusBadRequest, "failed to subscribe", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribed": true})
}

func (s *Server) handleUnsubscribe(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		s.failure(c, http.StatusBadRequest, "category is required", nil)
		return
	}

	session := currentSession(c)
	if err := services.Unsubscribe(c.Request.Context(), s.deps.Store, s.logger, session.UserID, category); err != nil {
		s.failure(c, http.StatusBadRequest, "failed to unsubscribe", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unsubscribed": true})
}
