package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	ruledomain "github.com/medirahq/commission/internal/rule/domain"
)

func (s *Server) CreateRule(c *gin.Context) {
	var req ruledomain.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	rule, err := s.ruleSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": rule})
}

func (s *Server) ListRules(c *gin.Context) {
	var filter ruledomain.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	rules, err := s.ruleSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rules})
}

func (s *Server) GetRule(c *gin.Context) {
	rule, err := s.ruleSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rule})
}

func (s *Server) UpdateRule(c *gin.Context) {
	var req ruledomain.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	rule, err := s.ruleSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rule})
}

func (s *Server) DeleteRule(c *gin.Context) {
	if err := s.ruleSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) ActivateRule(c *gin.Context) {
	s.setRuleActive(c, true)
}

func (s *Server) DeactivateRule(c *gin.Context) {
	s.setRuleActive(c, false)
}

func (s *Server) setRuleActive(c *gin.Context, active bool) {
	rule, err := s.ruleSvc.SetActive(c.Request.Context(), c.Param("id"), active)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rule})
}

func (s *Server) ExportRules(c *gin.Context) {
	payload, err := s.ruleSvc.Export(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, payload)
}

func (s *Server) ImportRules(c *gin.Context) {
	var payload ruledomain.ExportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	count, err := s.ruleSvc.Import(c.Request.Context(), payload)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"imported": count}})
}
