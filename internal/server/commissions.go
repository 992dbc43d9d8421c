package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	commissiondomain "github.com/medirahq/commission/internal/commission/domain"
)

func (s *Server) RunCommissions(c *gin.Context) {
	var req commissiondomain.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.commissionSvc.Run(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) PreviewCommissions(c *gin.Context) {
	var req commissiondomain.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.commissionSvc.Preview(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
