package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	transactiondomain "github.com/medirahq/commission/internal/transaction/domain"
)

func (s *Server) CreateTransaction(c *gin.Context) {
	var req transactiondomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	tx, err := s.txSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": tx})
}

func (s *Server) ListTransactions(c *gin.Context) {
	var filter transactiondomain.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	txs, err := s.txSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": txs})
}

func (s *Server) GetTransaction(c *gin.Context) {
	tx, err := s.txSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tx})
}

func (s *Server) DeleteTransaction(c *gin.Context) {
	if err := s.txSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
