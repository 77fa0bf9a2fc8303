package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	obstracing "github.com/smallbiznis/arot/internal/observability/tracing"
	transactiondomain "github.com/smallbiznis/arot/internal/transaction/domain"
)

func (s *Server) PreviewTransaction(c *gin.Context) {
	var req transactiondomain.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.transactionSvc.Preview(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Set(obstracing.KeyTransactionType, string(resp.TransactionType))
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateTransaction(c *gin.Context) {
	var req transactiondomain.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.transactionSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Set(obstracing.KeyReceiptNo, resp.ReceiptNo)
	c.Set(obstracing.KeyTransactionType, string(resp.TransactionType))
	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdateTransaction(c *gin.Context) {
	var req transactiondomain.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.transactionSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Set(obstracing.KeyReceiptNo, resp.ReceiptNo)
	c.Set(obstracing.KeyTransactionType, string(resp.TransactionType))
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTransactionByID(c *gin.Context) {
	resp, err := s.transactionSvc.Get(c.Request.Context(), transactiondomain.GetTransactionRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteTransaction(c *gin.Context) {
	if err := s.transactionSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) ListTransactions(c *gin.Context) {
	var query struct {
		FarmerName      string `form:"farmer_name"`
		BuyerName       string `form:"buyer_name"`
		TransactionType string `form:"transaction_type"`
		IsPaid          string `form:"is_paid"`
		StartDate       string `form:"start_date"`
		EndDate         string `form:"end_date"`
		Limit           string `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	isPaid, err := parseOptionalBool(query.IsPaid)
	if err != nil {
		AbortWithError(c, newValidationError("is_paid", "invalid_is_paid", "invalid is_paid"))
		return
	}

	startDate, err := parseOptionalDate(query.StartDate)
	if err != nil {
		AbortWithError(c, newValidationError("start_date", "invalid_start_date", "invalid start_date"))
		return
	}

	endDate, err := parseOptionalDate(query.EndDate)
	if err != nil {
		AbortWithError(c, newValidationError("end_date", "invalid_end_date", "invalid end_date"))
		return
	}

	limit, err := parseOptionalInt(query.Limit)
	if err != nil {
		AbortWithError(c, newValidationError("limit", "invalid_limit", "invalid limit"))
		return
	}

	resp, err := s.transactionSvc.List(c.Request.Context(), transactiondomain.ListTransactionRequest{
		FarmerName:      strings.TrimSpace(query.FarmerName),
		BuyerName:       strings.TrimSpace(query.BuyerName),
		TransactionType: strings.TrimSpace(query.TransactionType),
		IsPaid:          isPaid,
		StartDate:       startDate,
		EndDate:         endDate,
		Limit:           limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTransactionStats(c *gin.Context) {
	resp, err := s.transactionSvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
