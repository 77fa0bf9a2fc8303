package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	statementdomain "github.com/smallbiznis/arot/internal/statement/domain"
)

func (s *Server) GetBuyerStatement(c *gin.Context) {
	req, ok := bindStatementRequest(c)
	if !ok {
		return
	}

	resp, err := s.statementSvc.BuyerStatement(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetFarmerStatement(c *gin.Context) {
	req, ok := bindStatementRequest(c)
	if !ok {
		return
	}

	resp, err := s.statementSvc.FarmerStatement(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func bindStatementRequest(c *gin.Context) (statementdomain.StatementRequest, bool) {
	var query struct {
		Name            string `form:"name"`
		TransactionType string `form:"transaction_type"`
		StartDate       string `form:"start_date"`
		EndDate         string `form:"end_date"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return statementdomain.StatementRequest{}, false
	}

	startDate, err := parseOptionalDate(query.StartDate)
	if err != nil {
		AbortWithError(c, newValidationError("start_date", "invalid_start_date", "invalid start_date"))
		return statementdomain.StatementRequest{}, false
	}

	endDate, err := parseOptionalDate(query.EndDate)
	if err != nil {
		AbortWithError(c, newValidationError("end_date", "invalid_end_date", "invalid end_date"))
		return statementdomain.StatementRequest{}, false
	}

	return statementdomain.StatementRequest{
		Name:            strings.TrimSpace(query.Name),
		TransactionType: strings.TrimSpace(query.TransactionType),
		StartDate:       startDate,
		EndDate:         endDate,
	}, true
}
