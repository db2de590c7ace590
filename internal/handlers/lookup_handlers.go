package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"threatlens/internal/services"
	"threatlens/pkg/logger"
)

type LookupHandler struct {
	lookupService services.LookupServiceMethods
	logger        *logger.Logger
}

func NewLookupHandler(lookupService services.LookupServiceMethods) *LookupHandler {
	return &LookupHandler{lookupService: lookupService, logger: logger.NewLogger(logrus.InfoLevel)}
}

// BreachCheck handles POST /api/breach-check.
func (h *LookupHandler) BreachCheck(c *gin.Context) {
	var req BreachCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "error": "Invalid request payload"})
		return
	}

	report, err := h.lookupService.BreachCheck(c.Request.Context(), req.Account)
	if err != nil {
		h.logger.WithFields(logger.Fields{"account": req.Account, "error": err}).Error("Breach lookup failed")
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"success": true, "data": report})
}

// News handles GET /api/news?q=.
func (h *LookupHandler) News(c *gin.Context) {
	articles, err := h.lookupService.News(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.logger.WithFields(logger.Fields{"error": err}).Error("News lookup failed")
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"success": true, "articles": articles})
}

// Summarize handles POST /api/summarize.
func (h *LookupHandler) Summarize(c *gin.Context) {
	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "error": "Invalid request payload"})
		return
	}

	summary, err := h.lookupService.Summarize(c.Request.Context(), req.Text)
	if err != nil {
		h.logger.WithFields(logger.Fields{"error": err}).Error("Summary failed")
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"success": true, "summary": summary})
}

// DomainIntel handles GET /api/intel?domain=&summarize=.
func (h *LookupHandler) DomainIntel(c *gin.Context) {
	summarize := c.Query("summarize") == "true"

	result, err := h.lookupService.DomainIntel(c.Request.Context(), c.Query("domain"), summarize)
	if err != nil {
		h.logger.WithFields(logger.Fields{"domain": c.Query("domain"), "error": err}).Error("Domain intel failed")
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"success": true, "data": result})
}
