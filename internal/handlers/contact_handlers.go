package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"threatlens/internal/dao"
	"threatlens/internal/models"
	"threatlens/pkg/logger"
)

type ContactHandler struct {
	contactDao dao.ContactDAO
	logger     *logger.Logger
}

func NewContactHandler(contactDao dao.ContactDAO) *ContactHandler {
	return &ContactHandler{contactDao: contactDao, logger: logger.NewLogger(logrus.InfoLevel)}
}

// Submit handles POST /api/contact.
func (h *ContactHandler) Submit(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "error": "Invalid request payload"})
		return
	}

	message := &models.ContactMessage{
		ID:      uuid.New().String(),
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}
	if err := h.contactDao.Save(message); err != nil {
		h.logger.WithFields(logger.Fields{"error": err}).Error("Failed to save contact message")
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"success": true})
}
