package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"threatlens/internal/services"
	"threatlens/pkg/logger"
)

type ScanHandler struct {
	scanService services.ScanServiceMethods
	logger      *logger.Logger
}

func NewScanHandler(scanService services.ScanServiceMethods) *ScanHandler {
	return &ScanHandler{scanService: scanService, logger: logger.NewLogger(logrus.InfoLevel)}
}

// SubmitScan handles POST /api/scan. A scan whose analysis is still
// running when the poll budget runs out is a success response with a
// non-terminal status, not an error.
func (h *ScanHandler) SubmitScan(c *gin.Context) {
	var req ScanURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithFields(logger.Fields{"error": err}).Error("Failed to bind scan request")
		c.JSON(400, gin.H{"success": false, "error": "Invalid request payload"})
		return
	}

	record, err := h.scanService.ExecuteScan(c.Request.Context(), req.URL, ownerFrom(c))
	if err != nil {
		h.logger.WithFields(logger.Fields{"url": req.URL, "error": err}).Error("Scan failed")
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"success": true, "data": record})
}

// SubmitFileScan handles POST /api/scan/file.
func (h *ScanHandler) SubmitFileScan(c *gin.Context) {
	var req ScanFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "error": "Invalid request payload"})
		return
	}

	record, err := h.scanService.ScanFileHash(c.Request.Context(), req.Hash, ownerFrom(c))
	if err != nil {
		h.logger.WithFields(logger.Fields{"hash": req.Hash, "error": err}).Error("File hash scan failed")
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"success": true, "data": record})
}

// History handles GET /api/scan/history.
func (h *ScanHandler) History(c *gin.Context) {
	scans, err := h.scanService.History(ownerFrom(c))
	if err != nil {
		h.logger.WithFields(logger.Fields{"owner": ownerFrom(c), "error": err}).Error("Failed to list scan history")
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"success": true, "scans": scans})
}

// Report handles GET /api/scan/report/:id. The id may be a record id or,
// for older clients, the scanned target itself; the most recent matching
// record wins.
func (h *ScanHandler) Report(c *gin.Context) {
	record, err := h.scanService.Report(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"success": true, "data": record})
}
