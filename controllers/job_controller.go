package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Thomas-lee31/Bucky-s-Menu/services"
)

type JobController struct {
	jobs   *services.JobService
	backup *services.BackupService
}

func NewJobController(jobs *services.JobService, backup *services.BackupService) *JobController {
	return &JobController{jobs: jobs, backup: backup}
}

// POST /api/jobs/ingest
func (jc *JobController) TriggerIngestion(c *gin.Context) {
	inserted, err := jc.jobs.RunIngestion(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"inserted": inserted})
}

// POST /api/jobs/notify?date=2025-01-10
func (jc *JobController) TriggerNotifications(c *gin.Context) {
	sent, err := jc.jobs.RunNotifications(c.Request.Context(), c.Query("date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": sent})
}

// POST /api/backup/export
func (jc *JobController) ExportBackup(c *gin.Context) {
	key, count, err := jc.backup.Export(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "items": count})
}

type importReq struct {
	Key string `json:"key" binding:"required"`
}

// POST /api/backup/import
func (jc *JobController) ImportBackup(c *gin.Context) {
	var req importReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: key"})
		return
	}

	imported, skipped, err := jc.backup.Import(c.Request.Context(), req.Key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": imported, "skipped": skipped})
}
