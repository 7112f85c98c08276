package api

import (
	"context"
	"errors"
	"net/http"

	"artexport/types"
	"artexport/workflow"

	"github.com/gin-gonic/gin"
)

// WorkflowRunner is the part of the workflow controller exposed over HTTP
type WorkflowRunner interface {
	Start(ctx context.Context) (<-chan types.Outcome, error)
	Status() types.StatusResponse
}

// RegisterWorkflowRoutes registers the export trigger and status endpoints.
// Runs are detached from the request context; baseCtx bounds them instead.
func RegisterWorkflowRoutes(r *gin.Engine, baseCtx context.Context, runner WorkflowRunner) {
	g := r.Group("/api")
	g.POST("/export", handleStartExport(baseCtx, runner))
	g.GET("/status", handleStatus(runner))
}

// handleStartExport handles POST /api/export
func handleStartExport(baseCtx context.Context, runner WorkflowRunner) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := runner.Start(baseCtx); err != nil {
			if errors.Is(err, workflow.ErrBusy) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"status":  "started",
			"message": "Export workflow initiated",
		})
	}
}

// handleStatus handles GET /api/status
func handleStatus(runner WorkflowRunner) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, runner.Status())
	}
}
