package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"
	"time"

	"artexport/store"
	"artexport/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultListLimit = 20

// EventPublisher is told about every accepted upload
type EventPublisher interface {
	Notify(ctx context.Context, event types.UploadEvent) error
}

// Receiver implements the upload endpoint the workflow posts to
type Receiver struct {
	Token     string
	Store     store.UploadStore
	Publisher EventPublisher
	Now       func() time.Time
}

// RegisterReceiverRoutes registers the upload endpoint and the upload listing.
func RegisterReceiverRoutes(r *gin.Engine, recv *Receiver) {
	if recv.Now == nil {
		recv.Now = time.Now
	}

	g := r.Group("/api/canva", bearerAuth(recv.Token))
	g.POST("/export", recv.handleUpload)
	g.GET("/uploads", recv.handleListUploads)
}

// bearerAuth rejects requests without the expected bearer token. An empty token disables the check.
func bearerAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		got, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing bearer token"})
			return
		}
		c.Next()
	}
}

// handleUpload handles POST /api/canva/export
func (recv *Receiver) handleUpload(c *gin.Context) {
	var payload types.UploadPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title := strings.TrimSpace(payload.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title must not be blank"})
		return
	}

	rec := types.UploadRecord{
		ID:         uuid.New().String(),
		Title:      title,
		Files:      payload.Files,
		ReceivedAt: recv.Now().UTC(),
	}

	ctx := c.Request.Context()
	if err := recv.Store.Save(ctx, rec); err != nil {
		logrus.WithError(err).Error("Failed to store upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload: " + err.Error()})
		return
	}

	if recv.Publisher != nil {
		event := types.UploadEvent{
			ID:         rec.ID,
			Source:     "receiver",
			Title:      rec.Title,
			Files:      rec.Files,
			UploadedAt: rec.ReceivedAt,
		}
		if err := recv.Publisher.Notify(ctx, event); err != nil {
			logrus.WithError(err).WithField("id", rec.ID).Warn("Failed to publish upload event")
		}
	}

	logrus.WithFields(logrus.Fields{
		"id":    rec.ID,
		"title": rec.Title,
		"files": len(rec.Files),
	}).Info("Upload received")

	c.JSON(http.StatusCreated, gin.H{"id": rec.ID})
}

// handleListUploads handles GET /api/canva/uploads?limit=N
func (recv *Receiver) handleListUploads(c *gin.Context) {
	limit := defaultListLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	records, err := recv.Store.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list uploads: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"uploads": records})
}
