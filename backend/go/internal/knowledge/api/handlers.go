// Package api exposes the knowledge service over HTTP.
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"Saber/backend/go/internal/knowledge/cache"
	"Saber/backend/go/internal/knowledge/store"
	"Saber/backend/go/internal/models"
	"Saber/backend/go/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const healthTimeout = 3 * time.Second

// MessageHandler runs one message through the orchestrator.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg models.InboundMessage) models.Reply
}

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// API 保存处理函数需要的依赖。
type API struct {
	service MessageHandler
	facts   store.FactStore
	cache   cache.ResponseCache
	checks  map[string]HealthCheck
	logger  *logger.Logger
}

// NewAPI creates the API. Store and cache are always part of the health check.
func NewAPI(service MessageHandler, facts store.FactStore, rc cache.ResponseCache, log *logger.Logger) *API {
	a := &API{
		service: service,
		facts:   facts,
		cache:   rc,
		logger:  log,
		checks:  map[string]HealthCheck{},
	}
	a.checks["store"] = facts.Ping
	a.checks["cache"] = rc.Ping
	return a
}

// AddHealthCheck registers an extra dependency probe, e.g. redis or kafka.
func (a *API) AddHealthCheck(name string, check HealthCheck) {
	a.checks[name] = check
}

// messageRequest 是 POST /api/v1/messages 的请求体。
type messageRequest struct {
	ID                string `json:"id"`
	Text              string `json:"text" binding:"required"`
	SenderID          string `json:"senderId"`
	SenderDisplayName string `json:"senderDisplayName"`
	IsGroup           bool   `json:"isGroup"`
}

// HealthHandler reports 200 when every dependency answers, 503 otherwise.
func (a *API) HealthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(a.checks))
	for name, check := range a.checks {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = err.Error()
			a.logger.WithError(models.ErrorInfo{Message: err.Error(), Type: "HealthCheck"}).
				WithField("dependency", name).Warn("健康检查失败")
			continue
		}
		results[name] = "ok"
	}

	body := gin.H{"status": "ok", "checks": results}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	c.JSON(status, body)
}

// PostMessageHandler processes a message synchronously and returns the reply.
func (a *API) PostMessageHandler(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text must not be blank"})
		return
	}

	sender := req.SenderID
	if s := c.GetString(senderKey); s != "" {
		sender = s
	}
	if sender == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "senderId is required"})
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	reply := a.service.HandleMessage(c.Request.Context(), models.InboundMessage{
		ID:                req.ID,
		Text:              req.Text,
		SenderID:          sender,
		SenderDisplayName: req.SenderDisplayName,
		IsGroup:           req.IsGroup,
		ReceivedAt:        time.Now().UTC(),
	})
	c.JSON(http.StatusOK, reply)
}

// ListFactsHandler lists facts by kind, by value substring, or by related entity.
// kind and q combine; related is exclusive.
func (a *API) ListFactsHandler(c *gin.Context) {
	kind := strings.TrimSpace(c.Query("kind"))
	q := strings.TrimSpace(c.Query("q"))
	related := strings.TrimSpace(c.Query("related"))
	if kind == "" && q == "" && related == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind, q or related is required"})
		return
	}

	var (
		facts []models.Fact
		err   error
	)
	ctx := c.Request.Context()
	switch {
	case related != "":
		facts, err = a.facts.FindFactsByRelatedEntity(ctx, related)
	case kind != "":
		facts, err = a.facts.FindFactsByType(ctx, kind)
		if err == nil && q != "" {
			facts = filterByValue(facts, q)
		}
	default:
		facts, err = a.facts.FindFactsByPartialValue(ctx, q)
	}
	if err != nil {
		a.logger.WithError(models.ErrorInfo{Message: err.Error(), Type: "StoreError"}).Error("Failed to list facts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve facts"})
		return
	}
	if facts == nil {
		facts = []models.Fact{}
	}
	c.JSON(http.StatusOK, gin.H{"facts": facts, "count": len(facts)})
}

func filterByValue(facts []models.Fact, q string) []models.Fact {
	q = strings.ToLower(q)
	out := facts[:0]
	for _, f := range facts {
		if strings.Contains(strings.ToLower(f.Value), q) {
			out = append(out, f)
		}
	}
	return out
}
