package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/swfactory/alert-bridge/internal/model"
)

// eventLister - 서비스 인터페이스
type eventLister interface {
	ListRecent(ctx context.Context, limit int) ([]model.AlertEventRecord, error)
}

// EventHandler - 감사 로그 조회 핸들러
// svc가 nil이면 감사 로그가 미설정된 배포 (503 응답)
type EventHandler struct {
	svc eventLister
}

func NewEventHandler(svc eventLister) *EventHandler {
	return &EventHandler{svc: svc}
}

// ListEvents - GET /api/v1/events?limit=N 최근 처리 이력 조회
func (h *EventHandler) ListEvents(c *gin.Context) {
	if h.svc == nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{Error: "audit log not configured"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	events, err := h.svc.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, model.EventListResponse{Status: "success", Data: events})
}
