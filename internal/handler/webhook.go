// 알림 웹훅 요청을 처리하는 핸들러
//
// 요청 흐름:
//  1. Grafana/Alertmanager가 POST /webhook으로 알림 전송
//  2. JSON 페이로드를 AlertWebhook 구조체로 파싱
//  3. service 레이어에서 ID 확정 및 메일/워크아이템 분기 처리

package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swfactory/alert-bridge/internal/model"
	"github.com/swfactory/alert-bridge/internal/service"
)

// alertProcessor - 서비스 인터페이스
type alertProcessor interface {
	ProcessWebhook(ctx context.Context, payload model.AlertWebhook) (*service.Result, error)
}

// WebhookHandler 구조체 정의
type WebhookHandler struct {
	svc alertProcessor
}

// WebhookHandler 객체 생성
func NewWebhookHandler(svc alertProcessor) *WebhookHandler {
	return &WebhookHandler{svc: svc}
}

// Probe - GET /webhook 연결 확인용 엔드포인트
func (h *WebhookHandler) Probe(c *gin.Context) {
	c.JSON(http.StatusOK, model.StatusResponse{Status: "ok"})
}

// Receive - POST /webhook 알림 수신 처리
//
// 응답 코드:
//   - 200: 처리 완료 (메일+워크아이템 또는 종료 처리)
//   - 400: title/message 누락 또는 AlertKey 추출 불가
//   - 500: 저장소 영속화 실패 또는 메일/트래커 호출 실패
func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload model.AlertWebhook
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("Failed to parse webhook: %v", err)
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid payload"})
		return
	}

	log.Printf("Received alert webhook: status=%s, alertCount=%d, key=%s",
		payload.AlertStatus(), len(payload.Alerts), payload.AlertKey())

	result, err := h.svc.ProcessWebhook(c.Request.Context(), payload)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPayload) || errors.Is(err, service.ErrNoAlertKey) {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
			return
		}
		log.Printf("Failed to process webhook: %v", err)
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "failed to process webhook"})
		return
	}

	c.JSON(http.StatusOK, model.WebhookResponse{
		Status:  "success",
		AlertID: result.AlertID,
		Action:  result.Action,
	})
}
