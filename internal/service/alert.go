// Alert 처리 비즈니스 로직 정의
// handler에서 받은 웹훅을 검증하고 ID를 확정한 뒤 메일/워크아이템으로 분기
//
// 처리 흐름:
//  1. 페이로드 검증 (title/message 필수, AlertKey 추출 가능해야 함)
//  2. IdentityStore에서 Alert ID 확정 (resolved여도 항상 수행 -
//     처음 보는 키의 resolved 알림에도 ID가 부여되어야 함)
//  3. resolved: 해당 Alert ID가 제목에 포함된 열린 워크아이템 전부 종료
//     (0건 매칭도 정상, 메일은 보내지 않음)
//  4. firing(또는 미인식 status): 제목/본문 가공 → 메일 전송 →
//     워크아이템 생성 (이미 열린 워크아이템이 있으면 생성 생략)
//  5. 처리 이력을 감사 로그에 저장 (best effort, 실패해도 요청은 성공)

package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/swfactory/alert-bridge/internal/model"
	"github.com/swfactory/alert-bridge/internal/template"
)

// 검증 실패 에러 (handler에서 400으로 매핑)
var (
	ErrInvalidPayload = errors.New("payload missing title or message")
	ErrNoAlertKey     = errors.New("no unique alert key found in payload")
)

// identityStore - Alert ID 저장소 인터페이스
type identityStore interface {
	ResolveOrAllocate(key string) (alertID string, allocated bool, err error)
}

// notificationSink - 알림 메일 전송 인터페이스
type notificationSink interface {
	Send(subject, htmlBody string) error
}

// ticketBackend - 워크아이템 트래커 인터페이스
type ticketBackend interface {
	CreateWorkItem(ctx context.Context, title, description string) (int, error)
	SearchOpenWorkItems(ctx context.Context, text string) ([]int, error)
	CloseWorkItem(ctx context.Context, id int) error
}

// eventRecorder - 감사 로그 저장 인터페이스 (옵션)
type eventRecorder interface {
	SaveEvent(ctx context.Context, rec model.AlertEventRecord) error
}

// Result - 웹훅 1건 처리 결과
type Result struct {
	AlertID string
	// Action: notified(메일+워크아이템) 또는 closed(해결 처리)
	Action string
}

// AlertService 구조체 정의
type AlertService struct {
	store  identityStore
	mail   notificationSink
	boards ticketBackend
	events eventRecorder
}

// AlertService 객체 생성 (events는 nil 허용 - 감사 로그 미설정 시)
func NewAlertService(store identityStore, mail notificationSink, boards ticketBackend, events eventRecorder) *AlertService {
	return &AlertService{
		store:  store,
		mail:   mail,
		boards: boards,
		events: events,
	}
}

func (s *AlertService) ProcessWebhook(ctx context.Context, payload model.AlertWebhook) (*Result, error) {
	// 1. 페이로드 검증. 검증 실패 시 저장소는 건드리지 않음
	if payload.Title == "" || payload.Message == "" {
		return nil, ErrInvalidPayload
	}
	key := payload.AlertKey()
	if key == "" {
		return nil, ErrNoAlertKey
	}

	// 2. Alert ID 확정 (기존 키면 조회, 새 키면 발급+영속화)
	alertID, allocated, err := s.store.ResolveOrAllocate(key)
	if err != nil {
		return nil, err
	}
	if allocated {
		log.Printf("Allocated new alert ID: %s (key=%s)", alertID, key)
	} else {
		log.Printf("Found existing alert ID: %s (key=%s)", alertID, key)
	}

	status := payload.AlertStatus()
	title := template.DeriveTitle(payload.Title)

	// 3. resolved: 워크아이템 종료 플로우 (메일 없음)
	if status == "resolved" {
		if err := s.closeWorkItems(ctx, alertID); err != nil {
			return nil, err
		}
		s.recordEvent(ctx, alertID, key, status, title)
		return &Result{AlertID: alertID, Action: "closed"}, nil
	}

	// 4. firing(또는 미인식 status): 본문 가공 후 메일 전송 + 워크아이템 처리
	message := template.DeriveMessage(payload.Message, status, payload.Summary())

	emailBody := template.RenderEmailBody(alertID, title, template.EmphasizeFields(message))
	if err := s.mail.Send(title, emailBody); err != nil {
		return nil, err
	}
	log.Printf("Sent alert email (alert_id=%s)", alertID)

	if err := s.upsertWorkItem(ctx, alertID, title, message); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, alertID, key, status, title)
	return &Result{AlertID: alertID, Action: "notified"}, nil
}

// upsertWorkItem - firing 알림의 워크아이템 처리
//
// 생성 전에 close 플로우와 동일한 검색을 먼저 수행하여, 같은 Alert ID의
// 열린 워크아이템이 이미 있으면 새로 만들지 않음 (반복 firing마다
// 중복 티켓이 쌓이는 것을 방지). 이 경우 메일 통지만 나감
func (s *AlertService) upsertWorkItem(ctx context.Context, alertID, title, description string) error {
	existing, err := s.boards.SearchOpenWorkItems(ctx, alertID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Printf("Open work item already exists for alert ID %s (ids=%v), skipping create", alertID, existing)
		return nil
	}

	id, err := s.boards.CreateWorkItem(ctx, fmt.Sprintf("%s - %s", alertID, title), description)
	if err != nil {
		return err
	}
	log.Printf("Created work item %d (alert_id=%s)", id, alertID)
	return nil
}

// closeWorkItems - Alert ID가 제목에 포함된 열린 워크아이템을 모두 종료
// 매칭 0건은 정상 (이미 닫혔거나 만들어진 적이 없는 경우)
func (s *AlertService) closeWorkItems(ctx context.Context, alertID string) error {
	ids, err := s.boards.SearchOpenWorkItems(ctx, alertID)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		log.Printf("No open work items found for alert ID %s", alertID)
		return nil
	}

	for _, id := range ids {
		if err := s.boards.CloseWorkItem(ctx, id); err != nil {
			return err
		}
		log.Printf("Closed work item %d (alert_id=%s)", id, alertID)
	}
	return nil
}

// recordEvent - 감사 로그 저장 (실패해도 요청 처리에는 영향 없음)
func (s *AlertService) recordEvent(ctx context.Context, alertID, key, status, title string) {
	if s.events == nil {
		return
	}
	rec := model.AlertEventRecord{
		AlertID:  alertID,
		AlertKey: key,
		Status:   status,
		Title:    title,
	}
	if err := s.events.SaveEvent(ctx, rec); err != nil {
		log.Printf("Failed to save alert event to DB: %v", err)
	}
}
