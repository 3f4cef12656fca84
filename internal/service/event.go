package service

import (
	"context"

	"github.com/swfactory/alert-bridge/internal/model"
)

// eventRepo - DB 인터페이스
type eventRepo interface {
	GetRecentEvents(ctx context.Context, limit int) ([]model.AlertEventRecord, error)
}

// EventService - 감사 로그 조회 비즈니스 로직
type EventService struct {
	db eventRepo
}

func NewEventService(db eventRepo) *EventService {
	return &EventService{db: db}
}

const defaultEventLimit = 50

func (s *EventService) ListRecent(ctx context.Context, limit int) ([]model.AlertEventRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = defaultEventLimit
	}
	return s.db.GetRecentEvents(ctx, limit)
}
