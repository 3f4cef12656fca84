package db

import (
	"context"
	"fmt"

	"github.com/swfactory/alert-bridge/internal/model"
)

// EnsureEventSchema - alert_events 테이블 생성 (없으면)
func (p *Postgres) EnsureEventSchema() error {
	ctx := context.Background()
	_, err := p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS alert_events (
			id         SERIAL       PRIMARY KEY,
			alert_id   TEXT         NOT NULL,
			alert_key  TEXT         NOT NULL,
			status     TEXT         NOT NULL,
			title      TEXT         NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create alert_events table: %w", err)
	}
	return nil
}

// SaveEvent - 처리된 알림 이벤트 1건 저장
func (p *Postgres) SaveEvent(ctx context.Context, rec model.AlertEventRecord) error {
	_, err := p.Pool.Exec(ctx, `
		INSERT INTO alert_events (alert_id, alert_key, status, title, created_at)
		VALUES ($1, $2, $3, $4, NOW());
	`, rec.AlertID, rec.AlertKey, rec.Status, rec.Title)
	if err != nil {
		return fmt.Errorf("failed to insert alert event: %w", err)
	}
	return nil
}

// GetRecentEvents - 최근 처리 이력 조회 (최신순)
func (p *Postgres) GetRecentEvents(ctx context.Context, limit int) ([]model.AlertEventRecord, error) {
	rows, err := p.Pool.Query(ctx, `
		SELECT id, alert_id, alert_key, status, title, created_at
		FROM alert_events
		ORDER BY created_at DESC
		LIMIT $1;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query alert events: %w", err)
	}
	defer rows.Close()

	var events []model.AlertEventRecord
	for rows.Next() {
		var rec model.AlertEventRecord
		if err := rows.Scan(&rec.ID, &rec.AlertID, &rec.AlertKey, &rec.Status, &rec.Title, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert event: %w", err)
		}
		events = append(events, rec)
	}
	if events == nil {
		events = []model.AlertEventRecord{}
	}
	return events, nil
}
