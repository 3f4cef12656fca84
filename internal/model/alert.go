// Grafana/Alertmanager 웹훅 페이로드 및 내부 이벤트 구조체를 정의
// handler, service, client 레이어에서 공통으로 사용하기 때문에 model 레이어에 별도로 정의

package model

import "time"

// AlertWebhook - 인바운드 웹훅 페이로드
// Grafana 웹훅 채널이 보내는 형태로, 여러 개의 sub-alert가 묶여서 전송 가능
type AlertWebhook struct {
	// Title, Message는 필수 필드. 둘 중 하나라도 없으면 400 처리
	Title   string `json:"title"`
	Message string `json:"message"`

	// 동일한 알림 조건은 동일한 GroupKey를 가짐 (Alert ID 매핑의 기본 키)
	GroupKey string `json:"groupKey"`

	// status: firing(발생) 또는 resolved(해결)
	// 최상위 status가 없으면 첫 sub-alert의 status를 사용
	Status string `json:"status"`

	// 그룹 내 모든 알림에 공통으로 존재하는 어노테이션
	// - summary: 알림 요약 (firing 메일 본문에 강조 표시)
	CommonAnnotations map[string]string `json:"commonAnnotations"`

	// 개별 sub-alert 리스트
	Alerts []SubAlert `json:"alerts"`
}

// SubAlert - 그룹에 포함된 개별 알림
// GroupKey가 없는 페이로드에서는 첫 sub-alert의 Fingerprint를 키로 사용
type SubAlert struct {
	Status string `json:"status"`

	// Fingerprint: 알림 고유 식별자 (Labels의 조합으로 생성되는 해시값)
	Fingerprint string `json:"fingerprint"`
}

// AlertKey - 페이로드에서 추출 가능한 유일 키
// groupKey 우선, 없으면 첫 sub-alert의 fingerprint
func (w AlertWebhook) AlertKey() string {
	if w.GroupKey != "" {
		return w.GroupKey
	}
	if len(w.Alerts) > 0 {
		return w.Alerts[0].Fingerprint
	}
	return ""
}

// AlertStatus - 처리 기준이 되는 status
// 최상위 status가 비어있으면 첫 sub-alert의 status로 대체
func (w AlertWebhook) AlertStatus() string {
	if w.Status != "" {
		return w.Status
	}
	if len(w.Alerts) > 0 {
		return w.Alerts[0].Status
	}
	return ""
}

// Summary - commonAnnotations.summary 추출 (없으면 빈 문자열)
func (w AlertWebhook) Summary() string {
	if w.CommonAnnotations == nil {
		return ""
	}
	return w.CommonAnnotations["summary"]
}

// AlertEventRecord - 감사 로그(alert_events 테이블)에 저장되는 처리 이력
type AlertEventRecord struct {
	ID        int       `json:"id"`
	AlertID   string    `json:"alert_id"`
	AlertKey  string    `json:"alert_key"`
	Status    string    `json:"status"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
