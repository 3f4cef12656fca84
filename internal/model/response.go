package model

type ErrorResponse struct {
	Error string `json:"error"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type RootResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// WebhookResponse - POST /webhook 처리 결과
// Action: notified(메일+워크아이템 처리) 또는 closed(해결 처리)
type WebhookResponse struct {
	Status  string `json:"status"`
	AlertID string `json:"alertId"`
	Action  string `json:"action"`
}

// EventListResponse - 감사 로그 목록 조회 응답
type EventListResponse struct {
	Status string             `json:"status"`
	Data   []AlertEventRecord `json:"data"`
}
