package model

import "testing"

func TestAlertKey(t *testing.T) {
	tests := []struct {
		name    string
		webhook AlertWebhook
		want    string
	}{
		{
			name:    "groupkey-preferred",
			webhook: AlertWebhook{GroupKey: "g1", Alerts: []SubAlert{{Fingerprint: "fp1"}}},
			want:    "g1",
		},
		{
			name:    "fingerprint-fallback",
			webhook: AlertWebhook{Alerts: []SubAlert{{Fingerprint: "fp1"}, {Fingerprint: "fp2"}}},
			want:    "fp1",
		},
		{
			name:    "no-key",
			webhook: AlertWebhook{},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.webhook.AlertKey(); got != tt.want {
				t.Fatalf("AlertKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAlertStatus(t *testing.T) {
	tests := []struct {
		name    string
		webhook AlertWebhook
		want    string
	}{
		{
			name:    "top-level-preferred",
			webhook: AlertWebhook{Status: "resolved", Alerts: []SubAlert{{Status: "firing"}}},
			want:    "resolved",
		},
		{
			name:    "sub-alert-fallback",
			webhook: AlertWebhook{Alerts: []SubAlert{{Status: "firing"}}},
			want:    "firing",
		},
		{
			name:    "absent",
			webhook: AlertWebhook{},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.webhook.AlertStatus(); got != tt.want {
				t.Fatalf("AlertStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	w := AlertWebhook{CommonAnnotations: map[string]string{"summary": "consumer stalled"}}
	if got := w.Summary(); got != "consumer stalled" {
		t.Fatalf("Summary() = %q", got)
	}
	if got := (AlertWebhook{}).Summary(); got != "" {
		t.Fatalf("Summary() on empty webhook = %q, want empty", got)
	}
}
