// 알림 제목/본문 가공 및 메일 HTML 렌더링 함수 정의
// 전부 순수 함수 (I/O 없음, 입력만으로 결과 결정)
//
// 가공 규칙:
//  1. 제목: 첫 괄호 구간 제거 (예: "Queue backlog high (env=prod)" → "Queue backlog high")
//  2. 본문: "Annotations:" 이후 절단 (어노테이션은 본문에 노출하지 않음)
//  3. "Value: ... Messages_behind=N" 구간을 "Value: Messages_behind=N"으로 축약
//  4. Messages_behind=N 전체 강조 처리
//  5. firing + summary가 있으면 빨간색 Summary 라인 추가

package template

import (
	"fmt"
	"strings"
)

const (
	annotationsMarker = "Annotations:"
	behindMarker      = "Messages_behind="
	valueLabel        = "Value: "
)

// DeriveTitle - 제목에서 첫 '('부터 마지막 ')'까지 제거 후 공백 정리
// 괄호가 없는 제목은 그대로 통과
func DeriveTitle(raw string) string {
	open := strings.Index(raw, "(")
	if open >= 0 {
		if end := strings.LastIndex(raw, ")"); end > open {
			raw = raw[:open] + raw[end+1:]
		}
	}
	return strings.TrimSpace(raw)
}

// DeriveMessage - 본문 가공
// Annotations 절단 → Value 구간 축약 → Messages_behind 강조 → Summary 라인 추가
func DeriveMessage(raw, status, summary string) string {
	msg := raw
	if idx := strings.Index(msg, annotationsMarker); idx >= 0 {
		msg = msg[:idx]
	}

	msg = collapseValueSpan(msg)
	msg = emphasizeBehind(msg)

	summary = strings.TrimSpace(summary)
	if status == "firing" && summary != "" {
		msg += fmt.Sprintf(`<br><strong>Summary:</strong> <span style="color: red;">%s</span>`, summary)
	}
	return msg
}

// collapseValueSpan - 같은 줄의 "Value: ... Messages_behind=N"을
// "Value: Messages_behind=N"으로 축약 (첫 매칭 구간만)
func collapseValueSpan(msg string) string {
	offset := 0
	for {
		vi := strings.Index(msg[offset:], valueLabel)
		if vi < 0 {
			return msg
		}
		start := offset + vi + len(valueLabel)

		rest := msg[start:]
		mi := strings.Index(rest, behindMarker)
		if mi >= 0 && !strings.ContainsRune(rest[:mi], '\n') {
			if n := digitRun(rest[mi+len(behindMarker):]); n > 0 {
				return msg[:start] + rest[mi:]
			}
		}

		// 이 Value: 구간에는 매칭이 없음. 다음 구간에서 재시도
		offset = start
	}
}

// emphasizeBehind - 모든 "Messages_behind=<digits>" 구간을 <strong>으로 감쌈
func emphasizeBehind(msg string) string {
	var b strings.Builder
	for {
		mi := strings.Index(msg, behindMarker)
		if mi < 0 {
			b.WriteString(msg)
			return b.String()
		}
		digits := digitRun(msg[mi+len(behindMarker):])
		if digits == 0 {
			b.WriteString(msg[:mi+len(behindMarker)])
			msg = msg[mi+len(behindMarker):]
			continue
		}
		end := mi + len(behindMarker) + digits
		b.WriteString(msg[:mi])
		b.WriteString("<strong>")
		b.WriteString(msg[mi:end])
		b.WriteString("</strong>")
		msg = msg[end:]
	}
}

// digitRun - 문자열 앞부분의 연속된 숫자 개수
func digitRun(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

// EmphasizeFields - 메일 렌더링 시점에 필드 라벨 강조
// Value:, Labels:, 구분자 " - "를 <strong>으로 감쌈 (저장 시점에는 적용하지 않음)
func EmphasizeFields(body string) string {
	body = strings.ReplaceAll(body, "Value:", "<strong>Value:</strong>")
	body = strings.ReplaceAll(body, "Labels:", "<strong>Labels:</strong>")
	body = strings.ReplaceAll(body, " - ", "<strong> - </strong>")
	return body
}

// RenderEmailBody - 알림 메일 HTML 본문 조립
func RenderEmailBody(alertID, title, message string) string {
	footer := fmt.Sprintf(`<br><br><strong><em>This Alert is Generated By Software Factory Team</em></strong>
<br><img src="https://mspmovil.com/en/wp-content/uploads/software-factory.png" alt="Software Factory Logo" width="142" height="60" />
<br><strong>Message ID:</strong> %s`, alertID)

	return fmt.Sprintf(`<p><strong>Title:</strong> <b>%s</b></p>
<p><strong>Message:</strong></p>
<pre style="white-space: pre-wrap;">%s</pre>
%s`, title, message, footer)
}
