// 알림 메일 전송 클라이언트 정의
//
// 환경변수:
//   - SMTP_HOST, SMTP_PORT: SMTP 서버 주소
//   - EMAIL_USER, EMAIL_PASS: SMTP 인증 정보 (없으면 무인증 릴레이)
//   - EMAIL_FROM: 발신자 주소
//   - EMAIL_TO, EMAIL_TO_1, EMAIL_TO_2: 수신자 (빈 값은 제외)

package client

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/swfactory/alert-bridge/internal/config"
)

// MailClient 구조체 정의
type MailClient struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       []string
}

// MailClient 객체 생성
func NewMailClient(cfg config.MailConfig) *MailClient {
	return &MailClient{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
		to:       cfg.To,
	}
}

// 발신자와 수신자가 모두 설정되어 있는지 체크
func (c *MailClient) IsConfigured() bool {
	return c.from != "" && len(c.to) > 0
}

// Send - HTML 본문 메일을 수신자 전원에게 1건으로 전송
// 전송 건마다 다이얼 (이벤트 단위 호출이라 커넥션 유지가 필요 없음)
func (c *MailClient) Send(subject, htmlBody string) error {
	if !c.IsConfigured() {
		return fmt.Errorf("mail sender or recipients not configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", c.from)
	m.SetHeader("To", c.to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	var d *gomail.Dialer
	if c.username == "" {
		d = &gomail.Dialer{Host: c.host, Port: c.port}
	} else {
		d = gomail.NewPlainDialer(c.host, c.port, c.username, c.password)
	}

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}
	return nil
}
