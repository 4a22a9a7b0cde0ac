package pkg

import (
	"context"
	"crypto/tls"
	"fmt"
	"html"

	"Volunteer_Hub/internal/model"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string // 发件人邮箱
	Password string // 授权码/密码
	From     string // 显示的发件人，可与 Username 相同
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// Mailer 给组织者发送新申请通知
type Mailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewMailer(cfg SMTPConfig) *Mailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	return &Mailer{cfg: cfg, dialer: d}
}

func (m *Mailer) NotifyRequest(ctx context.Context, req *model.VolunteerRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", req.OrganizerEmail)
	msg.SetHeader("Subject", fmt.Sprintf("New volunteer request: %s", req.PostTitle))
	msg.SetBody("text/html", RequestNoticeHTML(req))
	return m.dialer.DialAndSend(msg)
}

func RequestNoticeHTML(req *model.VolunteerRequest) string {
	volunteer := req.VolunteerName
	if volunteer == "" {
		volunteer = req.VolunteerEmail
	}
	return fmt.Sprintf(`<p>Hello %s,</p><p><b>%s</b> (%s) asked to volunteer for <b>%s</b>.</p><p>%s</p>`,
		html.EscapeString(req.OrganizerName),
		html.EscapeString(volunteer),
		html.EscapeString(req.VolunteerEmail),
		html.EscapeString(req.PostTitle),
		html.EscapeString(req.Suggestion),
	)
}
