package mailer

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

// Sender delivers rendered emails. The SMTP implementation is used in
// the worker; tests substitute their own.
type Sender interface {
	Send(to, subject, body string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpSender struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPSender(cfg SMTPConfig) Sender {
	return &smtpSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *smtpSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

var statusLabels = map[string]string{
	"pending":    "Chờ xác nhận",
	"confirmed":  "Đã xác nhận",
	"processing": "Đang chuẩn bị hàng",
	"shipping":   "Đang giao hàng",
	"delivered":  "Đã giao hàng",
	"cancelled":  "Đã hủy",
}

func statusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

func paymentMethodLabel(method string) string {
	switch method {
	case "cod":
		return "Thanh toán khi nhận hàng"
	case "vnpay":
		return "VNPay"
	}
	return method
}

// RenderOrderConfirmation builds the plain-text confirmation email.
func RenderOrderConfirmation(p OrderEmailPayload) (subject, body string) {
	subject = fmt.Sprintf("Xác nhận đơn hàng %s", p.OrderNumber)

	var b strings.Builder
	fmt.Fprintf(&b, "Xin chào %s,\n\n", p.CustomerName)
	fmt.Fprintf(&b, "Cảm ơn bạn đã đặt hàng. Đơn hàng %s đã được ghi nhận.\n", p.OrderNumber)
	fmt.Fprintf(&b, "Tổng tiền: %s VND\n", p.Total)
	if p.PaymentMethod != "" {
		fmt.Fprintf(&b, "Thanh toán: %s\n", paymentMethodLabel(p.PaymentMethod))
	}
	fmt.Fprintf(&b, "Trạng thái: %s\n\n", statusLabel(p.Status))
	b.WriteString("Chúng tôi sẽ thông báo khi đơn hàng được xử lý.\n")
	return subject, b.String()
}

// RenderOrderStatus builds the plain-text status-change email.
func RenderOrderStatus(p OrderEmailPayload) (subject, body string) {
	subject = fmt.Sprintf("Cập nhật đơn hàng %s", p.OrderNumber)

	var b strings.Builder
	fmt.Fprintf(&b, "Xin chào %s,\n\n", p.CustomerName)
	fmt.Fprintf(&b, "Đơn hàng %s đã chuyển từ %s sang %s.\n",
		p.OrderNumber, statusLabel(p.PreviousStatus), statusLabel(p.Status))
	if p.Status == "delivered" {
		b.WriteString("\nCảm ơn bạn đã mua sắm. Hãy để lại đánh giá cho sản phẩm nhé!\n")
	}
	return subject, b.String()
}
