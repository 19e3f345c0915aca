package email

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// SendStatementReport mails a statement summary with its XML rendition attached
func (s *Sender) SendStatementReport(to []string, st *models.Statement, xmlBody []byte) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = to
	e.Subject = fmt.Sprintf("Cash Flow Statement %s vs %s", st.CurrentPeriod, st.PreviousPeriod)
	e.Text = []byte(statementBody(st))

	filename := fmt.Sprintf("cashflow_%s_%s.xml", sanitize(st.CompanyID), sanitize(st.CurrentPeriod))
	if _, err := e.Attach(bytes.NewReader(xmlBody), filename, "application/xml"); err != nil {
		return fmt.Errorf("failed to attach statement: %w", err)
	}

	// Send email
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send statement to %s: %v", strings.Join(to, ", "), err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", strings.Join(to, ", "), e.Subject)
	return nil
}

func statementBody(st *models.Statement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cash flow statement for company %s\n", st.CompanyID)
	fmt.Fprintf(&b, "Period: %s compared to %s\n\n", st.CurrentPeriod, st.PreviousPeriod)
	fmt.Fprintf(&b, "Operating activities: %.2f\n", st.OperatingTotal)
	fmt.Fprintf(&b, "Investing activities: %.2f\n", st.InvestingTotal)
	fmt.Fprintf(&b, "Financing activities: %.2f\n", st.FinancingTotal)
	fmt.Fprintf(&b, "Net change in cash:   %.2f\n\n", st.NetCashChange)
	fmt.Fprintf(&b, "%d components, run %s.\n", st.Metadata.TotalComponents, st.Metadata.RunID)
	b.WriteString("The full statement is attached as XML.\n")
	b.WriteString("\nBest regards,\nCash Flow Service")
	return b.String()
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, s)
}
