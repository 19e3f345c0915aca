package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/Dan9191/cashflow-service/internal/service"
	"github.com/Dan9191/cashflow-service/internal/utils/report"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StatementSource generates statements for the report job
type StatementSource interface {
	ListPeriods(ctx context.Context, companyID string) ([]string, error)
	GenerateStatement(ctx context.Context, req service.GenerateRequest) (*models.Statement, error)
}

// Mailer delivers a rendered statement
type Mailer interface {
	SendStatementReport(to []string, st *models.Statement, xmlBody []byte) error
}

// Scheduler runs the periodic statement report
type Scheduler struct {
	cron    *cron.Cron
	source  StatementSource
	mailer  Mailer
	cfg     *config.Config
	log     *logrus.Logger
	timeout time.Duration
}

// NewScheduler creates a report scheduler
func NewScheduler(source StatementSource, mailer Mailer, cfg *config.Config, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		source:  source,
		mailer:  mailer,
		cfg:     cfg,
		log:     log,
		timeout: cfg.RequestTimeout,
	}
}

// Start registers the report job and starts the cron runner
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.cfg.ReportSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.RunReport(ctx); err != nil {
			s.log.Errorf("Scheduled cash flow report failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule report %q: %w", s.cfg.ReportSchedule, err)
	}
	s.cron.Start()
	s.log.Infof("Cash flow report scheduled: %s", s.cfg.ReportSchedule)
	return nil
}

// Stop stops the cron runner and waits for a running job
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunReport builds the statement for the two latest periods and mails it
func (s *Scheduler) RunReport(ctx context.Context) error {
	companyID := s.cfg.ReportCompanyID
	periods, err := s.source.ListPeriods(ctx, companyID)
	if err != nil {
		return fmt.Errorf("failed to list periods: %w", err)
	}
	if len(periods) < 2 {
		return fmt.Errorf("company %s has %d periods, need two", companyID, len(periods))
	}

	st, err := s.source.GenerateStatement(ctx, service.GenerateRequest{
		CompanyID:      companyID,
		CurrentPeriod:  periods[0],
		PreviousPeriod: periods[1],
		UseAI:          s.cfg.AIEnabled(),
	})
	if err != nil {
		return fmt.Errorf("failed to generate statement: %w", err)
	}

	body, err := report.RenderXML(st)
	if err != nil {
		return err
	}
	if err := s.mailer.SendStatementReport(s.cfg.ReportRecipients, st, body); err != nil {
		return err
	}

	s.log.Infof("Cash flow report for %s (%s vs %s) sent", companyID, periods[0], periods[1])
	return nil
}
