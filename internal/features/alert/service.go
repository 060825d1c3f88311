package alert

import (
	"context"
	"fmt"
	"time"

	"go-retail/internal/features/metrics"

	"github.com/d5/tengo/v2"
	"go.uber.org/zap"
)

const evaluateTimeout = 10 * time.Second

type AlertService interface {
	CreateRule(ctx context.Context, rule *AlertRule) error
	GetRule(ctx context.Context, id string) (*AlertRule, error)
	ListRules(ctx context.Context) ([]AlertRule, error)
	UpdateRule(ctx context.Context, id string, rule *AlertRule) error
	DeleteRule(ctx context.Context, id string) error
	ListEvents(ctx context.Context, limit int64) ([]AlertEvent, error)

	// Publish makes the service a metrics.SnapshotSink: every fresh snapshot
	// is run through the active rules.
	Publish(snap *metrics.OperationalSnapshot)
}

type AlertServiceImpl struct {
	repo AlertRepository
	log  *zap.Logger
}

func NewAlertService(repo AlertRepository, log *zap.Logger) AlertService {
	return &AlertServiceImpl{repo: repo, log: log}
}

func (s *AlertServiceImpl) CreateRule(ctx context.Context, rule *AlertRule) error {
	if err := checkScript(rule.Script); err != nil {
		return err
	}
	return s.repo.Create(ctx, rule)
}

func (s *AlertServiceImpl) GetRule(ctx context.Context, id string) (*AlertRule, error) {
	return s.repo.Get(ctx, id)
}

func (s *AlertServiceImpl) ListRules(ctx context.Context) ([]AlertRule, error) {
	return s.repo.List(ctx, false)
}

func (s *AlertServiceImpl) UpdateRule(ctx context.Context, id string, rule *AlertRule) error {
	if err := checkScript(rule.Script); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, rule)
}

func (s *AlertServiceImpl) DeleteRule(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *AlertServiceImpl) ListEvents(ctx context.Context, limit int64) ([]AlertEvent, error) {
	return s.repo.ListEvents(ctx, limit)
}

// checkScript compiles the rule against a zero snapshot so broken scripts are
// rejected at save time instead of failing silently on every evaluation.
func checkScript(source string) error {
	if source == "" {
		return fmt.Errorf("script content is required")
	}
	_, err := evaluate(source, &metrics.OperationalSnapshot{})
	if err != nil {
		return fmt.Errorf("invalid alert script: %w", err)
	}
	return nil
}

func (s *AlertServiceImpl) Publish(snap *metrics.OperationalSnapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), evaluateTimeout)
	defer cancel()

	rules, err := s.repo.List(ctx, true)
	if err != nil {
		s.log.Error("failed to load alert rules", zap.Error(err))
		return
	}

	for _, rule := range rules {
		result, err := evaluate(rule.Script, snap)
		if err != nil {
			s.log.Error("alert rule evaluation failed",
				zap.String("rule", rule.Name), zap.Error(err))
			continue
		}
		if !result.triggered {
			continue
		}

		message := result.message
		if message == "" {
			message = fmt.Sprintf("alert rule %q triggered", rule.Name)
		}
		s.log.Warn("alert triggered",
			zap.String("rule", rule.Name), zap.String("message", message))

		event := &AlertEvent{
			RuleID:      rule.ID,
			RuleName:    rule.Name,
			Message:     message,
			TriggeredAt: time.Now(),
		}
		if err := s.repo.InsertEvent(ctx, event); err != nil {
			s.log.Error("failed to record alert event", zap.Error(err))
		}
	}
}

type evalResult struct {
	triggered bool
	message   string
}

// evaluate runs one rule script with the snapshot's overview scalars bound as
// globals.
func evaluate(source string, snap *metrics.OperationalSnapshot) (evalResult, error) {
	script := tengo.NewScript([]byte(source))

	script.Add("total_revenue", snap.Overview.TotalRevenue)
	script.Add("sale_count", int64(snap.Overview.SaleCount))
	script.Add("average_basket", snap.Overview.AverageBasket)
	script.Add("reservation_count", int64(snap.Overview.ReservationCount))
	script.Add("reservation_value", snap.Overview.ReservationValue)
	script.Add("ticket_count", int64(snap.Overview.TicketCount))
	script.Add("client_count", int64(snap.Overview.ClientCount))
	script.Add("pending_tickets", int64(snap.TicketStatus[metrics.StatusPending]))
	script.Add("in_progress_tickets", int64(snap.TicketStatus[metrics.StatusInProgress]))
	script.Add("resolved_tickets", int64(snap.TicketStatus[metrics.StatusResolved]))
	script.Add("cancelled_tickets", int64(snap.TicketStatus[metrics.StatusCancelled]))
	script.Add("degraded", len(snap.Degraded) > 0)
	script.Add("triggered", false)
	script.Add("message", "")

	compiled, err := script.Compile()
	if err != nil {
		return evalResult{}, fmt.Errorf("failed to compile script: %w", err)
	}
	if err := compiled.Run(); err != nil {
		return evalResult{}, fmt.Errorf("failed to run script: %w", err)
	}

	return evalResult{
		triggered: compiled.Get("triggered").Bool(),
		message:   compiled.Get("message").String(),
	}, nil
}
