package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"giftregistry/internal/domain"
	"giftregistry/internal/observability"
)

const settlementTracerName = "giftregistry/settlement"

type settlementService struct {
	eventRepo domain.EventRepository
	repo      domain.SettlementRepository
	processor domain.PaymentProcessor
	locker    domain.RunLocker
	lockTTL   time.Duration
	metrics   *observability.SettlementMetrics
	logger    *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewSettlementService creates the settlement engine. locker and metrics may be nil.
func NewSettlementService(
	eventRepo domain.EventRepository,
	repo domain.SettlementRepository,
	processor domain.PaymentProcessor,
	locker domain.RunLocker,
	lockTTL time.Duration,
	metrics *observability.SettlementMetrics,
	logger *slog.Logger,
) domain.SettlementService {
	return &settlementService{
		eventRepo: eventRepo,
		repo:      repo,
		processor: processor,
		locker:    locker,
		lockTTL:   lockTTL,
		metrics:   metrics,
		logger:    logger,
		tracer:    otel.Tracer(settlementTracerName),
		now:       time.Now,
	}
}

// settlementRun is the state of one run over one event. Articles are processed
// one at a time so balance is deducted at decision time.
type settlementRun struct {
	event       *domain.Event
	phase       domain.SettlementPhase
	destination string
	balance     domain.Money
	report      *domain.SettlementReport
}

// SettleFullyFundedArticles pays out the price of every pending article whose
// contributions reached it.
func (s *settlementService) SettleFullyFundedArticles(ctx context.Context, eventID string) (*domain.SettlementReport, error) {
	return s.run(ctx, eventID, domain.PhaseFullPrice)
}

// SettleRemainder pays out whatever was collected for every still-pending article.
func (s *settlementService) SettleRemainder(ctx context.Context, eventID string) (*domain.SettlementReport, error) {
	return s.run(ctx, eventID, domain.PhaseRemainder)
}

func (s *settlementService) run(ctx context.Context, eventID string, phase domain.SettlementPhase) (report *domain.SettlementReport, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "settlement."+string(phase), trace.WithAttributes(
		attribute.String("event.id", eventID),
		attribute.String("settlement.phase", string(phase)),
	))
	logger := s.logger.With("event_id", eventID, "phase", string(phase))
	defer func() {
		result := observability.RunCompleted
		if err != nil {
			result = observability.RunAborted
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.ErrorContext(ctx, "settlement run aborted", "err", err)
		} else {
			logger.InfoContext(ctx, "settlement run finished",
				"settled", len(report.Settled),
				"skipped", len(report.Skipped),
				"failed", len(report.Failed),
				"transferred", report.Transferred.String(),
			)
		}
		s.metrics.RunFinished(phase, result, time.Since(start))
		span.End()
	}()

	var lease domain.RunLease
	if s.locker != nil {
		lease, err = s.locker.Acquire(ctx, "settlement:"+eventID, s.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire settlement lock: %w", err)
		}
		defer func() {
			if rerr := lease.Release(context.WithoutCancel(ctx)); rerr != nil {
				logger.WarnContext(ctx, "release settlement lock", "err", rerr)
			}
		}()
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if phase == domain.PhaseRemainder && (event.ClosedAt == nil || event.ClosedAt.After(s.now())) {
		logger.WarnContext(ctx, "remainder settlement on an event that is not closed")
	}

	destination, err := s.payoutDestination(ctx, event)
	if err != nil {
		return nil, err
	}
	balance, err := s.processor.GetAvailableBalance(ctx, event.Currency)
	if err != nil {
		return nil, fmt.Errorf("get available balance: %w", err)
	}
	articles, err := s.repo.ListPendingArticles(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list pending articles: %w", err)
	}

	r := &settlementRun{
		event:       event,
		phase:       phase,
		destination: destination,
		balance:     balance,
		report:      domain.NewSettlementReport(eventID, phase, event.Currency),
	}
	for _, article := range articles {
		if lease != nil {
			if err := lease.Extend(ctx, s.lockTTL); err != nil {
				return nil, fmt.Errorf("extend settlement lock: %w", err)
			}
		}
		outcome := s.settleArticle(ctx, r, article, logger.With("article_id", article.ID))
		switch outcome {
		case observability.OutcomeSettled:
			r.report.Settled = append(r.report.Settled, article.ID)
		case observability.OutcomeSkipped:
			r.report.Skipped = append(r.report.Skipped, article.ID)
		case observability.OutcomeFailed:
			r.report.Failed = append(r.report.Failed, article.ID)
		}
		s.metrics.ArticleProcessed(phase, outcome)
	}
	return r.report, nil
}

// payoutDestination resolves the organizer's payout account and checks it can receive
// payouts. Any failure here is fatal for the run.
func (s *settlementService) payoutDestination(ctx context.Context, event *domain.Event) (string, error) {
	if event.PayoutAccountID == "" {
		return "", fmt.Errorf("organizer payout account: %w", domain.ErrNotFound)
	}
	status, err := s.processor.GetAccountStatus(ctx, event.PayoutAccountID)
	if err != nil {
		return "", fmt.Errorf("get payout account status: %w", err)
	}
	if !status.PayoutsEnabled {
		return "", fmt.Errorf("%w: payouts disabled for organizer account", domain.ErrExternalService)
	}
	return event.PayoutAccountID, nil
}

// settleArticle decides and, when due, executes the payout of one article.
// Errors are logged and reported as an outcome; they never abort the run.
func (s *settlementService) settleArticle(ctx context.Context, r *settlementRun, article *domain.Article, logger *slog.Logger) string {
	intent, err := s.repo.GetTransferIntent(ctx, article.ID)
	switch {
	case err == nil:
		// A previous run already decided this payout: re-issue it unchanged.
		// Contributions are frozen once the intent exists, so its amount is still current.
		if intent.Status == domain.TransferSucceeded {
			return s.complete(ctx, article, intent, intent.ProcessorTransferID, logger)
		}
		logger.InfoContext(ctx, "resuming transfer intent", "intent_phase", string(intent.Phase), "amount", intent.Amount.String())
		return s.execute(ctx, r, article, intent, logger)
	case !errors.Is(err, domain.ErrNotFound):
		logger.ErrorContext(ctx, "get transfer intent", "err", err)
		return observability.OutcomeFailed
	}

	if article.Price.Amount <= 0 {
		return s.complete(ctx, article, nil, "", logger)
	}

	sum, err := s.repo.ContributionSum(ctx, article.ID)
	if err != nil {
		logger.ErrorContext(ctx, "sum contributions", "err", err)
		return observability.OutcomeFailed
	}
	collected := domain.Money{Amount: sum, Currency: article.Price.Currency}

	var amount domain.Money
	var excess int64
	switch r.phase {
	case domain.PhaseFullPrice:
		if collected.Amount < article.Price.Amount {
			logger.DebugContext(ctx, "article not fully funded", "collected", collected.String(), "price", article.Price.String())
			return observability.OutcomeSkipped
		}
		amount = article.Price
		excess = collected.Amount - article.Price.Amount
	case domain.PhaseRemainder:
		if collected.Amount == 0 {
			return s.complete(ctx, article, nil, "", logger)
		}
		amount = collected.Min(article.Price)
	}

	if amount.Amount > r.balance.Amount {
		logger.WarnContext(ctx, "insufficient platform balance", "amount", amount.String(), "available", r.balance.String())
		return observability.OutcomeSkipped
	}

	intent = &domain.TransferIntent{
		EventID:        r.event.ID,
		ArticleID:      article.ID,
		Phase:          r.phase,
		IdempotencyKey: TransferIdempotencyKey(r.phase, r.event.ID, article.ID),
		Amount:         amount,
		Destination:    r.destination,
		Status:         domain.TransferPending,
		CreatedAt:      s.now(),
	}
	if err := s.repo.CreateTransferIntent(ctx, intent, collected.Amount); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			logger.WarnContext(ctx, "article changed since it was read, left for the next run", "err", err)
			return observability.OutcomeSkipped
		}
		logger.ErrorContext(ctx, "create transfer intent", "err", err)
		return observability.OutcomeFailed
	}
	r.balance.Amount -= amount.Amount

	outcome := s.execute(ctx, r, article, intent, logger)
	if outcome == observability.OutcomeSettled && excess > 0 {
		r.report.Excess = append(r.report.Excess, domain.ArticleExcess{
			ArticleID: article.ID,
			Amount:    domain.Money{Amount: excess, Currency: article.Price.Currency},
		})
		logger.WarnContext(ctx, "over-contribution retained by platform", "excess", excess)
	}
	return outcome
}

func (s *settlementService) execute(ctx context.Context, r *settlementRun, article *domain.Article, intent *domain.TransferIntent, logger *slog.Logger) string {
	ctx, span := s.tracer.Start(ctx, "settlement.transfer", trace.WithAttributes(
		attribute.String("article.id", article.ID),
		attribute.String("transfer.phase", string(intent.Phase)),
		attribute.Int64("transfer.amount", intent.Amount.Amount),
	))
	defer span.End()

	result, err := s.processor.CreateTransfer(ctx, domain.TransferRequest{
		Amount:         intent.Amount,
		Destination:    intent.Destination,
		IdempotencyKey: intent.IdempotencyKey,
		Metadata: map[string]string{
			"event_id":   intent.EventID,
			"article_id": intent.ArticleID,
			"phase":      string(intent.Phase),
		},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "transfer failed, article left pending", "amount", intent.Amount.String(), "err", err)
		return observability.OutcomeFailed
	}

	outcome := s.complete(ctx, article, intent, result.ID, logger)
	if outcome == observability.OutcomeSettled {
		if sum, err := r.report.Transferred.Add(intent.Amount); err == nil {
			r.report.Transferred = sum
		}
		s.metrics.Transferred(intent.Phase, intent.Amount)
	}
	return outcome
}

func (s *settlementService) complete(ctx context.Context, article *domain.Article, intent *domain.TransferIntent, transferID string, logger *slog.Logger) string {
	if err := s.repo.CompleteArticle(ctx, article.ID, intent, transferID); err != nil {
		if intent == nil && errors.Is(err, domain.ErrConflict) {
			logger.WarnContext(ctx, "contributions arrived before completion, left for the next run", "err", err)
			return observability.OutcomeSkipped
		}
		logger.ErrorContext(ctx, "mark transfer completed", "transfer_id", transferID, "err", err)
		return observability.OutcomeFailed
	}
	if intent != nil {
		logger.InfoContext(ctx, "article settled", "transfer_id", transferID, "amount", intent.Amount.String())
	} else {
		logger.InfoContext(ctx, "article settled with nothing owed")
	}
	return observability.OutcomeSettled
}
