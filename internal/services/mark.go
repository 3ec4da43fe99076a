package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"giftregistry/internal/domain"
)

type markService struct {
	eventRepo      domain.EventRepository
	invitationRepo domain.EventInvitationRepository
	articleRepo    domain.ArticleRepository
	ledgerRepo     domain.LedgerRepository
	contextTimeout time.Duration
	now            func() time.Time
}

// NewMarkService creates the MarkService. It only writes to the ledger store;
// money never moves at contribution time.
func NewMarkService(
	eventRepo domain.EventRepository,
	invitationRepo domain.EventInvitationRepository,
	articleRepo domain.ArticleRepository,
	ledgerRepo domain.LedgerRepository,
	timeout time.Duration,
) domain.MarkService {
	return &markService{
		eventRepo:      eventRepo,
		invitationRepo: invitationRepo,
		articleRepo:    articleRepo,
		ledgerRepo:     ledgerRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *markService) ApplyMark(ctx context.Context, eventID, articleID, userID string, action domain.Action) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := action.Validate(); err != nil {
		return err
	}
	article, err := s.authorizedArticle(ctx, eventID, articleID, userID)
	if err != nil {
		return err
	}

	switch action.Kind {
	case domain.ActionNone:
		if err := s.ledgerRepo.RemoveUserClaims(ctx, eventID, articleID, userID); err != nil {
			return fmt.Errorf("remove claims: %w", err)
		}
	case domain.ActionExternal:
		mark := &domain.Mark{
			EventID:   eventID,
			ArticleID: articleID,
			UserID:    userID,
			Kind:      domain.MarkPurchased,
			CreatedAt: s.now(),
		}
		if err := s.ledgerRepo.ReplaceMark(ctx, mark); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return err
			}
			return fmt.Errorf("replace mark: %w", err)
		}
	case domain.ActionContributing:
		if err := s.contribute(ctx, article, userID, action.Amount); err != nil {
			return err
		}
	}

	return nil
}

func (s *markService) contribute(ctx context.Context, article *domain.Article, userID string, amount domain.Money) error {
	if !amount.SameCurrency(article.Price) {
		return fmt.Errorf("%w: contribution currency %s does not match article currency %s",
			domain.ErrInvalidInput, amount.Currency, article.Price.Currency)
	}
	if amount.Amount > article.Price.Amount {
		return fmt.Errorf("%w: %s exceeds price %s", domain.ErrOverfund, amount, article.Price)
	}
	c := &domain.Contribution{
		EventID:   article.EventID,
		ArticleID: article.ID,
		UserID:    userID,
		Amount:    amount,
		CreatedAt: s.now(),
	}
	// The settled check, the sum check and the insert run atomically in the store.
	if err := s.ledgerRepo.AddContribution(ctx, c, article.Price.Amount); err != nil {
		if errors.Is(err, domain.ErrOverfund) || errors.Is(err, domain.ErrPayoutCommitted) {
			return err
		}
		return fmt.Errorf("add contribution: %w", err)
	}
	return nil
}

func (s *markService) GetArticleStatus(ctx context.Context, eventID, articleID, userID string) (*domain.ArticleStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	article, err := s.authorizedArticle(ctx, eventID, articleID, userID)
	if err != nil {
		return nil, err
	}
	return s.status(ctx, article)
}

// authorizedArticle loads the event and article and checks that userID is the
// event creator or a guest who accepted the invitation.
func (s *markService) authorizedArticle(ctx context.Context, eventID, articleID, userID string) (*domain.Article, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("event: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if !event.IsCreator(userID) {
		inv, err := s.invitationRepo.GetByEventAndUser(ctx, eventID, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrForbidden
			}
			return nil, fmt.Errorf("get invitation: %w", err)
		}
		if !inv.IsAccepted() {
			return nil, domain.ErrForbidden
		}
	}

	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("article: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article.EventID != event.ID {
		return nil, fmt.Errorf("%w: article does not belong to event", domain.ErrInvalidInput)
	}
	return article, nil
}

func (s *markService) status(ctx context.Context, article *domain.Article) (*domain.ArticleStatus, error) {
	sum, err := s.ledgerRepo.ContributionSum(ctx, article.ID)
	if err != nil {
		return nil, fmt.Errorf("sum contributions: %w", err)
	}
	mark, err := s.ledgerRepo.GetMark(ctx, article.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get mark: %w", err)
		}
		mark = nil
	}
	collected := domain.Money{Amount: sum, Currency: article.Price.Currency}
	return domain.NewArticleStatus(article, mark, collected), nil
}
