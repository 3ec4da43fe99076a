package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"giftregistry/internal/domain"
)

type fakeEventRepository struct {
	events map[string]*domain.Event
	err    error
}

func (f *fakeEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	ev, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ev, nil
}

type fakeInvitationRepository struct {
	byEventAndUser map[string]*domain.EventInvitation
}

func (f *fakeInvitationRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.EventInvitation, error) {
	if inv, ok := f.byEventAndUser[eventID+":"+userID]; ok {
		return inv, nil
	}
	return nil, domain.ErrNotFound
}

type fakeArticleRepository struct {
	articles map[string]*domain.Article
}

func (f *fakeArticleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	a, ok := f.articles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

// fakeLedger is an in-memory ledger store whose writes are atomic under mu.
// payoutCommitted, when set, reports articles whose contributions are frozen.
type fakeLedger struct {
	mu              sync.Mutex
	contributions   []*domain.Contribution
	marks           map[string]*domain.Mark
	nextID          int
	addErr          error
	payoutCommitted func(articleID string) bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{marks: map[string]*domain.Mark{}}
}

func (f *fakeLedger) ContributionSum(ctx context.Context, articleID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sumLocked(articleID), nil
}

func (f *fakeLedger) sumLocked(articleID string) int64 {
	var sum int64
	for _, c := range f.contributions {
		if c.ArticleID == articleID {
			sum += c.Amount.Amount
		}
	}
	return sum
}

func (f *fakeLedger) committedLocked(articleID string) bool {
	return f.payoutCommitted != nil && f.payoutCommitted(articleID)
}

func (f *fakeLedger) GetMark(ctx context.Context, articleID string) (*domain.Mark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.marks[articleID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (f *fakeLedger) RemoveUserClaims(ctx context.Context, eventID, articleID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.committedLocked(articleID) {
		kept := f.contributions[:0]
		for _, c := range f.contributions {
			if c.EventID == eventID && c.ArticleID == articleID && c.UserID == userID {
				continue
			}
			kept = append(kept, c)
		}
		f.contributions = kept
	}
	if m, ok := f.marks[articleID]; ok && m.EventID == eventID && m.UserID == userID {
		delete(f.marks, articleID)
	}
	return nil
}

func (f *fakeLedger) ReplaceMark(ctx context.Context, mark *domain.Mark) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.marks[mark.ArticleID]; ok && existing.UserID != mark.UserID {
		return fmt.Errorf("%w: article already marked by another user", domain.ErrConflict)
	}
	f.nextID++
	mark.ID = fmt.Sprintf("m-%d", f.nextID)
	f.marks[mark.ArticleID] = mark
	return nil
}

func (f *fakeLedger) AddContribution(ctx context.Context, c *domain.Contribution, limit int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	if f.committedLocked(c.ArticleID) {
		return domain.ErrPayoutCommitted
	}
	if f.sumLocked(c.ArticleID)+c.Amount.Amount > limit {
		return domain.ErrOverfund
	}
	f.nextID++
	c.ID = fmt.Sprintf("c-%d", f.nextID)
	f.contributions = append(f.contributions, c)
	return nil
}

// fakeSettlementRepository keeps articles, contribution sums and transfer intents in memory.
// When ledger is set, sums are read from it instead of the sums map; ledger.mu is
// always taken before mu.
type fakeSettlementRepository struct {
	mu          sync.Mutex
	articles    map[string]*domain.Article
	sums        map[string]int64
	intents     map[string]*domain.TransferIntent
	completeErr map[string]error
	ledger      *fakeLedger
	// everCompleted records articles seen completed, to check the flag never resets.
	everCompleted map[string]bool
	// beforeCreateIntent runs before an intent is stored, outside any lock.
	beforeCreateIntent func(articleID string)
}

// shareLedger makes repo read sums from ledger and freezes ledger contributions
// of articles whose payout repo has committed.
func (f *fakeSettlementRepository) shareLedger(ledger *fakeLedger) {
	f.ledger = ledger
	ledger.payoutCommitted = f.payoutCommitted
}

func (f *fakeSettlementRepository) payoutCommitted(articleID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, hasIntent := f.intents[articleID]
	a, ok := f.articles[articleID]
	return hasIntent || (ok && a.TransferCompleted)
}

// sum must be called with ledger.mu held when ledger is set.
func (f *fakeSettlementRepository) sum(articleID string) int64 {
	if f.ledger != nil {
		return f.ledger.sumLocked(articleID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sums[articleID]
}

// lockLedger takes ledger.mu, standing in for the article row lock.
func (f *fakeSettlementRepository) lockLedger() func() {
	if f.ledger == nil {
		return func() {}
	}
	f.ledger.mu.Lock()
	return f.ledger.mu.Unlock
}

func newFakeSettlementRepository(articles ...*domain.Article) *fakeSettlementRepository {
	f := &fakeSettlementRepository{
		articles:      map[string]*domain.Article{},
		sums:          map[string]int64{},
		intents:       map[string]*domain.TransferIntent{},
		completeErr:   map[string]error{},
		everCompleted: map[string]bool{},
	}
	for _, a := range articles {
		f.articles[a.ID] = a
	}
	return f
}

func (f *fakeSettlementRepository) ListPendingArticles(ctx context.Context, eventID string) ([]*domain.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Article{}
	for _, a := range f.articles {
		if a.EventID == eventID && !a.TransferCompleted {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSettlementRepository) ContributionSum(ctx context.Context, articleID string) (int64, error) {
	defer f.lockLedger()()
	return f.sum(articleID), nil
}

func (f *fakeSettlementRepository) GetTransferIntent(ctx context.Context, articleID string) (*domain.TransferIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ti, ok := f.intents[articleID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *ti
	return &cp, nil
}

func (f *fakeSettlementRepository) CreateTransferIntent(ctx context.Context, intent *domain.TransferIntent, collected int64) error {
	if f.beforeCreateIntent != nil {
		f.beforeCreateIntent(intent.ArticleID)
	}
	defer f.lockLedger()()
	sum := f.sum(intent.ArticleID)
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.intents[intent.ArticleID]; ok || f.articles[intent.ArticleID].TransferCompleted {
		return domain.ErrConflict
	}
	if sum != collected {
		return fmt.Errorf("%w: contributions changed", domain.ErrConflict)
	}
	intent.ID = "ti-" + intent.ArticleID
	cp := *intent
	f.intents[intent.ArticleID] = &cp
	return nil
}

func (f *fakeSettlementRepository) CompleteArticle(ctx context.Context, articleID string, intent *domain.TransferIntent, processorTransferID string) error {
	defer f.lockLedger()()
	sum := f.sum(articleID)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.completeErr[articleID]; err != nil {
		return err
	}
	if intent == nil && sum != 0 {
		return fmt.Errorf("%w: contributions arrived", domain.ErrConflict)
	}
	if intent != nil {
		stored := f.intents[articleID]
		stored.Status = domain.TransferSucceeded
		stored.ProcessorTransferID = processorTransferID
	}
	f.articles[articleID].TransferCompleted = true
	f.everCompleted[articleID] = true
	return nil
}

func (f *fakeSettlementRepository) completed(articleID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.articles[articleID].TransferCompleted
}

// fakeProcessor records transfers by idempotency key; repeating a key returns the first transfer.
type fakeProcessor struct {
	mu            sync.Mutex
	status        *domain.AccountStatus
	statusErr     error
	balance       domain.Money
	balanceErr    error
	failArticles  map[string]error
	transfers     map[string]*domain.TransferRequest
	transferOrder []string
	calls         int
	statusCalls   int
}

func newFakeProcessor(balance domain.Money) *fakeProcessor {
	return &fakeProcessor{
		status:       &domain.AccountStatus{ID: "acct_1", PayoutsEnabled: true},
		balance:      balance,
		failArticles: map[string]error{},
		transfers:    map[string]*domain.TransferRequest{},
	}
}

func (f *fakeProcessor) CreateTransfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.failArticles[req.Metadata["article_id"]]; err != nil {
		return nil, err
	}
	if _, ok := f.transfers[req.IdempotencyKey]; !ok {
		r := req
		f.transfers[req.IdempotencyKey] = &r
		f.transferOrder = append(f.transferOrder, req.IdempotencyKey)
	}
	return &domain.TransferResult{ID: "tr_" + req.Metadata["article_id"], Amount: req.Amount}, nil
}

func (f *fakeProcessor) GetAccountStatus(ctx context.Context, accountID string) (*domain.AccountStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.status, nil
}

func (f *fakeProcessor) GetAvailableBalance(ctx context.Context, currency string) (domain.Money, error) {
	if f.balanceErr != nil {
		return domain.Money{}, f.balanceErr
	}
	return f.balance, nil
}

// transferred returns the distinct transfers made, in order.
func (f *fakeProcessor) transferred() []*domain.TransferRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.TransferRequest, 0, len(f.transferOrder))
	for _, k := range f.transferOrder {
		out = append(out, f.transfers[k])
	}
	return out
}

type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	released int
	extended int
	// lost makes every Extend fail as if the lease expired and was taken over.
	lost bool
}

func (f *fakeLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (domain.RunLease, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.held[key] {
		return nil, domain.ErrLocked
	}
	if f.held == nil {
		f.held = map[string]bool{}
	}
	f.held[key] = true
	return &fakeLease{locker: f, key: key}, nil
}

type fakeLease struct {
	locker *fakeLocker
	key    string
}

func (l *fakeLease) Extend(ctx context.Context, ttl time.Duration) error {
	l.locker.mu.Lock()
	defer l.locker.mu.Unlock()
	if l.locker.lost {
		return domain.ErrLocked
	}
	l.locker.extended++
	return nil
}

func (l *fakeLease) Release(ctx context.Context) error {
	l.locker.mu.Lock()
	defer l.locker.mu.Unlock()
	delete(l.locker.held, l.key)
	l.locker.released++
	return nil
}
