package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftregistry/internal/delivery/http/controllers"
	"giftregistry/internal/delivery/http/middleware"
	"giftregistry/internal/domain"
)

const (
	eventUUID   = "6f1c2a4e-8d0b-4c1e-9a55-1f3f4b2c7d10"
	articleUUID = "0b7e3c9a-2f41-4d6a-8c3e-5a9d1e2f4b60"
)

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (string, error) {
	if token == "good" {
		return "guest-1", nil
	}
	return "", errors.New("bad token")
}

type stubMarkService struct{}

func (stubMarkService) ApplyMark(ctx context.Context, eventID, articleID, userID string, action domain.Action) error {
	return nil
}

func (stubMarkService) GetArticleStatus(ctx context.Context, eventID, articleID, userID string) (*domain.ArticleStatus, error) {
	article := &domain.Article{ID: articleID, EventID: eventID, Price: domain.NewMoney(1000, "EUR")}
	return domain.NewArticleStatus(article, nil, domain.NewMoney(0, "EUR")), nil
}

type stubSettlementService struct{}

func (stubSettlementService) SettleFullyFundedArticles(ctx context.Context, eventID string) (*domain.SettlementReport, error) {
	return domain.NewSettlementReport(eventID, domain.PhaseFullPrice, "EUR"), nil
}

func (stubSettlementService) SettleRemainder(ctx context.Context, eventID string) (*domain.SettlementReport, error) {
	return domain.NewSettlementReport(eventID, domain.PhaseRemainder, "EUR"), nil
}

func TestNewRouter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "giftregistry_test_total", Help: "test"}))

	mux := NewRouter(RouterDeps{
		Logger:          logger,
		Articles:        controllers.NewArticleController(logger, stubMarkService{}),
		Settlements:     controllers.NewSettlementController(logger, stubSettlementService{}),
		TokenVerifier:   stubVerifier{},
		SettlementKey:   "key",
		MetricsGatherer: reg,
	})

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		headers    map[string]string
		wantStatus int
	}{
		{"mark with token", http.MethodPost, "/events/" + eventUUID + "/articles/" + articleUUID + "/mark", `{"action":"none"}`,
			map[string]string{"Authorization": "Bearer good"}, http.StatusOK},
		{"mark without token", http.MethodPost, "/events/" + eventUUID + "/articles/" + articleUUID + "/mark", `{"action":"none"}`,
			nil, http.StatusUnauthorized},
		{"article state", http.MethodGet, "/events/" + eventUUID + "/articles/" + articleUUID, "",
			map[string]string{"Authorization": "Bearer good"}, http.StatusOK},
		{"full price with key", http.MethodPost, "/internal/events/" + eventUUID + "/settlements/full-price", "",
			map[string]string{middleware.SettlementKeyHeader: "key"}, http.StatusOK},
		{"remainder with bearer only", http.MethodPost, "/internal/events/" + eventUUID + "/settlements/remainder", "",
			map[string]string{"Authorization": "Bearer good"}, http.StatusUnauthorized},
		{"wrong method", http.MethodGet, "/internal/events/" + eventUUID + "/settlements/remainder", "",
			nil, http.StatusMethodNotAllowed},
		{"metrics", http.MethodGet, "/metrics", "", nil, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, req)
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			if tt.path == "/metrics" {
				assert.Contains(t, rr.Body.String(), "giftregistry_test_total")
			}
		})
	}
}
