package http

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"giftregistry/internal/delivery/http/controllers"
	"giftregistry/internal/delivery/http/middleware"
	"giftregistry/internal/domain"
)

// RouterDeps holds what NewRouter needs to build the route table.
type RouterDeps struct {
	Logger          *slog.Logger
	Articles        *controllers.ArticleController
	Settlements     *controllers.SettlementController
	TokenVerifier   domain.TokenVerifier
	SettlementKey   string
	MetricsGatherer prometheus.Gatherer
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(deps RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(deps.TokenVerifier, deps.Logger)
	requireKey := middleware.RequireSettlementKey(deps.SettlementKey, deps.Logger)

	// Guest-facing
	mux.HandleFunc("POST /events/{eventID}/articles/{articleID}/mark", requireAuth(deps.Articles.ApplyMark))
	mux.HandleFunc("GET /events/{eventID}/articles/{articleID}", requireAuth(deps.Articles.GetArticleStatus))

	// Settlement triggers for the scheduler
	mux.HandleFunc("POST /internal/events/{eventID}/settlements/full-price", requireKey(deps.Settlements.SettleFullPrice))
	mux.HandleFunc("POST /internal/events/{eventID}/settlements/remainder", requireKey(deps.Settlements.SettleRemainder))

	mux.Handle("GET /metrics", promhttp.HandlerFor(deps.MetricsGatherer, promhttp.HandlerOpts{}))
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
