package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"giftregistry/internal/delivery/http/helpers"
	"giftregistry/internal/delivery/http/middleware"
	"giftregistry/internal/domain"
)

// ApplyMarkRequest is the request body for POST /events/{eventID}/articles/{articleID}/mark.
type ApplyMarkRequest struct {
	// Action is one of none, external, contributing.
	Action string `json:"action" example:"contributing"`
	// Amount is a decimal string in major units, required for contributing.
	Amount string `json:"amount,omitempty" example:"12.50"`
	// Currency defaults to the article currency.
	Currency string `json:"currency,omitempty" example:"EUR"`
}

// Validate implements Validator.
func (req ApplyMarkRequest) Validate() []string {
	var errs []string
	kind, err := domain.ParseActionKind(req.Action)
	if err != nil {
		return append(errs, "action must be one of none, external, contributing")
	}
	if kind == domain.ActionContributing && strings.TrimSpace(req.Amount) == "" {
		errs = append(errs, "amount is required for contributing")
	}
	if kind != domain.ActionContributing && req.Amount != "" {
		errs = append(errs, "amount is only allowed for contributing")
	}
	return errs
}

// ArticleStatusSuccessResponse is the success envelope for article endpoints (200).
type ArticleStatusSuccessResponse struct {
	Data  *domain.ArticleStatus `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

type ArticleController struct {
	Logger  *slog.Logger
	Service domain.MarkService
}

func NewArticleController(logger *slog.Logger, svc domain.MarkService) *ArticleController {
	return &ArticleController{Logger: logger, Service: svc}
}

// ApplyMark godoc
// @Summary Mark an article
// @Description Applies a guest action to an article: none withdraws the caller's own contributions and marks, external claims the article as bought elsewhere, contributing pledges an amount. The caller must be the event creator or a guest who accepted the invitation.
// @Tags articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param articleID path string true "Article ID (UUID)"
// @Param mark body ApplyMarkRequest true "Action"
// @Success 200 {object} controllers.ArticleStatusSuccessResponse "data contains the article state after the action"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict or overfunded"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/articles/{articleID}/mark [post]
func (c *ArticleController) ApplyMark(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	articleID, ok := pathUUID(w, r, "articleID")
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req ApplyMarkRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	action, err := c.action(r, eventID, articleID, userID, req)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if err := c.Service.ApplyMark(r.Context(), eventID, articleID, userID, action); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}

	status, err := c.Service.GetArticleStatus(r.Context(), eventID, articleID, userID)
	if err != nil {
		// The mark is stored; only the read-back failed.
		c.Logger.WarnContext(r.Context(), "read article state after mark", "article_id", articleID, "err", err)
		helpers.WriteJSONSuccess(w, http.StatusOK, nil)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, status)
}

// action converts the request into a domain.Action. When no currency is given the
// article currency is looked up, which also applies the caller's authorization.
func (c *ArticleController) action(r *http.Request, eventID, articleID, userID string, req ApplyMarkRequest) (domain.Action, error) {
	kind, err := domain.ParseActionKind(req.Action)
	if err != nil {
		return domain.Action{}, err
	}
	switch kind {
	case domain.ActionNone:
		return domain.NoneAction(), nil
	case domain.ActionExternal:
		return domain.ExternalAction(), nil
	}

	currency := req.Currency
	if currency == "" {
		status, err := c.Service.GetArticleStatus(r.Context(), eventID, articleID, userID)
		if err != nil {
			return domain.Action{}, err
		}
		currency = status.Article.Price.Currency
	}
	amount, err := domain.ParseMoney(req.Amount, currency)
	if err != nil {
		return domain.Action{}, err
	}
	return domain.ContributeAction(amount), nil
}

// GetArticleStatus godoc
// @Summary Get article state
// @Description Returns the derived state of an article (none, external, contributing), the collected and remaining amounts and who marked it.
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param articleID path string true "Article ID (UUID)"
// @Success 200 {object} controllers.ArticleStatusSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/articles/{articleID} [get]
func (c *ArticleController) GetArticleStatus(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	articleID, ok := pathUUID(w, r, "articleID")
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	status, err := c.Service.GetArticleStatus(r.Context(), eventID, articleID, userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, status)
}
