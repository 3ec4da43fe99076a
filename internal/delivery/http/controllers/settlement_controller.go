package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"giftregistry/internal/delivery/http/helpers"
	"giftregistry/internal/domain"
)

// SettlementReportSuccessResponse is the success envelope for settlement triggers (200).
type SettlementReportSuccessResponse struct {
	Data  *domain.SettlementReport `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// SettlementController exposes the settlement phases to the external scheduler.
type SettlementController struct {
	Logger  *slog.Logger
	Service domain.SettlementService
}

func NewSettlementController(logger *slog.Logger, svc domain.SettlementService) *SettlementController {
	return &SettlementController{Logger: logger, Service: svc}
}

// SettleFullPrice godoc
// @Summary Run full-price settlement
// @Description Transfers the price of every pending, fully funded article of the event to the organizer. Articles are skipped when the platform balance is insufficient and reported as failed when the transfer fails.
// @Tags settlements
// @Produce json
// @Param X-Settlement-Key header string true "Settlement trigger key"
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.SettlementReportSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: settlement_locked"
// @Failure 502 {object} helpers.APIResponse "error.code: external_service"
// @Router /internal/events/{eventID}/settlements/full-price [post]
func (c *SettlementController) SettleFullPrice(w http.ResponseWriter, r *http.Request) {
	c.settle(w, r, c.Service.SettleFullyFundedArticles)
}

// SettleRemainder godoc
// @Summary Run remainder settlement
// @Description Transfers whatever was collected for every still-pending article of the event, capped at the article price. Meant to run once the event has ended.
// @Tags settlements
// @Produce json
// @Param X-Settlement-Key header string true "Settlement trigger key"
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.SettlementReportSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: settlement_locked"
// @Failure 502 {object} helpers.APIResponse "error.code: external_service"
// @Router /internal/events/{eventID}/settlements/remainder [post]
func (c *SettlementController) SettleRemainder(w http.ResponseWriter, r *http.Request) {
	c.settle(w, r, c.Service.SettleRemainder)
}

func (c *SettlementController) settle(w http.ResponseWriter, r *http.Request, run func(ctx context.Context, eventID string) (*domain.SettlementReport, error)) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	// A run finishes even if the trigger disconnects.
	report, err := run(context.WithoutCancel(r.Context()), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, report)
}
