package controllers

import (
	"net/http"

	"github.com/sarkar-crm/crm-service/internal/authz"
	"github.com/sarkar-crm/crm-service/internal/services"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

type AnalyticsController struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsController(analyticsService *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService}
}

// GET /api/v1/analytics?type=dashboard|sales|customers|products
func (c *AnalyticsController) GetHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok || !requirePermission(w, actor, authz.ResourceAnalytics, authz.ActionView) {
		return
	}

	reportType := r.URL.Query().Get("type")
	if reportType == "" {
		reportType = "dashboard"
	}

	var (
		payload any
		err     error
	)
	switch reportType {
	case "dashboard":
		payload, err = c.analyticsService.Dashboard(r.Context(), actor)
	case "sales":
		payload, err = c.analyticsService.Sales(r.Context(), actor)
	case "customers":
		payload, err = c.analyticsService.Customers(r.Context(), actor)
	case "products":
		payload, err = c.analyticsService.Products(r.Context(), actor)
	default:
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"unknown analytics type: "+reportType, nil)
		return
	}
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, payload)
}
