package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lgdx/analytics-backend/internal/logger"
	"github.com/lgdx/analytics-backend/internal/services"
	"github.com/lgdx/analytics-backend/internal/types"
)

// AnalyticsHandler exposes the read-only analytics API. Every route takes the
// user id as a path param; window and horizon sizes come from query params
// with the service defaults as fallback.
type AnalyticsHandler struct {
	log          *logger.Logger
	analyticsSvc services.AnalyticsService
	metricsSvc   services.MetricsService
	timeSlotSvc  services.TimeSlotService
	patternSvc   services.PatternService
	predictSvc   services.PredictionService
	recSvc       services.RecommendationService
	insightSvc   services.InsightService
	dataSvc      services.DataFetchService
}

func NewAnalyticsHandler(
	log *logger.Logger,
	analyticsSvc services.AnalyticsService,
	metricsSvc services.MetricsService,
	timeSlotSvc services.TimeSlotService,
	patternSvc services.PatternService,
	predictSvc services.PredictionService,
	recSvc services.RecommendationService,
	insightSvc services.InsightService,
	dataSvc services.DataFetchService,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		log:          log.With("handler", "AnalyticsHandler"),
		analyticsSvc: analyticsSvc,
		metricsSvc:   metricsSvc,
		timeSlotSvc:  timeSlotSvc,
		patternSvc:   patternSvc,
		predictSvc:   predictSvc,
		recSvc:       recSvc,
		insightSvc:   insightSvc,
		dataSvc:      dataSvc,
	}
}

var errInvalidUserID = errors.New("invalid user id")

func userIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("user_id"))
	if err != nil || id == uuid.Nil {
		RespondError(c, http.StatusBadRequest, "invalid_user_id", errInvalidUserID)
		return uuid.Nil, false
	}
	return id, true
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// GET /api/analytics/:user_id/comprehensive
func (h *AnalyticsHandler) GetComprehensiveAnalysis(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	analysis, err := h.analyticsSvc.GetComprehensiveAnalysis(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("comprehensive analysis failed", "user_id", userID.String(), "error", err)
		RespondError(c, http.StatusInternalServerError, "analysis_failed", err)
		return
	}
	RespondOK(c, analysis)
}

// GET /api/analytics/:user_id/quick-wins
func (h *AnalyticsHandler) GetQuickWins(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	wins, err := h.analyticsSvc.GetQuickWins(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("quick wins failed", "user_id", userID.String(), "error", err)
		RespondError(c, http.StatusInternalServerError, "analysis_failed", err)
		return
	}
	RespondOK(c, gin.H{"quick_wins": wins})
}

// GET /api/analytics/:user_id/risk
func (h *AnalyticsHandler) GetRiskAssessment(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	assessment, err := h.analyticsSvc.GetRiskAssessment(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("risk assessment failed", "user_id", userID.String(), "error", err)
		RespondError(c, http.StatusInternalServerError, "analysis_failed", err)
		return
	}
	RespondOK(c, assessment)
}

// GET /api/analytics/:user_id/growth-path?horizon=30
func (h *AnalyticsHandler) GetGrowthPath(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	horizon := intQuery(c, "horizon", 0)
	path, err := h.analyticsSvc.GetGrowthPath(c.Request.Context(), userID, horizon)
	if err != nil {
		h.log.Error("growth path failed", "user_id", userID.String(), "error", err)
		RespondError(c, http.StatusInternalServerError, "analysis_failed", err)
		return
	}
	RespondOK(c, path)
}

// GET /api/analytics/:user_id/metrics?days=30
func (h *AnalyticsHandler) GetLearningMetrics(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	metrics, err := h.metricsSvc.GetLearningMetrics(c.Request.Context(), userID, intQuery(c, "days", 0))
	if err != nil {
		h.log.Error("metrics failed", "user_id", userID.String(), "error", err)
		RespondError(c, http.StatusInternalServerError, "analysis_failed", err)
		return
	}
	RespondOK(c, metrics)
}

// GET /api/analytics/:user_id/timeslots?days=30
func (h *AnalyticsHandler) GetTimeSlots(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	slots, err := h.timeSlotSvc.AnalyzeTimeSlots(c.Request.Context(), userID, intQuery(c, "days", 0))
	if err != nil {
		h.log.Error("time slot analysis failed", "user_id", userID.String(), "error", err)
		RespondError(c, http.StatusInternalServerError, "analysis_failed", err)
		return
	}
	RespondOK(c, gin.H{"time_slots": slots})
}

// GET /api/analytics/:user_id/weekdays?days=30
func (h *AnalyticsHandler) GetWeekdayPerformance(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	weekdays, err := h.timeSlotSvc.AnalyzeWeekdays(c.Request.Context(), userID, intQuery(c, "days", 0))
	if err != nil {
		h.log.Error("weekday analysis failed", "user_id", userID.String(), "error", err)
		RespondError(c, http.StatusInternalServerError, "analysis_failed", err)
		return
	}
	RespondOK(c, gin.H{"weekdays": weekdays})
}

// GET /api/analytics/:user_id/patterns?days=30&category=habit&limit=5
func (h *AnalyticsHandler) GetPatterns(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	days := intQuery(c, "days", 0)

	var (
		patterns []types.Pattern
		err      error
	)
	if category := c.Query("category"); category != "" {
		patterns, err = h.patternSvc.GetPatternsByCategory(ctx, userID, days, types.PatternCategory(category))
	} else {
		patterns, err = h.patternSvc.GetStrongestPatterns(ctx, userID, days, intQuery(c, "limit", 0))
	}
	if err != nil {
		h.log.Error("pattern analysis failed", "user_id", userID.String(), "error", err)
		RespondError(c, http.StatusInternalServerError, "analysis_failed", err)
		return
	}
	RespondOK(c, gin.H{"patterns": patterns})
}

// GET /api/analytics/:user_id/schedule?days=30
func (h *AnalyticsHandler) GetOptimalSchedule(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	schedule, err := h.patternSvc.PredictOptimalSchedule(c.Request.Context(), userID, intQuery(c, "days", 0))
	if err != nil {
		h.log.Error("schedule prediction failed", "user_id", userID.String(), "error", err)
		RespondError(c, http.StatusInternalServerError, "analysis_failed", err)
		return
	}
	RespondOK(c, gin.H{"schedule": schedule})
}

// GET /api/analytics/:user_id/tips?days=30
func (h *AnalyticsHandler) GetPersonalizedTips(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	tips, err := h.patternSvc.GetPersonalizedTips(c.Request.Context(), userID, intQuery(c, "days", 0))
	if err != nil {
		h.log.Error("tips generation failed", "user_id", userID.String(), "error", err)
		RespondError(c, http.StatusInternalServerError, "analysis_failed", err)
		return
	}
	RespondOK(c, gin.H{"tips": tips})
}

// GET /api/analytics/:user_id/predictions?horizon=7
func (h *AnalyticsHandler) GetPredictions(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	predictions, err := h.predictSvc.GeneratePredictions(c.Request.Context(), userID, intQuery(c, "horizon", 0))
	if err != nil {
		h.log.Error("prediction failed", "user_id", userID.String(), "error", err)
		RespondError(c, http.StatusInternalServerError, "analysis_failed", err)
		return
	}
	RespondOK(c, gin.H{"predictions": predictions})
}

// GET /api/analytics/:user_id/recommendations?type=schedule
func (h *AnalyticsHandler) GetRecommendations(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var (
		recommendations []types.Recommendation
		err             error
	)
	if recType := c.Query("type"); recType != "" {
		recommendations, err = h.recSvc.GetRecommendationsByType(ctx, userID, types.RecommendationType(recType))
	} else {
		recommendations, err = h.recSvc.GenerateRecommendations(ctx, userID)
	}
	if err != nil {
		h.log.Error("recommendation failed", "user_id", userID.String(), "error", err)
		RespondError(c, http.StatusInternalServerError, "analysis_failed", err)
		return
	}
	RespondOK(c, gin.H{"recommendations": recommendations})
}

// GET /api/analytics/:user_id/insights?days=30&type=warning
func (h *AnalyticsHandler) GetInsights(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	days := intQuery(c, "days", 0)

	var (
		insights []types.Insight
		err      error
	)
	if insightType := c.Query("type"); insightType != "" {
		insights, err = h.insightSvc.GetInsightsByType(ctx, userID, days, types.InsightType(insightType))
	} else {
		insights, err = h.insightSvc.GenerateInsights(ctx, userID, days)
	}
	if err != nil {
		h.log.Error("insight generation failed", "user_id", userID.String(), "error", err)
		RespondError(c, http.StatusInternalServerError, "analysis_failed", err)
		return
	}
	RespondOK(c, gin.H{"insights": insights})
}

// GET /api/analytics/:user_id/data?days=30
func (h *AnalyticsHandler) GetAnalyticsData(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	data, err := h.dataSvc.GetAnalyticsData(c.Request.Context(), userID, intQuery(c, "days", 0))
	if err != nil {
		h.log.Error("data fetch failed", "user_id", userID.String(), "error", err)
		RespondError(c, http.StatusInternalServerError, "analysis_failed", err)
		return
	}
	RespondOK(c, data)
}
