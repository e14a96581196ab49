package app

import (
	"strings"
	"time"

	"github.com/lgdx/analytics-backend/internal/logger"
	"github.com/lgdx/analytics-backend/internal/services"
	"github.com/lgdx/analytics-backend/internal/utils"
)

type Config struct {
	Port         string
	Environment  string
	Version      string
	AllowOrigins []string
	Tuning       services.Tuning
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	environment := utils.GetEnv("APP_ENV", "development", log)
	version := utils.GetEnv("APP_VERSION", "dev", log)

	origins := strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return Config{
		Port:         port,
		Environment:  environment,
		Version:      version,
		AllowOrigins: origins,
		Tuning:       loadTuning(log),
	}
}

// loadTuning starts from the shipped defaults and lets deployments override
// the operationally interesting knobs. The composite weights inside the
// analyzers stay code-level defaults.
func loadTuning(log *logger.Logger) services.Tuning {
	tuning := services.DefaultTuning()

	tuning.DefaultWindowDays = utils.GetEnvAsInt("ANALYSIS_WINDOW_DAYS", tuning.DefaultWindowDays, log)
	tuning.PredictionHorizonDays = utils.GetEnvAsInt("PREDICTION_HORIZON_DAYS", tuning.PredictionHorizonDays, log)
	tuning.TrajectoryHorizonDays = utils.GetEnvAsInt("TRAJECTORY_HORIZON_DAYS", tuning.TrajectoryHorizonDays, log)
	tuning.RegressionLookbackDays = utils.GetEnvAsInt("REGRESSION_LOOKBACK_DAYS", tuning.RegressionLookbackDays, log)
	tuning.RiskLookbackDays = utils.GetEnvAsInt("RISK_LOOKBACK_DAYS", tuning.RiskLookbackDays, log)

	tuning.ConsistencyStdevPenalty = utils.GetEnvAsFloat("CONSISTENCY_STDEV_PENALTY", tuning.ConsistencyStdevPenalty, log)
	tuning.RiskLowScoreCutoff = utils.GetEnvAsFloat("RISK_LOW_SCORE_CUTOFF", tuning.RiskLowScoreCutoff, log)
	tuning.RiskMinRecentReflections = utils.GetEnvAsInt("RISK_MIN_RECENT_REFLECTIONS", tuning.RiskMinRecentReflections, log)

	timeoutSeconds := utils.GetEnvAsInt("ANALYSIS_BRANCH_TIMEOUT", int(tuning.BranchTimeout/time.Second), log)
	if timeoutSeconds > 0 {
		tuning.BranchTimeout = time.Duration(timeoutSeconds) * time.Second
	}

	return tuning
}
