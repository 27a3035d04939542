package provider

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of provider call being performed. Timeouts
// differ widely: classification is interactive, trend analysis walks months
// of activity data.
type TaskType string

const (
	TaskClassify   TaskType = "classify"
	TaskLastRun    TaskType = "last_run"
	TaskRecentRuns TaskType = "recent_runs"
	TaskTrend      TaskType = "fitness_trend"
	TaskWeather    TaskType = "weather"
	TaskCoach      TaskType = "coach"
	TaskPlan       TaskType = "plan"
	TaskSummary    TaskType = "training_summary"
)

// TaskConfig holds per-task call parameters.
type TaskConfig struct {
	TimeoutMs int // overrides global if > 0
}

// Config holds all configuration for the analysis-provider client.
type Config struct {
	Endpoint   string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Endpoint:   "http://localhost:8000",
		TimeoutMs:  20000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskClassify:   {TimeoutMs: 8000},
			TaskLastRun:    {TimeoutMs: 60000},
			TaskRecentRuns: {TimeoutMs: 90000},
			TaskTrend:      {TimeoutMs: 180000},
			TaskWeather:    {TimeoutMs: 10000},
			TaskCoach:      {TimeoutMs: 20000},
			TaskPlan:       {TimeoutMs: 120000},
			TaskSummary:    {TimeoutMs: 30000},
		},
	}
}

// LoadConfig reads provider configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("STRIDE_PROVIDER_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("STRIDE_PROVIDER_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("STRIDE_PROVIDER_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskClassify, "STRIDE_PROVIDER_CLASSIFY_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskLastRun, "STRIDE_PROVIDER_LAST_RUN_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskRecentRuns, "STRIDE_PROVIDER_RECENT_RUNS_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskTrend, "STRIDE_PROVIDER_TREND_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskWeather, "STRIDE_PROVIDER_WEATHER_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskCoach, "STRIDE_PROVIDER_COACH_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskPlan, "STRIDE_PROVIDER_PLAN_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskSummary, "STRIDE_PROVIDER_SUMMARY_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c Config) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *Config, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
