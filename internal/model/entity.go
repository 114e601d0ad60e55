package model

import "time"

// EvalSample is one labelled input from the category evaluation set.
type EvalSample struct {
	Input            string `yaml:"input" json:"input"`
	ExpectedCategory string `yaml:"expected_category" json:"expected_category"`
}

type SampleResult struct {
	Input             string        `json:"input"`
	ExpectedCategory  string        `json:"expected_category"`
	PredictedCategory string        `json:"predicted_category"`
	Translation       string        `json:"translation"`
	Correct           bool          `json:"category_correct"`
	Err               string        `json:"error,omitempty"`
	Latency           time.Duration `json:"latency"`
}

// EvalRun is one stored evaluation run.
type EvalRun struct {
	ID               int       `gorm:"primaryKey" json:"id,omitempty"`
	Timestamp        time.Time `gorm:"index" json:"timestamp"`
	BaseURL          string    `json:"base_url"`
	TotalCases       int       `json:"total_cases"`
	CorrectCases     int       `json:"correct_cases"`
	FailedRequests   int       `json:"failed_requests"`
	CategoryAccuracy float64   `json:"category_accuracy"`
	AvgLatencyMS     int64     `json:"avg_latency_ms"`
}

func (EvalRun) TableName() string { return "eval_runs" }
