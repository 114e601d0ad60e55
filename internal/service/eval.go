package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Rob-Kornblum/legal-ease/internal/logger"
	"github.com/Rob-Kornblum/legal-ease/internal/model"

	"gopkg.in/yaml.v3"
)

// LoadSamples reads a YAML document of the form
//
//	samples:
//	  - input: "..."
//	    expected_category: "Contract"
func LoadSamples(path string) ([]model.EvalSample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read samples: %w", err)
	}
	var doc struct {
		Samples []model.EvalSample `yaml:"samples"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse samples: %w", err)
	}
	if len(doc.Samples) == 0 {
		return nil, fmt.Errorf("no samples in %s", path)
	}
	return doc.Samples, nil
}

type Confusion struct {
	Expected  string
	Predicted string
	Count     int
}

type EvalReport struct {
	Run       model.EvalRun
	Results   []model.SampleResult
	Confusion []Confusion
}

// Evaluator measures category accuracy of the simplification service.
type Evaluator struct {
	api      Simplifier
	now      func() time.Time
	log      *slog.Logger
	progress func(i, total int, r model.SampleResult)
}

func NewEvaluator(api Simplifier) *Evaluator {
	return &Evaluator{api: api, now: time.Now, log: logger.Component("eval")}
}

// OnResult registers a callback invoked after each sample.
func (e *Evaluator) OnResult(fn func(i, total int, r model.SampleResult)) { e.progress = fn }

// Run sends every sample to the service. A failed request counts as a miss.
func (e *Evaluator) Run(ctx context.Context, samples []model.EvalSample) (*EvalReport, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples")
	}

	report := &EvalReport{Results: make([]model.SampleResult, 0, len(samples))}
	var total time.Duration
	for i, s := range samples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r := model.SampleResult{
			Input:            s.Input,
			ExpectedCategory: strings.TrimSpace(s.ExpectedCategory),
		}
		start := time.Now()
		res, err := e.api.Simplify(ctx, s.Input)
		r.Latency = time.Since(start)
		total += r.Latency
		if err != nil {
			e.log.Warn("eval.request_failed", "sample", i+1, "err", err)
			r.Err = err.Error()
			report.Run.FailedRequests++
		} else {
			r.PredictedCategory = strings.TrimSpace(res.Category)
			r.Translation = strings.TrimSpace(res.PlainEnglish)
			r.Correct = r.PredictedCategory == r.ExpectedCategory
		}
		if r.Correct {
			report.Run.CorrectCases++
		}
		report.Results = append(report.Results, r)
		if e.progress != nil {
			e.progress(i+1, len(samples), r)
		}
	}

	report.Run.Timestamp = e.now()
	report.Run.BaseURL = e.api.BaseURL()
	report.Run.TotalCases = len(samples)
	report.Run.CategoryAccuracy = float64(report.Run.CorrectCases) / float64(len(samples))
	report.Run.AvgLatencyMS = (total / time.Duration(len(samples))).Milliseconds()
	report.Confusion = confusions(report.Results)
	return report, nil
}

func confusions(results []model.SampleResult) []Confusion {
	counts := map[[2]string]int{}
	for _, r := range results {
		if r.Correct {
			continue
		}
		counts[[2]string{r.ExpectedCategory, r.PredictedCategory}]++
	}
	out := make([]Confusion, 0, len(counts))
	for k, n := range counts {
		out = append(out, Confusion{Expected: k[0], Predicted: k[1], Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Expected != out[j].Expected {
			return out[i].Expected < out[j].Expected
		}
		return out[i].Predicted < out[j].Predicted
	})
	return out
}

// CheckRegression lists problems with the latest run in history.
func CheckRegression(history []model.EvalRun, minAccuracy float64) []string {
	if len(history) == 0 {
		return nil
	}
	latest := history[len(history)-1]
	var issues []string
	if latest.CategoryAccuracy < minAccuracy {
		issues = append(issues, fmt.Sprintf("Category accuracy %.1f%% below %.1f%%",
			latest.CategoryAccuracy*100, minAccuracy*100))
	}
	if latest.FailedRequests > 0 {
		issues = append(issues, fmt.Sprintf("%d of %d requests failed",
			latest.FailedRequests, latest.TotalCases))
	}
	return issues
}

// Trend is the accuracy change of the latest run against the one before it.
func Trend(history []model.EvalRun) (float64, bool) {
	if len(history) < 2 {
		return 0, false
	}
	return history[len(history)-1].CategoryAccuracy - history[len(history)-2].CategoryAccuracy, true
}
