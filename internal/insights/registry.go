// Package insights evaluates the static decision table behind the
// /api/ai/insights endpoint. The rules are data, not code: an embedded YAML
// file mapping metric threshold breaches to canned recommendations. No model
// inference happens here.
package insights

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"sitework/internal/scoring"
)

//go:embed rules/*.yaml
var ruleFiles embed.FS

// Rule is one row of the decision table.
type Rule struct {
	ID             string  `yaml:"id"`
	Metric         string  `yaml:"metric"`
	Operator       string  `yaml:"operator"` // gt | lt
	Threshold      float64 `yaml:"threshold"`
	Severity       string  `yaml:"severity"`
	Category       string  `yaml:"category"`
	Title          string  `yaml:"title"`
	Recommendation string  `yaml:"recommendation"`
}

// Insight is an emitted recommendation, returned to the client when its
// rule's threshold is breached.
type Insight struct {
	ID             string  `json:"id"`
	Severity       string  `json:"severity"`
	Category       string  `json:"category"`
	Title          string  `json:"title"`
	Recommendation string  `json:"recommendation"`
	Metric         string  `json:"metric"`
	Value          float64 `json:"value"`
	Threshold      float64 `json:"threshold"`
}

type ruleFile struct {
	Rules          []Rule                 `yaml:"rules"`
	SuccessWeights scoring.SuccessWeights `yaml:"success_weights"`
}

// Registry holds the loaded decision table.
type Registry struct {
	mu      sync.RWMutex
	rules   []Rule
	weights scoring.SuccessWeights
}

// NewRegistry loads the embedded rule file.
func NewRegistry() (*Registry, error) {
	data, err := ruleFiles.ReadFile("rules/insights.yaml")
	if err != nil {
		return nil, fmt.Errorf("read insight rules: %w", err)
	}

	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("unmarshal insight rules: %w", err)
	}
	if len(rf.Rules) == 0 {
		return nil, fmt.Errorf("insight rule file contains no rules")
	}
	if rf.SuccessWeights == (scoring.SuccessWeights{}) {
		rf.SuccessWeights = scoring.DefaultSuccessWeights()
	}

	return &Registry{rules: rf.Rules, weights: rf.SuccessWeights}, nil
}

// Evaluate runs every rule against the metric map and returns the insights
// whose thresholds are breached. Metrics absent from the map never trigger.
func (r *Registry) Evaluate(metrics map[string]float64) []Insight {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Insight
	for _, rule := range r.rules {
		value, ok := metrics[rule.Metric]
		if !ok {
			continue
		}
		breached := false
		switch rule.Operator {
		case "gt":
			breached = value > rule.Threshold
		case "lt":
			breached = value < rule.Threshold
		}
		if breached {
			out = append(out, Insight{
				ID:             rule.ID,
				Severity:       rule.Severity,
				Category:       rule.Category,
				Title:          rule.Title,
				Recommendation: rule.Recommendation,
				Metric:         rule.Metric,
				Value:          value,
				Threshold:      rule.Threshold,
			})
		}
	}
	return out
}

// SuccessWeights returns the configured sub-score weighting.
func (r *Registry) SuccessWeights() scoring.SuccessWeights {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.weights
}
