// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package dashboard

// insights.go evaluates rule expressions against the statistics rows to flag labels worth a closer look.

import (
	"fmt"
	"log/slog"

	"github.com/casbin/govaluate"

	"jmdash/internal/table"
)

// InsightRule flags a row when Expression evaluates to true
type InsightRule struct {
	Name           string `yaml:"name" toml:"name"`
	Expression     string `yaml:"expression" toml:"expression"`
	Recommendation string `yaml:"recommendation" toml:"recommendation"`
}

// DefaultInsightRules are used when no rules are configured
var DefaultInsightRules = []InsightRule{
	{
		Name:           "High error rate",
		Expression:     "errorPct > 1",
		Recommendation: "More than 1% of the samples failed. Review the Errors table for the failure types.",
	},
	{
		Name:           "Low APDEX",
		Expression:     "apdex < 0.85",
		Recommendation: "Fewer than 85% of the samples were satisfying. Compare response times with the toleration threshold.",
	},
	{
		Name:           "Long tail latency",
		Expression:     "pct3 > 3 * median",
		Recommendation: "The 99th percentile is more than three times the median. Look for outliers such as timeouts or retries.",
	},
}

// variable names for the statistics columns, by column index
var statisticsVariables = map[int]string{
	1:  "samples",
	2:  "fail",
	3:  "errorPct",
	4:  "average",
	5:  "min",
	6:  "max",
	7:  "median",
	8:  "pct1",
	9:  "pct2",
	10: "pct3",
	11: "throughput",
	12: "received",
	13: "sent",
}

// the label column of the APDEX table
const apdexLabelColumn = 3

var insightsTitles = []string{"Label", "Insight", "Recommendation"}

type compiledRule struct {
	InsightRule
	expression *govaluate.EvaluableExpression
}

func compileInsightRules(rules []InsightRule) ([]compiledRule, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		expression, err := govaluate.NewEvaluableExpression(rule.Expression)
		if err != nil {
			return nil, fmt.Errorf("failed to parse insight rule %q expression %q: %w", rule.Name, rule.Expression, err)
		}
		compiled = append(compiled, compiledRule{InsightRule: rule, expression: expression})
	}
	return compiled, nil
}

// evaluateInsights returns a descriptor with one row per (statistics row, matching rule), overall row first
func evaluateInsights(s Snapshot, rules []compiledRule) table.Descriptor {
	descriptor := table.Descriptor{Titles: insightsTitles}
	if s.Statistics == nil {
		return descriptor
	}
	apdexByLabel := apdexScores(s)
	rows := []table.Row{}
	if s.Statistics.Overall != nil {
		rows = append(rows, *s.Statistics.Overall)
	}
	rows = append(rows, s.Statistics.Items...)
	for _, row := range rows {
		if len(row.Data) == 0 {
			continue
		}
		label := table.FormatValue(row.Data[0])
		parameters := rowParameters(row)
		if apdex, ok := apdexByLabel[label]; ok {
			parameters["apdex"] = apdex
		}
		for _, rule := range rules {
			if !rule.matches(parameters, label) {
				continue
			}
			descriptor.Items = append(descriptor.Items, table.Row{
				Data: []any{label, rule.Name, rule.Recommendation},
			})
		}
	}
	return descriptor
}

func (r compiledRule) matches(parameters map[string]any, label string) bool {
	result, err := r.expression.Evaluate(parameters)
	if err != nil {
		// rules that refer to a value the row does not have are skipped
		slog.Debug("insight rule not evaluated", slog.String("rule", r.Name), slog.String("label", label), slog.String("error", err.Error()))
		return false
	}
	matched, ok := result.(bool)
	if !ok {
		slog.Warn("insight rule did not evaluate to a boolean", slog.String("rule", r.Name), slog.Any("result", result))
		return false
	}
	return matched
}

func rowParameters(row table.Row) map[string]any {
	parameters := make(map[string]any)
	for column, name := range statisticsVariables {
		if column < len(row.Data) {
			if n, ok := row.Data[column].(float64); ok {
				parameters[name] = n
			}
		}
	}
	return parameters
}

func apdexScores(s Snapshot) map[string]float64 {
	scores := make(map[string]float64)
	if s.Apdex == nil {
		return scores
	}
	rows := s.Apdex.Items
	if s.Apdex.Overall != nil {
		rows = append([]table.Row{*s.Apdex.Overall}, rows...)
	}
	for _, row := range rows {
		if len(row.Data) <= apdexLabelColumn {
			continue
		}
		if score, ok := row.Data[0].(float64); ok {
			scores[table.FormatValue(row.Data[apdexLabelColumn])] = score
		}
	}
	return scores
}
