package analysis

import (
	"fmt"
	"strings"
)

// Analysis names one engine transform.
type Analysis string

const (
	AnalysisSummary     Analysis = "statistical_summary"
	AnalysisMissing     Analysis = "missing_data"
	AnalysisOutliers    Analysis = "outlier_detection"
	AnalysisCorrelation Analysis = "correlation_matrix"
	AnalysisBar         Analysis = "bar_chart"
	AnalysisLine        Analysis = "line_graph"
	AnalysisScatter     Analysis = "scatter_plot"
	AnalysisHeatmap     Analysis = "heatmap"
)

// Analyses lists every supported transform.
var Analyses = []Analysis{
	AnalysisSummary, AnalysisMissing, AnalysisOutliers, AnalysisCorrelation,
	AnalysisBar, AnalysisLine, AnalysisScatter, AnalysisHeatmap,
}

var analysisAliases = map[string]Analysis{
	"summary":               AnalysisSummary,
	"describe":              AnalysisSummary,
	"missing":               AnalysisMissing,
	"missing_data_overview": AnalysisMissing,
	"outliers":              AnalysisOutliers,
	"correlation":           AnalysisCorrelation,
	"corr":                  AnalysisCorrelation,
	"bar":                   AnalysisBar,
	"line":                  AnalysisLine,
	"scatter":               AnalysisScatter,
	"raw_pair":              AnalysisScatter,
}

// ParseAnalysis resolves a canonical name or alias; '-' and '_' are interchangeable.
func ParseAnalysis(s string) (Analysis, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for _, a := range Analyses {
		if string(a) == norm {
			return a, nil
		}
	}
	if a, ok := analysisAliases[norm]; ok {
		return a, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownAnalysis)
}

// Chart reports the series kind of a chart analysis.
func (a Analysis) Chart() (ChartKind, bool) {
	switch a {
	case AnalysisBar:
		return ChartBar, true
	case AnalysisLine:
		return ChartLine, true
	case AnalysisScatter:
		return ChartScatter, true
	case AnalysisHeatmap:
		return ChartHeatmap, true
	}
	return "", false
}

// DisplayType is the renderer a client should use for the result.
func (a Analysis) DisplayType() string {
	switch a {
	case AnalysisSummary:
		return "table"
	case AnalysisMissing:
		return "missing_data"
	case AnalysisOutliers:
		return "outlier_table"
	case AnalysisCorrelation:
		return "heatmap"
	default:
		return string(a)
	}
}

// ResultField is the response field that carries a table-shaped result.
// Chart results are returned as a whole Series and have no field.
func (a Analysis) ResultField() string {
	switch a {
	case AnalysisSummary:
		return "summary"
	case AnalysisMissing:
		return "overview"
	case AnalysisOutliers:
		return "outliers"
	case AnalysisCorrelation:
		return "matrix"
	}
	return ""
}

// Request is an analysis kind plus its chart parameters.
type Request struct {
	Analysis Analysis
	XKey     string
	YKey     string
	ValueKey string
}

// Run executes one transform over t. It never modifies t.
func Run(t *Table, req Request) (any, error) {
	switch req.Analysis {
	case AnalysisSummary:
		return Summarize(t), nil
	case AnalysisMissing:
		return MissingOverview(t), nil
	case AnalysisOutliers:
		return DetectOutliers(t), nil
	case AnalysisCorrelation:
		return CorrelationMatrix(t), nil
	}
	if kind, ok := req.Analysis.Chart(); ok {
		return BuildSeries(t, kind, req.XKey, req.YKey, req.ValueKey)
	}
	return nil, fmt.Errorf("%q: %w", req.Analysis, ErrUnknownAnalysis)
}
