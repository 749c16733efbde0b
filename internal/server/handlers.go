package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/KaramelBytes/sheetlens/internal/analysis"
	"github.com/KaramelBytes/sheetlens/internal/parser"
)

type (
	SessionQuery struct {
		SessionID string `query:"sessionId" validate:"required"`
	}

	AnalysisQuery struct {
		SessionID string `query:"sessionId" validate:"required"`
		XKey      string `query:"xKey"`
		YKey      string `query:"yKey"`
		ValueKey  string `query:"valueKey"`
	}

	AnalysisForm struct {
		XKey     string `form:"xKey"`
		YKey     string `form:"yKey"`
		ValueKey string `form:"valueKey"`
	}

	AnalyzeReqBody struct {
		SessionID    string            `json:"sessionId" validate:"required"`
		AnalysisType string            `json:"analysisType" validate:"required"`
		Params       map[string]string `json:"params"`
	}

	PreviewResponse struct {
		SessionID string  `json:"sessionId"`
		Filename  string  `json:"filename"`
		Preview   [][]any `json:"preview"`
	}

	FullDataResponse struct {
		SessionID string  `json:"sessionId"`
		Filename  string  `json:"filename"`
		Data      [][]any `json:"data"`
	}

	AnalyzeResponse struct {
		Type string `json:"type"`
		Data any    `json:"data"`
	}
)

var analysisRoutes = []struct {
	path     string
	analysis analysis.Analysis
}{
	{"statistical-summary", analysis.AnalysisSummary},
	{"missing-data-overview", analysis.AnalysisMissing},
	{"outlier-detection", analysis.AnalysisOutliers},
	{"correlation-matrix", analysis.AnalysisCorrelation},
	{"bar-chart", analysis.AnalysisBar},
	{"line-graph", analysis.AnalysisLine},
	{"scatter-plot", analysis.AnalysisScatter},
	{"heatmap", analysis.AnalysisHeatmap},
}

func (s *HTTPServer) registerRoutes() {
	// technical - no auth
	s.Echo.GET("/hc", s.HealthCheck)

	s.Echo.POST("/upload", ccHandler(s.Upload))
	s.Echo.GET("/trial", ccHandler(s.Trial))
	s.Echo.GET("/full-data", ccHandler(s.FullData))

	api := s.Echo.Group("/api")
	for _, r := range analysisRoutes {
		api.GET("/"+r.path, ccHandler(s.SessionAnalysis(r.analysis)))
		api.POST("/"+r.path, ccHandler(s.FileAnalysis(r.analysis)))
	}
	api.POST("/analyze", ccHandler(s.Analyze))
}

// readUpload decodes the multipart "file" field into a table.
func readUpload(c *CustomContext) (*analysis.Table, string, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "missing multipart file field \"file\"")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	t, err := parser.Decode(fh.Filename, content)
	if err != nil {
		// malformed content is the client's problem whatever the cause
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return t, fh.Filename, nil
}

func (s *HTTPServer) Upload(c *CustomContext) error {
	t, filename, err := readUpload(c)
	if err != nil {
		return c.Fail(err, "error reading upload")
	}
	id, err := s.store.Create(c.Request().Context(), t, filename)
	if err != nil {
		return c.InternalError(err, "error creating session")
	}
	return c.JSON(http.StatusOK, PreviewResponse{
		SessionID: id,
		Filename:  filename,
		Preview:   t.Preview().Matrix(),
	})
}

func (s *HTTPServer) Trial(c *CustomContext) error {
	var q SessionQuery
	if err := ValidateRequest(c, &q); err != nil {
		return err
	}
	rec, err := s.store.Get(c.Request().Context(), q.SessionID)
	if err != nil {
		return c.Fail(err, "error loading session")
	}
	return c.JSON(http.StatusOK, PreviewResponse{
		SessionID: rec.SessionID,
		Filename:  rec.Filename,
		Preview:   rec.Preview.Matrix(),
	})
}

func (s *HTTPServer) FullData(c *CustomContext) error {
	var q SessionQuery
	if err := ValidateRequest(c, &q); err != nil {
		return err
	}
	rec, err := s.store.Get(c.Request().Context(), q.SessionID)
	if err != nil {
		return c.Fail(err, "error loading session")
	}
	return c.JSON(http.StatusOK, FullDataResponse{
		SessionID: rec.SessionID,
		Filename:  rec.Filename,
		Data:      rec.Full.Matrix(),
	})
}

// SessionAnalysis runs a over the stored preview of a session.
func (s *HTTPServer) SessionAnalysis(a analysis.Analysis) func(*CustomContext) error {
	return func(c *CustomContext) error {
		var q AnalysisQuery
		if err := ValidateRequest(c, &q); err != nil {
			return err
		}
		rec, err := s.store.Get(c.Request().Context(), q.SessionID)
		if err != nil {
			return c.Fail(err, "error loading session")
		}
		out, err := analysis.Run(rec.Preview, analysis.Request{Analysis: a, XKey: q.XKey, YKey: q.YKey, ValueKey: q.ValueKey})
		if err != nil {
			return c.Fail(err, "error running analysis")
		}
		return respondAnalysis(c, a, out)
	}
}

// FileAnalysis runs a over the full table of an uploaded file without storing it.
func (s *HTTPServer) FileAnalysis(a analysis.Analysis) func(*CustomContext) error {
	return func(c *CustomContext) error {
		var form AnalysisForm
		if err := ValidateRequest(c, &form); err != nil {
			return err
		}
		t, _, err := readUpload(c)
		if err != nil {
			return c.Fail(err, "error reading upload")
		}
		out, err := analysis.Run(t, analysis.Request{Analysis: a, XKey: form.XKey, YKey: form.YKey, ValueKey: form.ValueKey})
		if err != nil {
			return c.Fail(err, "error running analysis")
		}
		return respondAnalysis(c, a, out)
	}
}

// respondAnalysis wraps table results in their named field; chart series are sent as is.
func respondAnalysis(c *CustomContext, a analysis.Analysis, out any) error {
	if field := a.ResultField(); field != "" {
		return c.JSON(http.StatusOK, map[string]any{field: out})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *HTTPServer) Analyze(c *CustomContext) error {
	var reqBody AnalyzeReqBody
	if err := ValidateRequest(c, &reqBody); err != nil {
		return err
	}
	a, err := analysis.ParseAnalysis(reqBody.AnalysisType)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid analysis type %q", reqBody.AnalysisType))
	}
	rec, err := s.store.Get(c.Request().Context(), reqBody.SessionID)
	if err != nil {
		return c.Fail(err, "error loading session")
	}
	out, err := analysis.Run(rec.Preview, analysis.Request{
		Analysis: a,
		XKey:     reqBody.Params["xKey"],
		YKey:     reqBody.Params["yKey"],
		ValueKey: reqBody.Params["valueKey"],
	})
	if err != nil {
		return c.Fail(err, "error running analysis")
	}
	return c.JSON(http.StatusOK, AnalyzeResponse{Type: a.DisplayType(), Data: out})
}
