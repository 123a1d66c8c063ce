package server

import (
	"errors"
	"net/http"
	"slices"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cognicore/ingredo/pkg/ingredo/classify"
	"github.com/cognicore/ingredo/pkg/ingredo/diet"
	"github.com/cognicore/ingredo/pkg/ingredo/internalerr"
	"github.com/cognicore/ingredo/pkg/ingredo/store"
)

// AnalyzeRequest is the body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	Transcript string `json:"transcript"`
	Preference string `json:"preference,omitempty"`
	HTML       bool   `json:"html,omitempty"`   // transcript is page markup
	Record     bool   `json:"record,omitempty"` // save to scan history
}

// AnalyzeResponse is the classification plus the history ID when recorded.
type AnalyzeResponse struct {
	classify.Result
	ScanID string `json:"scan_id,omitempty"`
}

// PreferenceInfo describes one preference for clients building a picker.
type PreferenceInfo struct {
	Name             diet.Preference `json:"name"`
	Title            string          `json:"title"`
	DisallowedTags   []diet.Tag      `json:"disallowed_tags"`
	DisallowedGroups []string        `json:"disallowed_groups"`
	AmbiguousUnsafe  bool            `json:"ambiguous_unsafe"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) analyze(c echo.Context) error {
	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return s.fail(c, err, "invalid request body", http.StatusBadRequest)
	}
	pref, err := s.parsePreference(req.Preference)
	if err != nil {
		return s.fail(c, err, "unknown preference", http.StatusBadRequest)
	}

	var result classify.Result
	if req.HTML {
		result = s.analyzer.AnalyzeHTML(req.Transcript, pref)
	} else {
		result = s.analyzer.Analyze(req.Transcript, pref)
	}

	resp := AnalyzeResponse{Result: result}
	if req.Record {
		scan, err := s.analyzer.Record(c.Request().Context(), req.Transcript, result)
		if err != nil {
			return s.fail(c, err, "failed to record scan", statusFor(err))
		}
		resp.ScanID = scan.ID
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) preferences(c echo.Context) error {
	prefs := diet.AllPreferences()
	out := make([]PreferenceInfo, 0, len(prefs))
	for _, p := range prefs {
		pol := diet.PolicyFor(p)
		out = append(out, PreferenceInfo{
			Name:             p,
			Title:            p.Title(),
			DisallowedTags:   pol.DisallowedTags,
			DisallowedGroups: pol.DisallowedGroups,
			AmbiguousUnsafe:  pol.AmbiguousUnsafe,
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) listScans(c echo.Context) error {
	var opts store.ListOptions
	if v := c.QueryParam("preference"); v != "" {
		pref, err := diet.ParsePreference(v)
		if err != nil {
			return s.fail(c, err, "unknown preference", http.StatusBadRequest)
		}
		opts.Preference = pref
	}
	if v := c.QueryParam("verdict"); v != "" {
		verdict := classify.Verdict(v)
		if !slices.Contains(classify.Verdicts(), verdict) {
			return s.fail(c, internalerr.ErrInvalidInput, "unknown verdict", http.StatusBadRequest)
		}
		opts.Verdict = verdict
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return s.fail(c, internalerr.ErrInvalidInput, "limit must be a non-negative integer", http.StatusBadRequest)
		}
		opts.Limit = n
	}

	scans, err := s.analyzer.History(c.Request().Context(), opts)
	if err != nil {
		return s.fail(c, err, "failed to list scans", statusFor(err))
	}
	return c.JSON(http.StatusOK, scans)
}

func (s *Server) getScan(c echo.Context) error {
	id := c.Param("id")
	if !store.ValidID(id) {
		return s.fail(c, internalerr.ErrInvalidInput, "malformed scan id", http.StatusBadRequest)
	}
	scan, err := s.analyzer.Scan(c.Request().Context(), id)
	if err != nil {
		return s.fail(c, err, "failed to load scan", statusFor(err))
	}
	return c.JSON(http.StatusOK, scan)
}

func (s *Server) parsePreference(v string) (diet.Preference, error) {
	if v == "" {
		return s.preference, nil
	}
	return diet.ParsePreference(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, internalerr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, internalerr.ErrInvalidInput), errors.Is(err, internalerr.ErrUnknownPreference):
		return http.StatusBadRequest
	case errors.Is(err, internalerr.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, internalerr.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c echo.Context, err error, message string, code int) error {
	if code >= http.StatusInternalServerError {
		s.log.Error("api error",
			"message", message,
			"error", err,
			"code", code,
			"path", c.Request().URL.Path)
	}
	return c.JSON(code, ErrorResponse{Error: err.Error(), Message: message, Code: code})
}

// handleHTTPError renders errors raised by echo itself (unknown route, body
// limit, recovered panic) in the same shape as handler errors.
func (s *Server) handleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}
	if werr := c.JSON(code, ErrorResponse{Error: err.Error(), Message: message, Code: code}); werr != nil {
		s.log.Error("failed to write error response", "error", werr)
	}
}
