// Package api exposes the engine over HTTP. Every request builds its own
// structure, so concurrent requests never share solver state.
package api

import (
	"bytes"
	"iter"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/alexiusacademia/gomoscap/internal/config"
	"github.com/alexiusacademia/gomoscap/internal/export"
	"github.com/alexiusacademia/gomoscap/internal/stackfile"
	"github.com/alexiusacademia/gomoscap/internal/structure"
	"github.com/alexiusacademia/gomoscap/internal/sweep"
	"github.com/alexiusacademia/gomoscap/internal/units"
)

// MIMEMsgpack is the content type of MessagePack responses
const MIMEMsgpack = "application/msgpack"

// Handler serves the engine endpoints
type Handler struct {
	cfg     config.Config
	version string
	log     *slog.Logger
}

// NewHandler creates a handler using the solver and sweep settings of cfg
func NewHandler(cfg config.Config, version string, log *slog.Logger) *Handler {
	return &Handler{cfg: cfg, version: version, log: log}
}

// HandleHealth returns server health status
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": h.version,
	})
}

// HandleAnalyze returns the aggregate quantities of a stack at zero bias
func (h *Handler) HandleAnalyze(c echo.Context) error {
	var req stackfile.Stack
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	s, err := h.build(&req)
	if err != nil {
		return fromEngine(err)
	}
	sum, err := s.Summary()
	if err != nil {
		return fromEngine(err)
	}
	return respond(c, http.StatusOK, newAnalyzeResponse(req.Name, sum))
}

// HandleBias solves a stack at one gate bias
func (h *Handler) HandleBias(c echo.Context) error {
	var req BiasRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	s, res, err := h.solve(&req.Stack, req.Bias, req.Cold)
	if err != nil {
		return fromEngine(err)
	}
	h.log.Debug("bias solved", "stack", req.Stack.Name, "bias_v", req.Bias, "iterations", res.Iterations, "state", s.State())
	return respond(c, http.StatusOK, newBiasResponse(res))
}

// HandleProfile returns a band diagram or a potential, field or charge profile
func (h *Handler) HandleProfile(c echo.Context) error {
	var req ProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	kind, err := sweep.ParseKind(req.Kind)
	if err != nil {
		return NewBadRequestError("invalid kind", err)
	}
	samples := req.Samples
	if samples == 0 {
		samples = h.cfg.Sweep.ProfileSamples
	}

	s, _, err := h.solve(&req.Stack, req.Bias, false)
	if err != nil {
		return fromEngine(err)
	}

	var seq iter.Seq[sweep.PlotPoint]
	if req.Band != "" {
		band, err := sweep.ParseBand(req.Band)
		if err != nil {
			return NewBadRequestError("invalid band", err)
		}
		seq, err = sweep.BandProfile(s, band, samples)
		if err != nil {
			return fromEngine(err)
		}
	} else {
		seq, err = sweep.Profile(s, kind, samples)
		if err != nil {
			return fromEngine(err)
		}
	}

	resp := ProfileResponse{Kind: kind.String(), Bias: req.Bias, Points: []ProfilePoint{}}
	for p := range seq {
		resp.Points = append(resp.Points, newProfilePoint(p))
	}
	return respond(c, http.StatusOK, resp)
}

// HandleSweep runs a C-V sweep and returns the export document
func (h *Handler) HandleSweep(c echo.Context) error {
	var req SweepRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	r, err := sweep.NewRange(req.Start, req.Stop, req.Step)
	if err != nil {
		return NewBadRequestError("invalid sweep range", err)
	}
	s, err := h.build(&req.Stack)
	if err != nil {
		return fromEngine(err)
	}

	g := &sweep.Generator{Logger: h.log}
	if req.Parallel {
		g.Workers = h.cfg.Sweep.Workers
	}
	res, err := g.Run(c.Request().Context(), s, r)
	if err != nil {
		return fromEngine(err)
	}
	h.log.Info("sweep served", "id", res.ID, "points", len(res.Points), "failed", res.Failed())
	return respond(c, http.StatusOK, export.FromSweep(res))
}

func (h *Handler) build(st *stackfile.Stack) (*structure.Structure, error) {
	s, err := st.Build()
	if err != nil {
		return nil, err
	}
	s.SetSolverOptions(h.cfg.Solver.Options())
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (h *Handler) solve(st *stackfile.Stack, bias float64, cold bool) (*structure.Structure, *structure.BiasResult, error) {
	s, err := h.build(st)
	if err != nil {
		return nil, nil, err
	}
	v, err := units.PotentialFromVolts(bias)
	if err != nil {
		return nil, nil, err
	}
	solve := s.SolveBias
	if cold {
		solve = s.SolveBiasCold
	}
	res, err := solve(v)
	if err != nil {
		return nil, nil, err
	}
	return s, res, nil
}

// respond writes JSON, or MessagePack when the client accepts it
func respond(c echo.Context, status int, v interface{}) error {
	if !strings.Contains(c.Request().Header.Get(echo.HeaderAccept), MIMEMsgpack) {
		return c.JSON(status, v)
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return &APIError{Status: http.StatusInternalServerError, Code: "INTERNAL_ERROR", Message: "failed to encode msgpack", Details: err.Error()}
	}
	return c.Blob(status, MIMEMsgpack, buf.Bytes())
}
