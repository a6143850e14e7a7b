package encounter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/msdrg/batchgroup/internal/codec"
	"github.com/msdrg/batchgroup/internal/config"
	"github.com/msdrg/batchgroup/internal/platform/grouper"
)

// Grouper runs one batch through the grouper software. Satisfied by
// *grouper.Runner.
type Grouper interface {
	Group(ctx context.Context, p grouper.Params) ([]*codec.OutputRecord, error)
}

type Handler struct {
	cfg     *config.Config
	grouper Grouper
}

func NewHandler(cfg *config.Config, g Grouper) *Handler {
	return &Handler{cfg: cfg, grouper: g}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/encode", h.Encode)
	api.POST("/decode", h.Decode)
	api.POST("/group", h.Group)
}

// EncodeRequest is a set of encounters to render as a claim batch.
type EncodeRequest struct {
	Encounters []Encounter `json:"encounters"`
	Separator  string      `json:"separator,omitempty"`
}

type EncodeResponse struct {
	Records int    `json:"records"`
	Batch   string `json:"batch"`
}

// Encode renders the submitted encounters as fixed-width claim text.
func (h *Handler) Encode(c echo.Context) error {
	var req EncodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Encounters) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "encounters is empty")
	}

	batch, err := h.buildBatch(req.Encounters, req.Separator)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	text, err := batch.Encode()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, EncodeResponse{Records: batch.Len(), Batch: text})
}

// DecodeRequest is raw grouper output to decode, one record per line.
type DecodeRequest struct {
	Output string `json:"output"`
}

type DecodeResponse struct {
	Results []GroupResult `json:"results"`
	// Errors lists per-field decode failures; results are still returned
	// with the affected fields zeroed.
	Errors []string `json:"errors,omitempty"`
}

// Decode parses grouper output text into results.
func (h *Handler) Decode(c echo.Context) error {
	var req DecodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Output) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "output is empty")
	}

	records, err := grouper.ReadOutput(strings.NewReader(req.Output))
	resp := DecodeResponse{Results: make([]GroupResult, 0, len(records))}
	for _, rec := range records {
		resp.Results = append(resp.Results, NewGroupResult(rec))
	}
	if err != nil {
		resp.Errors = append(resp.Errors, err.Error())
	}
	if len(resp.Results) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no decodable records in output")
	}
	return c.JSON(http.StatusOK, resp)
}

// GroupRequest is a set of encounters to run through the grouper.
type GroupRequest struct {
	Encounters []Encounter `json:"encounters"`
}

type GroupResponse struct {
	JobID   string        `json:"job_id"`
	Results []GroupResult `json:"results"`
	Errors  []string      `json:"errors,omitempty"`
}

// Group encodes the encounters, runs the grouper software, and returns
// the decoded results.
func (h *Handler) Group(c echo.Context) error {
	var req GroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Encounters) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "encounters is empty")
	}

	batch, err := h.buildBatch(req.Encounters, h.cfg.BatchSeparator)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	mode, err := grouper.ParseMode(h.cfg.OutputMode)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	job := grouper.NewJob(h.cfg.WorkDir)
	records, err := h.grouper.Group(c.Request().Context(), grouper.Params{
		Batch:        batch,
		Job:          job,
		Mode:         mode,
		DeleteInput:  h.cfg.DeleteInputFile,
		DeleteOutput: h.cfg.DeleteOutputFile,
	})

	resp := GroupResponse{JobID: job.ID.String(), Results: make([]GroupResult, 0, len(records))}
	for _, rec := range records {
		resp.Results = append(resp.Results, NewGroupResult(rec))
	}
	if err != nil {
		var dec *codec.DecodeError
		if len(records) > 0 && (errors.As(err, &dec) || strings.Contains(err.Error(), "line")) {
			// Partial decode: return what grouped, flag the rest.
			resp.Errors = append(resp.Errors, err.Error())
			return c.JSON(http.StatusOK, resp)
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) buildBatch(encounters []Encounter, separator string) (*codec.Batch, error) {
	sep, err := codec.ParseSeparator(separator)
	if err != nil {
		return nil, err
	}
	batch := codec.NewBatch(sep)
	for i := range encounters {
		rec, err := encounters[i].ToRecord()
		if err != nil {
			return nil, fmt.Errorf("encounter %d: %w", i, err)
		}
		batch.Append(rec)
	}
	return batch, nil
}
