package server

import (
	"net/http"
	"time"

	"cosmossdk.io/errors"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/heliacal/returncast/internal/types"
	"github.com/heliacal/returncast/pkg/astronomy/chart"
	"github.com/heliacal/returncast/pkg/astronomy/ephemeris"
	"github.com/heliacal/returncast/pkg/astronomy/julian"
	"github.com/heliacal/returncast/pkg/astronomy/returns"
	"github.com/heliacal/returncast/pkg/astronomy/solver"
)

// ReturnRequest is the shared payload for the return endpoints. The
// casting location defaults to the birth location when omitted.
type ReturnRequest struct {
	BirthTimestamp time.Time `json:"birth_timestamp" validate:"required"`
	BirthLatitude  float64   `json:"birth_latitude" validate:"gte=-90,lte=90"`
	BirthLongitude float64   `json:"birth_longitude" validate:"gte=-180,lte=180"`
	Anchor         time.Time `json:"anchor" validate:"required"`
	CastLatitude   *float64  `json:"cast_latitude" validate:"omitempty,gte=-90,lte=90"`
	CastLongitude  *float64  `json:"cast_longitude" validate:"omitempty,gte=-180,lte=180"`
	HouseSystem    string    `json:"house_system" default:"placidus" validate:"oneof=placidus equal"`
}

// CombinedRequest extends ReturnRequest with a separate lunar anchor;
// when omitted both returns are anchored on the same date.
type CombinedRequest struct {
	ReturnRequest
	LunarAnchor *time.Time `json:"lunar_anchor"`
}

// CombinedResponse pairs the two charts with their relational analysis.
type CombinedResponse struct {
	Solar    *types.ReturnChart     `json:"solar"`
	Lunar    *types.ReturnChart     `json:"lunar"`
	Analysis types.CombinedAnalysis `json:"analysis"`
}

type apiResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// Handler serves the return-chart API.
type Handler struct {
	oracle ephemeris.Oracle
	solver *solver.Solver
	bodies []types.Body
	log    zerolog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithBodies overrides the default charted body set.
func WithBodies(bodies []types.Body) HandlerOption {
	return func(h *Handler) { h.bodies = bodies }
}

// NewHandler creates the API handler over an oracle and a solver.
func NewHandler(oracle ephemeris.Oracle, s *solver.Solver, log zerolog.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{
		oracle: oracle,
		solver: s,
		bodies: types.DefaultBodies,
		log:    log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes mounts the API under /api/returns.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/returns")
	g.POST("/solar", h.Solar)
	g.POST("/lunar", h.Lunar)
	g.POST("/combined", h.Combined)
}

// Solar handles POST /api/returns/solar.
func (h *Handler) Solar(c echo.Context) error {
	return h.singleReturn(c, types.BodySun)
}

// Lunar handles POST /api/returns/lunar.
func (h *Handler) Lunar(c echo.Context) error {
	return h.singleReturn(c, types.BodyMoon)
}

func (h *Handler) singleReturn(c echo.Context, body types.Body) error {
	req := &ReturnRequest{}
	if verr := readAndValidate(c, req); verr != nil {
		return badRequest(c, verr)
	}

	ctx := c.Request().Context()
	orch := h.orchestrator(req.HouseSystem)

	natal, err := returns.NatalRecord(ctx, h.oracle, julian.FromTime(req.BirthTimestamp), req.birthLocation(), h.bodies)
	if err != nil {
		return h.errorResponse(c, err)
	}

	rc, err := orch.GenerateReturn(ctx, body, natal, julian.FromTime(req.Anchor), req.castLocation())
	if err != nil {
		return h.errorResponse(c, err)
	}
	return success(c, rc)
}

// Combined handles POST /api/returns/combined.
func (h *Handler) Combined(c echo.Context) error {
	req := &CombinedRequest{}
	if verr := readAndValidate(c, req); verr != nil {
		return badRequest(c, verr)
	}

	ctx := c.Request().Context()
	orch := h.orchestrator(req.HouseSystem)

	natal, err := returns.NatalRecord(ctx, h.oracle, julian.FromTime(req.BirthTimestamp), req.birthLocation(), h.bodies)
	if err != nil {
		return h.errorResponse(c, err)
	}

	lunarAnchor := req.Anchor
	if req.LunarAnchor != nil {
		lunarAnchor = *req.LunarAnchor
	}

	sol, lun, analysis, err := orch.CombinedReturns(ctx, natal,
		julian.FromTime(req.Anchor), julian.FromTime(lunarAnchor), req.castLocation())
	if err != nil {
		return h.errorResponse(c, err)
	}
	return success(c, CombinedResponse{Solar: sol, Lunar: lun, Analysis: analysis})
}

// orchestrator builds the per-request pipeline; both stages are stateless
// so construction is cheap.
func (h *Handler) orchestrator(system string) *returns.Orchestrator {
	deriver := chart.NewDeriver(h.oracle, chart.WithHouseSystem(chart.HouseSystem(system)))
	return returns.New(h.solver, deriver,
		returns.WithBodies(h.bodies),
		returns.WithLogger(h.log))
}

func (req *ReturnRequest) birthLocation() types.Location {
	return types.Location{Latitude: req.BirthLatitude, Longitude: req.BirthLongitude}
}

func (req *ReturnRequest) castLocation() types.Location {
	loc := req.birthLocation()
	if req.CastLatitude != nil {
		loc.Latitude = *req.CastLatitude
	}
	if req.CastLongitude != nil {
		loc.Longitude = *req.CastLongitude
	}
	return loc
}

func (h *Handler) errorResponse(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.IsOf(err, types.ErrValidation):
		status = http.StatusBadRequest
	case errors.IsOf(err, types.ErrConvergence):
		status = http.StatusUnprocessableEntity
	case errors.IsOf(err, types.ErrOracle):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("return generation failed")
	}
	return c.JSON(status, apiResponse{
		Status:  status,
		Message: http.StatusText(status),
		Errors:  []string{err.Error()},
	})
}

func success(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, apiResponse{
		Status:  http.StatusOK,
		Message: http.StatusText(http.StatusOK),
		Data:    data,
	})
}

func badRequest(c echo.Context, errs []ValidationError) error {
	return c.JSON(http.StatusBadRequest, apiResponse{
		Status:  http.StatusBadRequest,
		Message: http.StatusText(http.StatusBadRequest),
		Errors:  errs,
	})
}
