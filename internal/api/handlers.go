package api

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/zeebo/xxh3"
	"go.uber.org/zap"

	"popdash/internal/coordinator"
	"popdash/internal/engine"
	"popdash/internal/geo"
	"popdash/internal/models"
	"popdash/internal/views"
)

// charts is the render order, which is also the listing order.
var charts = []string{views.ContainerButterfly, views.ContainerLine, views.ContainerScatter, views.ContainerDonut}

// live is everything that only exists once the datasets are loaded.
type live struct {
	data    *engine.Datasets
	world   *geo.Map
	coord   *coordinator.Coordinator
	catalog models.Catalog
}

type Handler struct {
	mu     sync.RWMutex
	live   *live
	logger *zap.Logger
}

// NewHandler starts with no data; data routes answer 503 until SetData.
func NewHandler(logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{logger: logger}
}

// SetData makes the API ready. coord should already be initialized.
func (h *Handler) SetData(data *engine.Datasets, world *geo.Map, coord *coordinator.Coordinator) {
	l := &live{data: data, world: world, coord: coord, catalog: data.Catalog()}
	h.mu.Lock()
	h.live = l
	h.mu.Unlock()
}

func (h *Handler) ready() (*live, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.live == nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "datasets are still loading")
	}
	return h.live, nil
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/health", h.GetHealth)
	api.GET("/years", h.GetYears)
	api.GET("/countries", h.GetCountries)
	api.GET("/selection", h.GetSelection)
	api.POST("/selection", h.PostSelection)
	api.POST("/selection/year", h.PostYear)
	api.POST("/map/click", h.PostMapClick)
	api.GET("/map", h.GetMap)
	api.GET("/charts", h.GetCharts)
	api.GET("/charts/:name", h.GetChart)
	api.GET("/charts/:name/svg", h.GetChartSVG)
	api.GET("/projections/:kind", h.GetProjection)
}

// --- HANDLERS ---
func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (h *Handler) GetHealth(c echo.Context) error {
	_, err := h.ready()
	return c.JSON(http.StatusOK, map[string]bool{"ready": err == nil})
}

func (h *Handler) GetYears(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"years":        models.Years,
		"default_year": models.DefaultYear,
	})
}

// GetCountries pages through the country catalog, sorted by name.
func (h *Handler) GetCountries(c echo.Context) error {
	l, err := h.ready()
	if err != nil {
		return err
	}
	countries := l.catalog.Countries
	total := len(countries)
	limit, offset := getPaginationParams(c, total)

	page := []models.CountryCoverage{}
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		page = countries[offset:end]
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   page,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) GetSelection(c echo.Context) error {
	l, err := h.ready()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, l.coord.Selection())
}

type selectionRequest struct {
	Country string `json:"country"`
	Year    *int   `json:"year"`
}

// PostSelection replaces the whole selection. Any year is accepted; an
// unpublished one shows up as a per-view error in the report.
func (h *Handler) PostSelection(c echo.Context) error {
	l, err := h.ready()
	if err != nil {
		return err
	}
	var req selectionRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Year == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "year is required")
	}
	rep := l.coord.OnSelectionChanged(c.Request().Context(), models.Selection{Country: req.Country, Year: *req.Year})
	return c.JSON(http.StatusOK, rep)
}

type yearRequest struct {
	Year int `json:"year"`
}

// PostYear is the year dropdown; only published years can be chosen.
func (h *Handler) PostYear(c echo.Context) error {
	l, err := h.ready()
	if err != nil {
		return err
	}
	var req yearRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if !models.ValidYear(req.Year) {
		return echo.NewHTTPError(http.StatusBadRequest, (&engine.ConfigurationError{Year: req.Year}).Error())
	}
	return c.JSON(http.StatusOK, l.coord.SelectYear(c.Request().Context(), req.Year))
}

type clickRequest struct {
	Country string   `json:"country"`
	Lon     *float64 `json:"lon"`
	Lat     *float64 `json:"lat"`
}

// PostMapClick selects a country either by its exact map name or by the
// clicked position.
func (h *Handler) PostMapClick(c echo.Context) error {
	l, err := h.ready()
	if err != nil {
		return err
	}
	var req clickRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	country := req.Country
	switch {
	case country != "":
		if !l.world.Has(country) {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("no country named %q on the map", country))
		}
	case req.Lon != nil && req.Lat != nil:
		var ok bool
		country, ok = l.world.Locate(*req.Lon, *req.Lat)
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("no country at %v,%v", *req.Lon, *req.Lat))
		}
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "country or lon/lat is required")
	}

	return c.JSON(http.StatusOK, l.coord.SelectCountry(c.Request().Context(), country))
}

// GetMap returns the choropleth layer, for the selection's year by default.
func (h *Handler) GetMap(c echo.Context) error {
	l, err := h.ready()
	if err != nil {
		return err
	}
	sel := l.coord.Selection()
	year := sel.Year
	if q := c.QueryParam("year"); q != "" {
		if year, err = models.ParseYear(q); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	regions, err := l.world.Layer(year)
	if err != nil {
		var cfgErr *engine.ConfigurationError
		if errors.As(err, &cfgErr) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return err
	}
	for i := range regions {
		regions[i].Selected = sel.HasCountry() && regions[i].Country == sel.Country
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"year":    year,
		"regions": regions,
	})
}

func (h *Handler) GetCharts(c echo.Context) error {
	l, err := h.ready()
	if err != nil {
		return err
	}
	out := make([]views.Scene, 0, len(charts))
	for _, name := range charts {
		if sc, ok := l.coord.Surface().Scene(name); ok {
			out = append(out, sc)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) scene(c echo.Context) (views.Scene, error) {
	l, err := h.ready()
	if err != nil {
		return views.Scene{}, err
	}
	name := c.Param("name")
	if !slices.Contains(charts, name) {
		return views.Scene{}, echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown chart %q", name))
	}
	sc, ok := l.coord.Surface().Scene(name)
	if !ok {
		return views.Scene{}, echo.NewHTTPError(http.StatusServiceUnavailable, fmt.Sprintf("chart %q has not been rendered yet", name))
	}
	return sc, nil
}

func (h *Handler) GetChart(c echo.Context) error {
	sc, err := h.scene(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sc)
}

func (h *Handler) GetChartSVG(c echo.Context) error {
	sc, err := h.scene(c)
	if err != nil {
		return err
	}
	if len(sc.SVG) == 0 {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("chart %q has no rendering", sc.Container))
	}

	etag := fmt.Sprintf(`"%016x"`, xxh3.Hash(sc.SVG))
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	c.Response().Header().Set("ETag", etag)
	if c.Request().Header.Get("If-None-Match") == etag {
		return c.NoContent(http.StatusNotModified)
	}
	return c.Blob(http.StatusOK, "image/svg+xml", sc.SVG)
}

// GetProjection returns the raw rows behind a chart for the current selection.
func (h *Handler) GetProjection(c echo.Context) error {
	l, err := h.ready()
	if err != nil {
		return err
	}
	kind, err := engine.ParseKind(c.Param("kind"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := l.data.Project(kind, l.coord.Selection())
	if err != nil {
		var cfgErr *engine.ConfigurationError
		if errors.As(err, &cfgErr) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, p)
}
