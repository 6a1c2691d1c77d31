package coordinator

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"popdash/internal/engine"
	"popdash/internal/models"
	"popdash/internal/views"
)

// ViewReport is the outcome of one adapter's render.
type ViewReport struct {
	Container string      `json:"container"`
	State     views.State `json:"state"`
	Error     string      `json:"error,omitempty"`
}

// Report lists every view in the order it was rendered.
type Report struct {
	Selection models.Selection `json:"selection"`
	Views     []ViewReport     `json:"views"`
}

// Coordinator owns the Selection and fans every change out to the adapters
// in a fixed order: butterfly, line, scatter, donut.
type Coordinator struct {
	data    *engine.Datasets
	surface *views.Surface
	logger  *zap.Logger

	butterfly *views.Butterfly
	line      *views.Line
	scatter   *views.Scatter
	donut     *views.Donut

	mu  sync.Mutex
	sel models.Selection
}

func New(data *engine.Datasets, surface *views.Surface, size views.Size, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		data:      data,
		surface:   surface,
		logger:    logger,
		butterfly: views.NewButterfly(surface, size),
		line:      views.NewLine(surface, size),
		scatter:   views.NewScatter(surface, size),
		donut:     views.NewDonut(surface, size),
		sel:       models.DefaultSelection(),
	}
}

func (c *Coordinator) Surface() *views.Surface { return c.surface }

func (c *Coordinator) Selection() models.Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sel
}

// Initialize renders the start-up selection: no country, default year.
func (c *Coordinator) Initialize(ctx context.Context, year int) Report {
	return c.OnSelectionChanged(ctx, models.Selection{Year: year})
}

// SelectCountry handles a map click; the year is kept.
func (c *Coordinator) SelectCountry(ctx context.Context, country string) Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply(ctx, c.sel.WithCountry(country))
}

// SelectYear handles the year dropdown; the country is kept.
func (c *Coordinator) SelectYear(ctx context.Context, year int) Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply(ctx, c.sel.WithYear(year))
}

// OnSelectionChanged stores sel and re-renders every view. Calls are
// serialized; the last one to run wins.
func (c *Coordinator) OnSelectionChanged(ctx context.Context, sel models.Selection) Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply(ctx, sel)
}

func (c *Coordinator) apply(_ context.Context, sel models.Selection) Report {
	c.sel = sel
	rep := Report{Selection: sel, Views: make([]ViewReport, 0, 4)}
	log := c.logger.With(zap.String("country", sel.Country), zap.Int("year", sel.Year))

	record := func(container string, err error) {
		vr := ViewReport{Container: container, State: c.surface.State(container)}
		if err != nil {
			vr.Error = err.Error()
			var cfgErr *engine.ConfigurationError
			if errors.As(err, &cfgErr) {
				log.Warn("view routed to empty state", zap.String("view", container), zap.Error(err))
			} else {
				log.Error("view render failed", zap.String("view", container), zap.Error(err))
			}
		}
		rep.Views = append(rep.Views, vr)
	}

	ages := c.data.ProjectAges(sel)
	record(c.butterfly.Container(), c.butterfly.Render(ages.Male, ages.Female))

	growth := c.data.ProjectGrowth(sel)
	record(c.line.Container(), c.line.Render(growth.Urban, growth.Rural))

	points, err := c.data.ProjectScatter(sel)
	if err != nil {
		if rerr := c.scatter.Render(nil, sel); rerr != nil {
			err = errors.Join(err, rerr)
		}
		record(c.scatter.Container(), err)
	} else {
		record(c.scatter.Container(), c.scatter.Render(points, sel))
	}

	record(c.donut.Container(), c.donut.Render(c.data.ProjectExpenditure(sel)))

	log.Debug("selection rendered", zap.Int("views", len(rep.Views)))
	return rep
}
