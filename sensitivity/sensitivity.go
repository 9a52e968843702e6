// Package sensitivity sweeps model parameters across relative ranges and
// re-runs the full simulation at every point, recompiling interventions
// against each perturbed baseline. One-dimensional sweeps show how an outcome
// responds to a single parameter; two-dimensional sweeps map interactions on
// a value grid.
package sensitivity

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/careflow-xyz/go-careflow/cache"
	"github.com/careflow-xyz/go-careflow/intervention"
	"github.com/careflow-xyz/go-careflow/metrics"
	"github.com/careflow-xyz/go-careflow/model"
	"github.com/careflow-xyz/go-careflow/results"
	"github.com/careflow-xyz/go-careflow/sim"
)

const (
	// One-dimensional sweeps cover ±25% of the base value in 10 steps,
	// giving 11 points with the unperturbed value in the middle.
	Range1D = 0.25
	Steps1D = 10

	// Two-dimensional sweeps cover ±20% on a 5x5 grid; the grid midpoint
	// (index 2, index 2) reproduces the unperturbed run.
	Range2D  = 0.20
	GridSize = 5
)

// Analyzer runs sweeps around a base parameterization. Interventions are
// recompiled at every sweep point, so a swept parameter that feeds an effect
// bundle (phi0, congestion, rates) interacts with the interventions the same
// way it would in a standalone run.
type Analyzer struct {
	base    model.Parameters
	cfg     intervention.Config
	disease string
	uptake  intervention.UptakeConfig
	urban   bool

	run     sim.Config
	workers int
	cache   *cache.RunCache
}

// NewAnalyzer creates an analyzer for the given base parameters and run shape.
func NewAnalyzer(base model.Parameters, run sim.Config) *Analyzer {
	return &Analyzer{
		base:    base,
		uptake:  intervention.DefaultUptake(),
		run:     run,
		workers: runtime.NumCPU(),
		cache:   cache.NewRunCache(0),
	}
}

// WithInterventions sets the intervention selection applied at every point.
func (a *Analyzer) WithInterventions(cfg intervention.Config, diseaseID string) *Analyzer {
	a.cfg = cfg
	a.disease = diseaseID
	return a
}

// WithUptake sets the adoption model used when compiling interventions.
func (a *Analyzer) WithUptake(u intervention.UptakeConfig, urban bool) *Analyzer {
	a.uptake = u
	a.urban = urban
	return a
}

// WithWorkers bounds sweep parallelism. Values below one fall back to one.
func (a *Analyzer) WithWorkers(n int) *Analyzer {
	if n < 1 {
		n = 1
	}
	a.workers = n
	return a
}

// Point is one sweep evaluation: the parameter value tried and the headline
// outcomes of the run it produced.
type Point struct {
	Value    float64       `json:"value"`
	Cost     float64       `json:"cost"`
	DALYs    float64       `json:"dalys"`
	Deaths   float64       `json:"deaths"`
	Resolved float64       `json:"resolved"`
	ICER     *results.ICER `json:"icer,omitempty"`
}

// Sweep is the result of a one-dimensional sweep.
type Sweep struct {
	Param  string  `json:"param"`
	Points []Point `json:"points"`
}

// GridPoint is one grid cell in flat tuple form, for consumers that want a
// list of (x, y, outcome) rather than a matrix.
type GridPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Point Point   `json:"point"`
}

// Grid is the result of a two-dimensional sweep. Cells is indexed
// [row][col] = [y][x]; Flat lists the same cells row-major.
type Grid struct {
	ParamX  string                    `json:"paramX"`
	ParamY  string                    `json:"paramY"`
	XValues [GridSize]float64         `json:"xValues"`
	YValues [GridSize]float64         `json:"yValues"`
	Cells   [GridSize][GridSize]Point `json:"cells"`
	Flat    []GridPoint               `json:"flat"`
}

// spread returns n+1 evenly spaced values covering base*(1±rel). A zero base
// collapses the range to a single repeated value, which is still evaluated so
// callers see the flat response rather than an error.
func spread(base, rel float64, n int) []float64 {
	lo, hi := base*(1-rel), base*(1+rel)
	out := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		out[i] = lo + (hi-lo)*float64(i)/float64(n)
	}
	return out
}

// SweepParam runs a one-dimensional sweep over the parameter at path,
// covering ±25% of its base value in 11 points.
func (a *Analyzer) SweepParam(path string) (*Sweep, error) {
	base, err := a.base.Value(path)
	if err != nil {
		return nil, fmt.Errorf("sweep %s: %w", path, err)
	}
	values := spread(base, Range1D, Steps1D)

	points := make([]Point, len(values))
	jobs := make(chan int)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for w := 0; w < a.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				pt, err := a.evaluate(map[string]float64{path: values[i]})
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("sweep %s at %v: %w", path, values[i], err)
					}
					mu.Unlock()
					continue
				}
				pt.Value = values[i]
				points[i] = pt
			}
		}()
	}
	for i := range values {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return &Sweep{Param: path, Points: points}, nil
}

// SweepGrid runs a two-dimensional sweep over two parameter paths, covering
// ±20% of each base value on a 5x5 grid.
func (a *Analyzer) SweepGrid(pathX, pathY string) (*Grid, error) {
	baseX, err := a.base.Value(pathX)
	if err != nil {
		return nil, fmt.Errorf("sweep %s: %w", pathX, err)
	}
	baseY, err := a.base.Value(pathY)
	if err != nil {
		return nil, fmt.Errorf("sweep %s: %w", pathY, err)
	}
	if pathX == pathY {
		return nil, fmt.Errorf("sweep: grid axes must differ, both %s", pathX)
	}

	g := &Grid{ParamX: pathX, ParamY: pathY}
	copy(g.XValues[:], spread(baseX, Range2D, GridSize-1))
	copy(g.YValues[:], spread(baseY, Range2D, GridSize-1))

	type cell struct{ row, col int }
	jobs := make(chan cell)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for w := 0; w < a.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				x, y := g.XValues[c.col], g.YValues[c.row]
				pt, err := a.evaluate(map[string]float64{pathX: x, pathY: y})
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("sweep (%s=%v, %s=%v): %w", pathX, x, pathY, y, err)
					}
					mu.Unlock()
					continue
				}
				pt.Value = x
				g.Cells[c.row][c.col] = pt
			}
		}()
	}
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			jobs <- cell{row, col}
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	g.Flat = make([]GridPoint, 0, GridSize*GridSize)
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			g.Flat = append(g.Flat, GridPoint{
				X:     g.XValues[col],
				Y:     g.YValues[row],
				Point: g.Cells[row][col],
			})
		}
	}
	return g, nil
}

// evaluate runs one sweep point: perturb the base, recompile interventions,
// simulate, and (when interventions are active) compare against the perturbed
// no-intervention baseline for an ICER.
func (a *Analyzer) evaluate(overrides map[string]float64) (Point, error) {
	perturbed := a.base
	for path, v := range overrides {
		if err := perturbed.SetValue(path, v); err != nil {
			return Point{}, err
		}
	}

	compiled, err := intervention.Compile(perturbed, a.cfg, a.disease, a.uptake, a.urban)
	if err != nil {
		return Point{}, err
	}
	r, err := a.runCached(compiled)
	if err != nil {
		return Point{}, err
	}
	metrics.SweepPoints.Inc()

	pt := Point{
		Cost:     r.TotalCost,
		DALYs:    r.DALYs.Total,
		Deaths:   r.TotalDeaths,
		Resolved: r.TotalResolved,
	}

	if a.cfg.AnyActive() {
		plain, err := intervention.Compile(perturbed, intervention.Config{}, a.disease, a.uptake, a.urban)
		if err != nil {
			return Point{}, err
		}
		baseline, err := a.runCached(plain)
		if err != nil {
			return Point{}, err
		}
		icer := results.ComputeICER(r, baseline)
		pt.ICER = &icer
	}
	return pt, nil
}

func (a *Analyzer) runCached(p model.Parameters) (*results.Results, error) {
	k := cache.Key{
		Params:     p,
		Weeks:      a.run.Weeks,
		BurnIn:     a.run.BurnIn(),
		Population: a.run.Population,
	}
	return a.cache.GetOrCompute(k, func() (*results.Results, error) {
		return sim.Run(p, a.run)
	})
}
