package facade

import (
	"context"
	"fmt"

	"github.com/jpequegn/satbench/internal/bootstrap"
	"github.com/jpequegn/satbench/internal/catalog"
	"github.com/jpequegn/satbench/internal/metrics"
	"github.com/jpequegn/satbench/internal/progress"
	"github.com/jpequegn/satbench/internal/report"
	"github.com/jpequegn/satbench/internal/scheduler"
	"github.com/jpequegn/satbench/internal/stats"
)

// Facade is the single object a transport (CLI command, future HTTP
// handler) needs: every read query and read-side computation, plus the
// scheduler's explicit mutating operations.
type Facade struct {
	store     catalog.Store
	scheduler scheduler.Scheduler
	metrics   *metrics.Engine
	report    *report.Engine
	bus       *progress.Bus
}

// New builds a Facade over the given store, scheduler, and progress bus.
func New(store catalog.Store, sched scheduler.Scheduler, bus *progress.Bus) *Facade {
	return &Facade{
		store:     store,
		scheduler: sched,
		metrics:   metrics.NewEngine(store),
		report:    report.NewEngine(store),
		bus:       bus,
	}
}

// --- §4.5 catalogue queries ---

func (f *Facade) Solvers(filter catalog.SolverFilter) ([]*catalog.Solver, error) {
	return f.store.ListSolvers(filter)
}

func (f *Facade) Solver(id int64) (*catalog.Solver, error) {
	return f.store.GetSolver(id)
}

func (f *Facade) Instances(filter catalog.InstanceFilter) ([]*catalog.Instance, error) {
	return f.store.ListInstances(filter)
}

func (f *Facade) Instance(id int64) (*catalog.Instance, error) {
	return f.store.GetInstance(id)
}

func (f *Facade) Experiments() ([]*catalog.Experiment, error) {
	return f.store.ListExperiments()
}

func (f *Facade) Experiment(id int64) (*catalog.Experiment, error) {
	return f.store.GetExperiment(id)
}

func (f *Facade) Runs(filter catalog.RunFilter) ([]*catalog.Run, error) {
	return f.store.ListRuns(filter)
}

func (f *Facade) DashboardStats() (*catalog.DashboardStats, error) {
	return f.store.DashboardStats()
}

// --- §4.4/C4 explicit mutating operations, forwarded to the scheduler ---

func (f *Facade) CreateExperiment(spec scheduler.Spec) (int64, error) {
	return f.scheduler.Create(spec)
}

func (f *Facade) StartExperiment(ctx context.Context, experimentID int64) error {
	return f.scheduler.Start(ctx, experimentID)
}

func (f *Facade) StopExperiment(experimentID int64) error {
	return f.scheduler.Stop(experimentID)
}

func (f *Facade) DeleteExperiment(experimentID int64) error {
	return f.scheduler.Delete(experimentID)
}

// --- §4.11 progress ---

func (f *Facade) Subscribe(experimentID int64) (<-chan progress.Event, int) {
	return f.bus.Subscribe(experimentID)
}

func (f *Facade) Unsubscribe(experimentID int64, token int) {
	f.bus.Unsubscribe(experimentID, token)
}

// --- §4.6 metric engine ---

func (f *Facade) SolverSummaries(experimentID int64, timeoutSeconds float64) ([]*metrics.SolverSummary, error) {
	return f.metrics.SolverSummaries(experimentID, timeoutSeconds)
}

func (f *Facade) Ranking(experimentID int64, timeoutSeconds float64) ([]*metrics.SolverSummary, error) {
	return f.metrics.Ranking(experimentID, timeoutSeconds)
}

func (f *Facade) VBS(experimentID int64, timeoutSeconds float64) (*metrics.VBSResult, error) {
	return f.metrics.VBS(experimentID, timeoutSeconds)
}

func (f *Facade) SolveMatrix(experimentID int64) (*metrics.SolveMatrix, error) {
	return f.metrics.SolveMatrix(experimentID)
}

func (f *Facade) FamilyBreakdown(experimentID int64, timeoutSeconds float64) ([]*metrics.FamilyBreakdown, error) {
	return f.metrics.FamilyBreakdown(experimentID, timeoutSeconds)
}

// --- §4.10 report/plot builder ---

func (f *Facade) Cactus(experimentID int64) ([]report.Series, error) {
	return f.report.Cactus(experimentID)
}

func (f *Facade) ECDF(experimentID int64, timeoutSeconds float64) ([]report.Series, error) {
	return f.report.ECDF(experimentID, timeoutSeconds)
}

func (f *Facade) Survival(experimentID int64, timeoutSeconds float64) ([]report.Series, error) {
	return f.report.Survival(experimentID, timeoutSeconds)
}

func (f *Facade) PerformanceProfile(experimentID int64) ([]report.Series, error) {
	return f.report.PerformanceProfile(experimentID)
}

func (f *Facade) Scatter(experimentID int64) ([]report.ScatterSeries, error) {
	return f.report.Scatter(experimentID)
}

func (f *Facade) Heatmap(experimentID int64) ([]report.HeatmapCell, error) {
	return f.report.Heatmap(experimentID)
}

func (f *Facade) PAR2Bar(experimentID int64, timeoutSeconds float64) ([]report.BarEntry, error) {
	return f.report.PAR2Bar(experimentID, timeoutSeconds)
}

// --- §4.7/§4.8 statistical comparison of two solvers on common instances ---

// CompareSolvers runs the paired statistical tests and a bootstrap
// confidence interval on the PAR-k difference between two solvers,
// restricted to the instances they both attempted in experimentID.
func (f *Facade) CompareSolvers(experimentID, solverAID, solverBID int64, timeoutSeconds float64, bootstrapCfg bootstrap.Config) (*ComparisonResult, error) {
	runs, err := f.store.ListRuns(catalog.RunFilter{ExperimentID: experimentID})
	if err != nil {
		return nil, fmt.Errorf("failed to list runs for experiment %d: %w", experimentID, err)
	}

	byInstanceA := make(map[int64]*catalog.Run)
	byInstanceB := make(map[int64]*catalog.Run)
	for _, r := range runs {
		switch r.SolverID {
		case solverAID:
			byInstanceA[r.InstanceID] = r
		case solverBID:
			byInstanceB[r.InstanceID] = r
		}
	}

	var a, b []float64
	for instanceID, runA := range byInstanceA {
		runB, ok := byInstanceB[instanceID]
		if !ok {
			continue
		}
		a = append(a, runA.PAR2(timeoutSeconds))
		b = append(b, runB.PAR2(timeoutSeconds))
	}

	result := &ComparisonResult{N: len(a)}
	if sol, err := f.store.GetSolver(solverAID); err == nil && sol != nil {
		result.SolverAKey = sol.Key
	}
	if sol, err := f.store.GetSolver(solverBID); err == nil && sol != nil {
		result.SolverBKey = sol.Key
	}
	if len(a) == 0 {
		return result, nil
	}

	result.Wilcoxon = stats.Wilcoxon(a, b)
	result.SignTest = stats.SignTest(a, b)
	result.CohensD = stats.Cohen(a, b)

	ci, significant := bootstrap.PairedDifference(a, b, bootstrapCfg)
	result.MeanDiff = ci.PointEstimate
	result.CILow = ci.CILow
	result.CIHigh = ci.CIHigh
	result.Significant = significant

	return result, nil
}
