package experiment

import (
	"context"
	"sync"

	"github.com/san-kum/vehiclelab/internal/scenario"
	"github.com/san-kum/vehiclelab/internal/sim"
)

// Ensemble runs many scenarios with the same vehicles, one engine per
// goroutine. Workers bounds the concurrency; zero means one goroutine per
// scenario.
type Ensemble struct {
	cfg     Config
	Workers int
}

func NewEnsemble(cfg Config) *Ensemble {
	return &Ensemble{cfg: cfg}
}

// Run returns results in the order of scenarios. The first failure, in
// scenario order, is returned with no results.
func (e *Ensemble) Run(ctx context.Context, scenarios []*scenario.Scenario) ([]*sim.Result, error) {
	results := make([]*sim.Result, len(scenarios))
	errs := make([]error, len(scenarios))

	workers := e.Workers
	if workers <= 0 || workers > len(scenarios) {
		workers = len(scenarios)
	}
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx], errs[idx] = RunScenario(ctx, scenarios[idx], e.cfg)
			}
		}()
	}

	for i := range scenarios {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
