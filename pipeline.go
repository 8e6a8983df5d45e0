package canpwm

import (
	"context"
	"sync"
)

// Stage is a unit of the dispatch pipeline. Stages are wired together
// through connectors and run on their own goroutine.
type Stage interface {
	Init(ctx context.Context) error
	Run(ctx context.Context)
	Stop()
}

// Pipeline runs an ingress stage and its listener stages. Stages are
// stopped in registration order, so the ingress must be added first:
// stopping it closes the listener connectors, which lets each listener
// drain its queue before it stops.
type Pipeline struct {
	stages []Stage

	wg        *sync.WaitGroup
	isRunning bool
}

func NewPipeline() *Pipeline {
	return &Pipeline{
		stages: []Stage{},

		wg:        &sync.WaitGroup{},
		isRunning: false,
	}
}

func (p *Pipeline) AddStage(stage Stage) {
	if p.isRunning {
		return
	}

	p.stages = append(p.stages, stage)
}

func (p *Pipeline) Init(ctx context.Context) error {
	for _, stage := range p.stages {
		if err := stage.Init(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (p *Pipeline) Run(ctx context.Context) {
	p.isRunning = true

	p.wg.Add(len(p.stages))

	for _, stage := range p.stages {
		go func() {
			stage.Run(ctx)
			p.wg.Done()
		}()
	}
}

func (p *Pipeline) Stop() {
	for _, stage := range p.stages {
		stage.Stop()
	}

	p.wg.Wait()

	p.isRunning = false
}
