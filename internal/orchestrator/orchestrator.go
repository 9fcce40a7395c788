// internal/orchestrator/orchestrator.go
// The orchestrator sequences the end-to-end wizard flow check: navigate to
// the dataset-creation wizard, fill the form fields, deliver the fixture into
// the drop zone through the simulator, and verify the application registered
// the drop. Application-level assertions and timeouts live here, never in the
// simulator.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aidazolic/dropsim/api/schemas"
	"github.com/aidazolic/dropsim/internal/config"
	"github.com/aidazolic/dropsim/internal/dragdrop"
)

// PageDriver is the subset of the browser session the flow consumes. The
// orchestrator resolves targets and owns the page; the simulator only ever
// sees resolved handles.
type PageDriver interface {
	Navigate(ctx context.Context, url string) error
	Type(ctx context.Context, selector, text string) error
	Click(ctx context.Context, selector string) error
	Text(ctx context.Context, selector string) (string, error)
	ResolveTarget(ctx context.Context, selector string) (schemas.TargetRef, error)
	Executor() dragdrop.Executor
}

// FixtureSource resolves named fixtures to file specs.
type FixtureSource interface {
	Load(name string) (schemas.FileSpec, error)
}

// FlowResult reports what the flow observed after the drop.
type FlowResult struct {
	FileName string
	Status   string
	Elapsed  time.Duration
}

// Orchestrator drives one wizard flow check.
type Orchestrator struct {
	page     PageDriver
	fixtures FixtureSource
	sim      *dragdrop.Simulator
	cfg      config.WizardConfig
	logger   *zap.Logger
}

// New creates an orchestrator bound to a page driver and fixture source.
func New(page PageDriver, fixtures FixtureSource, cfg config.WizardConfig, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		page:     page,
		fixtures: fixtures,
		sim:      dragdrop.NewSimulator(page.Executor(), logger),
		cfg:      cfg,
		logger:   logger,
	}
}

// Run executes the flow: form entry, synthetic drop, post-drop assertion.
// A raised simulator error fails the check; whether that is the expected
// outcome (e.g. a deliberately unreachable drop zone) is the caller's call.
func (o *Orchestrator) Run(ctx context.Context) (*FlowResult, error) {
	start := time.Now()

	o.logger.Info("Starting wizard flow check.", zap.String("base_url", o.cfg.BaseURL))

	if err := o.page.Navigate(ctx, o.cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("wizard navigation failed: %w", err)
	}

	if err := o.fillForm(ctx); err != nil {
		return nil, err
	}

	file, err := o.buildFixtureFile()
	if err != nil {
		return nil, err
	}

	target, err := o.page.ResolveTarget(ctx, o.cfg.DropZoneSelector)
	if err != nil {
		return nil, fmt.Errorf("drop zone resolution failed: %w", err)
	}

	// Wizard drop zones are routinely zero-size or overlaid by decorative
	// markup, so force mode is the norm for this flow.
	err = o.sim.Simulate(ctx, target, dragdrop.NewTransferPayload(file), schemas.SimulationOptions{Force: true})
	if err != nil {
		return nil, fmt.Errorf("file delivery failed: %w", err)
	}

	status, err := o.awaitRegistration(ctx, file.Name())
	if err != nil {
		return nil, err
	}

	result := &FlowResult{FileName: file.Name(), Status: status, Elapsed: time.Since(start)}
	o.logger.Info("Wizard flow check passed.",
		zap.String("file", result.FileName),
		zap.Duration("elapsed", result.Elapsed))
	return result, nil
}

func (o *Orchestrator) fillForm(ctx context.Context) error {
	if err := o.page.Type(ctx, o.cfg.NameSelector, o.cfg.DatasetName); err != nil {
		return fmt.Errorf("dataset name entry failed: %w", err)
	}
	if o.cfg.DescriptionSelector != "" && o.cfg.DatasetDescription != "" {
		if err := o.page.Type(ctx, o.cfg.DescriptionSelector, o.cfg.DatasetDescription); err != nil {
			return fmt.Errorf("dataset description entry failed: %w", err)
		}
	}
	if err := o.page.Type(ctx, o.cfg.URLSelector, o.cfg.DatasetURL); err != nil {
		return fmt.Errorf("dataset url entry failed: %w", err)
	}
	if o.cfg.NextSelector != "" {
		if err := o.page.Click(ctx, o.cfg.NextSelector); err != nil {
			return fmt.Errorf("wizard step advance failed: %w", err)
		}
	}
	return nil
}

func (o *Orchestrator) buildFixtureFile() (*dragdrop.SimulatedFile, error) {
	spec, err := o.fixtures.Load(o.cfg.Fixture)
	if err != nil {
		return nil, fmt.Errorf("fixture load failed: %w", err)
	}
	file, err := dragdrop.Build(spec)
	if err != nil {
		return nil, fmt.Errorf("file construction failed: %w", err)
	}
	return file, nil
}

// awaitRegistration polls the status area until the uploaded file name shows
// up, or the assertion deadline passes.
func (o *Orchestrator) awaitRegistration(ctx context.Context, fileName string) (string, error) {
	timeout := o.cfg.AssertTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	interval := o.cfg.PollInterval
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}

	deadline := time.Now().Add(timeout)
	var lastStatus string
	for {
		status, err := o.page.Text(ctx, o.cfg.StatusSelector)
		if err == nil {
			lastStatus = status
			if strings.Contains(status, fileName) {
				return status, nil
			}
		} else {
			o.logger.Debug("Status area read failed, retrying.", zap.Error(err))
		}

		if time.Now().After(deadline) {
			return "", fmt.Errorf("file %q not registered within %v (last status: %q)", fileName, timeout, lastStatus)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(interval):
		}
	}
}
