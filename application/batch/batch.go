// Package batch runs many policies against the same registry under a
// bounded worker pool (spec.md §5), collecting per-policy outcomes in
// source order regardless of completion order.
package batch

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/escanio/escan-core/application/execution"
	"github.com/escanio/escan-core/application/registry"
	"github.com/escanio/escan-core/application/resolution"
	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
)

// Policy bundles what one batch item needs: its identity, its compiled AST,
// and the id it is reported under.
type Policy struct {
	Identity entities.PolicyIdentity
	AST      *ports.PolicyAST
}

// Result pairs one policy's outcome with the error behind it, if
// resolution failed. A failed policy still has an Outcome (result
// "error", one diagnostic finding) alongside Err.
type Result struct {
	PolicyID string
	Outcome  *entities.PolicyOutcome
	Err      error
}

// Runner executes a batch of policies against a shared registry with a
// fixed concurrency cap. A failing policy never aborts the batch; its
// Result carries an error Outcome together with Err.
type Runner struct {
	registry       *registry.Registry
	maxConcurrency int
	logger         *slog.Logger
}

// New builds a Runner. maxConcurrency <= 0 means unbounded. logger may be
// nil.
func New(reg *registry.Registry, maxConcurrency int, logger *slog.Logger) *Runner {
	return &Runner{registry: reg, maxConcurrency: maxConcurrency, logger: logger}
}

// Run resolves and executes every policy in policies, returning one Result
// per input in the same order.
func (r *Runner) Run(ctx context.Context, policies []Policy) []Result {
	results := make([]Result, len(policies))

	group, groupCtx := errgroup.WithContext(ctx)
	if r.maxConcurrency > 0 {
		group.SetLimit(r.maxConcurrency)
	}

	resolver := resolution.New(r.registry, r.logger)
	executor := execution.New(r.registry, r.logger)

	for i, p := range policies {
		i, p := i, p
		group.Go(func() error {
			results[i] = r.runOne(groupCtx, resolver, executor, p)
			return nil
		})
	}

	// errgroup.Wait's error is always nil here: runOne never returns an
	// error from the goroutine, it records failures in results instead,
	// so one policy's failure cannot cancel its siblings.
	_ = group.Wait()
	return results
}

func (r *Runner) runOne(ctx context.Context, resolver *resolution.Engine, executor *execution.Engine, p Policy) Result {
	resolved, err := resolver.Resolve(ctx, p.Identity.EspScanID, p.AST)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("policy resolution failed", "policy_id", p.Identity.EspScanID, "err", err)
		}
		return Result{PolicyID: p.Identity.EspScanID, Outcome: resolutionErrorOutcome(p.Identity, err), Err: err}
	}

	outcome := executor.Run(ctx, p.Identity, resolved)
	return Result{PolicyID: p.Identity.EspScanID, Outcome: outcome}
}

// resolutionErrorOutcome builds the PolicyOutcome a policy is still owed
// when resolution fails before execution can run (spec.md §7: "the policy
// is emitted with outcome = error and a single diagnostic finding";
// spec.md §8 invariant 1: every input policy has exactly one outcome).
func resolutionErrorOutcome(identity entities.PolicyIdentity, err error) *entities.PolicyOutcome {
	return &entities.PolicyOutcome{
		Identity: identity,
		Outcome:  entities.PolicyError,
		Findings: []entities.Finding{{
			FindingID: identity.EspScanID + ":resolution",
			Title:     "policy resolution failed",
			Actual:    err.Error(),
		}},
	}
}
