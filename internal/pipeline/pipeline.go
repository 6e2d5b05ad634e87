// Package pipeline orchestrates the full analysis pipeline described in
// spec §5 and §6: lowering, name-registry construction, first-assignment
// promotion, scope checking, and type inference, run in strict sequence
// for a single compilation unit, with a concurrent entry point for
// running several independent units at once. Grounded on the pony-lang
// original's semantic/analysis.rs (do_analysis, AnalysisResult) for the
// sequencing and the exact set of intermediate snapshots a test harness
// needs, and on the teacher's dependency-injected *log.Logger convention
// (internal/repl) for the optional diagnostic logger.
package pipeline

import (
	"context"
	"log"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"vesper/internal/ast"
	"vesper/internal/firstassign"
	"vesper/internal/hir"
	"vesper/internal/inference"
	"vesper/internal/lowering"
	"vesper/internal/registry"
	"vesper/internal/scopecheck"
	"vesper/internal/typedb"
	"vesper/internal/typeerrors"
	"vesper/internal/vesperrors"
)

// Options configures a pipeline run. The zero value is valid: no
// parallelism limit and a discarding logger.
type Options struct {
	// MaxParallel bounds how many compilation units RunMany analyzes at
	// once. Zero means unlimited (bounded only by errgroup's default
	// unbounded fan-out).
	MaxParallel int
	// Logger receives rare internal diagnostics. Nil is treated as a
	// discarding logger, matching the core's status as a silent library
	// with no I/O in its hot path (spec §5).
	Logger *log.Logger
}

// Result is one compilation unit's full analysis output: every
// intermediate HIR snapshot spec §6 calls for, tagged with a UUID so a
// caller running many units concurrently can tell them apart.
type Result struct {
	UnitID              uuid.UUID
	InitialHIR          []hir.Stmt
	AfterFirstAssignHIR []hir.Stmt
	FinalHIR            []hir.Stmt
}

// Run lowers program, builds its name registry, promotes first
// assignments, checks scopes, and infers types, in that order, returning
// the full Result alongside any collected type errors. A scope or
// lowering bug still panics with a *vesperrors.Fatal — Run does not
// recover one itself, matching the original's do_analysis, which also
// lets a panic propagate to its caller.
func Run(program ast.Program, db *typedb.Database, globals *registry.Registry, opts Options) (*Result, *typeerrors.Bag) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(logWriter{}, "", 0)
	}

	initial := lowering.Lower(program)
	logger.Printf("lowered %d top-level statements", len(initial))

	unitRegistry := registry.Build(db, initial)
	merged := registry.New()
	merged.Include(globals)
	merged.Include(unitRegistry)

	afterFirstAssign := firstassign.Promote(initial)

	scopecheck.Check(merged, afterFirstAssign)

	final, errs := inference.Infer(merged, db, afterFirstAssign)

	return &Result{
		UnitID:              uuid.New(),
		InitialHIR:          initial,
		AfterFirstAssignHIR: afterFirstAssign,
		FinalHIR:            final,
	}, errs
}

// RunMany analyzes each unit independently and concurrently: spec §5
// permits this because each unit owns its own HIR, name registry, and
// intermediary counter, and the shared type database is immutable once
// built. Bounded by opts.MaxParallel via errgroup, the same pattern the
// teacher's own goroutine-per-worker code uses for bounded fan-out.
func RunMany(ctx context.Context, units []ast.Program, db *typedb.Database, globals *registry.Registry, opts Options) ([]*Result, []*typeerrors.Bag, error) {
	results := make([]*Result, len(units))
	errBags := make([]*typeerrors.Bag, len(units))

	g, ctx := errgroup.WithContext(ctx)
	if opts.MaxParallel > 0 {
		g.SetLimit(opts.MaxParallel)
	}

	for i, unit := range units {
		i, unit := i, unit
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			result, errs := Run(unit, db, globals, opts)
			results[i] = result
			errBags[i] = errs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return results, errBags, nil
}

type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) { return len(p), nil }

// Recover converts a recovered panic value into a *vesperrors.Fatal, or
// re-panics if it isn't one — the pipeline boundary's half of the
// fatal/collected error split described in SPEC_FULL.md's AMBIENT STACK
// section, mirroring the teacher's own parser_test.go recover() idiom.
func Recover(r interface{}) *vesperrors.Fatal {
	f, ok := vesperrors.AsFatal(r)
	if !ok {
		panic(r)
	}
	return f
}
