// Package batch runs one task per target file, optionally on a pool
// of workers, and merges the results.
package batch

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jomc/jomc/pkg/common"
	"github.com/jomc/jomc/pkg/errs"
	"github.com/jomc/jomc/pkg/model"
)

// Result is the outcome of a single task.
type Result struct {
	// Kind classifies Err. It is derived from Err when left as errs.KindNone.
	Kind    errs.Kind
	Err     error
	Details []model.Detail
}

// Success is a result without failure.
func Success(details ...model.Detail) Result {
	return Result{Details: details}
}

// Failure is a result failing with err, classified by errs.KindOf.
func Failure(err error) Result {
	return Result{Kind: errs.KindOf(err), Err: err}
}

// Task is the unit of work for one target file.
type Task struct {
	Target string
	Run    func(ctx context.Context) Result
}

// Runner runs tasks.
type Runner struct {
	// Workers is the size of the pool. Zero means no pool, so tasks run
	// one after another on the calling goroutine. A negative value means
	// the pool is unbounded.
	Workers int

	Logger *slog.Logger
}

// Run runs all tasks and concatenates their details in task order.
//
// Every task runs, whether or not another one fails, so the files a
// failing batch leaves behind do not depend on Workers. If any task fails,
// the failure of the first failing task in task order is returned with
// its kind preserved. Tasks that have not started when
// ctx is done fail with an I/O error carrying the context error.
func (r *Runner) Run(ctx context.Context, tasks []Task) (*model.Report, error) {
	logger := common.LoggerFrom(ctx, r.Logger)
	results := make([]Result, len(tasks))

	if r.Workers == 0 || len(tasks) <= 1 {
		logger.Debug("Running tasks sequentially.", "tasks", len(tasks))

		for i, t := range tasks {
			results[i] = r.run(ctx, logger, t)
		}
	} else {
		logger.Debug("Running tasks in parallel.", "tasks", len(tasks), "workers", r.Workers)

		var group errgroup.Group
		if r.Workers > 0 {
			group.SetLimit(r.Workers)
		}

		for i, t := range tasks {
			i, t := i, t
			group.Go(func() error {
				results[i] = r.run(ctx, logger, t)
				return results[i].Err
			})
		}
		_ = group.Wait()
	}

	for _, res := range results {
		if res.Err != nil {
			return nil, failure(res)
		}
	}

	report := &model.Report{}
	for _, res := range results {
		report.Add(res.Details...)
	}
	return report, nil
}

func (r *Runner) run(ctx context.Context, logger *slog.Logger, t Task) (res Result) {
	logger = logger.With("target", t.Target)

	defer func() {
		if p := recover(); p != nil {
			logger.Error("Task panicked.", "panic", p)
			res = Result{Kind: errs.KindRuntime, Err: fmt.Errorf("task for %v panicked: %v", t.Target, p)}
		}
	}()

	if err := ctx.Err(); err != nil {
		return Result{Kind: errs.KindIO, Err: err}
	}

	logger.Debug("Task started.")
	res = t.Run(common.WithLogger(ctx, logger))
	if res.Err != nil {
		logger.Debug("Task failed.", "error", res.Err)
	} else {
		logger.Debug("Task finished.", "details", len(res.Details))
	}
	return res
}

func failure(res Result) error {
	kind := res.Kind
	if kind == errs.KindNone {
		kind = errs.KindOf(res.Err)
	}
	return errs.Wrap(kind, res.Err)
}

// Group is a set of items sharing a target.
type Group[T any] struct {
	Target string
	Items  []T
}

// Coalesce groups items by their target, so that each target is
// processed by a single task. Groups are ordered by first appearance.
func Coalesce[T any](items []T, target func(T) string) []Group[T] {
	var groups []Group[T]
	index := make(map[string]int)

	for _, item := range items {
		key := target(item)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group[T]{Target: key})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	return groups
}
