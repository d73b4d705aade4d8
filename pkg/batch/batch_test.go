package batch_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jomc/jomc/pkg/batch"
	"github.com/jomc/jomc/pkg/errs"
	"github.com/jomc/jomc/pkg/model"
)

func detailTasks(n int) []batch.Task {
	tasks := make([]batch.Task, n)
	for i := range tasks {
		i := i
		tasks[i] = batch.Task{
			Target: fmt.Sprintf("t%d.class", i),
			Run: func(ctx context.Context) batch.Result {
				return batch.Success(
					model.NewDetail("FIRST", model.LevelInfo, "%d", i),
					model.NewDetail("SECOND", model.LevelInfo, "%d", i),
				)
			},
		}
	}
	return tasks
}

func TestRunOrderIndependentOfWorkers(t *testing.T) {
	want, err := (&batch.Runner{}).Run(context.Background(), detailTasks(20))
	require.NoError(t, err)
	require.Len(t, want.Details, 40)
	assert.Equal(t, "0", want.Details[0].Message)
	assert.Equal(t, "19", want.Details[39].Message)

	for _, workers := range []int{-1, 1, 3, 50} {
		got, err := (&batch.Runner{Workers: workers}).Run(context.Background(), detailTasks(20))
		require.NoError(t, err)
		assert.Equal(t, want, got, "workers=%d", workers)
	}
}

func TestRunEmpty(t *testing.T) {
	report, err := (&batch.Runner{Workers: 4}).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, report.Details)
	assert.True(t, report.Valid())
}

func TestRunFirstFailureKeepsKind(t *testing.T) {
	for _, workers := range []int{0, -1, 2} {
		var ran int32
		tasks := detailTasks(6)
		tasks[2].Run = func(ctx context.Context) batch.Result {
			return batch.Failure(errs.Model("model broken"))
		}
		tasks[4].Run = func(ctx context.Context) batch.Result {
			return batch.Failure(errs.IO(errors.New("disk gone")))
		}
		for i := range tasks {
			run := tasks[i].Run
			tasks[i].Run = func(ctx context.Context) batch.Result {
				atomic.AddInt32(&ran, 1)
				return run(ctx)
			}
		}

		report, err := (&batch.Runner{Workers: workers}).Run(context.Background(), tasks)
		require.Error(t, err, "workers=%d", workers)
		assert.Nil(t, report)
		assert.Equal(t, errs.KindModel, errs.KindOf(err), "workers=%d", workers)
		assert.Contains(t, err.Error(), "model broken")

		assert.Equal(t, int32(6), atomic.LoadInt32(&ran), "every task runs, workers=%d", workers)
	}
}

func TestRunPanicIsRuntime(t *testing.T) {
	for _, workers := range []int{0, 2} {
		tasks := detailTasks(3)
		tasks[1].Run = func(ctx context.Context) batch.Result {
			panic("boom")
		}

		_, err := (&batch.Runner{Workers: workers}).Run(context.Background(), tasks)
		require.Error(t, err)
		assert.Equal(t, errs.KindRuntime, errs.KindOf(err))
		assert.Contains(t, err.Error(), "boom")
	}
}

func TestRunUndeclaredFailure(t *testing.T) {
	tasks := detailTasks(2)
	tasks[0].Run = func(ctx context.Context) batch.Result {
		return batch.Failure(errors.New("plain"))
	}

	_, err := (&batch.Runner{}).Run(context.Background(), tasks)
	require.Error(t, err)
	assert.Equal(t, errs.KindUndeclared, errs.KindOf(err))
}

func TestRunCancelledIsIO(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{0, 2} {
		_, err := (&batch.Runner{Workers: workers}).Run(ctx, detailTasks(3))
		require.Error(t, err)
		assert.Equal(t, errs.KindIO, errs.KindOf(err))
		assert.True(t, errors.Is(err, context.Canceled))
	}
}

func TestCoalesce(t *testing.T) {
	type item struct{ path, id string }

	groups := batch.Coalesce([]item{
		{"a.class", "1"},
		{"b.class", "2"},
		{"a.class", "3"},
	}, func(i item) string { return i.path })

	require.Len(t, groups, 2)
	assert.Equal(t, "a.class", groups[0].Target)
	assert.Equal(t, []item{{"a.class", "1"}, {"a.class", "3"}}, groups[0].Items)
	assert.Equal(t, "b.class", groups[1].Target)
}
