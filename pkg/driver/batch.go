package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"runtime"
	"sort"
	"sync"
	"time"

	"mvelc/pkg/errors"
	"mvelc/pkg/source"
)

// UnitExtension is the file extension FindUnits looks for.
const UnitExtension = ".mvel"

// UnitResult is the outcome of compiling one file in a batch.
type UnitResult struct {
	Path     string
	Source   string
	Result   *Result
	Errors   []errors.MvelcError
	Duration time.Duration
	WorkerID int
}

// OK reports whether the unit compiled.
func (u *UnitResult) OK() bool { return len(u.Errors) == 0 }

// BatchStats summarizes a CompileAll run.
type BatchStats struct {
	Units       int
	Failed      int
	WorkerCount int
	TotalTime   time.Duration // summed per-unit time
	AverageTime time.Duration
}

// FindUnits lists the unit files under root in fsys, sorted by path.
func FindUnits(fsys fs.FS, root string) ([]string, error) {
	var paths []string
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && path.Ext(p) == UnitExtension {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

type batchJob struct {
	index int
	path  string
}

// CompileAll compiles every path in fsys on a pool of workers and returns
// the results in the order of paths. The session's class model is shared
// read-only; every unit gets its own arena, resolver and engine. A workers
// value of zero or less uses one worker per CPU.
func (m *Mvelc) CompileAll(ctx context.Context, fsys fs.FS, paths []string, workers int) ([]*UnitResult, BatchStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, BatchStats{}, err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = max(len(paths), 1)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan batchJob)
	results := make([]*UnitResult, len(paths))
	var wg sync.WaitGroup
	for id := 0; id < workers; id++ {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case job, ok := <-jobs:
					if !ok {
						return
					}
					results[job.index] = m.compileUnit(fsys, job.path, id)
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	var err error
submit:
	for i, p := range paths {
		select {
		case jobs <- batchJob{index: i, path: p}:
		case <-ctx.Done():
			err = ctx.Err()
			break submit
		}
	}
	close(jobs)
	wg.Wait()
	if err != nil {
		return nil, BatchStats{}, err
	}

	stats := BatchStats{Units: len(paths), WorkerCount: workers}
	for _, r := range results {
		if !r.OK() {
			stats.Failed++
		}
		stats.TotalTime += r.Duration
	}
	if stats.Units > 0 {
		stats.AverageTime = stats.TotalTime / time.Duration(stats.Units)
	}
	debugPrintf("// [Driver] batch: %d units, %d failed, %d workers\n", stats.Units, stats.Failed, stats.WorkerCount)
	return results, stats, nil
}

func (m *Mvelc) compileUnit(fsys fs.FS, p string, workerID int) *UnitResult {
	start := time.Now()
	unit := &UnitResult{Path: p, WorkerID: workerID}
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		unit.Errors = []errors.MvelcError{&errors.InternalError{Msg: fmt.Sprintf("failed to read file '%s': %s", p, err)}}
	} else {
		unit.Source = string(data)
		unit.Result, unit.Errors = m.compile(source.FromFile(p, unit.Source))
	}
	unit.Duration = time.Since(start)
	return unit
}
