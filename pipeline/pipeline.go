// Package pipeline discovers WAV files under an input tree and runs
// each through decode → stretch → encode on a bounded worker pool,
// mirroring relative paths under the output tree. Every file is an
// independent task; the pool is the only coordination point.
package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	wavtempo "github.com/soundkit/wavtempo"
)

// FileError records the failure of a single file.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }

func (e *FileError) Unwrap() error { return e.Err }

// Result summarizes a pipeline run.
type Result struct {
	Processed int
	Failed    int
	Errors    []*FileError
}

// Config controls the pool.
type Config struct {
	// Workers is the number of files processed concurrently.
	Workers int
	// FailFast aborts the run on the first per-file failure instead of
	// skipping the file and continuing.
	FailFast bool
	// Logger receives per-file progress. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Pipeline runs files through a Processor.
type Pipeline struct {
	proc     *wavtempo.Processor
	workers  int
	failFast bool
	log      *zap.Logger
}

// New creates a pipeline around proc.
func New(proc *wavtempo.Processor, cfg Config) *Pipeline {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		proc:     proc,
		workers:  workers,
		failFast: cfg.FailFast,
		log:      log,
	}
}

type job struct {
	id  string
	in  string
	out string
}

// Run processes every *.wav under inputDir, writing results to the
// mirrored path under outputDir. It returns a non-nil error only when
// discovery fails, the context is cancelled, or FailFast is set and a
// file failed; otherwise failures are recorded in the Result and the
// run continues.
func (p *Pipeline) Run(ctx context.Context, inputDir, outputDir string) (*Result, error) {
	jobs, err := discover(inputDir, outputDir)
	if err != nil {
		return nil, err
	}
	p.log.Info("starting batch run",
		zap.String("input_dir", inputDir),
		zap.String("output_dir", outputDir),
		zap.Float64("tempo", p.proc.Tempo()),
		zap.Int("files", len(jobs)),
		zap.Int("workers", p.workers),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobCh := make(chan job)
	res := &Result{}
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				if ctx.Err() != nil {
					continue
				}
				err := p.processJob(j)
				mu.Lock()
				if err != nil {
					res.Failed++
					res.Errors = append(res.Errors, &FileError{Path: j.in, Err: err})
					if p.failFast {
						cancel()
					}
				} else {
					res.Processed++
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, j := range jobs {
		select {
		case jobCh <- j:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobCh)
	wg.Wait()

	p.log.Info("batch run finished",
		zap.Int("processed", res.Processed),
		zap.Int("failed", res.Failed),
	)

	if p.failFast && len(res.Errors) > 0 {
		return res, res.Errors[0]
	}
	if err := ctx.Err(); err != nil && len(res.Errors) == 0 {
		return res, err
	}
	return res, nil
}

// processJob runs one file through the processor, creating parent
// directories under the output tree as needed.
func (p *Pipeline) processJob(j job) error {
	start := time.Now()
	if err := os.MkdirAll(filepath.Dir(j.out), 0o755); err != nil {
		p.log.Error("create output directory", zap.String("job_id", j.id), zap.String("path", j.out), zap.Error(err))
		return err
	}
	if err := p.proc.ProcessFile(j.in, j.out); err != nil {
		p.log.Error("process file",
			zap.String("job_id", j.id),
			zap.String("input", j.in),
			zap.Error(err),
		)
		return err
	}
	p.log.Info("processed file",
		zap.String("job_id", j.id),
		zap.String("input", j.in),
		zap.String("output", j.out),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// discover walks inputDir collecting every .wav file, pairing it with
// its mirrored output path.
func discover(inputDir, outputDir string) ([]job, error) {
	var jobs []job
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isWAV(path) {
			return nil
		}
		rel, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		jobs = append(jobs, job{
			id:  uuid.NewString(),
			in:  path,
			out: filepath.Join(outputDir, rel),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", inputDir, err)
	}
	return jobs, nil
}

func isWAV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}
