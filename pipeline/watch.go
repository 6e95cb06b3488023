package pipeline

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// settleDelay gives a newly created file time to be fully written
// before the pipeline reads it.
const settleDelay = 200 * time.Millisecond

// Watch processes *.wav files as they appear under inputDir, writing
// results to the mirrored path under outputDir, until ctx is
// cancelled. Subdirectories are watched recursively, including ones
// created while watching. Per-file failures are logged and skipped;
// watching always continues.
func (p *Pipeline) Watch(ctx context.Context, inputDir, outputDir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addRecursive(watcher, inputDir); err != nil {
		return err
	}
	p.log.Info("watching for WAV files",
		zap.String("input_dir", inputDir),
		zap.String("output_dir", outputDir),
		zap.Float64("tempo", p.proc.Tempo()),
	)

	jobCh := make(chan job)
	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				time.Sleep(settleDelay)
				_ = p.processJob(j)
			}
		}()
	}
	defer func() {
		close(jobCh)
		wg.Wait()
	}()

	seen := make(map[string]bool)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
				// A new directory needs its own watch before files
				// land in it.
				if err := addRecursive(watcher, ev.Name); err != nil {
					p.log.Warn("watch new directory", zap.String("path", ev.Name), zap.Error(err))
				}
				continue
			}
			if !isWAV(ev.Name) || seen[ev.Name] {
				continue
			}
			seen[ev.Name] = true

			rel, err := filepath.Rel(inputDir, ev.Name)
			if err != nil {
				p.log.Warn("relative path", zap.String("path", ev.Name), zap.Error(err))
				continue
			}
			j := job{id: uuid.NewString(), in: ev.Name, out: filepath.Join(outputDir, rel)}
			select {
			case jobCh <- j:
			case <-ctx.Done():
				return nil
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.log.Warn("watcher error", zap.Error(err))
		}
	}
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

