// Package driver orchestrates formatting runs across many files: discovery,
// a bounded worker pool, in-place rewriting, and aggregate reporting. One
// file's failure never aborts its siblings.
package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/nushell/nufmt/internal/config"
	"github.com/nushell/nufmt/internal/format"
	"github.com/nushell/nufmt/internal/logging"
)

// Result is the outcome of formatting one file.
type Result struct {
	Path    string
	Changed bool
	Err     error
}

// Options controls a batch run.
type Options struct {
	Config config.Config
	// DryRun checks files without rewriting them.
	DryRun bool
	// Jobs bounds the worker pool; <= 0 means GOMAXPROCS.
	Jobs   int
	Logger *log.Logger
}

// Run formats (or, in dry-run mode, checks) every source file reachable from
// paths. Results come back in discovery order, one per file, with per-file
// errors recorded rather than propagated.
func Run(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}

	files, err := CollectFiles(paths, opts.Config)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		opts.Logger.Warn("no .nu files found", "paths", strings.Join(paths, ", "))
		return nil, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// one slot per file: indexes are unique per goroutine, no mutex needed
	results := make([]Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = formatOne(path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func formatOne(path string, opts Options) Result {
	content, err := os.ReadFile(path) // #nosec G304 -- path comes from CLI arguments
	if err != nil {
		return Result{Path: path, Err: err}
	}

	changed, formatted, err := format.Check(path, content, opts.Config)
	if err != nil {
		return Result{Path: path, Err: err}
	}
	if !changed {
		opts.Logger.Debug("already formatted", "file", path)
		return Result{Path: path}
	}

	opts.Logger.Debug("would reformat", "file", path)
	if diff := unifiedDiff(path, content, formatted); diff != "" {
		opts.Logger.Debug(diff)
	}

	if opts.DryRun {
		return Result{Path: path, Changed: true}
	}
	if err := rewrite(path, formatted); err != nil {
		return Result{Path: path, Changed: true, Err: err}
	}
	opts.Logger.Info("reformatted", "file", path)
	return Result{Path: path, Changed: true}
}

// rewrite replaces the file's contents, keeping its permission bits.
func rewrite(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, content, mode)
}

// CollectFiles expands the argument list into a sorted, deduplicated list of
// source files. Explicit file arguments are taken as-is; directories are
// walked recursively for *.nu. Exclude globs filter discovered files but
// never explicitly named ones.
func CollectFiles(paths []string, cfg config.Config) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string

	add := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(p, ".nu") {
				return nil
			}
			if cfg.Excluded(filepath.ToSlash(p)) {
				return nil
			}
			add(p)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}
