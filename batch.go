package audiotags

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of reading one file in ReadMany.
type Result struct {
	// Path that was read
	Path string

	// Format the file was opened as, FormatUnknown on failure
	Format Format

	// Tags as returned by File.ReadAll
	Tags TagSet

	// Warnings collected while reading
	Warnings []Warning

	// Err is set when the file could not be read
	Err error
}

// ReadMany opens and reads multiple files concurrently.
//
// Files are read in parallel with a concurrency limit (runtime.NumCPU()
// unless WithConcurrency is given). Results are returned in the same order
// as paths. An unreadable file does not stop the batch; its Result carries
// the error instead.
//
// The returned error is non-nil only if ctx is cancelled. Results for files
// that were not reached carry the context error.
//
// Example:
//
//	results, err := audiotags.ReadMany(ctx, paths)
//	for _, r := range results {
//		if r.Err != nil {
//			continue
//		}
//		fmt.Println(r.Path, r.Tags.GetFirst("title"))
//	}
func ReadMany(ctx context.Context, paths []string, opts ...Option) ([]Result, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	options := applyOptions(opts)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(options.concurrency)

	results := make([]Result, len(paths))
	done := make([]bool, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = readOne(path, opts)
			done[i] = true
			return nil
		})
	}

	err := g.Wait()
	for i := range results {
		if !done[i] {
			results[i] = Result{Path: paths[i], Err: context.Cause(ctx)}
		}
	}

	var failed int
	for _, r := range results {
		if r.Err != nil && !errors.Is(r.Err, context.Canceled) {
			failed++
		}
	}
	if failed > 0 {
		options.logger.Debug("batch finished with unreadable files",
			zap.Int("files", len(paths)),
			zap.Int("failed", failed))
	}

	return results, err
}

func readOne(path string, opts []Option) Result {
	file, err := Open(path, opts...)
	if err != nil {
		return Result{Path: path, Err: err}
	}
	defer file.Close() //nolint:errcheck // Read-only access

	tags := file.ReadAll()
	return Result{
		Path:     path,
		Format:   file.Format,
		Tags:     tags,
		Warnings: file.Warnings,
	}
}
