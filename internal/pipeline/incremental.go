package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/tripcast/internal/model"
	"github.com/theirongolddev/tripcast/internal/source"
	"github.com/theirongolddev/tripcast/internal/store"
)

// ImportLedger is the subset of the store an import writes to.
type ImportLedger interface {
	GetTrackedFiles(ctx context.Context) (map[string]store.FileInfo, error)
	SaveBatch(ctx context.Context, b model.Batch, fi store.FileInfo) error
}

// ImportResult extends LoadResult with change-tracking metadata.
type ImportResult struct {
	LoadResult
	Unchanged int
	Reparsed  int
	Saved     int
}

// ImportOptions tune an import run.
type ImportOptions struct {
	// Force re-reads files even when their size and mtime are unchanged.
	Force    bool
	Progress ProgressFunc
	Logger   zerolog.Logger
}

// Import discovers ledger files under path, skips the ones already imported
// unchanged, parses the rest in parallel, and saves each file atomically.
func Import(ctx context.Context, path string, ledger ImportLedger, accrual source.AccrualFunc, opts ImportOptions) (*ImportResult, error) {
	files, err := source.Discover(path)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	result := &ImportResult{LoadResult: LoadResult{TotalFiles: len(files)}}
	if len(files) == 0 {
		return result, nil
	}

	tracked, err := ledger.GetTrackedFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading file tracker: %w", err)
	}

	var toReparse []source.DiscoveredFile
	var infos []store.FileInfo

	for _, f := range files {
		info, err := os.Stat(f.Path)
		if err != nil {
			continue
		}
		fi := store.FileInfo{MtimeNs: info.ModTime().UnixNano(), SizeBytes: info.Size()}

		if prev, ok := tracked[f.Path]; ok && !opts.Force && prev == fi {
			result.Unchanged++
			continue
		}
		toReparse = append(toReparse, f)
		infos = append(infos, fi)
	}
	result.Reparsed = len(toReparse)

	if len(toReparse) == 0 {
		return result, nil
	}

	results := parseAll(toReparse, accrual, func(n int) {
		if opts.Progress != nil {
			opts.Progress(n+result.Unchanged, result.TotalFiles)
		}
	})

	for i, pr := range results {
		if !result.collect(pr) {
			opts.Logger.Warn().Err(pr.Err).Str("file", toReparse[i].Path).Msg("skipping unreadable ledger file")
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		pr.Batch.FilePath = toReparse[i].Path
		if err := ledger.SaveBatch(ctx, pr.Batch, infos[i]); err != nil {
			result.FileErrors++
			result.Errors = append(result.Errors, fmt.Errorf("saving %s: %w", toReparse[i].Path, err))
			opts.Logger.Error().Err(err).Str("file", toReparse[i].Path).Msg("saving ledger file")
			continue
		}
		result.Saved++
		if pr.ParseErrors > 0 {
			opts.Logger.Warn().Int("lines", pr.ParseErrors).Str("file", toReparse[i].Path).Msg("skipped malformed ledger lines")
		}
	}

	return result, nil
}
