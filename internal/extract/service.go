package extract

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"csvextract/internal/logging"
)

// Fetcher downloads the raw source content for an extraction.
// Implemented by fetch.Client; tests substitute a stub.
type Fetcher interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Service runs extractions end to end: download, decode, resolve the
// mapping and build records. It holds no per-request state.
type Service struct {
	fetcher Fetcher
}

// NewService creates an extraction service backed by the given fetcher.
func NewService(fetcher Fetcher) *Service {
	return &Service{fetcher: fetcher}
}

// Extract downloads the file at srcURL, locates the header row, resolves
// mapping against it and returns one record per data row in source order.
// Every failure aborts the whole request; no partial results.
func (s *Service) Extract(ctx context.Context, srcURL string, mapping Mapping, opts Options) ([]Record, error) {
	logger := logging.FromContext(ctx).With("extraction_id", uuid.New().String())

	data, err := s.fetcher.Download(ctx, srcURL)
	if err != nil {
		logger.Warn("source download failed", "url", srcURL, "error", err)
		return nil, err
	}

	rows, err := DecodeRows(data)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("source file has no data rows")
	}

	headerIdx := FindHeaderRow(rows, mapping)
	headerRow := rows[headerIdx]
	dataRows := rows[headerIdx+1:]

	cm, err := Resolve(headerRow, mapping)
	if err != nil {
		return nil, err
	}

	records := cm.Apply(dataRows)

	if opts.SplitDimensions != nil {
		for _, rec := range records {
			applyDimensionSplit(rec, opts.SplitDimensions)
		}
	}

	if opts.ExcludePhoto {
		for _, rec := range records {
			if _, ok := rec["Photo"]; ok {
				rec["Photo"] = ""
			}
		}
	}

	logger.Info("extraction complete",
		"url", srcURL,
		"header_row", headerIdx,
		"rows", len(records),
		"fields", len(cm.Bindings()),
	)

	return records, nil
}
