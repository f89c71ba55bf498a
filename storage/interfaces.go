package storage

import "github.com/gca01/pm-price-ss/models"

// RecordWriter is the interface any persistence backend must satisfy. Append
// must never rewrite, reorder, or deduplicate previously written rows.
type RecordWriter interface {
	Append(record *models.PriceRecord) error
	Close() error
}

// NopWriter discards records; it backs dry-run mode so the pipeline can be
// validated end-to-end without side effects.
type NopWriter struct{}

func (NopWriter) Append(*models.PriceRecord) error { return nil }
func (NopWriter) Close() error                     { return nil }
