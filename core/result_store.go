package core

import "context"

// ResultStore defines the interface for exported run outputs (rendered CSV
// series, JSON summaries). Implementations should be thread-safe and scope
// payloads by run identifier. Short method names (Save/Get/List/Delete)
// mirror the RunStore interface for consistency.
type ResultStore interface {
	Save(ctx context.Context, runID, name string, data []byte) error
	Get(ctx context.Context, runID, name string) ([]byte, error)
	List(ctx context.Context, runID string) ([]string, error)
	Delete(ctx context.Context, runID, name string) error
}
