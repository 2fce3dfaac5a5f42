package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/crownhub/crowns-be/internal/export"
	"github.com/crownhub/crowns-be/internal/storage"
)

// ExportService dumps whole collections as CSV for administrators.
type ExportService struct {
	store storage.Dumper
}

// NewExportService constructs the service.
func NewExportService(store storage.Dumper) *ExportService {
	return &ExportService{store: store}
}

// CSV renders the named collection.
func (s *ExportService) CSV(ctx context.Context, collection string) ([]byte, error) {
	records, err := s.store.DumpCollection(ctx, collection)
	if err != nil {
		if errors.Is(err, storage.ErrUnknownCollection) {
			return nil, invalid("unknown collection %q", collection)
		}
		return nil, err
	}
	out, err := export.CSV(records)
	if errors.Is(err, export.ErrEmpty) {
		return nil, fmt.Errorf("%w: no records in %s", ErrNotFound, collection)
	}
	return out, err
}
