package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/storage"
	"github.com/rs/zerolog/log"
)

var ErrStorageDisabled = errors.New("report storage is not configured")

// Exporter uploads rendered reports under a key prefix.
type Exporter struct {
	store  storage.ObjectStorage
	prefix string
	now    func() time.Time
}

// NewExporter returns an exporter. A nil store yields ErrStorageDisabled on Export.
func NewExporter(store storage.ObjectStorage, prefix string) *Exporter {
	return &Exporter{store: store, prefix: prefix, now: time.Now}
}

// Key builds the object key for a report generated at ts.
func (e *Exporter) Key(req domain.ForecastRequest, ts time.Time) string {
	name := fmt.Sprintf("forecast_%04d-%02d_h%d_%s.csv",
		req.Year, req.Month, req.Holidays, ts.UTC().Format("20060102T150405Z"))
	return path.Join(e.prefix, name)
}

// Export renders the analysis and uploads it, returning the object key.
func (e *Exporter) Export(ctx context.Context, req domain.ForecastRequest, a domain.Analysis) (string, error) {
	if e == nil || e.store == nil {
		return "", ErrStorageDisabled
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, req, a); err != nil {
		return "", err
	}

	key := e.Key(req, e.now())
	if err := e.store.UploadObject(ctx, key, buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to upload report: %w", err)
	}

	log.Info().Str("key", key).Int("bytes", buf.Len()).Msg("Exported analysis report")
	return key, nil
}
