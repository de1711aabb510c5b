package client

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
)

// ForecastFetcher is implemented by ForecastClient and by test fakes.
type ForecastFetcher interface {
	Fetch(ctx context.Context, req domain.ForecastRequest) (*domain.ForecastResponse, error)
}

type ForecastClient struct {
	c httpClient
}

func NewForecastClient(baseURL string, timeout time.Duration) *ForecastClient {
	return &ForecastClient{c: newHTTPClient("forecast", baseURL, timeout)}
}

// Fetch posts the request to /analysis/demand and returns the body as sent.
// Records are not sanitized here. A null or malformed 2xx body yields an
// empty response; only transport and status failures are errors.
func (f *ForecastClient) Fetch(ctx context.Context, req domain.ForecastRequest) (*domain.ForecastResponse, error) {
	var raw *domain.ForecastResponse
	err := f.c.do(ctx, http.MethodPost, "/analysis/demand", req, &raw)

	var decodeErr *DecodeError
	switch {
	case errors.As(err, &decodeErr):
		log.Warn().
			Err(decodeErr.Err).
			Str("period", req.String()).
			Msg("forecast: malformed response treated as no data")
		return &domain.ForecastResponse{}, nil
	case err != nil:
		return nil, err
	case raw == nil:
		return &domain.ForecastResponse{}, nil
	}
	return raw, nil
}

var _ ForecastFetcher = (*ForecastClient)(nil)
