package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"lotdesk/internal/model"

	"github.com/rs/zerolog"
)

// AcceptClient dispatches one modification batch to the external accept
// endpoint. The backend applies the batch atomically; partial application is
// a contract violation this client does not defend against.
//
// A returned error means the request never produced a structured answer
// (network failure, timeout, unparseable reply). A structured rejection
// comes back as a response with Success=false.
type AcceptClient interface {
	Submit(ctx context.Context, req *model.AcceptRequest) (*model.AcceptResponse, error)
}

// httpAcceptClient implements AcceptClient over JSON/HTTP.
type httpAcceptClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   zerolog.Logger
}

// NewHTTPAcceptClient creates a client for the accept endpoint at url.
func NewHTTPAcceptClient(url, apiKey string, timeout time.Duration, logger zerolog.Logger) AcceptClient {
	return &httpAcceptClient{
		endpoint: url,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "accept-client").Logger(),
	}
}

// Submit posts the accept request and decodes the structured reply.
func (c *httpAcceptClient) Submit(ctx context.Context, req *model.AcceptRequest) (*model.AcceptResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode accept request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build accept request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-API-Key", c.apiKey)
	}

	start := time.Now()
	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Error().Err(err).Str("offer_id", req.OfferID).Msg("accept request failed")
		return nil, fmt.Errorf("accept request failed: %w", err)
	}
	defer httpResp.Body.Close()

	var resp model.AcceptResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		c.logger.Error().Err(err).
			Str("offer_id", req.OfferID).
			Int("status", httpResp.StatusCode).
			Msg("failed to decode accept response")
		return nil, fmt.Errorf("failed to decode accept response: %w", err)
	}

	c.logger.Info().
		Str("offer_id", req.OfferID).
		Int("status", httpResp.StatusCode).
		Bool("success", resp.Success).
		Int("modification_count", len(req.Modifications)).
		Dur("duration", time.Since(start)).
		Msg("accept endpoint responded")

	return &resp, nil
}
