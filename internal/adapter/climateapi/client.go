package climateapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/climax-batch/internal/domain"
)

// Client implements domain.ClimateService against a remote climate data
// service over HTTP.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a climate service client. token may be empty when the
// service does not require authentication.
func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// ClimateData posts the trial parameters and decodes the derived climate data.
func (c *Client) ClimateData(ctx context.Context, params domain.TrialParams) (domain.ClimateData, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return domain.ClimateData{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/climate-data", bytes.NewReader(body))
	if err != nil {
		return domain.ClimateData{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ClimateData{}, fmt.Errorf("climate data request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return domain.ClimateData{}, fmt.Errorf("culture %d: %w", params.CultureID, domain.ErrClimateDataNotFound)
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.ClimateData{}, fmt.Errorf("climate API error: status %d: %s", resp.StatusCode, msg)
	}

	var data domain.ClimateData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return domain.ClimateData{}, fmt.Errorf("decode response: %w", err)
	}

	c.logger.Debug("climate data received", "culture_id", params.CultureID, "irrigated", data.Irrigated)
	return data, nil
}
