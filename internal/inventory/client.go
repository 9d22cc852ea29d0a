package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Vehicle is the upstream inventory record. The inventory service delivers it
// already cleaned: canonical fuel and body style labels, typed numbers.
type Vehicle struct {
	Make       string  `json:"make"`
	Model      string  `json:"model"`
	Year       int     `json:"year"`
	FuelType   string  `json:"fuel_type"`
	Horsepower float64 `json:"horsepower"`
	DoorCount  int     `json:"door_count"`
	BodyStyle  string  `json:"body_style"`
}

type Client interface {
	FetchVehicles(ctx context.Context) ([]Vehicle, error)
}

type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) doReq(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("inventory %s %s: %d %s", method, path, resp.StatusCode, string(body))
	}
	return body, nil
}

func (c *HTTPClient) FetchVehicles(ctx context.Context) ([]Vehicle, error) {
	data, err := c.doReq(ctx, "GET", "/v1/vehicles")
	if err != nil {
		return nil, err
	}
	var vehicles []Vehicle
	if err := json.Unmarshal(data, &vehicles); err != nil {
		return nil, fmt.Errorf("decode inventory response: %w", err)
	}
	return vehicles, nil
}
