package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/quillon/agentdeck/core"
)

// Service describes one named HTTP endpoint the API agent may call. The API
// key is read from the named environment variable at call time so secrets
// never live in configuration files.
type Service struct {
	BaseURL   string `koanf:"base_url"`
	APIKeyEnv string `koanf:"api_key_env"`
}

// APIOptions configure the API agent.
type APIOptions struct {
	// HTTPClient defaults to a client with a 30s timeout.
	HTTPClient *http.Client
}

// API performs HTTP requests against a fixed set of configured services.
// Requests to services outside the map are rejected, which keeps workflow
// submissions from turning the engine into an open proxy.
type API struct {
	services map[string]Service
	client   *http.Client
}

// NewAPI constructs the API agent over the given service map.
func NewAPI(services map[string]Service, optFns ...func(o *APIOptions)) *API {
	opts := APIOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &API{services: services, client: opts.HTTPClient}
}

// Descriptor returns the registration metadata for this agent.
func (a *API) Descriptor() core.Descriptor {
	return core.Descriptor{
		Name:        "api_agent",
		Description: "Calls configured external HTTP services",
		Capabilities: []string{
			"api_integration",
			"http_requests",
		},
	}
}

// Invoke implements core.Agent. Input fields: service (required), endpoint,
// method (default GET), data (JSON body), params (query string), headers.
func (a *API) Invoke(ctx context.Context, input core.Payload, _ *core.StepResults) (core.Payload, error) {
	name := input.GetString("service")
	if name == "" {
		return nil, fmt.Errorf("service name is required")
	}
	svc, ok := a.services[name]
	if !ok {
		return nil, fmt.Errorf("unknown service: %s", name)
	}

	method := input.GetString("method")
	if method == "" {
		method = http.MethodGet
	}

	target, err := url.JoinPath(svc.BaseURL, input.GetString("endpoint"))
	if err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}
	if params := input.GetMap("params"); len(params) > 0 {
		query := url.Values{}
		for k, v := range params {
			query.Set(k, fmt.Sprintf("%v", v))
		}
		target += "?" + query.Encode()
	}

	var body io.Reader
	if data, ok := input["data"]; ok && data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range input.GetMap("headers") {
		req.Header.Set(k, fmt.Sprintf("%v", v))
	}
	if svc.APIKeyEnv != "" {
		if key := os.Getenv(svc.APIKeyEnv); key != "" {
			req.Header.Set("Authorization", "Bearer "+key)
		}
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		// Non-JSON responses are passed through as text.
		parsed = string(raw)
	}

	return core.Payload{
		"status": float64(resp.StatusCode),
		"data":   parsed,
	}, nil
}
