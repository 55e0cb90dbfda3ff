// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package transport connects the service clients to Google Cloud REST and
// gRPC endpoints.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/googlecloudplatform/gcloud-golang/internal"
	"github.com/googlecloudplatform/gcloud-golang/internal/trace"
	"github.com/googlecloudplatform/gcloud-golang/paging"
	gax "github.com/googleapis/gax-go/v2"
	"github.com/googleapis/gax-go/v2/internallog"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/option/internaloption"
	htransport "google.golang.org/api/transport/http"
)

// Settings describes one service's endpoint.
type Settings struct {
	// DefaultEndpoint is the base URL used unless option.WithEndpoint
	// overrides it, such as "https://bigquery.googleapis.com/bigquery/v2/".
	DefaultEndpoint string
	// DefaultMTLSEndpoint is used instead of DefaultEndpoint when mutual
	// TLS is enabled.
	DefaultMTLSEndpoint string
	Scopes              []string
	// EmulatorHostEnv names an environment variable that, when set, points
	// the client at an unauthenticated emulator. EmulatorPath is appended
	// to the emulator host.
	EmulatorHostEnv string
	EmulatorPath    string
}

// DefaultMaxAttempts bounds the attempts of one idempotent call.
const DefaultMaxAttempts = 4

// JSONClient calls a JSON REST service. GET requests are retried on
// transient failures; other methods are sent once.
type JSONClient struct {
	hc       *http.Client
	endpoint string
	logger   *slog.Logger

	backoff     gax.Backoff
	maxAttempts int
}

// NewJSONClient resolves opts against s and returns a client for the
// resulting endpoint.
func NewJSONClient(ctx context.Context, s Settings, opts ...option.ClientOption) (*JSONClient, error) {
	o, err := s.clientOptions(opts)
	if err != nil {
		return nil, err
	}
	// htransport picks among WithEndpoint, WithDefaultEndpoint and
	// WithDefaultMTLSEndpoint.
	hc, ep, err := htransport.NewClient(ctx, o...)
	if err != nil {
		return nil, fmt.Errorf("dialing: %w", err)
	}
	if !strings.HasSuffix(ep, "/") {
		ep += "/"
	}
	return &JSONClient{
		hc:          hc,
		endpoint:    ep,
		logger:      internallog.New(internaloption.GetLogger(opts)),
		backoff:     gax.Backoff{Initial: 100 * time.Millisecond, Max: 10 * time.Second, Multiplier: 2},
		maxAttempts: DefaultMaxAttempts,
	}, nil
}

func (s Settings) clientOptions(opts []option.ClientOption) ([]option.ClientOption, error) {
	var host string
	if s.EmulatorHostEnv != "" {
		host = os.Getenv(s.EmulatorHostEnv)
	}
	if host == "" {
		o := []option.ClientOption{
			option.WithScopes(s.Scopes...),
			option.WithUserAgent(internal.UserAgent),
		}
		o = append(o, opts...)
		o = append(o, internaloption.WithDefaultEndpoint(s.DefaultEndpoint))
		if s.DefaultMTLSEndpoint != "" {
			o = append(o, internaloption.WithDefaultMTLSEndpoint(s.DefaultMTLSEndpoint))
		}
		return o, nil
	}

	var hostURL *url.URL
	if strings.Contains(host, "://") {
		h, err := url.Parse(host)
		if err != nil {
			return nil, err
		}
		hostURL = h
	} else {
		hostURL = &url.URL{Scheme: "http", Host: host}
	}
	hostURL.Path = s.EmulatorPath
	endpoint := hostURL.String()

	o := []option.ClientOption{option.WithoutAuthentication(), option.WithUserAgent(internal.UserAgent)}
	o = append(o, opts...)
	o = append(o, internaloption.WithDefaultEndpoint(endpoint))
	o = append(o, internaloption.WithDefaultMTLSEndpoint(endpoint))
	return o, nil
}

// Endpoint returns the base URL requests are sent to.
func (c *JSONClient) Endpoint() string { return c.endpoint }

// Get fetches path relative to the endpoint.
func (c *JSONClient) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.Call(ctx, http.MethodGet, path, query, nil)
}

// Post sends body, encoded as JSON, to path.
func (c *JSONClient) Post(ctx context.Context, path string, query url.Values, body any) (json.RawMessage, error) {
	return c.Call(ctx, http.MethodPost, path, query, body)
}

// Call issues one logical request and returns the undecoded response body.
// Non-2xx responses are returned as *googleapi.Error. path is relative to
// the endpoint and must already be escaped.
func (c *JSONClient) Call(ctx context.Context, method, path string, query url.Values, body any) (raw json.RawMessage, err error) {
	ctx = trace.StartSpan(ctx, "transport.JSONClient.Call",
		attribute.String("http.request.method", method),
		attribute.String("url.path", path))
	defer func() { trace.EndSpan(ctx, err) }()

	var payload []byte
	if body != nil {
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
	}
	u := c.endpoint + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	invocationID := uuid.New().String()

	if method != http.MethodGet {
		return c.do(ctx, method, u, payload, invocationID)
	}
	attempt := 0
	err = internal.RetryN(ctx, c.backoff, c.maxAttempts, func() (bool, error) {
		attempt++
		if attempt > 1 {
			trace.TracePrintf(ctx, map[string]any{"attempt": attempt}, "retry %s", path)
		}
		var err error
		raw, err = c.do(ctx, method, u, payload, invocationID)
		if err != nil && ShouldRetry(err) {
			return false, err
		}
		return true, err
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *JSONClient) do(ctx context.Context, method, u string, payload []byte, invocationID string) (json.RawMessage, error) {
	var rdr io.Reader
	if payload != nil {
		rdr = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-client", internal.GoogleClientHeader(invocationID))
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.logger.DebugContext(ctx, "api request", "request", internallog.HTTPRequest(req, payload))

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	c.logger.DebugContext(ctx, "api response", "response", internallog.HTTPResponse(resp, b))

	resp.Body = io.NopCloser(bytes.NewReader(b))
	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return json.RawMessage("{}"), nil
	}
	return json.RawMessage(b), nil
}

// Lister returns a paging.CallFunc that lists path, sending the paging
// request as query parameters alongside fixed. A failed call returns the
// service's error body as the raw response.
func (c *JSONClient) Lister(path string, fixed url.Values) paging.CallFunc {
	return func(ctx context.Context, req paging.Request) (json.RawMessage, error) {
		q := req.Values()
		for k, vs := range fixed {
			q[k] = vs
		}
		raw, err := c.Get(ctx, path, q)
		if err != nil {
			var gerr *googleapi.Error
			if errors.As(err, &gerr) && gerr.Body != "" {
				return json.RawMessage(gerr.Body), err
			}
			return nil, err
		}
		return raw, nil
	}
}

// Getter returns a function that fetches the resource at prefix+name,
// for use with longrunning.JSONStatusFunc.
func (c *JSONClient) Getter(prefix string) func(ctx context.Context, name string) ([]byte, error) {
	return func(ctx context.Context, name string) ([]byte, error) {
		return c.Get(ctx, prefix+name, nil)
	}
}
