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

package bigquery

import (
	"context"
	"fmt"
	"net/url"

	"github.com/googlecloudplatform/gcloud-golang/internal/detect"
	"github.com/googlecloudplatform/gcloud-golang/internal/transport"
	"google.golang.org/api/option"
)

const (
	// Scope is the Oauth2 scope for the service.
	// For relevant BigQuery scopes, see:
	// https://developers.google.com/identity/protocols/googlescopes#bigqueryv2
	Scope = "https://www.googleapis.com/auth/bigquery"
)

// DetectProjectID is a sentinel value that instructs NewClient to detect the
// project ID. It is given in place of the projectID argument. NewClient will
// use the project ID from the GOOGLE_CLOUD_PROJECT environment variable or
// from the default credentials.
const DetectProjectID = detect.ProjectIDSentinel

// emulatorHostEnv points the client at a BigQuery emulator, such as
// "localhost:9050". Requests are then sent without credentials.
const emulatorHostEnv = "BIGQUERY_EMULATOR_HOST"

var settings = transport.Settings{
	DefaultEndpoint:     "https://bigquery.googleapis.com/bigquery/v2/",
	DefaultMTLSEndpoint: "https://bigquery.mtls.googleapis.com/bigquery/v2/",
	Scopes:              []string{Scope},
	EmulatorHostEnv:     emulatorHostEnv,
	EmulatorPath:        "bigquery/v2/",
}

// Client may be used to perform BigQuery operations.
type Client struct {
	// Location, if set, is sent with job lookups that do not name their
	// own location.
	Location string

	projectID string
	tc        *transport.JSONClient
}

// NewClient constructs a new Client which can perform BigQuery operations.
// Operations performed via the client are billed to the specified GCP project.
//
// If the project ID is set to DetectProjectID, NewClient will attempt to detect
// the project ID from credentials. Against an emulator the detected project
// is "emulated-project".
func NewClient(ctx context.Context, projectID string, opts ...option.ClientOption) (*Client, error) {
	tc, err := transport.NewJSONClient(ctx, settings, opts...)
	if err != nil {
		return nil, fmt.Errorf("bigquery: constructing client: %w", err)
	}
	projectID, err = detect.ProjectID(ctx, projectID, emulatorHostEnv, opts...)
	if err != nil {
		return nil, fmt.Errorf("bigquery: %w", err)
	}
	return &Client{projectID: projectID, tc: tc}, nil
}

// Project returns the project ID or number for this instance of the client, which may have
// either been explicitly specified or autodetected.
func (c *Client) Project() string {
	return c.projectID
}

// Close closes any resources held by the client.
func (c *Client) Close() error {
	return nil
}

func projectPath(projectID string) string {
	return "projects/" + url.PathEscape(projectID)
}
