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

// Package compute lists Compute Engine zones and instances and waits for
// zonal and global operations.
package compute // import "github.com/googlecloudplatform/gcloud-golang/compute"

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/googlecloudplatform/gcloud-golang/internal/detect"
	"github.com/googlecloudplatform/gcloud-golang/internal/transport"
	"github.com/googlecloudplatform/gcloud-golang/paging"
	"google.golang.org/api/option"
)

const (
	// ScopeCompute grants permissions to view and manage Compute Engine instance.
	ScopeCompute = "https://www.googleapis.com/auth/compute"
	// ScopeComputeReadOnly grants permissions to view Compute Engine resources.
	ScopeComputeReadOnly = "https://www.googleapis.com/auth/compute.readonly"
)

// DetectProjectID asks NewClient to find the project ID in the
// environment or the default credentials.
const DetectProjectID = detect.ProjectIDSentinel

var settings = transport.Settings{
	DefaultEndpoint:     "https://compute.googleapis.com/compute/v1/",
	DefaultMTLSEndpoint: "https://compute.mtls.googleapis.com/compute/v1/",
	Scopes:              []string{ScopeCompute},
}

// Client lists Compute Engine resources of one project.
type Client struct {
	projectID string
	tc        *transport.JSONClient
}

// NewClient returns a Client for projectID.
func NewClient(ctx context.Context, projectID string, opts ...option.ClientOption) (*Client, error) {
	tc, err := transport.NewJSONClient(ctx, settings, opts...)
	if err != nil {
		return nil, fmt.Errorf("compute: %w", err)
	}
	projectID, err = detect.ProjectID(ctx, projectID, "", opts...)
	if err != nil {
		return nil, fmt.Errorf("compute: %w", err)
	}
	return &Client{projectID: projectID, tc: tc}, nil
}

// Project returns the client's project ID.
func (c *Client) Project() string { return c.projectID }

// Close releases the client.
func (c *Client) Close() error { return nil }

// Zone is a Compute Engine zone of the client's project.
type Zone struct {
	Name string
	// Status is "UP" or "DOWN"; it is set on zones returned by Zones.
	Status      string
	Region      string
	Description string

	c *Client
}

// Zone returns a handle for the named zone, such as "us-central1-a".
// This call does not perform any network operations.
func (c *Client) Zone(name string) *Zone {
	return &Zone{Name: name, c: c}
}

type rawZone struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Region      string `json:"region"`
	Description string `json:"description"`
}

// Zones lists the zones available to the project. Recognized request
// options include "filter" and "orderBy".
func (c *Client) Zones() *paging.Stream[*Zone] {
	call := c.tc.Lister(c.projectPath()+"/zones", nil)
	return paging.NewStream(paging.JSONFetchMap(call, "items", func(z rawZone) (*Zone, error) {
		return &Zone{
			Name:        z.Name,
			Status:      z.Status,
			Region:      resourceName(z.Region),
			Description: z.Description,
			c:           c,
		}, nil
	}))
}

func (c *Client) projectPath() string {
	return "projects/" + url.PathEscape(c.projectID)
}

func (z *Zone) path() string {
	return z.c.projectPath() + "/zones/" + url.PathEscape(z.Name)
}

// resourceName returns the last segment of a resource URL.
func resourceName(link string) string {
	if i := strings.LastIndex(link, "/"); i >= 0 {
		return link[i+1:]
	}
	return link
}
