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

// Package detect is used find information from the environment.
package detect

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/transport"
)

// ProjectIDSentinel asks ProjectID to look the project up.
const ProjectIDSentinel = "*detect-project-id*"

const envProjectID = "GOOGLE_CLOUD_PROJECT"

var (
	envLookupFunc = os.Getenv
	adcLookupFunc = func(ctx context.Context, opts ...option.ClientOption) (*google.Credentials, error) {
		return transport.Creds(ctx, opts...)
	}
)

// ProjectID tries to detect the project ID from the environment if the sentinel
// value, "*detect-project-id*", is sent. It looks in the following order:
//  1. GOOGLE_CLOUD_PROJECT envvar
//  2. A static value if emulatorEnvVar is set in the environment
//  3. ADC creds.ProjectID
func ProjectID(ctx context.Context, projectID string, emulatorEnvVar string, opts ...option.ClientOption) (string, error) {
	if projectID != ProjectIDSentinel {
		return projectID, nil
	}
	if id := envLookupFunc(envProjectID); id != "" {
		return id, nil
	}
	// An emulator needs no credentials.
	if emulatorEnvVar != "" && envLookupFunc(emulatorEnvVar) != "" {
		return "emulated-project", nil
	}
	creds, err := adcLookupFunc(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("fetching creds: %w", err)
	}
	if creds.ProjectID == "" {
		return "", errors.New("unable to detect projectID, please refer to docs for DetectProjectID")
	}
	return creds.ProjectID, nil
}
