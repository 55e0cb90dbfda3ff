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

package compute

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/googlecloudplatform/gcloud-golang/longrunning"
)

// OperationError is one entry of an operation's error.errors list.
type OperationError struct {
	Code     string `json:"code"`
	Location string `json:"location"`
	Message  string `json:"message"`
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type rawOperation struct {
	Name                string `json:"name"`
	Status              string `json:"status"`
	Progress            int    `json:"progress"`
	OperationType       string `json:"operationType"`
	TargetLink          string `json:"targetLink"`
	HTTPErrorStatusCode int    `json:"httpErrorStatusCode"`
	HTTPErrorMessage    string `json:"httpErrorMessage"`
	Error               *struct {
		Errors []*OperationError `json:"errors"`
	} `json:"error"`
}

// OperationProgress is the metadata of a Compute Engine operation.
type OperationProgress struct {
	Status        string `json:"status"`
	Progress      int    `json:"progress"`
	OperationType string `json:"operationType"`
	TargetLink    string `json:"targetLink"`
}

// Operation returns a longrunning.Operation that polls the named zonal
// operation until its status is DONE. The metadata and response are the
// operation resource as a json.RawMessage; decode the metadata into an
// OperationProgress. An operation that finished with errors completes with
// a *longrunning.ProviderOperationError whose Code is the HTTP status the
// operation reported and whose Details is a []*OperationError.
func (z *Zone) Operation(ctx context.Context, name string, opts ...longrunning.PollOption) *longrunning.Operation {
	path := z.path() + "/operations/"
	return longrunning.NewOperation(ctx, name, z.path(), checkOperation(z.c, path), opts...)
}

// GlobalOperation is like Zone.Operation, for an operation on global
// resources such as networks and images.
func (c *Client) GlobalOperation(ctx context.Context, name string, opts ...longrunning.PollOption) *longrunning.Operation {
	parent := c.projectPath() + "/global"
	return longrunning.NewOperation(ctx, name, parent, checkOperation(c, parent+"/operations/"), opts...)
}

func checkOperation(c *Client, prefix string) longrunning.StatusFunc {
	return func(ctx context.Context, op *longrunning.Operation) (*longrunning.Status, error) {
		raw, err := c.tc.Get(ctx, prefix+url.PathEscape(op.Name()), nil)
		if err != nil {
			return nil, err
		}
		return parseOperation(raw)
	}
}

func parseOperation(raw json.RawMessage) (*longrunning.Status, error) {
	var ro rawOperation
	if err := json.Unmarshal(raw, &ro); err != nil {
		return nil, fmt.Errorf("compute: decoding operation: %w", err)
	}
	st := &longrunning.Status{
		Name:     ro.Name,
		Done:     ro.Status == "DONE",
		Metadata: raw,
		Raw:      raw,
	}
	if !st.Done {
		return st, nil
	}
	if ro.Error != nil && len(ro.Error.Errors) > 0 {
		msg := ro.Error.Errors[0].Message
		if msg == "" {
			msg = ro.HTTPErrorMessage
		}
		st.Err = &longrunning.ProviderOperationError{
			Code:    ro.HTTPErrorStatusCode,
			Message: msg,
			Details: ro.Error.Errors,
		}
		return st, nil
	}
	st.Response = raw
	return st, nil
}
