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

package longrunning

import (
	"context"
	"encoding/json"
	"fmt"
)

// jsonOperation is the google.longrunning.Operation message in its JSON
// mapping, as served by REST endpoints such as speech.googleapis.com.
type jsonOperation struct {
	Name     string          `json:"name"`
	Done     bool            `json:"done"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
	Error    json.RawMessage `json:"error,omitempty"`
}

type jsonRPCStatus struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ParseStatus decodes a google.longrunning.Operation in its JSON form. An
// operation carrying an error is treated as done.
func ParseStatus(raw []byte) (*Status, error) {
	var op jsonOperation
	if err := json.Unmarshal(raw, &op); err != nil {
		return nil, fmt.Errorf("longrunning: decoding operation: %w", err)
	}
	st := &Status{
		Name: op.Name,
		Done: op.Done,
		Raw:  json.RawMessage(raw),
	}
	if !isNull(op.Metadata) {
		st.Metadata = op.Metadata
	}
	if !isNull(op.Response) {
		st.Response = op.Response
	}
	if !isNull(op.Error) {
		var rs jsonRPCStatus
		if err := json.Unmarshal(op.Error, &rs); err != nil {
			return nil, fmt.Errorf("longrunning: decoding operation error: %w", err)
		}
		st.Done = true
		st.Err = &ProviderOperationError{
			Code:    rs.Code,
			Message: rs.Message,
			Details: op.Error,
		}
	}
	return st, nil
}

func isNull(m json.RawMessage) bool {
	return len(m) == 0 || string(m) == "null"
}

// JSONStatusFunc returns a StatusFunc that fetches the operation with get
// and decodes the body with ParseStatus.
func JSONStatusFunc(get func(ctx context.Context, name string) ([]byte, error)) StatusFunc {
	return func(ctx context.Context, op *Operation) (*Status, error) {
		body, err := get(ctx, op.Name())
		if err != nil {
			return nil, err
		}
		return ParseStatus(body)
	}
}
