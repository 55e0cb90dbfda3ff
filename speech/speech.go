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

package speech

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/googlecloudplatform/gcloud-golang/internal/transport"
	"github.com/googlecloudplatform/gcloud-golang/longrunning"
	"google.golang.org/api/option"
)

// Scope is the OAuth2 scope of the API.
const Scope = "https://www.googleapis.com/auth/cloud-platform"

var settings = transport.Settings{
	DefaultEndpoint:     "https://speech.googleapis.com/v1/",
	DefaultMTLSEndpoint: "https://speech.mtls.googleapis.com/v1/",
	Scopes:              []string{Scope},
}

// Client starts and watches recognitions through the REST API.
type Client struct {
	tc *transport.JSONClient
}

// NewClient creates a new speech client.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	tc, err := transport.NewJSONClient(ctx, settings, opts...)
	if err != nil {
		return nil, fmt.Errorf("speech: %w", err)
	}
	return &Client{tc: tc}, nil
}

// Close releases the client.
func (c *Client) Close() error { return nil }

// RecognitionConfig tells the service how to process the audio.
type RecognitionConfig struct {
	// Encoding is an AudioEncoding name, such as "LINEAR16" or "FLAC".
	Encoding                   string `json:"encoding,omitempty"`
	SampleRateHertz            int    `json:"sampleRateHertz,omitempty"`
	AudioChannelCount          int    `json:"audioChannelCount,omitempty"`
	LanguageCode               string `json:"languageCode"`
	MaxAlternatives            int    `json:"maxAlternatives,omitempty"`
	ProfanityFilter            bool   `json:"profanityFilter,omitempty"`
	EnableWordTimeOffsets      bool   `json:"enableWordTimeOffsets,omitempty"`
	EnableAutomaticPunctuation bool   `json:"enableAutomaticPunctuation,omitempty"`
	Model                      string `json:"model,omitempty"`
}

// RecognitionAudio holds either inline audio or a Cloud Storage URI.
type RecognitionAudio struct {
	Content []byte `json:"content,omitempty"`
	URI     string `json:"uri,omitempty"`
}

// LongRunningRecognizeRequest is the body of speech:longrunningrecognize.
type LongRunningRecognizeRequest struct {
	Config *RecognitionConfig `json:"config"`
	Audio  *RecognitionAudio  `json:"audio"`
}

// LongRunningRecognizeMetadata describes the progress of a recognition.
type LongRunningRecognizeMetadata struct {
	ProgressPercent int    `json:"progressPercent"`
	StartTime       string `json:"startTime"`
	LastUpdateTime  string `json:"lastUpdateTime"`
	URI             string `json:"uri"`
}

// LongRunningRecognizeResponse is the result of a finished recognition.
type LongRunningRecognizeResponse struct {
	Results []*SpeechRecognitionResult `json:"results"`
	// TotalBilledTime is a duration such as "15s".
	TotalBilledTime string `json:"totalBilledTime"`
}

// SpeechRecognitionResult is the recognition of one portion of the audio.
type SpeechRecognitionResult struct {
	Alternatives  []*SpeechRecognitionAlternative `json:"alternatives"`
	ChannelTag    int                             `json:"channelTag"`
	LanguageCode  string                          `json:"languageCode"`
	ResultEndTime string                          `json:"resultEndTime"`
}

// SpeechRecognitionAlternative is one hypothesis, most likely first.
type SpeechRecognitionAlternative struct {
	Transcript string  `json:"transcript"`
	Confidence float32 `json:"confidence"`
}

// StartRecognition starts a long-running recognition and returns the
// operation tracking it. The operation is seeded with the service's reply,
// so a recognition that finished immediately is already done.
func (c *Client) StartRecognition(ctx context.Context, req *LongRunningRecognizeRequest, opts ...longrunning.PollOption) (*longrunning.Operation, error) {
	if req == nil || req.Config == nil || req.Audio == nil {
		return nil, errors.New("speech: request needs both Config and Audio")
	}
	raw, err := c.tc.Post(ctx, "speech:longrunningrecognize", nil, req)
	if err != nil {
		return nil, fmt.Errorf("speech: starting recognition: %w", err)
	}
	st, err := longrunning.ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	if st.Name == "" {
		return nil, errors.New("speech: service returned an operation without a name")
	}
	return longrunning.NewOperationFromStatus(ctx, st.Name, "", st, c.check(), opts...), nil
}

// Operation re-attaches to a recognition by its operation name.
func (c *Client) Operation(ctx context.Context, name string, opts ...longrunning.PollOption) *longrunning.Operation {
	return longrunning.NewOperation(ctx, name, "", c.check(), opts...)
}

func (c *Client) check() longrunning.StatusFunc {
	return longrunning.JSONStatusFunc(c.tc.Getter("operations/"))
}

// Results decodes the response of a finished REST recognition.
func Results(st *longrunning.Status) (*LongRunningRecognizeResponse, error) {
	if st == nil {
		return nil, longrunning.ErrNoResponse
	}
	if _, ok := st.Response.(json.RawMessage); st.Response != nil && !ok {
		return nil, fmt.Errorf("speech: response is %T; decode it with Status.DecodeResponse", st.Response)
	}
	var resp LongRunningRecognizeResponse
	if err := st.DecodeResponse(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Progress decodes the metadata of a REST recognition, as returned by
// Operation.Metadata or Status.Metadata.
func Progress(md any) (*LongRunningRecognizeMetadata, error) {
	raw, ok := md.(json.RawMessage)
	if !ok {
		return nil, longrunning.ErrNoMetadata
	}
	var m LongRunningRecognizeMetadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("speech: decoding metadata: %w", err)
	}
	return &m, nil
}
