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
	"time"

	pb "cloud.google.com/go/longrunning/autogen/longrunningpb"
	"github.com/googlecloudplatform/gcloud-golang/internal"
	"github.com/googlecloudplatform/gcloud-golang/internal/transport"
	"github.com/googlecloudplatform/gcloud-golang/longrunning"
	gax "github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
)

var grpcSettings = transport.Settings{
	DefaultEndpoint:     "speech.googleapis.com:443",
	DefaultMTLSEndpoint: "speech.mtls.googleapis.com:443",
	Scopes:              []string{Scope},
}

// CallOptions contains the retry settings for each method of this client.
type CallOptions struct {
	GetOperation []gax.CallOption
}

func defaultCallOptions() *CallOptions {
	return &CallOptions{
		GetOperation: []gax.CallOption{
			gax.WithRetry(func() gax.Retryer {
				return gax.OnCodes([]codes.Code{
					codes.DeadlineExceeded,
					codes.Unavailable,
				}, gax.Backoff{
					Initial:    100 * time.Millisecond,
					Max:        60000 * time.Millisecond,
					Multiplier: 1.30,
				})
			}),
		},
	}
}

// OperationsClient watches recognitions through the gRPC
// google.longrunning.Operations service.
type OperationsClient struct {
	// The connection to the service.
	conn *grpc.ClientConn

	// The gRPC API client.
	client pb.OperationsClient

	// The call options for this service.
	CallOptions *CallOptions

	// The metadata to be sent with each request.
	md metadata.MD
}

// NewOperationsClient dials the speech gRPC endpoint.
func NewOperationsClient(ctx context.Context, opts ...option.ClientOption) (*OperationsClient, error) {
	conn, err := transport.DialGRPC(ctx, grpcSettings, opts...)
	if err != nil {
		return nil, err
	}
	return &OperationsClient{
		conn:        conn,
		client:      pb.NewOperationsClient(conn),
		CallOptions: defaultCallOptions(),
		md:          metadata.Pairs("x-goog-api-client", internal.GoogleClientHeader("")),
	}, nil
}

// Connection returns the client's connection to the API service.
func (c *OperationsClient) Connection() *grpc.ClientConn {
	return c.conn
}

// Close closes the connection to the API service. The user should invoke this when
// the client is no longer required.
func (c *OperationsClient) Close() error {
	return c.conn.Close()
}

// Operation returns the named operation. Its Status metadata and response
// are *anypb.Any values holding LongRunningRecognizeMetadata and
// LongRunningRecognizeResponse messages.
func (c *OperationsClient) Operation(ctx context.Context, name string, opts ...longrunning.PollOption) *longrunning.Operation {
	return longrunning.NewOperation(ctx, name, "", c.getOperation, opts...)
}

func (c *OperationsClient) getOperation(ctx context.Context, op *longrunning.Operation) (*longrunning.Status, error) {
	ctx = metadata.NewOutgoingContext(ctx, c.md)
	req := &pb.GetOperationRequest{Name: op.Name()}
	var resp *pb.Operation
	err := gax.Invoke(ctx, func(ctx context.Context, settings gax.CallSettings) error {
		var err error
		resp, err = c.client.GetOperation(ctx, req, settings.GRPC...)
		return err
	}, c.CallOptions.GetOperation...)
	if err != nil {
		return nil, err
	}
	return longrunning.StatusFromProto(resp), nil
}
