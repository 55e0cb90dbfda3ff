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

	pb "cloud.google.com/go/longrunning/autogen/longrunningpb"
	"google.golang.org/grpc"
)

// StatusFromProto converts a google.longrunning.Operation. Metadata and
// Response are left as *anypb.Any; an operation error becomes a
// *ProviderOperationError whose GRPCStatus is the reported status.
func StatusFromProto(op *pb.Operation) *Status {
	st := &Status{
		Name: op.GetName(),
		Done: op.GetDone(),
		Raw:  op,
	}
	if md := op.GetMetadata(); md != nil {
		st.Metadata = md
	}
	if r := op.GetResponse(); r != nil {
		st.Response = r
	}
	if e := op.GetError(); e != nil {
		st.Done = true
		st.Err = &ProviderOperationError{
			Code:    int(e.GetCode()),
			Message: e.GetMessage(),
			Details: e,
			proto:   e,
		}
	}
	return st
}

// GRPCStatusFunc returns a StatusFunc that calls GetOperation on client.
func GRPCStatusFunc(client pb.OperationsClient, opts ...grpc.CallOption) StatusFunc {
	return func(ctx context.Context, op *Operation) (*Status, error) {
		resp, err := client.GetOperation(ctx, &pb.GetOperationRequest{Name: op.Name()}, opts...)
		if err != nil {
			return nil, err
		}
		return StatusFromProto(resp), nil
	}
}

// NewGRPCOperation wraps an operation returned by a gRPC method and polls
// it through client's GetOperation.
func NewGRPCOperation(ctx context.Context, client pb.OperationsClient, op *pb.Operation, opts ...PollOption) *Operation {
	return NewOperationFromStatus(ctx, op.GetName(), "", StatusFromProto(op), GRPCStatusFunc(client), opts...)
}
