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
	"errors"
	"sync"
	"testing"

	pb "cloud.google.com/go/longrunning/autogen/longrunningpb"
	"github.com/googlecloudplatform/gcloud-golang/internal/testutil"
	spb "google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type fakeOperations struct {
	pb.UnimplementedOperationsServer

	mu    sync.Mutex
	ops   []*pb.Operation
	calls int
}

func (f *fakeOperations) GetOperation(ctx context.Context, req *pb.GetOperationRequest) (*pb.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.ops) == 0 {
		return nil, status.Errorf(codes.NotFound, "operation %q not found", req.GetName())
	}
	f.calls++
	op := f.ops[0]
	if len(f.ops) > 1 {
		f.ops = f.ops[1:]
	}
	if op.GetName() != req.GetName() {
		return nil, status.Errorf(codes.NotFound, "operation %q not found", req.GetName())
	}
	return op, nil
}

func (f *fakeOperations) numCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newOperationsClient(t *testing.T, fake *fakeOperations) pb.OperationsClient {
	t.Helper()
	srv, err := testutil.NewServer()
	if err != nil {
		t.Fatal(err)
	}
	pb.RegisterOperationsServer(srv.Gsrv, fake)
	srv.Start()
	t.Cleanup(srv.Close)
	conn, err := grpc.NewClient(srv.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return pb.NewOperationsClient(conn)
}

func mustAny(t *testing.T, m proto.Message) *anypb.Any {
	t.Helper()
	a, err := anypb.New(m)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestGRPCOperation(t *testing.T) {
	start := &timestamppb.Timestamp{Seconds: 1257894000}
	fake := &fakeOperations{ops: []*pb.Operation{
		{Name: "operations/7", Metadata: mustAny(t, start)},
		{
			Name:     "operations/7",
			Done:     true,
			Metadata: mustAny(t, start),
			Result:   &pb.Operation_Response{Response: mustAny(t, durationpb.New(90e9))},
		},
	}}
	client := newOperationsClient(t, fake)

	op := NewGRPCOperation(context.Background(), client, &pb.Operation{Name: "operations/7"}, withSleep(noSleep))
	st, err := op.Wait(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var d durationpb.Duration
	if err := st.DecodeResponse(&d); err != nil {
		t.Fatal(err)
	}
	if got := d.AsDuration().Seconds(); got != 90 {
		t.Errorf("got response %vs, want 90s", got)
	}
	var ts timestamppb.Timestamp
	if err := st.DecodeMetadata(&ts); err != nil {
		t.Fatal(err)
	}
	if !proto.Equal(&ts, start) {
		t.Errorf("got metadata %v, want %v", &ts, start)
	}
	if n := fake.numCalls(); n != 2 {
		t.Errorf("got %d GetOperation calls, want 2", n)
	}
}

func TestGRPCOperationAlreadyDone(t *testing.T) {
	fake := &fakeOperations{}
	client := newOperationsClient(t, fake)
	seed := &pb.Operation{
		Name:   "operations/8",
		Done:   true,
		Result: &pb.Operation_Response{Response: mustAny(t, durationpb.New(1e9))},
	}
	op := NewGRPCOperation(context.Background(), client, seed)
	if !op.Done() {
		t.Fatal("operation seeded as done is not done")
	}
	if _, err := op.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := fake.numCalls(); n != 0 {
		t.Errorf("got %d GetOperation calls, want 0", n)
	}
}

func TestGRPCOperationError(t *testing.T) {
	fake := &fakeOperations{ops: []*pb.Operation{{
		Name: "operations/9",
		Done: true,
		Result: &pb.Operation_Error{Error: &spb.Status{
			Code:    int32(codes.ResourceExhausted),
			Message: "quota exceeded",
		}},
	}}}
	client := newOperationsClient(t, fake)
	op := NewOperation(context.Background(), "operations/9", "", GRPCStatusFunc(client), withSleep(noSleep))
	_, err := op.Wait(context.Background())
	var perr *ProviderOperationError
	if !errors.As(err, &perr) {
		t.Fatalf("got %v, want *ProviderOperationError", err)
	}
	if _, ok := perr.Details.(*spb.Status); !ok {
		t.Errorf("got details %T, want *status.Status", perr.Details)
	}
	s, ok := status.FromError(err)
	if !ok || s.Code() != codes.ResourceExhausted || s.Message() != "quota exceeded" {
		t.Errorf("status.FromError: got (%v, %v)", s, ok)
	}
}

func TestGRPCOperationTransportError(t *testing.T) {
	client := newOperationsClient(t, &fakeOperations{})
	op := NewOperation(context.Background(), "operations/missing", "", GRPCStatusFunc(client), withSleep(noSleep))
	_, err := op.Wait(context.Background())
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("got %v, want *TransportError", err)
	}
	if status.Code(te.Err) != codes.NotFound {
		t.Errorf("got code %v, want NotFound", status.Code(te.Err))
	}
	if ae, ok := te.APIError(); !ok || ae.GRPCStatus().Code() != codes.NotFound {
		t.Errorf("APIError: got (%v, %v)", ae, ok)
	}
}
