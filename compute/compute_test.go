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
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/googlecloudplatform/gcloud-golang/longrunning"
	"github.com/googlecloudplatform/gcloud-golang/paging"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type fakeCompute struct {
	mu     sync.Mutex
	bodies map[string][]string
	hits   map[string]int
}

func (f *fakeCompute) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := r.URL.Path
	if tok := r.URL.Query().Get("pageToken"); tok != "" {
		key += "#" + tok
	}
	f.hits[key]++
	bs, ok := f.bodies[key]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, `{"error":{"code":404,"message":"The resource '%s' was not found"}}`, key)
		return
	}
	body := bs[0]
	if len(bs) > 1 {
		f.bodies[key] = bs[1:]
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, body)
}

func (f *fakeCompute) hitCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[key]
}

const base = "/compute/v1/projects/proj"

func newTestClient(t *testing.T, bodies map[string][]string) (*Client, *fakeCompute) {
	t.Helper()
	fake := &fakeCompute{bodies: bodies, hits: map[string]int{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	c, err := NewClient(context.Background(), "proj", option.WithEndpoint(srv.URL+"/compute/v1/"), option.WithoutAuthentication())
	if err != nil {
		t.Fatal(err)
	}
	return c, fake
}

func TestZones(t *testing.T) {
	c, fake := newTestClient(t, map[string][]string{
		base + "/zones": {`{"items":[{"name":"us-central1-a","status":"UP","region":"https://compute.googleapis.com/compute/v1/projects/proj/regions/us-central1"}],"nextPageToken":"z2"}`},
		// An empty page that still carries a token.
		base + "/zones#z2": {`{"nextPageToken":"z3"}`},
		base + "/zones#z3": {`{"items":[{"name":"europe-west1-b","status":"DOWN","region":"europe-west1","description":"europe-west1-b"}]}`},
	})
	it := c.Zones().Drain(context.Background(), nil)
	var got []*Zone
	for {
		z, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, z)
	}
	want := []*Zone{
		{Name: "us-central1-a", Status: "UP", Region: "us-central1", c: c},
		{Name: "europe-west1-b", Status: "DOWN", Region: "europe-west1", Description: "europe-west1-b", c: c},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(Zone{}), cmp.Comparer(func(a, b *Client) bool { return a == b })); diff != "" {
		t.Errorf("zones mismatch (-want +got):\n%s", diff)
	}
	for _, key := range []string{base + "/zones", base + "/zones#z2", base + "/zones#z3"} {
		if n := fake.hitCount(key); n != 1 {
			t.Errorf("%s fetched %d times, want 1", key, n)
		}
	}
}

func TestInstances(t *testing.T) {
	c, _ := newTestClient(t, map[string][]string{
		base + "/zones/us-east1-b/instances": {`{"items":[{
			"name":"vm-1","id":"8145241715831839160","status":"RUNNING",
			"machineType":"https://compute.googleapis.com/compute/v1/projects/proj/zones/us-east1-b/machineTypes/e2-medium",
			"zone":"https://compute.googleapis.com/compute/v1/projects/proj/zones/us-east1-b",
			"creationTimestamp":"2024-03-01T10:00:00.000-08:00","labels":{"app":"web"}}]}`},
	})
	res, err := c.Zone("us-east1-b").Instances().List(context.Background(), paging.Request{"filter": "status = RUNNING"})
	if err != nil {
		t.Fatal(err)
	}
	want := []*Instance{{
		Name:        "vm-1",
		ID:          8145241715831839160,
		Status:      "RUNNING",
		MachineType: "e2-medium",
		Zone:        "us-east1-b",
		Created:     time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC),
		Labels:      map[string]string{"app": "web"},
	}}
	if diff := cmp.Diff(want, res.Items); diff != "" {
		t.Errorf("instances mismatch (-want +got):\n%s", diff)
	}
}

var fastPoll = longrunning.WithInterval(time.Millisecond)

func TestZoneOperation(t *testing.T) {
	key := base + "/zones/us-east1-b/operations/operation-1"
	c, fake := newTestClient(t, map[string][]string{
		key: {
			`{"name":"operation-1","status":"PENDING","progress":0,"operationType":"insert"}`,
			`{"name":"operation-1","status":"RUNNING","progress":40,"operationType":"insert"}`,
			`{"name":"operation-1","status":"DONE","progress":100,"operationType":"insert","targetLink":"https://compute.googleapis.com/compute/v1/projects/proj/zones/us-east1-b/instances/vm-1"}`,
		},
	})
	op := c.Zone("us-east1-b").Operation(context.Background(), "operation-1", fastPoll)
	if op.Parent() != "projects/proj/zones/us-east1-b" {
		t.Errorf("got parent %q", op.Parent())
	}
	st, err := op.Wait(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var p OperationProgress
	if err := st.DecodeMetadata(&p); err != nil {
		t.Fatal(err)
	}
	want := OperationProgress{Status: "DONE", Progress: 100, OperationType: "insert", TargetLink: "https://compute.googleapis.com/compute/v1/projects/proj/zones/us-east1-b/instances/vm-1"}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}
	if n := fake.hitCount(key); n != 3 {
		t.Errorf("got %d status checks, want 3", n)
	}
}

func TestGlobalOperationError(t *testing.T) {
	c, _ := newTestClient(t, map[string][]string{
		base + "/global/operations/operation-2": {`{
			"name":"operation-2","status":"DONE","httpErrorStatusCode":409,"httpErrorMessage":"CONFLICT",
			"error":{"errors":[{"code":"RESOURCE_ALREADY_EXISTS","message":"The resource 'projects/proj/global/networks/default' already exists"}]}}`},
	})
	_, err := c.GlobalOperation(context.Background(), "operation-2", fastPoll).Wait(context.Background())
	var perr *longrunning.ProviderOperationError
	if !errors.As(err, &perr) {
		t.Fatalf("got %v, want *longrunning.ProviderOperationError", err)
	}
	if perr.Code != http.StatusConflict {
		t.Errorf("got code %d, want 409", perr.Code)
	}
	details, ok := perr.Details.([]*OperationError)
	if !ok || len(details) != 1 || details[0].Code != "RESOURCE_ALREADY_EXISTS" {
		t.Errorf("got details %#v", perr.Details)
	}
}

func TestOperationNotFound(t *testing.T) {
	c, _ := newTestClient(t, map[string][]string{})
	done := make(chan error, 1)
	c.Zone("z").Operation(context.Background(), "gone", fastPoll).OnComplete(func(_ *longrunning.Status, err error) {
		done <- err
	})
	err := <-done
	var te *longrunning.TransportError
	if !errors.As(err, &te) || te.Name != "gone" {
		t.Errorf("got %v, want *longrunning.TransportError for gone", err)
	}
}

func TestResourceName(t *testing.T) {
	for in, want := range map[string]string{
		"https://compute.googleapis.com/compute/v1/projects/p/zones/us-east1-b": "us-east1-b",
		"e2-small": "e2-small",
		"":         "",
	} {
		if got := resourceName(in); got != want {
			t.Errorf("resourceName(%q) = %q, want %q", in, got, want)
		}
	}
}
