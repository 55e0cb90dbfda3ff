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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/googlecloudplatform/gcloud-golang/longrunning"
	"github.com/googlecloudplatform/gcloud-golang/paging"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// fakeBigQuery serves canned bodies by path. A path with several bodies
// returns them in turn, repeating the last.
type fakeBigQuery struct {
	mu      sync.Mutex
	bodies  map[string][]string
	queries map[string][]string
}

func (f *fakeBigQuery) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := r.URL.Path
	if tok := r.URL.Query().Get("pageToken"); tok != "" {
		key += "#" + tok
	}
	bs, ok := f.bodies[key]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, `{"error":{"code":404,"message":"Not found: %s","errors":[{"reason":"notFound"}]}}`, key)
		return
	}
	if f.queries == nil {
		f.queries = map[string][]string{}
	}
	f.queries[key] = append(f.queries[key], r.URL.RawQuery)
	body := bs[0]
	if len(bs) > 1 {
		f.bodies[key] = bs[1:]
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, body)
}

func (f *fakeBigQuery) query(key string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[key]
}

func newTestClient(t *testing.T, bodies map[string][]string) (*Client, *fakeBigQuery) {
	t.Helper()
	fake := &fakeBigQuery{bodies: bodies}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	c, err := NewClient(context.Background(), "proj", option.WithEndpoint(srv.URL+"/bigquery/v2/"), option.WithoutAuthentication())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c, fake
}

const prefix = "/bigquery/v2/projects/proj"

func drain[T any](t *testing.T, it *paging.Iterator[T]) []T {
	t.Helper()
	var out []T
	for {
		v, err := it.Next()
		if err == iterator.Done {
			return out
		}
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, v)
	}
}

func TestDatasets(t *testing.T) {
	c, fake := newTestClient(t, map[string][]string{
		prefix + "/datasets": {`{"datasets":[
			{"datasetReference":{"projectId":"proj","datasetId":"a"},"location":"US","labels":{"team":"x"}},
			{"datasetReference":{"projectId":"proj","datasetId":"b"},"friendlyName":"B"}],
			"nextPageToken":"t2"}`},
		prefix + "/datasets#t2": {`{"datasets":[{"datasetReference":{"projectId":"proj","datasetId":"c"}}]}`},
	})
	got := drain(t, c.Datasets().Drain(context.Background(), paging.Request{"all": true, "maxResults": 2}))
	want := []*Dataset{
		{ProjectID: "proj", DatasetID: "a", Location: "US", Labels: map[string]string{"team": "x"}},
		{ProjectID: "proj", DatasetID: "b", FriendlyName: "B"},
		{ProjectID: "proj", DatasetID: "c"},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreUnexported(Dataset{})); diff != "" {
		t.Errorf("datasets mismatch (-want +got):\n%s", diff)
	}
	if q := fake.query(prefix + "/datasets#t2"); len(q) != 1 || q[0] != "all=true&maxResults=2&pageToken=t2" {
		t.Errorf("second page query: got %q", q)
	}
}

func TestDatasetsEmpty(t *testing.T) {
	c, _ := newTestClient(t, map[string][]string{prefix + "/datasets": {`{"kind":"bigquery#datasetList","etag":"x"}`}})
	if got := drain(t, c.Datasets().Drain(context.Background(), nil)); len(got) != 0 {
		t.Errorf("got %d datasets, want none", len(got))
	}
}

func TestTables(t *testing.T) {
	c, _ := newTestClient(t, map[string][]string{
		prefix + "/datasets/ds/tables": {`{"tables":[
			{"tableReference":{"projectId":"proj","datasetId":"ds","tableId":"t1"},"type":"TABLE","creationTime":"1700000000000"},
			{"tableReference":{"projectId":"proj","datasetId":"ds","tableId":"v1"},"type":"VIEW"}],
			"totalItems":2}`},
	})
	res, err := c.Dataset("ds").Tables().List(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, tb := range res.Items {
		names = append(names, tb.FullyQualifiedName()+"/"+string(tb.Type))
	}
	if diff := cmp.Diff([]string{"proj:ds.t1/TABLE", "proj:ds.v1/VIEW"}, names); diff != "" {
		t.Errorf("tables mismatch (-want +got):\n%s", diff)
	}
	if res.Next != nil {
		t.Errorf("got next %v, want nil", res.Next)
	}
	var raw struct{ TotalItems int }
	if err := json.Unmarshal(res.Raw.(json.RawMessage), &raw); err != nil || raw.TotalItems != 2 {
		t.Errorf("raw totalItems: got %d (%v)", raw.TotalItems, err)
	}
}

func TestJobs(t *testing.T) {
	c, fake := newTestClient(t, map[string][]string{
		prefix + "/jobs": {`{"jobs":[
			{"jobReference":{"projectId":"proj","jobId":"j1","location":"US"},"state":"DONE","status":{"state":"DONE"}},
			{"jobReference":{"projectId":"proj","jobId":"j2","location":"EU"},"state":"DONE","errorResult":{"reason":"invalidQuery","message":"Syntax error"},"status":{"state":"DONE","errorResult":{"reason":"invalidQuery","message":"Syntax error"}}},
			{"jobReference":{"projectId":"proj","jobId":"j3"},"state":"RUNNING","status":{"state":"RUNNING"}}]}`},
	})
	jobs := drain(t, c.Jobs().Drain(context.Background(), paging.Request{"stateFilter": []string{"done", "running"}}))
	if len(jobs) != 3 {
		t.Fatalf("got %d jobs, want 3", len(jobs))
	}
	if j := jobs[0]; j.ID() != "j1" || j.Location() != "US" || !j.LastStatus().Done() || j.LastStatus().Err() != nil {
		t.Errorf("job 1: got %s in %s, status %+v", j.ID(), j.Location(), j.LastStatus())
	}
	want := &Error{Reason: "invalidQuery", Message: "Syntax error"}
	if diff := cmp.Diff(want, jobs[1].LastStatus().Err()); diff != "" {
		t.Errorf("job 2 error mismatch (-want +got):\n%s", diff)
	}
	if s := jobs[2].LastStatus().State; s != Running {
		t.Errorf("job 3: got state %v, want Running", s)
	}
	if q := fake.query(prefix + "/jobs"); len(q) != 1 || q[0] != "projection=full&stateFilter=done&stateFilter=running" {
		t.Errorf("query: got %q", q)
	}
}

var fastPoll = longrunning.WithInterval(time.Millisecond)

func TestJobOperation(t *testing.T) {
	c, fake := newTestClient(t, map[string][]string{
		prefix + "/jobs/job-1": {
			`{"jobReference":{"jobId":"job-1"},"status":{"state":"PENDING"}}`,
			`{"jobReference":{"jobId":"job-1"},"status":{"state":"RUNNING"},"statistics":{"startTime":"1"}}`,
			`{"jobReference":{"jobId":"job-1"},"status":{"state":"DONE"},"statistics":{"startTime":"1","endTime":"2"}}`,
		},
	})
	c.Location = "asia-northeast1"
	op := c.JobFromID("job-1").Operation(context.Background(), fastPoll)
	if op.Name() != "job-1" || op.Parent() != "projects/proj" {
		t.Errorf("got name %q parent %q", op.Name(), op.Parent())
	}
	st, err := op.Wait(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var stats struct{ StartTime, EndTime string }
	if err := st.DecodeMetadata(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.EndTime != "2" {
		t.Errorf("got statistics %+v", stats)
	}
	var job struct {
		Status struct{ State string }
	}
	if err := st.DecodeResponse(&job); err != nil || job.Status.State != "DONE" {
		t.Errorf("response: got %+v (%v)", job, err)
	}
	q := fake.query(prefix + "/jobs/job-1")
	if len(q) != 3 || q[0] != "location=asia-northeast1" {
		t.Errorf("got queries %q, want 3 with the location", q)
	}
}

func TestJobOperationFailed(t *testing.T) {
	c, _ := newTestClient(t, map[string][]string{
		prefix + "/jobs/bad": {
			`{"jobReference":{"jobId":"bad"},"status":{"state":"DONE","errorResult":{"reason":"invalidQuery","location":"query","message":"Unrecognized name: x"},"errors":[{"reason":"invalidQuery","message":"Unrecognized name: x"}]}}`,
		},
	})
	j := c.JobFromID("bad")
	_, err := j.Operation(context.Background(), fastPoll).Wait(context.Background())
	var perr *longrunning.ProviderOperationError
	if !errors.As(err, &perr) {
		t.Fatalf("got %v, want *longrunning.ProviderOperationError", err)
	}
	if perr.Code != http.StatusBadRequest || perr.Message != "Unrecognized name: x" {
		t.Errorf("got %+v", perr)
	}
	if d, ok := perr.Details.(*Error); !ok || d.Location != "query" {
		t.Errorf("got details %#v, want the errorResult", perr.Details)
	}

	status, err := j.Wait(context.Background(), fastPoll)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !status.Done() || status.Err() == nil || len(status.Errors) != 1 {
		t.Errorf("got status %+v, want done with an error", status)
	}
	if j.LastStatus() != status {
		t.Error("LastStatus not updated by Wait")
	}
}

func TestJobWait(t *testing.T) {
	c, _ := newTestClient(t, map[string][]string{
		prefix + "/jobs/ok": {
			`{"jobReference":{"jobId":"ok"},"status":{"state":"RUNNING"}}`,
			`{"jobReference":{"jobId":"ok"},"status":{"state":"DONE"}}`,
		},
	})
	status, err := c.JobFromID("ok").Wait(context.Background(), fastPoll)
	if err != nil {
		t.Fatal(err)
	}
	if !status.Done() || status.Err() != nil {
		t.Errorf("got %+v", status)
	}
}

func TestJobNotFound(t *testing.T) {
	c, _ := newTestClient(t, map[string][]string{})
	j := c.JobFromIDLocation("missing", "EU")
	if _, err := j.Status(context.Background()); err == nil {
		t.Error("Status: got nil error")
	}
	_, err := j.Wait(context.Background(), fastPoll)
	var te *longrunning.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("got %v, want *longrunning.TransportError", err)
	}
	if ae, ok := te.APIError(); !ok || ae.HTTPCode() != http.StatusNotFound {
		t.Errorf("APIError: got (%v, %v)", ae, ok)
	}
}

func TestJobStatus(t *testing.T) {
	c, _ := newTestClient(t, map[string][]string{
		prefix + "/jobs/s": {`{"jobReference":{"jobId":"s"},"status":{"state":"PENDING"},"statistics":{"creationTime":"5"}}`},
	})
	st, err := c.JobFromID("s").Status(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if st.State != Pending || st.Done() || string(st.Statistics) != `{"creationTime":"5"}` {
		t.Errorf("got %+v", st)
	}
}

func TestDetectProjectID(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "env-project")
	c, err := NewClient(context.Background(), DetectProjectID, option.WithEndpoint("http://localhost:1/"), option.WithoutAuthentication())
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Project(); got != "env-project" {
		t.Errorf("got project %q, want env-project", got)
	}
}

func TestEmulatorHost(t *testing.T) {
	fake := &fakeBigQuery{bodies: map[string][]string{
		"/bigquery/v2/projects/emulated-project/datasets": {`{"datasets":[{"datasetReference":{"projectId":"emulated-project","datasetId":"local"}}]}`},
	}}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")
	t.Setenv("BIGQUERY_EMULATOR_HOST", strings.TrimPrefix(srv.URL, "http://"))

	c, err := NewClient(context.Background(), DetectProjectID)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if got, want := c.Project(), "emulated-project"; got != want {
		t.Errorf("got project %q, want %q", got, want)
	}
	got := drain(t, c.Datasets().Drain(context.Background(), nil))
	if len(got) != 1 || got[0].DatasetID != "local" {
		t.Errorf("got %+v, want the emulator's dataset", got)
	}
}
