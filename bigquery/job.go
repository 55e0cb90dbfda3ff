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
	"net/url"
	"time"

	"github.com/googlecloudplatform/gcloud-golang/longrunning"
	"github.com/googlecloudplatform/gcloud-golang/paging"
	gax "github.com/googleapis/gax-go/v2"
)

// A Job represents an operation which has been submitted to BigQuery for processing.
type Job struct {
	c         *Client
	projectID string
	jobID     string
	location  string

	lastStatus *JobStatus
}

// JobFromID creates a Job which refers to an existing BigQuery job. The job
// need not have been created by this package. For example, the job may have
// been created in the BigQuery console.
//
// The client's Location is used as the job's location.
// This call does not perform any network operations.
func (c *Client) JobFromID(id string) *Job {
	return c.JobFromIDLocation(id, c.Location)
}

// JobFromIDLocation is like JobFromID, but for a job in the given location.
func (c *Client) JobFromIDLocation(id, location string) *Job {
	return &Job{c: c, projectID: c.projectID, jobID: id, location: location}
}

// ID returns the job's ID.
func (j *Job) ID() string { return j.jobID }

// ProjectID returns the job's associated project.
func (j *Job) ProjectID() string { return j.projectID }

// Location returns the location for the job.
func (j *Job) Location() string { return j.location }

// LastStatus returns the most recently retrieved status of the job. The status is
// set for jobs returned by Jobs; it is nil for jobs created with JobFromID.
func (j *Job) LastStatus() *JobStatus { return j.lastStatus }

// State is one of a sequence of states that a Job progresses through as it is processed.
type State int

const (
	// StateUnspecified is the default JobIterator state.
	StateUnspecified State = iota
	// Pending is a state that describes that the job is pending.
	Pending
	// Running is a state that describes that the job is running.
	Running
	// Done is a state that describes that the job is done.
	Done
)

var stateNames = map[string]State{
	"PENDING": Pending,
	"RUNNING": Running,
	"DONE":    Done,
}

// JobStatus contains the current State of a job, and errors encountered while processing that job.
type JobStatus struct {
	State State

	err error

	// All errors encountered during the running of the job.
	// Not all Errors are fatal, so errors here do not necessarily mean that the job has completed or was unsuccessful.
	Errors []*Error

	// Statistics is the job's statistics member, undecoded.
	Statistics json.RawMessage
}

// Done reports whether the job has completed.
// After Done returns true, the Err method will return an error if the job completed unsuccessfully.
func (s *JobStatus) Done() bool {
	return s.State == Done
}

// Err returns the error that caused the job to complete unsuccessfully (if any).
func (s *JobStatus) Err() error {
	return s.err
}

// An Error contains detailed information about a failed bigquery operation.
// Detailed description of possible Reasons can be found here: https://cloud.google.com/bigquery/troubleshooting-errors.
type Error struct {
	// Mirrors bq.ErrorProto, but drops DebugInfo
	Location string `json:"location"`
	Message  string `json:"message"`
	Reason   string `json:"reason"`
}

func (e Error) Error() string {
	return fmt.Sprintf("{Location: %q; Message: %q; Reason: %q}", e.Location, e.Message, e.Reason)
}

// reasonCodes maps error reasons to the HTTP status the service pairs
// with them.
var reasonCodes = map[string]int{
	"invalid":           http.StatusBadRequest,
	"invalidQuery":      http.StatusBadRequest,
	"resourcesExceeded": http.StatusBadRequest,
	"accessDenied":      http.StatusForbidden,
	"quotaExceeded":     http.StatusForbidden,
	"rateLimitExceeded": http.StatusForbidden,
	"notFound":          http.StatusNotFound,
	"duplicate":         http.StatusConflict,
	"backendError":      http.StatusInternalServerError,
	"internalError":     http.StatusInternalServerError,
	"notImplemented":    http.StatusNotImplemented,
}

type rawJob struct {
	JobReference struct {
		ProjectID string `json:"projectId"`
		JobID     string `json:"jobId"`
		Location  string `json:"location"`
	} `json:"jobReference"`
	// State is only set on jobs.list entries.
	State      string          `json:"state"`
	Status     *rawJobStatus   `json:"status"`
	Statistics json.RawMessage `json:"statistics"`
	// ErrorResult is the jobs.list placement of status.errorResult.
	ErrorResult *Error `json:"errorResult"`
}

type rawJobStatus struct {
	State       string   `json:"state"`
	ErrorResult *Error   `json:"errorResult"`
	Errors      []*Error `json:"errors"`
}

func (j *rawJob) status() *JobStatus {
	st := &JobStatus{Statistics: j.Statistics}
	state, errResult := j.State, j.ErrorResult
	if j.Status != nil {
		state = j.Status.State
		if j.Status.ErrorResult != nil {
			errResult = j.Status.ErrorResult
		}
		st.Errors = j.Status.Errors
	}
	st.State = stateNames[state]
	if errResult != nil {
		st.err = errResult
	}
	return st
}

func (c *Client) jobPath(projectID, jobID string) string {
	return projectPath(projectID) + "/jobs/" + url.PathEscape(jobID)
}

func (j *Job) get(ctx context.Context) (json.RawMessage, error) {
	var q url.Values
	if j.location != "" {
		q = url.Values{"location": {j.location}}
	}
	return j.c.tc.Get(ctx, j.c.jobPath(j.projectID, j.jobID), q)
}

// Status retrieves the current status of the job from BigQuery. It fails if the Status could not be determined.
func (j *Job) Status(ctx context.Context) (*JobStatus, error) {
	raw, err := j.get(ctx)
	if err != nil {
		return nil, err
	}
	var rj rawJob
	if err := json.Unmarshal(raw, &rj); err != nil {
		return nil, fmt.Errorf("bigquery: decoding job: %w", err)
	}
	j.lastStatus = rj.status()
	return j.lastStatus, nil
}

// defaultPoll matches how long BigQuery jobs usually take: frequent checks
// at first, backing off to one a minute.
var defaultPoll = []longrunning.PollOption{
	longrunning.WithBackoff(gax.Backoff{Initial: time.Second, Max: time.Minute, Multiplier: 2}),
}

// Operation returns a longrunning.Operation that polls the job until its
// state is DONE. A job that finished with an error result completes with a
// *longrunning.ProviderOperationError whose Details is the job's
// errorResult as an Error. The Status response is the job resource as a
// json.RawMessage and the metadata is its statistics member.
func (j *Job) Operation(ctx context.Context, opts ...longrunning.PollOption) *longrunning.Operation {
	opts = append(append([]longrunning.PollOption{}, defaultPoll...), opts...)
	return longrunning.NewOperation(ctx, j.jobID, projectPath(j.projectID), j.check, opts...)
}

func (j *Job) check(ctx context.Context, _ *longrunning.Operation) (*longrunning.Status, error) {
	raw, err := j.get(ctx)
	if err != nil {
		return nil, err
	}
	var rj rawJob
	if err := json.Unmarshal(raw, &rj); err != nil {
		return nil, fmt.Errorf("bigquery: decoding job: %w", err)
	}
	js := rj.status()
	st := &longrunning.Status{
		Name: rj.JobReference.JobID,
		Done: js.Done(),
		Raw:  raw,
	}
	if len(rj.Statistics) > 0 {
		st.Metadata = rj.Statistics
	}
	if !st.Done {
		return st, nil
	}
	if e, ok := js.err.(*Error); ok {
		st.Err = &longrunning.ProviderOperationError{
			Code:    reasonCodes[e.Reason],
			Message: e.Message,
			Details: e,
		}
		return st, nil
	}
	st.Response = raw
	return st, nil
}

// Wait blocks until the job or the context is done. It returns the final status
// of the job.
// If an error occurs while retrieving the status, Wait returns that error. But
// Wait returns nil if the status was retrieved successfully, even if
// status.Err() != nil. So callers must check both errors.
func (j *Job) Wait(ctx context.Context, opts ...longrunning.PollOption) (*JobStatus, error) {
	st, err := j.Operation(ctx, opts...).Wait(ctx)
	var perr *longrunning.ProviderOperationError
	if err != nil && !errors.As(err, &perr) {
		return nil, err
	}
	raw, _ := st.Raw.(json.RawMessage)
	var rj rawJob
	if err := json.Unmarshal(raw, &rj); err != nil {
		return nil, fmt.Errorf("bigquery: decoding job: %w", err)
	}
	j.lastStatus = rj.status()
	return j.lastStatus, nil
}

// Jobs lists jobs in the client's project. Recognized request options
// include "allUsers", "stateFilter" (a []string of "pending", "running"
// and "done"), "minCreationTime", "maxCreationTime" and "parentJobId".
// Each Job's LastStatus is the status reported in the listing.
func (c *Client) Jobs() *paging.Stream[*Job] {
	call := c.tc.Lister(projectPath(c.projectID)+"/jobs", url.Values{"projection": {"full"}})
	return paging.NewStream(paging.JSONFetchMap(call, "jobs", func(rj rawJob) (*Job, error) {
		return &Job{
			c:          c,
			projectID:  rj.JobReference.ProjectID,
			jobID:      rj.JobReference.JobID,
			location:   rj.JobReference.Location,
			lastStatus: rj.status(),
		}, nil
	}))
}
