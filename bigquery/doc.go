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

/*
Package bigquery lists BigQuery datasets, tables and jobs, and waits for
jobs to finish.

To start working with this package, create a client:

	ctx := context.Background()
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		// TODO: Handle error.
	}

Listing

Datasets, Dataset.Tables and Jobs return paging.Streams. Drain one to visit
every result:

	it := client.Datasets().Drain(ctx, nil)
	for {
		ds, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			// TODO: Handle error.
		}
		fmt.Println(ds.DatasetID)
	}

Jobs

A Job's Operation polls jobs.get until the job's state is DONE:

	status, err := client.JobFromID("job-123").Wait(ctx)
	if err != nil {
		// TODO: Handle error.
	}
	if status.Err() != nil {
		// TODO: Handle the failed job.
	}
*/
package bigquery // import "github.com/googlecloudplatform/gcloud-golang/bigquery"
