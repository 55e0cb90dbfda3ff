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
Package paging turns page-token driven list calls into iterators.

A list call is described by a FetchFunc, which issues one request and
returns one Page. A Stream built from it can be consumed a page at a time
with List, or drained item by item with Drain:

	s := paging.NewStream(fetchBuckets)
	it := s.Drain(ctx, paging.Request{"maxResults": 50})
	for {
		b, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			// TODO: Handle error.
		}
		fmt.Println(b.Name)
	}

Callers that page by hand keep the Next request of each ListResult and pass
it back to List until it is nil:

	req := paging.Request{"maxResults": 50}
	for req != nil {
		res, err := s.List(ctx, req)
		if err != nil {
			// TODO: Handle error.
		}
		process(res.Items)
		req = res.Next
	}

Neither mode retries failed pages; retry policy belongs to the transport.
*/
package paging // import "github.com/googlecloudplatform/gcloud-golang/paging"
