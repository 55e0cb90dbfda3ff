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

package storage

import (
	"context"
	"fmt"

	gcs "cloud.google.com/go/storage"
	"github.com/googlecloudplatform/gcloud-golang/paging"
	"google.golang.org/api/iterator"
)

// BucketHandle provides operations on a Google Cloud Storage bucket.
type BucketHandle struct {
	c    *Client
	name string
}

// Name returns the bucket name.
func (b *BucketHandle) Name() string { return b.name }

// BucketAttrs represents the metadata of a bucket.
type BucketAttrs = gcs.BucketAttrs

// ObjectAttrs represents the metadata for a Google Cloud Storage (GCS)
// object. Listings with a delimiter also yield ObjectAttrs that have only
// Prefix set.
type ObjectAttrs = gcs.ObjectAttrs

// Objects lists the objects in the bucket. Useful request options are
// "prefix", "delimiter", "versions", "startOffset", "endOffset",
// "matchGlob", "includeTrailingDelimiter", "projection" ("full" or
// "noAcl") and "maxResults". When "delimiter" is set, each prefix the
// service rolls up is returned as an ObjectAttrs with only Prefix set,
// after the objects of the same page.
func (b *BucketHandle) Objects() *paging.Stream[*ObjectAttrs] {
	return paging.NewStream(pagerFetch[*ObjectAttrs](func(ctx context.Context, req paging.Request) (iterator.Pageable, error) {
		q, err := objectQuery(req)
		if err != nil {
			return nil, err
		}
		return b.c.gc.Bucket(b.name).Objects(ctx, q), nil
	}))
}

func objectQuery(req paging.Request) (*gcs.Query, error) {
	q := &gcs.Query{
		Prefix:                   stringOpt(req, "prefix"),
		Delimiter:                stringOpt(req, "delimiter"),
		StartOffset:              stringOpt(req, "startOffset"),
		EndOffset:                stringOpt(req, "endOffset"),
		MatchGlob:                stringOpt(req, "matchGlob"),
		Versions:                 boolOpt(req, "versions"),
		IncludeTrailingDelimiter: boolOpt(req, "includeTrailingDelimiter"),
	}
	switch p := stringOpt(req, "projection"); p {
	case "":
	case "full":
		q.Projection = gcs.ProjectionFull
	case "noAcl":
		q.Projection = gcs.ProjectionNoACL
	default:
		return nil, fmt.Errorf("storage: unknown projection %q", p)
	}
	return q, nil
}
