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

// Package storage lists Google Cloud Storage buckets and objects.
//
// Listings are paging.Streams, so a caller can either drain every result:
//
//	it := client.Bucket("my-bucket").Objects().Drain(ctx, paging.Request{"prefix": "logs/"})
//	for {
//		attrs, err := it.Next()
//		if err == iterator.Done {
//			break
//		}
//		if err != nil {
//			// TODO: Handle error.
//		}
//		fmt.Println(attrs.Name)
//	}
//
// or fetch one page at a time with List. Requests go through
// cloud.google.com/go/storage, so STORAGE_EMULATOR_HOST sends them,
// unauthenticated, to an emulator at that host.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	gcs "cloud.google.com/go/storage"
	"github.com/googlecloudplatform/gcloud-golang/paging"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const (
	// ScopeFullControl grants permissions to manage your
	// data and permissions in Google Cloud Storage.
	ScopeFullControl = gcs.ScopeFullControl

	// ScopeReadOnly grants permissions to
	// view your data in Google Cloud Storage.
	ScopeReadOnly = gcs.ScopeReadOnly

	// ScopeReadWrite grants permissions to manage your
	// data in Google Cloud Storage.
	ScopeReadWrite = gcs.ScopeReadWrite
)

// DefaultPageSize is the page size requested when a request carries no
// maxResults. It is the service's own maximum.
const DefaultPageSize = 1000

// Client lists Google Cloud Storage resources.
type Client struct {
	gc *gcs.Client
}

// NewClient creates a new Google Cloud Storage client.
// The default scope is ScopeFullControl. To use a different scope, like
// ScopeReadOnly, use option.WithScopes.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	gc, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return &Client{gc: gc}, nil
}

// Close closes the Client.
func (c *Client) Close() error { return c.gc.Close() }

// Bucket returns a BucketHandle for the named bucket.
// This call does not perform any network operations.
func (c *Client) Bucket(name string) *BucketHandle {
	return &BucketHandle{c: c, name: name}
}

// Buckets lists the buckets in the project. The only request option
// besides "maxResults" and "pageToken" is "prefix".
func (c *Client) Buckets(projectID string) *paging.Stream[*BucketAttrs] {
	return paging.NewStream(pagerFetch[*BucketAttrs](func(ctx context.Context, req paging.Request) (iterator.Pageable, error) {
		it := c.gc.Buckets(ctx, projectID)
		it.Prefix = stringOpt(req, "prefix")
		return it, nil
	}))
}

// pagerFetch reads one page from a fresh library iterator per request. The
// page's Raw is the iterator that served it, or the service's error body
// when the listing fails.
func pagerFetch[T any](open func(context.Context, paging.Request) (iterator.Pageable, error)) paging.FetchFunc[T] {
	return func(ctx context.Context, req paging.Request) (*paging.Page[T], error) {
		it, err := open(ctx, req)
		if err != nil {
			return nil, err
		}
		size := req.MaxResults()
		if size <= 0 {
			size = DefaultPageSize
		}
		var items []T
		tok, err := iterator.NewPager(it, size, req.PageToken()).NextPage(&items)
		if err != nil {
			var gerr *googleapi.Error
			if errors.As(err, &gerr) && gerr.Body != "" {
				return &paging.Page[T]{Raw: json.RawMessage(gerr.Body)}, err
			}
			return nil, err
		}
		return &paging.Page[T]{Items: items, NextPageToken: tok, Raw: it}, nil
	}
}

func stringOpt(req paging.Request, key string) string {
	s, _ := req[key].(string)
	return s
}

func boolOpt(req paging.Request, key string) bool {
	switch v := req[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}
