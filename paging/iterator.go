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

package paging

import (
	"context"
	"iter"
	"sync"

	"google.golang.org/api/iterator"
)

// An Iterator yields the items of a Stream one at a time, fetching pages
// as they are needed. Next and All must not be called concurrently; Stop
// may be called from any goroutine.
type Iterator[T any] struct {
	ctx   context.Context
	fetch FetchFunc[T]
	req   Request

	items    []T
	pageInfo *iterator.PageInfo
	nextFunc func() error

	mu      sync.Mutex
	stopped bool
	err     error // first fetch error; outlives Stop
	raw     any
}

func newIterator[T any](ctx context.Context, fetch FetchFunc[T], req Request) *Iterator[T] {
	it := &Iterator[T]{
		ctx:   ctx,
		fetch: fetch,
		req:   req,
	}
	it.pageInfo, it.nextFunc = iterator.NewPageInfo(
		it.fetchPage,
		func() int { return len(it.items) },
		func() interface{} { b := it.items; it.items = nil; return b })
	it.pageInfo.MaxSize = req.MaxResults()
	it.pageInfo.Token = req.PageToken()
	return it
}

// Next returns the next item. Its second return value is iterator.Done if
// there are no more items or the iterator was stopped. Once Next returns
// any other error, every later call returns the same error, Stop
// notwithstanding.
func (it *Iterator[T]) Next() (T, error) {
	var zero T
	it.mu.Lock()
	err, stopped := it.err, it.stopped
	it.mu.Unlock()
	if err != nil {
		return zero, err
	}
	if stopped {
		return zero, iterator.Done
	}
	if err := it.nextFunc(); err != nil {
		if err != iterator.Done {
			it.mu.Lock()
			it.err = err
			it.mu.Unlock()
		}
		return zero, err
	}
	// The page may have arrived after a concurrent Stop.
	if it.isStopped() {
		return zero, iterator.Done
	}
	item := it.items[0]
	it.items = it.items[1:]
	return item, nil
}

// PageInfo supports pagination. See the google.golang.org/api/iterator
// package for details.
func (it *Iterator[T]) PageInfo() *iterator.PageInfo { return it.pageInfo }

// Stop ends the traversal. No further page is requested; a fetch already
// in flight runs to completion and its items are dropped.
func (it *Iterator[T]) Stop() {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.stopped = true
}

// Response returns the raw response of the most recently fetched page, or
// nil before the first fetch.
func (it *Iterator[T]) Response() any {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.raw
}

// All returns the remaining items as a range-over-func sequence. The
// sequence ends after the first error. Leaving the loop early stops the
// iterator.
func (it *Iterator[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			item, err := it.Next()
			if err == iterator.Done {
				return
			}
			if !yield(item, err) {
				it.Stop()
				return
			}
			if err != nil {
				return
			}
		}
	}
}

func (it *Iterator[T]) isStopped() bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.stopped
}

// fetchPage is the fetch function handed to iterator.NewPageInfo.
func (it *Iterator[T]) fetchPage(pageSize int, pageToken string) (string, error) {
	if it.isStopped() {
		return "", iterator.Done
	}
	req := it.req
	switch {
	case pageToken != "":
		req = req.With(PageTokenKey, pageToken)
	case req.PageToken() != "":
		// A Pager asked to start over from the first page.
		req = req.without(PageTokenKey)
	}
	if pageSize > 0 && pageSize != req.MaxResults() {
		req = req.With(MaxResultsKey, pageSize)
	}
	p, err := it.fetch(it.ctx, req)

	it.mu.Lock()
	defer it.mu.Unlock()
	if it.stopped {
		return "", iterator.Done
	}
	if p != nil {
		it.raw = p.Raw
	}
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", nil
	}
	it.items = append(it.items, p.Items...)
	return p.NextPageToken, nil
}
