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
	"fmt"
	"math"
	"net/url"
	"reflect"
	"sort"
	"strconv"
)

// Well-known Request keys.
const (
	PageTokenKey  = "pageToken"
	MaxResultsKey = "maxResults"
)

// Request holds the options of one list call, keyed by option name
// (maxResults, pageToken, filter, ...). Treat a Request as immutable: the
// requests for later pages are derived from it with With.
type Request map[string]any

// With returns a shallow copy of r with key set to v. r is not modified.
func (r Request) With(key string, v any) Request {
	out := make(Request, len(r)+1)
	for k, x := range r {
		out[k] = x
	}
	out[key] = v
	return out
}

func (r Request) without(key string) Request {
	out := make(Request, len(r))
	for k, x := range r {
		if k != key {
			out[k] = x
		}
	}
	return out
}

// PageToken returns the pageToken option, or "" if it is unset.
func (r Request) PageToken() string {
	s, _ := r[PageTokenKey].(string)
	return s
}

// MaxResults returns the maxResults option, or 0 if it is unset or not a
// number.
func (r Request) MaxResults() int {
	switch v := r[MaxResultsKey].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return clampInt(v)
	case uint:
		return clampInt(int64(min(uint64(v), math.MaxInt64)))
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

func clampInt(v int64) int {
	if v > math.MaxInt {
		return math.MaxInt
	}
	return int(v)
}

// Values renders r as URL query parameters. Slice and array values produce
// one parameter per element; nil values are skipped.
func (r Request) Values() url.Values {
	vals := url.Values{}
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := r[k]
		if v == nil {
			continue
		}
		rv := reflect.ValueOf(v)
		if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
			for i := 0; i < rv.Len(); i++ {
				vals.Add(k, fmt.Sprint(rv.Index(i).Interface()))
			}
			continue
		}
		vals.Set(k, fmt.Sprint(v))
	}
	return vals
}
