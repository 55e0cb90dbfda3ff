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

package transport

import (
	"context"
	"fmt"

	"github.com/googlecloudplatform/gcloud-golang/internal"
	"google.golang.org/api/option"
	"google.golang.org/api/option/internaloption"
	gtransport "google.golang.org/api/transport/grpc"
	"google.golang.org/grpc"
)

// DialGRPC returns a connection to the gRPC endpoint s.DefaultEndpoint,
// such as "speech.googleapis.com:443", configured with opts.
func DialGRPC(ctx context.Context, s Settings, opts ...option.ClientOption) (*grpc.ClientConn, error) {
	o := []option.ClientOption{
		option.WithScopes(s.Scopes...),
		option.WithUserAgent(internal.UserAgent),
		internaloption.WithDefaultEndpoint(s.DefaultEndpoint),
	}
	if s.DefaultMTLSEndpoint != "" {
		o = append(o, internaloption.WithDefaultMTLSEndpoint(s.DefaultMTLSEndpoint))
	}
	o = append(o, opts...)
	conn, err := gtransport.Dial(ctx, o...)
	if err != nil {
		return nil, fmt.Errorf("dialing: %w", err)
	}
	return conn, nil
}
