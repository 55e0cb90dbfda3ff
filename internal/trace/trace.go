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

// Package trace wraps OpenTelemetry for the client packages.
package trace

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/status"
)

const tracerName = "github.com/googlecloudplatform/gcloud-golang"

func tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(tracerName)
}

// StartSpan adds a span to the trace with the given name.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) context.Context {
	ctx, _ = tracer().Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx
}

// EndSpan ends a span with the given error.
func EndSpan(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, toOpenTelemetryStatusDescription(err))
	}
	span.End()
}

// toOpenTelemetryStatusDescription prefers the service supplied message
// over the full error string.
func toOpenTelemetryStatusDescription(err error) string {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Message
	}
	if s, ok := status.FromError(err); ok {
		return s.Message()
	}
	return err.Error()
}

// TracePrintf adds an event with the given attributes to the current span.
func TracePrintf(ctx context.Context, attrMap map[string]interface{}, format string, args ...interface{}) {
	var attrs []attribute.KeyValue
	for k, v := range attrMap {
		var a attribute.KeyValue
		switch v := v.(type) {
		case string:
			a = attribute.String(k, v)
		case bool:
			a = attribute.Bool(k, v)
		case int:
			a = attribute.Int(k, v)
		case int64:
			a = attribute.Int64(k, v)
		default:
			a = attribute.String(k, fmt.Sprintf("%#v", v))
		}
		attrs = append(attrs, a)
	}
	trace.SpanFromContext(ctx).AddEvent(fmt.Sprintf(format, args...), trace.WithAttributes(attrs...))
}
