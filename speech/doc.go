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

// Package speech starts Cloud Speech-to-Text long-running recognitions and
// waits for their results.
//
// A recognition is started over REST and returned as a
// longrunning.Operation:
//
//	op, err := client.StartRecognition(ctx, &speech.LongRunningRecognizeRequest{
//		Config: &speech.RecognitionConfig{Encoding: "FLAC", LanguageCode: "en-US"},
//		Audio:  &speech.RecognitionAudio{URI: "gs://my-bucket/audio.flac"},
//	})
//	if err != nil {
//		// TODO: Handle error.
//	}
//	st, err := op.Wait(ctx)
//	if err != nil {
//		// TODO: Handle error.
//	}
//	resp, err := speech.Results(st)
//
// OperationsClient watches the same operations over gRPC.
package speech // import "github.com/googlecloudplatform/gcloud-golang/speech"
