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

package compute

import (
	"fmt"
	"strconv"
	"time"

	"github.com/googlecloudplatform/gcloud-golang/paging"
)

// Instance is a virtual machine as reported by instances.list.
type Instance struct {
	Name string
	ID   uint64
	// Status is one of PROVISIONING, STAGING, RUNNING, STOPPING, SUSPENDING,
	// SUSPENDED, REPAIRING and TERMINATED.
	Status string
	// MachineType is the short machine type name, such as "e2-medium".
	MachineType string
	Zone        string
	Created     time.Time
	Labels      map[string]string
}

type rawInstance struct {
	Name              string            `json:"name"`
	ID                string            `json:"id"`
	Status            string            `json:"status"`
	MachineType       string            `json:"machineType"`
	Zone              string            `json:"zone"`
	CreationTimestamp string            `json:"creationTimestamp"`
	Labels            map[string]string `json:"labels"`
}

func newInstance(r rawInstance) (*Instance, error) {
	inst := &Instance{
		Name:        r.Name,
		Status:      r.Status,
		MachineType: resourceName(r.MachineType),
		Zone:        resourceName(r.Zone),
		Labels:      r.Labels,
	}
	if r.ID != "" {
		id, err := strconv.ParseUint(r.ID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("compute: instance %q id: %w", r.Name, err)
		}
		inst.ID = id
	}
	if r.CreationTimestamp != "" {
		t, err := time.Parse(time.RFC3339, r.CreationTimestamp)
		if err != nil {
			return nil, fmt.Errorf("compute: instance %q creation time: %w", r.Name, err)
		}
		inst.Created = t
	}
	return inst, nil
}

// Instances lists the instances in the zone. Recognized request options
// include "filter", "orderBy" and "returnPartialSuccess".
func (z *Zone) Instances() *paging.Stream[*Instance] {
	call := z.c.tc.Lister(z.path()+"/instances", nil)
	return paging.NewStream(paging.JSONFetchMap(call, "items", newInstance))
}
