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

package bigquery

import (
	"net/url"

	"github.com/googlecloudplatform/gcloud-golang/paging"
)

// Dataset is a reference to a BigQuery dataset.
type Dataset struct {
	ProjectID string
	DatasetID string

	// Location and FriendlyName are filled in for datasets returned by
	// Datasets.
	Location     string
	FriendlyName string
	Labels       map[string]string

	c *Client
}

// Dataset creates a handle to a BigQuery dataset in the client's project.
func (c *Client) Dataset(id string) *Dataset {
	return c.DatasetInProject(c.projectID, id)
}

// DatasetInProject creates a handle to a BigQuery dataset in the specified project.
func (c *Client) DatasetInProject(projectID, datasetID string) *Dataset {
	return &Dataset{
		ProjectID: projectID,
		DatasetID: datasetID,
		c:         c,
	}
}

// Datasets lists the datasets of the client's project. Recognized request
// options include "all" and "filter".
func (c *Client) Datasets() *paging.Stream[*Dataset] {
	return c.DatasetsInProject(c.projectID)
}

// DatasetsInProject lists the datasets of projectID.
func (c *Client) DatasetsInProject(projectID string) *paging.Stream[*Dataset] {
	call := c.tc.Lister(projectPath(projectID)+"/datasets", nil)
	return paging.NewStream(paging.JSONFetchMap(call, "datasets", func(d rawDataset) (*Dataset, error) {
		return &Dataset{
			ProjectID:    d.DatasetReference.ProjectID,
			DatasetID:    d.DatasetReference.DatasetID,
			Location:     d.Location,
			FriendlyName: d.FriendlyName,
			Labels:       d.Labels,
			c:            c,
		}, nil
	}))
}

type rawDataset struct {
	DatasetReference struct {
		ProjectID string `json:"projectId"`
		DatasetID string `json:"datasetId"`
	} `json:"datasetReference"`
	Location     string            `json:"location"`
	FriendlyName string            `json:"friendlyName"`
	Labels       map[string]string `json:"labels"`
}

// Table creates a handle to a BigQuery table in the dataset.
// This call does not perform any network operations.
func (d *Dataset) Table(tableID string) *Table {
	return &Table{ProjectID: d.ProjectID, DatasetID: d.DatasetID, TableID: tableID, c: d.c}
}

// Tables lists the tables in the dataset.
func (d *Dataset) Tables() *paging.Stream[*Table] {
	path := projectPath(d.ProjectID) + "/datasets/" + url.PathEscape(d.DatasetID) + "/tables"
	call := d.c.tc.Lister(path, nil)
	return paging.NewStream(paging.JSONFetchMap(call, "tables", func(t rawTable) (*Table, error) {
		return &Table{
			ProjectID:    t.TableReference.ProjectID,
			DatasetID:    t.TableReference.DatasetID,
			TableID:      t.TableReference.TableID,
			Type:         TableType(t.Type),
			CreationTime: t.CreationTime,
			c:            d.c,
		}, nil
	}))
}
