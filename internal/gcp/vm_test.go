package gcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/stratus-cli/stratus/pkg/types"
)

const (
	vmPageOne = `{
		"kind": "compute#instanceList",
		"items": [
			{"id": "101", "name": "web-01", "status": "RUNNING", "machineType": "zones/asia-southeast1-a/machineTypes/e2-medium", "zone": "zones/asia-southeast1-a"},
			{"id": "102", "name": "web-02", "status": "RUNNING", "machineType": "zones/asia-southeast1-a/machineTypes/e2-medium", "zone": "zones/asia-southeast1-a"}
		],
		"nextPageToken": "page-2"
	}`
	vmPageTwo = `{
		"kind": "compute#instanceList",
		"items": [
			{"id": "103", "name": "worker-01", "status": "PROVISIONING", "machineType": "zones/asia-southeast1-a/machineTypes/n2-standard-4", "zone": "zones/asia-southeast1-a"}
		]
	}`
)

func TestVMListFollowsPagination(t *testing.T) {
	var mu sync.Mutex
	var queries []map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := map[string]string{
			"pageToken":  r.URL.Query().Get("pageToken"),
			"maxResults": r.URL.Query().Get("maxResults"),
			"filter":     r.URL.Query().Get("filter"),
		}
		mu.Lock()
		queries = append(queries, q)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if q["pageToken"] == "page-2" {
			_, _ = w.Write([]byte(vmPageTwo))
			return
		}
		_, _ = w.Write([]byte(vmPageOne))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(WithAPIOptions(
		option.WithEndpoint(srv.URL),
		option.WithoutAuthentication(),
	))
	p := NewVMProvider(client, fastPolicy(1))

	vms, err := p.List(context.Background(), "acme-prod", "asia-southeast1-a")
	require.NoError(t, err)

	// Both pages, original order, no duplicates
	require.Len(t, vms, 3)
	assert.Equal(t, "web-01", vms[0].Name)
	assert.Equal(t, "web-02", vms[1].Name)
	assert.Equal(t, "worker-01", vms[2].Name)

	seen := map[string]bool{}
	for _, vm := range vms {
		assert.False(t, seen[vm.ID], "duplicate instance %s", vm.ID)
		seen[vm.ID] = true
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, queries, 2)
	assert.Equal(t, "", queries[0]["pageToken"])
	assert.Equal(t, "page-2", queries[1]["pageToken"])
	assert.Equal(t, "100", queries[0]["maxResults"])
	assert.Equal(t, "status != TERMINATED", queries[0]["filter"])
}

func TestVMListMapsFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [{
				"id": "7001",
				"name": "db-proxy",
				"status": "RUNNING",
				"machineType": "zones/asia-southeast1-b/machineTypes/e2-small",
				"zone": "zones/asia-southeast1-b",
				"creationTimestamp": "2024-03-01T08:30:00Z",
				"labels": {"env": "prod"},
				"networkInterfaces": [{
					"networkIP": "10.148.0.7",
					"accessConfigs": [{"natIP": "34.87.100.10"}]
				}]
			}]
		}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(WithAPIOptions(
		option.WithEndpoint(srv.URL),
		option.WithoutAuthentication(),
	))
	p := NewVMProvider(client, fastPolicy(1))

	vms, err := p.List(context.Background(), "acme-prod", "asia-southeast1-b")
	require.NoError(t, err)
	require.Len(t, vms, 1)

	vm := vms[0]
	assert.Equal(t, "7001", vm.ID)
	assert.Equal(t, "db-proxy", vm.Name)
	assert.Equal(t, types.VMStateRunning, vm.State)
	assert.Equal(t, "e2-small", vm.Type)
	assert.Equal(t, "asia-southeast1-b", vm.Zone)
	assert.Equal(t, "10.148.0.7", vm.PrivateIP)
	assert.Equal(t, "34.87.100.10", vm.PublicIP)
	assert.Equal(t, "prod", vm.GetLabel("env"))
	assert.Equal(t, 2024, vm.LaunchedAt.Year())
}

func TestGCEStatusMapping(t *testing.T) {
	assert.Equal(t, types.VMStateRunning, gceStatusToVMState("RUNNING"))
	assert.Equal(t, types.VMStateStopped, gceStatusToVMState("TERMINATED"))
	assert.Equal(t, types.VMStatePending, gceStatusToVMState("STAGING"))
	assert.Equal(t, types.VMStateStopping, gceStatusToVMState("STOPPING"))
	assert.Equal(t, types.VMStateUnknown, gceStatusToVMState("WEIRD"))
}
