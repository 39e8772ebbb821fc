package gcp

import (
	"context"
	"fmt"
	"path"
	"time"

	compute "cloud.google.com/go/compute/apiv1"
	"cloud.google.com/go/compute/apiv1/computepb"
	"google.golang.org/api/iterator"

	"github.com/stratus-cli/stratus/internal/retry"
	"github.com/stratus-cli/stratus/pkg/types"
)

const (
	// vmListFilter excludes instances that have been terminated.
	vmListFilter = "status != TERMINATED"
	// vmPageSize is the page size for instance listing.
	vmPageSize = uint32(100)
)

// VMProvider lists GCE instances for a project and zone.
type VMProvider struct {
	client *Client
	policy retry.Policy
}

// NewVMProvider creates a GCE VM provider backed by the given Client.
func NewVMProvider(client *Client, policy retry.Policy) *VMProvider {
	return &VMProvider{
		client: client,
		policy: policy,
	}
}

// List returns the zone's non-terminated instances, following page tokens
// until exhausted. The whole call is retried on transient transport
// failures.
func (p *VMProvider) List(ctx context.Context, projectID, zone string) ([]types.VM, error) {
	var vms []types.VM

	err := retry.Do(ctx, p.policy, func() error {
		vms = nil

		opts, err := p.client.apiOptions(ctx)
		if err != nil {
			return err
		}

		ic, err := compute.NewInstancesRESTClient(ctx, opts...)
		if err != nil {
			return fmt.Errorf("create instances client: %w", err)
		}
		defer func() { _ = ic.Close() }()

		filter := vmListFilter
		pageSize := vmPageSize
		req := &computepb.ListInstancesRequest{
			Project:    projectID,
			Zone:       zone,
			Filter:     &filter,
			MaxResults: &pageSize,
		}

		it := ic.List(ctx, req)
		for {
			inst, err := it.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return fmt.Errorf("list instances: %w", err)
			}
			vms = append(vms, gceToVM(inst))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if vms == nil {
		vms = []types.VM{}
	}
	return vms, nil
}

// gceToVM converts a GCE Instance proto to the unified VM type.
func gceToVM(inst *computepb.Instance) types.VM {
	vm := types.VM{
		ID:     fmt.Sprintf("%d", inst.GetId()),
		Name:   inst.GetName(),
		State:  gceStatusToVMState(inst.GetStatus()),
		Type:   path.Base(inst.GetMachineType()),
		Zone:   path.Base(inst.GetZone()),
		Labels: inst.GetLabels(),
		Raw:    inst,
	}

	if vm.Labels == nil {
		vm.Labels = make(map[string]string)
	}

	// Network interfaces
	if nics := inst.GetNetworkInterfaces(); len(nics) > 0 {
		vm.PrivateIP = nics[0].GetNetworkIP()
		if acs := nics[0].GetAccessConfigs(); len(acs) > 0 {
			vm.PublicIP = acs[0].GetNatIP()
		}
	}

	// Launch time
	if ts := inst.GetCreationTimestamp(); ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			vm.LaunchedAt = t
		}
	}

	return vm
}

// gceStatusToVMState maps a GCE instance status string to VMState.
func gceStatusToVMState(status string) types.VMState {
	switch status {
	case "RUNNING":
		return types.VMStateRunning
	case "TERMINATED", "SUSPENDED":
		return types.VMStateStopped
	case "PROVISIONING", "STAGING":
		return types.VMStatePending
	case "STOPPING", "SUSPENDING":
		return types.VMStateStopping
	default:
		return types.VMStateUnknown
	}
}
