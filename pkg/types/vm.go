package types

import "time"

// VMState represents the state of a VM
type VMState string

const (
	VMStateRunning  VMState = "running"
	VMStateStopped  VMState = "stopped"
	VMStatePending  VMState = "pending"
	VMStateStopping VMState = "stopping"
	VMStateUnknown  VMState = "unknown"
)

// VM represents a compute instance.
type VM struct {
	ID         string            `json:"id"`          // Numeric instance ID
	Name       string            `json:"name"`        // Instance name
	State      VMState           `json:"state"`       // running, stopped, pending
	PrivateIP  string            `json:"private_ip"`  // Private IP address
	PublicIP   string            `json:"public_ip"`   // Public IP address (if any)
	Type       string            `json:"type"`        // Machine type (e2-medium)
	Zone       string            `json:"zone"`        // Zone ID
	Labels     map[string]string `json:"labels"`      // All labels
	LaunchedAt time.Time         `json:"launched_at"` // Creation time

	// Raw holds the original API response for provider-specific access
	Raw interface{} `json:"-"`
}

// IsRunning returns true if the VM is running
func (v *VM) IsRunning() bool {
	return v.State == VMStateRunning
}

// GetLabel returns a label value by key
func (v *VM) GetLabel(key string) string {
	if v.Labels == nil {
		return ""
	}
	return v.Labels[key]
}
