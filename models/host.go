package models

import "encoding/json"

// Host represents a machine the backend can deploy middleware onto.
// Hosts are read-only projections of backend state: this service never
// creates or mutates them.
//
// Example JSON representation:
//
//	{
//	  "host_id": 12,
//	  "host_name": "node-a",
//	  "ip_addr": "10.0.0.12",
//	  "status": {"code": 1, "desc": "online"},
//	  "os_version": "22.04",
//	  "os_arch": "x86_64",
//	  "host_os": "ubuntu",
//	  "host_arch": "amd64"
//	}
type Host struct {
	// HostID is the backend identifier of the host
	HostID int64 `json:"host_id"`

	// HostName is the unique, human-readable host name used for lookups
	HostName string `json:"host_name"`

	// IPAddr is the primary IPv4 address
	IPAddr string `json:"ip_addr"`

	// Status is the backend's status object, passed through verbatim
	Status json.RawMessage `json:"status"`

	OSVersion string `json:"os_version"`
	OSArch    string `json:"os_arch"`
	HostOS    string `json:"host_os"`
	HostArch  string `json:"host_arch"`
}
