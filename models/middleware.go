package models

import "encoding/json"

// MiddlewareType is one entry of the backend's deployable middleware catalog.
type MiddlewareType struct {
	// Name is the human name (e.g. "Redis")
	Name string `json:"name"`

	// MiddlewareType is the backend type code (e.g. 4 for Redis)
	MiddlewareType int `json:"middleware_type"`
}

// Node is a placement slot allocated by the backend for one member of an
// instance. It is consumed immediately to build a MiddlewareNode.
type Node struct {
	NodeName       string `json:"node_name"`
	MiddlewareType int    `json:"middleware_type"`

	// GroupTags is the role the node was allocated for (master, replica, ...)
	GroupTags string `json:"group_tags"`

	TenantID int64 `json:"tenant_id"`
}

// MiddlewareNode is a Node bound to the Host it will run on. It is sent to the
// backend in instance-creation and add-nodes requests.
type MiddlewareNode struct {
	NodeName       string `json:"node_name"`
	MiddlewareType int    `json:"middleware_type"`
	GroupTags      string `json:"group_tags"`
	TenantID       int64  `json:"tenant_id"`

	// HostID is sent as a string, unlike Host.HostID
	HostID   string `json:"host_id"`
	HostName string `json:"host_name"`
	OSArch   string `json:"os_arch"`
}

// MiddlewareInstance is a deployed middleware service. Almost every
// per-instance operation starts by resolving one of these by name.
//
// Example JSON representation:
//
//	{
//	  "instance_id": 31,
//	  "name": "redis_1f2e3d4c5b6a7988",
//	  "middleware_type": 4,
//	  "middleware_name": "Redis",
//	  "major_version": "7.4",
//	  "minor_version": "7.4.2",
//	  "status": {"code": 2, "desc": "running"}
//	}
type MiddlewareInstance struct {
	// InstanceID is the backend identifier used in every per-instance endpoint
	InstanceID int64 `json:"instance_id"`

	// Name is the instance name callers use to address the instance
	Name string `json:"name"`

	// MiddlewareType is the backend type code
	MiddlewareType int `json:"middleware_type"`

	// MiddlewareName is resolved locally from MiddlewareType through the type
	// cache; it is "Unknown" when the code is not in the catalog
	MiddlewareName string `json:"middleware_name"`

	MajorVersion string `json:"major_version"`
	MinorVersion string `json:"minor_version"`

	// Status is the backend's status object, passed through verbatim
	Status json.RawMessage `json:"status"`
}

// MiddlewareNodeInfo is the extended view of one node of an instance.
type MiddlewareNodeInfo struct {
	ID             int64             `json:"id"`
	InstanceID     int64             `json:"instance_id"`
	HostID         int64             `json:"host_id"`
	HostIP         string            `json:"host_ip"`
	HostName       string            `json:"host_name"`
	Status         json.RawMessage   `json:"status"`
	MiddlewareType int               `json:"middleware_type"`
	GroupTags      string            `json:"group_tags"`
	NodeName       string            `json:"node_name"`
	CPU            int64             `json:"cpu"`
	Memory         int64             `json:"memory"`
	Storage        int64             `json:"storage"`
	NodeContainers []json.RawMessage `json:"node_containers"`
}

// GroupInfo asks the backend for NodeNum nodes tagged Group.
type GroupInfo struct {
	Group    string `json:"group"`
	GroupNum int    `json:"group_num"`
	NodeNum  int    `json:"node_num"`
	IsShard  bool   `json:"is_shard"`
}

// CreateNodesRequest is the body of the node allocation endpoint.
type CreateNodesRequest struct {
	MiddlewareType int         `json:"middleware_type"`
	GroupInfos     []GroupInfo `json:"group_infos"`
}

// GroupConfig carries per-group configuration in instance payloads.
type GroupConfig struct {
	Group   string                 `json:"group"`
	Configs map[string]interface{} `json:"configs"`
}

// GeneralConfig holds the directory layout of an instance.
type GeneralConfig struct {
	DataDir   string `json:"data_dir"`
	BackupDir string `json:"backup_dir"`
	LogDir    string `json:"log_dir"`
}

// CreateInstanceRequest is the body of the instance creation endpoint.
type CreateInstanceRequest struct {
	MiddlewareName string                   `json:"middlewareName"`
	MiddlewareType int                      `json:"middleware_type"`
	TagIDs         []int64                  `json:"tag_ids"`
	Name           string                   `json:"name"`
	DeployMode     string                   `json:"deploy_mode"`
	Nodes          []MiddlewareNode         `json:"nodes"`
	GeneralConfig  GeneralConfig            `json:"general_config"`
	Configs        map[string]interface{}   `json:"configs"`
	GroupConfigs   []GroupConfig            `json:"group_configs"`
	NodeConfigs    []map[string]interface{} `json:"node_configs"`
	MajorVersion   string                   `json:"major_version"`
	MinorVersion   string                   `json:"minor_version"`
	AutoDeploy     int                      `json:"auto_deploy"`
	AppImages      []string                 `json:"app_images"`
}

// AddNodesRequest is the body of the add-nodes endpoint.
type AddNodesRequest struct {
	Nodes        []MiddlewareNode         `json:"nodes"`
	NodeConfigs  []map[string]interface{} `json:"node_configs"`
	GroupConfigs []GroupConfig            `json:"group_configs"`
}

// RemoveNodesRequest is the body of the remove-nodes endpoint.
type RemoveNodesRequest struct {
	Nodes []int64 `json:"nodes"`
}
