package orchestration

import (
	"context"
	"encoding/json"
)

const (
	RedisName         = "Redis"
	RedisMajorVersion = "7.4"
	RedisMinorVersion = "7.4.2"

	// DefaultRedisMaxMemoryGB is the maxmemory used when none is given.
	DefaultRedisMaxMemoryGB = 4

	replicaGroup = "replica"
)

// RedisConfigs returns the instance configs for a maxmemory in GiB.
func RedisConfigs(maxMemoryGB int) map[string]interface{} {
	return map[string]interface{}{
		"maxmemory": int64(maxMemoryGB) * 1024 * 1024 * 1024,
	}
}

// CreateSingleRedis deploys a single-node Redis on hostName.
func (s *Service) CreateSingleRedis(ctx context.Context, hostName string, maxMemoryGB int, name string) (json.RawMessage, error) {
	return s.CreateSingleNode(ctx, SingleNodeRequest{
		MiddlewareName: RedisName,
		HostName:       hostName,
		Configs:        RedisConfigs(maxMemoryGB),
		MajorVersion:   RedisMajorVersion,
		MinorVersion:   RedisMinorVersion,
		Name:           name,
	})
}

// CreateRedisCluster deploys Redis with one master node per master host and
// one replica node per replica host.
func (s *Service) CreateRedisCluster(ctx context.Context, masters, replicas []string, maxMemoryGB int, name string) (json.RawMessage, error) {
	return s.CreateCluster(ctx, ClusterRequest{
		MiddlewareName: RedisName,
		Groups: []GroupHosts{
			{Group: masterGroup, Hosts: masters},
			{Group: replicaGroup, Hosts: replicas},
		},
		Configs:      RedisConfigs(maxMemoryGB),
		MajorVersion: RedisMajorVersion,
		MinorVersion: RedisMinorVersion,
		Name:         name,
	})
}

// AddRedisNodes adds master and/or replica nodes to a Redis instance. Groups
// without hosts are left out of the allocation.
func (s *Service) AddRedisNodes(ctx context.Context, instanceName string, masters, replicas []string) (json.RawMessage, error) {
	var groups []GroupHosts
	if len(masters) > 0 {
		groups = append(groups, GroupHosts{Group: masterGroup, Hosts: masters})
	}
	if len(replicas) > 0 {
		groups = append(groups, GroupHosts{Group: replicaGroup, Hosts: replicas})
	}
	if len(groups) == 0 {
		return nil, ErrNoHosts
	}
	return s.AddNodes(ctx, instanceName, RedisName, groups)
}
