package orchestration

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"evalgo.org/megacloud-mcp/internal/errdefs"
	"evalgo.org/megacloud-mcp/models"
)

const masterGroup = "master"

// GroupHosts assigns the hosts of one node group. Allocated nodes are paired
// with Hosts by position.
type GroupHosts struct {
	Group string
	Hosts []string
}

// SingleNodeRequest describes a single-node instance.
type SingleNodeRequest struct {
	MiddlewareName string
	HostName       string
	Configs        map[string]interface{}
	MajorVersion   string
	MinorVersion   string

	// Name defaults to a generated "<middleware>_<hex>" name.
	Name string
}

// ClusterRequest describes a clustered instance.
type ClusterRequest struct {
	MiddlewareName string
	Groups         []GroupHosts
	Configs        map[string]interface{}
	MajorVersion   string
	MinorVersion   string
	Name           string
}

// CreateSingleNode deploys a middleware instance on one host.
func (s *Service) CreateSingleNode(ctx context.Context, req SingleNodeRequest) (json.RawMessage, error) {
	code, err := s.middlewareType(ctx, req.MiddlewareName)
	if err != nil {
		return nil, err
	}

	nodes, err := s.allocate(ctx, code, []GroupHosts{{Group: masterGroup, Hosts: []string{req.HostName}}})
	if err != nil {
		return nil, err
	}
	if len(nodes) != 1 {
		return nil, partial(nodes, fmt.Errorf("expected 1 allocated node, backend returned %d", len(nodes)))
	}

	hosts, err := s.indexHosts(ctx)
	if err != nil {
		return nil, partial(nodes, err)
	}
	host, err := hosts.lookup(req.HostName)
	if err != nil {
		return nil, partial(nodes, err)
	}

	name := s.instanceName(req.Name, req.MiddlewareName)
	body := buildInstanceRequest(req.MiddlewareName, code, name,
		[]models.MiddlewareNode{joinNode(nodes[0], code, host)},
		req.Configs, req.MajorVersion, req.MinorVersion, []string{masterGroup})

	out, err := s.gw.CreateInstance(ctx, body)
	if err != nil {
		return nil, partial(nodes, err)
	}
	s.logger.Info().Str("instance", name).Str("middleware", req.MiddlewareName).Str("host", req.HostName).Msg("created single-node instance")
	return out, nil
}

// CreateCluster deploys a middleware instance across several hosts and
// node groups.
func (s *Service) CreateCluster(ctx context.Context, req ClusterRequest) (json.RawMessage, error) {
	if err := checkGroups(req.Groups); err != nil {
		return nil, err
	}

	code, err := s.middlewareType(ctx, req.MiddlewareName)
	if err != nil {
		return nil, err
	}

	nodes, err := s.allocate(ctx, code, req.Groups)
	if err != nil {
		return nil, err
	}

	members, err := s.bindNodes(ctx, code, nodes, req.Groups)
	if err != nil {
		return nil, partial(nodes, err)
	}

	groups := make([]string, 0, len(req.Groups))
	for _, g := range req.Groups {
		groups = append(groups, g.Group)
	}

	name := s.instanceName(req.Name, req.MiddlewareName)
	body := buildInstanceRequest(req.MiddlewareName, code, name, members,
		req.Configs, req.MajorVersion, req.MinorVersion, groups)

	out, err := s.gw.CreateInstance(ctx, body)
	if err != nil {
		return nil, partial(nodes, err)
	}
	s.logger.Info().Str("instance", name).Str("middleware", req.MiddlewareName).Int("nodes", len(members)).Msg("created cluster instance")
	return out, nil
}

// AddNodes grows an existing instance. The instance is resolved before any
// node is allocated.
func (s *Service) AddNodes(ctx context.Context, instanceName, middlewareName string, groups []GroupHosts) (json.RawMessage, error) {
	if err := checkGroups(groups); err != nil {
		return nil, err
	}

	instance, err := s.gw.FindInstance(ctx, instanceName)
	if err != nil {
		return nil, err
	}

	code, err := s.middlewareType(ctx, middlewareName)
	if err != nil {
		return nil, err
	}
	if instance.MiddlewareType != code {
		return nil, fmt.Errorf("instance %s is %s, not %s", instanceName, instance.MiddlewareName, middlewareName)
	}

	nodes, err := s.allocate(ctx, code, groups)
	if err != nil {
		return nil, err
	}

	members, err := s.bindNodes(ctx, code, nodes, groups)
	if err != nil {
		return nil, partial(nodes, err)
	}

	out, err := s.gw.AddInstanceNodes(ctx, instance.InstanceID, models.AddNodesRequest{
		Nodes:        members,
		NodeConfigs:  []map[string]interface{}{},
		GroupConfigs: []models.GroupConfig{},
	})
	if err != nil {
		return nil, partial(nodes, err)
	}
	s.logger.Info().Str("instance", instanceName).Int("nodes", len(members)).Msg("added nodes to instance")
	return out, nil
}

// middlewareType resolves a middleware name, failing on unknown names.
func (s *Service) middlewareType(ctx context.Context, name string) (int, error) {
	types := s.gw.Types()
	code, err := types.MiddlewareType(ctx, name)
	if err != nil {
		return 0, err
	}
	if code < 0 {
		known, err := types.Names(ctx)
		if err != nil {
			return 0, err
		}
		return 0, errdefs.Unsupported("middleware type", name, known)
	}
	return code, nil
}

// allocate requests len(Hosts) nodes for every group.
func (s *Service) allocate(ctx context.Context, code int, groups []GroupHosts) ([]models.Node, error) {
	infos := make([]models.GroupInfo, 0, len(groups))
	for _, g := range groups {
		infos = append(infos, models.GroupInfo{
			Group:    g.Group,
			GroupNum: 1,
			NodeNum:  len(g.Hosts),
			IsShard:  false,
		})
	}

	nodes, err := s.gw.CreateNodes(ctx, models.CreateNodesRequest{MiddlewareType: code, GroupInfos: infos})
	if err != nil {
		return nil, fmt.Errorf("failed to allocate nodes: %w", err)
	}
	return nodes, nil
}

// bindNodes pairs allocated nodes with the requested hosts, group by group
// and position by position, and resolves every host.
func (s *Service) bindNodes(ctx context.Context, code int, nodes []models.Node, groups []GroupHosts) ([]models.MiddlewareNode, error) {
	byGroup := make(map[string][]models.Node)
	for _, n := range nodes {
		byGroup[n.GroupTags] = append(byGroup[n.GroupTags], n)
	}

	requested := make(map[string]bool, len(groups))
	for _, g := range groups {
		requested[g.Group] = true
	}
	for tag := range byGroup {
		if !requested[tag] {
			return nil, fmt.Errorf("backend allocated nodes for unrequested group %q", tag)
		}
	}

	hosts, err := s.indexHosts(ctx)
	if err != nil {
		return nil, err
	}

	var members []models.MiddlewareNode
	for _, g := range groups {
		pairs, err := zip(g.Group, byGroup[g.Group], g.Hosts)
		if err != nil {
			return nil, err
		}
		for _, p := range pairs {
			host, err := hosts.lookup(p.hostName)
			if err != nil {
				return nil, err
			}
			members = append(members, joinNode(p.node, code, host))
		}
	}
	return members, nil
}

type nodeHost struct {
	node     models.Node
	hostName string
}

// zip pairs nodes[i] with hostNames[i]. The lengths must match.
func zip(group string, nodes []models.Node, hostNames []string) ([]nodeHost, error) {
	if len(nodes) != len(hostNames) {
		return nil, fmt.Errorf("group %s: backend allocated %d nodes for %d hosts", group, len(nodes), len(hostNames))
	}
	pairs := make([]nodeHost, len(nodes))
	for i := range nodes {
		pairs[i] = nodeHost{node: nodes[i], hostName: hostNames[i]}
	}
	return pairs, nil
}

type hostIndex struct {
	byName map[string]models.Host
	names  []string
}

func (s *Service) indexHosts(ctx context.Context) (*hostIndex, error) {
	hosts, err := s.gw.ListHosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list hosts: %w", err)
	}
	idx := &hostIndex{byName: make(map[string]models.Host, len(hosts))}
	for _, h := range hosts {
		idx.names = append(idx.names, h.HostName)
		if _, seen := idx.byName[h.HostName]; !seen {
			idx.byName[h.HostName] = h
		}
	}
	return idx, nil
}

func (idx *hostIndex) lookup(name string) (models.Host, error) {
	h, ok := idx.byName[name]
	if !ok {
		return models.Host{}, errdefs.NotFound("host", name, idx.names)
	}
	return h, nil
}

func joinNode(n models.Node, code int, h models.Host) models.MiddlewareNode {
	return models.MiddlewareNode{
		NodeName:       n.NodeName,
		MiddlewareType: code,
		GroupTags:      n.GroupTags,
		TenantID:       n.TenantID,
		HostID:         strconv.FormatInt(h.HostID, 10),
		HostName:       h.HostName,
		OSArch:         h.OSArch,
	}
}

func buildInstanceRequest(
	middlewareName string,
	code int,
	name string,
	nodes []models.MiddlewareNode,
	configs map[string]interface{},
	major, minor string,
	groups []string,
) models.CreateInstanceRequest {
	if configs == nil {
		configs = map[string]interface{}{}
	}

	deployMode := "1"
	if len(nodes) == 1 {
		deployMode = "0"
	}

	groupConfigs := make([]models.GroupConfig, 0, len(groups))
	for _, g := range groups {
		groupConfigs = append(groupConfigs, models.GroupConfig{Group: g, Configs: map[string]interface{}{}})
	}

	path := strings.ToLower(middlewareName) + "/" + name
	return models.CreateInstanceRequest{
		MiddlewareName: middlewareName,
		MiddlewareType: code,
		TagIDs:         []int64{},
		Name:           name,
		DeployMode:     deployMode,
		Nodes:          nodes,
		GeneralConfig: models.GeneralConfig{
			DataDir:   "/data/megaease/" + path,
			BackupDir: "/backup/megaease/" + path,
			LogDir:    "/var/log/megaease/" + path,
		},
		Configs:      configs,
		GroupConfigs: groupConfigs,
		NodeConfigs:  []map[string]interface{}{},
		MajorVersion: major,
		MinorVersion: minor,
		AutoDeploy:   0,
		AppImages:    []string{},
	}
}

func (s *Service) instanceName(name, middlewareName string) string {
	if name != "" {
		return name
	}
	return s.newName(strings.ToLower(middlewareName))
}

// checkGroups rejects empty and repeated groups and requests without hosts.
func checkGroups(groups []GroupHosts) error {
	seen := make(map[string]bool, len(groups))
	total := 0
	for _, g := range groups {
		if g.Group == "" {
			return fmt.Errorf("node group name must not be empty")
		}
		if seen[g.Group] {
			return fmt.Errorf("node group %s given more than once", g.Group)
		}
		seen[g.Group] = true
		total += len(g.Hosts)
	}
	if total == 0 {
		return ErrNoHosts
	}
	return nil
}

func partial(nodes []models.Node, err error) error {
	names := make([]string, 0, len(nodes))
	for _, n := range nodes {
		names = append(names, n.NodeName)
	}
	return &PartialAllocationError{Nodes: names, Err: err}
}
