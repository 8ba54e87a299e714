package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"evalgo.org/megacloud-mcp/internal/client"
	"evalgo.org/megacloud-mcp/internal/errdefs"
	"evalgo.org/megacloud-mcp/models"
)

const (
	managementPrefix = "/v1/middleware/management"
	instancePath     = managementPrefix + "/instance"

	// OK is returned by endpoints that only acknowledge success.
	OK = "OK"
)

func instanceItemPath(id int64, suffix string) string {
	return instancePath + "/" + strconv.FormatInt(id, 10) + suffix
}

// CreateNodes asks the backend to allocate nodes for a middleware type.
func (g *Gateway) CreateNodes(ctx context.Context, body models.CreateNodesRequest) ([]models.Node, error) {
	var nodes []models.Node
	err := g.call(ctx, client.Request{
		Method: http.MethodPost,
		Path:   instancePath + "/nodes",
		Body:   body,
	}, http.StatusOK, &nodes)
	if err != nil {
		g.logger.Error().Err(err).Int("middleware_type", body.MiddlewareType).Msg("failed to create nodes")
		return nil, err
	}
	return nodes, nil
}

// CreateInstance submits a fully built instance payload.
func (g *Gateway) CreateInstance(ctx context.Context, body models.CreateInstanceRequest) (json.RawMessage, error) {
	var out json.RawMessage
	err := g.call(ctx, client.Request{
		Method: http.MethodPost,
		Path:   instancePath,
		Body:   body,
	}, http.StatusOK, &out)
	if err != nil {
		g.logger.Error().Err(err).Str("instance", body.Name).Msg("failed to create middleware instance")
		return nil, err
	}
	return out, nil
}

// ListHosts returns the hosts available for deployment.
func (g *Gateway) ListHosts(ctx context.Context) ([]models.Host, error) {
	var hosts []models.Host
	err := g.call(ctx, client.Request{
		Method: http.MethodGet,
		Path:   managementPrefix + "/hosts/get-for-deploy",
	}, http.StatusOK, &hosts)
	return hosts, err
}

// ListMiddlewareTypes returns the deployable middleware catalog.
func (g *Gateway) ListMiddlewareTypes(ctx context.Context) ([]models.MiddlewareType, error) {
	var page struct {
		List []models.MiddlewareType `json:"list"`
	}
	err := g.call(ctx, client.Request{
		Method: http.MethodGet,
		Path:   managementPrefix + "/services",
		Query:  url.Values{"pageSize": {"50"}},
	}, http.StatusOK, &page)
	if err != nil {
		return nil, err
	}
	return page.List, nil
}

// ListInstances returns the raw instance listing. MiddlewareName is left
// empty; see ListCurrentInstances.
func (g *Gateway) ListInstances(ctx context.Context) ([]models.MiddlewareInstance, error) {
	var page struct {
		List []models.MiddlewareInstance `json:"list"`
	}
	err := g.call(ctx, client.Request{
		Method: http.MethodGet,
		Path:   instancePath,
		Query: url.Values{
			"name":     {""},
			"hostName": {""},
			"rows":     {"100"},
			"page":     {"1"},
			"group":    {"middleware"},
		},
	}, http.StatusOK, &page)
	if err != nil {
		return nil, err
	}
	return page.List, nil
}

// ListCurrentInstances lists instances and resolves each middleware name
// through the type cache.
func (g *Gateway) ListCurrentInstances(ctx context.Context) ([]models.MiddlewareInstance, error) {
	instances, err := g.ListInstances(ctx)
	if err != nil {
		return nil, err
	}
	for i := range instances {
		name, err := g.types.MiddlewareName(ctx, instances[i].MiddlewareType)
		if err != nil {
			return nil, err
		}
		instances[i].MiddlewareName = name
	}
	return instances, nil
}

// FindInstance resolves an instance by exact name. The backend offers no
// lookup by name, so this lists every instance. When several instances share
// the name the first one listed is returned.
func (g *Gateway) FindInstance(ctx context.Context, name string) (*models.MiddlewareInstance, error) {
	instances, err := g.ListCurrentInstances(ctx)
	if err != nil {
		return nil, err
	}

	var (
		found   *models.MiddlewareInstance
		matches int
		names   = make([]string, 0, len(instances))
	)
	for i := range instances {
		names = append(names, instances[i].Name)
		if instances[i].Name != name {
			continue
		}
		matches++
		if found == nil {
			found = &instances[i]
		}
	}

	if found == nil {
		return nil, errdefs.NotFound("middleware instance", name, names)
	}
	if matches > 1 {
		g.logger.Warn().
			Str("instance", name).
			Int("matches", matches).
			Int64("instance_id", found.InstanceID).
			Msg("duplicate instance name, using first match")
	}
	return found, nil
}

// OperateInstance applies a lifecycle operation.
func (g *Gateway) OperateInstance(ctx context.Context, id int64, op Operation) (string, error) {
	err := g.call(ctx, client.Request{
		Method:   http.MethodPut,
		Path:     instanceItemPath(id, fmt.Sprintf("/operations/%d", op)),
		Endpoint: instancePath + "/{id}/operations/{op}",
	}, http.StatusOK, nil)
	if err != nil {
		return "", err
	}
	return OK, nil
}

// DeleteInstance removes an instance.
func (g *Gateway) DeleteInstance(ctx context.Context, id int64) (string, error) {
	err := g.call(ctx, client.Request{
		Method:   http.MethodDelete,
		Path:     instanceItemPath(id, ""),
		Endpoint: instancePath + "/{id}",
	}, http.StatusOK, nil)
	if err != nil {
		return "", err
	}
	return OK, nil
}

// InstanceInfo returns the backend's full description of an instance.
func (g *Gateway) InstanceInfo(ctx context.Context, id int64) (json.RawMessage, error) {
	var out json.RawMessage
	err := g.call(ctx, client.Request{
		Method:   http.MethodGet,
		Path:     instanceItemPath(id, ""),
		Endpoint: instancePath + "/{id}",
	}, http.StatusOK, &out)
	return out, err
}

// InstanceStatus returns the backend's status document for an instance.
func (g *Gateway) InstanceStatus(ctx context.Context, id int64) (json.RawMessage, error) {
	var out json.RawMessage
	err := g.call(ctx, client.Request{
		Method:   http.MethodGet,
		Path:     instanceItemPath(id, "/status"),
		Endpoint: instancePath + "/{id}/status",
	}, http.StatusOK, &out)
	return out, err
}

// BackupInstance triggers an immediate backup.
func (g *Gateway) BackupInstance(ctx context.Context, id int64) (string, error) {
	err := g.call(ctx, client.Request{
		Method:   http.MethodPost,
		Path:     fmt.Sprintf("%s/backup/%d/backup-immediately", managementPrefix, id),
		Endpoint: managementPrefix + "/backup/{id}/backup-immediately",
	}, http.StatusOK, nil)
	if err != nil {
		return "", err
	}
	return OK, nil
}

// AddInstanceNodes attaches allocated nodes to an existing instance.
func (g *Gateway) AddInstanceNodes(ctx context.Context, id int64, body models.AddNodesRequest) (json.RawMessage, error) {
	var out json.RawMessage
	err := g.call(ctx, client.Request{
		Method:   http.MethodPost,
		Path:     instanceItemPath(id, "/add-nodes"),
		Endpoint: instancePath + "/{id}/add-nodes",
		Body:     body,
	}, http.StatusOK, &out)
	return out, err
}

// ListInstanceNodes returns the nodes of an instance.
func (g *Gateway) ListInstanceNodes(ctx context.Context, id int64) ([]models.MiddlewareNodeInfo, error) {
	var nodes []models.MiddlewareNodeInfo
	err := g.call(ctx, client.Request{
		Method:   http.MethodGet,
		Path:     instanceItemPath(id, "/nodes"),
		Endpoint: instancePath + "/{id}/nodes",
	}, http.StatusOK, &nodes)
	return nodes, err
}

// RemoveInstanceNodes detaches nodes by id.
func (g *Gateway) RemoveInstanceNodes(ctx context.Context, id int64, nodeIDs []int64) (json.RawMessage, error) {
	var out json.RawMessage
	err := g.call(ctx, client.Request{
		Method:   http.MethodPost,
		Path:     instanceItemPath(id, "/remove-nodes"),
		Endpoint: instancePath + "/{id}/remove-nodes",
		Body:     models.RemoveNodesRequest{Nodes: nodeIDs},
	}, http.StatusOK, &out)
	return out, err
}

type rawChangeEvent struct {
	Event struct {
		Desc string `json:"desc"`
	} `json:"event"`
	Result struct {
		Desc string `json:"desc"`
	} `json:"result"`
	From     interface{} `json:"from"`
	To       interface{} `json:"to"`
	CreateAt interface{} `json:"create_at"`
	UpdateAt interface{} `json:"update_at"`
}

// ChangeEvents returns the most recent lifecycle transitions of an instance.
func (g *Gateway) ChangeEvents(ctx context.Context, middlewareType int, id int64) ([]models.ChangeEvent, error) {
	var page struct {
		List []rawChangeEvent `json:"list"`
	}
	req := client.Request{
		Method:   http.MethodGet,
		Path:     fmt.Sprintf("%s/state-machine/%d/%d/changes", managementPrefix, middlewareType, id),
		Endpoint: managementPrefix + "/state-machine/{type}/{id}/changes",
		Query:    url.Values{"page": {"1"}, "pageSize": {"20"}},
	}
	if err := g.call(ctx, req, http.StatusOK, &page); err != nil {
		return nil, err
	}

	events := make([]models.ChangeEvent, 0, len(page.List))
	for _, e := range page.List {
		created, err := int64Of(e.CreateAt)
		if err != nil {
			return nil, fmt.Errorf("decode change event create_at: %w", err)
		}
		updated, err := int64Of(e.UpdateAt)
		if err != nil {
			return nil, fmt.Errorf("decode change event update_at: %w", err)
		}
		events = append(events, models.ChangeEvent{
			Event:      e.Event.Desc,
			Result:     e.Result.Desc,
			Status:     fmt.Sprintf("from %s to %s", stringOf(e.From), stringOf(e.To)),
			CreateTime: FormatMillis(created, g.loc),
			UpdateTime: FormatMillis(updated, g.loc),
		})
	}
	return events, nil
}
