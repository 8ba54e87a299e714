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
	monitorPrefix  = "/v1/monitor"
	eventRulesPath = monitorPrefix + "/event-rules"
)

// AlertRulesRaw returns the alert rules of a service as the backend sends
// them. The maps are suitable for sending back through UpdateAlertRule.
func (g *Gateway) AlertRulesRaw(ctx context.Context, service string) ([]map[string]interface{}, error) {
	var page struct {
		Data []map[string]interface{} `json:"data"`
	}
	err := g.call(ctx, client.Request{
		Method: http.MethodGet,
		Path:   eventRulesPath,
		Query: url.Values{
			"name":      {""},
			"zone":      {""},
			"domain":    {""},
			"service":   {service},
			"page_size": {"10"},
		},
	}, http.StatusOK, &page)
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// AlertRules returns the alert rules of a service with level, status and
// update time translated for display.
func (g *Gateway) AlertRules(ctx context.Context, service string) ([]models.AlertRule, error) {
	raw, err := g.AlertRulesRaw(ctx, service)
	if err != nil {
		return nil, err
	}

	rules := make([]models.AlertRule, 0, len(raw))
	for _, r := range raw {
		rule, err := g.alertRule(r)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (g *Gateway) alertRule(r map[string]interface{}) (models.AlertRule, error) {
	id, err := int64Of(r["id"])
	if err != nil {
		return models.AlertRule{}, fmt.Errorf("decode alert rule id: %w", err)
	}
	updated, err := int64Of(r["updated_at"])
	if err != nil {
		return models.AlertRule{}, fmt.Errorf("decode alert rule %d updated_at: %w", id, err)
	}

	status := UnknownName
	if code, err := strconv.Atoi(codeOf(r["status"])); err == nil {
		status = AlertStatusName(code)
	}

	return models.AlertRule{
		ID:                  id,
		Name:                stringOf(r["name"]),
		UpdatedAt:           FormatMillis(updated, g.loc),
		Description:         stringOf(r["description"]),
		ResolvedDescription: stringOf(r["resolved_description"]),
		Rules:               stringOf(r["rules"]),
		Status:              status,
		Level:               AlertLevelName(codeOf(r["level"])),
	}, nil
}

// CreateAlertRule submits a new alert rule. The backend answers 201.
func (g *Gateway) CreateAlertRule(ctx context.Context, body models.AlertRuleRequest) (json.RawMessage, error) {
	var out json.RawMessage
	err := g.call(ctx, client.Request{
		Method: http.MethodPost,
		Path:   eventRulesPath,
		Body:   body,
	}, http.StatusCreated, &out)
	return out, err
}

// UpdateAlertRule replaces an alert rule with body.
func (g *Gateway) UpdateAlertRule(ctx context.Context, id int64, body interface{}) (json.RawMessage, error) {
	var out json.RawMessage
	err := g.call(ctx, client.Request{
		Method:   http.MethodPut,
		Path:     eventRulesPath + "/" + strconv.FormatInt(id, 10),
		Endpoint: eventRulesPath + "/{id}",
		Body:     body,
	}, http.StatusOK, &out)
	return out, err
}

// DeleteAlertRule removes an alert rule.
func (g *Gateway) DeleteAlertRule(ctx context.Context, id int64) (json.RawMessage, error) {
	var out json.RawMessage
	err := g.call(ctx, client.Request{
		Method:   http.MethodDelete,
		Path:     eventRulesPath + "/" + strconv.FormatInt(id, 10),
		Endpoint: eventRulesPath + "/{id}",
	}, http.StatusOK, &out)
	return out, err
}

// LogQuery selects one page of an instance's logs. Start and End are Unix
// milliseconds.
type LogQuery struct {
	Start   int64
	End     int64
	LogType string
	Page    int
}

// InstanceLogs returns one page of logs of an instance. The log type is
// checked against the instance's log category before the backend is called.
func (g *Gateway) InstanceLogs(ctx context.Context, instance models.MiddlewareInstance, q LogQuery) (*models.InstanceLogs, error) {
	category, err := LogCategoryForType(instance.MiddlewareType)
	if err != nil {
		return nil, err
	}
	allowed, _ := LogTypesForCategory(category)
	if !contains(allowed, q.LogType) {
		return nil, errdefs.Unsupported("log type", q.LogType, allowed)
	}

	var logs models.InstanceLogs
	err = g.call(ctx, client.Request{
		Method: http.MethodGet,
		Path:   monitorPrefix + "/middleware-logs",
		Query: url.Values{
			"start":        {strconv.FormatInt(q.Start, 10)},
			"end":          {strconv.FormatInt(q.End, 10)},
			"service":      {instance.Name},
			"keyword":      {""},
			"hostIpv4":     {""},
			"current_page": {strconv.Itoa(q.Page)},
			"page_size":    {"50"},
			"kind":         {category},
			"log_type":     {q.LogType},
			"host_name":    {""},
			"node_name":    {""},
		},
	}, http.StatusOK, &logs)
	if err != nil {
		return nil, err
	}

	for _, row := range logs.Data {
		v, ok := row["log_time"]
		if !ok {
			continue
		}
		ms, err := int64Of(v)
		if err != nil {
			return nil, fmt.Errorf("decode log_time: %w", err)
		}
		row["log_time"] = FormatMillis(ms, g.loc)
	}
	return &logs, nil
}

// Authorizations describes the caller behind the bearer token.
func (g *Gateway) Authorizations(ctx context.Context) (*models.AuthorizationInfo, error) {
	var info models.AuthorizationInfo
	err := g.call(ctx, client.Request{
		Method: http.MethodGet,
		Path:   "/v1/control/my-authorizations",
	}, http.StatusOK, &info)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// TenantID returns the tenant monitoring queries run under.
func (g *Gateway) TenantID(ctx context.Context) (int64, error) {
	info, err := g.Authorizations(ctx)
	if err != nil {
		return 0, err
	}
	return info.TenantID, nil
}

// TimeSeries runs a monitoring query for a tenant and returns the raw result.
func (g *Gateway) TimeSeries(ctx context.Context, tenantID int64, q models.TimeSeriesQuery) (json.RawMessage, error) {
	var out json.RawMessage
	err := g.call(ctx, client.Request{
		Method:   http.MethodPost,
		Path:     fmt.Sprintf("%s/tenants/%d/time-series", monitorPrefix, tenantID),
		Endpoint: monitorPrefix + "/tenants/{tenant_id}/time-series",
		Body:     q,
	}, http.StatusOK, &out)
	return out, err
}

type metricTreeNode struct {
	Children []metricTreeNode `json:"children"`
	Name     string           `json:"name"`
	Desc     string           `json:"desc"`
}

// AlertMetrics returns the metrics alert rules can watch for a middleware
// kind.
func (g *Gateway) AlertMetrics(ctx context.Context, middlewareName string) ([]models.AlertMetric, error) {
	var tree struct {
		Root []metricTreeNode `json:"root"`
	}
	err := g.call(ctx, client.Request{
		Method: http.MethodGet,
		Path:   monitorPrefix + "/dashboard-metric-trees",
		Query:  url.Values{"metric_type": {"origin"}, "groups": {middlewareName}},
	}, http.StatusOK, &tree)
	if err != nil {
		return nil, err
	}

	if len(tree.Root) == 0 ||
		len(tree.Root[0].Children) == 0 ||
		len(tree.Root[0].Children[0].Children) == 0 {
		return nil, fmt.Errorf("decode alert metrics for %s: missing root[0].children[0].children[0]", middlewareName)
	}

	leaves := tree.Root[0].Children[0].Children[0].Children
	out := make([]models.AlertMetric, 0, len(leaves))
	for _, m := range leaves {
		out = append(out, models.AlertMetric{Name: m.Name, Desc: m.Desc})
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
