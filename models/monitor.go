package models

import "encoding/json"

// ChangeEvent is one entry of an instance's lifecycle history. The state
// machine itself lives in the backend; this is a read-only log line.
type ChangeEvent struct {
	Event  string `json:"event"`
	Result string `json:"result"`

	// Status reads "from <state> to <state>"
	Status string `json:"status"`

	CreateTime string `json:"create_time"`
	UpdateTime string `json:"update_time"`
}

// AlertRule is an alert rule with its level and status translated to display
// strings.
type AlertRule struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	UpdatedAt           string `json:"updated_at"`
	Description         string `json:"description"`
	ResolvedDescription string `json:"resolved_description"`
	Rules               string `json:"rules"`
	Status              string `json:"status"`
	Level               string `json:"level"`
}

// AlertRuleRequest is the body of the alert rule creation endpoint. Schedule
// and Rules are JSON documents encoded as strings, as the backend expects.
type AlertRuleRequest struct {
	Name                string `json:"name"`
	Description         string `json:"description"`
	ResolvedDescription string `json:"resolved_description"`
	Type                string `json:"type"`
	Service             string `json:"service"`
	Status              int    `json:"status"`
	Schedule            string `json:"schedule"`
	Level               string `json:"level"`
	Rules               string `json:"rules"`
}

// AlertSchedule is one entry of an alert rule schedule.
type AlertSchedule struct {
	PeriodUnit string `json:"period_unit"`
	StartInSec string `json:"start_in_sec"`
	EndInSec   string `json:"end_in_sec"`
	Days       []int  `json:"days"`
}

// AlertPredicate compares a metric value.
type AlertPredicate struct {
	Value float64 `json:"value"`
	Op    string  `json:"op"`
}

// AlertCondition is one builder-style alert rule condition.
type AlertCondition struct {
	Type       string         `json:"type"`
	Count      int            `json:"count"`
	Duration   int            `json:"duration"`
	Predicate  AlertPredicate `json:"predicate"`
	Metric     string         `json:"metric"`
	Extensions []string       `json:"extensions"`
}

// AlertMetric is a metric an alert rule can watch.
type AlertMetric struct {
	Name string `json:"name"`
	Desc string `json:"desc"`
}

// InstanceLogs is one page of log lines.
type InstanceLogs struct {
	TotalSize   int64                    `json:"total_size"`
	CurrentPage int                      `json:"current_page"`
	PageSize    int                      `json:"page_size"`
	Data        []map[string]interface{} `json:"data"`
}

// AuthorizationInfo describes the caller behind the bearer token. Only
// TenantID is interpreted; the lists are passed through.
type AuthorizationInfo struct {
	Username    string          `json:"username"`
	TenantID    int64           `json:"tenant_id"`
	TenantName  string          `json:"tenant_name"`
	Privileges  json.RawMessage `json:"privileges"`
	Role        json.RawMessage `json:"role"`
	RoleSet     json.RawMessage `json:"role_set"`
	Permissions json.RawMessage `json:"permissions"`
	Resources   json.RawMessage `json:"resources"`
}

// MetricFunction applies an aggregation to a metric.
type MetricFunction struct {
	Kind string `json:"kind" yaml:"kind"`
}

// MetricGroupBy splits a metric by a dimension.
type MetricGroupBy struct {
	By string `json:"by" yaml:"by"`
}

// MetricQuery is one metric fragment of a time-series query.
type MetricQuery struct {
	Name      string           `json:"name" yaml:"name"`
	Functions []MetricFunction `json:"functions,omitempty" yaml:"functions,omitempty"`
	Groups    []MetricGroupBy  `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// SeriesFilter restricts a time-series query to matching label values.
type SeriesFilter struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// TimeSeriesQuery is the body of the tenant time-series endpoint. Start and
// End are Unix milliseconds.
type TimeSeriesQuery struct {
	Filters []SeriesFilter `json:"filters"`
	Start   int64          `json:"start"`
	End     int64          `json:"end"`
	Metrics []MetricQuery  `json:"metrics"`
}
