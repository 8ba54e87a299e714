package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/megacloud-mcp/internal/backendtest"
	"evalgo.org/megacloud-mcp/internal/errdefs"
	"evalgo.org/megacloud-mcp/internal/gateway"
	"evalgo.org/megacloud-mcp/internal/orchestration"
	"evalgo.org/megacloud-mcp/models"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestDispatcher(t *testing.T) (*Dispatcher, *backendtest.Server) {
	t.Helper()
	srv := backendtest.New(t)
	srv.StubInventory()
	svc := orchestration.NewService(gateway.New(srv.Client(), time.UTC),
		orchestration.WithClock(func() time.Time { return fixedNow }),
	)
	return NewDispatcher(Builtin(svc)), srv
}

func schemaOf(t *testing.T, d *Dispatcher, name string) map[string]interface{} {
	t.Helper()
	for _, desc := range d.ListTools() {
		if desc.Name == name {
			var schema map[string]interface{}
			require.NoError(t, json.Unmarshal(desc.InputSchema, &schema))
			return schema
		}
	}
	t.Fatalf("tool %s not listed", name)
	return nil
}

func TestListTools(t *testing.T) {
	d, _ := newTestDispatcher(t)

	descs := d.ListTools()
	assert.Len(t, descs, 26)

	seen := map[string]bool{}
	for _, desc := range descs {
		assert.False(t, seen[desc.Name], "duplicate tool %s", desc.Name)
		seen[desc.Name] = true
		assert.NotEmpty(t, desc.Description, desc.Name)

		var schema map[string]interface{}
		require.NoError(t, json.Unmarshal(desc.InputSchema, &schema), desc.Name)
		assert.Equal(t, "object", schema["type"], desc.Name)
	}
	assert.Equal(t, ListHosts, descs[0].Name)
}

func TestListTools_SchemaCarriesDefaultsAndEnums(t *testing.T) {
	d, _ := newTestDispatcher(t)

	redis := schemaOf(t, d, CreateSingleRedisMiddleware)
	assert.Equal(t, []interface{}{"host_name"}, redis["required"])
	props := redis["properties"].(map[string]interface{})
	assert.Equal(t, float64(4), props["max_memory_in_gb"].(map[string]interface{})["default"])

	rule := schemaOf(t, d, CreateAlertRule)
	props = rule["properties"].(map[string]interface{})
	assert.Equal(t,
		[]interface{}{"CLEAR", "INDETERMINATE", "CRITICAL", "MAJOR", "MINOR", "WARNING"},
		props["level"].(map[string]interface{})["enum"])
	assert.Equal(t,
		[]interface{}{"eq", "neq", "lt", "lte", "gt", "gte"},
		props["alert_metric_operator"].(map[string]interface{})["enum"])
}

func TestCallTool_UnknownTool(t *testing.T) {
	d, _ := newTestDispatcher(t)

	_, err := d.CallTool(context.Background(), "launch_rocket", nil)
	require.Error(t, err)
	assert.True(t, errdefs.IsUnknownTool(err))
	assert.Contains(t, err.Error(), "launch_rocket")
}

func TestCallTool_ValidationNeverReachesBackend(t *testing.T) {
	d, srv := newTestDispatcher(t)

	_, err := d.CallTool(context.Background(), CreateAlertRule, map[string]interface{}{
		"name":                     "mem",
		"description":              "high",
		"resolved_description":     "ok",
		"middleware_instance_name": "cache",
		"alert_metric_type":        "redis-used-memory",
		"alert_metric_operator":    "between",
		"alert_metric_value":       80,
	})

	var verr *errdefs.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, CreateAlertRule, verr.Tool)
	assert.Equal(t, []string{"level", "alert_metric_operator"}, verr.FieldNames())
	assert.Empty(t, srv.Calls())
}

func TestCallTool_RequiresEnabledFlag(t *testing.T) {
	d, srv := newTestDispatcher(t)

	_, err := d.CallTool(context.Background(), SetAlertRuleStatus, map[string]interface{}{
		"middleware_instance_name": "cache",
		"alert_rule_name":          "mem",
	})

	var verr *errdefs.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"enabled"}, verr.FieldNames())
	assert.Empty(t, srv.Calls())
}

func TestCallTool_UndecodableArguments(t *testing.T) {
	d, srv := newTestDispatcher(t)

	_, err := d.CallTool(context.Background(), ListInstanceLogs, map[string]interface{}{
		"middleware_instance_name": "cache",
		"log_type":                 "main_log",
		"current_page":             "first",
	})
	assert.True(t, errdefs.IsValidation(err))
	assert.Contains(t, err.Error(), "current_page")
	assert.Empty(t, srv.Calls())
}

func TestCallTool_AppliesDefaults(t *testing.T) {
	d, srv := newTestDispatcher(t)
	srv.Raw(http.MethodGet, backendtest.RouteLogs, http.StatusOK,
		`{"total_size":1,"current_page":1,"page_size":50,"data":[{"log_time":1700000000000,"message":"ready"}]}`)

	out, err := d.CallTool(context.Background(), ListInstanceLogs, map[string]interface{}{
		"middleware_instance_name": "cache",
		"log_type":                 "main_log",
	})
	require.NoError(t, err)
	require.Len(t, out, 1)

	var logs models.InstanceLogs
	require.NoError(t, json.Unmarshal([]byte(out[0]), &logs))
	assert.Equal(t, "2023-11-14 22:13:20", logs.Data[0]["log_time"])

	q := srv.CallsTo(http.MethodGet, backendtest.RouteLogs)[0].Query
	assert.Equal(t, "1", q.Get("current_page"))
	assert.Equal(t, fmt.Sprint(fixedNow.UnixMilli()), q.Get("end"))
	assert.Equal(t, fmt.Sprint(fixedNow.Add(-30*time.Minute).UnixMilli()), q.Get("start"))
}

func TestCallTool_WeaklyTypedArguments(t *testing.T) {
	tests := []struct {
		name    string
		minutes interface{}
	}{
		{name: "numeric string", minutes: "60"},
		{name: "integral float", minutes: float64(60)},
		{name: "integer", minutes: 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, srv := newTestDispatcher(t)
			srv.Raw(http.MethodPost, backendtest.RouteTimeSeries, http.StatusOK, `{"ok":true}`)

			out, err := d.CallTool(context.Background(), GetHostMonitorData, map[string]interface{}{
				"host_name":                "hostA",
				"metric_group":             "cpu",
				"time_interval_in_minutes": tt.minutes,
			})
			require.NoError(t, err)
			assert.Equal(t, []string{`{"ok":true}`}, out)

			var q models.TimeSeriesQuery
			require.NoError(t, srv.CallsTo(http.MethodPost, backendtest.RouteTimeSeries)[0].DecodeBody(&q))
			assert.Equal(t, int64(60*60*1000), q.End-q.Start)
		})
	}
}

func TestCallTool_RejectsLossyCoercion(t *testing.T) {
	tests := []struct {
		name      string
		tool      string
		args      map[string]interface{}
		wantField string
	}{
		{
			name:      "fraction for an integer",
			tool:      CreateSingleRedisMiddleware,
			args:      map[string]interface{}{"host_name": "hostA", "max_memory_in_gb": 1.9},
			wantField: "max_memory_in_gb",
		},
		{
			name:      "boolean for an integer",
			tool:      GetHostMonitorData,
			args:      map[string]interface{}{"host_name": "hostA", "metric_group": "cpu", "time_interval_in_minutes": true},
			wantField: "time_interval_in_minutes",
		},
		{
			name: "boolean for a number",
			tool: CreateAlertRule,
			args: map[string]interface{}{
				"name":                     "mem",
				"description":              "high",
				"resolved_description":     "ok",
				"middleware_instance_name": "cache",
				"level":                    "MAJOR",
				"alert_metric_type":        "redis-used-memory",
				"alert_metric_operator":    "gt",
				"alert_metric_value":       true,
			},
			wantField: "alert_metric_value",
		},
		{
			name:      "boolean for a string",
			tool:      StartMiddleware,
			args:      map[string]interface{}{"middleware_instance_name": false},
			wantField: "middleware_instance_name",
		},
		{
			name:      "word for an integer",
			tool:      ListInstanceLogs,
			args:      map[string]interface{}{"middleware_instance_name": "cache", "log_type": "main_log", "current_page": "first"},
			wantField: "current_page",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, srv := newTestDispatcher(t)

			_, err := d.CallTool(context.Background(), tt.tool, tt.args)

			var verr *errdefs.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.tool, verr.Tool)
			assert.Equal(t, []string{tt.wantField}, verr.FieldNames())
			assert.Empty(t, srv.Calls())
		})
	}
}

func TestCallTool_RequiresAlertThreshold(t *testing.T) {
	d, srv := newTestDispatcher(t)
	args := map[string]interface{}{
		"name":                     "mem",
		"description":              "high",
		"resolved_description":     "ok",
		"middleware_instance_name": "cache",
		"level":                    "MAJOR",
		"alert_metric_type":        "redis-used-memory",
		"alert_metric_operator":    "gt",
	}

	_, err := d.CallTool(context.Background(), CreateAlertRule, args)

	var verr *errdefs.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"alert_metric_value"}, verr.FieldNames())
	assert.Empty(t, srv.Calls())

	args["alert_metric_value"] = 0
	decoded := &alertRuleArgs{HappenTimes: 1, HappenDuration: 60}
	require.NoError(t, decode(args, decoded))
	require.NotNil(t, decoded.MetricValue)
	assert.Equal(t, float64(0), *decoded.MetricValue)
	assert.NoError(t, d.validator.Struct(CreateAlertRule, decoded))
}

func TestCallTool_InstanceRoundTrip(t *testing.T) {
	d, _ := newTestDispatcher(t)

	out, err := d.CallTool(context.Background(), ListMiddlewareInstances, nil)
	require.NoError(t, err)
	require.Len(t, out, len(backendtest.Instances))

	names := map[int]string{1: "MySQL", 4: "Redis", 14: "Prometheus"}
	for i, text := range out {
		var got models.MiddlewareInstance
		require.NoError(t, json.Unmarshal([]byte(text), &got))

		want := backendtest.Instances[i]
		want.MiddlewareName = names[want.MiddlewareType]
		assert.Equal(t, want.InstanceID, got.InstanceID)
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.MiddlewareName, got.MiddlewareName)
		assert.Equal(t, want.MajorVersion, got.MajorVersion)
		assert.Equal(t, want.MinorVersion, got.MinorVersion)
		assert.JSONEq(t, string(want.Status), string(got.Status))
	}
}

func TestCallTool_Lifecycle(t *testing.T) {
	d, srv := newTestDispatcher(t)
	srv.Raw(http.MethodPut, backendtest.RouteOperation, http.StatusOK, `{}`)

	out, err := d.CallTool(context.Background(), RestartMiddleware, map[string]interface{}{
		"middleware_instance_name": "cache",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{gateway.OK}, out)
	assert.Equal(t, "/v1/middleware/management/instance/31/operations/5",
		srv.CallsTo(http.MethodPut, backendtest.RouteOperation)[0].Path)

	_, err = d.CallTool(context.Background(), StopMiddleware, map[string]interface{}{
		"middleware_instance_name": "nope",
	})
	assert.True(t, errdefs.IsNotFound(err))
}

func TestCallTool_LogTypes(t *testing.T) {
	d, srv := newTestDispatcher(t)

	out, err := d.CallTool(context.Background(), ListSupportLogTypes, map[string]interface{}{
		"middleware_type_name": "Redis",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"main_log"}, out)

	_, err = d.CallTool(context.Background(), ListSupportLogTypes, map[string]interface{}{
		"middleware_type_name": "Oracle",
	})
	assert.True(t, errdefs.IsUnsupported(err))
	assert.Empty(t, srv.Calls())
}

func TestCallTool_CreateSingleRedisDefaults(t *testing.T) {
	d, srv := newTestDispatcher(t)
	srv.JSON(http.MethodPost, backendtest.RouteNodes, http.StatusOK, []models.Node{
		{NodeName: "n1", MiddlewareType: 4, GroupTags: "master", TenantID: backendtest.TenantID},
	})
	srv.Raw(http.MethodPost, backendtest.RouteInstances, http.StatusOK, `{"id":1}`)

	_, err := d.CallTool(context.Background(), CreateSingleRedisMiddleware, map[string]interface{}{
		"host_name": "hostA",
		"name":      "session-cache",
	})
	require.NoError(t, err)

	var body models.CreateInstanceRequest
	require.NoError(t, srv.CallsTo(http.MethodPost, backendtest.RouteInstances)[0].DecodeBody(&body))
	assert.Equal(t, "session-cache", body.Name)
	assert.Equal(t, float64(4*1024*1024*1024), body.Configs["maxmemory"])
}

type record struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want []string
	}{
		{name: "record", in: record{Name: "a", Size: 1}, want: []string{`{"name":"a","size":1}`}},
		{name: "record pointer", in: &record{Name: "a"}, want: []string{`{"name":"a","size":0}`}},
		{name: "record list", in: []record{{Name: "a"}, {Name: "b"}}, want: []string{`{"name":"a","size":0}`, `{"name":"b","size":0}`}},
		{name: "string list", in: []string{"main_log", "slow_log"}, want: []string{"main_log", "slow_log"}},
		{name: "number list", in: []int{1, 2}, want: []string{"1", "2"}},
		{name: "empty list", in: []record{}, want: []string{EmptyList}},
		{name: "nil list", in: []string(nil), want: []string{EmptyList}},
		{name: "string", in: "OK", want: []string{"OK"}},
		{name: "raw json", in: json.RawMessage(`{"a":[1,2]}`), want: []string{`{"a":[1,2]}`}},
		{name: "map", in: map[string]int{"a": 1}, want: []string{`{"a":1}`}},
		{name: "scalar", in: 42, want: []string{"42"}},
		{name: "nil", in: nil, want: []string{"null"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	tool := define("echo", "Echo.", noArgs{}, func(context.Context, *noArgs) (interface{}, error) {
		return "hi", nil
	})
	r.Register(tool)

	assert.Panics(t, func() { r.Register(tool) })
	assert.Equal(t, []string{"echo"}, r.Names())
}
