package backendtest

import (
	"encoding/json"
	"net/http"

	"evalgo.org/megacloud-mcp/models"
)

// Route patterns of the backend endpoints, as registered on the fake.
const (
	RouteNodes         = "/v1/middleware/management/instance/nodes"
	RouteInstances     = "/v1/middleware/management/instance"
	RouteInstance      = "/v1/middleware/management/instance/:id"
	RouteOperation     = "/v1/middleware/management/instance/:id/operations/:op"
	RouteStatus        = "/v1/middleware/management/instance/:id/status"
	RouteAddNodes      = "/v1/middleware/management/instance/:id/add-nodes"
	RouteInstanceNodes = "/v1/middleware/management/instance/:id/nodes"
	RouteRemoveNodes   = "/v1/middleware/management/instance/:id/remove-nodes"
	RouteBackup        = "/v1/middleware/management/backup/:id/backup-immediately"
	RouteHosts         = "/v1/middleware/management/hosts/get-for-deploy"
	RouteServices      = "/v1/middleware/management/services"
	RouteChanges       = "/v1/middleware/management/state-machine/:type/:id/changes"
	RouteEventRules    = "/v1/monitor/event-rules"
	RouteEventRule     = "/v1/monitor/event-rules/:id"
	RouteLogs          = "/v1/monitor/middleware-logs"
	RouteAuth          = "/v1/control/my-authorizations"
	RouteTimeSeries    = "/v1/monitor/tenants/:tenant/time-series"
	RouteMetricTrees   = "/v1/monitor/dashboard-metric-trees"
)

// TenantID is the tenant StubInventory's authorization endpoint reports.
const TenantID = 77

// Types is the middleware catalog served by StubInventory.
var Types = []models.MiddlewareType{
	{Name: "MySQL", MiddlewareType: 1},
	{Name: "Redis", MiddlewareType: 4},
	{Name: "Kafka", MiddlewareType: 6},
	{Name: "Prometheus", MiddlewareType: 14},
}

// Hosts is the host list served by StubInventory.
var Hosts = []models.Host{
	{HostID: 11, HostName: "hostA", IPAddr: "10.0.0.11", Status: json.RawMessage(`{"code":1}`), OSArch: "x86_64", HostOS: "ubuntu", HostArch: "amd64", OSVersion: "22.04"},
	{HostID: 12, HostName: "hostB", IPAddr: "10.0.0.12", Status: json.RawMessage(`{"code":1}`), OSArch: "x86_64", HostOS: "ubuntu", HostArch: "amd64", OSVersion: "22.04"},
	{HostID: 13, HostName: "hostC", IPAddr: "10.0.0.13", Status: json.RawMessage(`{"code":1}`), OSArch: "aarch64", HostOS: "debian", HostArch: "arm64", OSVersion: "12"},
}

// Instances is the instance list served by StubInventory. MiddlewareName is
// empty, as the backend sends it.
var Instances = []models.MiddlewareInstance{
	{InstanceID: 31, Name: "cache", MiddlewareType: 4, MajorVersion: "7.4", MinorVersion: "7.4.2", Status: json.RawMessage(`{"code":2,"desc":"running"}`)},
	{InstanceID: 32, Name: "orders-db", MiddlewareType: 1, MajorVersion: "8.0", MinorVersion: "8.0.36", Status: json.RawMessage(`{"code":2,"desc":"running"}`)},
	{InstanceID: 33, Name: "metrics", MiddlewareType: 14, MajorVersion: "2.53", MinorVersion: "2.53.0", Status: json.RawMessage(`{"code":2,"desc":"running"}`)},
}

// StubInventory registers the type catalog, host list, instance list and
// authorization endpoints with the default fixtures.
func (s *Server) StubInventory() {
	s.JSON(http.MethodGet, RouteServices, http.StatusOK, map[string]interface{}{"list": Types})
	s.JSON(http.MethodGet, RouteHosts, http.StatusOK, Hosts)
	s.JSON(http.MethodGet, RouteInstances, http.StatusOK, map[string]interface{}{"list": Instances})
	s.JSON(http.MethodGet, RouteAuth, http.StatusOK, map[string]interface{}{
		"username":    "ops",
		"tenant_id":   TenantID,
		"tenant_name": "acme",
		"privileges":  []string{},
		"role":        []string{"admin"},
		"role_set":    []string{},
		"permissions": []string{},
		"resources":   []string{},
	})
}
