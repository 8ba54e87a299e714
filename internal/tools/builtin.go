package tools

import (
	"context"

	"evalgo.org/megacloud-mcp/internal/gateway"
	"evalgo.org/megacloud-mcp/internal/orchestration"
)

// Tool names.
const (
	ListHosts                    = "list_available_hosts"
	ListMiddlewareTypes          = "list_middleware_types"
	ListMiddlewareInstances      = "list_middleware_instances"
	StartMiddleware              = "start_middleware"
	StopMiddleware               = "stop_middleware"
	RestartMiddleware            = "restart_middleware"
	DeleteMiddleware             = "delete_middleware"
	GetMiddlewareInfo            = "get_middleware_info"
	GetMiddlewareStatus          = "get_middleware_status"
	BackupMiddleware             = "backup_middleware"
	ListInstanceNodes            = "list_middleware_instance_nodes"
	RemoveInstanceNodes          = "remove_middleware_instance_nodes"
	ListInstanceChangeEvents     = "list_middleware_instance_change_events"
	ListInstanceAlertRules       = "list_middleware_instance_alert_rules"
	ListSupportLogTypes          = "list_middleware_type_support_log_types"
	ListInstanceLogs             = "list_middleware_instance_logs"
	ListAlertMetrics             = "list_middleware_alert_metrics"
	CreateAlertRule              = "create_middleware_alert_rule"
	DeleteAlertRule              = "delete_middleware_alert_rule"
	SetAlertRuleStatus           = "set_middleware_alert_rule_status"
	GetHostMonitorData           = "get_host_monitor_data"
	ListMonitorMetricGroups      = "list_middleware_monitor_metric_groups"
	GetMiddlewareMonitorData     = "get_middleware_monitor_data"
	CreateSingleRedisMiddleware  = "create_single_redis_middleware"
	CreateRedisClusterMiddleware = "create_redis_cluster_middleware"
	AddRedisNodes                = "add_redis_nodes"
)

// Builtin returns a Registry with every MegaCloud tool bound to svc.
func Builtin(svc *orchestration.Service) *Registry {
	gw := svc.Gateway()
	r := NewRegistry()

	r.Register(
		define(ListHosts, "List all available hosts that can be used to deploy middleware.", noArgs{},
			func(ctx context.Context, _ *noArgs) (interface{}, error) {
				return gw.ListHosts(ctx)
			}),
		define(ListMiddlewareTypes, "List all middleware types that can be deployed.", noArgs{},
			func(ctx context.Context, _ *noArgs) (interface{}, error) {
				return gw.ListMiddlewareTypes(ctx)
			}),
		define(ListMiddlewareInstances, "List all middleware instances that are currently deployed.", noArgs{},
			func(ctx context.Context, _ *noArgs) (interface{}, error) {
				return gw.ListCurrentInstances(ctx)
			}),
		byInstance(StartMiddleware, "Start a middleware instance.", svc.Start),
		byInstance(StopMiddleware, "Stop a middleware instance.", svc.Stop),
		byInstance(RestartMiddleware, "Restart a middleware instance.", svc.Restart),
		byInstance(DeleteMiddleware, "Delete a middleware instance.", svc.Delete),
		byInstance(GetMiddlewareInfo, "Get all information of a middleware instance, like configs, nodes, etc.", svc.Info),
		byInstance(GetMiddlewareStatus, "Get the status of a middleware instance.", svc.Status),
		byInstance(BackupMiddleware, "Backup a middleware instance.", svc.Backup),
		byInstance(ListInstanceNodes, "List all nodes of a middleware instance.", svc.ListNodes),
		define(RemoveInstanceNodes, "Remove nodes from a middleware instance by node name.", removeNodesArgs{},
			func(ctx context.Context, a *removeNodesArgs) (interface{}, error) {
				return svc.RemoveNodes(ctx, a.MiddlewareInstanceName, a.NodeNames)
			}),
		byInstance(ListInstanceChangeEvents, "List all change events of a middleware instance.", svc.ChangeEvents),
		byInstance(ListInstanceAlertRules, "List all alert rules of a middleware instance.", svc.AlertRules),
		define(ListSupportLogTypes, "List the log types supported by a middleware type.", logTypesArgs{},
			func(_ context.Context, a *logTypesArgs) (interface{}, error) {
				return gateway.LogTypesForKind(a.MiddlewareTypeName)
			}),
		define(ListInstanceLogs, "List logs of a middleware instance.", logsArgs{TimeIntervalInMinutes: 30, CurrentPage: 1},
			func(ctx context.Context, a *logsArgs) (interface{}, error) {
				return svc.Logs(ctx, a.MiddlewareInstanceName, a.LogType, a.TimeIntervalInMinutes, a.CurrentPage)
			}),
		byInstance(ListAlertMetrics, "List the metrics alert rules can watch on a middleware instance.", svc.AlertMetrics),
		define(CreateAlertRule, "Create an alert rule on one metric of a middleware instance.", alertRuleArgs{HappenTimes: 1, HappenDuration: 60},
			func(ctx context.Context, a *alertRuleArgs) (interface{}, error) {
				return svc.CreateAlertRule(ctx, orchestration.AlertRuleSpec{
					Name:                a.Name,
					Description:         a.Description,
					ResolvedDescription: a.ResolvedDescription,
					InstanceName:        a.InstanceName,
					Level:               a.Level,
					Metric:              a.MetricType,
					Operator:            a.MetricOperator,
					Value:               *a.MetricValue,
					Count:               a.HappenTimes,
					DurationSeconds:     a.HappenDuration,
				})
			}),
		define(DeleteAlertRule, "Delete an alert rule of a middleware instance.", alertRuleRefArgs{},
			func(ctx context.Context, a *alertRuleRefArgs) (interface{}, error) {
				return svc.DeleteAlertRule(ctx, a.MiddlewareInstanceName, a.AlertRuleName)
			}),
		define(SetAlertRuleStatus, "Enable or disable an alert rule of a middleware instance.", alertRuleStatusArgs{},
			func(ctx context.Context, a *alertRuleStatusArgs) (interface{}, error) {
				return svc.SetAlertRuleStatus(ctx, a.MiddlewareInstanceName, a.AlertRuleName, *a.Enabled)
			}),
		define(GetHostMonitorData, "Get monitoring data of a host for one metric group.", hostMonitorArgs{TimeIntervalInMinutes: 30},
			func(ctx context.Context, a *hostMonitorArgs) (interface{}, error) {
				return svc.HostMonitorData(ctx, a.HostName, a.MetricGroup, a.TimeIntervalInMinutes)
			}),
		byInstance(ListMonitorMetricGroups, "List the monitoring metric groups available for a middleware instance.", svc.InstanceMonitorGroups),
		define(GetMiddlewareMonitorData, "Get monitoring data of a middleware instance for one metric group.", instanceMonitorArgs{TimeIntervalInMinutes: 30},
			func(ctx context.Context, a *instanceMonitorArgs) (interface{}, error) {
				return svc.InstanceMonitorData(ctx, a.MiddlewareInstanceName, a.MetricGroup, a.TimeIntervalInMinutes)
			}),
		define(CreateSingleRedisMiddleware, "Create a single redis instance.", singleRedisArgs{MaxMemoryInGB: orchestration.DefaultRedisMaxMemoryGB},
			func(ctx context.Context, a *singleRedisArgs) (interface{}, error) {
				return svc.CreateSingleRedis(ctx, a.HostName, a.MaxMemoryInGB, a.Name)
			}),
		define(CreateRedisClusterMiddleware, "Create a redis cluster middleware instance.", redisClusterArgs{MaxMemoryInGB: orchestration.DefaultRedisMaxMemoryGB},
			func(ctx context.Context, a *redisClusterArgs) (interface{}, error) {
				return svc.CreateRedisCluster(ctx, a.MasterHostNames, a.ReplicaHostNames, a.MaxMemoryInGB, a.Name)
			}),
		define(AddRedisNodes, "Add nodes to a redis middleware instance.", addRedisNodesArgs{},
			func(ctx context.Context, a *addRedisNodesArgs) (interface{}, error) {
				return svc.AddRedisNodes(ctx, a.MiddlewareInstanceName, a.MasterHostNames, a.ReplicaHostNames)
			}),
	)
	return r
}

// byInstance defines a tool whose only argument is an instance name.
func byInstance[R any](name, description string, fn func(ctx context.Context, instance string) (R, error)) *Tool {
	return define(name, description, instanceArgs{},
		func(ctx context.Context, a *instanceArgs) (interface{}, error) {
			return fn(ctx, a.MiddlewareInstanceName)
		})
}
