package tools

// Argument structs of the tools. Field tags drive all three stages of a call:
// `json` names the argument, `jsonschema` shapes the published input schema
// and `validate` is enforced before the handler runs.

type noArgs struct{}

type instanceArgs struct {
	MiddlewareInstanceName string `json:"middleware_instance_name" jsonschema:"required,description=Name of the middleware instance" validate:"required"`
}

type removeNodesArgs struct {
	MiddlewareInstanceName string   `json:"middleware_instance_name" jsonschema:"required,description=Name of the middleware instance" validate:"required"`
	NodeNames              []string `json:"node_names" jsonschema:"required,minItems=1,description=Names of the nodes to remove" validate:"required,min=1,unique,dive,required"`
}

type logTypesArgs struct {
	MiddlewareTypeName string `json:"middleware_type_name" jsonschema:"required,description=Middleware type name such as Redis or MySQL" validate:"required"`
}

type logsArgs struct {
	MiddlewareInstanceName string `json:"middleware_instance_name" jsonschema:"required,description=Name of the middleware instance" validate:"required"`
	LogType                string `json:"log_type" jsonschema:"required,description=Log type as listed by list_middleware_type_support_log_types" validate:"required"`
	TimeIntervalInMinutes  int    `json:"time_interval_in_minutes" jsonschema:"default=30,minimum=1,description=How many minutes back to search" validate:"gte=1"`
	CurrentPage            int    `json:"current_page" jsonschema:"default=1,minimum=1,description=Page number starting at 1" validate:"gte=1"`
}

type alertRuleArgs struct {
	Name                string   `json:"name" jsonschema:"required,description=Alert rule name" validate:"required"`
	Description         string   `json:"description" jsonschema:"required,description=Message sent when the alert fires" validate:"required"`
	ResolvedDescription string   `json:"resolved_description" jsonschema:"required,description=Message sent when the alert resolves" validate:"required"`
	InstanceName        string   `json:"middleware_instance_name" jsonschema:"required,description=Name of the middleware instance" validate:"required"`
	Level               string   `json:"level" jsonschema:"required,enum=CLEAR,enum=INDETERMINATE,enum=CRITICAL,enum=MAJOR,enum=MINOR,enum=WARNING" validate:"required,oneof=CLEAR INDETERMINATE CRITICAL MAJOR MINOR WARNING"`
	HappenTimes         int      `json:"alert_metric_happen_times" jsonschema:"default=1,minimum=1,description=How many times the condition must hold" validate:"gte=1"`
	HappenDuration      int      `json:"alert_metric_happen_duration_in_seconds" jsonschema:"default=60,minimum=1,description=Window in seconds in which the condition is counted" validate:"gte=1"`
	MetricType          string   `json:"alert_metric_type" jsonschema:"required,description=Metric name as listed by list_middleware_alert_metrics" validate:"required"`
	MetricOperator      string   `json:"alert_metric_operator" jsonschema:"required,enum=eq,enum=neq,enum=lt,enum=lte,enum=gt,enum=gte" validate:"required,oneof=eq neq lt lte gt gte"`
	MetricValue         *float64 `json:"alert_metric_value" jsonschema:"required,description=Threshold the metric is compared with" validate:"required"`
}

type alertRuleRefArgs struct {
	MiddlewareInstanceName string `json:"middleware_instance_name" jsonschema:"required,description=Name of the middleware instance" validate:"required"`
	AlertRuleName          string `json:"alert_rule_name" jsonschema:"required,description=Name of the alert rule" validate:"required"`
}

type alertRuleStatusArgs struct {
	MiddlewareInstanceName string `json:"middleware_instance_name" jsonschema:"required,description=Name of the middleware instance" validate:"required"`
	AlertRuleName          string `json:"alert_rule_name" jsonschema:"required,description=Name of the alert rule" validate:"required"`
	Enabled                *bool  `json:"enabled" jsonschema:"required,description=true to enable the rule and false to disable it" validate:"required"`
}

type hostMonitorArgs struct {
	HostName              string `json:"host_name" jsonschema:"required,description=Host name as listed by list_available_hosts" validate:"required"`
	MetricGroup           string `json:"metric_group" jsonschema:"required,enum=load,enum=cpu,enum=memory,enum=disk,enum=disk_io,enum=net_err_in,enum=net_err_out,enum=net_bytes_sent,enum=net_bytes_recv" validate:"required,oneof=load cpu memory disk disk_io net_err_in net_err_out net_bytes_sent net_bytes_recv"`
	TimeIntervalInMinutes int    `json:"time_interval_in_minutes" jsonschema:"default=30,minimum=1,description=How many minutes back to query" validate:"gte=1"`
}

type instanceMonitorArgs struct {
	MiddlewareInstanceName string `json:"middleware_instance_name" jsonschema:"required,description=Name of the middleware instance" validate:"required"`
	MetricGroup            string `json:"metric_group" jsonschema:"required,description=Metric group as listed by list_middleware_monitor_metric_groups" validate:"required"`
	TimeIntervalInMinutes  int    `json:"time_interval_in_minutes" jsonschema:"default=30,minimum=1,description=How many minutes back to query" validate:"gte=1"`
}

type singleRedisArgs struct {
	HostName      string `json:"host_name" jsonschema:"required,description=Host to deploy on" validate:"required"`
	MaxMemoryInGB int    `json:"max_memory_in_gb" jsonschema:"default=4,minimum=1,description=Redis maxmemory in GiB" validate:"gte=1"`
	Name          string `json:"name,omitempty" jsonschema:"description=Instance name. A random name is generated when empty"`
}

type redisClusterArgs struct {
	MasterHostNames  []string `json:"master_host_names" jsonschema:"required,minItems=1,description=One master node is placed on each host" validate:"required,min=1,dive,required"`
	ReplicaHostNames []string `json:"replica_host_names" jsonschema:"description=One replica node is placed on each host" validate:"dive,required"`
	MaxMemoryInGB    int      `json:"max_memory_in_gb" jsonschema:"default=4,minimum=1,description=Redis maxmemory in GiB" validate:"gte=1"`
	Name             string   `json:"name,omitempty" jsonschema:"description=Instance name. A random name is generated when empty"`
}

type addRedisNodesArgs struct {
	MiddlewareInstanceName string   `json:"middleware_instance_name" jsonschema:"required,description=Name of the Redis instance" validate:"required"`
	MasterHostNames        []string `json:"master_host_names" jsonschema:"description=Hosts that each get a new master node" validate:"dive,required"`
	ReplicaHostNames       []string `json:"replica_host_names" jsonschema:"description=Hosts that each get a new replica node" validate:"dive,required"`
}
