// Package megacloudmcp exposes the MegaCloud middleware management backend
// as tools for AI agents.
//
// # Overview
//
// megacloud-mcp turns each MegaCloud REST endpoint, and a few orchestrated
// sequences of them, into a named tool with a JSON schema. An MCP client
// discovers the tools with tools/list and runs them with tools/call; the
// same tools are reachable over a small HTTP API.
//
// # Architecture
//
//	┌─────────────────┐   ┌─────────────────┐
//	│  MCP (stdio)    │   │  HTTP API       │
//	│  JSON-RPC 2.0   │   │  (Echo REST)    │
//	└────────┬────────┘   └────────┬────────┘
//	         └──────────┬──────────┘
//	           ┌────────▼────────┐
//	           │  Dispatcher     │  validate, decode, encode
//	           └────────┬────────┘
//	           ┌────────▼────────┐
//	           │  Orchestration  │  deploy, lifecycle, alerts, monitoring
//	           └────────┬────────┘
//	           ┌────────▼────────┐
//	           │  Gateway        │  one method per endpoint
//	           └────────┬────────┘
//	           ┌────────▼────────┐
//	           │  Client (resty) │  bearer auth, metrics
//	           └─────────────────┘
//
// # Tools
//
// Inventory and lifecycle:
//   - list_available_hosts, list_middleware_types, list_middleware_instances
//   - get_middleware_info, get_middleware_status, list_middleware_instance_nodes
//   - start_middleware, stop_middleware, restart_middleware, backup_middleware
//   - delete_middleware, remove_middleware_instance_nodes
//
// Redis deployment:
//   - create_single_redis_middleware, create_redis_cluster_middleware
//   - add_redis_nodes
//
// Logs, events, alerts and monitoring:
//   - list_middleware_type_support_log_types, list_middleware_instance_logs
//   - list_middleware_instance_change_events
//   - list_middleware_alert_metrics, list_middleware_instance_alert_rules
//   - create_middleware_alert_rule, set_middleware_alert_rule_status
//   - delete_middleware_alert_rule
//   - get_host_monitor_data, list_middleware_monitor_metric_groups
//   - get_middleware_monitor_data
//
// # Usage
//
//	export MEGACLOUD_AUTH_TOKEN=...
//	megacloud-mcp serve                    # MCP over stdio
//	megacloud-mcp serve --transport http   # REST on :8095
//	megacloud-mcp tools list
//	megacloud-mcp tools call list_available_hosts
//
// # Configuration
//
// Configuration is read from config.yaml, a .env file and MC_ prefixed
// environment variables. See internal/config.
package megacloudmcp
