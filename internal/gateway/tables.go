package gateway

import (
	"sort"
	"strconv"
	"strings"

	"evalgo.org/megacloud-mcp/internal/errdefs"
)

// Operation is a lifecycle transition code understood by the backend.
type Operation int

const (
	OperationStart   Operation = 2
	OperationStop    Operation = 4
	OperationRestart Operation = 5
)

func (o Operation) String() string {
	switch o {
	case OperationStart:
		return "start"
	case OperationStop:
		return "stop"
	case OperationRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// alertLevelCodes is ordered by code.
var alertLevelCodes = []struct {
	code string
	name string
}{
	{"1", "CLEAR"},
	{"2", "INDETERMINATE"},
	{"3", "CRITICAL"},
	{"4", "MAJOR"},
	{"5", "MINOR"},
	{"6", "WARNING"},
}

var alertStatuses = map[int]string{
	0: "Stopped",
	1: "Running",
}

// resourceTypes maps backend resource type codes to names. It is independent
// of the service catalog served by the backend and only feeds log category
// resolution.
var resourceTypes = map[int]string{
	1:   "MySQL",
	2:   "ElasticSearch",
	3:   "Kibana",
	4:   "Redis",
	5:   "ZooKeeper",
	6:   "Kafka",
	7:   "MongoDB",
	8:   "Kubernetes",
	9:   "monitor-integration middleware",
	10:  "monitor-service only",
	11:  "Easegress",
	13:  "Docker App",
	14:  "Prometheus",
	15:  "Kubernetes App",
	17:  "Docker",
	18:  "EaseMesh",
	19:  "MinIO",
	20:  "Nginx",
	21:  "PostgreSQL",
	102: "Cloudflared",
}

const logCategorySuffix = "-log"

var logCategories = map[string][]string{
	"redis-log":         {"main_log"},
	"elasticsearch-log": {"main_log", "slowquery_log", "slowindex_log", "gc_log"},
	"mysql-log":         {"general_log", "slowquery_log", "error_log"},
	"kafka-log":         {"server_log", "zookeeper_log"},
	"zookeeper-log":     {"server_log"},
	"easegress-log": {
		"main_log",
		"admin_log",
		"etcd_client_log",
		"etcd_server_log",
		"filter_http_access_log",
		"filter_http_dump_log",
	},
	"prometheus-log": {"main_log"},
	"minio-log":      {"minio_server_log", "minio_audit_log"},
	"nginx-log":      {"access_log", "error_log"},
	"postgresql-log": {"postgresql_log"},
}

// AlertLevels returns the alert level names ordered by severity code.
func AlertLevels() []string {
	names := make([]string, 0, len(alertLevelCodes))
	for _, l := range alertLevelCodes {
		names = append(names, l.name)
	}
	return names
}

// AlertLevelName translates a backend level code, or returns UnknownName.
func AlertLevelName(code string) string {
	for _, l := range alertLevelCodes {
		if l.code == code {
			return l.name
		}
	}
	return UnknownName
}

// AlertLevelCode translates a level name (case-insensitive) to its code.
func AlertLevelCode(name string) (string, bool) {
	for _, l := range alertLevelCodes {
		if strings.EqualFold(l.name, name) {
			return l.code, true
		}
	}
	return "", false
}

// AlertStatusName translates a backend rule status, or returns UnknownName.
func AlertStatusName(code int) string {
	if name, ok := alertStatuses[code]; ok {
		return name
	}
	return UnknownName
}

// ResourceTypeName returns the resource name for a type code.
func ResourceTypeName(code int) (string, bool) {
	name, ok := resourceTypes[code]
	return name, ok
}

// LogCategories returns the registered log categories, sorted.
func LogCategories() []string {
	categories := make([]string, 0, len(logCategories))
	for c := range logCategories {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}

// LogKinds returns the registered log categories without their suffix.
func LogKinds() []string {
	categories := LogCategories()
	kinds := make([]string, 0, len(categories))
	for _, c := range categories {
		kinds = append(kinds, strings.TrimSuffix(c, logCategorySuffix))
	}
	return kinds
}

// LogCategoryForType resolves the log category of a middleware type code.
func LogCategoryForType(code int) (string, error) {
	name, ok := resourceTypes[code]
	if !ok {
		return "", errdefs.Unsupported("log category for middleware type", strconv.Itoa(code), LogCategories())
	}
	category := strings.ToLower(name) + logCategorySuffix
	if _, ok := logCategories[category]; !ok {
		return "", errdefs.Unsupported("log category", category, LogCategories())
	}
	return category, nil
}

// LogTypesForKind returns the log types a middleware kind (e.g. "Redis")
// supports.
func LogTypesForKind(kind string) ([]string, error) {
	types, ok := logCategories[strings.ToLower(kind)+logCategorySuffix]
	if !ok {
		return nil, errdefs.Unsupported("middleware kind", kind, LogKinds())
	}
	return append([]string(nil), types...), nil
}

// LogTypesForCategory returns the log types allowed in a category.
func LogTypesForCategory(category string) ([]string, bool) {
	types, ok := logCategories[category]
	return append([]string(nil), types...), ok
}
