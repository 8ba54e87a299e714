package orchestration

import (
	"context"
	"encoding/json"
	"time"

	"evalgo.org/megacloud-mcp/models"
)

const (
	hostFilter    = "host_name"
	serviceFilter = "service"
)

// Window returns the [start, end] Unix millisecond range covering the last
// minutes before now. end is now.
func Window(minutes int, now time.Time) (start, end int64) {
	end = now.UnixMilli()
	start = end - int64(minutes)*int64(time.Minute/time.Millisecond)
	return start, end
}

// HostMonitorData queries one host metric set (load, cpu, disk, ...) for the
// last minutes.
func (s *Service) HostMonitorData(ctx context.Context, hostName, group string, minutes int) (json.RawMessage, error) {
	metrics, err := s.catalog.HostMetrics(group)
	if err != nil {
		return nil, err
	}
	return s.timeSeries(ctx, hostFilter, hostName, metrics, minutes)
}

// InstanceMonitorGroups lists the metric groups available for an instance.
func (s *Service) InstanceMonitorGroups(ctx context.Context, name string) ([]string, error) {
	instance, err := s.gw.FindInstance(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.catalog.Groups(instance.MiddlewareName)
}

// InstanceMonitorData queries one metric group of an instance for the last
// minutes.
func (s *Service) InstanceMonitorData(ctx context.Context, name, group string, minutes int) (json.RawMessage, error) {
	instance, err := s.gw.FindInstance(ctx, name)
	if err != nil {
		return nil, err
	}
	metrics, err := s.catalog.Metrics(instance.MiddlewareName, group)
	if err != nil {
		return nil, err
	}
	return s.timeSeries(ctx, serviceFilter, instance.Name, metrics, minutes)
}

func (s *Service) timeSeries(ctx context.Context, filter, value string, metrics []models.MetricQuery, minutes int) (json.RawMessage, error) {
	tenant, err := s.gw.TenantID(ctx)
	if err != nil {
		return nil, err
	}
	start, end := Window(minutes, s.now())
	return s.gw.TimeSeries(ctx, tenant, models.TimeSeriesQuery{
		Filters: []models.SeriesFilter{{Name: filter, Values: []string{value}}},
		Start:   start,
		End:     end,
		Metrics: metrics,
	})
}
