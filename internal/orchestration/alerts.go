package orchestration

import (
	"context"
	"encoding/json"
	"fmt"

	"evalgo.org/megacloud-mcp/internal/errdefs"
	"evalgo.org/megacloud-mcp/internal/gateway"
	"evalgo.org/megacloud-mcp/models"
)

// AlertRuleSpec describes a builder-style alert rule on one metric of an
// instance.
type AlertRuleSpec struct {
	Name                string
	Description         string
	ResolvedDescription string
	InstanceName        string

	// Level is a level name such as CRITICAL.
	Level string

	// The rule fires when Metric compared with Value by Operator holds Count
	// times within DurationSeconds.
	Metric          string
	Operator        string
	Value           float64
	Count           int
	DurationSeconds int
}

// AlertRules lists the alert rules of an instance.
func (s *Service) AlertRules(ctx context.Context, name string) ([]models.AlertRule, error) {
	instance, err := s.gw.FindInstance(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.gw.AlertRules(ctx, instance.Name)
}

// AlertMetrics lists the metrics alert rules can watch on an instance.
func (s *Service) AlertMetrics(ctx context.Context, name string) ([]models.AlertMetric, error) {
	instance, err := s.gw.FindInstance(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.gw.AlertMetrics(ctx, instance.MiddlewareName)
}

// CreateAlertRule creates an alert rule. The metric must be one the backend
// lists for the instance's middleware kind.
func (s *Service) CreateAlertRule(ctx context.Context, spec AlertRuleSpec) (json.RawMessage, error) {
	level, ok := gateway.AlertLevelCode(spec.Level)
	if !ok {
		return nil, errdefs.Unsupported("alert level", spec.Level, gateway.AlertLevels())
	}

	instance, err := s.gw.FindInstance(ctx, spec.InstanceName)
	if err != nil {
		return nil, err
	}

	metrics, err := s.gw.AlertMetrics(ctx, instance.MiddlewareName)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(metrics))
	known := false
	for _, m := range metrics {
		names = append(names, m.Name)
		if m.Name == spec.Metric {
			known = true
		}
	}
	if !known {
		return nil, errdefs.NotFound("alert metric", spec.Metric, names)
	}

	schedule, err := json.Marshal([]models.AlertSchedule{{
		PeriodUnit: "weekly",
		StartInSec: "",
		EndInSec:   "",
		Days:       []int{},
	}})
	if err != nil {
		return nil, fmt.Errorf("encode alert schedule: %w", err)
	}
	rules, err := json.Marshal([]models.AlertCondition{{
		Type:       "builder",
		Count:      spec.Count,
		Duration:   spec.DurationSeconds,
		Predicate:  models.AlertPredicate{Value: spec.Value, Op: spec.Operator},
		Metric:     spec.Metric,
		Extensions: []string{},
	}})
	if err != nil {
		return nil, fmt.Errorf("encode alert rule: %w", err)
	}

	out, err := s.gw.CreateAlertRule(ctx, models.AlertRuleRequest{
		Name:                spec.Name,
		Description:         spec.Description,
		ResolvedDescription: spec.ResolvedDescription,
		Type:                "0",
		Service:             instance.Name,
		Status:              0,
		Schedule:            string(schedule),
		Level:               level,
		Rules:               string(rules),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("instance", instance.Name).Str("rule", spec.Name).Str("metric", spec.Metric).Msg("alert rule created")
	return out, nil
}

// DeleteAlertRule deletes an alert rule of an instance by rule name.
func (s *Service) DeleteAlertRule(ctx context.Context, instanceName, ruleName string) (json.RawMessage, error) {
	rule, err := s.findAlertRule(ctx, instanceName, ruleName)
	if err != nil {
		return nil, err
	}
	id, err := ruleID(rule)
	if err != nil {
		return nil, err
	}
	return s.gw.DeleteAlertRule(ctx, id)
}

// SetAlertRuleStatus enables or disables an alert rule of an instance.
func (s *Service) SetAlertRuleStatus(ctx context.Context, instanceName, ruleName string, enabled bool) (json.RawMessage, error) {
	rule, err := s.findAlertRule(ctx, instanceName, ruleName)
	if err != nil {
		return nil, err
	}
	id, err := ruleID(rule)
	if err != nil {
		return nil, err
	}

	status := 0
	if enabled {
		status = 1
	}
	rule["status"] = status
	return s.gw.UpdateAlertRule(ctx, id, rule)
}

func (s *Service) findAlertRule(ctx context.Context, instanceName, ruleName string) (map[string]interface{}, error) {
	instance, err := s.gw.FindInstance(ctx, instanceName)
	if err != nil {
		return nil, err
	}
	rules, err := s.gw.AlertRulesRaw(ctx, instance.Name)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(rules))
	for _, r := range rules {
		name, _ := r["name"].(string)
		if name == ruleName {
			return r, nil
		}
		names = append(names, name)
	}
	return nil, errdefs.NotFound("alert rule", ruleName, names)
}

func ruleID(rule map[string]interface{}) (int64, error) {
	switch id := rule["id"].(type) {
	case float64:
		return int64(id), nil
	case json.Number:
		return id.Int64()
	default:
		return 0, fmt.Errorf("alert rule %v has no numeric id", rule["name"])
	}
}
