package orchestration

import (
	"context"
	"encoding/json"
	"fmt"

	"evalgo.org/megacloud-mcp/internal/errdefs"
	"evalgo.org/megacloud-mcp/internal/gateway"
	"evalgo.org/megacloud-mcp/models"
)

// Start starts an instance by name.
func (s *Service) Start(ctx context.Context, name string) (string, error) {
	return s.operate(ctx, name, gateway.OperationStart)
}

// Stop stops an instance by name.
func (s *Service) Stop(ctx context.Context, name string) (string, error) {
	return s.operate(ctx, name, gateway.OperationStop)
}

// Restart restarts an instance by name.
func (s *Service) Restart(ctx context.Context, name string) (string, error) {
	return s.operate(ctx, name, gateway.OperationRestart)
}

func (s *Service) operate(ctx context.Context, name string, op gateway.Operation) (string, error) {
	instance, err := s.gw.FindInstance(ctx, name)
	if err != nil {
		return "", err
	}
	res, err := s.gw.OperateInstance(ctx, instance.InstanceID, op)
	if err != nil {
		return "", fmt.Errorf("failed to %s %s: %w", op, name, err)
	}
	s.logger.Info().Str("instance", name).Str("operation", op.String()).Msg("instance operation accepted")
	return res, nil
}

// Delete deletes an instance by name.
func (s *Service) Delete(ctx context.Context, name string) (string, error) {
	instance, err := s.gw.FindInstance(ctx, name)
	if err != nil {
		return "", err
	}
	res, err := s.gw.DeleteInstance(ctx, instance.InstanceID)
	if err != nil {
		return "", err
	}
	s.logger.Info().Str("instance", name).Msg("instance deleted")
	return res, nil
}

// Backup triggers an immediate backup of an instance.
func (s *Service) Backup(ctx context.Context, name string) (string, error) {
	instance, err := s.gw.FindInstance(ctx, name)
	if err != nil {
		return "", err
	}
	return s.gw.BackupInstance(ctx, instance.InstanceID)
}

// Info returns the backend's description of an instance.
func (s *Service) Info(ctx context.Context, name string) (json.RawMessage, error) {
	instance, err := s.gw.FindInstance(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.gw.InstanceInfo(ctx, instance.InstanceID)
}

// Status returns the backend's status document of an instance.
func (s *Service) Status(ctx context.Context, name string) (json.RawMessage, error) {
	instance, err := s.gw.FindInstance(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.gw.InstanceStatus(ctx, instance.InstanceID)
}

// ListNodes returns the nodes of an instance.
func (s *Service) ListNodes(ctx context.Context, name string) ([]models.MiddlewareNodeInfo, error) {
	instance, err := s.gw.FindInstance(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.gw.ListInstanceNodes(ctx, instance.InstanceID)
}

// RemoveNodes detaches nodes from an instance by node name. Every name must
// match a current node; otherwise nothing is sent to the backend.
func (s *Service) RemoveNodes(ctx context.Context, name string, nodeNames []string) (json.RawMessage, error) {
	if len(nodeNames) == 0 {
		return nil, fmt.Errorf("no node names given for %s", name)
	}

	instance, err := s.gw.FindInstance(ctx, name)
	if err != nil {
		return nil, err
	}

	nodes, err := s.gw.ListInstanceNodes(ctx, instance.InstanceID)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]int64, len(nodes))
	current := make([]string, 0, len(nodes))
	for _, n := range nodes {
		current = append(current, n.NodeName)
		if _, seen := ids[n.NodeName]; !seen {
			ids[n.NodeName] = n.ID
		}
	}

	nodeIDs := make([]int64, 0, len(nodeNames))
	for _, nodeName := range nodeNames {
		id, ok := ids[nodeName]
		if !ok {
			return nil, errdefs.NotFound("node", nodeName, current)
		}
		nodeIDs = append(nodeIDs, id)
	}

	out, err := s.gw.RemoveInstanceNodes(ctx, instance.InstanceID, nodeIDs)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("instance", name).Strs("nodes", nodeNames).Msg("removed nodes from instance")
	return out, nil
}

// ChangeEvents returns the recent lifecycle history of an instance.
func (s *Service) ChangeEvents(ctx context.Context, name string) ([]models.ChangeEvent, error) {
	instance, err := s.gw.FindInstance(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.gw.ChangeEvents(ctx, instance.MiddlewareType, instance.InstanceID)
}

// Logs returns one page of an instance's logs from the last minutes.
func (s *Service) Logs(ctx context.Context, name, logType string, minutes, page int) (*models.InstanceLogs, error) {
	instance, err := s.gw.FindInstance(ctx, name)
	if err != nil {
		return nil, err
	}
	start, end := Window(minutes, s.now())
	return s.gw.InstanceLogs(ctx, *instance, gateway.LogQuery{
		Start:   start,
		End:     end,
		LogType: logType,
		Page:    page,
	})
}
