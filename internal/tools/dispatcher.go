package tools

import (
	"context"

	"github.com/google/uuid"

	"evalgo.org/megacloud-mcp/internal/errdefs"
	"evalgo.org/megacloud-mcp/internal/logging"
	"evalgo.org/megacloud-mcp/internal/metrics"
	"evalgo.org/megacloud-mcp/internal/validation"
)

// Dispatcher validates and runs tool calls. It is safe for concurrent use.
type Dispatcher struct {
	registry  *Registry
	validator *validation.Validator
}

// NewDispatcher creates a Dispatcher over registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{
		registry:  registry,
		validator: validation.New(),
	}
}

// ListTools describes every registered tool.
func (d *Dispatcher) ListTools() []Descriptor {
	return d.registry.Descriptors()
}

// CallTool runs the tool name with the loosely typed argument bag args and
// returns its encoded result.
//
// Arguments are decoded onto the tool's defaults (strings such as "30" are
// accepted for numbers, fractions and booleans are not) and validated before the handler runs, so invalid
// calls never reach the backend.
func (d *Dispatcher) CallTool(ctx context.Context, name string, args map[string]interface{}) ([]string, error) {
	tool, ok := d.registry.Get(name)
	if !ok {
		metrics.ToolCallsTotal.WithLabelValues("unknown", metrics.ResultError).Inc()
		return nil, &errdefs.UnknownToolError{Name: name}
	}

	logger := logging.WithTool(name, uuid.NewString())
	timer := metrics.NewTimer()

	out, err := d.call(ctx, tool, args)
	timer.ObserveDuration(metrics.ToolCallDuration.WithLabelValues(name))

	if err != nil {
		metrics.ToolCallsTotal.WithLabelValues(name, metrics.ResultError).Inc()
		logger.Error().Err(err).Dur("duration", timer.Duration()).Msg("tool call failed")
		return nil, err
	}

	metrics.ToolCallsTotal.WithLabelValues(name, metrics.ResultOK).Inc()
	logger.Info().Int("items", len(out)).Dur("duration", timer.Duration()).Msg("tool call completed")
	return out, nil
}

func (d *Dispatcher) call(ctx context.Context, tool *Tool, raw map[string]interface{}) ([]string, error) {
	args := tool.newArgs()
	if err := decode(raw, args); err != nil {
		return nil, &errdefs.ValidationError{Tool: tool.Name, Fields: decodeFieldErrors(err)}
	}
	if err := d.validator.Struct(tool.Name, args); err != nil {
		return nil, err
	}

	result, err := tool.run(ctx, args)
	if err != nil {
		return nil, err
	}
	return Encode(result)
}
