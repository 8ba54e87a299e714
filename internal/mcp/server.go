// Package mcp serves tools over the Model Context Protocol stdio transport:
// newline-delimited JSON-RPC 2.0 messages on a reader and a writer.
//
// Requests are handled one at a time in arrival order. A failing tool call
// is not a protocol error; it is answered with a result whose isError flag is
// set and whose text is the error message.
package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"evalgo.org/megacloud-mcp/internal/logging"
	"evalgo.org/megacloud-mcp/internal/tools"
	"evalgo.org/megacloud-mcp/internal/version"
)

// ToolService lists and runs tools.
type ToolService interface {
	ListTools() []tools.Descriptor
	CallTool(ctx context.Context, name string, args map[string]interface{}) ([]string, error)
}

// Server answers MCP requests with a ToolService.
type Server struct {
	tools  ToolService
	logger zerolog.Logger
}

// NewServer creates a Server.
func NewServer(svc ToolService) *Server {
	return &Server{
		tools:  svc,
		logger: logging.WithComponent("mcp"),
	}
}

// Serve reads requests from r and writes responses to w until r is
// exhausted or ctx is cancelled. Cancellation does not wait for the next line.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	lines := readLines(ctx, r)

	s.logger.Info().Str("protocol", ProtocolVersion).Msg("MCP stdio server ready")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var in readResult
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in = <-lines:
		}

		if len(bytes.TrimSpace(in.line)) > 0 {
			if resp := s.handleLine(ctx, in.line); resp != nil {
				if werr := encoder.Encode(resp); werr != nil {
					return fmt.Errorf("write response: %w", werr)
				}
			}
		}
		if in.err != nil {
			if errors.Is(in.err, io.EOF) {
				s.logger.Info().Msg("stdin closed, stopping MCP server")
				return nil
			}
			return fmt.Errorf("read request: %w", in.err)
		}
	}
}

type readResult struct {
	line []byte
	err  error
}

// readLines feeds lines of r to the returned channel until a read fails or
// ctx is cancelled. A read blocked in r outlives the cancellation until r
// returns.
func readLines(ctx context.Context, r io.Reader) <-chan readResult {
	lines := make(chan readResult)
	go func() {
		reader := bufio.NewReader(r)
		for {
			line, err := reader.ReadBytes('\n')
			select {
			case lines <- readResult{line: line, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}

func (s *Server) handleLine(ctx context.Context, line []byte) *rpcResponse {
	var req rpcRequest
	if err := json.Unmarshal(line, &req); err != nil {
		s.logger.Warn().Err(err).Msg("unparseable request")
		return failure(nil, &rpcError{Code: codeParseError, Message: "parse error"})
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		if req.isNotification() {
			return nil
		}
		return failure(req.ID, &rpcError{Code: codeInvalidRequest, Message: "invalid request"})
	}

	resp, rpcErr := s.handle(ctx, req)
	if req.isNotification() {
		return nil
	}
	if rpcErr != nil {
		s.logger.Debug().Str("method", req.Method).Int("code", rpcErr.Code).Msg(rpcErr.Message)
		return failure(req.ID, rpcErr)
	}
	return resp
}

func (s *Server) handle(ctx context.Context, req rpcRequest) (*rpcResponse, *rpcError) {
	switch req.Method {
	case "initialize":
		var params initializeParams
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &params); err != nil {
				return nil, &rpcError{Code: codeInvalidParams, Message: "invalid initialize params"}
			}
		}
		protocol := params.ProtocolVersion
		if protocol == "" {
			protocol = ProtocolVersion
		}
		s.logger.Info().Str("protocol", protocol).Interface("client", params.ClientInfo).Msg("client initialized")
		return result(req.ID, map[string]interface{}{
			"protocolVersion": protocol,
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{"listChanged": false},
			},
			"serverInfo": map[string]interface{}{
				"name":    version.ServerName,
				"version": version.Version,
			},
		}), nil

	case "notifications/initialized", "initialized":
		return nil, nil

	case "ping":
		return result(req.ID, map[string]interface{}{}), nil

	case "tools/list":
		return result(req.ID, map[string]interface{}{"tools": s.tools.ListTools()}), nil

	case "tools/call":
		return s.callTool(ctx, req)

	default:
		return nil, &rpcError{Code: codeMethodNotFound, Message: "method not found: " + req.Method}
	}
}

func (s *Server) callTool(ctx context.Context, req rpcRequest) (*rpcResponse, *rpcError) {
	if len(req.Params) == 0 {
		return nil, &rpcError{Code: codeInvalidParams, Message: "missing params"}
	}
	var params toolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return nil, &rpcError{Code: codeInvalidParams, Message: "invalid tool call params"}
	}
	if params.Name == "" {
		return nil, &rpcError{Code: codeInvalidParams, Message: "tool name required"}
	}

	items, err := s.tools.CallTool(ctx, params.Name, params.Arguments)
	if err != nil {
		return result(req.ID, errorResult(err)), nil
	}
	return result(req.ID, textResult(items)), nil
}
