// Package adapter turns a remote MCP server into local tool definitions.
// The server is contacted once at startup; afterwards the catalog stays
// immutable and calls are proxied through the open session.
package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os/exec"
	"strings"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cexll/termagent/pkg/tool"
)

const stdioSchemePrefix = "stdio:"

// Source holds a lazily-connected MCP client session.
type Source struct {
	client        *mcpsdk.Client
	session       *mcpsdk.ClientSession
	transportSpec string
	once          sync.Once
	connectErr    error
}

// NewSource constructs a source for the given transport string:
// "stdio:cmd args..." spawns a subprocess, an http(s) URL connects over
// SSE, and anything else is treated as a stdio command line.
func NewSource(spec string) *Source {
	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "termagent", Version: "dev"}, nil)
	return &Source{client: client, transportSpec: spec}
}

func (s *Source) ensureConnected(ctx context.Context) error {
	s.once.Do(func() {
		transport, err := buildTransport(ctx, s.transportSpec)
		if err != nil {
			s.connectErr = fmt.Errorf("build transport: %w", err)
			return
		}
		session, err := s.client.Connect(ctx, transport, nil)
		if err != nil {
			s.connectErr = fmt.Errorf("connect: %w", err)
			return
		}
		s.session = session
	})
	return s.connectErr
}

// Definitions connects, lists the server's tools once, and converts each to
// a local definition whose Execute proxies to the server.
func (s *Source) Definitions(ctx context.Context) ([]*tool.Definition, error) {
	if err := s.ensureConnected(ctx); err != nil {
		return nil, err
	}

	var defs []*tool.Definition
	for remote, err := range s.session.Tools(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("list tools: %w", err)
		}
		def, err := s.convertTool(remote)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Close shuts down the underlying session, if any.
func (s *Source) Close() error {
	if s == nil || s.session == nil {
		return nil
	}
	err := s.session.Close()
	s.session = nil
	return err
}

func (s *Source) convertTool(remote *mcpsdk.Tool) (*tool.Definition, error) {
	schema, err := convertSchema(remote.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("tool %s: %w", remote.Name, err)
	}

	name := remote.Name
	return &tool.Definition{
		Name:        name,
		Description: remote.Description,
		Schema:      schema,
		Execute: func(ctx context.Context, input map[string]any) (string, error) {
			result, err := s.session.CallTool(ctx, &mcpsdk.CallToolParams{
				Name:      name,
				Arguments: input,
			})
			if err != nil {
				return "", fmt.Errorf("mcp call %s: %w", name, err)
			}
			text := contentText(result.Content)
			if result.IsError {
				return "", fmt.Errorf("mcp tool %s failed: %s", name, text)
			}
			return text, nil
		},
	}, nil
}

// convertSchema round-trips the server's schema through JSON into the local
// subset used for validation and catalog advertisement.
func convertSchema(raw any) (*tool.JSONSchema, error) {
	if raw == nil {
		return nil, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode input schema: %w", err)
	}
	var schema tool.JSONSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("decode input schema: %w", err)
	}
	if schema.Type == "" {
		schema.Type = "object"
	}
	return &schema, nil
}

func contentText(content []mcpsdk.Content) string {
	var parts []string
	for _, c := range content {
		switch block := c.(type) {
		case *mcpsdk.TextContent:
			parts = append(parts, block.Text)
		default:
			if data, err := json.Marshal(block); err == nil {
				parts = append(parts, string(data))
			}
		}
	}
	return strings.Join(parts, "\n")
}

func buildTransport(ctx context.Context, spec string) (mcpsdk.Transport, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("transport spec is empty")
	}

	lowered := strings.ToLower(spec)
	switch {
	case strings.HasPrefix(lowered, stdioSchemePrefix):
		return buildStdioTransport(ctx, spec[len(stdioSchemePrefix):])
	case strings.HasPrefix(lowered, "http://"), strings.HasPrefix(lowered, "https://"):
		endpoint, err := normalizeHTTPURL(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid SSE endpoint: %w", err)
		}
		return &mcpsdk.SSEClientTransport{Endpoint: endpoint}, nil
	}
	return buildStdioTransport(ctx, spec)
}

func buildStdioTransport(ctx context.Context, cmdSpec string) (mcpsdk.Transport, error) {
	parts := strings.Fields(strings.TrimSpace(strings.TrimPrefix(cmdSpec, "//")))
	if len(parts) == 0 {
		return nil, fmt.Errorf("stdio command is empty")
	}
	command := exec.CommandContext(ctx, parts[0], parts[1:]...)
	return &mcpsdk.CommandTransport{Command: command}, nil
}

func normalizeHTTPURL(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("missing host")
	}
	parsed.Scheme = scheme
	return parsed.String(), nil
}
