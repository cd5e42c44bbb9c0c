// Package mcp discovers tools from Model Context Protocol servers and
// adapts them to local tool definitions.
//
// Servers are declared in <data-dir>/mcp.yaml:
//
//	servers:
//	  filesystem:
//	    command: npx
//	    args: ["-y", "@modelcontextprotocol/server-filesystem", "."]
//	  github:
//	    command: npx
//	    args: ["-y", "@modelcontextprotocol/server-github"]
//	    env:
//	      GITHUB_TOKEN: ${GITHUB_TOKEN}
//	  search:
//	    url: https://mcp.example.com/stream
//
// Command servers speak stdio, url servers streamable HTTP. The file is
// optional; so is every server in it.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sidekick-cli/sidekick/tools"
	"gopkg.in/yaml.v3"
)

// callTimeout bounds each tool call so a hung server cannot wedge a turn.
const callTimeout = 60 * time.Second

// ServerConfig declares one server: either a command to spawn or a url to
// reach, never both.
type ServerConfig struct {
	Command string            `yaml:"command"`
	Args    []string          `yaml:"args"`
	Env     map[string]string `yaml:"env"`
	URL     string            `yaml:"url"`
}

// File is the on-disk layout of mcp.yaml.
type File struct {
	Servers map[string]ServerConfig `yaml:"servers"`
}

// LoadFile reads the server declarations at path. A missing file is not an
// error, servers are optional. ${VAR} references in commands, args, env
// values, and urls expand from the environment.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return File{}, nil
	}
	if err != nil {
		return File{}, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse %s: %w", path, err)
	}
	for name, cfg := range f.Servers {
		cfg.Command = os.ExpandEnv(cfg.Command)
		cfg.URL = os.ExpandEnv(cfg.URL)
		for i, a := range cfg.Args {
			cfg.Args[i] = os.ExpandEnv(a)
		}
		for k, v := range cfg.Env {
			cfg.Env[k] = os.ExpandEnv(v)
		}
		f.Servers[name] = cfg
	}
	return f, nil
}

// Session is one connected server and the tools it exposes.
type Session struct {
	Name  string
	Tools []tools.ToolDefinition
	conn  *mcpsdk.ClientSession
}

func (s *Session) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Connect dials every declared server in name order so registration is
// deterministic. A server that fails to connect or list its tools is
// reported through warn and skipped; discovery never fails as a whole.
func Connect(ctx context.Context, f File, warn func(name string, err error)) []*Session {
	names := make([]string, 0, len(f.Servers))
	for name := range f.Servers {
		names = append(names, name)
	}
	sort.Strings(names)

	var sessions []*Session
	for _, name := range names {
		s, err := connectOne(ctx, name, f.Servers[name])
		if err != nil {
			if warn != nil {
				warn(name, err)
			}
			continue
		}
		sessions = append(sessions, s)
	}
	return sessions
}

func connectOne(ctx context.Context, name string, cfg ServerConfig) (*Session, error) {
	var transport mcpsdk.Transport
	switch {
	case cfg.Command != "":
		cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)
		// Spawned servers inherit our environment plus their own entries;
		// a bare cfg.Env would lose PATH and break npx-style launchers.
		cmd.Env = os.Environ()
		for k, v := range cfg.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
		transport = &mcpsdk.CommandTransport{Command: cmd}
	case cfg.URL != "":
		transport = &mcpsdk.StreamableClientTransport{Endpoint: cfg.URL}
	default:
		return nil, fmt.Errorf("server %q declares neither command nor url", name)
	}

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "sidekick", Version: "1.0.0"}, nil)
	conn, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	listed, err := conn.ListTools(ctx, &mcpsdk.ListToolsParams{})
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("list tools: %w", err)
	}

	s := &Session{Name: name, conn: conn}
	for _, t := range listed.Tools {
		def, err := adapt(conn, t)
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("tool %s: %w", t.Name, err)
		}
		s.Tools = append(s.Tools, def)
	}
	return s, nil
}

// adapt turns a discovered tool into a local definition whose handler
// round-trips through the session.
func adapt(conn *mcpsdk.ClientSession, t *mcpsdk.Tool) (tools.ToolDefinition, error) {
	schema, err := inputSchema(t)
	if err != nil {
		return tools.ToolDefinition{}, err
	}
	name := t.Name
	return tools.ToolDefinition{
		Name:        name,
		Description: t.Description,
		InputSchema: schema,
		Function: func(input json.RawMessage) (string, error) {
			ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
			defer cancel()

			var args any
			if len(input) > 0 {
				args = input
			}
			res, err := conn.CallTool(ctx, &mcpsdk.CallToolParams{Name: name, Arguments: args})
			if err != nil {
				return "", err
			}
			text := textOf(res)
			if res.IsError {
				if text == "" {
					text = "tool reported an error"
				}
				return "", errors.New(text)
			}
			return text, nil
		},
	}, nil
}

// inputSchema re-shapes the server's JSON Schema into the wire form tool
// descriptors use, keeping properties and required verbatim.
func inputSchema(t *mcpsdk.Tool) (anthropic.ToolInputSchemaParam, error) {
	var out anthropic.ToolInputSchemaParam
	if t.InputSchema == nil {
		return out, nil
	}
	raw, err := json.Marshal(t.InputSchema)
	if err != nil {
		return out, err
	}
	var s struct {
		Properties json.RawMessage `json:"properties"`
		Required   []string        `json:"required"`
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return out, err
	}
	if len(s.Properties) > 0 {
		out.Properties = s.Properties
	}
	out.Required = s.Required
	return out, nil
}

func textOf(res *mcpsdk.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		if tc, ok := c.(*mcpsdk.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}
