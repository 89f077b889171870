// Package mcpserver 以 MCP stdio 工具的形式提供户型图提取
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/zooyer/floorplan"
	"github.com/zooyer/floorplan/config"
	"github.com/zooyer/floorplan/model"
)

const (
	ServerName = "floorplan"
	ToolName   = "floorplan_extract"
)

// Server MCP 服务
type Server struct {
	config    *config.Config
	mcpServer *server.MCPServer
}

// NewServer 创建服务并注册工具
func NewServer(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		config.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		mcpServer: mcpServer,
	}
	s.registerTools()

	return s, nil
}

func (s *Server) registerTools() {
	extractTool := mcp.NewTool(
		ToolName,
		mcp.WithDescription("Extract entities, layers, bounds and unit scale from a DXF drawing, floor-plan image or scanned PDF"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the source file"),
		),
		mcp.WithString("mode",
			mcp.Description("'full' includes block templates and members, 'base' omits them"),
			mcp.Enum(string(model.ModeFull), string(model.ModeBase)),
		),
		mcp.WithString("type",
			mcp.Description("Source type override; detected from the extension when empty"),
			mcp.Enum(string(floorplan.TypeAuto), string(floorplan.TypeDXF), string(floorplan.TypePDF), string(floorplan.TypeImage)),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleExtract)
}

func (s *Server) handleExtract(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := s.config.Options()
	if mode := request.GetString("mode", ""); mode != "" {
		opts.Mode = model.Mode(mode)
	}
	if t := request.GetString("type", ""); t != "" {
		opts.Type = floorplan.SourceType(t)
	}
	if opts.Mode != model.ModeFull && opts.Mode != model.ModeBase {
		return mcp.NewToolResultError(fmt.Sprintf("invalid mode %q", opts.Mode)), nil
	}

	if s.config.IsDebug() {
		log.Printf("extract %s (mode=%s, type=%s)", path, opts.Mode, opts.Type)
	}

	result, err := floorplan.Extract(path, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// Run 在标准输入输出上提供服务，直到连接关闭
func (s *Server) Run(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting floorplan MCP server in stdio mode")
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
