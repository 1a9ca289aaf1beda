package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/deepgram-devs/docs-sample-testing/config"
	"github.com/deepgram-devs/docs-sample-testing/extract"
	"github.com/deepgram-devs/docs-sample-testing/harness"
	"github.com/deepgram-devs/docs-sample-testing/report"
	"github.com/deepgram-devs/docs-sample-testing/sample"
)

// MCPServer exposes the documentation testing pipeline over MCP.
type MCPServer struct {
	config    *config.Config
	logger    *zap.Logger
	mcpServer *server.MCPServer
}

// New creates a new MCPServer.
func New(cfg *config.Config, logger *zap.Logger) (*MCPServer, error) {
	s := &MCPServer{
		config: cfg,
		logger: logger,
	}

	logger.Info("configuration loaded",
		zap.String("server.transport", cfg.Server.Transport),
		zap.Int("server.http_port", cfg.Server.HTTPPort),
		zap.Int("execution.timeout_sec", cfg.Execution.TimeoutSec),
		zap.Int("execution.restore_timeout_sec", cfg.Execution.RestoreTimeoutSec),
		zap.String("documentation.pages_path", cfg.Documentation.PagesPath),
		zap.String("documentation.languages_path", cfg.Documentation.LanguagesPath),
	)

	s.mcpServer = server.NewMCPServer("docs-sample-testing", "Documentation code sample testing server")

	s.registerTestDocumentationSamplesTool()
	s.registerAnalyzeCodeSampleTool()

	return s, nil
}

// registerTestDocumentationSamplesTool registers the batch pipeline tool.
func (s *MCPServer) registerTestDocumentationSamplesTool() {
	tool := mcp.Tool{
		Name:        "test_documentation_samples",
		Description: "Extract and test all code samples for one language from a documentation corpus",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"language": map[string]any{
					"type":        "string",
					"description": "Language variant to test, matching a descriptor under the languages directory",
				},
				"docs_path": map[string]any{
					"type":        "string",
					"description": "Documentation root to scan (optional, defaults to the configured pages path)",
				},
			},
			Required: []string{"language"},
		},
	}

	s.mcpServer.AddTool(tool, s.handleTestDocumentationSamples)
}

// registerAnalyzeCodeSampleTool registers the single-snippet analysis tool.
func (s *MCPServer) registerAnalyzeCodeSampleTool() {
	tool := mcp.Tool{
		Name:        "analyze_code_sample",
		Description: "Analyze one code snippet against the known-issue catalogue without running it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"code": map[string]any{
					"type":        "string",
					"description": "Source code to analyze",
				},
				"language": map[string]any{
					"type":        "string",
					"description": "Language variant of the snippet",
				},
			},
			Required: []string{"code", "language"},
		},
	}

	s.mcpServer.AddTool(tool, s.handleAnalyzeCodeSample)
}

// handleTestDocumentationSamples runs the full pipeline for one language
// and returns the JSON report.
func (s *MCPServer) handleTestDocumentationSamples(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	language, err := request.RequireString("language")
	if err != nil {
		return nil, fmt.Errorf("language parameter is required: %w", err)
	}

	docsPath := request.GetString("docs_path", s.config.Documentation.PagesPath)

	s.logger.Info("documentation test requested",
		zap.String("language", language),
		zap.String("docs_path", docsPath))

	lang, err := config.FindLanguage(s.config.Documentation.LanguagesPath, language)
	if err != nil {
		return toolError(fmt.Sprintf("Unknown language: %v", err)), nil
	}

	h, err := harness.ForLanguage(s.logger, s.config, lang)
	if err != nil {
		return toolError(fmt.Sprintf("Pipeline setup failed: %v", err)), nil
	}

	results, err := h.RunCorpus(ctx, docsPath)
	if err != nil {
		return toolError(fmt.Sprintf("Test run failed: %v", err)), nil
	}

	rep := report.Build(language, results)

	s.logger.Info("documentation test completed",
		zap.String("language", language),
		zap.Int("total", rep.Summary.Total),
		zap.Int("passed", rep.Summary.Passed),
		zap.Int("failed", rep.Summary.Failed))

	return jsonResult(rep)
}

// handleAnalyzeCodeSample classifies and analyzes one snippet in place.
func (s *MCPServer) handleAnalyzeCodeSample(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return nil, fmt.Errorf("code parameter is required: %w", err)
	}

	language, err := request.RequireString("language")
	if err != nil {
		return nil, fmt.Errorf("language parameter is required: %w", err)
	}

	s.logger.Info("snippet analysis requested", zap.String("language", language))

	lang, err := config.FindLanguage(s.config.Documentation.LanguagesPath, language)
	if err != nil {
		return toolError(fmt.Sprintf("Unknown language: %v", err)), nil
	}

	dialect, err := extract.ForName(lang.Name)
	if err != nil {
		return toolError(fmt.Sprintf("Unsupported dialect: %v", err)), nil
	}

	h, err := harness.ForLanguage(s.logger, s.config, lang)
	if err != nil {
		return toolError(fmt.Sprintf("Pipeline setup failed: %v", err)), nil
	}

	snippet := &sample.CodeSample{
		FilePath:          "snippet",
		LineNumber:        1,
		Code:              code,
		Language:          lang.Name,
		SampleType:        dialect.Classify(code),
		Imports:           dialect.ExtractImports(code),
		RequiresAPIKey:    dialect.RequiresAPIKey(code),
		RequiresAudioFile: dialect.RequiresAudioFile(code),
		Metadata:          map[string]string{},
	}

	result := h.RunSample(ctx, snippet)

	s.logger.Info("snippet analysis completed",
		zap.String("language", language),
		zap.Bool("success", result.Success),
		zap.Int("blocking", result.BlockingCount()),
		zap.Int("suggestions", result.SuggestionCount()))

	return jsonResult(map[string]any{
		"success":        result.Success,
		"sample_type":    snippet.SampleType,
		"findings":       result.Findings,
		"summary":        result.Stdout,
		"error":          result.ErrorMessage,
		"execution_time": result.ExecutionTime.Seconds(),
	})
}

// jsonResult marshals v as an MCP text content payload.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: string(data),
			},
		},
	}, nil
}

// toolError wraps a message as an MCP error result.
func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: msg,
			},
		},
		IsError: true,
	}
}

// ServeStdio starts the server on stdio.
func (s *MCPServer) ServeStdio() error {
	s.logger.Info("starting MCP server on stdio")
	return server.ServeStdio(s.mcpServer)
}

// ServeHTTP starts the server on HTTP.
func (s *MCPServer) ServeHTTP() error {
	port := s.config.Server.HTTPPort
	s.logger.Info("starting MCP server on HTTP", zap.Int("port", port))

	httpServer := server.NewStreamableHTTPServer(s.mcpServer)
	return httpServer.Start(fmt.Sprintf(":%d", port))
}

// GetMCPServer returns the underlying MCP server for fx.
func (s *MCPServer) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}
