// Package mcpserver provides the Model Context Protocol (MCP) server implementation.
//
// The mcpserver package implements an MCP-compliant server that exposes the
// documentation testing pipeline as tools. It uses the mark3labs/mcp-go
// library to handle the protocol details and provides two tools:
// test_documentation_samples runs the full extract/rewrite/execute pipeline
// for one language and returns the JSON report, and analyze_code_sample
// checks a single snippet against the known-issue catalogue.
//
// The server supports both stdio and HTTP transports as configured by the
// application configuration.
//
// Usage:
//
//	srv, err := mcpserver.New(config, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = srv.ServeStdio() // or srv.ServeHTTP()
package mcpserver
