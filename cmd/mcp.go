package cmd

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/oxidoc/oxidoc/internal/config"
	"github.com/oxidoc/oxidoc/internal/pager"
	"github.com/oxidoc/oxidoc/internal/present"
	"github.com/oxidoc/oxidoc/internal/render"
	"github.com/oxidoc/oxidoc/internal/store"
)

//go:embed mcp_prelude.md
var mcpInstructions string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run as MCP server exposing documentation lookup",
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		s := server.NewMCPServer("oxidoc", version,
			server.WithInstructions(mcpInstructions),
		)

		lookup := mcp.NewTool("lookup",
			mcp.WithDescription("Look up Rust documentation by item name or module path"),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("item name or module path, e.g. 'Vec' or 'std::vec::Vec'"),
			),
		)
		s.AddTool(lookup, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			query, err := req.RequireString("query")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			text, err := lookupText(cfg, query)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(text), nil
		})

		return server.ServeStdio(s)
	},
}

// lookupText runs the query pipeline with plain fixed-width rendering
// into a buffer, for clients that are not terminals.
func lookupText(cfg *config.Config, query string) (string, error) {
	st, err := store.Open(cfg.Store.Dir)
	if err != nil {
		return "", fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	var buf bytes.Buffer
	renderer := render.New(render.NewANSITerminal(nil,
		render.WithWidth(render.DefaultWidth),
		render.WithStyle("notty"),
	))

	driver := present.New(st, store.NewDriver(cfg.Store.Dir), renderer, &buf,
		func() (io.WriteCloser, error) {
			return pager.Passthrough(&buf), nil
		})
	if err := driver.Run(query); err != nil {
		return "", err
	}
	return buf.String(), nil
}
