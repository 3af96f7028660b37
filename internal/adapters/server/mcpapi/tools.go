package mcpapi

import (
	"context"
	"fmt"

	"github.com/hylla/lyst/internal/adapters/server/common"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// registerListTools registers list collection and lifecycle tools.
func registerListTools(srv *mcpserver.MCPServer, checklist common.ChecklistService) {
	srv.AddTool(
		mcp.NewTool(
			"lyst.list_lists",
			mcp.WithDescription("List checklists with item and done counts."),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			rows, err := checklist.ListLists(ctx)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(map[string]any{"lists": rows})
			if err != nil {
				return nil, fmt.Errorf("encode list_lists result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"lyst.create_list",
			mcp.WithDescription("Create one checklist."),
			mcp.WithString("title", mcp.Required(), mcp.Description("List title")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			title, err := req.RequireString("title")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			list, err := checklist.CreateList(ctx, common.CreateListRequest{Title: title})
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(list)
			if err != nil {
				return nil, fmt.Errorf("encode create_list result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"lyst.rename_list",
			mcp.WithDescription("Rename one checklist."),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("List identifier")),
			mcp.WithString("title", mcp.Required(), mcp.Description("New list title")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := req.RequireInt("id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			title, err := req.RequireString("title")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			list, err := checklist.RenameList(ctx, common.RenameListRequest{ID: int64(id), Title: title})
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(list)
			if err != nil {
				return nil, fmt.Errorf("encode rename_list result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"lyst.delete_list",
			mcp.WithDescription("Delete one checklist and all of its items."),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("List identifier")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := req.RequireInt("id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := checklist.DeleteList(ctx, int64(id)); err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(map[string]any{
				"deleted": true,
				"list_id": int64(id),
			})
			if err != nil {
				return nil, fmt.Errorf("encode delete_list result: %w", err)
			}
			return result, nil
		},
	)
}

// registerItemTools registers item lifecycle, toggle, and reorder tools.
func registerItemTools(srv *mcpserver.MCPServer, checklist common.ChecklistService) {
	srv.AddTool(
		mcp.NewTool(
			"lyst.list_items",
			mcp.WithDescription("List items for one checklist in display order."),
			mcp.WithNumber("list_id", mcp.Required(), mcp.Description("List identifier")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			listID, err := req.RequireInt("list_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			rows, err := checklist.ListItems(ctx, int64(listID))
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(map[string]any{"items": rows})
			if err != nil {
				return nil, fmt.Errorf("encode list_items result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"lyst.add_item",
			mcp.WithDescription("Append one item to the end of a checklist."),
			mcp.WithNumber("list_id", mcp.Required(), mcp.Description("List identifier")),
			mcp.WithString("text", mcp.Required(), mcp.Description("Item text")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			listID, err := req.RequireInt("list_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			text, err := req.RequireString("text")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			item, err := checklist.AddItem(ctx, common.AddItemRequest{ListID: int64(listID), Text: text})
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(item)
			if err != nil {
				return nil, fmt.Errorf("encode add_item result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"lyst.edit_item",
			mcp.WithDescription("Replace the text of one item."),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Item identifier")),
			mcp.WithString("text", mcp.Required(), mcp.Description("New item text")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := req.RequireInt("id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			text, err := req.RequireString("text")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			item, err := checklist.EditItem(ctx, common.EditItemRequest{ID: int64(id), Text: text})
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(item)
			if err != nil {
				return nil, fmt.Errorf("encode edit_item result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"lyst.toggle_item",
			mcp.WithDescription("Flip the checked state of one item."),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Item identifier")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := req.RequireInt("id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			item, err := checklist.ToggleItem(ctx, int64(id))
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(item)
			if err != nil {
				return nil, fmt.Errorf("encode toggle_item result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"lyst.delete_item",
			mcp.WithDescription("Delete one item and close its ordering gap."),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Item identifier")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := req.RequireInt("id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := checklist.DeleteItem(ctx, int64(id)); err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(map[string]any{
				"deleted": true,
				"item_id": int64(id),
			})
			if err != nil {
				return nil, fmt.Errorf("encode delete_item result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"lyst.move_item",
			mcp.WithDescription("Move one item up or down within its checklist."),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Item identifier")),
			mcp.WithString("direction", mcp.Required(), mcp.Description("up|down"), mcp.Enum(common.SupportedMoveDirections()...)),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id, err := req.RequireInt("id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			direction, err := req.RequireString("direction")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			item, err := checklist.MoveItem(ctx, common.MoveItemRequest{ID: int64(id), Direction: direction})
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(item)
			if err != nil {
				return nil, fmt.Errorf("encode move_item result: %w", err)
			}
			return result, nil
		},
	)
}
