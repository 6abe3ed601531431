package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Aishakabeer/todolist/internal/tasks"
)

// NewServer creates a new MCP server exposing the task operations as tools.
func NewServer(svc *tasks.Service) *server.MCPServer {
	s := server.NewMCPServer("todolist", "0.1.0")

	s.AddTool(mcp.NewTool("create_task",
		mcp.WithDescription("Create a task due on a date."),
		mcp.WithString("title", mcp.Description("Task title (max 200 chars)"), mcp.Required()),
		mcp.WithString("due_date", mcp.Description("Due date as YYYY-MM-DD"), mcp.Required()),
		mcp.WithString("description", mcp.Description("Optional description")),
		mcp.WithBoolean("completed", mcp.Description("Whether the task starts completed")),
	), createTaskHandler(svc))

	s.AddTool(mcp.NewTool("create_tasks",
		mcp.WithDescription("Create several tasks at once. If any task is invalid nothing is created."),
		mcp.WithArray("tasks",
			mcp.Description("Tasks to create"),
			mcp.Required(),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":       map[string]any{"type": "string"},
					"due_date":    map[string]any{"type": "string"},
					"description": map[string]any{"type": "string"},
					"completed":   map[string]any{"type": "boolean"},
				},
				"required": []string{"title", "due_date"},
			}),
		),
	), createTasksHandler(svc))

	s.AddTool(mcp.NewTool("get_task",
		mcp.WithDescription("Get a single task by id."),
		mcp.WithString("id", mcp.Description("Task id"), mcp.Required()),
	), getTaskHandler(svc))

	s.AddTool(mcp.NewTool("update_task",
		mcp.WithDescription("Update an existing task. Omitted fields keep their current value."),
		mcp.WithString("id", mcp.Description("Task id"), mcp.Required()),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithString("due_date", mcp.Description("New due date as YYYY-MM-DD")),
		mcp.WithBoolean("completed", mcp.Description("New completion state")),
	), updateTaskHandler(svc))

	s.AddTool(mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task."),
		mcp.WithString("id", mcp.Description("Task id"), mcp.Required()),
	), deleteTaskHandler(svc))

	s.AddTool(mcp.NewTool("toggle_task",
		mcp.WithDescription("Flip the completed flag of a task."),
		mcp.WithString("id", mcp.Description("Task id"), mcp.Required()),
	), toggleTaskHandler(svc))

	s.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List tasks, newest due date first."),
		mcp.WithBoolean("completed", mcp.Description("Only completed (true) or only pending (false) tasks")),
	), listTasksHandler(svc))

	s.AddTool(mcp.NewTool("get_month_calendar",
		mcp.WithDescription("Get the month grid and the tasks due in that month. Missing or invalid values default to the current month."),
		mcp.WithNumber("year", mcp.Description("Year (1-9999)")),
		mcp.WithNumber("month", mcp.Description("Month (1-12)")),
	), getMonthCalendarHandler(svc))

	return s
}

// Serve starts the MCP server on stdio.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func createTaskHandler(svc *tasks.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		form := tasks.Form{
			Title:       mcp.ParseString(request, "title", ""),
			Description: mcp.ParseString(request, "description", ""),
			DueDate:     mcp.ParseString(request, "due_date", ""),
			Completed:   mcp.ParseBoolean(request, "completed", false),
		}

		t, err := svc.Create(ctx, form)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(t)
	}
}

func createTasksHandler(svc *tasks.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]any)
		items, ok := args["tasks"].([]any)
		if !ok {
			return mcp.NewToolResultError("tasks must be an array"), nil
		}

		forms := make([]tasks.Form, 0, len(items))
		for i, item := range items {
			fields, ok := item.(map[string]any)
			if !ok {
				return mcp.NewToolResultError(fmt.Sprintf("task %d must be an object", i)), nil
			}
			var f tasks.Form
			f.Title, _ = fields["title"].(string)
			f.DueDate, _ = fields["due_date"].(string)
			f.Description, _ = fields["description"].(string)
			f.Completed, _ = fields["completed"].(bool)
			forms = append(forms, f)
		}

		created, err := svc.CreateMany(ctx, forms)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(map[string]any{"tasks": created})
	}
}

func getTaskHandler(svc *tasks.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "id", "")

		t, err := svc.Get(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(t)
	}
}

func updateTaskHandler(svc *tasks.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "id", "")

		t, err := svc.Get(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		form := tasks.FormFromTask(t)
		args, _ := request.Params.Arguments.(map[string]any)
		if title, ok := args["title"].(string); ok {
			form.Title = title
		}
		if description, ok := args["description"].(string); ok {
			form.Description = description
		}
		if dueDate, ok := args["due_date"].(string); ok {
			form.DueDate = dueDate
		}
		if completed, ok := args["completed"].(bool); ok {
			form.Completed = completed
		}

		t, err = svc.Update(ctx, id, form)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(t)
	}
}

func deleteTaskHandler(svc *tasks.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "id", "")

		if err := svc.Delete(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Task '%s' deleted.", id)), nil
	}
}

func toggleTaskHandler(svc *tasks.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "id", "")

		t, err := svc.Toggle(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(map[string]any{"success": true, "completed": t.Completed})
	}
}

func listTasksHandler(svc *tasks.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]any)
		filter := tasks.FilterAll
		if completed, ok := args["completed"].(bool); ok {
			filter = tasks.ParseFilter(strconv.FormatBool(completed))
		}

		list, err := svc.List(ctx, filter)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(map[string]any{"tasks": list})
	}
}

func getMonthCalendarHandler(svc *tasks.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]any)
		year, month := svc.ParseMonth(numberArg(args, "year"), numberArg(args, "month"))

		view, err := svc.Month(ctx, year, month)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(map[string]any{
			"year":          view.Grid.Year,
			"month":         int(view.Grid.Month),
			"month_name":    view.Grid.MonthName,
			"weekdays":      view.Weekdays,
			"weeks":         view.Grid.Weeks,
			"prev":          view.Grid.Prev,
			"next":          view.Grid.Next,
			"tasks_by_date": view.TasksByDate,
		})
	}
}

// numberArg renders a numeric or string argument in the textual form the
// month parser expects. Missing arguments become "".
func numberArg(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case float64:
		if v != float64(int(v)) {
			return fmt.Sprint(v)
		}
		return strconv.Itoa(int(v))
	case string:
		return v
	default:
		return ""
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
