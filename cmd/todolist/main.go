package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/rs/zerolog"

	"github.com/Aishakabeer/todolist/internal/calendar"
	"github.com/Aishakabeer/todolist/internal/config"
	"github.com/Aishakabeer/todolist/internal/db"
	"github.com/Aishakabeer/todolist/internal/logging"
	"github.com/Aishakabeer/todolist/internal/mcp"
	"github.com/Aishakabeer/todolist/internal/server"
	"github.com/Aishakabeer/todolist/internal/tasks"
	"github.com/Aishakabeer/todolist/internal/ui"
	"github.com/Aishakabeer/todolist/internal/ui/components"
)

var (
	configPath   string
	dbPath       string
	snapshotPath string
	verbose      bool
)

func main() {
	flag.StringVar(&configPath, "config", config.DefaultPath, "Path to config file (YAML or JSON)")
	flag.StringVar(&dbPath, "db-path", "", "Path to database file (overrides config)")
	flag.StringVar(&snapshotPath, "snapshot-path", "", "Path to snapshot file (overrides config)")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	flag.Parse()

	var command string
	var args []string

	if flag.NArg() == 0 {
		selected, err := ui.RunMenu(menuItems())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running menu: %v\n", err)
			os.Exit(1)
		}
		if selected == "" {
			os.Exit(0)
		}
		command = selected
		args = []string{}
	} else {
		command = flag.Arg(0)
		args = flag.Args()[1:]
	}

	if err := run(command, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type command struct {
	name    string
	summary string
	run     func(args []string) error
	// inMenu marks commands that work without arguments.
	inMenu bool
}

var commands = []command{
	{"init", "create .todolist/ with config and database", runInit, true},
	{"web", "serve the calendar over HTTP", runWeb, true},
	{"mcp", "serve task tools over MCP stdio", runMCP, true},
	{"calendar", "print a month (-i to browse)", runCalendar, true},
	{"list-tasks", "list tasks, newest due date first", runListTasks, true},
	{"add", "add a task (--title, --due)", runAdd, false},
	{"toggle", "flip a task's completed flag", runToggle, false},
	{"delete", "delete a task", runDelete, false},
	{"status", "show task counts", runStatus, true},
	{"export", "write a JSONL snapshot", runExport, true},
	{"import", "load a JSONL snapshot", runImport, true},
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func menuItems() []ui.MenuItem {
	var items []ui.MenuItem
	for _, c := range commands {
		if c.inMenu {
			items = append(items, ui.MenuItem{Name: c.name, Summary: c.summary})
		}
	}
	return items
}

func run(name string, args []string) error {
	c, ok := lookupCommand(name)
	if !ok {
		return fmt.Errorf("unknown command: %s", name)
	}
	return c.run(args)
}

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if snapshotPath != "" {
		cfg.SnapshotPath = snapshotPath
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (zerolog.Logger, io.Closer, error) {
	return logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}, os.Stderr)
}

// openService opens and migrates the database and builds the task service
// with the configured week start and timezone. With auto_snapshot on, every
// write re-exports the snapshot and export failures go to onSnapshotError.
// The caller closes the DB.
func openService(ctx context.Context, cfg *config.Config, onSnapshotError func(error)) (*tasks.Service, *db.DB, error) {
	weekStart, err := cfg.WeekStart()
	if err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Init(ctx); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.AutoSnapshot {
		database.EnableAutoSnapshot(cfg.SnapshotPath, onSnapshotError)
	}

	builder := calendar.NewBuilder(calendar.SystemClock{Location: loc})
	builder.WeekStart = weekStart
	return tasks.NewService(database, builder), database, nil
}

func warnSnapshot(err error) {
	fmt.Fprintf(os.Stderr, "Warning: auto snapshot failed: %v\n", err)
}

func runInit(args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	appDir := filepath.Join(targetDir, config.DefaultDir)
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", config.DefaultDir, err)
	}
	fmt.Printf("✓ Created %s/ directory\n", config.DefaultDir)

	gitignorePath := filepath.Join(appDir, ".gitignore")
	if err := os.WriteFile(gitignorePath, []byte("todolist.db*\n*.log\n"), 0644); err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}
	fmt.Printf("✓ Created %s/.gitignore\n", config.DefaultDir)

	cfgPath := filepath.Join(appDir, filepath.Base(config.DefaultPath))
	if _, err := os.Stat(cfgPath); errors.Is(err, os.ErrNotExist) {
		if err := config.Write(cfgPath, config.Default()); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		fmt.Printf("✓ Wrote default config to %s\n", cfgPath)
	}

	finalDBPath := dbPath
	if finalDBPath == "" {
		finalDBPath = filepath.Join(appDir, filepath.Base(config.DefaultDBPath))
	}
	finalSnapshotPath := snapshotPath
	if finalSnapshotPath == "" {
		finalSnapshotPath = filepath.Join(appDir, filepath.Base(config.DefaultSnapshotPath))
	}

	database, err := db.Open(finalDBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := context.Background()
	if err := database.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	fmt.Printf("✓ Initialized database at %s\n", finalDBPath)

	if _, err := os.Stat(finalSnapshotPath); err == nil {
		n, err := database.ImportSnapshot(ctx, finalSnapshotPath)
		if err != nil {
			return fmt.Errorf("failed to import snapshot: %w", err)
		}
		fmt.Printf("✓ Imported %d tasks from %s\n", n, finalSnapshotPath)
	}

	fmt.Println("✓ todolist initialized successfully")
	return nil
}

func runWeb(args []string) error {
	webFlags := flag.NewFlagSet("web", flag.ContinueOnError)
	addr := webFlags.String("addr", "", "Address to listen on (overrides config)")
	port := webFlags.String("port", "", "Port to listen on (shorthand for --addr :PORT)")
	if err := webFlags.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	switch {
	case *addr != "":
		cfg.Server.Addr = *addr
	case *port != "":
		cfg.Server.Addr = ":" + *port
	}
	timeout, err := cfg.ShutdownTimeout()
	if err != nil {
		return err
	}

	logger, closer, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	svc, database, err := openService(context.Background(), cfg, func(err error) {
		logger.Error().Err(err).Str("path", cfg.SnapshotPath).Msg("auto snapshot failed")
	})
	if err != nil {
		return err
	}
	defer database.Close()

	srv := server.NewServer(svc, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		timeout,
		map[string]gfshutdown.Operation{
			"web-server": func(ctx context.Context) error {
				logger.Info().Msg("shutting down web server")
				return srv.Shutdown(ctx)
			},
		},
	)

	select {
	case err := <-errCh:
		return fmt.Errorf("web server: %w", err)
	case code := <-wait:
		if code != 0 {
			return fmt.Errorf("shutdown finished with exit code %d", code)
		}
		return nil
	}
}

func runMCP(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// stdout carries the protocol; logs go to stderr.
	logger, closer, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	svc, database, err := openService(context.Background(), cfg, func(err error) {
		logger.Error().Err(err).Str("path", cfg.SnapshotPath).Msg("auto snapshot failed")
	})
	if err != nil {
		return err
	}
	defer database.Close()

	logger.Debug().Str("db_path", cfg.DBPath).Msg("serving MCP on stdio")
	return mcp.Serve(mcp.NewServer(svc))
}

func runCalendar(args []string) error {
	calFlags := flag.NewFlagSet("calendar", flag.ContinueOnError)
	interactive := calFlags.Bool("i", false, "Browse months interactively")
	if err := calFlags.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()
	svc, database, err := openService(ctx, cfg, warnSnapshot)
	if err != nil {
		return err
	}
	defer database.Close()

	var yearArg, monthArg string
	if calFlags.NArg() > 0 {
		yearArg = calFlags.Arg(0)
	}
	if calFlags.NArg() > 1 {
		monthArg = calFlags.Arg(1)
	}
	year, month := svc.ParseMonth(yearArg, monthArg)

	if *interactive {
		return ui.RunCalendar(ctx, svc, year, month)
	}

	view, err := svc.Month(ctx, year, month)
	if err != nil {
		return err
	}
	fmt.Println(components.NewMonthCalendar(view).View())
	return nil
}

func runListTasks(args []string) error {
	taskFlags := flag.NewFlagSet("list-tasks", flag.ContinueOnError)
	completed := taskFlags.String("completed", "", "Filter by completion (true or false)")
	if err := taskFlags.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()
	svc, database, err := openService(ctx, cfg, warnSnapshot)
	if err != nil {
		return err
	}
	defer database.Close()

	list, err := svc.List(ctx, tasks.ParseFilter(*completed))
	if err != nil {
		return err
	}

	view := components.NewTaskList(80)
	view.Add(list...)
	fmt.Println(view.View())
	return nil
}

func runAdd(args []string) error {
	addFlags := flag.NewFlagSet("add", flag.ContinueOnError)
	title := addFlags.String("title", "", "Task title")
	due := addFlags.String("due", "", "Due date (YYYY-MM-DD, defaults to today)")
	description := addFlags.String("description", "", "Task description")
	done := addFlags.Bool("completed", false, "Create the task as completed")
	if err := addFlags.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()
	svc, database, err := openService(ctx, cfg, warnSnapshot)
	if err != nil {
		return err
	}
	defer database.Close()

	form := tasks.Form{
		Title:       *title,
		Description: *description,
		DueDate:     *due,
		Completed:   *done,
	}
	if form.DueDate == "" {
		form.DueDate = svc.Today().String()
	}

	t, err := svc.Create(ctx, form)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Created task %s (%s, due %s)\n", t.ID, t.Title, t.DueDate)
	return nil
}

func runToggle(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: todolist toggle <task-id>")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()
	svc, database, err := openService(ctx, cfg, warnSnapshot)
	if err != nil {
		return err
	}
	defer database.Close()

	t, err := svc.Toggle(ctx, args[0])
	if err != nil {
		return err
	}
	state := "pending"
	if t.Completed {
		state = "completed"
	}
	fmt.Printf("✓ Task %s is now %s\n", t.ID, state)
	return nil
}

func runDelete(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: todolist delete <task-id>")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()
	svc, database, err := openService(ctx, cfg, warnSnapshot)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := svc.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("✓ Deleted task %s\n", args[0])
	return nil
}

func runStatus(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()
	svc, database, err := openService(ctx, cfg, warnSnapshot)
	if err != nil {
		return err
	}
	defer database.Close()

	total, completed, err := database.CountTasks(ctx)
	if err != nil {
		return err
	}

	today := svc.Today()
	view, err := svc.Month(ctx, today.Year, today.Month)
	if err != nil {
		return err
	}
	thisMonth := 0
	for _, list := range view.TasksByDate {
		thisMonth += len(list)
	}
	dueToday := view.TasksOn(today)

	fmt.Println("todolist Status")
	fmt.Println("===============")
	fmt.Printf("Database:        %s\n", cfg.DBPath)
	fmt.Printf("Total Tasks:     %d\n", total)
	fmt.Printf("  Pending:       %d\n", total-completed)
	fmt.Printf("  Completed:     %d\n", completed)
	fmt.Printf("Due This Month:  %d\n", thisMonth)
	fmt.Printf("Due Today:       %d\n", len(dueToday))

	if len(dueToday) > 0 {
		fmt.Println("\nToday:")
		for _, t := range dueToday {
			mark := " "
			if t.Completed {
				mark = "x"
			}
			fmt.Printf("  [%s] %s\n", mark, t.Title)
		}
	}
	return nil
}

func runExport(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := cfg.SnapshotPath
	if len(args) > 0 {
		path = args[0]
	}

	ctx := context.Background()
	_, database, err := openService(ctx, cfg, warnSnapshot)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.ExportSnapshot(ctx, path); err != nil {
		return err
	}
	fmt.Printf("✓ Exported snapshot to %s\n", path)
	return nil
}

func runImport(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := cfg.SnapshotPath
	if len(args) > 0 {
		path = args[0]
	}

	ctx := context.Background()
	_, database, err := openService(ctx, cfg, warnSnapshot)
	if err != nil {
		return err
	}
	defer database.Close()

	n, err := database.ImportSnapshot(ctx, path)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Imported %d tasks from %s\n", n, path)
	return nil
}
