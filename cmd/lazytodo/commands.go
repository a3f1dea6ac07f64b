package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Crixpsitos/lazytodo/internal/blob"
	"github.com/Crixpsitos/lazytodo/internal/model"
	"github.com/Crixpsitos/lazytodo/internal/tasks"
	"github.com/Crixpsitos/lazytodo/internal/web"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

var (
	addDescription string
	addPriority    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the task list",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var listSort string

var toggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Mark a task done, or not done again",
	Args:  cobra.ExactArgs(1),
	RunE:  runToggle,
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change the title, description or priority of a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

var (
	editTitle       string
	editDescription string
	editPriority    string
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the task list over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var servePort int

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the storage keys holding a task collection",
	Args:  cobra.NoArgs,
	RunE:  runKeys,
}

func init() {
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "task description")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "priority: low, medium or high (default medium)")

	listCmd.Flags().StringVarP(&listSort, "sort", "s", "", "sort by date, status or priority (default from config)")

	editCmd.Flags().StringVar(&editTitle, "title", "", "new title")
	editCmd.Flags().StringVar(&editDescription, "description", "", "new description")
	editCmd.Flags().StringVar(&editPriority, "priority", "", "new priority")

	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (default from config)")

	addFlagAliases(addCmd, editCmd)
	rootCmd.AddCommand(addCmd, listCmd, toggleCmd, editCmd, deleteCmd, serveCmd, keysCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	task, err := app.store.Add(cmd.Context(), args[0], addDescription, model.Priority(addPriority))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %s: %s\n", task.ID, task.Title)
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	var mode model.SortMode
	if listSort != "" {
		parsed, err := model.ParseSortMode(listSort)
		if err != nil {
			return err
		}
		mode = parsed
	}

	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	renderTasks(cmd.OutOrStdout(), app.store.Sorted(mode), app.store.Counts())
	return nil
}

func runToggle(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	task, err := resolveTask(app.store, args[0])
	if err != nil {
		return err
	}
	app.store.ToggleCompletion(cmd.Context(), task.ID)

	state := "reopened"
	if toggled, ok := app.store.Get(task.ID); ok && toggled.Completed {
		state = "completed"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", state, task.Title)
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	var patch model.Patch
	if cmd.Flags().Changed("title") {
		patch.Title = &editTitle
	}
	if cmd.Flags().Changed("description") {
		patch.Description = &editDescription
	}
	if cmd.Flags().Changed("priority") {
		priority := model.Priority(editPriority)
		patch.Priority = &priority
	}
	if patch.IsEmpty() {
		return errors.New("nothing to update: pass --title, --description or --priority")
	}

	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	task, err := resolveTask(app.store, args[0])
	if err != nil {
		return err
	}
	if err := app.store.Update(cmd.Context(), task.ID, patch); err != nil {
		return err
	}

	updated, _ := app.store.Get(task.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "updated: %s\n", updated.Title)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	task, err := resolveTask(app.store, args[0])
	if err != nil {
		return err
	}
	app.store.Delete(cmd.Context(), task.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "deleted: %s\n", task.Title)
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	port := app.cfg.WebPort
	if servePort != 0 {
		port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := web.NewServer(app.store, app.logger)
	return server.ListenAndServe(ctx, fmt.Sprintf(":%d", port))
}

func runKeys(cmd *cobra.Command, _ []string) error {
	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	lister, ok := app.blobs.(blob.Lister)
	if !ok {
		return fmt.Errorf("backend %q cannot list keys", app.cfg.Backend)
	}
	keys, err := lister.Keys(cmd.Context())
	if err != nil {
		return err
	}
	for _, key := range keys {
		marker := " "
		if key == app.cfg.StorageKey {
			marker = "*"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, key)
	}
	return nil
}

// resolveTask finds a task by full id or by an unambiguous id prefix.
func resolveTask(store *tasks.Store, id string) (model.Task, error) {
	id = strings.TrimSpace(id)
	if task, ok := store.Get(id); ok {
		return task, nil
	}
	if id == "" {
		return model.Task{}, errors.New("task id is required")
	}

	var matches []model.Task
	for _, task := range store.All() {
		if strings.HasPrefix(task.ID, id) {
			matches = append(matches, task)
		}
	}
	switch len(matches) {
	case 0:
		return model.Task{}, fmt.Errorf("no task with id %q", id)
	case 1:
		return matches[0], nil
	default:
		return model.Task{}, fmt.Errorf("id prefix %q matches %d tasks", id, len(matches))
	}
}
