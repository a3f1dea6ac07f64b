package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/Crixpsitos/lazytodo/internal/model"
)

var (
	priorityStyles = map[model.Priority]lipgloss.Style{
		model.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		model.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		model.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
	doneStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Strikethrough(true)
	idStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	descriptionStyle = lipgloss.NewStyle().Faint(true)
	summaryStyle     = lipgloss.NewStyle().Bold(true)
)

func renderTasks(w io.Writer, list []model.Task, counts model.Counts) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}

	for _, task := range list {
		marker := "[ ]"
		title := task.Title
		if task.Completed {
			marker = "[x]"
			title = doneStyle.Render(title)
		}
		priority := priorityStyles[task.Priority].Render(fmt.Sprintf("%-6s", task.Priority))
		fmt.Fprintf(w, "%s %s %s %s\n", marker, priority, title, idStyle.Render(task.ID))
		if task.Description != "" {
			fmt.Fprintf(w, "    %s\n", descriptionStyle.Render(task.Description))
		}
	}
	fmt.Fprintln(w, summaryStyle.Render(fmt.Sprintf("%d tasks, %d pending, %d completed", counts.Total, counts.Pending, counts.Completed)))
}
