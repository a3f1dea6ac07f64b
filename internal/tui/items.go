package tui

import (
	"fmt"

	"github.com/Crixpsitos/lazytodo/internal/model"
)

const timeLayout = "2006-01-02 15:04"

func completionMarker(task model.Task) string {
	if task.Completed {
		return "[x]"
	}
	return "[ ]"
}

func priorityMarker(priority model.Priority) string {
	switch priority {
	case model.PriorityHigh:
		return "!!!"
	case model.PriorityMedium:
		return "!! "
	default:
		return "!  "
	}
}

func formatTaskSummary(task model.Task) string {
	return fmt.Sprintf("%s %s %s", completionMarker(task), priorityMarker(task.Priority), task.Title)
}

func formatTaskDetail(task model.Task) []string {
	status := "pending"
	if task.Completed {
		status = "completed"
	}
	description := task.Description
	if description == "" {
		description = "(no description)"
	}
	return []string{
		task.Title,
		fmt.Sprintf("Status: %s", status),
		fmt.Sprintf("Priority: %s", task.Priority),
		fmt.Sprintf("Created: %s", task.CreatedAt.Local().Format(timeLayout)),
		fmt.Sprintf("Updated: %s", task.UpdatedAt.Local().Format(timeLayout)),
		fmt.Sprintf("ID: %s", task.ID),
		"",
		description,
	}
}
