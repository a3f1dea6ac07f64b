package tui

import (
	"github.com/jesseduffield/gocui"

	"github.com/Crixpsitos/lazytodo/internal/model"
)

type formField struct {
	Label string
	Value string
}

const (
	fieldTitle = iota
	fieldDescription
	fieldPriority
)

type formInput struct {
	title       string
	description string
	priority    model.Priority
}

// patch replaces every editable field, matching what the form shows.
func (in formInput) patch() model.Patch {
	title := in.title
	description := in.description
	priority := in.priority
	return model.Patch{Title: &title, Description: &description, Priority: &priority}
}

func buildFormFields(task *model.Task) []formField {
	fields := []formField{
		{Label: "Title"},
		{Label: "Description"},
		{Label: "Priority (space/←→)"},
	}

	if task == nil {
		fields[fieldPriority].Value = string(model.PriorityMedium)
		return fields
	}

	fields[fieldTitle].Value = task.Title
	fields[fieldDescription].Value = task.Description
	fields[fieldPriority].Value = string(task.Priority)
	return fields
}

// parseFormFields leaves trimming and length checks to the store so the
// form reports the same messages as every other entry point.
func parseFormFields(fields []formField) (formInput, error) {
	priority, err := model.ParsePriority(fields[fieldPriority].Value)
	if err != nil {
		return formInput{}, err
	}
	return formInput{
		title:       fields[fieldTitle].Value,
		description: fields[fieldDescription].Value,
		priority:    priority,
	}, nil
}

func (f *formState) edit(key gocui.Key, ch rune, mod gocui.Modifier) {
	field := &f.fields[f.index]

	if f.index == fieldPriority {
		switch key {
		case gocui.KeyArrowRight, gocui.KeySpace:
			field.Value = string(cyclePriority(model.Priority(field.Value), 1))
		case gocui.KeyArrowLeft:
			field.Value = string(cyclePriority(model.Priority(field.Value), -1))
		}
		return
	}

	switch key {
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		runes := []rune(field.Value)
		if len(runes) > 0 {
			field.Value = string(runes[:len(runes)-1])
		}
	case gocui.KeySpace:
		field.Value += " "
	case gocui.KeyCtrlU:
		field.Value = ""
	}

	if ch != 0 && ch != '\n' && ch != '\r' && mod == 0 {
		field.Value += string(ch)
	}
}

// cyclePriority steps through low, medium, high and wraps around.
func cyclePriority(current model.Priority, delta int) model.Priority {
	order := []model.Priority{model.PriorityLow, model.PriorityMedium, model.PriorityHigh}
	index := 1
	for i, priority := range order {
		if priority == current {
			index = i
			break
		}
	}
	next := (index + delta) % len(order)
	if next < 0 {
		next += len(order)
	}
	return order[next]
}
