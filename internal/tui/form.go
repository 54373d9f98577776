package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"faros-cli/internal/api"
	"faros-cli/internal/model"
)

// formModel is the create/edit task overlay: a small stack of text inputs
// plus a cycling priority field.
type formModel struct {
	taskID string

	title       textinput.Model
	description textinput.Model
	due         textinput.Model
	tags        textinput.Model
	priority    model.Priority

	focus int // 0 title, 1 description, 2 due, 3 tags, 4 priority
}

const formFields = 5

func newFormInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Prompt = "> "
	return in
}

func newCreateForm() formModel {
	f := formModel{
		title:       newFormInput("title", 200),
		description: newFormInput("description (markdown)", 2000),
		due:         newFormInput("due date YYYY-MM-DD", 10),
		tags:        newFormInput("tags, comma separated", 200),
		priority:    model.PriorityMedium,
	}
	return f
}

func newEditForm(t model.Task) formModel {
	f := newCreateForm()
	f.taskID = t.ID
	f.title.SetValue(t.Title)
	f.description.SetValue(t.Description)
	if t.DueDate != nil {
		f.due.SetValue(t.DueDate.Local().Format("2006-01-02"))
	}
	f.tags.SetValue(strings.Join(t.Tags, ", "))
	f.priority = t.Priority
	return f
}

func (f *formModel) next() { f.focus = (f.focus + 1) % formFields }
func (f *formModel) prev() { f.focus = (f.focus + formFields - 1) % formFields }

func (f *formModel) focusCmd() tea.Cmd {
	inputs := f.inputs()
	var cmd tea.Cmd
	for i, in := range inputs {
		if i == f.focus {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
	}
	return cmd
}

func (f *formModel) inputs() []*textinput.Model {
	return []*textinput.Model{&f.title, &f.description, &f.due, &f.tags}
}

func (f formModel) update(msg tea.KeyMsg) (formModel, tea.Cmd) {
	if f.focus == formFields-1 {
		// Priority field: space cycles.
		if msg.String() == " " {
			f.priority = cyclePriority(f.priority)
		}
		return f, nil
	}
	inputs := f.inputs()
	var cmd tea.Cmd
	*inputs[f.focus], cmd = inputs[f.focus].Update(msg)
	return f, cmd
}

func cyclePriority(p model.Priority) model.Priority {
	switch p {
	case model.PriorityLow:
		return model.PriorityMedium
	case model.PriorityMedium:
		return model.PriorityHigh
	default:
		return model.PriorityLow
	}
}

func (f formModel) parsedDue() (*time.Time, error) {
	raw := strings.TrimSpace(f.due.Value())
	if raw == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q (want YYYY-MM-DD)", raw)
	}
	return &d, nil
}

func (f formModel) parsedTags() []string {
	raw := strings.TrimSpace(f.tags.Value())
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func (f formModel) create() (api.TaskCreate, error) {
	due, err := f.parsedDue()
	if err != nil {
		return api.TaskCreate{}, err
	}
	return api.TaskCreate{
		Title:       strings.TrimSpace(f.title.Value()),
		Description: f.description.Value(),
		Priority:    f.priority,
		DueDate:     due,
		Tags:        f.parsedTags(),
	}, nil
}

func (f formModel) patch() (api.TaskPatch, error) {
	due, err := f.parsedDue()
	if err != nil {
		return api.TaskPatch{}, err
	}
	title := strings.TrimSpace(f.title.Value())
	description := f.description.Value()
	priority := f.priority
	tags := f.parsedTags()
	return api.TaskPatch{
		Title:       &title,
		Description: &description,
		Priority:    &priority,
		DueDate:     due,
		Tags:        &tags,
	}, nil
}
