package model

// ViewMode selects which task subset the dashboard displays.
type ViewMode string

const (
	ViewPersonal ViewMode = "personal"
	ViewShared   ViewMode = "shared"
	ViewActivity ViewMode = "activity"
)

// StatusFilter narrows the personal list by completion state.
// Empty means "no status filter".
type StatusFilter string

const (
	StatusAny       StatusFilter = ""
	StatusPending   StatusFilter = "pending"
	StatusCompleted StatusFilter = "completed"
)

// Filters is a pure value object. Changing any field invalidates the
// current page and resets pagination to page 1.
type Filters struct {
	Search   string
	Priority Priority
	Status   StatusFilter
}

func (f Filters) IsZero() bool {
	return f.Search == "" && f.Priority == "" && f.Status == StatusAny
}

// Page is one fetched slice of the task list. It is replaced wholesale on
// every successful fetch and discarded on cancellation.
type Page struct {
	Tasks []Task
	Page  int
	Pages int
}
