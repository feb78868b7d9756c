package views

import "github.com/Tiliavir/taskboard/internal/model"

// Role is the caller's relation to a task in MyTasks.
type Role string

const (
	RolePublished Role = "published"
	RoleClaimed   Role = "claimed"
)

// PreviewLength is the number of characters kept by Preview.
const PreviewLength = 20

// MyTask is one row of the per-user task list.
type MyTask struct {
	Role Role
	Task model.Task
}

// Group is one status bucket of the global task list.
type Group struct {
	Status model.Status
	Tasks  []model.Task
}

// MyTasks returns the open tasks userID published or claimed. A task the
// user both published and claimed is listed once per role.
func MyTasks(tasks []model.Task, userID string) []MyTask {
	var out []MyTask
	for _, t := range tasks {
		if t.Status == model.StatusCompleted {
			continue
		}
		if t.PublisherID == userID {
			out = append(out, MyTask{Role: RolePublished, Task: t})
		}
		if t.ClaimedBy(userID) {
			out = append(out, MyTask{Role: RoleClaimed, Task: t})
		}
	}
	return out
}

// GroupByStatus partitions tasks into the four lifecycle buckets, in
// lifecycle order, keeping storage order inside each bucket. A task without
// a status counts as pending; tasks with an unknown status are left out.
func GroupByStatus(tasks []model.Task) []Group {
	groups := make([]Group, len(model.Statuses))
	index := make(map[model.Status]int, len(model.Statuses))
	for i, s := range model.Statuses {
		groups[i].Status = s
		index[s] = i
	}
	for _, t := range tasks {
		status := t.Status
		if status == "" {
			status = model.StatusPending
		}
		if i, ok := index[status]; ok {
			groups[i].Tasks = append(groups[i].Tasks, t)
		}
	}
	return groups
}

// Preview shortens content to PreviewLength characters plus an ellipsis.
func Preview(content string) string {
	r := []rune(content)
	if len(r) <= PreviewLength {
		return content
	}
	return string(r[:PreviewLength]) + "..."
}

// StatusLabel returns the human-readable label of a status. A missing status
// reads as pending, as in GroupByStatus.
func StatusLabel(s model.Status) string {
	switch s {
	case model.StatusPending, "":
		return "Open"
	case model.StatusAccepted:
		return "In progress"
	case model.StatusPendingReview:
		return "Awaiting review"
	case model.StatusCompleted:
		return "Completed"
	}
	return "Unknown status"
}

// Store is the persistence the views read from.
type Store interface {
	LoadTasks() ([]model.Task, error)
}

// Service builds views from stored tasks.
type Service struct {
	store Store
}

// NewService returns a Service reading from store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Mine is MyTasks over the stored tasks.
func (s *Service) Mine(userID string) ([]MyTask, error) {
	tasks, err := s.store.LoadTasks()
	if err != nil {
		return nil, err
	}
	return MyTasks(tasks, userID), nil
}

// All is GroupByStatus over the stored tasks. total is the number of stored
// tasks, including any left out of the groups.
func (s *Service) All() (groups []Group, total int, err error) {
	tasks, err := s.store.LoadTasks()
	if err != nil {
		return nil, 0, err
	}
	return GroupByStatus(tasks), len(tasks), nil
}
