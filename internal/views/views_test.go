package views

import (
	"testing"

	"github.com/Tiliavir/taskboard/internal/model"
)

func ptr(s string) *string { return &s }

func sampleTasks() []model.Task {
	return []model.Task{
		{ID: "0715001", PublisherID: "a", Status: model.StatusPending},
		{ID: "0715002", PublisherID: "a", Status: model.StatusAccepted, AcceptedByID: ptr("a")},
		{ID: "0715003", PublisherID: "b", Status: model.StatusPendingReview, AcceptedByID: ptr("a")},
		{ID: "0715004", PublisherID: "a", Status: model.StatusCompleted, AcceptedByID: ptr("b")},
		{ID: "0715005", PublisherID: "b", Status: "archived"},
		{ID: "0715006", PublisherID: "b"},
		{ID: "0715007", PublisherID: "b", Status: model.StatusPending},
	}
}

func TestMyTasks(t *testing.T) {
	got := MyTasks(sampleTasks(), "a")
	want := []struct {
		role Role
		id   string
	}{
		{RolePublished, "0715001"},
		{RolePublished, "0715002"},
		{RoleClaimed, "0715002"},
		{RoleClaimed, "0715003"},
	}
	if len(got) != len(want) {
		t.Fatalf("MyTasks = %d rows, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Role != w.role || got[i].Task.ID != w.id {
			t.Errorf("row %d = %s/%s, want %s/%s", i, got[i].Role, got[i].Task.ID, w.role, w.id)
		}
	}
}

func TestMyTasksNone(t *testing.T) {
	if got := MyTasks(sampleTasks(), "zzz"); len(got) != 0 {
		t.Errorf("MyTasks = %+v, want none", got)
	}
}

func TestGroupByStatus(t *testing.T) {
	groups := GroupByStatus(sampleTasks())
	want := map[model.Status][]string{
		model.StatusPending:       {"0715001", "0715006", "0715007"},
		model.StatusAccepted:      {"0715002"},
		model.StatusPendingReview: {"0715003"},
		model.StatusCompleted:     {"0715004"},
	}
	if len(groups) != 4 {
		t.Fatalf("groups = %d, want 4", len(groups))
	}
	for i, g := range groups {
		if g.Status != model.Statuses[i] {
			t.Errorf("group %d status = %s, want %s", i, g.Status, model.Statuses[i])
		}
		ids := want[g.Status]
		if len(g.Tasks) != len(ids) {
			t.Errorf("%s: %d tasks, want %d", g.Status, len(g.Tasks), len(ids))
			continue
		}
		for j, id := range ids {
			if g.Tasks[j].ID != id {
				t.Errorf("%s[%d] = %s, want %s", g.Status, j, g.Tasks[j].ID, id)
			}
		}
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"short", "short"},
		{"exactly twenty chars", "exactly twenty chars"},
		{"twenty-one characters", "twenty-one character..."},
		{"这是一个非常非常非常非常长的任务描述内容超过二十个字", "这是一个非常非常非常非常长的任务描述内容..."},
	}
	for _, tt := range tests {
		if got := Preview(tt.in); got != tt.want {
			t.Errorf("Preview(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		in   model.Status
		want string
	}{
		{model.StatusPending, "Open"},
		{model.StatusAccepted, "In progress"},
		{model.StatusPendingReview, "Awaiting review"},
		{model.StatusCompleted, "Completed"},
		{"archived", "Unknown status"},
		{"", "Open"},
	}
	for _, tt := range tests {
		if got := StatusLabel(tt.in); got != tt.want {
			t.Errorf("StatusLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type fakeStore []model.Task

func (f fakeStore) LoadTasks() ([]model.Task, error) { return f, nil }

func TestService(t *testing.T) {
	s := NewService(fakeStore(sampleTasks()))
	mine, err := s.Mine("b")
	if err != nil || len(mine) != 4 {
		t.Errorf("Mine(b) = %+v, %v", mine, err)
	}
	groups, total, err := s.All()
	if err != nil || total != 7 || len(groups) != 4 {
		t.Errorf("All = %d groups, total %d, %v", len(groups), total, err)
	}
}
