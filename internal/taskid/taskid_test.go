package taskid_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/Tiliavir/taskboard/internal/model"
	"github.com/Tiliavir/taskboard/internal/taskid"
)

func TestGenerateFirstOfDay(t *testing.T) {
	day := time.Date(2026, 7, 15, 9, 30, 0, 0, time.UTC)
	tasks := []model.Task{{ID: "0714003"}, {ID: "0714001"}}

	got := taskid.Generate(day, tasks)
	if got != "0715001" {
		t.Errorf("Generate = %q, want %q", got, "0715001")
	}
}

func TestGenerateSequential(t *testing.T) {
	day := time.Date(2026, 7, 15, 9, 30, 0, 0, time.UTC)
	var tasks []model.Task
	for i := 1; i <= 12; i++ {
		id := taskid.Generate(day, tasks)
		want := fmt.Sprintf("0715%03d", i)
		if id != want {
			t.Fatalf("Generate #%d = %q, want %q", i, id, want)
		}
		tasks = append(tasks, model.Task{ID: id})
	}
}

func TestGenerateUsesMaxSuffix(t *testing.T) {
	day := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: "1201004"},
		{ID: "1201002"},
		{ID: "120100x"}, // wrong shape, ignored
		{ID: "12019999"},
		{ID: "2412011200"}, // legacy timestamp id
	}
	got := taskid.Generate(day, tasks)
	if got != "1201005" {
		t.Errorf("Generate = %q, want %q", got, "1201005")
	}
}

func TestExample(t *testing.T) {
	day := time.Date(2026, 2, 27, 8, 0, 0, 0, time.UTC)
	if got := taskid.Example(day); got != "0227001" {
		t.Errorf("Example = %q, want %q", got, "0227001")
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0715001", true},
		{"0101000", true},
		{"1231999", true},
		{"0231001", true}, // days per month are not checked
		{"0015001", false},
		{"1315001", false},
		{"0700001", false},
		{"0732001", false},
		{"071500", false},
		{"07150011", false},
		{"07a5001", false},
		{"", false},
		{"０７１５００１", false},
		{" 715001", false},
	}
	for _, tt := range tests {
		if got := taskid.Valid(tt.in); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
