package model

import "encoding/json"

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending       Status = "pending"
	StatusAccepted      Status = "accepted"
	StatusPendingReview Status = "pending_review"
	StatusCompleted     Status = "completed"
)

// Statuses lists every known status in lifecycle order.
var Statuses = []Status{StatusPending, StatusAccepted, StatusPendingReview, StatusCompleted}

// transitions is the complete set of legal status changes.
var transitions = map[Status]map[Status]struct{}{
	StatusPending:       {StatusAccepted: {}},
	StatusAccepted:      {StatusPendingReview: {}},
	StatusPendingReview: {StatusCompleted: {}},
}

// CanTransition reports whether a task may move from one status to another.
func CanTransition(from, to Status) bool {
	next, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

// Known reports whether s is one of the four lifecycle states.
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusPendingReview, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted
}

// Task is a single unit of work stored in tasks.json.
type Task struct {
	ID             string  `json:"task_id"`
	PublisherID    string  `json:"publisher_id"`
	PublisherName  string  `json:"publisher_name"`
	Content        string  `json:"content"`
	PublishTime    string  `json:"publish_time"`
	Status         Status  `json:"status"`
	AcceptedByID   *string `json:"accepted_by_id"`
	AcceptedByName *string `json:"accepted_by_name"`

	// Extra keeps members written by other versions of the board.
	Extra Extra `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra.
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := splitExtra(data, taskKeys)
	if err != nil {
		return err
	}
	*t = Task(p)
	t.Extra = extra
	return nil
}

// MarshalJSON writes the known fields followed by Extra.
func (t Task) MarshalJSON() ([]byte, error) {
	type plain Task
	return joinExtra(plain(t), t.Extra)
}

// ClaimedBy reports whether userID is the task's claimant.
func (t Task) ClaimedBy(userID string) bool {
	return t.AcceptedByID != nil && *t.AcceptedByID == userID
}

// Claimant returns the claimant's id and name, empty when unclaimed.
func (t Task) Claimant() (id, name string) {
	if t.AcceptedByID != nil {
		id = *t.AcceptedByID
	}
	if t.AcceptedByName != nil {
		name = *t.AcceptedByName
	}
	return id, name
}

// PublishTimeLayout is the layout used for Task.PublishTime.
const PublishTimeLayout = "2006-01-02 15:04:05"
