package lifecycle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Tiliavir/taskboard/internal/ledger"
	"github.com/Tiliavir/taskboard/internal/logger"
	"github.com/Tiliavir/taskboard/internal/model"
	"github.com/Tiliavir/taskboard/internal/taskid"
)

var (
	// ErrForbidden means the caller lacks the rights for the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidTaskID means the argument does not have the MMDDNNN shape.
	ErrInvalidTaskID = errors.New("malformed task id")
	// ErrNotClaimable means no pending task with the given id exists.
	ErrNotClaimable = errors.New("task cannot be claimed")
	// ErrInvalidTask means no task with the given id is in the required state.
	ErrInvalidTask = errors.New("invalid task")
	// ErrNotYourTask means the caller is not the task's claimant.
	ErrNotYourTask = errors.New("not your task")
	// ErrEmptyContent means a task was published without a description.
	ErrEmptyContent = errors.New("task content is empty")
)

// PublishPolicy decides who may create tasks.
type PublishPolicy string

const (
	PublishAnyone     PublishPolicy = "anyone"
	PublishAdminsOnly PublishPolicy = "admins-only"
)

// Policy is the engine's fixed configuration.
type Policy struct {
	Admins       []string
	Publish      PublishPolicy
	ReviewReward int
}

// IsAdmin reports whether userID is in the admin set (exact match).
func (p Policy) IsAdmin(userID string) bool {
	for _, a := range p.Admins {
		if a == userID {
			return true
		}
	}
	return false
}

// User identifies the caller of an operation.
type User struct {
	ID   string
	Name string
}

// Store is the persistence the engine mutates.
type Store interface {
	UpdateTasks(fn func([]model.Task) ([]model.Task, error)) error
	UpdateBoth(fn func([]model.Task, []model.PointBalance) ([]model.Task, []model.PointBalance, error)) error
}

// ReviewResult is returned by a successful Review.
type ReviewResult struct {
	Task        model.Task
	Reward      int
	TotalPoints int
}

// Engine applies lifecycle transitions to stored tasks.
type Engine struct {
	policy Policy
	store  Store
	log    *logger.Logger
	now    func() time.Time
}

// New returns an Engine using the wall clock.
func New(policy Policy, store Store, log *logger.Logger) *Engine {
	return &Engine{
		policy: policy,
		store:  store,
		log:    log.WithComponent("lifecycle"),
		now:    time.Now,
	}
}

// SetClock replaces the engine's time source.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Policy returns the engine's configuration.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Create publishes a new pending task.
func (e *Engine) Create(caller User, content string) (model.Task, error) {
	if e.policy.Publish == PublishAdminsOnly && !e.policy.IsAdmin(caller.ID) {
		return model.Task{}, fmt.Errorf("%w: only admins may publish tasks", ErrForbidden)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Task{}, ErrEmptyContent
	}

	var created model.Task
	err := e.store.UpdateTasks(func(tasks []model.Task) ([]model.Task, error) {
		now := e.now()
		created = model.Task{
			ID:            taskid.Generate(now, tasks),
			PublisherID:   caller.ID,
			PublisherName: caller.Name,
			Content:       content,
			PublishTime:   now.Format(model.PublishTimeLayout),
			Status:        model.StatusPending,
		}
		return append(tasks, created), nil
	})
	if err != nil {
		return model.Task{}, err
	}
	e.log.Infow("task created", "task_id", created.ID, "user_id", caller.ID)
	return created, nil
}

// Claim assigns a pending task to the caller.
func (e *Engine) Claim(caller User, id string) (model.Task, error) {
	if !taskid.Valid(id) {
		return model.Task{}, fmt.Errorf("%w: %w %q", ErrNotClaimable, ErrInvalidTaskID, id)
	}

	var claimed model.Task
	err := e.store.UpdateTasks(func(tasks []model.Task) ([]model.Task, error) {
		i := find(tasks, id, model.StatusPending)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotClaimable, id)
		}
		if err := advance(&tasks[i], model.StatusAccepted); err != nil {
			return nil, err
		}
		claimantID, claimantName := caller.ID, caller.Name
		tasks[i].AcceptedByID = &claimantID
		tasks[i].AcceptedByName = &claimantName
		claimed = tasks[i]
		return tasks, nil
	})
	if err != nil {
		return model.Task{}, err
	}
	e.log.Infow("task claimed", "task_id", id, "user_id", caller.ID)
	return claimed, nil
}

// Submit hands an accepted task in for review. Only the claimant may submit.
func (e *Engine) Submit(caller User, id string) (model.Task, error) {
	if !taskid.Valid(id) {
		return model.Task{}, fmt.Errorf("%w: %w %q", ErrInvalidTask, ErrInvalidTaskID, id)
	}

	var submitted model.Task
	err := e.store.UpdateTasks(func(tasks []model.Task) ([]model.Task, error) {
		i := find(tasks, id, model.StatusAccepted)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidTask, id)
		}
		if !tasks[i].ClaimedBy(caller.ID) {
			return nil, fmt.Errorf("%w: %s", ErrNotYourTask, id)
		}
		if err := advance(&tasks[i], model.StatusPendingReview); err != nil {
			return nil, err
		}
		submitted = tasks[i]
		return tasks, nil
	})
	if err != nil {
		return model.Task{}, err
	}
	e.log.Infow("task submitted", "task_id", id, "user_id", caller.ID)
	return submitted, nil
}

// Review approves a submitted task and credits its claimant. Only admins may
// review.
func (e *Engine) Review(caller User, id string) (ReviewResult, error) {
	if !taskid.Valid(id) {
		return ReviewResult{}, fmt.Errorf("%w: %w %q", ErrInvalidTask, ErrInvalidTaskID, id)
	}
	if !e.policy.IsAdmin(caller.ID) {
		return ReviewResult{}, fmt.Errorf("%w: review requires admin rights", ErrForbidden)
	}

	var result ReviewResult
	err := e.store.UpdateBoth(func(tasks []model.Task, points []model.PointBalance) ([]model.Task, []model.PointBalance, error) {
		i := find(tasks, id, model.StatusPendingReview)
		if i < 0 {
			return nil, nil, fmt.Errorf("%w: %s", ErrInvalidTask, id)
		}
		claimantID, claimantName := tasks[i].Claimant()
		if claimantID == "" {
			return nil, nil, fmt.Errorf("%w: %s has no claimant", ErrInvalidTask, id)
		}
		if err := advance(&tasks[i], model.StatusCompleted); err != nil {
			return nil, nil, err
		}
		var total int
		points, total = ledger.Credit(points, claimantID, claimantName, e.policy.ReviewReward)
		result = ReviewResult{Task: tasks[i], Reward: e.policy.ReviewReward, TotalPoints: total}
		return tasks, points, nil
	})
	if err != nil {
		return ReviewResult{}, err
	}
	e.log.Infow("task reviewed", "task_id", id, "user_id", caller.ID, "points", result.TotalPoints)
	return result, nil
}

// find returns the index of the first task with id in status want, or -1.
func find(tasks []model.Task, id string, want model.Status) int {
	for i, t := range tasks {
		if t.ID == id && t.Status == want {
			return i
		}
	}
	return -1
}

// advance moves t to the next status if the transition table allows it.
func advance(t *model.Task, to model.Status) error {
	if !model.CanTransition(t.Status, to) {
		return fmt.Errorf("%w: %s cannot move from %s to %s", ErrInvalidTask, t.ID, t.Status, to)
	}
	t.Status = to
	return nil
}
