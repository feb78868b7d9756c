package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/taskboard/internal/ledger"
	"github.com/Tiliavir/taskboard/internal/lifecycle"
	"github.com/Tiliavir/taskboard/internal/logger"
	"github.com/Tiliavir/taskboard/internal/model"
	"github.com/Tiliavir/taskboard/internal/storage"
	"github.com/Tiliavir/taskboard/internal/taskid"
	"github.com/Tiliavir/taskboard/internal/views"
)

// Command names accepted by Handle.
const (
	CmdCreate      = "create-task"
	CmdClaim       = "claim-task"
	CmdSubmit      = "submit-task"
	CmdReview      = "review-task"
	CmdMyTasks     = "list-my-tasks"
	CmdAllTasks    = "list-all-tasks"
	CmdMyPoints    = "my-points"
	CmdLeaderboard = "leaderboard"
	CmdHelp        = "help"
)

// UnknownUserName is shown for callers without a display name.
const UnknownUserName = "Unknown user"

// Caller identifies who sent a command.
type Caller struct {
	ID   string
	Name string
}

// Invocation is one command sent by the host.
type Invocation struct {
	Command string
	Caller  Caller
	// Args is the free text after the command: task content or a task id.
	Args string
}

// Reply is the single text answer to an invocation.
type Reply struct {
	Text string
	OK   bool
}

// Config is the dispatcher's static configuration.
type Config struct {
	Policy          lifecycle.Policy
	LeaderboardSize int
}

// Dispatcher routes invocations to the lifecycle engine and the query views
// and renders their results as text.
type Dispatcher struct {
	engine  *lifecycle.Engine
	ledger  *ledger.Ledger
	views   *views.Service
	store   *storage.Store
	log     *logger.Logger
	metrics *Metrics

	leaderboardSize int
	now             func() time.Time
}

// New wires a Dispatcher over store. metrics may be nil.
func New(store *storage.Store, cfg Config, log *logger.Logger, metrics *Metrics) *Dispatcher {
	size := cfg.LeaderboardSize
	if size <= 0 {
		size = ledger.DefaultLeaderboardSize
	}
	return &Dispatcher{
		engine:          lifecycle.New(cfg.Policy, store, log),
		ledger:          ledger.New(store),
		views:           views.NewService(store),
		store:           store,
		log:             log.WithComponent("bot"),
		metrics:         metrics,
		leaderboardSize: size,
		now:             time.Now,
	}
}

// SetClock replaces the time source used for new task ids and publish times.
func (d *Dispatcher) SetClock(now func() time.Time) {
	d.now = now
	d.engine.SetClock(now)
}

// Handle runs one command and always returns a reply; failures are rendered
// as text, never returned or panicked to the host.
func (d *Dispatcher) Handle(ctx context.Context, inv Invocation) (reply Reply) {
	command := strings.ToLower(strings.TrimSpace(inv.Command))
	caller := lifecycle.User{ID: inv.Caller.ID, Name: strings.TrimSpace(inv.Caller.Name)}
	if caller.Name == "" {
		caller.Name = UnknownUserName
	}
	args := strings.TrimSpace(inv.Args)

	log := d.log.WithRequestID(uuid.NewString()).WithUserID(caller.ID).WithFields("command", command)
	start := time.Now()
	label := command
	if !known(command) {
		label = "unknown"
	}

	defer func() {
		if r := recover(); r != nil {
			log.Errorw("command panicked", "panic", r)
			reply = failure("❌ Internal error, please try again later")
			d.metrics.observe(label, OutcomeError, time.Since(start))
		}
	}()

	if err := ctx.Err(); err != nil {
		log.Warnw("command cancelled", "error", err)
		d.metrics.observe(label, OutcomeError, time.Since(start))
		return failure("❌ Request cancelled")
	}

	var err error
	switch command {
	case CmdCreate:
		reply, err = d.create(caller, args)
	case CmdClaim:
		reply, err = d.claim(caller, args)
	case CmdSubmit:
		reply, err = d.submit(caller, args)
	case CmdReview:
		reply, err = d.review(caller, args)
	case CmdMyTasks:
		reply, err = d.myTasks(caller)
	case CmdAllTasks:
		reply, err = d.allTasks()
	case CmdMyPoints:
		reply, err = d.myPoints(caller)
	case CmdLeaderboard:
		reply, err = d.leaderboard()
	case CmdHelp:
		reply = success(d.help())
	default:
		reply = failure(fmt.Sprintf("❓ Unknown command %q. Send %q for usage.", inv.Command, CmdHelp))
	}

	outcome := OutcomeOK
	switch {
	case err != nil && isRejection(err):
		outcome = OutcomeRejected
		reply = failure(rejectionText(command, err))
		log.Infow("command rejected", "reason", err.Error())
	case err != nil:
		outcome = OutcomeError
		reply = failure(errorText(err))
		log.WithError(err).Errorw("command failed")
	case !reply.OK:
		outcome = OutcomeRejected
	default:
		log.Debugw("command handled")
	}
	d.metrics.observe(label, outcome, time.Since(start))
	return reply
}

func (d *Dispatcher) create(caller lifecycle.User, content string) (Reply, error) {
	task, err := d.engine.Create(caller, content)
	if err != nil {
		return Reply{}, err
	}
	return success(fmt.Sprintf("📌 New task created\nID: %s\nContent: %s", task.ID, task.Content)), nil
}

func (d *Dispatcher) claim(caller lifecycle.User, id string) (Reply, error) {
	task, err := d.engine.Claim(caller, id)
	if err != nil {
		return Reply{}, err
	}
	return success(fmt.Sprintf("✅ Task %s claimed", task.ID)), nil
}

func (d *Dispatcher) submit(caller lifecycle.User, id string) (Reply, error) {
	task, err := d.engine.Submit(caller, id)
	if err != nil {
		return Reply{}, err
	}
	lines := []string{
		"📢 Task submitted for review",
		"Task ID: " + task.ID,
		"Completed by: " + caller.Name,
	}
	if admins := d.engine.Policy().Admins; len(admins) > 0 {
		lines = append(lines, mentions(admins)+" please review")
	}
	return success(strings.Join(lines, "\n")), nil
}

func (d *Dispatcher) review(caller lifecycle.User, id string) (Reply, error) {
	res, err := d.engine.Review(caller, id)
	if err != nil {
		return Reply{}, err
	}
	_, claimantName := res.Task.Claimant()
	return success(fmt.Sprintf(
		"🎉 Task approved\nTask ID: %s\n@%s your task has been completed\n@%s earned %d points (total: %d)",
		res.Task.ID, res.Task.PublisherName, claimantName, res.Reward, res.TotalPoints,
	)), nil
}

func (d *Dispatcher) myTasks(caller lifecycle.User) (Reply, error) {
	rows, err := d.views.Mine(caller.ID)
	if err != nil {
		return Reply{}, err
	}
	if len(rows) == 0 {
		return success("📭 No related tasks found"), nil
	}
	lines := []string{"📋 My tasks"}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s - %s\nID: %s\nContent: %s\n————————————",
			roleLabel(r.Role), views.StatusLabel(r.Task.Status), r.Task.ID, r.Task.Content))
	}
	return success(strings.Join(lines, "\n")), nil
}

func (d *Dispatcher) allTasks() (Reply, error) {
	groups, total, err := d.views.All()
	if err != nil {
		return Reply{}, err
	}
	if total == 0 {
		return success("📭 There are no tasks yet"), nil
	}
	lines := []string{"📜 All tasks"}
	for _, g := range groups {
		if len(g.Tasks) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("\n%s (%d)", groupHeading(g.Status), len(g.Tasks)))
		for _, t := range g.Tasks {
			lines = append(lines, "▫️ "+taskItem(t))
		}
	}
	return success(strings.Join(lines, "\n")), nil
}

func (d *Dispatcher) myPoints(caller lifecycle.User) (Reply, error) {
	pts, err := d.ledger.Points(caller.ID)
	if err != nil {
		return Reply{}, err
	}
	return success(fmt.Sprintf("🏅 Current points: %d", pts)), nil
}

func (d *Dispatcher) leaderboard() (Reply, error) {
	top, err := d.ledger.Top(d.leaderboardSize)
	if err != nil {
		return Reply{}, err
	}
	if len(top) == 0 {
		return success("📊 The leaderboard is empty"), nil
	}
	lines := []string{fmt.Sprintf("🏆 Points leaderboard TOP%d:", d.leaderboardSize)}
	for i, b := range top {
		lines = append(lines, fmt.Sprintf("%d. %s - %d pts", i+1, b.DisplayName(), b.Points))
	}
	return success(strings.Join(lines, "\n")), nil
}

// help renders usage text with the id the next published task would get.
func (d *Dispatcher) help() string {
	now := d.now()
	example := taskid.Example(now)
	if tasks, err := d.store.LoadTasks(); err == nil {
		example = taskid.Generate(now, tasks)
	}
	return strings.Join([]string{
		"📖 Task board commands",
		CmdCreate + " <content>      publish a new task",
		CmdClaim + " <task id>        claim an open task",
		CmdSubmit + " <task id>       hand in a task you claimed",
		CmdReview + " <task id>       approve a submitted task (admins)",
		CmdMyTasks + "               tasks you published or claimed",
		CmdAllTasks + "              every task, grouped by status",
		CmdMyPoints + "                   your points",
		CmdLeaderboard + "                 top point earners",
		"",
		"Task ids look like " + example + " (month, day, sequence).",
	}, "\n")
}

func known(command string) bool {
	switch command {
	case CmdCreate, CmdClaim, CmdSubmit, CmdReview, CmdMyTasks,
		CmdAllTasks, CmdMyPoints, CmdLeaderboard, CmdHelp:
		return true
	}
	return false
}

// isRejection reports whether err is a domain failure rather than an
// infrastructure one.
func isRejection(err error) bool {
	for _, target := range []error{
		lifecycle.ErrForbidden,
		lifecycle.ErrInvalidTaskID,
		lifecycle.ErrNotClaimable,
		lifecycle.ErrInvalidTask,
		lifecycle.ErrNotYourTask,
		lifecycle.ErrEmptyContent,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func rejectionText(command string, err error) string {
	switch {
	case errors.Is(err, lifecycle.ErrForbidden) && command == CmdCreate:
		return "❌ Only admins can publish tasks"
	case errors.Is(err, lifecycle.ErrForbidden):
		return "⛔ Admin rights required"
	case errors.Is(err, lifecycle.ErrEmptyContent):
		return "❌ Task content must not be empty"
	case errors.Is(err, lifecycle.ErrNotClaimable):
		return "❌ Task cannot be claimed"
	case errors.Is(err, lifecycle.ErrNotYourTask):
		return "❌ This is not your task"
	}
	return "❌ Invalid task ID"
}

func errorText(err error) string {
	if errors.Is(err, storage.ErrCorruptStore) {
		return "❌ Task data is unreadable, please contact an admin"
	}
	return "❌ Storage error, please try again later"
}

func success(text string) Reply { return Reply{Text: text, OK: true} }

func failure(text string) Reply { return Reply{Text: text, OK: false} }

func mentions(ids []string) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = "@" + id
	}
	return strings.Join(out, " ")
}

func roleLabel(r views.Role) string {
	if r == views.RoleClaimed {
		return "Claimed"
	}
	return "Published"
}

func groupHeading(s model.Status) string {
	switch s {
	case model.StatusPending:
		return "🟢 Open tasks (unclaimed)"
	case model.StatusAccepted:
		return "🟡 In progress (claimed, not done)"
	case model.StatusPendingReview:
		return "🟠 Awaiting review"
	case model.StatusCompleted:
		return "🔴 Completed (approved)"
	}
	return string(s)
}

func taskItem(t model.Task) string {
	publisher := t.PublisherName
	if publisher == "" {
		publisher = "Unknown publisher"
	}
	item := fmt.Sprintf("ID: %s\nContent: %s\nPublisher: %s\nStatus: %s",
		t.ID, views.Preview(t.Content), publisher, views.StatusLabel(t.Status))
	if _, name := t.Claimant(); name != "" {
		item += "\nAssignee: " + name
	}
	return item
}
