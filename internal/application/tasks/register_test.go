package tasks_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apptasks "github.com/andrescamacho/dispatch-go/internal/application/tasks"
	"github.com/andrescamacho/dispatch-go/internal/application/tasks/commands"
	"github.com/andrescamacho/dispatch-go/internal/application/tasks/queries"
	"github.com/andrescamacho/dispatch-go/pkg/authorization"
	"github.com/andrescamacho/dispatch-go/pkg/mediator"
	"github.com/andrescamacho/dispatch-go/pkg/middleware"
	"github.com/andrescamacho/dispatch-go/pkg/outcome"
	"github.com/andrescamacho/dispatch-go/test/helpers"
)

type fixture struct {
	mediator *mediator.Mediator
	repo     *helpers.MockTaskRepository
	cache    *middleware.Cache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := helpers.NewMockTaskRepository()
	roles, err := apptasks.NewRoleRegistry()
	require.NoError(t, err)

	cache := middleware.NewCache(time.Minute)
	m, err := apptasks.NewMediator(repo, roles, apptasks.Options{TaskCache: cache})
	require.NoError(t, err)

	return &fixture{mediator: m, repo: repo, cache: cache}
}

func asUser(id string, roles ...string) context.Context {
	if len(roles) == 0 {
		roles = []string{apptasks.RoleUser}
	}
	return authorization.WithPrincipal(context.Background(),
		authorization.Principal{ID: id, Roles: roles})
}

func (f *fixture) createTask(t *testing.T, ctx context.Context, title string) string {
	t.Helper()

	result := mediator.Send[commands.CreateTaskResponse](ctx, f.mediator,
		commands.CreateTaskCommand{OwnerID: "alice", Title: title})

	var taskID string
	result.Switch(
		func(resp commands.CreateTaskResponse) { taskID = resp.TaskID },
		func(err *outcome.ErrorInfo) { t.Fatalf("create failed: %v", err) },
	)
	return taskID
}

func TestPipeline_CreateAndGetTask(t *testing.T) {
	f := newFixture(t)
	ctx := asUser("alice")

	taskID := f.createTask(t, ctx, "Write report")

	result := mediator.Send[queries.TaskView](ctx, f.mediator,
		queries.GetTaskQuery{TaskID: taskID})

	require.True(t, result.IsSuccess())
	view := outcome.Match(result,
		func(v queries.TaskView) queries.TaskView { return v },
		func(err *outcome.ErrorInfo) queries.TaskView { return queries.TaskView{} },
	)
	assert.Equal(t, "Write report", view.Title)
	assert.Equal(t, "alice", view.OwnerID)
	assert.Equal(t, "open", view.Status)
}

func TestPipeline_AnonymousCallerIsForbidden(t *testing.T) {
	f := newFixture(t)

	result := f.mediator.Send(context.Background(),
		commands.CreateTaskCommand{OwnerID: "alice", Title: "nope"})

	require.True(t, result.IsFailure())
	assert.Equal(t, outcome.KindForbidden, result.ErrorInfo().Kind)
}

func TestPipeline_UnauthorizedCallerNeverTriggersValidation(t *testing.T) {
	f := newFixture(t)

	// Missing title would fail validation, but the anonymous caller is
	// rejected first: authorization runs before validation.
	result := f.mediator.Send(context.Background(),
		commands.CreateTaskCommand{OwnerID: "alice"})

	require.True(t, result.IsFailure())
	assert.Equal(t, outcome.KindForbidden, result.ErrorInfo().Kind)
}

func TestPipeline_ValidationFailureListsFailuresInOrder(t *testing.T) {
	f := newFixture(t)
	ctx := asUser("alice")

	result := f.mediator.Send(ctx, commands.CreateTaskCommand{OwnerID: "alice"})

	require.True(t, result.IsFailure())
	info := result.ErrorInfo()
	assert.Equal(t, outcome.KindValidationFailed, info.Kind)
	assert.Equal(t, "1", info.Metadata["failure_count"])
	assert.Contains(t, info.Metadata["failure_0"], "title is required")
}

func TestPipeline_CompleteRequiresOwnershipOrAdmin(t *testing.T) {
	f := newFixture(t)
	taskID := f.createTask(t, asUser("alice"), "Owned by alice")

	// A different plain user is denied by the ownership rule.
	denied := f.mediator.Send(asUser("mallory"),
		commands.CompleteTaskCommand{TaskID: taskID})
	require.True(t, denied.IsFailure())
	assert.Equal(t, outcome.KindForbidden, denied.ErrorInfo().Kind)

	// The owner is allowed.
	allowed := mediator.Send[commands.CompleteTaskResponse](asUser("alice"), f.mediator,
		commands.CompleteTaskCommand{TaskID: taskID})
	assert.True(t, allowed.IsSuccess())
}

func TestPipeline_AdminInheritsUserPermissions(t *testing.T) {
	f := newFixture(t)
	taskID := f.createTask(t, asUser("alice"), "Owned by alice")

	// bob holds only admin; admin inherits user and carries tasks.admin,
	// so bob can complete a task he does not own.
	result := mediator.Send[commands.CompleteTaskResponse](
		asUser("bob", apptasks.RoleAdmin), f.mediator,
		commands.CompleteTaskCommand{TaskID: taskID})

	assert.True(t, result.IsSuccess())
}

func TestPipeline_CompletingTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := asUser("alice")
	taskID := f.createTask(t, ctx, "Once only")

	first := f.mediator.Send(ctx, commands.CompleteTaskCommand{TaskID: taskID})
	require.True(t, first.IsSuccess())

	second := f.mediator.Send(ctx, commands.CompleteTaskCommand{TaskID: taskID})
	require.True(t, second.IsFailure())
	assert.Equal(t, outcome.KindConflict, second.ErrorInfo().Kind)
}

func TestPipeline_CompleteMissingTaskIsNotFound(t *testing.T) {
	f := newFixture(t)

	result := f.mediator.Send(asUser("alice"),
		commands.CompleteTaskCommand{TaskID: "no-such-task"})

	require.True(t, result.IsFailure())
	assert.Equal(t, outcome.KindNotFound, result.ErrorInfo().Kind)
}

func TestPipeline_GetTaskIsCached(t *testing.T) {
	f := newFixture(t)
	ctx := asUser("alice")
	taskID := f.createTask(t, ctx, "Cached")

	first := f.mediator.Send(ctx, queries.GetTaskQuery{TaskID: taskID})
	require.True(t, first.IsSuccess())

	// A repository outage now proves the second read never reaches it.
	f.repo.FailNext = errors.New("repository down")
	second := f.mediator.Send(ctx, queries.GetTaskQuery{TaskID: taskID})
	assert.True(t, second.IsSuccess())

	// After invalidation the outage becomes visible.
	f.repo.FailNext = errors.New("repository down")
	f.cache.Invalidate("task:" + taskID)
	third := f.mediator.Send(ctx, queries.GetTaskQuery{TaskID: taskID})
	require.True(t, third.IsFailure())
	assert.Equal(t, outcome.KindUnexpected, third.ErrorInfo().Kind)
}

func TestPipeline_ListTasksByOwner(t *testing.T) {
	f := newFixture(t)
	ctx := asUser("alice")
	f.createTask(t, ctx, "first")
	f.createTask(t, ctx, "second")

	result := mediator.Send[queries.ListTasksResponse](ctx, f.mediator,
		queries.ListTasksQuery{OwnerID: "alice"})

	require.True(t, result.IsSuccess())
	resp := outcome.Match(result,
		func(v queries.ListTasksResponse) queries.ListTasksResponse { return v },
		func(err *outcome.ErrorInfo) queries.ListTasksResponse { return queries.ListTasksResponse{} },
	)
	assert.Len(t, resp.Tasks, 2)
}

func TestPipeline_RepositoryFaultYieldsUnexpected(t *testing.T) {
	f := newFixture(t)
	ctx := asUser("alice")

	f.repo.FailNext = errors.New("disk full")
	result := f.mediator.Send(ctx,
		commands.CreateTaskCommand{OwnerID: "alice", Title: "doomed"})

	require.True(t, result.IsFailure())
	info := result.ErrorInfo()
	assert.Equal(t, outcome.KindUnexpected, info.Kind)
	// Internals stay in metadata, not the user-facing message.
	assert.NotContains(t, info.Message, "disk full")
}
