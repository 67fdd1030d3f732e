// Package tasks wires the task application: role hierarchy, authorization
// policies, validators, middleware order, and handler registration. This
// is the process-wide configuration the pipeline treats as immutable.
package tasks

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/dispatch-go/internal/application/tasks/commands"
	"github.com/andrescamacho/dispatch-go/internal/application/tasks/queries"
	domain "github.com/andrescamacho/dispatch-go/internal/domain/tasks"
	"github.com/andrescamacho/dispatch-go/pkg/authorization"
	"github.com/andrescamacho/dispatch-go/pkg/mediator"
	"github.com/andrescamacho/dispatch-go/pkg/middleware"
	"github.com/andrescamacho/dispatch-go/pkg/validation"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	PermTasksRead  = "tasks.read"
	PermTasksWrite = "tasks.write"
	PermTasksAdmin = "tasks.admin"

	maxTitleLength   = 140
	longNotesWarning = 1000
)

// Options carries the optional middleware collaborators.
type Options struct {
	Logger    middleware.Logger
	Metrics   *middleware.MetricsCollector
	Limiter   *rate.Limiter
	TaskCache *middleware.Cache
}

// NewRoleRegistry builds the resolved role hierarchy: admin inherits
// every user permission.
func NewRoleRegistry() (*authorization.RoleRegistry, error) {
	registry := authorization.NewRoleRegistry()
	if err := registry.RegisterRole(RoleUser, []string{PermTasksRead, PermTasksWrite}); err != nil {
		return nil, err
	}
	if err := registry.RegisterRole(RoleAdmin, []string{PermTasksAdmin}, RoleUser); err != nil {
		return nil, err
	}
	if err := registry.Resolve(); err != nil {
		return nil, err
	}
	return registry, nil
}

// NewMediator assembles the full pipeline: logging outermost, then
// metrics, authorization before validation so an unauthorized caller
// never triggers validation rules, caching innermost for queries.
func NewMediator(taskRepo domain.TaskRepository, roles *authorization.RoleRegistry, opts Options) (*mediator.Mediator, error) {
	policies, err := newPolicies(taskRepo, roles)
	if err != nil {
		return nil, fmt.Errorf("building policies: %w", err)
	}

	validators, err := newValidators()
	if err != nil {
		return nil, fmt.Errorf("building validators: %w", err)
	}

	m := mediator.NewMediator()

	if opts.Logger != nil {
		if err := m.Use(middleware.Logging(opts.Logger)); err != nil {
			return nil, err
		}
	}
	if opts.Metrics != nil {
		if err := m.Use(middleware.Metrics(opts.Metrics)); err != nil {
			return nil, err
		}
	}
	if opts.Limiter != nil {
		if err := m.Use(middleware.RateLimit(opts.Limiter)); err != nil {
			return nil, err
		}
	}
	if err := m.Use(authorization.Middleware(policies)); err != nil {
		return nil, err
	}
	if err := m.Use(validation.Middleware(validators)); err != nil {
		return nil, err
	}
	if opts.TaskCache != nil {
		if err := m.Use(middleware.Caching(opts.TaskCache, taskCacheKey)); err != nil {
			return nil, err
		}
	}

	if err := registerHandlers(m, taskRepo); err != nil {
		return nil, err
	}

	if err := m.Seal(); err != nil {
		return nil, err
	}
	return m, nil
}

func registerHandlers(m *mediator.Mediator, taskRepo domain.TaskRepository) error {
	if err := mediator.RegisterFunc(m, commands.NewCreateTaskHandler(taskRepo).Handle); err != nil {
		return err
	}
	if err := mediator.RegisterFunc(m, commands.NewCompleteTaskHandler(taskRepo).Handle); err != nil {
		return err
	}
	if err := mediator.RegisterFunc(m, queries.NewGetTaskHandler(taskRepo).Handle); err != nil {
		return err
	}
	return mediator.RegisterFunc(m, queries.NewListTasksHandler(taskRepo).Handle)
}

func newPolicies(taskRepo domain.TaskRepository, roles *authorization.RoleRegistry) (*authorization.PolicySet, error) {
	policies := authorization.NewPolicySet()

	if err := authorization.RegisterPolicy[commands.CreateTaskCommand](policies,
		authorization.RequireAuthenticated(),
		authorization.RequirePermission(roles, PermTasksWrite),
	); err != nil {
		return nil, err
	}

	if err := authorization.RegisterPolicy[commands.CompleteTaskCommand](policies,
		authorization.RequireAuthenticated(),
		ownsTaskOrAdmin(taskRepo, roles),
	); err != nil {
		return nil, err
	}

	if err := authorization.RegisterPolicy[queries.GetTaskQuery](policies,
		authorization.RequireAuthenticated(),
		authorization.RequirePermission(roles, PermTasksRead),
	); err != nil {
		return nil, err
	}

	if err := authorization.RegisterPolicy[queries.ListTasksQuery](policies,
		authorization.RequireAuthenticated(),
		authorization.RequirePermission(roles, PermTasksRead),
	); err != nil {
		return nil, err
	}

	return policies, nil
}

// ownsTaskOrAdmin is the async rule: it fetches the target task and
// allows the caller when they own it or hold tasks.admin. A missing task
// is allowed through so the handler reports not_found instead of the
// rule leaking existence through a forbidden answer.
func ownsTaskOrAdmin(taskRepo domain.TaskRepository, roles *authorization.RoleRegistry) authorization.Rule {
	return authorization.Rule{
		Message: "caller must own the task or hold tasks.admin",
		Predicate: func(ctx context.Context, request mediator.Request, principal authorization.Principal) (bool, error) {
			cmd, ok := request.(commands.CompleteTaskCommand)
			if !ok {
				return false, fmt.Errorf("ownership rule received %T", request)
			}

			if roles.HasPermission(principal.Roles, PermTasksAdmin) {
				return true, nil
			}

			task, err := taskRepo.FindByID(ctx, cmd.TaskID)
			if err != nil {
				if errors.Is(err, domain.ErrTaskNotFound) {
					return true, nil
				}
				return false, fmt.Errorf("loading task for ownership check: %w", err)
			}
			return task.IsOwnedBy(principal.ID), nil
		},
	}
}

func newValidators() (*validation.ValidatorSet, error) {
	validators := validation.NewValidatorSet()

	if err := validation.RegisterValidator[commands.CreateTaskCommand](validators,
		validation.Field("Title",
			func(cmd commands.CreateTaskCommand) bool { return cmd.Title != "" },
			"title is required", "required", validation.SeverityError),
		validation.Field("Title",
			func(cmd commands.CreateTaskCommand) bool { return len(cmd.Title) <= maxTitleLength },
			fmt.Sprintf("title must be at most %d characters", maxTitleLength),
			"max_length", validation.SeverityError),
		validation.Field("Notes",
			func(cmd commands.CreateTaskCommand) bool { return len(cmd.Notes) <= longNotesWarning },
			"notes are unusually long", "length_advisory", validation.SeverityWarning),
	); err != nil {
		return nil, err
	}

	if err := validation.RegisterValidator[commands.CompleteTaskCommand](validators,
		validation.Field("TaskID",
			func(cmd commands.CompleteTaskCommand) bool { return cmd.TaskID != "" },
			"task id is required", "required", validation.SeverityError),
	); err != nil {
		return nil, err
	}

	if err := validation.RegisterValidator[queries.GetTaskQuery](validators,
		validation.Field("TaskID",
			func(q queries.GetTaskQuery) bool { return q.TaskID != "" },
			"task id is required", "required", validation.SeverityError),
	); err != nil {
		return nil, err
	}

	return validators, nil
}

// taskCacheKey caches GetTaskQuery results only; commands always reach
// their handler.
func taskCacheKey(request mediator.Request) (string, bool) {
	if q, ok := request.(queries.GetTaskQuery); ok {
		return "task:" + q.TaskID, true
	}
	return "", false
}
