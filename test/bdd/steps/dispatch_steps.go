package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	apptasks "github.com/andrescamacho/dispatch-go/internal/application/tasks"
	"github.com/andrescamacho/dispatch-go/internal/application/tasks/commands"
	"github.com/andrescamacho/dispatch-go/internal/application/tasks/queries"
	"github.com/andrescamacho/dispatch-go/pkg/authorization"
	"github.com/andrescamacho/dispatch-go/pkg/mediator"
	"github.com/andrescamacho/dispatch-go/pkg/outcome"
	"github.com/andrescamacho/dispatch-go/test/helpers"
)

// dispatchContext holds per-scenario state
type dispatchContext struct {
	mediator   *mediator.Mediator
	repo       *helpers.MockTaskRepository
	principals map[string]authorization.Principal
	lastTaskID string
	lastResult mediator.Result
}

func (c *dispatchContext) reset() error {
	c.repo = helpers.NewMockTaskRepository()
	c.principals = make(map[string]authorization.Principal)
	c.lastTaskID = ""
	c.lastResult = mediator.Result{}

	roles, err := apptasks.NewRoleRegistry()
	if err != nil {
		return err
	}
	m, err := apptasks.NewMediator(c.repo, roles, apptasks.Options{})
	if err != nil {
		return err
	}
	c.mediator = m
	return nil
}

func (c *dispatchContext) contextFor(name string) context.Context {
	principal, ok := c.principals[name]
	if !ok {
		return context.Background()
	}
	return authorization.WithPrincipal(context.Background(), principal)
}

func (c *dispatchContext) aUserWithRole(name, role string) error {
	c.principals[name] = authorization.Principal{ID: name, Roles: []string{role}}
	return nil
}

func (c *dispatchContext) createsTaskTitled(name, title string) error {
	c.lastResult = c.mediator.Send(c.contextFor(name),
		commands.CreateTaskCommand{OwnerID: name, Title: title})
	c.lastResult.Switch(
		func(resp mediator.Response) {
			c.lastTaskID = resp.(commands.CreateTaskResponse).TaskID
		},
		func(err *outcome.ErrorInfo) {},
	)
	return nil
}

func (c *dispatchContext) hasCreatedTaskTitled(name, title string) error {
	if err := c.createsTaskTitled(name, title); err != nil {
		return err
	}
	if c.lastResult.IsFailure() {
		return fmt.Errorf("setup dispatch failed: %v", c.lastResult.ErrorInfo())
	}
	return nil
}

func (c *dispatchContext) createsTaskWithNoTitle(name string) error {
	return c.createsTaskTitled(name, "")
}

func (c *dispatchContext) anonymousCreatesTaskWithNoTitle() error {
	c.lastResult = c.mediator.Send(context.Background(),
		commands.CreateTaskCommand{OwnerID: "anonymous"})
	return nil
}

func (c *dispatchContext) userWithRoleCompletesThatTask(name, role string) error {
	if err := c.aUserWithRole(name, role); err != nil {
		return err
	}
	c.lastResult = c.mediator.Send(c.contextFor(name),
		commands.CompleteTaskCommand{TaskID: c.lastTaskID})
	return nil
}

func (c *dispatchContext) completesTask(name, taskID string) error {
	c.lastResult = c.mediator.Send(c.contextFor(name),
		commands.CompleteTaskCommand{TaskID: taskID})
	return nil
}

func (c *dispatchContext) dispatchSucceeds() error {
	if c.lastResult.IsFailure() {
		return fmt.Errorf("expected success, got failure: %v", c.lastResult.ErrorInfo())
	}
	return nil
}

func (c *dispatchContext) dispatchFailsWithKind(kind string) error {
	if c.lastResult.IsSuccess() {
		return fmt.Errorf("expected failure with kind %q, got success", kind)
	}
	if got := string(c.lastResult.ErrorInfo().Kind); got != kind {
		return fmt.Errorf("expected failure kind %q, got %q", kind, got)
	}
	return nil
}

func (c *dispatchContext) failureLists(message string) error {
	if c.lastResult.IsSuccess() {
		return fmt.Errorf("expected a failure")
	}
	for _, value := range c.lastResult.ErrorInfo().Metadata {
		if strings.Contains(value, message) {
			return nil
		}
	}
	return fmt.Errorf("failure metadata does not mention %q", message)
}

func (c *dispatchContext) taskCanBeFetchedBy(name string) error {
	result := c.mediator.Send(c.contextFor(name),
		queries.GetTaskQuery{TaskID: c.lastTaskID})
	if result.IsFailure() {
		return fmt.Errorf("fetch failed: %v", result.ErrorInfo())
	}
	return nil
}

// InitializeDispatchScenario registers the dispatch pipeline step definitions
func InitializeDispatchScenario(sc *godog.ScenarioContext) {
	c := &dispatchContext{}

	sc.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		return ctx, c.reset()
	})

	sc.Step(`^a user "([^"]*)" with role "([^"]*)"$`, c.aUserWithRole)
	sc.Step(`^"([^"]*)" creates a task titled "([^"]*)"$`, c.createsTaskTitled)
	sc.Step(`^"([^"]*)" has created a task titled "([^"]*)"$`, c.hasCreatedTaskTitled)
	sc.Step(`^"([^"]*)" creates a task with no title$`, c.createsTaskWithNoTitle)
	sc.Step(`^an anonymous caller creates a task with no title$`, c.anonymousCreatesTaskWithNoTitle)
	sc.Step(`^user "([^"]*)" with role "([^"]*)" completes that task$`, c.userWithRoleCompletesThatTask)
	sc.Step(`^"([^"]*)" completes the task "([^"]*)"$`, c.completesTask)
	sc.Step(`^the dispatch succeeds$`, c.dispatchSucceeds)
	sc.Step(`^the dispatch fails with kind "([^"]*)"$`, c.dispatchFailsWithKind)
	sc.Step(`^the failure lists "([^"]*)"$`, c.failureLists)
	sc.Step(`^the task can be fetched by "([^"]*)"$`, c.taskCanBeFetchedBy)
}
