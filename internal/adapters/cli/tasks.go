package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/dispatch-go/internal/application/tasks/commands"
	"github.com/andrescamacho/dispatch-go/internal/application/tasks/queries"
	"github.com/andrescamacho/dispatch-go/internal/infrastructure/database"
	"github.com/andrescamacho/dispatch-go/pkg/mediator"
)

// NewCreateCommand creates the "tasks create" command
func NewCreateCommand(factory RuntimeFactory) *cobra.Command {
	var title, notes string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new task",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := factory()
			if err != nil {
				return err
			}
			defer database.Close(rt.DB)

			result := mediator.Send[commands.CreateTaskResponse](
				requestContext(), rt.Mediator,
				commands.CreateTaskCommand{OwnerID: actorID, Title: title, Notes: notes})

			render(result, func(resp commands.CreateTaskResponse) {
				fmt.Printf("created task %s\n", resp.TaskID)
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&notes, "notes", "", "Task notes")

	return cmd
}

// NewCompleteCommand creates the "tasks complete" command
func NewCompleteCommand(factory RuntimeFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <task-id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := factory()
			if err != nil {
				return err
			}
			defer database.Close(rt.DB)

			result := mediator.Send[commands.CompleteTaskResponse](
				requestContext(), rt.Mediator,
				commands.CompleteTaskCommand{TaskID: args[0]})

			render(result, func(resp commands.CompleteTaskResponse) {
				fmt.Printf("completed task %s at %s\n",
					resp.TaskID, resp.CompletedAt.Format("2006-01-02 15:04:05"))
			})
			return nil
		},
	}
}

// NewGetCommand creates the "tasks get" command
func NewGetCommand(factory RuntimeFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "get <task-id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := factory()
			if err != nil {
				return err
			}
			defer database.Close(rt.DB)

			result := mediator.Send[queries.TaskView](
				requestContext(), rt.Mediator,
				queries.GetTaskQuery{TaskID: args[0]})

			render(result, printTask)
			return nil
		},
	}
}

// NewListCommand creates the "tasks list" command
func NewListCommand(factory RuntimeFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the acting principal's tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := factory()
			if err != nil {
				return err
			}
			defer database.Close(rt.DB)

			result := mediator.Send[queries.ListTasksResponse](
				requestContext(), rt.Mediator,
				queries.ListTasksQuery{OwnerID: actorID})

			render(result, func(resp queries.ListTasksResponse) {
				if len(resp.Tasks) == 0 {
					fmt.Println("no tasks")
					return
				}
				for _, task := range resp.Tasks {
					printTask(task)
				}
			})
			return nil
		},
	}
}

func printTask(task queries.TaskView) {
	fmt.Printf("%s  [%s]  %s\n", task.ID, task.Status, task.Title)
	if verbose && task.Notes != "" {
		fmt.Printf("    %s\n", task.Notes)
	}
}
