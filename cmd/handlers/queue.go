package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"capturekit/internal/core"
	"capturekit/internal/queue"
	"capturekit/internal/tui"
)

// NewQueueCmd creates the queue command group
func NewQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the reply queue",
	}

	cmd.AddCommand(newQueueListCmd())
	cmd.AddCommand(newQueueApproveCmd())
	cmd.AddCommand(newQueueRejectCmd())

	return cmd
}

func newQueueListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued replies",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			items, err := queue.NewService(st).List(core.QueueStatus(status))
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println("Queue is empty.")
				return nil
			}

			for _, item := range items {
				fmt.Printf("%s  %-8s [%s] %.1f  %s\n",
					item.ID[:8], item.Status, item.Strategy, item.Score, item.Text)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "filter by status (pending, approved, rejected, posted)")
	return cmd
}

func newQueueApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a queued reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transitionQueueItem(args[0], core.QueueApproved)
		},
	}
}

func newQueueRejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a queued reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transitionQueueItem(args[0], core.QueueRejected)
		},
	}
}

func transitionQueueItem(id string, to core.QueueStatus) error {
	st, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	q := queue.NewService(st)
	if to == core.QueueApproved {
		err = q.Approve(id)
	} else {
		err = q.Reject(id)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Marked %s %s.\n", id, to)
	return nil
}

// NewReviewCmd creates the interactive review command
func NewReviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Review pending replies interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			tui.StartReview(queue.NewService(st))
			return nil
		},
	}
}
