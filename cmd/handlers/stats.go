package handlers

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show store statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			stats, err := st.Stats()
			if err != nil {
				return err
			}

			fmt.Printf("Benchmarks:  %d\n", stats.BenchmarkCount)
			fmt.Printf("Profiles:    %d\n", stats.ProfileCount)
			fmt.Printf("Queue items: %d\n", stats.QueueCount)
			fmt.Printf("Store size:  %d bytes\n", stats.StoreSize)
			return nil
		},
	}
}
