package handlers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"capturekit/internal/benchmark"
	"capturekit/internal/core"
	"capturekit/internal/profile"
	"capturekit/internal/sources"
	"capturekit/internal/store"
)

// NewBenchmarkCmd creates the benchmark command group
func NewBenchmarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Manage benchmark collections of top accounts and viral posts",
		Long: `Benchmark maintains named collections of accounts and posts that perform
well, and derives the patterns behind them: optimal length, peak posting
times, dominant hooks, common topics, and style consensus.`,
	}

	cmd.AddCommand(newBenchmarkAddAccountCmd())
	cmd.AddCommand(newBenchmarkAddViralCmd())
	cmd.AddCommand(newBenchmarkSummaryCmd())
	cmd.AddCommand(newBenchmarkCompareCmd())
	cmd.AddCommand(newBenchmarkListCmd())

	return cmd
}

func newBenchmarkAddAccountCmd() *cobra.Command {
	var (
		benchmarkName string
		file          string
		displayName   string
		bio           string
		followers     int
	)

	cmd := &cobra.Command{
		Use:   "add-account <username>",
		Short: "Add a tracked account from a post export",
		Long: `Add-account ingests an export of the account's posts (JSON or saved
HTML, detected by extension), analyzes them, and stores the account's
metrics, style, and top posts in the benchmark. Re-adding a username
replaces the previous entry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			posts, err := loadExport(file)
			if err != nil {
				return err
			}

			st, err := openStore()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			m := loadManager(st, benchmarkName)
			entry := m.AddAccount(args[0], displayName, bio, followers, posts)
			if err := st.SaveBenchmark(m.Data()); err != nil {
				return err
			}

			fmt.Printf("Added @%s to %q: %d posts analyzed, avg engagement %.1f\n",
				entry.Username, benchmarkName, entry.AnalyzedPosts, entry.Metrics.AvgEngagement)
			return nil
		},
	}

	cmd.Flags().StringVarP(&benchmarkName, "benchmark", "b", "default", "benchmark to add to")
	cmd.Flags().StringVarP(&file, "file", "f", "", "post export file (.json or .html)")
	cmd.Flags().StringVar(&displayName, "name", "", "display name")
	cmd.Flags().StringVar(&bio, "bio", "", "account bio")
	cmd.Flags().IntVar(&followers, "followers", 0, "follower count")
	cmd.MarkFlagRequired("file")

	return cmd
}

func newBenchmarkAddViralCmd() *cobra.Command {
	var (
		benchmarkName string
		file          string
		platformName  string
		author        string
		url           string
		notes         string
		likes         string
		retweets      string
		replies       string
	)

	cmd := &cobra.Command{
		Use:   "add-viral [text]",
		Short: "Add a single viral post to a benchmark",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args, file)
			if err != nil {
				return err
			}

			st, err := openStore()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			post := core.RawPost{
				Content:  text,
				Author:   strings.TrimPrefix(author, "@"),
				URL:      url,
				Likes:    sources.ParseMetric(likes),
				Retweets: sources.ParseMetric(retweets),
				Replies:  sources.ParseMetric(replies),
			}

			m := loadManager(st, benchmarkName)
			entry := m.AddViralPost(post, platformName, notes)
			if err := st.SaveBenchmark(m.Data()); err != nil {
				return err
			}

			fmt.Printf("Added viral post %s to %q", entry.Key, benchmarkName)
			if entry.Analysis.Hook != nil {
				fmt.Printf(" (hook: %s)", entry.Analysis.Hook.Type)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVarP(&benchmarkName, "benchmark", "b", "default", "benchmark to add to")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read post text from a file")
	cmd.Flags().StringVarP(&platformName, "platform", "p", "twitter", "platform the post is from")
	cmd.Flags().StringVar(&author, "author", "", "post author")
	cmd.Flags().StringVar(&url, "url", "", "post URL (used as identity)")
	cmd.Flags().StringVar(&notes, "notes", "", "why this post worked")
	cmd.Flags().StringVar(&likes, "likes", "", "like count (accepts 1.2K style)")
	cmd.Flags().StringVar(&retweets, "retweets", "", "retweet count")
	cmd.Flags().StringVar(&replies, "replies", "", "reply count")

	return cmd
}

func newBenchmarkSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary <name>",
		Short: "Show a benchmark's derived patterns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			data, err := st.LoadBenchmark(args[0])
			if err != nil {
				return err
			}

			printBenchmark(*data)
			return nil
		},
	}
	return cmd
}

func newBenchmarkCompareCmd() *cobra.Command {
	var (
		benchmarkName string
		user          string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare your voice profile against a benchmark",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			data, err := st.LoadBenchmark(benchmarkName)
			if err != nil {
				return err
			}
			voice, err := profile.NewService(st).Get(user)
			if err != nil {
				return err
			}

			cmp := benchmark.FromData(*data).CompareProfile(voice)

			if len(cmp.Gaps) == 0 {
				fmt.Printf("Your profile matches the %q style consensus.\n", cmp.Benchmark)
			}
			for _, gap := range cmp.Gaps {
				fmt.Printf("%s: yours is %q, benchmark is %q\n", gap.Attribute, gap.Yours, gap.Benchmark)
			}
			if len(cmp.Recommendations) > 0 {
				fmt.Println("\nRecommendations:")
				for _, r := range cmp.Recommendations {
					fmt.Printf("  - %s\n", r)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&benchmarkName, "benchmark", "b", "default", "benchmark to compare against")
	cmd.Flags().StringVarP(&user, "user", "u", "", "voice profile to compare")

	return cmd
}

func newBenchmarkListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored benchmarks",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			names, err := st.ListBenchmarks()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println("No benchmarks stored yet.")
				return nil
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}

// loadExport parses a post export file, dispatching on extension.
func loadExport(path string) ([]core.RawPost, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return sources.LoadHTML(path)
	default:
		return sources.LoadJSON(path)
	}
}

// loadManager wraps a stored benchmark, or starts an empty one when the
// name is new.
func loadManager(st *store.Store, name string) *benchmark.Manager {
	data, err := st.LoadBenchmark(name)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			fmt.Printf("Warning: could not load benchmark %q: %v\n", name, err)
		}
		return benchmark.New(name)
	}
	return benchmark.FromData(*data)
}

func printBenchmark(data core.BenchmarkData) {
	fmt.Printf("Benchmark %q: %d accounts, %d viral posts\n",
		data.Name, data.Aggregated.TotalAccounts, data.Aggregated.TotalViralPosts)

	p := data.Patterns
	if p.OptimalLength.Avg > 0 {
		fmt.Printf("Optimal length: %.0f words (median %.0f, range %d-%d)\n",
			p.OptimalLength.Avg, p.OptimalLength.Median, p.OptimalLength.Min, p.OptimalLength.Max)
	}
	if len(p.BestTiming.PeakHours) > 0 {
		hours := make([]string, len(p.BestTiming.PeakHours))
		for i, h := range p.BestTiming.PeakHours {
			hours[i] = fmt.Sprintf("%02d:00", h)
		}
		fmt.Printf("Peak hours: %s\n", strings.Join(hours, ", "))
	}
	if len(p.BestTiming.PeakDays) > 0 {
		fmt.Printf("Peak days: %s\n", strings.Join(p.BestTiming.PeakDays, ", "))
	}
	if len(p.TopTopics) > 0 {
		fmt.Printf("Top topics: %s\n", strings.Join(p.TopTopics, ", "))
	}
	if len(p.Hooks) > 0 {
		fmt.Println("Hooks:")
		for _, h := range p.Hooks {
			fmt.Printf("  %s: %d\n", h.Type, h.Count)
		}
	}
	if p.CommonStyles.Vocabulary != "" || p.CommonStyles.Tone != "" {
		fmt.Printf("Style consensus: %s vocabulary, %s tone, %s emoji\n",
			p.CommonStyles.Vocabulary, p.CommonStyles.Tone, p.CommonStyles.Emoji)
	}
	if data.Aggregated.AvgEngagementRate > 0 {
		fmt.Printf("Avg engagement rate: %.2f%%\n", data.Aggregated.AvgEngagementRate)
	}
}
