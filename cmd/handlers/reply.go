package handlers

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"capturekit/internal/benchmark"
	"capturekit/internal/config"
	"capturekit/internal/core"
	"capturekit/internal/generator"
	"capturekit/internal/llm"
	"capturekit/internal/logger"
	"capturekit/internal/profile"
	"capturekit/internal/queue"
	"capturekit/internal/store"
)

// NewReplyCmd creates the reply command
func NewReplyCmd() *cobra.Command {
	var (
		platformName  string
		file          string
		num           int
		strategyName  string
		benchmarkName string
		user          string
		sourceURL     string
		useLLM        bool
		toQueue       bool
	)

	cmd := &cobra.Command{
		Use:   "reply [text]",
		Short: "Draft reply candidates for a post",
		Long: `Reply drafts ranked reply candidates for a source post. Candidates are
generated in your stored voice, calibrated to the benchmark's optimal
length, and scored for voice match and engagement potential.

With --llm the Gemini model drafts the text; template generation is the
fallback whenever the model is unavailable.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args, file)
			if err != nil {
				return err
			}

			gen := config.GetGeneration()
			if num <= 0 {
				num = gen.DefaultCount
			}
			if benchmarkName == "" {
				benchmarkName = gen.DefaultBenchmark
			}
			if user == "" {
				user = gen.DefaultUser
			}

			st, err := openStore()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			voice, err := profile.NewService(st).Get(user)
			if err != nil {
				return err
			}
			patterns := loadPatterns(st, benchmarkName)

			g := generator.New(voice, patterns)
			if useLLM {
				client, err := llm.NewClient(cmd.Context(), config.GetAI().Model)
				if err != nil {
					logger.Warn("LLM unavailable, using template generation", "error", err.Error())
				} else {
					defer client.Close()
					g.SetDrafter(client)
				}
			}

			post := core.RawPost{Content: text, URL: sourceURL}
			candidates := g.DraftReplies(cmd.Context(), post, platformName, num, core.Strategy(strategyName))

			for i, c := range candidates {
				fmt.Printf("%d. [%s] %.1f (voice %.0f · engagement %.0f · length %.0f)\n",
					i+1, c.Strategy, c.CombinedScore, c.VoiceScore, c.EngagementScore, c.LengthScore)
				fmt.Printf("   %s\n\n", c.Text)
			}

			if toQueue || config.GetQueue().AutoQueue {
				q := queue.NewService(st)
				for _, c := range candidates {
					if _, err := q.Add(c, user, platformName, sourceURL); err != nil {
						return fmt.Errorf("failed to queue reply: %w", err)
					}
				}
				fmt.Printf("Queued %d replies for review.\n", len(candidates))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&platformName, "platform", "p", "twitter", "target platform")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read post text from a file")
	cmd.Flags().IntVarP(&num, "num", "n", 0, "number of candidates (default from config)")
	cmd.Flags().StringVarP(&strategyName, "strategy", "s", "", "force one strategy (agree, insight, question, nuance, answer)")
	cmd.Flags().StringVarP(&benchmarkName, "benchmark", "b", "", "benchmark to calibrate against")
	cmd.Flags().StringVarP(&user, "user", "u", "", "voice profile to write in")
	cmd.Flags().StringVar(&sourceURL, "source-url", "", "URL of the post being replied to")
	cmd.Flags().BoolVar(&useLLM, "llm", false, "draft with the configured Gemini model")
	cmd.Flags().BoolVarP(&toQueue, "queue", "q", false, "queue the candidates for review")

	return cmd
}

// loadPatterns returns the stored benchmark's patterns, or empty patterns
// when the benchmark does not exist yet. Drafting works either way.
func loadPatterns(st *store.Store, name string) core.Patterns {
	data, err := st.LoadBenchmark(name)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Warn("failed to load benchmark, drafting without patterns", "benchmark", name, "error", err.Error())
		}
		return core.Patterns{}
	}
	return benchmark.FromData(*data).Patterns()
}
