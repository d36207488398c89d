package handlers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"capturekit/internal/analyzer"
	"capturekit/internal/core"
)

// NewAnalyzeCmd creates the analyze command
func NewAnalyzeCmd() *cobra.Command {
	var (
		platformName string
		file         string
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Analyze a post's hooks, triggers, and platform fit",
		Long: `Analyze inspects a single post and reports the signals that drive its
performance: the opening hook, emotional triggers, specificity, structural
framework, authority signals, and how well it fits the platform's rules.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args, file)
			if err != nil {
				return err
			}

			bundle := analyzer.New().Analyze(text, platformName)

			if asJSON {
				out, err := json.MarshalIndent(bundle, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode analysis: %w", err)
				}
				fmt.Println(string(out))
				return nil
			}

			printBundle(bundle)
			return nil
		},
	}

	cmd.Flags().StringVarP(&platformName, "platform", "p", "twitter", "platform to check fit against")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read post text from a file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the full analysis as JSON")

	return cmd
}

func printBundle(b core.SignalBundle) {
	fmt.Printf("Words: %d  Chars: %d  Sentences: %d\n", b.WordCount, b.CharCount, b.SentenceCount)
	fmt.Printf("Framework: %s\n", b.Framework)

	if b.Hook != nil {
		fmt.Printf("Hook: %s (strength %.2f)\n  %q\n", b.Hook.Type, b.Hook.Strength, b.Hook.Text)
	} else {
		fmt.Println("Hook: none detected")
	}

	if len(b.Triggers) > 0 {
		names := make([]string, len(b.Triggers))
		for i, t := range b.Triggers {
			names[i] = string(t)
		}
		fmt.Printf("Triggers: %s (strength %.2f)\n", strings.Join(names, ", "), b.TriggerStrength)
	}
	fmt.Printf("Specificity: %s\n", b.Specificity)

	if len(b.AuthoritySignals) > 0 {
		fmt.Printf("Authority signals: %s\n", strings.Join(b.AuthoritySignals, ", "))
	}

	fmt.Printf("Platform fit: %.0f/100\n", b.PlatformFit.Score)
	for _, issue := range b.PlatformFit.Issues {
		fmt.Printf("  - %s\n", issue)
	}

	if len(b.Strengths) > 0 {
		fmt.Println("Strengths:")
		for _, s := range b.Strengths {
			fmt.Printf("  + %s\n", s)
		}
	}
	if len(b.Weaknesses) > 0 {
		fmt.Println("Weaknesses:")
		for _, w := range b.Weaknesses {
			fmt.Printf("  - %s\n", w)
		}
	}
}
