package handlers

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"capturekit/internal/profile"
)

// NewProfileCmd creates the profile command group
func NewProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage voice profiles used for reply generation",
	}

	cmd.AddCommand(newProfileShowCmd())
	cmd.AddCommand(newProfileSetCmd())

	return cmd
}

func newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <username>",
		Short: "Show a stored voice profile (defaults if none stored)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			p, err := profile.NewService(st).Get(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Profile for @%s\n", args[0])
			fmt.Printf("  tone:           %s\n", p.Tone)
			fmt.Printf("  formality:      %s\n", p.Formality)
			fmt.Printf("  vocabulary:     %s\n", p.Vocabulary)
			fmt.Printf("  emoji style:    %s\n", p.EmojiStyle)
			fmt.Printf("  sentence style: %s\n", p.SentenceStyle)
			if len(p.SignaturePhrases) > 0 {
				fmt.Printf("  signatures:     %s\n", strings.Join(p.SignaturePhrases, "; "))
			}
			if len(p.AvoidedPhrases) > 0 {
				fmt.Printf("  avoided:        %s\n", strings.Join(p.AvoidedPhrases, "; "))
			}
			return nil
		},
	}
}

func newProfileSetCmd() *cobra.Command {
	var (
		tone       string
		formality  string
		vocabulary string
		emoji      string
		sentences  string
		signatures []string
		avoided    []string
	)

	cmd := &cobra.Command{
		Use:   "set <username>",
		Short: "Create or update a voice profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			svc := profile.NewService(st)
			p, err := svc.Get(args[0])
			if err != nil {
				return err
			}
			p.Username = args[0]

			if tone != "" {
				p.Tone = tone
			}
			if formality != "" {
				p.Formality = formality
			}
			if vocabulary != "" {
				p.Vocabulary = vocabulary
			}
			if emoji != "" {
				p.EmojiStyle = emoji
			}
			if sentences != "" {
				p.SentenceStyle = sentences
			}
			if len(signatures) > 0 {
				p.SignaturePhrases = signatures
			}
			if len(avoided) > 0 {
				p.AvoidedPhrases = avoided
			}

			if err := svc.Save(p); err != nil {
				return err
			}
			fmt.Printf("Saved profile for @%s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&tone, "tone", "", "tone (professional, casual)")
	cmd.Flags().StringVar(&formality, "formality", "", "formality (formal, balanced, casual)")
	cmd.Flags().StringVar(&vocabulary, "vocabulary", "", "vocabulary (simple, professional)")
	cmd.Flags().StringVar(&emoji, "emoji", "", "emoji style (none, minimal, light)")
	cmd.Flags().StringVar(&sentences, "sentences", "", "sentence style (concise, flowing)")
	cmd.Flags().StringSliceVar(&signatures, "signature", nil, "signature phrases (repeatable)")
	cmd.Flags().StringSliceVar(&avoided, "avoid", nil, "phrases to avoid (repeatable)")

	return cmd
}
