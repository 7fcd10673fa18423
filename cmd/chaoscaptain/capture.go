package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chaoscaptain/chaoscaptain"
	"github.com/chaoscaptain/chaoscaptain/pkg/core"
	"github.com/chaoscaptain/chaoscaptain/pkg/flow"
	"github.com/chaoscaptain/chaoscaptain/pkg/reminder"
)

var (
	captureText  string
	captureAudio string
	captureWhy   string
	captureWhen  string
	captureTags  string
	captureSend  []string
	captureYes   bool
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a thought and walk it through the questions",
	Long: `Capture a thought by typing it or transcribing an audio file, then answer
what, why, when and tags. The finished note is archived, auto-sent to the
connected destination and optionally exported with --send.

Flags answer questions up front; with --yes unanswered questions are skipped.`,
	Example: `  chaoscaptain capture
  chaoscaptain capture --text "Call the plumber" --when tomorrow --tags home --yes
  chaoscaptain capture --audio memo.webm --send download,calendar`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signalContext()
		defer stop()
		cfg := loadConfig()
		app := openApp(ctx, cfg)

		p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		out := cmd.OutOrStdout()
		m := app.NewFlow()

		if m.State() == flow.StateOnboarding {
			if err := onboard(ctx, app, m, p, out); err != nil {
				fatal("Onboarding failed", err)
			}
		}

		text := captureText
		if captureAudio != "" {
			audio, err := os.ReadFile(captureAudio)
			if err != nil {
				fatal("Failed to read audio", err)
			}
			text, err = app.Transcribe(ctx, audio)
			if err != nil {
				fatal("Transcription failed", err)
			}
			fmt.Fprintf(out, "Heard: %s\n", text)
		}
		if strings.TrimSpace(text) == "" && !captureYes {
			text = p.ask("What's on your mind?", "")
		}
		if err := m.SubmitCapture(text); err != nil {
			fatal("Nothing to capture", err)
		}

		if err := answerSteps(cmd, m, p, out); err != nil {
			fatal("Capture failed", err)
		}

		note := m.Note()
		fmt.Fprintln(out)
		fmt.Fprintln(out, note.Markdown)
		if note.ReminderLabel != "" {
			r := reminder.Reminder{Label: note.ReminderLabel, At: note.Reminder, Someday: note.Someday}
			fmt.Fprintf(out, "Revisit: %s\n", reminder.Describe(r, time.Now()))
		}

		d := app.Deliver(ctx, note)
		if d.Archived {
			fmt.Fprintf(out, "Saved as %s\n", note.ID)
		}
		printResults(out, d.Results)

		if len(captureSend) > 0 {
			results, err := app.Send(ctx, note, captureSend...)
			if err != nil {
				fatal("Invalid --send", err)
			}
			printResults(out, results)
		}

		if err := m.Complete(); err != nil {
			fatal("Capture failed", err)
		}
		fmt.Fprintf(out, "\n%s\n", m.Celebration())
	},
}

// onboard asks for a default destination the first time the tool runs.
func onboard(ctx context.Context, app *chaoscaptain.App, m *flow.Machine, p *prompter, out io.Writer) error {
	if captureYes {
		return m.SkipOnboarding(ctx)
	}
	idx, _ := p.choose("Where should your notes go automatically?", []string{
		core.DestinationAppleNotes.Label(),
		core.DestinationNotion.Label(),
		"Skip for now",
	})
	switch idx {
	case 0:
		if p.confirm("Install the Apple Notes shortcut now?", true) {
			if err := app.InstallShortcut(ctx); err != nil {
				fmt.Fprintf(out, "Could not open the shortcut page: %v\n", err)
			}
		}
		return m.CompleteOnboarding(ctx, core.DestinationAppleNotes)
	case 1:
		creds := core.NotionCredentials{
			APIKey:     p.ask("Notion integration token", "starts with secret_ or ntn_"),
			DatabaseID: p.ask("Notion database ID", ""),
		}
		if err := app.Preferences().SetNotionCredentials(ctx, creds); err != nil {
			if errors.Is(err, core.ErrMissingCredentials) {
				fmt.Fprintln(out, "Notion needs both values; skipping for now.")
				return m.SkipOnboarding(ctx)
			}
			return err
		}
		return m.CompleteOnboarding(ctx, core.DestinationNotion)
	}
	return m.SkipOnboarding(ctx)
}

// answerSteps walks the question steps using flags first and prompts second.
func answerSteps(cmd *cobra.Command, m *flow.Machine, p *prompter, out io.Writer) error {
	for m.State() == flow.StateFlow {
		step := m.Step()
		fmt.Fprintf(out, "\n[%d%%] ", m.Progress())
		switch step {
		case flow.StepWhat:
			fmt.Fprintf(out, "%s\n  %s\n", step.Question(), m.Answers().What)
			if !captureYes {
				if edit := p.ask("Press enter to keep it or type a new version", ""); edit != "" {
					if err := m.Answer(edit); err != nil {
						return err
					}
				}
			}
		case flow.StepWhy:
			answer := captureWhy
			if !cmd.Flags().Changed("why") && !captureYes {
				answer = p.ask(step.Question(), step.Placeholder())
			}
			if err := m.Answer(answer); err != nil {
				return err
			}
		case flow.StepWhen:
			answer := captureWhen
			if !cmd.Flags().Changed("when") && !captureYes {
				labels := reminder.Labels()
				idx, other := p.choose(step.Question(), labels)
				if idx >= 0 {
					answer = labels[idx]
				} else {
					answer = other
				}
			}
			if err := m.Answer(answer); err != nil {
				return err
			}
		case flow.StepTags:
			answer := captureTags
			if !cmd.Flags().Changed("tags") && !captureYes {
				answer = p.ask(step.Question(), step.Placeholder())
			}
			if err := m.Answer(answer); err != nil {
				return err
			}
		}
		if err := m.Next(); err != nil {
			return err
		}
	}
	return nil
}

func printResults(out io.Writer, results []core.Result) {
	for _, r := range results {
		line := r.String()
		if r.Detail != "" {
			line += " -> " + r.Detail
		}
		fmt.Fprintf(out, "  %s\n", line)
	}
}

func init() {
	captureCmd.Flags().StringVarP(&captureText, "text", "t", "", "Thought to capture")
	captureCmd.Flags().StringVar(&captureAudio, "audio", "", "Audio file to transcribe instead of typing")
	captureCmd.Flags().StringVar(&captureWhy, "why", "", "Why it matters")
	captureCmd.Flags().StringVar(&captureWhen, "when", "", "When to revisit (tomorrow, next week, in 3 days, 2026-11-02 ...)")
	captureCmd.Flags().StringVar(&captureTags, "tags", "", "Comma or space separated tags")
	captureCmd.Flags().StringSliceVar(&captureSend, "send", nil, "Extra exports: clipboard, download, mail, notes, notion, calendar")
	captureCmd.Flags().BoolVarP(&captureYes, "yes", "y", false, "Do not prompt; skip unanswered questions")
	rootCmd.AddCommand(captureCmd)
}
