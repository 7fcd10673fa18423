// Package chaoscaptain is the composition root for Chaos Captain, a note
// capture tool: type or dictate a thought, answer a few questions and send the
// result to Apple Notes, Notion, mail, the clipboard, a file or a calendar.
//
// It wires the domain packages to their adapters:
//
//   - pkg/flow: the capture flow state machine (onboarding, capture, guided
//     questions, output, celebration).
//   - pkg/render and pkg/reminder: the note body, the calendar event and the
//     reminder date.
//   - pkg/export: the export dispatcher and its actions.
//   - pkg/prefs: the connected destination and Notion credentials.
//   - pkg/adapters: filesystem archive, SQLite record, desktop shell.
//   - pkg/relay: the relay server and its client.
//
// Usage:
//
//	app, err := chaoscaptain.New(ctx, "~/ChaosCaptain",
//		chaoscaptain.WithRelayURL("http://localhost:8787"),
//		chaoscaptain.WithLogger(logger),
//	)
//
//	m := app.NewFlow()
//	_ = m.SubmitCapture("Buy milk")
//	// ... answer, Next() through the questions ...
//	delivery := app.Deliver(ctx, m.Note())
package chaoscaptain
