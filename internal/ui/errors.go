package ui

import (
	"context"
	"fmt"
	"strings"

	"cypar/internal/domain"
	"cypar/internal/storage"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// maxStackLines limits the stack trace shown in the details pane
const maxStackLines = 10

// ErrorViewer displays test failures in an interactive TUI
type ErrorViewer struct {
	store storage.ResultStore
}

// NewErrorViewer creates a new ErrorViewer. Resolved marks are written back to store.
func NewErrorViewer(store storage.ResultStore) *ErrorViewer {
	return &ErrorViewer{store: store}
}

// View displays test failures in an interactive TUI
func (ev *ErrorViewer) View(ctx context.Context, output *domain.RunOutput) error {
	if len(output.Details) == 0 {
		color.Green("✔ No test failures found!")
		return nil
	}

	failures := output.Details

	// Create the application
	app := tview.NewApplication()

	// Create list for failed tests (left side)
	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	for i := range failures {
		list.AddItem(listItemText(failures[i], i), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	// Shows worker and full title of the selected failure
	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	// List on the left (1/3), details on the right (2/3)
	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		headerView.SetText(headerText(failures))
	}
	updateHeader()

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(failures) {
			statsView.SetText(formatFailureStats(output.Meta, failures[index]))
			detailsView.SetText(formatFailureDetails(failures[index]))
		}
	}

	var saveErr error
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp, tcell.KeyDown:
			return event
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				index := list.GetCurrentItem()
				if toggleResolved(failures, index) {
					list.SetItemText(index, listItemText(failures[index], index), "")
					updateHeader()
					updateDetails()
					saveErr = ev.store.Save(ctx, output)
				}
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return saveErr
}

// toggleResolved flips the resolved mark of failures[index]
func toggleResolved(failures []domain.TestFailure, index int) bool {
	if index < 0 || index >= len(failures) {
		return false
	}
	failures[index].Resolved = !failures[index].Resolved
	return true
}

func countUnresolved(failures []domain.TestFailure) int {
	count := 0
	for _, f := range failures {
		if !f.Resolved {
			count++
		}
	}
	return count
}

func headerText(failures []domain.TestFailure) string {
	return fmt.Sprintf(" Test Failures (%d total, %d unresolved) | Use ↑↓ to navigate, [yellow]R[white] to mark resolved, → to view details, ← to go back, Ctrl+C to exit ",
		len(failures), countUnresolved(failures))
}

func listItemText(failure domain.TestFailure, index int) string {
	title := failure.Title
	if title == "" {
		title = fmt.Sprintf("Test %d", index+1)
	}
	if failure.Resolved {
		return fmt.Sprintf("[gray]✔ [yellow]%d.[gray] %s[white]", index+1, tview.Escape(title))
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, tview.Escape(title))
}

// formatFailureDetails formats a test failure using tview color tags
func formatFailureDetails(failure domain.TestFailure) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[red]✖ Test: %s[white]\n\n", tview.Escape(failure.Title))
	if failure.FullTitle != "" {
		fmt.Fprintf(&b, "[cyan]Full title: %s[white]\n\n", tview.Escape(failure.FullTitle))
	}

	if failure.Error != "" {
		fmt.Fprintf(&b, "[yellow]Error:[white]\n%s\n\n", tview.Escape(failure.Error))
	}

	if failure.Stack != "" {
		lines := strings.Split(strings.TrimRight(failure.Stack, "\n"), "\n")
		b.WriteString("[yellow]Stack Trace:[white]\n")
		for i, line := range lines {
			if i == maxStackLines {
				fmt.Fprintf(&b, "  [gray]... and %d more lines[white]\n", len(lines)-maxStackLines)
				break
			}
			fmt.Fprintf(&b, "  %s\n", tview.Escape(strings.TrimSpace(line)))
		}
	}
	return b.String()
}

// formatFailureStats formats the stats header for a test failure
func formatFailureStats(meta domain.RunMeta, failure domain.TestFailure) string {
	run := meta.RunID
	if run == "" {
		run = "unknown run"
	}
	return fmt.Sprintf("[cyan]run:[white] [yellow]%s[white]  [cyan]worker:[white] [yellow]%d[white]  [cyan]at:[white] %s\n",
		run, failure.Worker, meta.Timestamp)
}
