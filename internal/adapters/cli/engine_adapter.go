// Package cli provides thin CLI adapters that translate between CLI
// concerns and application services. Adapters handle output formatting
// but delegate all engine logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/quill/internal/core/markup"
	"github.com/example/quill/internal/core/tally"
	"github.com/example/quill/internal/ports/primary"
	"github.com/example/quill/internal/ports/secondary"
)

// EngineAdapter is a thin adapter that translates CLI operations to
// EngineService calls. It depends only on the service interface, enabling
// easy testing with mocks.
type EngineAdapter struct {
	service primary.EngineService
	out     io.Writer
}

// NewEngineAdapter creates a new EngineAdapter with the given service.
func NewEngineAdapter(service primary.EngineService, out io.Writer) *EngineAdapter {
	return &EngineAdapter{
		service: service,
		out:     out,
	}
}

// Status renders every configured domain's accumulated state.
func (a *EngineAdapter) Status() error {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DOMAIN\tKIND\tSTATE")
	for _, domain := range a.service.Domains() {
		state, ok := a.service.DomainState(domain)
		if !ok {
			continue
		}
		if state.Latest {
			fmt.Fprintf(w, "%s\tlatest-only\t%s\n", domain, valueOrDash(state.Scalar))
			continue
		}
		fmt.Fprintf(w, "%s\taccumulating\t%d items\n", domain, len(state.Items))
	}
	return w.Flush()
}

// RunOnce executes a single parse pass and reports what appeared.
func (a *EngineAdapter) RunOnce(ctx context.Context, sel secondary.Selector) error {
	result, err := a.service.RunParsePass(ctx, sel)
	if err != nil {
		return fmt.Errorf("parse pass failed: %w", err)
	}

	total := 0
	for _, domain := range a.service.Domains() {
		newly := result.NewlyAppeared[domain]
		for _, item := range newly {
			a.printItem(domain, item)
		}
		total += len(newly)
	}
	for _, domain := range result.ScalarsChanged {
		state, _ := a.service.DomainState(domain)
		fmt.Fprintf(a.out, "%s %s = %s\n",
			color.New(color.FgCyan).Sprintf("[%s]", domain), "now", state.Scalar)
	}

	if total == 0 && len(result.ScalarsChanged) == 0 {
		fmt.Fprintln(a.out, "Nothing new")
	}
	return nil
}

// Watch subscribes a printing hook and runs the engine loop until ctx is
// cancelled.
func (a *EngineAdapter) Watch(ctx context.Context, sel secondary.Selector) error {
	a.service.Subscribe(func(domain string, state primary.DomainState, newly []tally.Item) {
		for _, item := range newly {
			a.printItem(domain, item)
		}
		if len(newly) == 0 {
			fmt.Fprintf(a.out, "%s %s\n",
				color.New(color.FgCyan).Sprintf("[%s]", domain), state.Scalar)
		}
	})
	err := a.service.Watch(ctx, sel)
	if err == context.Canceled {
		return nil
	}
	return err
}

// Post merges a board sub-document through the write queue.
func (a *EngineAdapter) Post(ctx context.Context, incomingText string) error {
	id, err := a.service.PostBoardContent(ctx, incomingText)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Queued board write %s\n", id)
	return nil
}

func (a *EngineAdapter) printItem(domain string, item tally.Item) {
	author := item.Record.Field(markup.FieldAuthor)
	content := item.Record.Field(markup.FieldContent)
	if content == "" {
		content = item.Record.FullMatch
	}
	tag := color.New(color.FgYellow).Sprintf("[%s]", domain)
	if author != "" {
		fmt.Fprintf(a.out, "%s %s: %s\n", tag, color.New(color.FgHiMagenta).Sprint(author), content)
		return
	}
	fmt.Fprintf(a.out, "%s %s\n", tag, content)
}

func valueOrDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
