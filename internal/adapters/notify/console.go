package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/alejandrodnm/resolverbot/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout.
// Con table=true imprime además la tabla de resoluciones y fallos.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// NotifyRun imprime el resumen de una ejecución.
func (c *Console) NotifyRun(_ context.Context, r domain.RunReport) error {
	c.printCompact(r)
	if c.table && (len(r.Resolutions) > 0 || len(r.Failures) > 0) {
		c.printTable(r)
	}
	if len(r.FeedErrors) > 0 {
		c.printFeedErrors(r.FeedErrors)
	}
	return nil
}

// printCompact imprime los contadores en una línea.
func (c *Console) printCompact(r domain.RunReport) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] overdue:%d zero-pool:%d unparseable:%d no-result:%d resolved:%d failed:%d",
		r.StartedAt.Format("15:04:05"),
		r.OverdueTotal, r.SkippedZeroPool, r.Unparseable, r.NoResultFound, r.Resolved, r.Failed)
	if len(r.Ambiguous) > 0 {
		fmt.Fprintf(&sb, " ambiguous:%d", len(r.Ambiguous))
	}
	if len(r.Draws) > 0 {
		fmt.Fprintf(&sb, " draws:%d", len(r.Draws))
	}
	if r.DryRun {
		sb.WriteString(" (dry run)")
	}
	fmt.Fprintf(&sb, " in %s", r.Duration.Round(time.Millisecond))
	fmt.Fprintln(c.out, sb.String())
}

// printTable imprime una fila por mercado resuelto o rechazado.
func (c *Console) printTable(r domain.RunReport) {
	ambiguous := make(map[string]bool, len(r.Ambiguous))
	for _, id := range r.Ambiguous {
		ambiguous[id] = true
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Market", "Outcome", "Match", "Status")

	i := 0
	for _, res := range r.Resolutions {
		i++
		match := res.Match.String()
		if ambiguous[res.MarketID] {
			match += " (audit)"
		}
		table.Append(fmt.Sprintf("%d", i), truncate(res.MarketID, 48), res.Outcome.String(), match, "resolved")
	}
	for _, f := range r.Failures {
		i++
		table.Append(fmt.Sprintf("%d", i), truncate(f.MarketID, 48), f.Outcome.String(), "-", "failed: "+truncate(f.Reason, 40))
	}

	table.Render()
}

func (c *Console) printFeedErrors(errs map[string]string) {
	names := make([]string, 0, len(errs))
	for n := range errs {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(c.out, "  feed %s failed: %s\n", n, errs[n])
	}
}

// PrintHistory imprime las últimas ejecuciones guardadas.
func (c *Console) PrintHistory(runs []domain.RunReport) {
	if len(runs) == 0 {
		fmt.Fprintln(c.out, "no runs recorded")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Started", "Run", "Overdue", "Zero", "Unparseable", "No result", "Resolved", "Failed", "Feed errs")
	for _, r := range runs {
		started := r.StartedAt.Local().Format("2006-01-02 15:04:05")
		if r.DryRun {
			started += " (dry)"
		}
		table.Append(
			started,
			truncate(r.RunID, 8),
			fmt.Sprintf("%d", r.OverdueTotal),
			fmt.Sprintf("%d", r.SkippedZeroPool),
			fmt.Sprintf("%d", r.Unparseable),
			fmt.Sprintf("%d", r.NoResultFound),
			fmt.Sprintf("%d", r.Resolved),
			fmt.Sprintf("%d", r.Failed),
			fmt.Sprintf("%d", len(r.FeedErrors)),
		)
	}
	table.Render()
}

// truncate corta s a maxLen caracteres añadiendo "...".
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen || maxLen <= 3 {
		return s
	}
	return s[:maxLen-3] + "..."
}
