package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"timeclock/internal/model"
	"timeclock/internal/service"
	"timeclock/internal/store"
	"timeclock/internal/timesheet"
)

func summaryCmd() *cobra.Command {
	var email, from, to string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print a user's hours for a date range",
		Long: `Prints one line per recorded day followed by the range totals.
Without --from/--to the current week (Monday to Sunday) is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := openStore()
			if err != nil {
				return err
			}
			svc := service.NewTimesheetService(st.Timesheets, timesheet.SystemClock{Location: cfg.Location()}, cfg.Schedule())
			return printSummary(cmd.Context(), cmd.OutOrStdout(), st, svc, email, from, to)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user email (required)")
	cmd.Flags().StringVar(&from, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last date, YYYY-MM-DD")
	cmd.MarkFlagRequired("email")
	return cmd
}

func printSummary(ctx context.Context, w io.Writer, st *store.Store, svc *service.TimesheetService, email, from, to string) error {
	u, err := st.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return fmt.Errorf("user %s: %w", email, err)
	}
	start, end, err := parseRange(svc.Now(), from, to)
	if err != nil {
		return err
	}
	rv, err := svc.Range(ctx, u, start, end)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	fmt.Fprintf(w, "%s <%s> %s\n", bold.Sprint(u.Name), u.Email, color.New(color.FgCyan).Sprintf("[%s]", u.Category))
	fmt.Fprintf(w, "%s .. %s\n\n", rv.Start, rv.End)
	if len(rv.Days) == 0 {
		fmt.Fprintln(w, "  (no records)")
	}
	for _, d := range rv.Days {
		ts := d.Timesheet
		line := fmt.Sprintf("  %s  %s  %s  %s  %s  %5.2fh",
			d.Date, clockText(ts.EntryTime), clockText(ts.LunchStart), clockText(ts.LunchEnd), clockText(ts.ExitTime), d.TotalHours)
		switch {
		case ts.Status == model.StatusNeedsAdjustment:
			line += color.New(color.FgRed).Sprintf("  needs adjustment %s", ts.Note)
		case d.OvertimeHours > 0:
			line += color.New(color.FgYellow).Sprintf("  +%.2fh overtime", d.OvertimeHours)
		case d.State != timesheet.StateComplete:
			line += color.New(color.FgHiBlack).Sprintf("  %s", d.State)
		}
		fmt.Fprintln(w, line)
	}

	s := rv.Summary
	fmt.Fprintf(w, "\n%s %d days, %.2fh worked, %.2fh expected", bold.Sprint("Total:"), s.Days, s.TotalHours, s.ExpectedHours)
	if s.OvertimeHours > 0 {
		fmt.Fprint(w, color.New(color.FgYellow).Sprintf(", %.2fh overtime", s.OvertimeHours))
	}
	fmt.Fprintln(w)
	return nil
}

// parseRange overrides the current week with whichever of from/to is given.
func parseRange(now time.Time, from, to string) (time.Time, time.Time, error) {
	start, end := timesheet.WeekRange(now)
	return parseRangeDefault(start, end, from, to)
}

func parseRangeDefault(start, end time.Time, from, to string) (time.Time, time.Time, error) {
	var err error
	if from != "" {
		if start, err = model.ParseDate(from); err != nil {
			return start, end, fmt.Errorf("--from: %w", err)
		}
	}
	if to != "" {
		if end, err = model.ParseDate(to); err != nil {
			return start, end, fmt.Errorf("--to: %w", err)
		}
	}
	return start, end, nil
}

func clockText(t *model.TimeOfDay) string {
	if t == nil {
		return "--:--:--"
	}
	return t.String()
}
