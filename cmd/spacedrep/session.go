package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"spacedrep/internal/bootstrap"
	sessiondto "spacedrep/internal/modules/session/dto"
	"spacedrep/internal/ui/theme"
)

func newSessionCmd(vaultPath *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Study session lifecycle"}

	var goal string
	start := &cobra.Command{
		Use:   "start",
		Short: "Start a study session; reviews are counted toward it until it ends",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.Start(cmd.Context(), goal)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session started: %s at=%s\n", out.ID, out.StartTime.Local().Format(timeLayout))
				return nil
			})
		},
	}
	start.Flags().StringVar(&goal, "goal", "", "study goal")

	var sessionID, outcome string
	end := &cobra.Command{
		Use:   "end",
		Short: "End the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.End(cmd.Context(), sessionID, outcome)
				if err != nil {
					return err
				}
				s := out.Session
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session ended: %s duration=%dmin reviewed=%d correct=%d quality=%s\n",
					s.ID, s.DurationMinutes, s.TotalReviewed, s.TotalCorrect, s.Quality)
				if out.Path != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "note=%s\n", out.Path)
				}
				return nil
			})
		},
	}
	end.Flags().StringVar(&sessionID, "session-id", "", "optional session id (defaults to active session)")
	end.Flags().StringVar(&outcome, "outcome", "", "session outcome")

	active := &cobra.Command{
		Use:   "active",
		Short: "Show the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.GetActive(cmd.Context())
				if err != nil {
					return err
				}
				printSessions(cmd.OutOrStdout(), []sessiondto.SessionOutput{out})
				return nil
			})
		},
	}

	var days int
	list := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				sessions, err := app.SessionCLI.List(cmd.Context(), days)
				if err != nil {
					return err
				}
				printSessions(cmd.OutOrStdout(), sessions)
				return nil
			})
		},
	}
	list.Flags().IntVar(&days, "days", 0, "only sessions started in the trailing days (0 = all)")

	stats := &cobra.Command{
		Use:   "stats <session-id>",
		Short: "Summarise one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				out, err := app.AnalyticsCLI.Session(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "session %s: %dmin topics=%d success=%.0f%% confidence=%.2f quality=%s\n",
					out.SessionID, out.DurationMinutes, out.TopicsReviewed, out.SuccessRate*100, out.AverageConfidence, out.Quality)
				_, _ = fmt.Fprintf(w, "  categories=%v\n  difficulty=%v\n  ratings=%v\n",
					out.CategoriesStudied, out.DifficultyDistribution, out.ConfidenceBreakdown)
				return nil
			})
		},
	}

	session.AddCommand(start, end, active, list, stats)
	return session
}

func printSessions(w io.Writer, sessions []sessiondto.SessionOutput) {
	if len(sessions) == 0 {
		_, _ = fmt.Fprintln(w, "no sessions")
		return
	}
	for _, s := range sessions {
		state := fmt.Sprintf("%dmin %s", s.DurationMinutes, s.Quality)
		if s.Active {
			state = theme.Hot.Render("active")
		}
		_, _ = fmt.Fprintf(w, "%s  %s  reviewed=%d correct=%d %s", s.ID, s.StartTime.Local().Format(timeLayout), s.TotalReviewed, s.TotalCorrect, state)
		if s.Goal != "" {
			_, _ = fmt.Fprintf(w, "  goal=%q", s.Goal)
		}
		_, _ = fmt.Fprintln(w)
	}
}
