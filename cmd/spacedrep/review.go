package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"spacedrep/internal/bootstrap"
	reviewdto "spacedrep/internal/modules/review/dto"
	"spacedrep/internal/ui/theme"
)

func newReviewCmd(vaultPath *string) *cobra.Command {
	review := &cobra.Command{Use: "review", Short: "Rate recalls and inspect the schedule"}

	rate := &cobra.Command{
		Use:   "rate <topic-id> <forgot|hard|good|easy>",
		Short: "Record a recall and schedule the next review",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				out, err := app.ReviewCLI.Rate(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				r := out.Review
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reviewed %s: next=%s interval=%dd ease=%.2f count=%d\n",
					r.TopicID, r.NextReviewDate.Local().Format(timeLayout), r.IntervalDays, r.EaseFactor, r.ReviewCount)
				switch {
				case out.IndicatesMastery:
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), theme.Stage("Mastered", 0))
				case out.NeedsMoreAttention:
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), theme.Hot.Render("needs more attention"))
				}
				if out.SessionRecorded {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "counted toward the active session")
				}
				return nil
			})
		},
	}

	history := &cobra.Command{
		Use:   "history <topic-id>",
		Short: "List a topic's reviews, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				reviews, err := app.ReviewCLI.History(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printReviews(cmd.OutOrStdout(), reviews)
				return nil
			})
		},
	}

	var watchOverdue bool
	overdue := &cobra.Command{
		Use:   "overdue",
		Short: "Overdue topics, most urgent first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				if !watchOverdue {
					items, err := app.ReviewCLI.Overdue(cmd.Context())
					if err != nil {
						return err
					}
					printOverdue(cmd.OutOrStdout(), items)
					return nil
				}
				stream, err := app.ReviewCLI.WatchOverdue(cmd.Context())
				if err != nil {
					return err
				}
				for items := range stream {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "-- %d overdue\n", len(items))
					printOverdue(cmd.OutOrStdout(), items)
				}
				return nil
			})
		},
	}
	overdue.Flags().BoolVar(&watchOverdue, "watch", false, "keep printing after every change until interrupted")

	var hours int
	upcoming := &cobra.Command{
		Use:   "upcoming --hours <n>",
		Short: "Reviews falling due within the next hours",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				reviews, err := app.ReviewCLI.Upcoming(cmd.Context(), hours)
				if err != nil {
					return err
				}
				printReviews(cmd.OutOrStdout(), reviews)
				return nil
			})
		},
	}
	upcoming.Flags().IntVar(&hours, "hours", 24, "look-ahead window in hours")

	correct := &cobra.Command{
		Use:   "correct <review-id> <forgot|hard|good|easy>",
		Short: "Re-rate a topic's latest review and reschedule it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				out, err := app.ReviewCLI.Correct(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				printReviews(cmd.OutOrStdout(), []reviewdto.ReviewOutput{out})
				return nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <review-id>",
		Short: "Delete a review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				if err := app.ReviewCLI.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "review deleted: %s\n", args[0])
				return nil
			})
		},
	}

	schedule := &cobra.Command{
		Use:   "schedule <topic-id>",
		Short: "Show when a topic is due, with an FSRS second opinion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				out, err := app.ReviewCLI.Schedule(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printSchedule(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	review.AddCommand(rate, history, overdue, upcoming, correct, del, schedule)
	return review
}

func printReviews(w io.Writer, reviews []reviewdto.ReviewOutput) {
	if len(reviews) == 0 {
		_, _ = fmt.Fprintln(w, "no reviews")
		return
	}
	for _, r := range reviews {
		_, _ = fmt.Fprintf(w, "%s  %s  %-6s %4dd ease=%.2f #%d next=%s\n",
			r.ID, r.ReviewedAt.Local().Format(timeLayout), r.Confidence, r.IntervalDays, r.EaseFactor, r.ReviewCount,
			r.NextReviewDate.Local().Format(timeLayout))
	}
}

func printOverdue(w io.Writer, items []reviewdto.OverdueOutput) {
	if len(items) == 0 {
		_, _ = fmt.Fprintln(w, "nothing overdue")
		return
	}
	for _, item := range items {
		_, _ = fmt.Fprintf(w, "%s %3dd  %s (%s) due=%s\n",
			theme.Urgency(item.Urgency, 8), item.DaysOverdue, item.TopicName, item.Review.TopicID, item.Review.NextReviewDate.Local().Format(timeLayout))
	}
}

func printSchedule(w io.Writer, s reviewdto.ScheduleOutput) {
	if !s.Reviewed {
		_, _ = fmt.Fprintln(w, "  never reviewed")
		return
	}
	_, _ = fmt.Fprintf(w, "  next=%s interval=%dd ease=%.2f reviews=%d\n",
		s.Latest.NextReviewDate.Local().Format(timeLayout), s.Latest.IntervalDays, s.Latest.EaseFactor, s.Latest.ReviewCount)
	if s.Due {
		_, _ = fmt.Fprintf(w, "  overdue by %dd urgency=%s\n", s.DaysOverdue, theme.Urgency(s.Urgency, 0))
	}
	if s.HasFSRSForecast {
		_, _ = fmt.Fprintf(w, "  fsrs=%s\n", s.FSRSDue.Local().Format(timeLayout))
	}
}
