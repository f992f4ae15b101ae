package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"spacedrep/internal/bootstrap"
	analyticsdto "spacedrep/internal/modules/analytics/dto"
	"spacedrep/internal/ui/theme"
)

func newStatsCmd(vaultPath *string) *cobra.Command {
	stats := &cobra.Command{Use: "stats", Short: "Retention and study analytics"}

	var topicID string
	reviews := &cobra.Command{
		Use:   "reviews",
		Short: "Review totals, retention and category strength",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				out, err := app.AnalyticsCLI.Reviews(cmd.Context(), topicID)
				if err != nil {
					return err
				}
				printReviewStats(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	reviews.Flags().StringVar(&topicID, "topic", "", "only this topic")

	var retentionDays int
	retention := &cobra.Command{
		Use:   "retention",
		Short: "Daily retention over the trailing days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				points, err := app.AnalyticsCLI.Retention(cmd.Context(), retentionDays)
				if err != nil {
					return err
				}
				for _, p := range points {
					if p.ReviewCount == 0 {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", p.Date.Format("2006-01-02"), theme.Muted.Render("-"))
						continue
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %3.0f%%  reviews=%d confidence=%.2f\n",
						p.Date.Format("2006-01-02"), p.RetentionRate*100, p.ReviewCount, p.AverageConfidence)
				}
				return nil
			})
		},
	}
	retention.Flags().IntVar(&retentionDays, "days", 0, "window in days (0 = configured default)")

	var sessionDays int
	sessions := &cobra.Command{
		Use:   "sessions",
		Short: "Session habits over the trailing days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				out, err := app.AnalyticsCLI.Sessions(cmd.Context(), sessionDays)
				if err != nil {
					return err
				}
				printSessionAnalytics(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	sessions.Flags().IntVar(&sessionDays, "days", 0, "window in days (0 = configured default)")

	topics := &cobra.Command{
		Use:   "topics",
		Short: "Topic counts by category and difficulty",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				out, err := app.AnalyticsCLI.Topics(cmd.Context())
				if err != nil {
					return err
				}
				printTopicStats(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	progress := &cobra.Command{
		Use:   "progress",
		Short: "Learning stage of every active topic",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				out, err := app.AnalyticsCLI.Progress(cmd.Context())
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				for _, item := range out.Topics {
					_, _ = fmt.Fprintf(w, "%s %-32s reviews=%d interval=%dd\n", theme.Stage(item.Stage, 15), item.Topic.Name, item.ReviewCount, item.IntervalDays)
				}
				_, _ = fmt.Fprintf(w, "new=%d learning=%d attention=%d mastered=%d\n",
					out.Stages["New"], out.Stages["Learning"], out.Stages["NeedsAttention"], out.Stages["Mastered"])
				return nil
			})
		},
	}

	dashboard := &cobra.Command{
		Use:   "dashboard",
		Short: "Reviews, topics and sessions at a glance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				out, err := app.AnalyticsCLI.Dashboard(cmd.Context())
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintln(w, theme.Muted.Render("as of "+out.GeneratedAt.Local().Format(timeLayout)))
				_, _ = fmt.Fprintln(w, theme.Title.Render("Reviews"))
				printReviewStats(w, out.Reviews)
				_, _ = fmt.Fprintln(w, theme.Title.Render("Topics"))
				printTopicStats(w, out.Topics)
				_, _ = fmt.Fprintln(w, theme.Title.Render("Sessions"))
				printSessionAnalytics(w, out.Sessions)
				return nil
			})
		},
	}

	stats.AddCommand(reviews, retention, sessions, topics, progress, dashboard)
	return stats
}

func printReviewStats(w io.Writer, s analyticsdto.ReviewStatsOutput) {
	_, _ = fmt.Fprintf(w, "reviews=%d retention=%.0f%% confidence=%.2f streak=%dd week=%d month=%d best-hour=%02d:00 avg-session=%.0fm\n",
		s.TotalReviews, s.RetentionRate*100, s.AverageConfidence, s.StreakDays, s.ReviewsThisWeek, s.ReviewsThisMonth, s.BestStudyHour, s.AverageSessionDuration)
	for _, c := range s.StrongestCategories {
		_, _ = fmt.Fprintf(w, "  strong  %-24s %3.0f%% (%d)\n", c.Category, c.RetentionRate*100, c.ReviewCount)
	}
	for _, c := range s.WeakestCategories {
		_, _ = fmt.Fprintf(w, "  weak    %-24s %3.0f%% (%d)\n", c.Category, c.RetentionRate*100, c.ReviewCount)
	}
}

func printTopicStats(w io.Writer, s analyticsdto.TopicStatsOutput) {
	_, _ = fmt.Fprintf(w, "topics=%d retired=%d per-category=%.1f most-active=%s\n",
		s.TotalTopics, s.InactiveTopics, s.AverageTopicsPerCategory, s.MostActiveCategory)
	_, _ = fmt.Fprintf(w, "  by category=%v\n  by difficulty=%v\n", s.TopicsByCategory, s.TopicsByDifficulty)
	if s.NewestTopic != nil {
		_, _ = fmt.Fprintf(w, "  newest=%s oldest=%s\n", s.NewestTopic.Name, s.OldestTopic.Name)
	}
}

func printSessionAnalytics(w io.Writer, s analyticsdto.SessionAnalyticsOutput) {
	_, _ = fmt.Fprintf(w, "sessions=%d minutes=%d avg=%.1fmin topics/session=%.1f success=%.0f%% streak=%dd preferred-hours=%v\n",
		s.TotalSessions, s.TotalStudyTime, s.AverageSessionDuration, s.AverageTopicsPerSession, s.AverageSuccessRate*100, s.StudyStreak, s.PreferredStudyTimes)
}
