package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"spacedrep/internal/bootstrap"
	topicdto "spacedrep/internal/modules/topic/dto"
)

func newTopicCmd(vaultPath *string) *cobra.Command {
	topic := &cobra.Command{Use: "topic", Short: "Manage study topics"}

	var category, difficulty, notes string
	var tags []string
	add := &cobra.Command{
		Use:   "add <name> --category <c> --difficulty <level>",
		Short: "Add a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				out, err := app.TopicCLI.Add(cmd.Context(), args[0], category, difficulty, notes, tags)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "topic added: %s (%s) complexity=%d\n", out.Name, out.ID, out.ComplexityScore)
				return nil
			})
		},
	}
	add.Flags().StringVar(&category, "category", "", "topic category")
	add.Flags().StringVar(&difficulty, "difficulty", "", "Beginner|Intermediate|Advanced")
	add.Flags().StringVar(&notes, "notes", "", "free-form notes")
	add.Flags().StringSliceVar(&tags, "tags", nil, "tags")

	var editName, editCategory, editDifficulty, editNotes string
	var editTags []string
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit the fields given as flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := topicdto.EditTopicInput{ID: args[0]}
			flags := cmd.Flags()
			if flags.Changed("name") {
				input.Name = &editName
			}
			if flags.Changed("category") {
				input.Category = &editCategory
			}
			if flags.Changed("difficulty") {
				input.Difficulty = &editDifficulty
			}
			if flags.Changed("notes") {
				input.Notes = &editNotes
			}
			if flags.Changed("tags") {
				input.Tags = &editTags
			}
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				out, err := app.TopicCLI.Edit(cmd.Context(), input)
				if err != nil {
					return err
				}
				printTopic(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	edit.Flags().StringVar(&editName, "name", "", "new name")
	edit.Flags().StringVar(&editCategory, "category", "", "new category")
	edit.Flags().StringVar(&editDifficulty, "difficulty", "", "new difficulty")
	edit.Flags().StringVar(&editNotes, "notes", "", "new notes")
	edit.Flags().StringSliceVar(&editTags, "tags", nil, "replacement tags")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Retire a topic; its review history is kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				if err := app.TopicCLI.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "topic deleted: %s\n", args[0])
				return nil
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a topic and its schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				out, err := app.TopicCLI.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printTopic(cmd.OutOrStdout(), out)
				schedule, err := app.ReviewCLI.Schedule(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printSchedule(cmd.OutOrStdout(), schedule)
				return nil
			})
		},
	}

	var listCategory string
	list := &cobra.Command{
		Use:   "list",
		Short: "List active topics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				topics, err := app.TopicCLI.List(cmd.Context(), listCategory)
				if err != nil {
					return err
				}
				printTopics(cmd.OutOrStdout(), topics)
				return nil
			})
		},
	}
	list.Flags().StringVar(&listCategory, "category", "", "only this category")

	categories := &cobra.Command{
		Use:   "categories",
		Short: "List categories in use",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				names, err := app.TopicCLI.Categories(cmd.Context())
				if err != nil {
					return err
				}
				if len(names) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no categories")
					return nil
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, "\n"))
				return nil
			})
		},
	}

	rename := &cobra.Command{
		Use:   "rename-category <from> <to>",
		Short: "Move every active topic of a category to another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				topics, err := app.TopicCLI.RenameCategory(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "moved %d topics to %s\n", len(topics), strings.TrimSpace(args[1]))
				return nil
			})
		},
	}

	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Search names, notes and tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				topics, err := app.TopicCLI.Search(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				printTopics(cmd.OutOrStdout(), topics)
				return nil
			})
		},
	}

	var days int
	interview := &cobra.Command{
		Use:   "interview --days <n>",
		Short: "Topics to prioritise before an interview, most complex first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				topics, err := app.TopicCLI.UrgentForInterview(cmd.Context(), days)
				if err != nil {
					return err
				}
				printTopics(cmd.OutOrStdout(), topics)
				return nil
			})
		},
	}
	interview.Flags().IntVar(&days, "days", 7, "days until the interview")

	due := &cobra.Command{
		Use:   "due",
		Short: "Topics due for review now",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				topics, err := app.TopicCLI.Due(cmd.Context())
				if err != nil {
					return err
				}
				printTopics(cmd.OutOrStdout(), topics)
				return nil
			})
		},
	}

	var watchCategory string
	var watchDue bool
	watch := &cobra.Command{
		Use:   "watch",
		Short: "Print the topic list again after every change until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*vaultPath, func(app *bootstrap.App) error {
				stream, err := app.TopicCLI.Watch(cmd.Context(), watchCategory, watchDue)
				if err != nil {
					return err
				}
				for topics := range stream {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "-- %d topics\n", len(topics))
					printTopics(cmd.OutOrStdout(), topics)
				}
				return nil
			})
		},
	}
	watch.Flags().StringVar(&watchCategory, "category", "", "only this category")
	watch.Flags().BoolVar(&watchDue, "due", false, "only topics due for review")

	topic.AddCommand(add, edit, del, show, list, categories, rename, search, interview, due, watch)
	return topic
}

func printTopic(w io.Writer, t topicdto.TopicOutput) {
	_, _ = fmt.Fprintf(w, "%s %s\n  category=%s difficulty=%s complexity=%d active=%t created=%s\n",
		t.ID, t.Name, t.Category, t.Difficulty, t.ComplexityScore, t.IsActive, t.CreatedAt.Local().Format(timeLayout))
	if len(t.Tags) > 0 {
		_, _ = fmt.Fprintf(w, "  tags=%s\n", strings.Join(t.Tags, ","))
	}
	if t.Notes != "" {
		_, _ = fmt.Fprintf(w, "  notes=%s\n", t.Notes)
	}
}

func printTopics(w io.Writer, topics []topicdto.TopicOutput) {
	if len(topics) == 0 {
		_, _ = fmt.Fprintln(w, "no topics")
		return
	}
	for _, t := range topics {
		_, _ = fmt.Fprintf(w, "%s  %-32s %-20s %-12s %d\n", t.ID, t.Name, t.Category, t.Difficulty, t.ComplexityScore)
	}
}
