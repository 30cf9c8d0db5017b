package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tiebago/tieba/internal/models"
)

func newTiebaCmd(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tieba",
		Short: "Browse, search and join tiebas",
	}
	cmd.AddCommand(
		newTiebaListCmd(configFile),
		newTiebaSearchCmd(configFile),
		newTiebaHotCmd(configFile),
		newTiebaRecommendedCmd(configFile),
		newTiebaShowCmd(configFile),
		newTiebaJoinCmd(configFile),
		newTiebaLeaveCmd(configFile),
		newTiebaFollowCmd(configFile),
		newTiebaUnfollowCmd(configFile),
		newTiebaUseCmd(configFile),
		newTiebaHistoryCmd(configFile),
	)
	return cmd
}

func tiebaRows(tiebas []models.Tieba) [][]string {
	rows := make([][]string, 0, len(tiebas))
	for _, t := range tiebas {
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			truncate(t.DisplayName, 24),
			t.Category,
			strconv.Itoa(t.MemberCount),
			strconv.Itoa(t.PostCount),
			formatYesNo(t.IsJoined),
		})
	}
	return rows
}

var tiebaHeaders = []string{"ID", "NAME", "CATEGORY", "MEMBERS", "POSTS", "JOINED"}

func newTiebaListCmd(configFile *string) *cobra.Command {
	var category string
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tiebas",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			if pageSize == 0 {
				pageSize = a.cfg.API.PageSize
			}
			res := a.tiebas.GetTiebaList(cmd.Context(), category, page, pageSize)
			if !res.OK {
				return failed(res.Message)
			}
			if err := writeTable(cmd.OutOrStdout(), tiebaHeaders, tiebaRows(res.Data)); err != nil {
				return err
			}
			if res.HasMore {
				fmt.Fprintf(cmd.OutOrStdout(), "(more available, use --page %d)\n", page+1)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "Filter by category")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Items per page")
	return cmd
}

func newTiebaSearchCmd(configFile *string) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search tiebas by keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.tiebas.SearchTiebas(cmd.Context(), models.SearchTiebaParams{
				Keyword:  args[0],
				Page:     page,
				PageSize: a.cfg.API.PageSize,
			})
			if !res.OK {
				return failed(res.Message)
			}
			if len(res.Data) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tiebas found")
				return nil
			}
			return writeTable(cmd.OutOrStdout(), tiebaHeaders, tiebaRows(res.Data))
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	return cmd
}

func newTiebaHotCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "hot",
		Short: "Show the tiebas with the most members",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.tiebas.GetHotTiebas(cmd.Context())
			if !res.OK {
				return failed(res.Message)
			}
			return writeTable(cmd.OutOrStdout(), tiebaHeaders, tiebaRows(res.Data))
		},
	}
}

func newTiebaRecommendedCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "recommended",
		Short: "Show the most active tiebas",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.tiebas.GetRecommendedTiebas(cmd.Context())
			if !res.OK {
				return failed(res.Message)
			}
			return writeTable(cmd.OutOrStdout(), tiebaHeaders, tiebaRows(res.Data))
		},
	}
}

func newTiebaShowCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show one tieba in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			id, err := a.resolveTiebaID(args)
			if err != nil {
				return err
			}

			res := a.tiebas.GetTiebaDetail(cmd.Context(), id)
			if !res.OK {
				return failed(res.Message)
			}

			t := res.Data
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (#%d)\n", t.DisplayName, t.ID)
			if t.Description != "" {
				fmt.Fprintln(out, t.Description)
			}
			fmt.Fprintf(out, "Category: %s  Members: %d  Posts: %d (today %d)  Joined: %s\n",
				t.Category, t.MemberCount, t.PostCount, t.TodayPostCount, formatYesNo(t.IsJoined))
			if t.Announcement != "" {
				fmt.Fprintf(out, "Announcement: %s\n", t.Announcement)
			}
			for _, m := range t.Moderators {
				fmt.Fprintf(out, "Moderator: %s (%s)\n", m.DisplayName(), m.Role)
			}
			return nil
		},
	}
}

func newTiebaJoinCmd(configFile *string) *cobra.Command {
	return tiebaActionCmd(configFile, "join <id>", "Join a tieba", func(a *app, cmd *cobra.Command, id int64) error {
		if res := a.tiebas.JoinTieba(cmd.Context(), id); !res.OK {
			return failed(res.Message)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Joined")
		return nil
	})
}

func newTiebaLeaveCmd(configFile *string) *cobra.Command {
	return tiebaActionCmd(configFile, "leave <id>", "Leave a tieba", func(a *app, cmd *cobra.Command, id int64) error {
		if res := a.tiebas.LeaveTieba(cmd.Context(), id); !res.OK {
			return failed(res.Message)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Left")
		return nil
	})
}

func newTiebaFollowCmd(configFile *string) *cobra.Command {
	return tiebaActionCmd(configFile, "follow <id>", "Follow a tieba without joining", func(a *app, cmd *cobra.Command, id int64) error {
		if res := a.tiebas.FollowTieba(cmd.Context(), id); !res.OK {
			return failed(res.Message)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Following")
		return nil
	})
}

func newTiebaUnfollowCmd(configFile *string) *cobra.Command {
	return tiebaActionCmd(configFile, "unfollow <id>", "Stop following a tieba", func(a *app, cmd *cobra.Command, id int64) error {
		if res := a.tiebas.UnfollowTieba(cmd.Context(), id); !res.OK {
			return failed(res.Message)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Unfollowed")
		return nil
	})
}

// tiebaActionCmd builds an id-taking subcommand that requires a login.
func tiebaActionCmd(configFile *string, use, short string, run func(*app, *cobra.Command, int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireLogin(cmd); err != nil {
				return err
			}
			id, err := a.resolveTiebaID(args)
			if err != nil {
				return err
			}
			return run(a, cmd, id)
		},
	}
}

func newTiebaUseCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "use <id>",
		Short: "Select a tieba for later commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res := a.tiebas.GetTiebaDetail(cmd.Context(), id)
			if !res.OK {
				return failed(res.Message)
			}

			cliCtx, err := a.ctxStore.Load()
			if err != nil {
				return err
			}
			cliCtx.SetTieba(res.Data.ID, res.Data.DisplayName)
			if err := a.ctxStore.Save(cliCtx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Using tieba %s\n", res.Data.DisplayName)
			return nil
		},
	}
}

func newTiebaHistoryCmd(configFile *string) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear recent search terms",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			if clear {
				a.tiebas.ClearSearchHistory()
				fmt.Fprintln(cmd.OutOrStdout(), "Search history cleared")
				return nil
			}

			terms := a.tiebas.SearchHistory()
			if len(terms) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recent searches")
				return nil
			}
			for _, term := range terms {
				fmt.Fprintln(cmd.OutOrStdout(), term)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "Clear the search history")
	return cmd
}

// resolveTiebaID returns the id from args, falling back to the saved
// context.
func (a *app) resolveTiebaID(args []string) (int64, error) {
	if len(args) > 0 {
		return parseID(args[0])
	}
	cliCtx, err := a.ctxStore.Load()
	if err != nil {
		return 0, err
	}
	if !cliCtx.HasTieba() {
		return 0, failed("no tieba given and none selected (run `tieba tieba use <id>`)")
	}
	return cliCtx.TiebaID, nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
