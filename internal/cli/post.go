package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tiebago/tieba/internal/models"
)

func newPostCmd(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Read and write posts",
	}
	cmd.AddCommand(
		newPostListCmd(configFile),
		newPostShowCmd(configFile),
		newPostCreateCmd(configFile),
		newPostDeleteCmd(configFile),
		newPostLikeCmd(configFile),
		newPostUnlikeCmd(configFile),
		newPostFavoriteCmd(configFile),
		newPostUnfavoriteCmd(configFile),
		newPostReplyCmd(configFile),
		newPostRepliesCmd(configFile),
	)
	return cmd
}

func newPostListCmd(configFile *string) *cobra.Command {
	var tiebaID int64
	var sort string
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, scoped to the selected tieba by default",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			if tiebaID == 0 {
				if cliCtx, err := a.ctxStore.Load(); err == nil && cliCtx.HasTieba() {
					tiebaID = cliCtx.TiebaID
				}
			}
			if pageSize == 0 {
				pageSize = a.cfg.API.PageSize
			}

			res := a.tiebas.GetPostList(cmd.Context(), tiebaID, sort, page, pageSize)
			if !res.OK {
				return failed(res.Message)
			}

			rows := make([][]string, 0, len(res.Data))
			for _, p := range res.Data {
				rows = append(rows, []string{
					strconv.FormatInt(p.ID, 10),
					truncate(p.Title, 40),
					p.Author.DisplayName(),
					strconv.Itoa(p.ReplyCount),
					strconv.Itoa(p.LikeCount),
					formatTime(p.CreateTime),
				})
			}
			if err := writeTable(cmd.OutOrStdout(), []string{"ID", "TITLE", "AUTHOR", "REPLIES", "LIKES", "CREATED"}, rows); err != nil {
				return err
			}
			if res.HasMore {
				fmt.Fprintf(cmd.OutOrStdout(), "(more available, use --page %d)\n", page+1)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&tiebaID, "tieba", 0, "Tieba id (defaults to the selected tieba)")
	cmd.Flags().StringVar(&sort, "sort", "", "Sort order, e.g. -create_time")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Items per page")
	return cmd
}

func newPostShowCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one post",
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
			res := a.tiebas.GetPostDetail(cmd.Context(), id)
			if !res.OK {
				return failed(res.Message)
			}

			p := res.Data
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (#%d)\n", p.Title, p.ID)
			fmt.Fprintf(out, "by %s in %s, %s\n", p.Author.DisplayName(), p.TiebaName, formatTime(p.CreateTime))
			fmt.Fprintf(out, "%d views, %d replies, %d likes\n\n", p.ViewCount, p.ReplyCount, p.LikeCount)
			fmt.Fprintln(out, p.Content)
			return nil
		},
	}
}

func newPostCreateCmd(configFile *string) *cobra.Command {
	var tiebaID int64
	var title, content string
	var tags []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireLogin(cmd); err != nil {
				return err
			}
			if tiebaID == 0 {
				if cliCtx, err := a.ctxStore.Load(); err == nil && cliCtx.HasTieba() {
					tiebaID = cliCtx.TiebaID
				}
			}

			res := a.tiebas.CreatePost(cmd.Context(), models.CreatePostForm{
				TiebaID: tiebaID,
				Title:   title,
				Content: content,
				Tags:    tags,
			})
			if !res.OK {
				return failed(res.Message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Post #%d created\n", res.Data.ID)
			return nil
		},
	}
	cmd.Flags().Int64Var(&tiebaID, "tieba", 0, "Tieba id (defaults to the selected tieba)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Post title")
	cmd.Flags().StringVarP(&content, "content", "m", "", "Post body")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tags (repeatable)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func newPostDeleteCmd(configFile *string) *cobra.Command {
	return postActionCmd(configFile, "delete <id>", "Delete a post", func(a *app, cmd *cobra.Command, id int64) error {
		if res := a.tiebas.DeletePost(cmd.Context(), id); !res.OK {
			return failed(res.Message)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
		return nil
	})
}

func newPostLikeCmd(configFile *string) *cobra.Command {
	return postActionCmd(configFile, "like <id>", "Like a post", func(a *app, cmd *cobra.Command, id int64) error {
		if res := a.tiebas.LikePost(cmd.Context(), id); !res.OK {
			return failed(res.Message)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Liked")
		return nil
	})
}

func newPostUnlikeCmd(configFile *string) *cobra.Command {
	return postActionCmd(configFile, "unlike <id>", "Remove a like", func(a *app, cmd *cobra.Command, id int64) error {
		if res := a.tiebas.UnlikePost(cmd.Context(), id); !res.OK {
			return failed(res.Message)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Unliked")
		return nil
	})
}

func newPostFavoriteCmd(configFile *string) *cobra.Command {
	return postActionCmd(configFile, "favorite <id>", "Bookmark a post", func(a *app, cmd *cobra.Command, id int64) error {
		if res := a.tiebas.FavoritePost(cmd.Context(), id); !res.OK {
			return failed(res.Message)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Favorited")
		return nil
	})
}

func newPostUnfavoriteCmd(configFile *string) *cobra.Command {
	return postActionCmd(configFile, "unfavorite <id>", "Remove a bookmark", func(a *app, cmd *cobra.Command, id int64) error {
		if res := a.tiebas.UnfavoritePost(cmd.Context(), id); !res.OK {
			return failed(res.Message)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Unfavorited")
		return nil
	})
}

func postActionCmd(configFile *string, use, short string, run func(*app, *cobra.Command, int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireLogin(cmd); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return run(a, cmd, id)
		},
	}
}

func newPostReplyCmd(configFile *string) *cobra.Command {
	var parentID int64

	cmd := &cobra.Command{
		Use:   "reply <id> <content>",
		Short: "Reply to a post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireLogin(cmd); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			res := a.tiebas.ReplyPost(cmd.Context(), id, args[1], parentID)
			if !res.OK {
				return failed(res.Message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reply #%d posted\n", res.Data.ID)
			return nil
		},
	}
	cmd.Flags().Int64Var(&parentID, "parent", 0, "Parent reply id for nested replies")
	return cmd
}

func newPostRepliesCmd(configFile *string) *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "replies <id>",
		Short: "List replies to a post",
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
			if pageSize == 0 {
				pageSize = a.cfg.API.PageSize
			}

			res := a.tiebas.GetPostReplies(cmd.Context(), id, page, pageSize)
			if !res.OK {
				return failed(res.Message)
			}

			out := cmd.OutOrStdout()
			for _, r := range res.Data {
				fmt.Fprintf(out, "#%d %s (%s):\n%s\n\n", r.ID, r.Author.DisplayName(), formatTime(r.CreateTime), r.Content)
			}
			if res.HasMore {
				fmt.Fprintf(out, "(more available, use --page %d)\n", page+1)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Items per page")
	return cmd
}
