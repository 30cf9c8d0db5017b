package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tiebago/tieba/internal/db"
	"github.com/tiebago/tieba/internal/models"
	"github.com/tiebago/tieba/internal/store"
)

func newMsgCmd(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "msg",
		Short: "Notifications and unread counters",
	}
	cmd.AddCommand(
		newMsgListCmd(configFile),
		newMsgReadCmd(configFile),
		newMsgReadAllCmd(configFile),
		newMsgDeleteCmd(configFile),
		newMsgStatsCmd(configFile),
	)
	return cmd
}

func newMsgListCmd(configFile *string) *cobra.Command {
	var unreadOnly bool
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireLogin(cmd); err != nil {
				return err
			}
			if pageSize == 0 {
				pageSize = a.cfg.API.PageSize
			}

			res := a.messages.GetMessages(cmd.Context(), unreadOnly, page, pageSize)
			if !res.OK {
				return failed(res.Message)
			}

			rows := make([][]string, 0, len(res.Data))
			for _, n := range res.Data {
				read := " "
				if !n.IsRead {
					read = "*"
				}
				rows = append(rows, []string{
					read,
					strconv.FormatInt(n.ID, 10),
					string(n.Type),
					truncate(n.Title, 40),
					n.Sender.DisplayName(),
					formatTime(n.CreateTime),
				})
			}
			if err := writeTable(cmd.OutOrStdout(), []string{" ", "ID", "TYPE", "TITLE", "FROM", "WHEN"}, rows); err != nil {
				return err
			}
			if res.HasMore {
				fmt.Fprintf(cmd.OutOrStdout(), "(more available, use --page %d)\n", page+1)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&unreadOnly, "unread", "U", false, "Only unread notifications")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Items per page")
	return cmd
}

func newMsgReadCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "read <id>...",
		Short: "Mark notifications as read",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireLogin(cmd); err != nil {
				return err
			}
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			if res := a.messages.MarkAsRead(cmd.Context(), store.KindNotification, ids); !res.OK {
				return failed(res.Message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %d as read\n", len(ids))
			return nil
		},
	}
}

func newMsgReadAllCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "read-all",
		Short: "Mark everything as read",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireLogin(cmd); err != nil {
				return err
			}
			if res := a.messages.MarkAllAsRead(cmd.Context()); !res.OK {
				return failed(res.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All read")
			return nil
		},
	}
}

func newMsgDeleteCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a notification",
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
			if res := a.messages.DeleteMessage(cmd.Context(), store.KindNotification, id); !res.OK {
				return failed(res.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	}
}

func newMsgStatsCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show unread counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireLogin(cmd); err != nil {
				return err
			}

			cache := db.NewStatsRepository(a.db)
			out := cmd.OutOrStdout()

			var stats models.MessageStats
			if res := a.messages.GetMessages(cmd.Context(), false, 1, a.cfg.API.PageSize); res.OK {
				stats = a.messages.Stats()
				if err := cache.Save(stats); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
				}
			} else {
				// Fall back to the last snapshot when the fetch fails.
				cached, savedAt, err := cache.Load()
				if err != nil {
					return failed(res.Message)
				}
				stats = cached
				fmt.Fprintf(out, "(cached from %s; fetch failed: %s)\n", formatTime(savedAt), res.Message)
			}

			fmt.Fprintf(out, "Unread: %d\n", stats.UnreadCount)
			fmt.Fprintf(out, "  system: %d  reply: %d  like: %d\n", stats.UnreadSystem, stats.UnreadReply, stats.UnreadLike)
			fmt.Fprintf(out, "  follow: %d  mention: %d  private: %d\n", stats.UnreadFollow, stats.UnreadMention, stats.UnreadPrivate)
			return nil
		},
	}
}

func newChatCmd(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Private conversations",
	}
	cmd.AddCommand(
		newChatListCmd(configFile),
		newChatHistoryCmd(configFile),
		newChatSendCmd(configFile),
	)
	return cmd
}

func newChatListCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireLogin(cmd); err != nil {
				return err
			}
			res := a.messages.GetConversations(cmd.Context())
			if !res.OK {
				return failed(res.Message)
			}

			selfID := int64(0)
			if user := a.users.User(); user != nil {
				selfID = user.ID
			}

			rows := make([][]string, 0, len(res.Data))
			for _, c := range res.Data {
				last := ""
				if c.LastMessage != nil {
					last = truncate(c.LastMessage.Content, 36)
				}
				rows = append(rows, []string{
					strconv.FormatInt(c.ID, 10),
					c.Peer(selfID).DisplayName(),
					strconv.Itoa(c.UnreadCount),
					last,
					formatTime(c.UpdateTime),
				})
			}
			return writeTable(cmd.OutOrStdout(), []string{"ID", "WITH", "UNREAD", "LAST", "UPDATED"}, rows)
		},
	}
}

func newChatHistoryCmd(configFile *string) *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "history [conversation-id]",
		Short: "Show messages in a conversation",
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

			var convID int64
			if len(args) > 0 {
				convID, err = parseID(args[0])
				if err != nil {
					return err
				}
			} else if cliCtx, err := a.ctxStore.Load(); err == nil && cliCtx.HasConversation() {
				convID = cliCtx.ConversationID
			}
			if pageSize == 0 {
				pageSize = a.cfg.API.PageSize
			}

			res := a.messages.GetPrivateMessages(cmd.Context(), convID, page, pageSize)
			if !res.OK {
				return failed(res.Message)
			}

			out := cmd.OutOrStdout()
			for _, m := range res.Data {
				fmt.Fprintf(out, "[%s] %s: %s\n", formatTime(m.CreateTime), m.Sender.DisplayName(), m.Content)
			}
			if res.HasMore {
				fmt.Fprintf(out, "(earlier messages available, use --page %d)\n", page+1)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Items per page")
	return cmd
}

func newChatSendCmd(configFile *string) *cobra.Command {
	var receiverID, conversationID int64

	cmd := &cobra.Command{
		Use:   "send <content>",
		Short: "Send a private message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireLogin(cmd); err != nil {
				return err
			}
			if conversationID == 0 {
				if cliCtx, err := a.ctxStore.Load(); err == nil && cliCtx.HasConversation() {
					conversationID = cliCtx.ConversationID
				}
			}

			res := a.messages.SendPrivateMessage(cmd.Context(), models.SendMessageForm{
				ReceiverID:     receiverID,
				ConversationID: conversationID,
				Content:        strings.Join(args, " "),
			})
			if !res.OK {
				return failed(res.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sent")
			return nil
		},
	}
	cmd.Flags().Int64Var(&receiverID, "to", 0, "Receiver user id (starts a conversation)")
	cmd.Flags().Int64Var(&conversationID, "conversation", 0, "Conversation id (defaults to the selected one)")
	return cmd
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
