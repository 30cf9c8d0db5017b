package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tiebago/tieba/internal/models"
)

func newLoginCmd(configFile *string) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			if username == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Username: ")
				if _, err := fmt.Fscanln(cmd.InOrStdin(), &username); err != nil {
					return fmt.Errorf("reading username: %w", err)
				}
			}

			password, err := readPassword(cmd, "Password: ")
			if err != nil {
				return err
			}

			res := a.users.Login(cmd.Context(), models.LoginForm{
				Username: strings.TrimSpace(username),
				Password: password,
			})
			if !res.OK {
				return failed(res.Message)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (level %d)\n", res.Data.Username, res.Data.Level)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Account username")
	return cmd
}

func newLogoutCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and drop stored tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			a.users.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newRegisterCmd(configFile *string) *cobra.Command {
	var username, email, nickname string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			password, err := readPassword(cmd, "Password: ")
			if err != nil {
				return err
			}
			confirm, err := readPassword(cmd, "Confirm password: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return failed("passwords do not match")
			}

			res := a.users.Register(cmd.Context(), models.RegisterForm{
				Username: username,
				Password: password,
				Email:    email,
				Nickname: nickname,
			})
			if !res.OK {
				return failed(res.Message)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Account %s created, run `tieba login` to sign in\n", res.Data.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Account username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&nickname, "nickname", "n", "", "Display name")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newWhoamiCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireLogin(cmd); err != nil {
				return err
			}

			user := a.users.User()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (@%s)\n", user.Nickname, user.Username)
			fmt.Fprintf(out, "Level %d, %d followers, %d following, %d posts\n",
				user.Level, user.Followers, user.Following, user.Posts)
			if user.Bio != "" {
				fmt.Fprintln(out, user.Bio)
			}
			return nil
		},
	}
}

func newProfileCmd(configFile *string) *cobra.Command {
	var nickname, bio, avatar string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update the logged-in user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireLogin(cmd); err != nil {
				return err
			}

			fields := map[string]any{}
			if cmd.Flags().Changed("nickname") {
				fields["nickname"] = nickname
			}
			if cmd.Flags().Changed("bio") {
				fields["bio"] = bio
			}
			if cmd.Flags().Changed("avatar") {
				fields["avatar"] = avatar
			}

			res := a.users.UpdateUserInfo(cmd.Context(), fields)
			if !res.OK {
				return failed(res.Message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile updated: %s (@%s)\n", res.Data.Nickname, res.Data.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&nickname, "nickname", "n", "", "Display name")
	cmd.Flags().StringVarP(&bio, "bio", "b", "", "Profile bio")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar URL")
	return cmd
}

func newPasswdCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "passwd",
		Short: "Change the account password",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireLogin(cmd); err != nil {
				return err
			}

			current, err := readPassword(cmd, "Current password: ")
			if err != nil {
				return err
			}
			next, err := readPassword(cmd, "New password: ")
			if err != nil {
				return err
			}

			res := a.users.ChangePassword(cmd.Context(), current, next)
			if !res.OK {
				return failed(res.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password changed")
			return nil
		},
	}
}

// readPassword prompts without echo when stdin is a terminal, and falls
// back to a plain line read otherwise (tests, pipes).
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(raw), nil
	}

	var password string
	if _, err := fmt.Fscanln(cmd.InOrStdin(), &password); err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return password, nil
}
