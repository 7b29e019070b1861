package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register <email>",
	Short: "Create an account and log in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		password, err := passwordFrom(cmd)
		if err != nil {
			return err
		}
		sess, err := NewClient(serverURL, "").Register(args[0], password, name)
		if err != nil {
			return fmt.Errorf("register failed: %w", err)
		}
		return finishLogin(cmd, sess)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in and save the session token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := passwordFrom(cmd)
		if err != nil {
			return err
		}
		sess, err := NewClient(serverURL, "").Login(args[0], password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		return finishLogin(cmd, sess)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the saved session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().Logout(); err != nil {
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				return fmt.Errorf("logout failed: %w", err)
			}
		}
		if err := removeToken(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

var deactivateCmd = &cobra.Command{
	Use:   "deactivate",
	Short: "Disable your account and end every session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("refusing to deactivate without --yes")
		}
		if err := newClient().Deactivate(); err != nil {
			return fmt.Errorf("deactivate failed: %w", err)
		}
		if err := removeToken(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Account deactivated")
		return nil
	},
}

func init() {
	deactivateCmd.Flags().Bool("yes", false, "Confirm deactivation")
	registerCmd.Flags().String("name", "", "Display name")
	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().String("password", "", "Password (read from stdin when omitted)")
	}
	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, deactivateCmd)
}

// passwordFrom returns --password or the first line of stdin.
func passwordFrom(cmd *cobra.Command) (string, error) {
	if pw, _ := cmd.Flags().GetString("password"); pw != "" {
		return pw, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	return readLine(cmd.InOrStdin())
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password required")
	}
	return line, nil
}

func finishLogin(cmd *cobra.Command, sess *SessionResponse) error {
	if err := saveToken(sess.Token); err != nil {
		return err
	}
	if jsonOutput {
		printJSON(cmd.OutOrStdout(), sess)
		return nil
	}
	who := sess.User.DisplayName
	if who == "" {
		who = sess.User.Email
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (session saved to %s)\n", who, tokenPath())
	return nil
}
