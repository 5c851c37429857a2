package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/quillpress/quillpress-server/internal/auth"
	"github.com/quillpress/quillpress-server/internal/service"
)

func newBootstrapAdminCmd(g *globalFlags) *cobra.Command {
	var req service.CreateUserRequest

	cmd := &cobra.Command{
		Use:   "bootstrap-admin",
		Short: "Create the first super admin",
		Long: `Creates a super admin account. Refuses when one already exists.
The password is read from --password, then QUILL_ADMIN_PASSWORD, then stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				req.Password = os.Getenv("QUILL_ADMIN_PASSWORD")
			}
			if req.Password == "" {
				pw, err := readLine(cmd)
				if err != nil {
					return err
				}
				req.Password = pw
			}

			injector := g.container()
			defer injector.Shutdown()

			users, err := do.Invoke[*service.UserService](injector)
			if err != nil {
				return err
			}

			user, err := users.BootstrapAdmin(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created super admin %s (%s)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Admin email address")
	cmd.Flags().StringVar(&req.Username, "username", "admin", "Admin username")
	cmd.Flags().StringVar(&req.Password, "password", "", "Admin password")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the argon2id hash of a password",
		Long:  `Hashes the given password, or one line of stdin, with the server's parameters.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				pw, err := readLine(cmd)
				if err != nil {
					return err
				}
				password = pw
			}

			hash, err := auth.NewPasswordHasher(auth.DefaultParams).Hash(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func readLine(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return "", errors.New("password must not be empty")
	}
	return line, nil
}
