package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/MSSkowron/CareAuth/pkg/client"
	"github.com/MSSkowron/CareAuth/pkg/crypto"
)

func newHashPasswordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print the bcrypt hash of a password read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cost, err := cmd.Flags().GetInt("cost")
			if err != nil {
				return err
			}

			hasher, err := crypto.NewHasher(cost)
			if err != nil {
				return err
			}

			password, err := readPassword(cmd)
			if err != nil {
				return err
			}

			hash, err := hasher.Hash(password)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().Int("cost", crypto.DefaultCost, "bcrypt cost")

	return cmd
}

// readPassword reads without echo from a terminal, or the first line of any other input.
func readPassword(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		password, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(password), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("empty password")
	}
	return password, nil
}

func newVerifyTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify-token <token>",
		Short: "Verify an access token against a running gRPC token verifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := cmd.Flags().GetString("addr")
			if err != nil {
				return err
			}
			timeout, err := cmd.Flags().GetDuration("timeout")
			if err != nil {
				return err
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, cancel := context.WithTimeout(parent, timeout)
			defer cancel()

			c, err := client.NewTokenVerifierClient(ctx, address)
			if err != nil {
				return err
			}
			defer c.Close()

			res, err := c.Verify(ctx, args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"valid":     res.Valid,
				"userId":    res.UserID,
				"email":     res.Email,
				"role":      res.Role,
				"expiresIn": res.ExpiresIn.String(),
			})
		},
	}

	cmd.Flags().String("addr", "localhost:9090", "Address of the gRPC token verifier")
	cmd.Flags().Duration("timeout", 5*time.Second, "Timeout of the verification call")

	return cmd
}
