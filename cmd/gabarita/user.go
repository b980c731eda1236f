package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gabarita/gabarita-backend/internal/model"
	"github.com/gabarita/gabarita-backend/internal/service"
)

func createUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a student or teacher account interactively",
		RunE:  runCreateUser,
	}
	cmd.Flags().StringP("role", "r", string(model.RoleTeacher), "Account role (student, teacher)")
	return cmd
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	roleFlag, _ := cmd.Flags().GetString("role")
	role := model.Role(strings.ToLower(strings.TrimSpace(roleFlag)))
	if role != model.RoleStudent && role != model.RoleTeacher {
		return fmt.Errorf("role must be student or teacher, got %q", roleFlag)
	}

	ctx := cmd.Context()
	cfg, st, log, err := openStores(ctx, cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	authService := service.NewAuthService(cfg, st.Users, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())

	fmt.Fprintf(out, "=== Create New %s ===\n", role)

	fmt.Fprint(out, "Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("name is required")
	}

	fmt.Fprint(out, "Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}

	fmt.Fprint(out, "Enter Password: ")
	password, err := readPassword(reader)
	fmt.Fprintln(out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	u, err := authService.CreateUser(ctx, name, email, password, role)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return fmt.Errorf("email %s is already registered", email)
		}
		return err
	}

	fmt.Fprintf(out, "\nSuccess! %s '%s' (%s) created with ID: %s\n", u.Role, u.Name, u.Email, u.ID)
	return nil
}

// readPassword reads without echo from a terminal, or a plain line when stdin
// is piped.
func readPassword(reader *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		return string(b), err
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
