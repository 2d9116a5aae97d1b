package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"marketplace/internal/domain/model"
	"marketplace/internal/usecase/auth"
)

// Shell is the menu-driven terminal frontend. The logged-in user lives here
// and is passed explicitly into every usecase call.
type Shell struct {
	app  *App
	in   *bufio.Scanner
	out  io.Writer
	user *model.User
}

func NewShell(app *App, in io.Reader, out io.Writer) *Shell {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024)
	return &Shell{app: app, in: sc, out: out}
}

func (s *Shell) Run() error {
	fmt.Fprintln(s.out, "=== Regional Marketplace ===")

	for {
		choice := s.choose("Main Menu", []string{
			"Browse products",
			"Search products",
			"Register",
			"Login",
		})

		switch choice {
		case -1:
			fmt.Fprintln(s.out, "Bye.")
			return nil
		case 0:
			s.browseProducts("")
		case 1:
			q := s.prompt("Search: ")
			s.browseProducts(q)
		case 2:
			s.register()
		case 3:
			s.login()
		}

		if s.user != nil {
			if s.user.IsMerchant() {
				s.merchantMenu()
			} else {
				s.customerMenu()
			}
			s.user = nil
		}
	}
}

func (s *Shell) register() {
	username := s.promptRequired("Username: ")
	email := s.promptRequired("Email: ")
	password := s.promptRequired("Password (min 8 chars): ")

	role := model.RoleCustomer
	if s.confirm("Register as merchant? [y/N]: ") {
		role = model.RoleMerchant
	}

	user, err := s.app.Register.Register(context.Background(), auth.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
		Role:     role,
	})
	if err != nil {
		s.printErr(err)
		return
	}

	fmt.Fprintf(s.out, "Welcome, %s! You are registered as %s.\n", user.Username, user.Role)
	s.user = user
}

func (s *Shell) login() {
	login := s.promptRequired("Username or email: ")
	password := s.promptRequired("Password: ")

	out, err := s.app.Login.Login(context.Background(), login, password)
	if err != nil {
		s.printErr(err)
		return
	}

	fmt.Fprintf(s.out, "Logged in as %s (%s).\n", out.User.Username, out.User.Role)
	s.user = out.User
}

func (s *Shell) changePassword() {
	oldPassword := s.promptRequired("Current password: ")
	newPassword := s.promptRequired("New password (min 8 chars): ")

	err := s.app.Password.ChangePassword(context.Background(), *s.user, oldPassword, newPassword)
	if err != nil {
		s.printErr(err)
		return
	}
	fmt.Fprintln(s.out, "Password changed.")
}

// choose prints a numbered menu and returns the zero-based pick, or -1 for
// back/exit.
func (s *Shell) choose(title string, options []string) int {
	fmt.Fprintf(s.out, "\n--- %s ---\n", title)
	for i, opt := range options {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, opt)
	}
	fmt.Fprintln(s.out, "0. Back/Exit")

	for {
		n, ok := s.readInt(fmt.Sprintf("Choice (0-%d): ", len(options)))
		if !ok {
			return -1
		}
		if n == 0 {
			return -1
		}
		if n >= 1 && n <= len(options) {
			return n - 1
		}
		fmt.Fprintln(s.out, "Invalid choice.")
	}
}

func (s *Shell) prompt(label string) string {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return ""
	}
	return strings.TrimSpace(s.in.Text())
}

func (s *Shell) promptRequired(label string) string {
	for {
		v := s.prompt(label)
		if v != "" {
			return v
		}
		fmt.Fprintln(s.out, "This field is required.")
	}
}

func (s *Shell) confirm(label string) bool {
	v := strings.ToLower(s.prompt(label))
	return v == "y" || v == "yes"
}

func (s *Shell) readInt(label string) (int, bool) {
	for {
		v := s.prompt(label)
		if v == "" {
			return 0, false
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			fmt.Fprintln(s.out, "Invalid input. Expected an integer.")
			continue
		}
		return n, true
	}
}

func (s *Shell) readInt64(label string) (int64, bool) {
	n, ok := s.readInt(label)
	return int64(n), ok
}

func (s *Shell) printErr(err error) {
	fmt.Fprintf(s.out, "Error: %s\n", errMessage(err))
}
