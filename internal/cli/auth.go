package cli

import (
	"context"
	"time"

	"github.com/spf13/pflag"

	"github.com/iliyamo/bus-booking-client/internal/model"
)

func (a *App) loginCmd() *Command {
	var email, password string
	return &Command{
		Name:    "login",
		Summary: "Sign in and store the tokens",
		Usage:   "busctl login --email <email> --password <password>",
		Flags: func() *pflag.FlagSet {
			fs := newFlags("login")
			fs.StringVarP(&email, "email", "e", "", "account e-mail")
			fs.StringVarP(&password, "password", "p", "", "account password")
			return fs
		},
		Run: func(ctx context.Context, _ []string) error {
			u, err := a.session.Login(ctx, email, password)
			if err != nil {
				return err
			}
			a.printf("Welcome back, %s\n", u.FullName)
			return nil
		},
	}
}

func (a *App) registerCmd() *Command {
	var req model.RegisterRequest
	return &Command{
		Name:    "register",
		Summary: "Create an account and sign in",
		Flags: func() *pflag.FlagSet {
			fs := newFlags("register")
			fs.StringVar(&req.Email, "email", "", "e-mail address")
			fs.StringVar(&req.Phone, "phone", "", "phone number")
			fs.StringVar(&req.Password, "password", "", "password")
			fs.StringVar(&req.FullName, "name", "", "full name")
			return fs
		},
		Run: func(ctx context.Context, _ []string) error {
			u, err := a.session.Register(ctx, req)
			if err != nil {
				return err
			}
			a.printf("Account created for %s <%s>\n", u.FullName, u.Email)
			return nil
		},
	}
}

func (a *App) logoutCmd() *Command {
	return &Command{
		Name:    "logout",
		Summary: "Revoke the refresh token and forget the session",
		Run: func(ctx context.Context, _ []string) error {
			if err := a.session.Logout(ctx); err != nil {
				return err
			}
			a.printf("Logged out\n")
			return nil
		},
	}
}

func (a *App) whoamiCmd() *Command {
	return &Command{
		Name:    "whoami",
		Summary: "Show the signed-in user",
		Run: func(ctx context.Context, _ []string) error {
			u, err := a.user(ctx)
			if err != nil {
				return err
			}
			a.printf("%s <%s>\nphone: %s\nrole:  %s\n", u.FullName, u.Email, u.Phone, roleOf(u))
			if exp, err := a.session.AccessExpiry(ctx); err == nil {
				a.printf("access token expires %s\n", exp.Local().Format(time.DateTime))
			}
			return nil
		},
	}
}

func roleOf(u model.User) string {
	if u.Role == "" {
		return "user"
	}
	return u.Role
}
