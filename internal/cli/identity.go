package cli

import (
	"errors"
	"strings"
	"time"

	"taskboard/internal/identity"
	"taskboard/internal/model"
	"taskboard/internal/store"

	"github.com/spf13/cobra"
)

func newIdentityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Sign in, sign out and inspect the current user",
	}

	cmd.AddCommand(newIdentitySignInCmd(app))
	cmd.AddCommand(newIdentitySignOutCmd(app))
	cmd.AddCommand(newIdentityWhoamiCmd(app))
	cmd.AddCommand(newIdentityTokenCmd(app))

	return cmd
}

func newIdentitySignInCmd(app *App) *cobra.Command {
	var token, id, email, firstName, lastName, role string

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in with an identity token (--token) or a local profile (--id)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var u *model.UserProfile
			switch {
			case strings.TrimSpace(token) != "":
				claims, err := identity.ParseToken(token, app.JWTSecret)
				if err != nil {
					return writeErr(cmd, err)
				}
				u = claims.Profile()
			case strings.TrimSpace(id) != "":
				u = &model.UserProfile{
					ID:          strings.TrimSpace(id),
					Email:       strings.TrimSpace(email),
					FirstName:   strings.TrimSpace(firstName),
					LastName:    strings.TrimSpace(lastName),
					Role:        model.NormalizeRole(strings.TrimSpace(role)),
					Permissions: []string{},
				}
			default:
				return writeErr(cmd, errUsage("missing --token or --id"))
			}

			sess, err := openSession(app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			sess.Board.SetActor(u)
			if err := sess.persisted(); err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.Store.AppendEvent(cmd.Context(), u.ID, store.EventUserSignIn, u.ID, map[string]any{"role": string(u.Role)}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, u)
		},
	}
	cmd.Flags().StringVar(&token, "token", envOr("TASKBOARD_TOKEN", ""), "Identity token (JWT); verified when TASKBOARD_JWT_SECRET is set")
	cmd.Flags().StringVar(&id, "id", "", "User id (local sign-in)")
	cmd.Flags().StringVar(&email, "email", "", "Email (local sign-in)")
	cmd.Flags().StringVar(&firstName, "first-name", "", "First name (local sign-in)")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name (local sign-in)")
	cmd.Flags().StringVar(&role, "role", string(model.RoleEmployee), "Role (admin|employee)")
	return cmd
}

func newIdentitySignOutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Forget the current user",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			prev := sess.Board.Actor()
			sess.Board.SetActor(nil)
			if err := sess.persisted(); err != nil {
				return writeErr(cmd, err)
			}
			if prev != nil {
				if err := sess.Store.AppendEvent(cmd.Context(), prev.ID, store.EventUserSignOut, prev.ID, nil); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"signedOut": prev != nil})
		},
	}
}

func newIdentityWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			u, err := sess.actor()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, u)
		},
	}
}

func newIdentityTokenCmd(app *App) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an HS256 token for the signed-in user (needs TASKBOARD_JWT_SECRET)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.JWTSecret == "" {
				return writeErr(cmd, errors.New("TASKBOARD_JWT_SECRET is not set"))
			}
			sess, err := openSession(app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			u, err := sess.actor()
			if err != nil {
				return writeErr(cmd, err)
			}
			tok, err := identity.Sign(*u, app.JWTSecret, ttl)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"token": tok})
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime (0 = no expiry)")
	return cmd
}
