package cli

import (
	"context"
	"fmt"

	"github.com/vpetrenko/acctcli/internal/client/api"
)

// Whoami prints the current session state without touching the network.
func (a *App) Whoami(ctx context.Context) {
	st := a.session.Snapshot()
	if !st.Authenticated {
		fmt.Fprintln(a.out, "Not logged in.")
		return
	}
	if st.User != nil {
		a.printUser(st.User)
		return
	}
	if st.Subject != "" {
		fmt.Fprintf(a.out, "Logged in as %s (profile not fetched)\n", st.Subject)
		return
	}
	fmt.Fprintln(a.out, "Logged in (profile not fetched)")
}

// Profile fetches and prints the user profile.
func (a *App) Profile(ctx context.Context) error {
	user, err := a.session.Profile(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Failed to fetch profile:", err)
		return err
	}
	a.printUser(user)
	return nil
}

// UpdateProfile prompts for the new field values; empty phone/bio are sent
// as absent, not as empty strings.
func (a *App) UpdateProfile(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Enter phone (optional)", a.out)
	if err != nil {
		return err
	}
	bio, err := getSimpleText(a.reader, "Enter bio (optional)", a.out)
	if err != nil {
		return err
	}

	user, err := a.session.UpdateProfile(ctx, name, optional(phone), optional(bio))
	if err != nil {
		fmt.Fprintln(a.out, "Failed to update profile:", err)
		return err
	}

	fmt.Fprintln(a.out, "Profile updated.")
	a.printUser(user)
	return nil
}

// Refresh rotates the stored token pair.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.session.Refresh(ctx); err != nil {
		fmt.Fprintln(a.out, "Failed to refresh tokens:", err)
		return err
	}
	fmt.Fprintln(a.out, "Tokens refreshed.")
	return nil
}

// DeleteAccount asks for confirmation, then removes the account on the
// server and clears the local session.
func (a *App) DeleteAccount(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "This permanently deletes your account. Type 'yes' to confirm", a.out)
	if err != nil {
		return err
	}
	if answer != "yes" {
		fmt.Fprintln(a.out, "Canceled.")
		return nil
	}

	if err := a.session.DeleteAccount(ctx); err != nil {
		fmt.Fprintln(a.out, "Failed to delete account:", err)
		return err
	}

	fmt.Fprintln(a.out, "Account deleted.")
	return nil
}

func (a *App) printUser(u *api.User) {
	fmt.Fprintf(a.out, "%s <%s>\n", u.Name, u.Email)
	fmt.Fprintf(a.out, "  id:      %s\n", u.ID)
	fmt.Fprintf(a.out, "  created: %s\n", u.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(a.out, "  updated: %s\n", u.UpdatedAt.Format("2006-01-02 15:04:05"))
}

// optional maps an empty string to an absent field.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
