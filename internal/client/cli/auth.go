package cli

import (
	"context"
	"fmt"
)

func (a *App) Register(ctx context.Context) {
	username, err := GetSimpleText(a.in, "Choose a username", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	if err := a.api.Register(ctx, username, password); err != nil {
		fmt.Fprintln(a.out, "registration failed:", err.Error())
		return
	}
	fmt.Fprintln(a.out, "registered, you can log in now")
}

func (a *App) Login(ctx context.Context) {
	username, err := GetSimpleText(a.in, "Username", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	if err := a.api.Login(ctx, username, password); err != nil {
		fmt.Fprintln(a.out, "login failed:", err.Error())
		return
	}
	a.userName = username
	fmt.Fprintln(a.out, "logged in")
}

// Logout drops the bearer token and wipes cached storage credentials.
func (a *App) Logout(ctx context.Context) {
	a.api.Logout()
	a.cache.Clear(ctx)
	a.userName = ""
	fmt.Fprintln(a.out, "logged out")
}
