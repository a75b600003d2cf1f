package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dmitrijs2005/imgbox/internal/common"
)

var errUsage = errors.New("usage")

// Register prompts for name, email and a hidden password and creates the
// account.
func (a *App) Register(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.commandContext(ctx)
	defer cancel()

	u, err := a.service.Register(ctx, name, email, password)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return fmt.Errorf("email %s is already registered", email)
		}
		return err
	}

	fmt.Fprintf(a.out, "Registered user #%d\n", u.ID)
	return nil
}

func (a *App) Get(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: get <id>")
		return errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("id must be an integer: %q", args[0])
	}

	ctx, cancel := a.commandContext(ctx)
	defer cancel()

	u, err := a.service.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			fmt.Fprintf(a.out, "User #%d not found\n", id)
			return nil
		}
		return err
	}

	fmt.Fprintf(a.out, "#%d %s <%s>\n", u.ID, u.Name, u.Email)
	return nil
}

func (a *App) List(ctx context.Context) error {
	ctx, cancel := a.commandContext(ctx)
	defer cancel()

	list, err := a.service.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No users")
		return nil
	}
	for _, u := range list {
		fmt.Fprintf(a.out, "#%d %s <%s>\n", u.ID, u.Name, u.Email)
	}
	return nil
}

func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: upload <path>")
		return errUsage
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	ctx, cancel := a.commandContext(ctx)
	defer cancel()

	p, err := a.service.UploadPhoto(ctx, filepath.Base(args[0]), f)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Stored as %s at %s\n", p.Filename, p.Location)
	return nil
}

func (a *App) Ping(ctx context.Context) error {
	ctx, cancel := a.commandContext(ctx)
	defer cancel()

	if err := a.service.Ping(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Server is up")
	return nil
}
