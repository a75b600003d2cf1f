package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/imgbox/internal/client/config"
	"github.com/dmitrijs2005/imgbox/internal/client/service"
)

type App struct {
	config  *config.Config
	service service.Service
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	svc, err := service.NewHTTPClient(c.ServerAddr, c.Timeout)
	if err != nil {
		return nil, err
	}
	return newApp(c, svc, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, svc service.Service, in io.Reader, out io.Writer) *App {
	return &App{config: c, service: svc, reader: bufio.NewReader(in), out: out}
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintf(a.out, "imgbox CLI, server %s (type 'help' for commands)\n", a.config.ServerAddr)
	runREPL(ctx, a, a.reader)
}

// commandContext bounds one command by the configured timeout.
func (a *App) commandContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.Timeout+time.Second)
}
