package cmd

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/jimezsa/jobfinder/internal/ui"
)

type Context struct {
	// Ctx is cancelled on interrupt.
	Ctx        context.Context
	Out        io.Writer
	Err        io.Writer
	UI         *ui.UI
	ConfigDir  string
	Logger     zerolog.Logger
	Verbose    bool
	JSONOutput bool
	PlainText  bool
	Version    string
	ColorMode  ui.ColorMode
	Now        func() time.Time
}

func (c *Context) context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

func (c *Context) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
