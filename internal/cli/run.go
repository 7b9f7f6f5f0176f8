package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/randalmurphal/dynexport/pkg/dynexport"
	"github.com/randalmurphal/dynexport/pkg/dynexport/config"
)

// RunCmd hosts a registry for the lifetime of a command script.
type RunCmd struct {
	Config string `short:"f" long:"config" description:"settings YAML/JSON path"`
	Script string `short:"s" long:"script" description:"command script (stdin if empty)"`

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// Execute implements flags.Commander.
func (c *RunCmd) Execute(_ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.run(ctx)
}

func (c *RunCmd) run(ctx context.Context) error {
	settings, err := c.loadSettings()
	if err != nil {
		return err
	}
	level, err := config.ParseLevel(settings.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: level}))

	opts, err := dynexport.OptionsFromSettings(settings, logger)
	if err != nil {
		return err
	}
	reg, err := dynexport.Initialize(opts...)
	if err != nil {
		return fmt.Errorf("initialize registry: %w", err)
	}
	defer reg.Shutdown(context.Background())

	in := c.stdin
	if c.Script != "" {
		f, err := os.Open(c.Script)
		if err != nil {
			return fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		in = f
	}

	return NewInterpreter(reg, c.stdout).Run(ctx, in)
}

func (c *RunCmd) loadSettings() (config.Settings, error) {
	if c.Config == "" {
		return config.Defaults(), nil
	}
	s, err := config.Load(c.Config)
	if err != nil {
		return config.Settings{}, fmt.Errorf("load config: %w", err)
	}
	return s, nil
}
