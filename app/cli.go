// Package app is the main cmd app
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	jsoniter "github.com/json-iterator/go"

	"github.com/htol/bookshelf/book"
	"github.com/htol/bookshelf/config"
	"github.com/htol/bookshelf/logger"
)

const (
	cmdServe = "serve"
	cmdSeed  = "seed"
)

// Options are the command line flags. Set flags override the config file,
// which overrides the environment.
type Options struct {
	Config     string `short:"c" long:"config" description:"YAML configuration file"`
	Host       string `short:"H" long:"host" description:"Address to bind"`
	Port       int    `short:"p" long:"port" description:"Port number"`
	Backend    string `long:"backend" choice:"memory" choice:"sqlite" description:"Registry backend"`
	IDStrategy string `long:"id-strategy" choice:"count" choice:"monotonic" description:"How new book ids are assigned"`
	LogLevel   string `long:"log-level" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"Log level"`
}

func CLI(args []string) int {
	app := appEnv{out: os.Stdout}
	if err := app.fromArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(app.out, err)
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.run(ctx); err != nil {
		logger.Error("Runtime error", "error", err)
		return 1
	}
	return 0
}

type appEnv struct {
	config *config.Config
	cmd    string
	out    io.Writer
}

func (app *appEnv) fromArgs(args []string) error {
	var opts Options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "bookshelf"
	parser.Usage = "[OPTIONS] [serve|seed]"

	rest, err := parser.ParseArgs(args)
	if err != nil {
		return err
	}

	cfg := config.Load()
	if opts.Config != "" {
		if cfg, err = config.LoadFile(opts.Config); err != nil {
			return err
		}
	}

	// CLI flags override environment variables and the config file
	isSet := func(long string) bool {
		opt := parser.FindOptionByLongName(long)
		return opt != nil && opt.IsSet()
	}
	if isSet("host") {
		cfg.Server.Host = opts.Host
	}
	if isSet("port") {
		cfg.Server.Port = opts.Port
	}
	if isSet("backend") {
		cfg.Registry.Backend = opts.Backend
	}
	if isSet("id-strategy") {
		cfg.Registry.IDStrategy = opts.IDStrategy
	}
	if isSet("log-level") {
		cfg.LogLevel = opts.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	switch len(rest) {
	case 0:
		app.cmd = cmdServe
	case 1:
		app.cmd = rest[0]
	default:
		return fmt.Errorf("unexpected arguments: %v", rest[1:])
	}
	if app.cmd != cmdServe && app.cmd != cmdSeed {
		return fmt.Errorf("unknown command %s", app.cmd)
	}

	app.config = cfg
	return nil
}

func (app *appEnv) run(ctx context.Context) error {
	// Initialize logger
	logger.InitWithFormat(app.config.LogLevel, app.config.LogFormat, os.Stderr)

	switch app.cmd {
	case cmdSeed:
		return app.printSeed()
	case cmdServe:
		return app.serve(ctx)
	default:
		return fmt.Errorf("unknown command %s", app.cmd)
	}
}

func (app *appEnv) printSeed() error {
	out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(book.Seed(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode seed: %w", err)
	}
	_, err = fmt.Fprintln(app.out, string(out))
	return err
}

func (app *appEnv) serve(ctx context.Context) error {
	srv, err := NewServer(app.config)
	if err != nil {
		return err
	}
	defer func() {
		if err := srv.Close(); err != nil {
			logger.Error("Error closing storage", "error", err)
		}
	}()

	ln, err := srv.Listen()
	if err != nil {
		return err
	}

	if err := srv.Serve(ctx, ln); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}
