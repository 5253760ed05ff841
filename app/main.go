// Package main is an entrypoint for application
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/Semior001/newsdigest/app/cmd"
	"github.com/Semior001/newsdigest/pkg/logx"
	"github.com/jessevdk/go-flags"
	"golang.org/x/exp/slog"
)

var opts struct {
	Run      cmd.Run `command:"run" description:"run newsdigest api and bot"`
	JSONLogs bool    `long:"json-logs" env:"JSON_LOGS" description:"turn on json logs"`
	Debug    bool    `long:"dbg" env:"DEBUG" description:"turn on debug mode"`
}

var version = "unknown"

func getVersion() string {
	v, ok := debug.ReadBuildInfo()
	if !ok || v.Main.Version == "(devel)" {
		return version
	}
	return v.Main.Version
}

func main() {
	p := flags.NewParser(&opts, flags.Default)
	p.CommandHandler = func(cmd flags.Commander, args []string) error {
		setupLog(opts.Debug, opts.JSONLogs)
		slog.Info("starting newsdigest", slog.String("version", getVersion()))

		opts.Run.Debug = opts.Debug
		if err := cmd.Execute(args); err != nil {
			slog.Error("failed to execute command", slog.Any("err", err))
			os.Exit(1)
		}

		return nil
	}

	if _, err := p.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "newsdigest %s: %v\n", getVersion(), err)
		os.Exit(1)
	}
}

// setupLog sets the default logger, which adds request ids from the
// context to records.
func setupLog(dbg, json bool) {
	options := slog.HandlerOptions{Level: slog.LevelInfo}
	if dbg {
		options.Level = slog.LevelDebug
		options.AddSource = true
		options.ReplaceAttr = trimSource
	}

	var h slog.Handler = options.NewTextHandler(os.Stderr)
	if json {
		h = options.NewJSONHandler(os.Stderr)
	}

	slog.SetDefault(slog.New(&logx.Chain{
		Middleware: []logx.Middleware{logx.RequestID},
		Handler:    h,
	}))
}

// trimSource leaves only the package directory and the file name in the
// source attribute.
func trimSource(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.SourceKey {
		return a
	}

	src := a.Value.String()
	if i := strings.LastIndex(src, "/"); i > 0 {
		if j := strings.LastIndex(src[:i], "/"); j >= 0 {
			src = src[j+1:]
		}
	}
	return slog.String(slog.SourceKey, src)
}
