package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/gdamore/tcell/v2"
	flags "github.com/jessevdk/go-flags"

	"github.com/kobzarvs/prompt/internal/config"
	"github.com/kobzarvs/prompt/internal/editor"
	"github.com/kobzarvs/prompt/internal/logger"
	"github.com/kobzarvs/prompt/internal/token"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

type Options struct {
	Config  string `short:"c" long:"config" description:"configuration directory" value-name:"DIR"`
	Theme   string `short:"t" long:"theme" description:"theme name" value-name:"NAME"`
	Print   bool   `short:"p" long:"print" description:"print the command line even when the session is discarded"`
	NoColor bool   `long:"no-color" description:"disable highlighting"`
	Debug   bool   `short:"d" long:"debug" description:"enable debug logging"`
	Version bool   `short:"V" long:"version" description:"print version and exit"`
}

// App is the top-level runtime for prompt.
type App struct {
	args   []string
	stdout io.Writer
}

func New(args []string) *App {
	return &App{args: args, stdout: os.Stdout}
}

func (a *App) Run() error {
	var opts Options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Usage = "[options] -- command [args...]"
	rest, err := parser.ParseArgs(a.args)
	if err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			parser.WriteHelp(a.stdout)
			return nil
		}
		return err
	}
	if opts.Version {
		fmt.Fprintln(a.stdout, "prompt "+Version)
		return nil
	}
	if opts.Config != "" {
		os.Setenv("PROMPT_CONFIG_HOME", opts.Config)
	}

	if err := logger.Init(opts.Debug); err != nil {
		return err
	}
	defer logger.Close()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.Theme != "" {
		theme, err := config.LoadTheme(opts.Theme)
		if err != nil {
			return err
		}
		cfg.ApplyTheme(theme)
	}
	if opts.NoColor {
		cfg.Editor.Color = false
	}

	line := assembleLine(rest)
	if line == "" {
		return errors.New("no command to edit, pass one after --")
	}
	logger.Info("session start", "line", line)

	runtime.LockOSThread()
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ed := editor.New(cfg, line)
	ed.Render(screen)
	for {
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ed.HandleKey(ev) {
				// Restore the terminal before writing the result.
				screen.Fini()
				result, print := ed.Result()
				if print || opts.Print {
					fmt.Fprintln(a.stdout, result)
				}
				logger.Info("session finished", "line", result, "printed", print || opts.Print)
				return nil
			}
		case *tcell.EventResize:
			screen.Sync()
		}
		ed.Render(screen)
	}
}

// assembleLine rebuilds a single command line from argv words, re-quoting
// the words the shell stripped quotes from.
func assembleLine(args []string) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = token.QuoteValue(arg)
	}
	return strings.Join(parts, " ")
}
