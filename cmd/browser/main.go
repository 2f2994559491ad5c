// Command browser lists followed Twitch channels, searches channels and
// shows a channel's videos and clips. The serve subcommand exposes the same
// data as a local JSON API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/Guliveer/twitch-browser-go/internal/aggregate"
	"github.com/Guliveer/twitch-browser-go/internal/auth"
	"github.com/Guliveer/twitch-browser-go/internal/config"
	"github.com/Guliveer/twitch-browser-go/internal/constants"
	"github.com/Guliveer/twitch-browser-go/internal/httpclient"
	"github.com/Guliveer/twitch-browser-go/internal/logger"
	"github.com/Guliveer/twitch-browser-go/internal/model"
	"github.com/Guliveer/twitch-browser-go/internal/server"
	"github.com/Guliveer/twitch-browser-go/internal/twitch"
)

const usage = `Usage: browser [flags] <command> [args]

Commands:
  followed              live and offline followed channels
  live                  live followed channels
  search <query>        search channels
  media <user-id>       videos or clips of a channel
  videos <user-id>      videos of a channel
  serve                 run the local JSON API

Flags:
`

func main() {
	configPath := flag.String("config", config.DefaultConfigFile, "Path to the configuration file")
	logLevel := flag.String("log-level", "", "Log level: DEBUG, INFO, WARN, ERROR (overrides config and LOG_LEVEL env)")
	noColor := flag.Bool("no-color", false, "Disable colored output (overrides TTY detection)")
	jsonOut := flag.Bool("json", false, "Print results as JSON")
	addr := flag.String("addr", constants.DefaultServerAddr, "Listen address for serve")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	level := logger.ParseLevel(cfg.Log.Level)
	if *logLevel != "" {
		level = logger.ParseLevel(*logLevel)
	}

	colorAllowed := !*noColor && os.Getenv("NO_COLOR") == ""
	colored := colorAllowed && term.IsTerminal(int(os.Stdout.Fd()))

	// Logs go to stderr so table and JSON output stay clean on stdout.
	rootLog, err := logger.Setup(logger.Config{
		Level:     level,
		FileLevel: slog.LevelDebug,
		Colored:   colorAllowed && term.IsTerminal(int(os.Stderr.Fd())),
		LogDir:    cfg.Log.Dir,
		Output:    os.Stderr,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logger: %v\n", err)
		os.Exit(1)
	}

	if err := config.Validate(cfg); err != nil {
		rootLog.Error("Invalid config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	creds, err := auth.NewCredentials(cfg.AuthToken, cfg.ClientID)
	if err != nil {
		rootLog.Error("Invalid credentials", "error", err)
		os.Exit(1)
	}

	client := twitch.NewClient(creds,
		twitch.WithHost(cfg.APIHost),
		twitch.WithLogger(rootLog.WithComponent("Helix")),
		twitch.WithHTTPOptions(httpclient.WithTimeout(cfg.Timeout)),
	)

	app := &app{
		api: client,
		opts: aggregate.Options{
			Log:          rootLog,
			MinViewCount: cfg.MinViewCount(),
			HideOffline:  cfg.Followed.HideOffline,
			Workers:      constants.UserLookupWorkers,
		},
		log: rootLog,
		out: newPrinter(os.Stdout, *jsonOut, colored, cfg.AccentColor),
	}

	cmd, args := flag.Arg(0), flag.Args()[1:]
	if cmd == "serve" {
		if err := app.serve(*addr); err != nil {
			rootLog.Error("Server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.run(ctx, cmd, args); err != nil {
		var usageErr usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintln(os.Stderr, err)
			flag.Usage()
			os.Exit(2)
		}
		rootLog.Error("Command failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}

type usageError string

func (e usageError) Error() string { return string(e) }

type app struct {
	api  twitch.API
	opts aggregate.Options
	log  *logger.Logger
	out  *printer
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "followed":
		return a.followed(ctx)
	case "live":
		snap := aggregate.NewLiveFollowed(a.api, a.opts).Run(ctx)
		if err := a.out.streams(snap.Live); err != nil {
			return err
		}
		return snap.Err
	case "search":
		if len(args) == 0 {
			return usageError("search: missing query")
		}
		snap := aggregate.NewSearch(a.api, a.opts).Run(ctx, args[0])
		if err := a.out.channels(snap.Live, snap.Offline); err != nil {
			return err
		}
		return snap.Err
	case "media":
		return a.media(ctx, args)
	case "videos":
		return a.videos(ctx, args)
	default:
		return usageError(fmt.Sprintf("unknown command %q", cmd))
	}
}

// followed prints live channels as soon as they are published, then the
// offline ones once the pass settles.
func (a *app) followed(ctx context.Context) error {
	agg := aggregate.NewFollowed(a.api, a.opts)

	printedLive := false
	var printErr error
	if !a.out.json {
		agg.Subscribe(func(s aggregate.FollowedSnapshot) {
			if printedLive || (s.Loading && len(s.Live) == 0) {
				return
			}
			printedLive = true
			printErr = a.out.streams(s.Live)
		})
	}

	snap := agg.Run(ctx)
	if printErr != nil {
		return printErr
	}

	if a.out.json {
		if err := a.out.writeJSON(map[string]any{"live": snap.Live, "offline": snap.Offline}); err != nil {
			return err
		}
	} else if !a.opts.HideOffline {
		if err := a.out.users(snap.Offline); err != nil {
			return err
		}
	}
	return snap.Err
}

func (a *app) media(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("media", flag.ContinueOnError)
	kind := fs.String("kind", string(model.MediaVideo), "Media kind: video or clip")
	videoType := fs.String("type", "", "Video type: all, upload, archive, highlight")
	period := fs.String("period", "", "Video period: all, day, week, month")
	sort := fs.String("sort", "", "Video sort: time, trending, views")
	first := fs.Int("first", 0, "Maximum number of items (1-100)")
	userID, err := parseWithID(fs, args)
	if err != nil {
		return err
	}

	page := twitch.Page{First: *first}
	videoQ := &twitch.VideoQuery{
		Page:   page,
		Type:   model.VideoType(*videoType),
		Period: model.VideoPeriod(*period),
		Sort:   model.VideoSort(*sort),
	}
	if err := videoQ.Validate(); err != nil {
		return usageError("media: " + err.Error())
	}
	clipQ := &twitch.ClipQuery{Page: page}

	snap := aggregate.NewMedia(a.api, a.opts).RunKind(ctx, userID, *kind, videoQ, clipQ)
	if snap.Err == nil {
		switch snap.Kind {
		case model.MediaVideo:
			err = a.out.videos(snap.Videos)
		case model.MediaClip:
			err = a.out.clips(snap.Clips)
		}
		if err != nil {
			return err
		}
	}
	return snap.Err
}

func (a *app) videos(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("videos", flag.ContinueOnError)
	first := fs.Int("first", 0, "Maximum number of videos (1-100)")
	userID, err := parseWithID(fs, args)
	if err != nil {
		return err
	}

	snap := aggregate.NewVideos(a.api, a.opts).Run(ctx, userID, &twitch.VideoQuery{Page: twitch.Page{First: *first}})
	if err := a.out.videos(snap.Videos); err != nil {
		return err
	}
	return snap.Err
}

// parseWithID accepts the user id before or after the subcommand flags.
func parseWithID(fs *flag.FlagSet, args []string) (string, error) {
	var id string
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		id, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return "", usageError(err.Error())
	}
	if id == "" && fs.NArg() > 0 {
		id = fs.Arg(0)
	}
	if id == "" {
		return "", usageError(fs.Name() + ": missing user id")
	}
	return id, nil
}

func (a *app) serve(addr string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := server.New(addr, a.api, a.opts, a.log.WithComponent("API"))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	g.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case sig := <-sigCh:
			a.log.Info("Received shutdown signal", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.log.Info("👋 Browser API stopped")
	return nil
}
