package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"

	"slideview/internal/catalog"
	"slideview/internal/server"
	"slideview/internal/slideshow"
)

var debugMode = os.Getenv("SLIDEVIEW_DEBUG") == "1"

// debugLog prints only when SLIDEVIEW_DEBUG=1
func debugLog(format string, args ...interface{}) {
	if debugMode {
		log.Printf("DEBUG: "+format, args...)
	}
}

// cliOptions holds the parsed command line
type cliOptions struct {
	Title      string
	Count      int
	Ext        string
	PDF        string
	Present    bool
	Interval   int
	Transition string
	Serve      string
	Root       string
	Catalog    string
	OpenID     string
	Args       []string
}

func parseFlags(fs *flag.FlagSet, args []string) (cliOptions, error) {
	var o cliOptions
	fs.StringVar(&o.Title, "title", "", "presentation title")
	fs.IntVar(&o.Count, "count", 0, "number of slides (0 discovers them)")
	fs.StringVar(&o.Ext, "ext", slideshow.DefaultExtension, "slide file extension")
	fs.StringVar(&o.PDF, "pdf", "", "optional PDF path or URL for download and print")
	fs.BoolVar(&o.Present, "present", false, "start presenting from slide 1")
	fs.IntVar(&o.Interval, "interval", 0, "autoplay interval in seconds")
	fs.StringVar(&o.Transition, "transition", "", "transition name or \"random\"")
	fs.StringVar(&o.Serve, "serve", "", "run the asset host on this address instead of a window")
	fs.StringVar(&o.Root, "root", "", "directory that site paths such as /images/... resolve against")
	fs.StringVar(&o.Catalog, "catalog", "", "presentation catalog JSON file")
	fs.StringVar(&o.OpenID, "open", "", "catalog id to open")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	o.Args = fs.Args()
	return o, nil
}

func (o cliOptions) loadCatalog() (*catalog.Catalog, error) {
	if o.Catalog == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(o.Catalog, o.Root)
}

// resolveDeck turns the command line into the presentation to open
func resolveDeck(o cliOptions) (Deck, error) {
	var cfg slideshow.OpenConfig
	switch {
	case o.OpenID != "":
		c, err := o.loadCatalog()
		if err != nil {
			return Deck{}, err
		}
		p, err := c.Find(o.OpenID)
		if err != nil {
			return Deck{}, err
		}
		cfg = slideshow.OpenConfig{
			Title:          p.Title,
			ImageDirectory: p.ImageDirectory,
			SlideCount:     p.SlideCount,
			FileExtension:  p.FileExtension,
			PDFURL:         p.PDFURL,
		}
	case len(o.Args) == 1:
		cfg = slideshow.OpenConfig{
			Title:          o.Title,
			ImageDirectory: o.Args[0],
			SlideCount:     o.Count,
			FileExtension:  o.Ext,
			PDFURL:         o.PDF,
		}
	case len(o.Args) > 1:
		return Deck{}, fmt.Errorf("expected one image directory, archive or URL, got %d", len(o.Args))
	default:
		return Deck{}, errors.New("no presentation given: pass a directory, archive or URL, or -open <id>")
	}

	if o.Title != "" {
		cfg.Title = o.Title
	}
	if o.PDF != "" {
		cfg.PDFURL = o.PDF
	}
	return Deck{OpenConfig: cfg, Source: resolveSource(cfg.ImageDirectory, o.Root, nil)}, nil
}

// applyOverrides folds the -interval and -transition flags into the config
func applyOverrides(cfg *Config, o cliOptions) error {
	if o.Interval != 0 {
		if !slideshow.IsValidInterval(o.Interval) {
			return fmt.Errorf("-interval %d: %w (allowed %v)", o.Interval, slideshow.ErrInvalidInterval, slideshow.SlideIntervals)
		}
		cfg.IntervalSeconds = o.Interval
	}
	if o.Transition != "" {
		if !slideshow.IsValidTransition(o.Transition) {
			return fmt.Errorf("-transition %q: %w", o.Transition, slideshow.ErrUnknownTransition)
		}
		cfg.Transition = o.Transition
	}
	return nil
}

func runServer(o cliOptions) error {
	c, err := o.loadCatalog()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		Catalog: c,
		Root:    o.Root,
		Env:     catalog.CurrentEnvironment(),
	})
	return srv.Run(ctx, o.Serve)
}

func main() {
	catalog.LoadEnv(".env")

	o, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	if o.Serve != "" {
		if err := runServer(o); err != nil {
			log.Fatal(err)
		}
		return
	}

	deck, err := resolveDeck(o)
	if err != nil {
		log.Fatal(err)
	}

	cfgResult := loadConfig()
	if err := applyOverrides(&cfgResult.Config, o); err != nil {
		log.Fatal(err)
	}

	if err := InitGraphics(); err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowTitle("slideview")
	ebiten.SetWindowSize(cfgResult.Config.WindowWidth, cfgResult.Config.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := NewGame(cfgResult, o.Root)
	g.startPresent = o.Present
	g.Open(deck)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
