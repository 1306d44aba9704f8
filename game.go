package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"slideview/internal/catalog"
	"slideview/internal/document"
	"slideview/internal/prefs"
	"slideview/internal/slideshow"
)

// ebitenFullscreen drives the window's fullscreen state and restores the
// windowed size on exit
type ebitenFullscreen struct {
	savedW, savedH int
}

func (f *ebitenFullscreen) SetFullscreen(on bool) error {
	if on == ebiten.IsFullscreen() {
		return nil
	}
	if on {
		f.savedW, f.savedH = ebiten.WindowSize()
		ebiten.SetFullscreen(true)
		return nil
	}
	ebiten.SetFullscreen(false)
	if f.savedW > 0 && f.savedH > 0 {
		ebiten.SetWindowSize(f.savedW, f.savedH)
	}
	return nil
}

func (f *ebitenFullscreen) IsFullscreen() bool {
	return ebiten.IsFullscreen()
}

// windowSize returns the size to persist, ignoring a fullscreen window
func (f *ebitenFullscreen) windowSize() (int, int) {
	if ebiten.IsFullscreen() && f.savedW > 0 && f.savedH > 0 {
		return f.savedW, f.savedH
	}
	return ebiten.WindowSize()
}

// Deck is a presentation as resolved for the window
type Deck struct {
	slideshow.OpenConfig
	Source slideSource
}

// Game is the ebiten front end around one slideshow controller
type Game struct {
	ctrl       *slideshow.Controller
	store      *prefs.Store
	unsubPrefs func()
	fullscreen *ebitenFullscreen

	images              *SlideImageManager
	renderer            *Renderer
	inputHandler        *InputHandler
	keybindingManager   *KeybindingManager
	mousebindingManager *MousebindingManager
	touches             *touchTracker
	httpClient          *http.Client

	config       Config
	configStatus ConfigLoadResult
	root         string
	startPresent bool

	showHelp           bool
	showInfo           bool
	info               slideshow.Flip
	pageInputMode      bool
	pageInputBuffer    string
	overlayMessage     string
	overlayMessageTime time.Time

	// transition between the previous and the current slide
	renderKey       string
	session         string
	shownIndex      int
	prevIndex       int
	hasPrev         bool
	transition      slideshow.TransitionSpec
	transitionStart time.Time

	notices  chan string
	bgCtx    context.Context
	bgCancel context.CancelFunc
	bg       sync.WaitGroup
	exiting  bool
}

// NewGame wires the controller, image manager and input handling for cfg
func NewGame(cfgResult ConfigLoadResult, root string) *Game {
	cfg := cfgResult.Config
	store := prefs.NewStore(prefs.Preferences{
		Transition:      cfg.Transition,
		IntervalSeconds: cfg.IntervalSeconds,
	})
	fs := &ebitenFullscreen{}
	ctx, cancel := context.WithCancel(context.Background())

	g := &Game{
		store:        store,
		fullscreen:   fs,
		images:       NewSlideImageManager(cfg.CacheSize, cfg.PreloadCount, cfg.PreloadEnabled),
		touches:      newTouchTracker(),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		config:       cfg,
		configStatus: cfgResult,
		root:         root,
		notices:      make(chan string, 8),
		bgCtx:        ctx,
		bgCancel:     cancel,
	}
	g.ctrl = slideshow.NewController(
		slideshow.WithFullscreen(fs),
		slideshow.WithFullscreenOnOpen(cfg.Fullscreen),
		slideshow.WithPreferences(store),
	)
	g.unsubPrefs = store.Subscribe(g.preferencesChanged)

	g.keybindingManager = NewKeybindingManager(cfg.Keybindings)
	g.mousebindingManager = NewMousebindingManager(cfg.Mousebindings, cfg.MouseSettings)
	g.inputHandler = NewInputHandler(g, g, g.keybindingManager, g.mousebindingManager)
	g.renderer = NewRenderer(g)
	return g
}

// Open shows deck. A zero slide count is resolved by counting the source.
func (g *Game) Open(deck Deck) {
	if deck.SlideCount == 0 && deck.Source != nil {
		n, err := deck.Source.CountSlides(deck.FileExtension)
		if err != nil {
			log.Printf("Warning: %v", err)
		}
		deck.SlideCount = n
	}
	if deck.InitialZoom == 0 {
		deck.InitialZoom = g.config.DefaultZoom
	}

	g.resetGestures()
	g.ctrl.Open(deck.OpenConfig)
	view := g.ctrl.State()
	g.images.SetSlides(view.Slides, deck.Source)
	g.images.StartPreload(view.Index, NavigationForward)
	ebiten.SetWindowTitle(view.Title + " - slideview")

	if g.startPresent {
		g.ctrl.StartPresentation()
	}
}

// resetGestures drops contacts held across a session change so a finger
// still down starts a fresh gesture instead of continuing the old one
func (g *Game) resetGestures() {
	g.touches.reset()
}

func (g *Game) preferencesChanged(p prefs.Preferences) {
	g.config.Transition = p.Transition
	g.config.IntervalSeconds = p.IntervalSeconds
}

// Update advances one frame: notices, fullscreen reconciliation, input,
// autoplay and transition tracking
func (g *Game) Update() error {
	now := time.Now()

	select {
	case msg := <-g.notices:
		g.ShowOverlayMessage(msg)
	default:
	}

	view := g.ctrl.State()
	if view.Open && view.Fullscreen != ebiten.IsFullscreen() {
		g.ctrl.FullscreenChanged(ebiten.IsFullscreen())
	}

	g.inputHandler.HandleInput(now)
	g.handleTouches()

	if g.exiting {
		g.shutdown()
		return ebiten.Termination
	}

	g.ctrl.Tick(now)
	g.trackSlideChange(now)
	return nil
}

func (g *Game) handleTouches() {
	events := g.touches.update(currentTouches())
	for _, ev := range events {
		g.ctrl.HandleTouch(ev)
	}
}

// trackSlideChange starts a transition whenever the render key changes
func (g *Game) trackSlideChange(now time.Time) {
	view := g.ctrl.State()
	key := g.ctrl.RenderKey()
	if key == g.renderKey && view.SessionID == g.session {
		return
	}

	sameSession := view.SessionID == g.session && g.renderKey != ""
	g.hasPrev = sameSession && view.Open && g.shownIndex != view.Index
	g.prevIndex = g.shownIndex
	g.transition = g.ctrl.ActiveTransition()
	g.transitionStart = now

	if view.Open {
		direction := NavigationJump
		switch view.Index - g.shownIndex {
		case 1:
			direction = NavigationForward
		case -1:
			direction = NavigationBackward
		}
		if !sameSession {
			direction = NavigationForward
		}
		g.images.StartPreload(view.Index, direction)
	}

	g.renderKey = key
	g.session = view.SessionID
	g.shownIndex = view.Index
}

// transitionLayers returns the exiting and entering keyframes at now.
// Once the transition has finished only the resting slide is drawn.
func transitionLayers(spec slideshow.TransitionSpec, elapsed time.Duration, hasPrev bool) (leave, enter slideshow.Keyframe, animating bool) {
	t := slideshow.Progress(elapsed)
	if t >= 1 {
		return nil, slideshow.Keyframe{}, false
	}
	if hasPrev {
		leave = spec.Leave(t)
	}
	return leave, spec.Enter(t), true
}

// Layers implements RenderState
func (g *Game) Layers(now time.Time) []slideLayer {
	view := g.ctrl.State()
	if !view.Open || view.Slides.Len() == 0 {
		return nil
	}

	leave, enter, animating := transitionLayers(g.transition, now.Sub(g.transitionStart), g.hasPrev)
	var layers []slideLayer
	if animating && leave != nil {
		layers = append(layers, slideLayer{Image: g.images.GetImage(g.prevIndex), Keyframe: leave})
	}
	return append(layers, slideLayer{Image: g.images.GetImage(view.Index), Keyframe: enter})
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// shutdown persists the window size and releases background work
func (g *Game) shutdown() {
	g.config.WindowWidth, g.config.WindowHeight = g.fullscreen.windowSize()
	saveConfig(g.config)

	g.ctrl.Close()
	g.resetGestures()
	g.unsubPrefs()
	g.bgCancel()
	g.bg.Wait()
	g.images.Close()
	g.renderer.Dispose()
}

// notify queues msg for the overlay from a background goroutine
func (g *Game) notify(msg string) {
	select {
	case g.notices <- msg:
	default:
		debugLog("notice dropped: %s", msg)
	}
}

func (g *Game) documentActions() *document.Actions {
	view := g.ctrl.State()
	pdf := view.PDFURL
	if pdf != "" && !catalog.IsRemote(pdf) {
		pdf = resolveLocalPath(pdf, g.root)
	}
	return &document.Actions{
		PDFURL:      pdf,
		Title:       view.Title,
		DownloadDir: g.config.DownloadDir,
		Client:      g.httpClient,
	}
}

// RenderState

func (g *Game) Viewer() slideshow.ViewerState         { return g.ctrl.State() }
func (g *Game) IsShowingHelp() bool                   { return g.showHelp }
func (g *Game) IsShowingInfo() bool                   { return g.showInfo }
func (g *Game) InfoCard() *slideshow.Flip             { return &g.info }
func (g *Game) IsInPageInputMode() bool               { return g.pageInputMode }
func (g *Game) GetPageInputBuffer() string            { return g.pageInputBuffer }
func (g *Game) GetOverlayMessage() string             { return g.overlayMessage }
func (g *Game) GetOverlayMessageTime() time.Time      { return g.overlayMessageTime }
func (g *Game) CanDownload() bool                     { return g.ctrl.CanDownload() }
func (g *Game) CanPrint() bool                        { return g.ctrl.CanPrint() }
func (g *Game) GetFontSize() float64                  { return g.config.HelpFontSize }
func (g *Game) GetConfigStatus() ConfigLoadResult     { return g.configStatus }
func (g *Game) GetKeybindings() map[string][]string   { return g.config.Keybindings }
func (g *Game) GetMousebindings() map[string][]string { return g.config.Mousebindings }

// InputState

func (g *Game) IsZoomed() bool {
	return g.ctrl.State().Scale > 1
}

// InputActions

func (g *Game) Exit() {
	g.exiting = true
}

// CloseViewer backs out one level: presentation, then fullscreen, then the app
func (g *Game) CloseViewer() {
	view := g.ctrl.State()
	switch {
	case g.showHelp:
		g.showHelp = false
	case view.Presenting:
		g.ctrl.StopPresentation()
	case view.Fullscreen:
		if err := g.ctrl.ToggleFullscreen(); err != nil {
			g.ShowOverlayMessage("Fullscreen unavailable")
		}
	default:
		g.exiting = true
	}
}

func (g *Game) ToggleHelp() {
	g.showHelp = !g.showHelp
}

func (g *Game) ToggleInfo() {
	g.showInfo = !g.showInfo
}

func (g *Game) FlipInfo() {
	if !g.showInfo {
		g.showInfo = true
		return
	}
	g.info.Turn(time.Now())
}

func (g *Game) ToggleFullscreen() {
	if err := g.ctrl.ToggleFullscreen(); err != nil {
		if errors.Is(err, slideshow.ErrFullscreenBusy) {
			g.ShowOverlayMessage("Fullscreen is in use by another viewer")
			return
		}
		g.ShowOverlayMessage("Fullscreen unavailable")
	}
}

func (g *Game) EnterPageInputMode() {
	g.pageInputMode = true
	g.pageInputBuffer = ""
}

func (g *Game) ExitPageInputMode() {
	g.pageInputMode = false
	g.pageInputBuffer = ""
}

func (g *Game) ProcessPageInput() {
	idx, err := parsePageInput(g.pageInputBuffer, g.ctrl.State().Slides.Len())
	if err != nil {
		g.ShowOverlayMessage(err.Error())
		return
	}
	g.ctrl.GoToSlide(idx)
}

func (g *Game) UpdatePageInputBuffer(buffer string) {
	g.pageInputBuffer = buffer
}

func (g *Game) GoToFirst() { g.ctrl.GoToFirst() }
func (g *Game) GoToPrev()  { g.ctrl.GoToPrev() }
func (g *Game) GoToNext()  { g.ctrl.GoToNext() }
func (g *Game) GoToLast()  { g.ctrl.GoToLast() }

func (g *Game) TogglePresentation() {
	if g.ctrl.State().Presenting {
		g.ctrl.StopPresentation()
		g.ShowOverlayMessage("Presentation stopped")
		return
	}
	g.ctrl.StartPresentation()
	g.ShowOverlayMessage("Presenting")
}

func (g *Game) TogglePlayPause() {
	g.ctrl.TogglePlayPause()
	view := g.ctrl.State()
	if !view.Presenting {
		return
	}
	if view.Playing {
		g.ShowOverlayMessage("Playing")
	} else {
		g.ShowOverlayMessage("Paused")
	}
}

func (g *Game) CycleSlideInterval() {
	g.ShowOverlayMessage(fmt.Sprintf("Slide interval: %ds", g.ctrl.CycleSlideInterval()))
}

func (g *Game) CycleTransition() {
	g.ShowOverlayMessage("Transition: " + g.ctrl.CycleTransition())
}

func (g *Game) ZoomIn() {
	g.ctrl.ZoomIn()
	g.showZoom()
}

func (g *Game) ZoomOut() {
	g.ctrl.ZoomOut()
	g.showZoom()
}

func (g *Game) ZoomReset() {
	g.ctrl.ZoomReset()
	g.showZoom()
}

func (g *Game) showZoom() {
	g.ShowOverlayMessage(fmt.Sprintf("Zoom: %.0f%%", g.ctrl.State().Scale*100))
}

func (g *Game) PanByDelta(deltaX, deltaY float64) {
	g.ctrl.PanBy(deltaX, deltaY)
}

func (g *Game) Download() {
	if !g.ctrl.CanDownload() {
		g.ShowOverlayMessage("No PDF for this presentation")
		return
	}
	actions := g.documentActions()
	g.ShowOverlayMessage("Downloading " + g.ctrl.DocumentFilename() + "...")
	g.bg.Add(1)
	go func() {
		defer g.bg.Done()
		path, err := actions.Download(g.bgCtx)
		if err != nil {
			log.Printf("Error: download failed: %v", err)
			g.notify("Download failed")
			return
		}
		g.notify("Saved " + path)
	}()
}

func (g *Game) Print() {
	if !g.ctrl.CanPrint() {
		g.ShowOverlayMessage("No PDF for this presentation")
		return
	}
	actions := g.documentActions()
	g.ShowOverlayMessage("Printing...")
	g.bg.Add(1)
	go func() {
		defer g.bg.Done()
		if err := actions.Print(g.bgCtx); err != nil {
			log.Printf("Error: print failed: %v", err)
			g.notify("Print failed")
			return
		}
		g.notify("Sent to printer")
	}()
}

func (g *Game) ShowOverlayMessage(message string) {
	g.overlayMessage = message
	g.overlayMessageTime = time.Now()
}
