package main

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"slideview/internal/slideshow"
)

// Common colors used in rendering
var (
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorGray      = color.RGBA{180, 180, 180, 255}
	colorLightGray = color.RGBA{192, 192, 192, 255}
	colorYellow    = color.RGBA{255, 255, 100, 255}
	colorCyan      = color.RGBA{100, 255, 255, 255}
	colorLightBlue = color.RGBA{200, 200, 255, 255}
	colorGreen     = color.RGBA{100, 255, 100, 255}
	colorOrange    = color.RGBA{255, 200, 100, 255}
	colorLightRed  = color.RGBA{255, 150, 150, 255}

	// Background colors for semi-transparent overlays
	bgColorLight  = color.RGBA{0, 0, 0, 128}
	bgColorMedium = color.RGBA{0, 0, 0, 160}
	bgColorDark   = color.RGBA{0, 0, 0, 200}
	bgColorCard   = color.RGBA{24, 28, 40, 230}
)

const (
	helpPadding   = 40.0
	maxWarnings   = 2
	warningLength = 50
)

// helpRow is one line of the help overlay
type helpRow struct {
	Action      string
	Keys        string
	Mouse       string
	Description string
}

// helpRows lists bound actions in definition order
func helpRows(keybindings, mousebindings map[string][]string) []helpRow {
	var rows []helpRow
	for _, def := range actionDefinitions {
		keys, mouse := keybindings[def.Name], mousebindings[def.Name]
		if len(keys) == 0 && len(mouse) == 0 {
			continue
		}
		rows = append(rows, helpRow{
			Action:      def.Name,
			Keys:        strings.Join(keys, ", "),
			Mouse:       strings.Join(mouse, ", "),
			Description: def.Description,
		})
	}
	return rows
}

func (row helpRow) inputs() string {
	switch {
	case row.Keys != "" && row.Mouse != "":
		return row.Keys + " | " + row.Mouse
	case row.Keys != "":
		return row.Keys
	}
	return row.Mouse
}

func shortWarning(w string) string {
	if len(w) > warningLength {
		return w[:warningLength-3] + "..."
	}
	return w
}

// Renderer handles all drawing operations
type Renderer struct {
	renderState RenderState
	layers      *layerDrawer
	card        *ebiten.Image
}

// NewRenderer creates a new Renderer. InitGraphics must have run.
func NewRenderer(renderState RenderState) *Renderer {
	return &Renderer{
		renderState: renderState,
		layers:      newLayerDrawer(),
	}
}

func (r *Renderer) face(size float64) *text.GoTextFace {
	return &text.GoTextFace{Source: globalFontSource, Size: size}
}

// Draw renders the entire screen
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Clear()
	now := time.Now()
	view := r.renderState.Viewer()

	if !view.Open || view.Slides.Len() == 0 {
		r.drawEmptyState(screen, view)
	} else {
		lv := layerView{Zoom: view.Scale, PanX: view.PanX, PanY: view.PanY}
		for _, layer := range r.renderState.Layers(now) {
			r.layers.Draw(screen, layer, lv)
		}
		if view.Presenting {
			r.drawPresentingBadge(screen, view)
		} else {
			r.drawToolbar(screen, view)
		}
	}

	if r.renderState.IsShowingInfo() {
		r.drawInfoCard(screen, view, now)
	}
	if r.renderState.IsShowingHelp() {
		r.drawHelpOverlay(screen)
	}
	if r.renderState.IsInPageInputMode() {
		r.drawPageInputOverlay(screen, view)
	}
	if r.renderState.GetOverlayMessage() != "" && time.Since(r.renderState.GetOverlayMessageTime()) < overlayMessageDuration {
		r.drawOverlayMessage(screen)
	}
}

func (r *Renderer) drawEmptyState(screen *ebiten.Image, view slideshow.ViewerState) {
	msg := "No presentation open"
	if view.Open {
		msg = "This presentation has no slides"
	}
	f := r.face(r.renderState.GetFontSize())
	w, h := text.Measure(msg, f, 0)
	DrawText(screen, msg, f, (float64(screen.Bounds().Dx())-w)/2, (float64(screen.Bounds().Dy())-h)/2, colorGray)
}

// toolbarText is the status line shown outside presentation mode
func toolbarText(view slideshow.ViewerState, canDownload bool) string {
	parts := []string{
		view.Title,
		fmt.Sprintf("Slide %d / %d", view.Index+1, view.Slides.Len()),
		fmt.Sprintf("%d%%", int(math.Round(view.Scale*100))),
		view.Transition,
		fmt.Sprintf("%ds", view.IntervalSeconds),
	}
	if canDownload {
		parts = append(parts, "PDF")
	}
	return strings.Join(parts, "  |  ")
}

func (r *Renderer) drawToolbar(screen *ebiten.Image, view slideshow.ViewerState) {
	f := r.face(r.renderState.GetFontSize() * 0.8)
	msg := toolbarText(view, r.renderState.CanDownload())
	hint := "? help"
	_, th := text.Measure(msg, f, 0)

	sw, sh := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	barH := th + 16
	DrawFilledRect(screen, 0, sh-barH, sw, barH, bgColorLight)
	DrawText(screen, msg, f, 12, sh-barH+8, colorWhite)
	hw, _ := text.Measure(hint, f, 0)
	DrawText(screen, hint, f, sw-hw-12, sh-barH+8, colorGray)
}

// presentingBadge is the compact indicator shown while presenting
func presentingBadge(view slideshow.ViewerState) string {
	state := "paused"
	if view.Playing {
		state = fmt.Sprintf("playing %ds", view.IntervalSeconds)
	}
	return fmt.Sprintf("%d / %d  %s", view.Index+1, view.Slides.Len(), state)
}

func (r *Renderer) drawPresentingBadge(screen *ebiten.Image, view slideshow.ViewerState) {
	f := r.face(r.renderState.GetFontSize() * 0.7)
	msg := presentingBadge(view)
	w, h := text.Measure(msg, f, 0)
	x := float64(screen.Bounds().Dx()) - w - 16
	DrawFilledRect(screen, x-6, 10, w+12, h+8, bgColorLight)
	DrawText(screen, msg, f, x, 14, colorLightGray)
}

// cardFace reports which face of the info card shows at angle and the
// horizontal squash of the turn
func cardFace(angle float64) (back bool, scaleX float64) {
	turns := int(math.Floor((angle + 90) / 180))
	return turns%2 == 1, math.Abs(math.Cos(radians(angle)))
}

func (r *Renderer) infoLines(view slideshow.ViewerState, back bool) []string {
	if !back {
		lines := []string{
			view.Title,
			fmt.Sprintf("Slide %d of %d", view.Index+1, view.Slides.Len()),
			"File: " + view.Slides.FileName(view.Index),
			fmt.Sprintf("Zoom: %d%%", int(math.Round(view.Scale*100))),
			"Transition: " + view.Transition,
		}
		return lines
	}

	session := view.SessionID
	if len(session) > 8 {
		session = session[:8]
	}
	mode := "browsing"
	if view.Presenting {
		mode = "presenting"
	}
	doc := "none"
	if r.renderState.CanDownload() {
		doc = view.PDFURL
	}
	return []string{
		"Session " + session,
		"Mode: " + mode,
		fmt.Sprintf("Interval: %ds", view.IntervalSeconds),
		fmt.Sprintf("Fullscreen: %t", view.Fullscreen),
		"Document: " + doc,
		"Config: " + r.renderState.GetConfigStatus().Status,
	}
}

func (r *Renderer) drawInfoCard(screen *ebiten.Image, view slideshow.ViewerState, now time.Time) {
	back, sx := cardFace(r.renderState.InfoCard().Angle(now))
	f := r.face(r.renderState.GetFontSize() * 0.8)
	lines := r.infoLines(view, back)

	lineH := r.renderState.GetFontSize() * 1.2
	cw := 0.0
	for _, l := range lines {
		w, _ := text.Measure(l, f, 0)
		cw = math.Max(cw, w)
	}
	cw += 32
	ch := float64(len(lines))*lineH + 24

	w, h := int(math.Ceil(cw)), int(math.Ceil(ch))
	if r.card == nil || r.card.Bounds().Dx() != w || r.card.Bounds().Dy() != h {
		if r.card != nil {
			r.card.Deallocate()
		}
		r.card = ebiten.NewImage(w, h)
	}
	r.card.Clear()
	r.card.Fill(bgColorCard)
	for i, l := range lines {
		c := colorWhite
		if i == 0 {
			c = colorYellow
		}
		DrawText(r.card, l, f, 16, 12+float64(i)*lineH, c)
	}

	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Translate(-cw/2, 0)
	op.GeoM.Scale(sx, 1)
	op.GeoM.Translate(20+cw/2, 20)
	screen.DrawImage(r.card, op)
}

// helpLayout measures the help overlay at a font size
func (r *Renderer) helpLayout(rows []helpRow, status ConfigLoadResult, fontSize float64) (width, height, actionW, inputW float64) {
	f := r.face(fontSize)
	lineHeight := fontSize * 1.5

	descW := 0.0
	for _, row := range rows {
		w, _ := text.Measure(row.Action, f, 0)
		actionW = math.Max(actionW, w)
		w, _ = text.Measure(row.inputs(), f, 0)
		inputW = math.Max(inputW, w)
		w, _ = text.Measure(row.Description, f, 0)
		descW = math.Max(descW, w)
	}

	warnings := min(len(status.Warnings), maxWarnings)
	height = helpPadding*2 + fontSize*2 + lineHeight*1.5 +
		float64(len(rows))*lineHeight + lineHeight*3 + float64(warnings)*lineHeight
	width = 40 + actionW + 20 + 30 + inputW + 20 + descW + helpPadding
	return width, height, actionW, inputW
}

// optimalHelpFontSize finds the largest font size that fits, by binary search
func (r *Renderer) optimalHelpFontSize(rows []helpRow, status ConfigLoadResult, availW, availH float64) (float64, bool) {
	fits := func(size float64) bool {
		w, h, _, _ := r.helpLayout(rows, status, size)
		return w <= availW && h <= availH
	}

	lo, hi := 12.0, r.renderState.GetFontSize()
	if !fits(lo) {
		return lo, false
	}
	if fits(hi) {
		return hi, true
	}
	best := lo
	for hi-lo > 0.5 {
		mid := (lo + hi) / 2
		if fits(mid) {
			best, lo = mid, mid
		} else {
			hi = mid
		}
	}
	return best, true
}

func (r *Renderer) drawHelpOverlay(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	rows := helpRows(r.renderState.GetKeybindings(), r.renderState.GetMousebindings())
	status := r.renderState.GetConfigStatus()

	fontSize, ok := r.optimalHelpFontSize(rows, status, w-helpPadding*2, h-helpPadding*2)
	if !ok {
		r.drawMarginTooSmallMessage(screen)
		return
	}
	_, _, actionW, inputW := r.helpLayout(rows, status, fontSize)

	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)
	DrawFilledRect(screen, helpPadding, helpPadding, w-helpPadding*2, h-helpPadding*2, bgColorMedium)

	f := r.face(fontSize)
	lineHeight := fontSize * 1.5
	y := helpPadding + 30
	DrawText(screen, "HELP:", f, helpPadding+20, y, colorWhite)
	y += fontSize * 2
	DrawText(screen, "Controls (Keyboard | Mouse):", f, helpPadding+20, y, colorWhite)
	y += lineHeight * 1.5

	actionX := helpPadding + 40
	arrowX := actionX + actionW + 20
	inputX := arrowX + 30
	descX := inputX + inputW + 20

	for _, row := range rows {
		DrawText(screen, row.Action, f, actionX, y, colorLightBlue)
		DrawText(screen, "→", f, arrowX, y, colorWhite)

		x := inputX
		if row.Keys != "" {
			DrawText(screen, row.Keys, f, x, y, colorYellow)
			kw, _ := text.Measure(row.Keys, f, 0)
			x += kw
		}
		if row.Keys != "" && row.Mouse != "" {
			DrawText(screen, " | ", f, x, y, colorWhite)
			sw, _ := text.Measure(" | ", f, 0)
			x += sw
		}
		if row.Mouse != "" {
			DrawText(screen, row.Mouse, f, x, y, colorCyan)
		}
		DrawText(screen, row.Description, f, descX, y, colorGray)
		y += lineHeight
	}

	y += lineHeight
	DrawText(screen, "System:", f, helpPadding+20, y, colorWhite)
	y += lineHeight

	statusColor := colorGreen
	if status.Status == "Warning" || status.Status == "Error" {
		statusColor = colorOrange
	}
	DrawText(screen, "Config Status: "+status.Status, f, helpPadding+40, y, statusColor)
	y += lineHeight

	for i, warning := range status.Warnings {
		if i >= maxWarnings {
			break
		}
		DrawText(screen, "• "+shortWarning(warning), f, helpPadding+40, y, colorLightRed)
		y += lineHeight
	}
}

// drawMarginTooSmallMessage is shown when help cannot fit the window
func (r *Renderer) drawMarginTooSmallMessage(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)

	f := r.face(16)
	message := "Hanc marginis exiguitas non caperet."
	subtitle := "(This margin is too small to contain it.)"
	mw, mh := text.Measure(message, f, 0)
	sw, _ := text.Measure(subtitle, f, 0)

	my := h/2 - mh/2
	DrawText(screen, message, f, w/2-mw/2, my, colorWhite)
	DrawText(screen, subtitle, f, w/2-sw/2, my+mh+10, colorGray)
}

func (r *Renderer) drawPageInputOverlay(screen *ebiten.Image, view slideshow.ViewerState) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	inputFont := r.face(r.renderState.GetFontSize())
	rangeFont := r.face(r.renderState.GetFontSize() * 0.8)

	inputText := fmt.Sprintf("Go to slide: %s_", r.renderState.GetPageInputBuffer())
	rangeText := fmt.Sprintf("(1-%d)", view.Slides.Len())
	iw, ih := text.Measure(inputText, inputFont, 0)
	rw, rh := text.Measure(rangeText, rangeFont, 0)

	const padding = 20.0
	boxW := math.Max(iw, rw) + padding*2
	boxH := ih + rh + 10 + padding*2
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	DrawFilledRect(screen, boxX, boxY, boxW, boxH, bgColorDark)
	DrawText(screen, inputText, inputFont, boxX+(boxW-iw)/2, boxY+padding, colorWhite)
	DrawText(screen, rangeText, rangeFont, boxX+(boxW-rw)/2, boxY+padding+ih+10, colorLightGray)
}

func (r *Renderer) drawOverlayMessage(screen *ebiten.Image) {
	f := r.face(r.renderState.GetFontSize())
	msg := r.renderState.GetOverlayMessage()
	tw, th := text.Measure(msg, f, 0)

	const padding = 20.0
	boxW := tw + padding*2
	boxH := th + padding*2
	boxX := (float64(screen.Bounds().Dx()) - boxW) / 2
	boxY := (float64(screen.Bounds().Dy()) - boxH) / 2

	DrawFilledRect(screen, boxX, boxY, boxW, boxH, bgColorDark)
	DrawText(screen, msg, f, boxX+padding, boxY+padding, colorWhite)
}

// Dispose releases offscreen images
func (r *Renderer) Dispose() {
	r.layers.Dispose()
	if r.card != nil {
		r.card.Deallocate()
		r.card = nil
	}
}
