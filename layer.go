package main

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"slideview/internal/slideshow"
)

// perspective is the viewer distance used to fake depth for z and 3D turns
const perspective = 1000.0

// layerView is the zoom and pan applied to every slide layer
type layerView struct {
	Zoom       float64
	PanX, PanY float64
}

// fitScale returns the scale that fits an iw x ih image inside sw x sh
func fitScale(iw, ih, sw, sh int) float64 {
	if iw <= 0 || ih <= 0 {
		return 1
	}
	return math.Min(float64(sw)/float64(iw), float64(sh)/float64(ih))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// depthScale projects a z offset toward the viewer onto a uniform scale
func depthScale(z float64) float64 {
	if z >= perspective*0.9 {
		z = perspective * 0.9
	}
	return perspective / (perspective - z)
}

// layerGeoM places an iw x ih slide on an sw x sh screen: fitted, zoomed,
// panned, and transformed by the keyframe around its origin.
func layerGeoM(iw, ih, sw, sh int, view layerView, k slideshow.Keyframe) ebiten.GeoM {
	fit := fitScale(iw, ih, sw, sh) * view.Zoom
	originX := k.Get(slideshow.PropOriginX)

	var g ebiten.GeoM
	g.Translate(-float64(iw)*originX, -float64(ih)/2)

	d := depthScale(k.Get(slideshow.PropZ))
	sx := k.Get(slideshow.PropScale) * math.Cos(radians(k.Get(slideshow.PropRotateY)))
	sy := k.Get(slideshow.PropScale) * k.Get(slideshow.PropScaleY) * math.Cos(radians(k.Get(slideshow.PropRotateX)))
	g.Scale(fit*sx*d, fit*sy*d)

	if skew := k.Get(slideshow.PropSkewX); skew != 0 {
		g.Skew(math.Tan(radians(skew)), 0)
	}
	if rot := k.Get(slideshow.PropRotate); rot != 0 {
		g.Rotate(radians(rot))
	}

	x := float64(sw)/2 + (originX-0.5)*float64(iw)*fit + view.PanX
	x += k.Get(slideshow.PropX) + k.Get(slideshow.PropXPercent)/100*float64(sw)
	y := float64(sh)/2 + view.PanY
	y += k.Get(slideshow.PropY) + k.Get(slideshow.PropYPercent)/100*float64(sh)
	g.Translate(x, y)
	return g
}

// layerColor maps opacity and brightness onto a color scale
func layerColor(k slideshow.Keyframe) ebiten.ColorScale {
	var c ebiten.ColorScale
	if b := k.Get(slideshow.PropBrightness); b != 1 {
		c.Scale(float32(b), float32(b), float32(b), 1)
	}
	c.ScaleAlpha(float32(clampFloat(k.Get(slideshow.PropOpacity), 0, 1)))
	return c
}

// insetRect returns the part of an iw x ih image left by the inset clip
func insetRect(iw, ih int, k slideshow.Keyframe) image.Rectangle {
	pct := func(p slideshow.Prop) float64 {
		return clampFloat(k.Get(p), 0, 100) / 100
	}
	x0 := int(math.Round(float64(iw) * pct(slideshow.PropClipLeft)))
	y0 := int(math.Round(float64(ih) * pct(slideshow.PropClipTop)))
	x1 := iw - int(math.Round(float64(iw)*pct(slideshow.PropClipRight)))
	y1 := ih - int(math.Round(float64(ih)*pct(slideshow.PropClipBottom)))
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return image.Rect(x0, y0, x1, y1)
}

// layerDrawer draws slide layers and owns the scratch images needed for
// blur, glow, and circular clips
type layerDrawer struct {
	scratch   *ebiten.Image
	offscreen *ebiten.Image
	mask      *ebiten.Image
}

func newLayerDrawer() *layerDrawer {
	return &layerDrawer{}
}

// scratchCapacity returns the scratch size needed to hold a w x h region
// given the current size, and whether the scratch must be reallocated. The
// scratch only ever grows, so animated sizes reuse one texture.
func scratchCapacity(cur image.Point, w, h int) (image.Point, bool) {
	if w <= cur.X && h <= cur.Y {
		return cur, false
	}
	return image.Pt(max(w, cur.X), max(h, cur.Y)), true
}

// scratchImage returns a cleared w x h region of the shared scratch image,
// growing it to at least reserve so later regions of that size fit
func (d *layerDrawer) scratchImage(w, h int, reserve image.Point) *ebiten.Image {
	var cur image.Point
	if d.scratch != nil {
		cur = d.scratch.Bounds().Size()
	}
	if size, grow := scratchCapacity(cur, max(w, reserve.X), max(h, reserve.Y)); grow {
		if d.scratch != nil {
			d.scratch.Deallocate()
		}
		d.scratch = ebiten.NewImage(size.X, size.Y)
	}
	region := d.scratch.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image)
	region.Clear()
	return region
}

// blurSize is the downscaled size used to blur a w x h image by radius
func blurSize(w, h int, radius float64) (int, int) {
	f := 1 / (1 + radius/2)
	return max(1, int(float64(w)*f)), max(1, int(float64(h)*f))
}

// screenSized returns *dst resized to the screen, cleared
func screenSized(dst **ebiten.Image, w, h int) *ebiten.Image {
	if *dst != nil {
		b := (*dst).Bounds()
		if b.Dx() != w || b.Dy() != h {
			(*dst).Deallocate()
			*dst = nil
		}
	}
	if *dst == nil {
		*dst = ebiten.NewImage(w, h)
	}
	(*dst).Clear()
	return *dst
}

// blurred returns a low-resolution copy of img and the factor it was shrunk by
func (d *layerDrawer) blurred(img *ebiten.Image, radius float64) (*ebiten.Image, float64) {
	b := img.Bounds()
	w, h := blurSize(b.Dx(), b.Dy(), radius)
	small := d.scratchImage(w, h, b.Size())
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Scale(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
	small.DrawImage(img, op)
	return small, float64(w) / float64(b.Dx())
}

// Draw renders one layer onto screen
func (d *layerDrawer) Draw(screen *ebiten.Image, layer slideLayer, view layerView) {
	if layer.Image == nil {
		return
	}
	k := layer.Keyframe
	if k.Get(slideshow.PropOpacity) <= 0 {
		return
	}

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	src := layer.Image
	iw, ih := src.Bounds().Dx(), src.Bounds().Dy()
	geo := layerGeoM(iw, ih, sw, sh, view, k)

	target := screen
	circle := k.Has(slideshow.PropClipCircle)
	if circle {
		target = screenSized(&d.offscreen, sw, sh)
	}

	if k.HasInsetClip() {
		r := insetRect(iw, ih, k)
		if r.Empty() {
			return
		}
		src = src.SubImage(r).(*ebiten.Image)
		var shift ebiten.GeoM
		shift.Translate(float64(r.Min.X), float64(r.Min.Y))
		shift.Concat(geo)
		geo = shift
	}

	if glow := k.Get(slideshow.PropGlow); glow > 0 {
		d.drawGlow(target, src, geo, glow, k)
	}

	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.ColorScale = layerColor(k)
	if blur := k.Get(slideshow.PropBlur); blur > 0.5 {
		small, f := d.blurred(src, blur)
		op.GeoM.Scale(1/f, 1/f)
		op.GeoM.Concat(geo)
		target.DrawImage(small, op)
	} else {
		op.GeoM = geo
		target.DrawImage(src, op)
	}

	if circle {
		d.applyCircle(screen, iw, ih, geo, k)
	}
}

// drawGlow draws a soft, slightly larger underlay behind the slide
func (d *layerDrawer) drawGlow(dst, src *ebiten.Image, geo ebiten.GeoM, glow float64, k slideshow.Keyframe) {
	b := src.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	small, f := d.blurred(src, glow)

	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Scale(1/f, 1/f)
	op.GeoM.Translate(-w/2, -h/2)
	op.GeoM.Scale((w+2*glow)/w, (h+2*glow)/h)
	op.GeoM.Translate(w/2, h/2)
	op.GeoM.Concat(geo)
	op.ColorScale.Scale(1.4, 1.4, 1.6, 1)
	op.ColorScale.ScaleAlpha(float32(0.5 * clampFloat(k.Get(slideshow.PropOpacity), 0, 1)))
	dst.DrawImage(small, op)
}

// applyCircle masks the offscreen layer to a circle centred on the slide
// and composites it onto screen
func (d *layerDrawer) applyCircle(screen *ebiten.Image, iw, ih int, geo ebiten.GeoM, k slideshow.Keyframe) {
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	cx, cy := geo.Apply(float64(iw)/2, float64(ih)/2)
	x0, y0 := geo.Apply(0, 0)
	x1, y1 := geo.Apply(float64(iw), float64(ih))
	diag := math.Hypot(x1-x0, y1-y0) / math.Sqrt2
	r := clampFloat(k.Get(slideshow.PropClipCircle), 0, 100) / 100 * diag

	mask := screenSized(&d.mask, sw, sh)
	if r > 0 {
		vector.DrawFilledCircle(mask, float32(cx), float32(cy), float32(r), color.White, true)
	}
	d.offscreen.DrawImage(mask, &ebiten.DrawImageOptions{Blend: ebiten.BlendDestinationIn})
	screen.DrawImage(d.offscreen, nil)
}

// Dispose releases scratch images
func (d *layerDrawer) Dispose() {
	for _, img := range []*ebiten.Image{d.scratch, d.offscreen, d.mask} {
		if img != nil {
			img.Deallocate()
		}
	}
	d.scratch, d.offscreen, d.mask = nil, nil, nil
}
