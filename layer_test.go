package main

import (
	"image"
	"math"
	"testing"

	"slideview/internal/slideshow"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestFitScale(t *testing.T) {
	tests := []struct {
		name           string
		iw, ih, sw, sh int
		want           float64
	}{
		{"upscale to height", 100, 100, 200, 400, 2},
		{"downscale to width", 400, 100, 200, 200, 0.5},
		{"exact fit", 800, 600, 800, 600, 1},
		{"empty image", 0, 0, 800, 600, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fitScale(tt.iw, tt.ih, tt.sw, tt.sh); !near(got, tt.want) {
				t.Errorf("fitScale(%d, %d, %d, %d) = %v, want %v", tt.iw, tt.ih, tt.sw, tt.sh, got, tt.want)
			}
		})
	}
}

func TestDepthScale(t *testing.T) {
	tests := []struct {
		z    float64
		want float64
	}{
		{0, 1},
		{500, 2},
		{-1000, 0.5},
		{5000, 10},
	}

	for _, tt := range tests {
		if got := depthScale(tt.z); !near(got, tt.want) {
			t.Errorf("depthScale(%v) = %v, want %v", tt.z, got, tt.want)
		}
	}
}

func TestLayerGeoM(t *testing.T) {
	type corner struct{ x, y float64 }

	tests := []struct {
		name    string
		view    layerView
		k       slideshow.Keyframe
		topLeft corner
		botRght corner
	}{
		{
			name:    "identity fills the screen",
			view:    layerView{Zoom: 1},
			topLeft: corner{0, 0},
			botRght: corner{400, 200},
		},
		{
			name:    "pan shifts the slide",
			view:    layerView{Zoom: 1, PanX: 10, PanY: -5},
			topLeft: corner{10, -5},
			botRght: corner{410, 195},
		},
		{
			name:    "percent offset is relative to the screen",
			view:    layerView{Zoom: 1},
			k:       slideshow.Keyframe{slideshow.PropXPercent: 50, slideshow.PropY: 20},
			topLeft: corner{200, 20},
			botRght: corner{600, 220},
		},
		{
			name:    "scale shrinks around the centre",
			view:    layerView{Zoom: 1},
			k:       slideshow.Keyframe{slideshow.PropScale: 0.5},
			topLeft: corner{100, 50},
			botRght: corner{300, 150},
		},
		{
			name:    "zoom grows around the centre",
			view:    layerView{Zoom: 2},
			topLeft: corner{-200, -100},
			botRght: corner{600, 300},
		},
		{
			name:    "origin on the left edge keeps identity placement",
			view:    layerView{Zoom: 1},
			k:       slideshow.Keyframe{slideshow.PropOriginX: 0},
			topLeft: corner{0, 0},
			botRght: corner{400, 200},
		},
		{
			name:    "horizontal squash pinned to the left edge",
			view:    layerView{Zoom: 1},
			k:       slideshow.Keyframe{slideshow.PropOriginX: 0, slideshow.PropRotateY: 60},
			topLeft: corner{0, 0},
			botRght: corner{200, 200},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := layerGeoM(200, 100, 400, 200, tt.view, tt.k)

			x, y := g.Apply(0, 0)
			if !near(x, tt.topLeft.x) || !near(y, tt.topLeft.y) {
				t.Errorf("top-left = (%v, %v), want (%v, %v)", x, y, tt.topLeft.x, tt.topLeft.y)
			}
			x, y = g.Apply(200, 100)
			if !near(x, tt.botRght.x) || !near(y, tt.botRght.y) {
				t.Errorf("bottom-right = (%v, %v), want (%v, %v)", x, y, tt.botRght.x, tt.botRght.y)
			}
		})
	}
}

func TestLayerColor(t *testing.T) {
	tests := []struct {
		name  string
		k     slideshow.Keyframe
		wantR float32
		wantA float32
	}{
		{"identity", nil, 1, 1},
		{"half opacity", slideshow.Keyframe{slideshow.PropOpacity: 0.5}, 0.5, 0.5},
		{"brightened and faded", slideshow.Keyframe{slideshow.PropOpacity: 0.5, slideshow.PropBrightness: 2}, 1, 0.5},
		{"opacity clamped", slideshow.Keyframe{slideshow.PropOpacity: 3}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := layerColor(tt.k)
			if !near(float64(c.R()), float64(tt.wantR)) || !near(float64(c.A()), float64(tt.wantA)) {
				t.Errorf("layerColor() r=%v a=%v, want r=%v a=%v", c.R(), c.A(), tt.wantR, tt.wantA)
			}
		})
	}
}

func TestInsetRect(t *testing.T) {
	tests := []struct {
		name string
		k    slideshow.Keyframe
		want image.Rectangle
	}{
		{"no clip", nil, image.Rect(0, 0, 200, 100)},
		{
			name: "all edges",
			k: slideshow.Keyframe{
				slideshow.PropClipLeft: 10, slideshow.PropClipRight: 10,
				slideshow.PropClipTop: 20, slideshow.PropClipBottom: 20,
			},
			want: image.Rect(20, 20, 180, 80),
		},
		{"right half hidden", slideshow.Keyframe{slideshow.PropClipRight: 50}, image.Rect(0, 0, 100, 100)},
		{
			name: "overlapping edges collapse",
			k:    slideshow.Keyframe{slideshow.PropClipLeft: 60, slideshow.PropClipRight: 60},
			want: image.Rect(120, 0, 120, 100),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := insetRect(200, 100, tt.k); got != tt.want {
				t.Errorf("insetRect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlurSize(t *testing.T) {
	tests := []struct {
		radius float64
		w, h   int
	}{
		{0, 1920, 1080},
		{2, 960, 540},
		{10, 320, 180},
		{1e6, 1, 1},
	}
	for _, tt := range tests {
		w, h := blurSize(1920, 1080, tt.radius)
		if w != tt.w || h != tt.h {
			t.Errorf("blurSize(1920, 1080, %v) = %dx%d, want %dx%d", tt.radius, w, h, tt.w, tt.h)
		}
	}
}

func TestScratchCapacityDuringBlurAnimation(t *testing.T) {
	smooth, ok := slideshow.LookupTransition("smooth-blur")
	if !ok {
		t.Fatal("smooth-blur transition missing")
	}

	// Every frame of the enter animation reuses one scratch texture sized
	// to the source slide.
	src := image.Pt(1920, 1080)
	var cur image.Point
	allocations := 0
	for frame := 0; frame <= 36; frame++ {
		k := smooth.Enter(float64(frame) / 36)
		w, h := blurSize(src.X, src.Y, k.Get(slideshow.PropBlur))
		size, grow := scratchCapacity(cur, max(w, src.X), max(h, src.Y))
		if grow {
			allocations++
			cur = size
		}
	}
	if allocations != 1 {
		t.Errorf("scratch allocated %d times over the animation, want 1", allocations)
	}
	if cur != src {
		t.Errorf("scratch size = %v, want %v", cur, src)
	}
}

func TestScratchCapacity(t *testing.T) {
	tests := []struct {
		name     string
		cur      image.Point
		w, h     int
		want     image.Point
		wantGrow bool
	}{
		{"empty", image.Point{}, 100, 50, image.Pt(100, 50), true},
		{"fits", image.Pt(100, 50), 40, 20, image.Pt(100, 50), false},
		{"exact", image.Pt(100, 50), 100, 50, image.Pt(100, 50), false},
		{"wider", image.Pt(100, 50), 120, 10, image.Pt(120, 50), true},
		{"taller", image.Pt(100, 50), 10, 80, image.Pt(100, 80), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, grow := scratchCapacity(tt.cur, tt.w, tt.h)
			if got != tt.want || grow != tt.wantGrow {
				t.Errorf("scratchCapacity(%v, %d, %d) = (%v, %t), want (%v, %t)",
					tt.cur, tt.w, tt.h, got, grow, tt.want, tt.wantGrow)
			}
		})
	}
}
