package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/polyanno/internal/editor"
	"github.com/example/polyanno/internal/render"
	"github.com/example/polyanno/internal/theme"
)

const statusHeight = 24

const shortcutHint = "Ctrl+S save  Ctrl+C copy  Q quit"

type paintState struct {
	width, height int
	scene         render.Scene
	opts          render.Options
	theme         *theme.Theme
	state         editor.State
	polygons      int
	zoom          float64
	fill          color.RGBA
	message       string
	messageUntil  time.Time
}

func canvasHeight(height int) int {
	if height <= statusHeight {
		return 0
	}
	return height - statusHeight
}

// statusLine shows a pending message, or the session summary once it expires.
func (st paintState) statusLine(now time.Time) string {
	if st.message != "" && now.Before(st.messageUntil) {
		return st.message
	}
	noun := "polygons"
	if st.polygons == 1 {
		noun = "polygon"
	}
	return fmt.Sprintf("%s | %d %s | zoom %.0f%% | fill %s | %s",
		st.state, st.polygons, noun, st.zoom*100, theme.FillHex(st.fill), shortcutHint)
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	if st.width <= 0 || st.height <= 0 {
		return
	}
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	renderFrame(b.RGBA(), st, time.Now())
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// renderFrame draws the canvas and status bar into dst.
func renderFrame(dst *image.RGBA, st paintState, now time.Time) {
	th := st.theme
	if th == nil {
		th = theme.Default()
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(th.Background), image.Point{}, draw.Src)

	ch := canvasHeight(st.height)
	if ch > 0 {
		canvas := dst.SubImage(image.Rect(0, 0, st.width, ch)).(*image.RGBA)
		render.View(canvas, st.scene, st.opts)
	}
	drawStatus(dst, image.Rect(0, ch, st.width, st.height), th, st.statusLine(now))
}

func drawStatus(dst *image.RGBA, rect image.Rectangle, th *theme.Theme, text string) {
	draw.Draw(dst, rect, image.NewUniform(th.StatusBackground), image.Point{}, draw.Src)
	line := image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+1)
	draw.Draw(dst, line, image.NewUniform(th.Foreground), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.StatusText), Face: face}
	d.Dot = fixed.P(rect.Min.X+6, rect.Min.Y+(rect.Dy()+ascent-descent)/2)
	d.DrawString(text)
}
