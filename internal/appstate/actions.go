package appstate

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/mobile/event/key"

	"github.com/example/polyanno/internal/polygon"
	"github.com/example/polyanno/internal/theme"
)

type action int

const (
	actionNone action = iota
	actionSave
	actionCopy
	actionCopyList
	actionQuit
)

// actionFor maps window shortcuts. Everything else goes to the session.
func actionFor(e key.Event) action {
	if e.Direction != key.DirPress {
		return actionNone
	}
	ctrl := e.Modifiers&(key.ModControl|key.ModMeta) != 0
	shift := e.Modifiers&key.ModShift != 0
	r := unicode.ToLower(e.Rune)
	switch {
	case ctrl && (e.Code == key.CodeS || r == 's'):
		return actionSave
	case ctrl && shift && (e.Code == key.CodeC || r == 'c'):
		return actionCopyList
	case ctrl && (e.Code == key.CodeC || r == 'c'):
		return actionCopy
	case !ctrl && (e.Code == key.CodeQ || r == 'q'):
		return actionQuit
	}
	return actionNone
}

// DescribePolygons renders one line per polygon: its ID, fill and points in
// content coordinates.
func DescribePolygons(list []polygon.Polygon) string {
	var b strings.Builder
	for _, p := range list {
		fmt.Fprintf(&b, "%s fill=%s", p.ID, theme.FillHex(p.Fill))
		for _, pt := range p.Effective() {
			fmt.Fprintf(&b, " %g,%g", pt.X, pt.Y)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
