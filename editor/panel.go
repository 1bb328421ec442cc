package editor

import (
	"fmt"
	"slices"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/meshpaint/components"
	"github.com/pthm-cable/meshpaint/paint"
)

// Panel layout
const (
	PanelWidth   = 280
	panelPadding = 10
	labelWidth   = 60
	sliderWidth  = 140
	rowHeight    = 22
	buttonHeight = 26
)

// Panel colors
var (
	colorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 235}
	colorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	colorSection     = rl.Color{R: 150, G: 180, B: 220, A: 255}
	colorPanelText   = rl.Color{R: 200, G: 200, B: 200, A: 255}
)

// Panel is the left-side tool panel.
type Panel struct {
	height int32
	tags   []string // distinct surface tags the filter can cycle through
}

// NewPanel creates a panel whose surface tag selector offers the tags found
// on surfaces.
func NewPanel(surfaces []components.Surface) *Panel {
	tags := []string{paint.DefaultSurfaceTag}
	for _, s := range surfaces {
		if !slices.Contains(tags, s.Tag) {
			tags = append(tags, s.Tag)
		}
	}
	return &Panel{height: int32(rl.GetScreenHeight()), tags: tags}
}

// Resize stretches the panel to the window height.
func (p *Panel) Resize(screenHeight int32) {
	p.height = screenHeight
}

// Contains reports whether a screen point lies over the panel.
func (p *Panel) Contains(x, y float32) bool {
	return x >= 0 && x <= PanelWidth && y >= 0 && y <= float32(p.height)
}

// applyStyle sets the dark raygui theme used by the panel.
func applyStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(rl.NewColor(30, 30, 35, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(45, 45, 50, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(rl.NewColor(60, 60, 70, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(rl.NewColor(70, 80, 90, 255)))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(200, 200, 200, 255)))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(rl.White))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(rl.Yellow))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(80, 80, 90, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(rl.NewColor(100, 100, 120, 255)))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 14)
}

// Draw renders the panel and applies any edits to the editor's session.
func (p *Panel) Draw(e *Editor) {
	rl.DrawRectangle(0, 0, PanelWidth, p.height, colorPanelBg)
	rl.DrawLine(PanelWidth, 0, PanelWidth, p.height, colorPanelBorder)

	s := e.session
	x := float32(panelPadding)
	y := float32(panelPadding)

	rl.DrawText("MESH PAINTER", int32(x), int32(y), 20, rl.White)
	y += 30

	if active := gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 16, Height: 16}, "Active [P]", s.Active()); active != s.Active() {
		e.setActive(active)
	}
	y += rowHeight + 4

	// Brush
	y = section("Brush", x, y)
	brush := s.Brush()
	kinds := []paint.BrushKind{paint.BrushNone, paint.BrushCircle, paint.BrushSquare, paint.BrushMesh}
	bw := float32(PanelWidth-2*panelPadding-3*4) / float32(len(kinds))
	for i, k := range kinds {
		label := k.String()
		if k == brush.Kind {
			label = "[" + label + "]"
		}
		if gui.Button(rl.Rectangle{X: x + float32(i)*(bw+4), Y: y, Width: bw, Height: buttonHeight}, label) {
			brush.Kind = k
		}
	}
	y += buttonHeight + 6
	radiusChanged := slider("Radius", x, y, &brush.Radius, 0, 5, "%.2f")
	y += rowHeight
	if radiusChanged || brush.Kind != s.Brush().Kind {
		s.SetBrush(brush)
	}

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: PanelWidth - 2*panelPadding, Height: buttonHeight}, "Surface: "+s.SurfaceTag()) {
		s.SetSurfaceTag(p.nextTag(s.SurfaceTag()))
	}
	y += buttonHeight + 8

	// Placement
	y = section("Placement", x, y)
	cfg := s.Placement()
	cfg.AlignToNormal = gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 16, Height: 16}, "Align to normal", cfg.AlignToNormal)
	y += rowHeight
	ranges := []struct {
		name     string
		min, max *float64
		lo, hi   float32
		format   string
	}{
		{"Scale", &cfg.MinScale, &cfg.MaxScale, 0.01, 5, "%.2f"},
		{"Rot X", &cfg.MinRotX, &cfg.MaxRotX, -180, 180, "%.0f"},
		{"Rot Y", &cfg.MinRotY, &cfg.MaxRotY, -180, 180, "%.0f"},
		{"Rot Z", &cfg.MinRotZ, &cfg.MaxRotZ, -180, 180, "%.0f"},
	}
	for _, r := range ranges {
		slider(r.name+" min", x, y, r.min, r.lo, r.hi, r.format)
		y += rowHeight
		slider(r.name+" max", x, y, r.max, r.lo, r.hi, r.format)
		y += rowHeight
	}
	if cfg = cfg.Ordered(); cfg != s.Placement() {
		s.SetPlacement(cfg)
	}

	interval := s.Throttle().MinInterval.Seconds()
	if slider("Interval", x, y, &interval, 0, 2, "%.2fs") {
		s.SetThrottle(paint.Throttle{MinInterval: time.Duration(interval * float64(time.Second))})
	}
	y += rowHeight + 8

	// Prefabs
	y = section("Prefabs", x, y)
	entries := s.Prefabs()
	changed := false
	for i := range entries {
		if slider(string(entries[i].ID), x, y, &entries[i].Weight, 0, 1, "%.2f") {
			changed = true
		}
		y += rowHeight
	}
	if changed {
		s.SetPrefabs(entries)
	}
	y += 8

	// Stats
	y = section("Stats", x, y)
	stats := s.Stats()
	counters := e.collector.Counters()
	lines := []string{
		fmt.Sprintf("Objects:   %d", stats.Objects),
		fmt.Sprintf("Triangles: %d", stats.Triangles),
		fmt.Sprintf("Vertices:  %d", stats.Vertices),
		fmt.Sprintf("Undo history: %d", len(s.History())),
		fmt.Sprintf("Strokes: %d  Discards: %d", counters.Strokes, counters.Discards),
	}
	for _, line := range lines {
		rl.DrawText(line, int32(x), int32(y), 14, colorPanelText)
		y += 18
	}
	y += 8

	// Actions
	full := float32(PanelWidth - 2*panelPadding)
	half := (full - 6) / 2
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: buttonHeight}, "Undo") {
		e.undo()
	}
	if gui.Button(rl.Rectangle{X: x + half + 6, Y: y, Width: half, Height: buttonHeight}, "Reset stats") {
		e.resetStats()
	}
	y += buttonHeight + 6
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: full, Height: buttonHeight}, "Destroy generated") {
		e.clearAll()
	}
	y += buttonHeight + 6
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: full, Height: buttonHeight}, "Save snapshot") {
		e.saveSnapshot()
	}
}

// nextTag returns the tag after current in the selector, wrapping around.
func (p *Panel) nextTag(current string) string {
	i := slices.Index(p.tags, current)
	return p.tags[(i+1)%len(p.tags)]
}

// section draws a section header and returns the next row position.
func section(title string, x, y float32) float32 {
	rl.DrawText(title, int32(x), int32(y), 16, colorSection)
	return y + 20
}

// slider draws a labelled slider with its value on the right and stores a
// moved value into v. It reports whether v changed.
func slider(label string, x, y float32, v *float64, min, max float32, format string) bool {
	rl.DrawText(label, int32(x), int32(y+3), 12, colorPanelText)
	bounds := rl.Rectangle{X: x + labelWidth + 10, Y: y, Width: sliderWidth, Height: 16}
	cur := float32(*v)
	next := gui.Slider(bounds, "", fmt.Sprintf(format, *v), cur, min, max)
	if next == cur {
		return false
	}
	*v = float64(next)
	return true
}
