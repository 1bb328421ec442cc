// Package inspector draws a details panel for a selected painted instance.
package inspector

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/meshpaint/camera"
	"github.com/pthm-cable/meshpaint/paint"
	"github.com/pthm-cable/meshpaint/scene"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 30

	// pickRadius is the screen distance in pixels within which a click selects an instance.
	pickRadius = 14
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorHighlight   = rl.Color{R: 255, G: 220, B: 80, A: 255}
)

// Details is the flattened view of an instance shown in the panel.
type Details struct {
	Handle    uint64  `inspect:"label"`
	Prefab    string  `inspect:"label"`
	Position  r3.Vec  `inspect:"vec,fmt:%.2f"`
	Axis      r3.Vec  `inspect:"vec,fmt:%.2f"`
	Angle     float64 `inspect:"angle"`
	Scale     float64 `inspect:"bar,max:1"`
	Parent    uint64  `inspect:"label"`
	Triangles int     `inspect:"label"`
	Vertices  int     `inspect:"label"`
	Pending   bool    `inspect:"bool"`
}

// NewDetails builds the panel view of an instance.
func NewDetails(v scene.InstanceView, m paint.MeshMetrics, pending bool) Details {
	axis, angle := paint.AxisAngle(v.Transform.Rotation)
	return Details{
		Handle:    uint64(v.Handle),
		Prefab:    string(v.Prefab),
		Position:  v.Transform.Position,
		Axis:      axis,
		Angle:     angle,
		Scale:     v.Transform.Scale,
		Parent:    uint64(v.Parent),
		Triangles: m.Triangles,
		Vertices:  m.Vertices,
		Pending:   pending,
	}
}

// Inspector manages instance selection and panel rendering.
type Inspector struct {
	selected     paint.Handle
	hasSelected  bool
	panelX       int32
	panelY       int32
	screenWidth  int32
	screenHeight int32
}

// NewInspector creates a new inspector anchored to the right screen edge.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	return &Inspector{
		panelX:       screenWidth - PanelWidth - 10,
		panelY:       10,
		screenWidth:  screenWidth,
		screenHeight: screenHeight,
	}
}

// Resize re-anchors the panel after a window resize.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.screenWidth = screenWidth
	ins.screenHeight = screenHeight
	ins.panelX = screenWidth - PanelWidth - 10
}

// Contains reports whether a screen point lies over the open panel.
func (ins *Inspector) Contains(mouseX, mouseY float32) bool {
	if !ins.hasSelected {
		return false
	}
	return int32(mouseX) >= ins.panelX && int32(mouseX) <= ins.panelX+PanelWidth &&
		int32(mouseY) >= ins.panelY && int32(mouseY) <= ins.panelY+ins.panelHeight()
}

// HandleInput processes selection. Shift+left click picks the instance under
// the cursor; Escape or the close button deselects.
func (ins *Inspector) HandleInput(mouseX, mouseY float32, world *scene.World, cam *camera.Camera) {
	if rl.IsKeyPressed(rl.KeyEscape) {
		ins.Deselect()
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}

	if ins.hasSelected {
		closeX := ins.panelX + PanelWidth - 25
		closeY := ins.panelY + 5
		if int32(mouseX) >= closeX && int32(mouseX) <= closeX+20 &&
			int32(mouseY) >= closeY && int32(mouseY) <= closeY+20 {
			ins.Deselect()
			return
		}
	}

	if !rl.IsKeyDown(rl.KeyLeftShift) && !rl.IsKeyDown(rl.KeyRightShift) {
		return
	}
	if h, ok := world.Pick(cam, float64(mouseX), float64(mouseY), pickRadius); ok {
		ins.Select(h)
	}
}

// Select focuses the panel on h.
func (ins *Inspector) Select(h paint.Handle) {
	ins.selected = h
	ins.hasSelected = true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
	ins.selected = 0
}

// Selected returns the currently selected instance.
func (ins *Inspector) Selected() (paint.Handle, bool) {
	return ins.selected, ins.hasSelected
}

// Draw renders the panel. A selection whose instance no longer exists is dropped.
func (ins *Inspector) Draw(world *scene.World, metrics *paint.MetricsCache, pending paint.Handle) {
	if !ins.hasSelected {
		return
	}

	v, err := world.Instance(ins.selected)
	if errors.Is(err, scene.ErrUnknownInstance) {
		ins.Deselect()
		return
	}
	m, _ := metrics.Cached(v.Prefab)
	fields := ExtractFields(NewDetails(v, m, v.Handle == pending))

	panelHeight := ins.panelHeight()
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, panelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(panelHeight)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(fmt.Sprintf("INSTANCE %d", v.Handle), ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding
	for _, f := range fields {
		y += DrawField(x, y, f)
	}
}

// panelHeight computes the panel height for the Details layout.
func (ins *Inspector) panelHeight() int32 {
	height := int32(HeaderHeight + PanelPadding)
	height += 20 * 6 // labels and vectors
	height += 44     // angle widget
	height += 18     // scale bar
	height += 18     // pending flag
	height += PanelPadding
	return height
}

// DrawSelectionHighlight outlines the selected instance. Must be called
// inside a 3D mode block.
func (ins *Inspector) DrawSelectionHighlight(world *scene.World) {
	if !ins.hasSelected {
		return
	}
	v, err := world.Instance(ins.selected)
	if err != nil {
		return
	}
	p := v.Transform.Position
	radius := float32(v.Transform.Scale)*0.75 + 0.1
	rl.DrawSphereWires(rl.Vector3{X: float32(p.X), Y: float32(p.Y), Z: float32(p.Z)}, radius, 6, 8, ColorHighlight)
}
