package editor

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const controlsLegend = "LMB: Paint | Shift+LMB: Select | RMB/Alt+LMB: Orbit | MMB/Arrows: Pan | Wheel: Zoom | Home: Reset view | Ctrl+Z: Undo | Ctrl+S: Snapshot | P: Toggle tool"

// drawHUD renders the status lines to the right of the panel and the
// control legend at the bottom of the screen.
func (e *Editor) drawHUD() {
	x := int32(PanelWidth + 12)
	s := e.session

	state := s.State().String()
	if !s.Active() {
		state = "inactive"
	}
	brush := s.Brush()
	rl.DrawText(
		fmt.Sprintf("Tool: %s | Brush: %s %.2f | Surface: %s", state, brush.Kind, brush.Radius, s.SurfaceTag()),
		x, 10, 16, rl.LightGray,
	)

	stats := s.Stats()
	rl.DrawText(
		fmt.Sprintf("Objects: %d | Tris: %d | Verts: %d | Scene: %d | FPS: %d",
			stats.Objects, stats.Triangles, stats.Vertices, e.world.Count(), rl.GetFPS()),
		x, 30, 16, rl.LightGray,
	)

	if _, prefab, t, ok := s.Pending(); ok {
		rl.DrawText(
			fmt.Sprintf("Pending: %s at (%.2f, %.2f, %.2f) scale %.2f", prefab, t.Position.X, t.Position.Y, t.Position.Z, t.Scale),
			x, 50, 16, rl.Yellow,
		)
	}

	if e.status != "" && rl.GetTime() < e.statusUntil {
		rl.DrawText(e.status, x, 70, 16, rl.Green)
	}

	rl.DrawText(controlsLegend, x, int32(e.screenHeight)-25, 14, rl.Gray)
}
