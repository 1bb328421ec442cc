package editor

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/meshpaint/paint"
	"github.com/pthm-cable/meshpaint/replay"
)

// Camera input sensitivities
const (
	orbitSpeed   = 0.3  // degrees per pixel
	keyPanPixels = 8.0  // pixels per frame
	wheelZoom    = 0.1  // zoom factor per wheel notch
	keyZoomIn    = 1.25 // zoom factor for + / -
)

// handleInput processes window, camera, shortcut and selection input.
func (e *Editor) handleInput() {
	e.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if ctrlDown() && rl.IsKeyPressed(rl.KeyZ) {
		e.undo()
	}
	if ctrlDown() && rl.IsKeyPressed(rl.KeyS) {
		e.saveSnapshot()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		e.setActive(!e.session.Active())
	}

	e.handleCameraInput()

	mouse := rl.GetMousePosition()
	if !e.panel.Contains(mouse.X, mouse.Y) {
		e.inspector.HandleInput(mouse.X, mouse.Y, e.world, e.camera)
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (e *Editor) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == e.screenWidth && h == e.screenHeight {
		return
	}
	e.screenWidth = w
	e.screenHeight = h

	e.camera.Resize(float64(w), float64(h))
	e.inspector.Resize(int32(w), int32(h))
	e.panel.Resize(int32(h))
}

// handleCameraInput processes orbit, pan and zoom controls. Right drag or
// Alt+left drag orbits, middle drag or the arrow keys pan.
func (e *Editor) handleCameraInput() {
	delta := rl.GetMouseDelta()
	dx, dy := float64(delta.X), float64(delta.Y)

	orbiting := rl.IsMouseButtonDown(rl.MouseButtonRight) ||
		(altDown() && rl.IsMouseButtonDown(rl.MouseButtonLeft))
	if orbiting && (dx != 0 || dy != 0) {
		e.camera.Orbit(-dx*orbitSpeed, dy*orbitSpeed)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) && (dx != 0 || dy != 0) {
		e.camera.Pan(dx, dy)
	}

	if rl.IsKeyDown(rl.KeyRight) {
		e.camera.Pan(-keyPanPixels, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		e.camera.Pan(keyPanPixels, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		e.camera.Pan(0, -keyPanPixels)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		e.camera.Pan(0, keyPanPixels)
	}

	// Wheel zoom is ignored over the side panel
	mouse := rl.GetMousePosition()
	if wheel := rl.GetMouseWheelMove(); wheel != 0 && !e.panel.Contains(mouse.X, mouse.Y) {
		e.camera.ZoomBy(1 + float64(wheel)*wheelZoom)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		e.camera.ZoomBy(keyZoomIn)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		e.camera.ZoomBy(1 / keyZoomIn)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		e.camera.Reset()
	}
}

// handlePointer forwards left button strokes to the paint session. Presses
// over a panel or with Shift held (selection) do not start a stroke.
func (e *Editor) handlePointer() {
	mouse := rl.GetMousePosition()
	p := e.pointer()

	if !e.painting {
		if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) || shiftDown() || e.overUI(mouse) {
			return
		}
		e.painting = true
		e.lastMouse = mouse
		e.session.PointerDown(p)
		e.record(replay.ActionDown, p)
		return
	}

	if !rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		e.painting = false
		e.session.PointerUp(p)
		e.record(replay.ActionUp, p)
		return
	}

	if mouse != e.lastMouse {
		e.lastMouse = mouse
		e.session.PointerMove(p)
		e.record(replay.ActionMove, p)
	}
}

// pointer returns the current mouse state as a paint pointer.
func (e *Editor) pointer() paint.Pointer {
	mouse := rl.GetMousePosition()
	return paint.Pointer{X: float64(mouse.X), Y: float64(mouse.Y), Alt: altDown()}
}

// overUI reports whether the mouse is over the side panel or inspector.
func (e *Editor) overUI(mouse rl.Vector2) bool {
	return e.panel.Contains(mouse.X, mouse.Y) || e.inspector.Contains(mouse.X, mouse.Y)
}

func altDown() bool {
	return rl.IsKeyDown(rl.KeyLeftAlt) || rl.IsKeyDown(rl.KeyRightAlt)
}

func ctrlDown() bool {
	return rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) ||
		rl.IsKeyDown(rl.KeyLeftSuper)
}

func shiftDown() bool {
	return rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
}
