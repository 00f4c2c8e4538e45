//go:build !android

package game

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"remake/internal/vehicle"
)

// Keyboard samples the raw driving axes: W/S or Up/Down for throttle, A/D or
// Left/Right for steering, Space for the handbrake.
type Keyboard struct {
	window   *glfw.Window
	prevKeys map[glfw.Key]bool
}

func NewKeyboard(window *glfw.Window) *Keyboard {
	return &Keyboard{window: window, prevKeys: make(map[glfw.Key]bool)}
}

func (k *Keyboard) down(keys ...glfw.Key) bool {
	for _, key := range keys {
		if k.window.GetKey(key) == glfw.Press {
			return true
		}
	}
	return false
}

// axis returns -1, 0 or 1. Opposing keys cancel out.
func (k *Keyboard) axis(pos, neg []glfw.Key) float64 {
	v := 0.0
	if k.down(pos...) {
		v++
	}
	if k.down(neg...) {
		v--
	}
	return v
}

func (k *Keyboard) Sample() vehicle.ControlInput {
	return vehicle.ControlInput{
		Vertical:   k.axis([]glfw.Key{glfw.KeyW, glfw.KeyUp}, []glfw.Key{glfw.KeyS, glfw.KeyDown}),
		Horizontal: k.axis([]glfw.Key{glfw.KeyD, glfw.KeyRight}, []glfw.Key{glfw.KeyA, glfw.KeyLeft}),
		Handbrake:  k.down(glfw.KeySpace),
	}
}

// JustPressed reports a key going down since the previous call.
func (k *Keyboard) JustPressed(key glfw.Key) bool {
	down := k.window.GetKey(key) == glfw.Press
	jp := down && !k.prevKeys[key]
	k.prevKeys[key] = down
	return jp
}
