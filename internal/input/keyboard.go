package input

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// keyTokens maps press events 1:1 to command tokens. Escape is handled
// separately as the quit key.
var keyTokens = map[glfw.Key]string{
	glfw.KeyUp:    "forward",
	glfw.KeyDown:  "backward",
	glfw.KeyLeft:  "rotate_left",
	glfw.KeyRight: "rotate_right",
	glfw.KeySpace: "jump",
	glfw.KeyW:     "wave",
	glfw.KeyD:     "dance",
	glfw.KeyN:     "nod",
	glfw.KeyR:     "reset",
}

// BindKeyboard installs a key callback that feeds press edges into the
// shared command queue. Repeats and releases are ignored.
func BindKeyboard(window *glfw.Window, queue *Queue) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		if key == glfw.KeyEscape {
			w.SetShouldClose(true)
			return
		}
		if token, ok := keyTokens[key]; ok {
			queue.Push(token)
		}
	})
}
