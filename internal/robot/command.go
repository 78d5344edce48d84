package robot

import "strings"

// Direction is a walk direction relative to the figure's current yaw.
type Direction string

const (
	DirForward  Direction = "forward"
	DirBackward Direction = "backward"
	DirLeft     Direction = "left"
	DirRight    Direction = "right"
)

// Command is a parsed control command. The router produces commands; the
// controller consumes them.
type Command interface {
	command()
}

// WalkCommand requests a single step in a direction.
type WalkCommand struct {
	Direction Direction
}

// RotateCommand adds a signed yaw delta in degrees.
type RotateCommand struct {
	Degrees float32
}

// JumpCommand requests a jump.
type JumpCommand struct{}

// ToggleCommand toggles a repeatable animation (Waving or Dancing).
type ToggleCommand struct {
	State State
}

// NodCommand toggles the head tilt.
type NodCommand struct{}

// ResetCommand returns the figure to the origin pose.
type ResetCommand struct{}

func (WalkCommand) command()   {}
func (RotateCommand) command() {}
func (JumpCommand) command()   {}
func (ToggleCommand) command() {}
func (NodCommand) command()    {}
func (ResetCommand) command()  {}

// RotateStep is the fixed yaw delta per rotate command, in degrees.
const RotateStep float32 = 15

// Route classifies a raw token into a command. Tokens are
// case-insensitive and whitespace-trimmed. Unrecognized tokens return
// (nil, false); malformed peripheral input is expected and is not an
// error.
func Route(token string) (Command, bool) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "forward":
		return WalkCommand{Direction: DirForward}, true
	case "backward":
		return WalkCommand{Direction: DirBackward}, true
	case "left":
		return WalkCommand{Direction: DirLeft}, true
	case "right":
		return WalkCommand{Direction: DirRight}, true
	case "rotate_left":
		return RotateCommand{Degrees: -RotateStep}, true
	case "rotate_right":
		return RotateCommand{Degrees: RotateStep}, true
	case "jump":
		return JumpCommand{}, true
	case "wave":
		return ToggleCommand{State: StateWaving}, true
	case "dance":
		return ToggleCommand{State: StateDancing}, true
	case "nod":
		return NodCommand{}, true
	case "reset":
		return ResetCommand{}, true
	}
	return nil, false
}
