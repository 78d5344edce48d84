// Package robot holds the figure's kinematic state and the animation
// state machine that drives it.
package robot

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Side indexes the left/right limb pairs.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// HomePosition is where the figure stands at startup and after a reset.
var HomePosition = mgl32.Vec3{0, 0, -10}

// Pose is the figure's complete kinematic state. The controller is its
// only writer; the renderer consumes read-only snapshots. All joint
// angles are in degrees.
type Pose struct {
	Position mgl32.Vec3 // world units
	Rotation mgl32.Vec3 // Euler angles, yaw is Y

	// Per-limb swing angles, derived from the phase accumulators every
	// tick so the renderer carries no animation logic.
	ArmSwing [2]float32
	LegSwing [2]float32

	HeadTilt float32

	// VerticalOffset is the jump/step bounce. Always derived by the
	// active animation's advance, never written by command handlers.
	VerticalOffset float32

	// Phase accumulators: unbounded, monotonically increasing oscillator
	// inputs. EnergyPhase drives the ambient glow pulsing and advances
	// every tick regardless of state.
	ArmPhase    float32
	LegPhase    float32
	EnergyPhase float32
}

// NewPose returns the origin pose.
func NewPose() Pose {
	return Pose{Position: HomePosition}
}
