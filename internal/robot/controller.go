package robot

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// State is the figure's animation state. Exactly one is active at a
// time; Walking and Jumping are mutually exclusive, Waving and Dancing
// toggle back to Idle on repeat.
type State string

const (
	StateIdle    State = "idle"
	StateWalking State = "walking"
	StateJumping State = "jumping"
	StateWaving  State = "waving"
	StateDancing State = "dancing"
)

// Tuning holds the motion constants. Defaults match the reference robot;
// a few are exposed through configuration.
type Tuning struct {
	StepSize     float32 // world units per step
	WalkRate     float32 // progress per tick
	WalkBob      float32 // step bounce height
	JumpPeak     float32 // jump arc height
	JumpRate     float32 // jump phase per tick
	JumpTicks    int     // ticks before a jump self-terminates
	EnergyRate   float32 // energy phase per tick
	IdleSway     float32 // arm phase per tick outside walking/dancing
	WalkArmRate  float32 // arm phase per tick while walking
	WalkLegRate  float32 // leg phase per tick while walking
	WaveRate     float32 // wave phase per tick while waving
	HeadTiltStep float32 // nod tilt, degrees

	IdleArmAmp  float32
	WalkArmAmp  float32
	WalkLegAmp  float32
	DanceArmAmp float32
	DanceLegAmp float32
}

// DefaultTuning returns the reference motion constants.
func DefaultTuning() Tuning {
	return Tuning{
		StepSize:     0.5,
		WalkRate:     0.08,
		WalkBob:      0.12,
		JumpPeak:     1.5,
		JumpRate:     0.2,
		JumpTicks:    30,
		EnergyRate:   0.05,
		IdleSway:     0.02,
		WalkArmRate:  0.15,
		WalkLegRate:  0.3,
		WaveRate:     0.2,
		HeadTiltStep: 25,
		IdleArmAmp:   8,
		WalkArmAmp:   25,
		WalkLegAmp:   30,
		DanceArmAmp:  35,
		DanceLegAmp:  40,
	}
}

// walkIntent is a single in-flight step. Created when a walk transition
// is accepted, discarded when progress reaches 1.0.
type walkIntent struct {
	direction Direction
	start     mgl32.Vec3
	target    mgl32.Vec3
	progress  float32
}

// Controller owns the animation state machine. Commands accumulated
// since the last tick are applied in arrival order, then Advance runs
// exactly once per tick.
type Controller struct {
	mu     sync.Mutex
	tuning Tuning
	pose   Pose
	state  State

	walk      *walkIntent
	jumpPhase float32
	jumpTicks int
	wavePhase float32

	onStateChange func(State)
}

// NewController creates a controller in the idle origin pose.
func NewController(tuning Tuning) *Controller {
	return &Controller{
		tuning: tuning,
		pose:   NewPose(),
		state:  StateIdle,
	}
}

// SetStateHandler sets the callback invoked whenever the animation state
// changes. Called with the controller lock held released.
func (c *Controller) SetStateHandler(handler func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStateChange = handler
}

// Pose returns a snapshot of the current pose.
func (c *Controller) Pose() Pose {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pose
}

// State returns the active animation state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Apply processes one command as a state-machine transition. No-op
// transitions leave every phase accumulator and any in-flight progress
// untouched.
func (c *Controller) Apply(cmd Command) {
	c.mu.Lock()
	prev := c.state

	switch cmd := cmd.(type) {
	case WalkCommand:
		// An in-flight walk is never retargeted.
		if c.state != StateWalking {
			c.startWalk(cmd.Direction)
		}
	case JumpCommand:
		// Jump is suppressed while walking.
		if c.state != StateWalking {
			c.state = StateJumping
			c.jumpPhase = 0
			c.jumpTicks = 0
		}
	case RotateCommand:
		c.pose.Rotation[1] += cmd.Degrees
	case ToggleCommand:
		if c.state == cmd.State {
			c.state = StateIdle
		} else {
			c.state = cmd.State
			if cmd.State == StateWaving {
				c.wavePhase = 0
			}
		}
		c.walk = nil
	case NodCommand:
		if c.pose.HeadTilt == 0 {
			c.pose.HeadTilt = c.tuning.HeadTiltStep
		} else {
			c.pose.HeadTilt = 0
		}
	case ResetCommand:
		c.pose.Position = HomePosition
		c.pose.Rotation = mgl32.Vec3{}
		c.pose.VerticalOffset = 0
		c.state = StateIdle
		c.walk = nil
	}

	next := c.state
	handler := c.onStateChange
	c.mu.Unlock()

	if handler != nil && next != prev {
		handler(next)
	}
}

func (c *Controller) startWalk(dir Direction) {
	yaw := float64(mgl32.DegToRad(c.pose.Rotation[1]))
	sin, cos := float32(math.Sin(yaw)), float32(math.Cos(yaw))

	var unit mgl32.Vec3
	switch dir {
	case DirForward:
		unit = mgl32.Vec3{-sin, 0, -cos}
	case DirBackward:
		unit = mgl32.Vec3{sin, 0, cos}
	case DirLeft:
		unit = mgl32.Vec3{-cos, 0, sin}
	case DirRight:
		unit = mgl32.Vec3{cos, 0, -sin}
	default:
		return
	}

	c.state = StateWalking
	c.walk = &walkIntent{
		direction: dir,
		start:     c.pose.Position,
		target:    c.pose.Position.Add(unit.Mul(c.tuning.StepSize)),
	}
}

// Advance moves the animation forward by one fixed tick.
func (c *Controller) Advance() {
	c.mu.Lock()
	prev := c.state
	t := &c.tuning

	// Ambient glow pulsing runs in every state.
	c.pose.EnergyPhase += t.EnergyRate

	switch c.state {
	case StateJumping:
		c.jumpPhase += t.JumpRate
		c.jumpTicks++
		c.pose.VerticalOffset = absSin(c.jumpPhase) * t.JumpPeak
		c.pose.ArmPhase += t.IdleSway
		c.idleArms()
		if c.jumpTicks >= t.JumpTicks {
			c.state = StateIdle
			c.pose.VerticalOffset = 0
		}

	case StateWalking:
		w := c.walk
		w.progress += t.WalkRate
		if w.progress > 1 {
			w.progress = 1
		}
		c.pose.ArmPhase += t.WalkArmRate
		c.pose.LegPhase += t.WalkLegRate

		s := smoothstep(w.progress)
		c.pose.Position[0] = w.start[0] + (w.target[0]-w.start[0])*s
		c.pose.Position[2] = w.start[2] + (w.target[2]-w.start[2])*s
		c.pose.VerticalOffset = absSin(w.progress*math.Pi) * t.WalkBob

		c.swingLimbs(c.pose.ArmPhase, t.WalkArmAmp, c.pose.LegPhase, t.WalkLegAmp)

		if w.progress >= 1 {
			// Land exactly on the target so no floating error accumulates
			// across steps.
			c.pose.Position = w.target
			c.pose.VerticalOffset = 0
			c.state = StateIdle
			c.walk = nil
		}

	case StateDancing:
		c.pose.ArmPhase += t.IdleSway
		c.pose.LegPhase += t.IdleSway
		c.swingLimbs(c.pose.ArmPhase, t.DanceArmAmp, c.pose.LegPhase, t.DanceLegAmp)

	case StateWaving:
		c.pose.ArmPhase += t.IdleSway
		c.wavePhase += t.WaveRate
		c.idleArms()
		c.pose.ArmSwing[SideRight] = sinf(c.wavePhase)*60 + 100

	default: // StateIdle
		c.pose.ArmPhase += t.IdleSway
		c.idleArms()
	}

	next := c.state
	handler := c.onStateChange
	c.mu.Unlock()

	if handler != nil && next != prev {
		handler(next)
	}
}

// idleArms applies the ambient sway to both arms and stills the legs.
func (c *Controller) idleArms() {
	sway := sinf(c.pose.ArmPhase) * c.tuning.IdleArmAmp
	c.pose.ArmSwing[SideLeft] = sway
	c.pose.ArmSwing[SideRight] = sway
	c.pose.LegSwing[SideLeft] = 0
	c.pose.LegSwing[SideRight] = 0
}

// swingLimbs drives both limb pairs in opposition: left at phase, right
// offset by pi.
func (c *Controller) swingLimbs(armPhase, armAmp, legPhase, legAmp float32) {
	c.pose.ArmSwing[SideLeft] = sinf(armPhase) * armAmp
	c.pose.ArmSwing[SideRight] = sinf(armPhase+math.Pi) * armAmp
	c.pose.LegSwing[SideLeft] = sinf(legPhase) * legAmp
	c.pose.LegSwing[SideRight] = sinf(legPhase+math.Pi) * legAmp
}

// smoothstep is the cubic ease t^2(3-2t) applied to walk progress.
func smoothstep(t float32) float32 {
	return t * t * (3 - 2*t)
}

func sinf(x float32) float32 {
	return float32(math.Sin(float64(x)))
}

func absSin(x float32) float32 {
	return float32(math.Abs(math.Sin(float64(x))))
}
