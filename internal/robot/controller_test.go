package robot

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func advance(c *Controller, ticks int) {
	for i := 0; i < ticks; i++ {
		c.Advance()
	}
}

func TestNewControllerStartsIdleAtHome(t *testing.T) {
	c := NewController(DefaultTuning())

	if c.State() != StateIdle {
		t.Fatalf("initial state = %q, want idle", c.State())
	}
	if pos := c.Pose().Position; pos != HomePosition {
		t.Fatalf("initial position = %v, want %v", pos, HomePosition)
	}
}

func TestWalkForwardLandsExactlyOnTarget(t *testing.T) {
	c := NewController(DefaultTuning())
	c.Apply(WalkCommand{Direction: DirForward})

	if c.State() != StateWalking {
		t.Fatalf("state after walk = %q, want walking", c.State())
	}

	// 0.08 progress per tick: 13 ticks cross 1.0.
	advance(c, 13)

	want := mgl32.Vec3{0, 0, -10.5}
	pose := c.Pose()
	if pose.Position != want {
		t.Errorf("landed at %v, want exactly %v", pose.Position, want)
	}
	if pose.VerticalOffset != 0 {
		t.Errorf("vertical offset after landing = %v, want 0", pose.VerticalOffset)
	}
	if c.State() != StateIdle {
		t.Errorf("state after landing = %q, want idle", c.State())
	}
}

func TestWalkStaysBetweenStartAndTarget(t *testing.T) {
	c := NewController(DefaultTuning())
	c.Apply(WalkCommand{Direction: DirForward})

	prev := c.Pose().Position[2]
	for i := 0; i < 13; i++ {
		c.Advance()
		z := c.Pose().Position[2]
		if z > prev {
			t.Fatalf("tick %d: z moved backward from %v to %v", i, prev, z)
		}
		if z < -10.5 || z > -10 {
			t.Fatalf("tick %d: z = %v outside [-10.5, -10]", i, z)
		}
		prev = z
	}
}

func TestWalkDirectionRespectsYaw(t *testing.T) {
	tests := []struct {
		name string
		yaw  float32
		dir  Direction
		want mgl32.Vec3
	}{
		{"forward at 0", 0, DirForward, mgl32.Vec3{0, 0, -10.5}},
		{"backward at 0", 0, DirBackward, mgl32.Vec3{0, 0, -9.5}},
		{"left at 0", 0, DirLeft, mgl32.Vec3{-0.5, 0, -10}},
		{"right at 0", 0, DirRight, mgl32.Vec3{0.5, 0, -10}},
		{"forward at 90", 90, DirForward, mgl32.Vec3{-0.5, 0, -10}},
		{"backward at 90", 90, DirBackward, mgl32.Vec3{0.5, 0, -10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(DefaultTuning())
			if tt.yaw != 0 {
				c.Apply(RotateCommand{Degrees: tt.yaw})
			}
			c.Apply(WalkCommand{Direction: tt.dir})
			advance(c, 13)

			got := c.Pose().Position
			for i := 0; i < 3; i++ {
				if diff := math.Abs(float64(got[i] - tt.want[i])); diff > 1e-5 {
					t.Fatalf("landed at %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestWalkIgnoredWhileWalking(t *testing.T) {
	c := NewController(DefaultTuning())
	c.Apply(WalkCommand{Direction: DirForward})
	advance(c, 5)

	// A second step must not retarget the one in flight.
	c.Apply(WalkCommand{Direction: DirBackward})
	advance(c, 8)

	want := mgl32.Vec3{0, 0, -10.5}
	if pos := c.Pose().Position; pos != want {
		t.Errorf("position = %v, want %v (second walk should be dropped)", pos, want)
	}
}

func TestJumpSuppressedWhileWalking(t *testing.T) {
	c := NewController(DefaultTuning())
	c.Apply(WalkCommand{Direction: DirForward})
	c.Apply(JumpCommand{})

	if c.State() != StateWalking {
		t.Errorf("state = %q, want walking (jump suppressed mid-step)", c.State())
	}
}

func TestJumpSelfTerminates(t *testing.T) {
	c := NewController(DefaultTuning())
	c.Apply(JumpCommand{})

	if c.State() != StateJumping {
		t.Fatalf("state after jump = %q, want jumping", c.State())
	}

	advance(c, 29)
	if c.State() != StateJumping {
		t.Fatalf("jump ended early at tick 29")
	}
	if off := c.Pose().VerticalOffset; off <= 0 {
		t.Errorf("vertical offset mid-jump = %v, want > 0", off)
	}

	c.Advance()
	if c.State() != StateIdle {
		t.Errorf("state after 30 ticks = %q, want idle", c.State())
	}
	if off := c.Pose().VerticalOffset; off != 0 {
		t.Errorf("vertical offset after jump = %v, want 0", off)
	}
}

func TestJumpRestartsCleanly(t *testing.T) {
	c := NewController(DefaultTuning())
	c.Apply(JumpCommand{})
	advance(c, 10)
	first := c.Pose().VerticalOffset

	// A second jump mid-air restarts the arc from phase zero.
	c.Apply(JumpCommand{})
	c.Advance()
	second := c.Pose().VerticalOffset

	if second >= first {
		t.Errorf("offset after restart = %v, want below mid-arc %v", second, first)
	}
	advance(c, 29)
	if c.State() != StateIdle {
		t.Errorf("restarted jump did not terminate after its own 30 ticks")
	}
}

func TestWaveToggles(t *testing.T) {
	c := NewController(DefaultTuning())

	c.Apply(ToggleCommand{State: StateWaving})
	if c.State() != StateWaving {
		t.Fatalf("state = %q, want waving", c.State())
	}
	c.Apply(ToggleCommand{State: StateWaving})
	if c.State() != StateIdle {
		t.Fatalf("state after repeat = %q, want idle", c.State())
	}
}

func TestDanceToggleOddCountLandsDancing(t *testing.T) {
	c := NewController(DefaultTuning())
	for i := 0; i < 3; i++ {
		c.Apply(ToggleCommand{State: StateDancing})
	}
	if c.State() != StateDancing {
		t.Errorf("state after three toggles = %q, want dancing", c.State())
	}
}

func TestToggleSwitchesBetweenDanceAndWave(t *testing.T) {
	c := NewController(DefaultTuning())
	c.Apply(ToggleCommand{State: StateDancing})
	c.Apply(ToggleCommand{State: StateWaving})
	if c.State() != StateWaving {
		t.Errorf("state = %q, want waving (toggle switches, not stacks)", c.State())
	}
}

func TestToggleDiscardsWalkInFlight(t *testing.T) {
	c := NewController(DefaultTuning())
	c.Apply(WalkCommand{Direction: DirForward})
	advance(c, 5)
	mid := c.Pose().Position

	c.Apply(ToggleCommand{State: StateDancing})
	advance(c, 10)

	if pos := c.Pose().Position; pos != mid {
		t.Errorf("position moved to %v after toggle, want frozen at %v", pos, mid)
	}
}

func TestWaveDrivesRightArmOnly(t *testing.T) {
	tun := DefaultTuning()
	c := NewController(tun)
	c.Apply(ToggleCommand{State: StateWaving})
	c.Advance()

	pose := c.Pose()
	wantRight := float32(math.Sin(float64(tun.WaveRate)))*60 + 100
	if diff := math.Abs(float64(pose.ArmSwing[SideRight] - wantRight)); diff > 1e-5 {
		t.Errorf("right arm = %v, want %v", pose.ArmSwing[SideRight], wantRight)
	}
	// The left arm keeps the ambient sway, well below the raised arc.
	if pose.ArmSwing[SideLeft] > tun.IdleArmAmp {
		t.Errorf("left arm = %v, want ambient sway within %v", pose.ArmSwing[SideLeft], tun.IdleArmAmp)
	}
	if pose.LegSwing[SideLeft] != 0 || pose.LegSwing[SideRight] != 0 {
		t.Errorf("legs moved while waving: %v", pose.LegSwing)
	}
}

func TestDanceSwingsLimbsInOpposition(t *testing.T) {
	c := NewController(DefaultTuning())
	c.Apply(ToggleCommand{State: StateDancing})
	advance(c, 10)

	pose := c.Pose()
	if pose.ArmSwing[SideLeft] == 0 {
		t.Fatal("arms did not move while dancing")
	}
	if got := pose.ArmSwing[SideLeft] + pose.ArmSwing[SideRight]; math.Abs(float64(got)) > 1e-4 {
		t.Errorf("arm swings sum to %v, want opposition (sum 0)", got)
	}
	if got := pose.LegSwing[SideLeft] + pose.LegSwing[SideRight]; math.Abs(float64(got)) > 1e-4 {
		t.Errorf("leg swings sum to %v, want opposition (sum 0)", got)
	}
}

func TestRotateAccumulates(t *testing.T) {
	c := NewController(DefaultTuning())
	c.Apply(RotateCommand{Degrees: RotateStep})
	c.Apply(RotateCommand{Degrees: RotateStep})
	c.Apply(RotateCommand{Degrees: -RotateStep})

	if yaw := c.Pose().Rotation[1]; yaw != RotateStep {
		t.Errorf("yaw = %v, want %v", yaw, RotateStep)
	}
	if c.State() != StateIdle {
		t.Errorf("rotate changed state to %q", c.State())
	}
}

func TestNodToggles(t *testing.T) {
	c := NewController(DefaultTuning())

	c.Apply(NodCommand{})
	if tilt := c.Pose().HeadTilt; tilt != 25 {
		t.Fatalf("head tilt = %v, want 25", tilt)
	}
	c.Apply(NodCommand{})
	if tilt := c.Pose().HeadTilt; tilt != 0 {
		t.Fatalf("head tilt after repeat = %v, want 0", tilt)
	}
}

func TestNodIndependentOfState(t *testing.T) {
	c := NewController(DefaultTuning())
	c.Apply(ToggleCommand{State: StateDancing})
	c.Apply(NodCommand{})

	if c.State() != StateDancing {
		t.Errorf("nod changed state to %q", c.State())
	}
	if tilt := c.Pose().HeadTilt; tilt != 25 {
		t.Errorf("head tilt = %v, want 25", tilt)
	}
}

func TestResetRestoresHomeAndKeepsPhases(t *testing.T) {
	c := NewController(DefaultTuning())
	c.Apply(ToggleCommand{State: StateDancing})
	c.Apply(RotateCommand{Degrees: 45})
	advance(c, 20)
	phase := c.Pose().EnergyPhase

	c.Apply(ResetCommand{})

	pose := c.Pose()
	if pose.Position != HomePosition {
		t.Errorf("position = %v, want %v", pose.Position, HomePosition)
	}
	if pose.Rotation != (mgl32.Vec3{}) {
		t.Errorf("rotation = %v, want zero", pose.Rotation)
	}
	if c.State() != StateIdle {
		t.Errorf("state = %q, want idle", c.State())
	}
	// Phase accumulators survive reset so the glow does not visibly snap.
	if pose.EnergyPhase != phase {
		t.Errorf("energy phase = %v, want %v", pose.EnergyPhase, phase)
	}
}

func TestEnergyPhaseAdvancesInEveryState(t *testing.T) {
	for _, cmd := range []Command{nil, JumpCommand{}, ToggleCommand{State: StateWaving}, ToggleCommand{State: StateDancing}, WalkCommand{Direction: DirForward}} {
		c := NewController(DefaultTuning())
		if cmd != nil {
			c.Apply(cmd)
		}
		c.Advance()
		if c.Pose().EnergyPhase == 0 {
			t.Errorf("energy phase stalled in state %q", c.State())
		}
	}
}

func TestStateHandlerFiresOnChangesOnly(t *testing.T) {
	c := NewController(DefaultTuning())
	var seen []State
	c.SetStateHandler(func(s State) { seen = append(seen, s) })

	c.Apply(ToggleCommand{State: StateWaving})
	c.Apply(NodCommand{}) // no change
	c.Advance()           // waving continues, no change
	c.Apply(ToggleCommand{State: StateWaving})

	want := []State{StateWaving, StateIdle}
	if len(seen) != len(want) {
		t.Fatalf("handler fired %d times (%v), want %d", len(seen), seen, len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("transition %d = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestStateHandlerFiresOnJumpLanding(t *testing.T) {
	c := NewController(DefaultTuning())
	var seen []State
	c.SetStateHandler(func(s State) { seen = append(seen, s) })

	c.Apply(JumpCommand{})
	advance(c, 30)

	want := []State{StateJumping, StateIdle}
	if len(seen) != len(want) || seen[0] != want[0] || seen[1] != want[1] {
		t.Errorf("transitions = %v, want %v", seen, want)
	}
}

func TestSmoothstepEndpoints(t *testing.T) {
	if got := smoothstep(0); got != 0 {
		t.Errorf("smoothstep(0) = %v, want 0", got)
	}
	if got := smoothstep(1); got != 1 {
		t.Errorf("smoothstep(1) = %v, want 1", got)
	}
	if got := smoothstep(0.5); got != 0.5 {
		t.Errorf("smoothstep(0.5) = %v, want 0.5", got)
	}
}
