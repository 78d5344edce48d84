// internal/renderer/figure.go
//
// Assembles the articulated robot from primitives. All motion comes in
// through the pose snapshot; nothing here advances animation.
package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/dojdev153/nexus-robot-control/internal/robot"
)

// Palette is the figure's neon color scheme.
type Palette struct {
	Primary   mgl32.Vec3 // cyan
	Secondary mgl32.Vec3 // magenta
	Accent    mgl32.Vec3 // orange
	Body      mgl32.Vec3 // dark blue
	Limbs     mgl32.Vec3 // dark gray
	Glow      mgl32.Vec3 // bright cyan
	Energy    mgl32.Vec3 // hot pink
}

// DefaultPalette returns the reference color scheme.
func DefaultPalette() Palette {
	return Palette{
		Primary:   mgl32.Vec3{0.0, 1.0, 0.8},
		Secondary: mgl32.Vec3{1.0, 0.0, 1.0},
		Accent:    mgl32.Vec3{1.0, 0.4, 0.0},
		Body:      mgl32.Vec3{0.1, 0.15, 0.3},
		Limbs:     mgl32.Vec3{0.2, 0.2, 0.25},
		Glow:      mgl32.Vec3{0.0, 1.0, 1.0},
		Energy:    mgl32.Vec3{1.0, 0.0, 0.5},
	}
}

// Figure renders the robot from a pose snapshot.
type Figure struct {
	palette Palette
	mouth   *lineBuffer
}

// NewFigure builds the figure's static buffers. Requires a current GL
// context.
func NewFigure() *Figure {
	return &Figure{
		palette: DefaultPalette(),
		mouth:   newMouthArc(),
	}
}

// newMouthArc builds the holographic mouth polyline in head-local
// coordinates.
func newMouthArc() *lineBuffer {
	var vertices []float32
	for i := 0; i <= 10; i++ {
		t := float32(i) / 10
		angle := math.Pi * float64(t)
		x := -0.2 + 0.4*t
		y := -0.2 - 0.1*float32(math.Sin(angle))
		vertices = append(vertices, x, y, 0.41)
	}
	return uploadLines(vertices)
}

// Delete releases the figure's buffers.
func (f *Figure) Delete() {
	f.mouth.delete()
}

// Draw renders the complete robot with its energy aura.
func (f *Figure) Draw(r *Renderer, pose robot.Pose) {
	root := mgl32.Translate3D(pose.Position.X(), pose.Position.Y()+pose.VerticalOffset, pose.Position.Z()).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(pose.Rotation.X()))).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(pose.Rotation.Y()))).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(pose.Rotation.Z())))

	f.drawBody(r, root, pose)
	f.drawHead(r, root, pose)
	f.drawArm(r, root, pose, robot.SideLeft)
	f.drawArm(r, root, pose, robot.SideRight)
	f.drawLeg(r, root, pose, robot.SideLeft)
	f.drawLeg(r, root, pose, robot.SideRight)
	f.drawAura(r, root, pose)
}

// drawAura renders the pulsing translucent energy shell. Drawn last so
// the blend composes over the body.
func (f *Figure) drawAura(r *Renderer, root mgl32.Mat4, pose robot.Pose) {
	pulse := sin32(pose.EnergyPhase)*0.3 + 0.7
	model := root.Mul4(mgl32.Scale3D(1.2, 1.2, 1.2))
	glow := f.palette.Glow
	r.DrawGlowSphere(model, mgl32.Vec4{glow.X(), glow.Y(), glow.Z(), pulse * 0.2})
}

func (f *Figure) drawBody(r *Renderer, root mgl32.Mat4, pose robot.Pose) {
	body := root.Mul4(mgl32.Translate3D(0, 0.5, 0))

	r.DrawCube(body.Mul4(mgl32.Scale3D(1.0, 1.5, 0.6)), f.palette.Body)

	// Chest panel
	panel := body.Mul4(mgl32.Translate3D(0, 0.2, 0.31))
	r.DrawCube(panel.Mul4(mgl32.Scale3D(0.5, 0.6, 0.08)), f.palette.Primary)

	// Energy nodes
	for i := 0; i < 3; i++ {
		node := body.Mul4(mgl32.Translate3D(-0.15+float32(i)*0.15, 0, 0.35))
		glow := sin32(pose.EnergyPhase+float32(i))*0.3 + 0.7
		r.DrawSphere(node.Mul4(mgl32.Scale3D(0.08, 0.08, 0.08)), f.palette.Energy.Mul(glow))
	}
}

func (f *Figure) drawHead(r *Renderer, root mgl32.Mat4, pose robot.Pose) {
	head := root.Mul4(mgl32.Translate3D(0, 1.8, 0)).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(pose.HeadTilt)))

	r.DrawCube(head.Mul4(mgl32.Scale3D(0.8, 0.8, 0.8)), f.palette.Primary)

	// LED eyes pulse at twice the energy rate
	brightness := sin32(pose.EnergyPhase*2)*0.5 + 1.0
	eyeColor := f.palette.Glow.Mul(brightness)
	for _, x := range []float32{-0.2, 0.2} {
		eye := head.Mul4(mgl32.Translate3D(x, 0.1, 0.41))
		r.DrawSphere(eye.Mul4(mgl32.Scale3D(0.12, 0.12, 0.12)), eyeColor)
	}

	// Antenna with energy tip
	antenna := head.Mul4(mgl32.Translate3D(0, 0.4, 0)).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(-90)))
	r.DrawCube(antenna.Mul4(mgl32.Scale3D(0.08, 0.35, 0.08)), f.palette.Secondary)
	tip := antenna.Mul4(mgl32.Translate3D(0, 0, 0.35))
	r.DrawSphere(tip.Mul4(mgl32.Scale3D(0.15, 0.15, 0.15)), f.palette.Energy)

	// Holographic mouth
	accent := f.palette.Accent
	r.DrawLines(f.mouth, lineStripMode, head, mgl32.Vec4{accent.X(), accent.Y(), accent.Z(), 1})
}

func (f *Figure) drawArm(r *Renderer, root mgl32.Mat4, pose robot.Pose, side robot.Side) {
	dir := sideSign(side)
	shoulder := root.Mul4(mgl32.Translate3D(dir*0.7, 0.8, 0))

	r.DrawSphere(shoulder.Mul4(mgl32.Scale3D(0.18, 0.18, 0.18)), f.palette.Limbs)

	arm := shoulder.Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(pose.ArmSwing[side])))

	upper := arm.Mul4(mgl32.Translate3D(0, -0.3, 0))
	r.DrawCube(upper.Mul4(mgl32.Scale3D(0.2, 0.65, 0.2)), f.palette.Limbs)

	elbow := arm.Mul4(mgl32.Translate3D(0, -0.65, 0))
	r.DrawSphere(elbow.Mul4(mgl32.Scale3D(0.15, 0.15, 0.15)), f.palette.Secondary)

	forearm := elbow.Mul4(mgl32.Translate3D(0, -0.3, 0))
	r.DrawCube(forearm.Mul4(mgl32.Scale3D(0.18, 0.65, 0.18)), f.palette.Primary)

	hand := forearm.Mul4(mgl32.Translate3D(0, -0.4, 0))
	r.DrawSphere(hand.Mul4(mgl32.Scale3D(0.18, 0.18, 0.18)), f.palette.Accent)
}

func (f *Figure) drawLeg(r *Renderer, root mgl32.Mat4, pose robot.Pose, side robot.Side) {
	dir := sideSign(side)
	hip := root.Mul4(mgl32.Translate3D(dir*0.3, -0.3, 0))

	r.DrawSphere(hip.Mul4(mgl32.Scale3D(0.18, 0.18, 0.18)), f.palette.Limbs)

	leg := hip.Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(pose.LegSwing[side])))

	thigh := leg.Mul4(mgl32.Translate3D(0, -0.45, 0))
	r.DrawCube(thigh.Mul4(mgl32.Scale3D(0.25, 0.9, 0.25)), f.palette.Limbs)

	knee := leg.Mul4(mgl32.Translate3D(0, -0.9, 0))
	r.DrawSphere(knee.Mul4(mgl32.Scale3D(0.15, 0.15, 0.15)), f.palette.Secondary)

	shin := knee.Mul4(mgl32.Translate3D(0, -0.4, 0))
	r.DrawCube(shin.Mul4(mgl32.Scale3D(0.22, 0.9, 0.22)), f.palette.Primary)

	foot := shin.Mul4(mgl32.Translate3D(0, -0.5, 0.15))
	r.DrawCube(foot.Mul4(mgl32.Scale3D(0.28, 0.12, 0.45)), f.palette.Energy)
}

func sideSign(side robot.Side) float32 {
	if side == robot.SideLeft {
		return -1
	}
	return 1
}

func sin32(x float32) float32 {
	return float32(math.Sin(float64(x)))
}
