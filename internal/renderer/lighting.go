// internal/renderer/lighting.go
//
// Light definitions and the neon stage lighting rig
package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Light represents a point light source
type Light struct {
	Position  mgl32.Vec3
	Color     mgl32.Vec3
	Intensity float32
}

// LightingRig represents a collection of lights for a scene
type LightingRig struct {
	Lights       []Light
	AmbientColor mgl32.Vec3
}

// NewNeonLighting builds the stage rig: one strong key light plus cool
// and warm accents tinted to the palette.
func NewNeonLighting() *LightingRig {
	return &LightingRig{
		Lights: []Light{
			{
				Position:  mgl32.Vec3{8, 8, 8},
				Color:     mgl32.Vec3{1.0, 1.0, 1.0},
				Intensity: 90.0,
			},
			{
				Position:  mgl32.Vec3{-6, 3, -8},
				Color:     mgl32.Vec3{0.0, 1.0, 0.9},
				Intensity: 25.0,
			},
			{
				Position:  mgl32.Vec3{5, 2, -14},
				Color:     mgl32.Vec3{1.0, 0.2, 0.8},
				Intensity: 20.0,
			},
		},
		AmbientColor: mgl32.Vec3{0.4, 0.4, 0.5},
	}
}

// SetLightUniforms sets light uniforms on a shader
func (rig *LightingRig) SetLightUniforms(s *Shader) {
	for i, light := range rig.Lights {
		prefix := fmt.Sprintf("uLights[%d].", i)
		s.SetVec3(prefix+"position", light.Position)
		s.SetVec3(prefix+"color", light.Color)
		s.SetFloat(prefix+"intensity", light.Intensity)
	}
	s.SetInt("uLightCount", int32(len(rig.Lights)))
	s.SetVec3("uAmbientColor", rig.AmbientColor)
}
