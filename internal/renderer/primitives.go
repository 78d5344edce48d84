// internal/renderer/primitives.go
//
// Procedural primitive meshes: the whole figure is assembled from unit
// cubes and spheres, so there is no asset pipeline.
package renderer

import (
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// lineStripMode aliases the GL primitive so callers outside this file
// don't need the gl import.
const lineStripMode = gl.LINE_STRIP

// meshBuffer is an uploaded triangle mesh with position+normal layout.
type meshBuffer struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	vertCount  int32
}

func uploadMesh(vertices []float32, indices []uint32) *meshBuffer {
	m := &meshBuffer{}

	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)

	gl.BindVertexArray(m.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	stride := int32(6 * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	if len(indices) > 0 {
		gl.GenBuffers(1, &m.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
		m.indexCount = int32(len(indices))
	} else {
		m.vertCount = int32(len(vertices) / 6)
	}

	gl.BindVertexArray(0)
	return m
}

func (m *meshBuffer) draw() {
	gl.BindVertexArray(m.vao)
	if m.indexCount > 0 {
		gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, m.vertCount)
	}
	gl.BindVertexArray(0)
}

func (m *meshBuffer) delete() {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
}

// newCubeMesh builds a unit cube centered at the origin.
func newCubeMesh() *meshBuffer {
	vertices := []float32{
		// positions          // normals
		-0.5, -0.5, -0.5, 0, 0, -1,
		0.5, 0.5, -0.5, 0, 0, -1,
		0.5, -0.5, -0.5, 0, 0, -1,
		0.5, 0.5, -0.5, 0, 0, -1,
		-0.5, -0.5, -0.5, 0, 0, -1,
		-0.5, 0.5, -0.5, 0, 0, -1,

		-0.5, -0.5, 0.5, 0, 0, 1,
		0.5, -0.5, 0.5, 0, 0, 1,
		0.5, 0.5, 0.5, 0, 0, 1,
		0.5, 0.5, 0.5, 0, 0, 1,
		-0.5, 0.5, 0.5, 0, 0, 1,
		-0.5, -0.5, 0.5, 0, 0, 1,

		-0.5, 0.5, 0.5, -1, 0, 0,
		-0.5, 0.5, -0.5, -1, 0, 0,
		-0.5, -0.5, -0.5, -1, 0, 0,
		-0.5, -0.5, -0.5, -1, 0, 0,
		-0.5, -0.5, 0.5, -1, 0, 0,
		-0.5, 0.5, 0.5, -1, 0, 0,

		0.5, 0.5, 0.5, 1, 0, 0,
		0.5, -0.5, -0.5, 1, 0, 0,
		0.5, 0.5, -0.5, 1, 0, 0,
		0.5, -0.5, -0.5, 1, 0, 0,
		0.5, 0.5, 0.5, 1, 0, 0,
		0.5, -0.5, 0.5, 1, 0, 0,

		-0.5, -0.5, -0.5, 0, -1, 0,
		0.5, -0.5, -0.5, 0, -1, 0,
		0.5, -0.5, 0.5, 0, -1, 0,
		0.5, -0.5, 0.5, 0, -1, 0,
		-0.5, -0.5, 0.5, 0, -1, 0,
		-0.5, -0.5, -0.5, 0, -1, 0,

		-0.5, 0.5, -0.5, 0, 1, 0,
		0.5, 0.5, 0.5, 0, 1, 0,
		0.5, 0.5, -0.5, 0, 1, 0,
		0.5, 0.5, 0.5, 0, 1, 0,
		-0.5, 0.5, -0.5, 0, 1, 0,
		-0.5, 0.5, 0.5, 0, 1, 0,
	}
	return uploadMesh(vertices, nil)
}

// newSphereMesh builds a unit-radius UV sphere.
func newSphereMesh(slices, stacks int) *meshBuffer {
	var vertices []float32
	var indices []uint32

	for stack := 0; stack <= stacks; stack++ {
		phi := math.Pi * float64(stack) / float64(stacks)
		for slice := 0; slice <= slices; slice++ {
			theta := 2 * math.Pi * float64(slice) / float64(slices)

			x := float32(math.Sin(phi) * math.Cos(theta))
			y := float32(math.Cos(phi))
			z := float32(math.Sin(phi) * math.Sin(theta))

			// Unit sphere: position doubles as the normal.
			vertices = append(vertices, x, y, z, x, y, z)
		}
	}

	cols := uint32(slices + 1)
	for stack := 0; stack < stacks; stack++ {
		for slice := 0; slice < slices; slice++ {
			a := uint32(stack)*cols + uint32(slice)
			b := a + cols
			indices = append(indices, a, b, a+1, b, b+1, a+1)
		}
	}

	return uploadMesh(vertices, indices)
}

// lineBuffer is an uploaded position-only vertex buffer for line
// primitives.
type lineBuffer struct {
	vao       uint32
	vbo       uint32
	vertCount int32
}

func uploadLines(vertices []float32) *lineBuffer {
	b := &lineBuffer{vertCount: int32(len(vertices) / 3)}

	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.vbo)

	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)

	gl.BindVertexArray(0)
	return b
}

func (b *lineBuffer) draw(mode uint32) {
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(mode, 0, b.vertCount)
	gl.BindVertexArray(0)
}

func (b *lineBuffer) delete() {
	gl.DeleteVertexArrays(1, &b.vao)
	gl.DeleteBuffers(1, &b.vbo)
}

// newGroundGrid builds the glowing floor grid at y = -1.5.
func newGroundGrid() *lineBuffer {
	var vertices []float32
	for i := -15; i <= 15; i++ {
		f := float32(i)
		vertices = append(vertices,
			f, -1.5, -25,
			f, -1.5, 5,
			-15, -1.5, -25+f,
			15, -1.5, -25+f,
		)
	}
	return uploadLines(vertices)
}
