package renderer

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ErrStreamLayout is returned when streamed data is not a whole number of vertices.
var ErrStreamLayout = errors.New("stream data is not a multiple of the vertex size")

// StreamBuffer is a vertex buffer whose contents are replaced on every draw.
// Each vertex is a single float vector at attribute location 0.
type StreamBuffer struct {
	vao, vbo   uint32
	components int32
	capacity   int // floats
}

// NewStreamBuffer creates an empty stream buffer with components floats per vertex.
func (c *Context) NewStreamBuffer(components int32) *StreamBuffer {
	b := &StreamBuffer{components: components}
	gl.GenVertexArrays(1, &b.vao)
	c.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.VertexAttribPointerWithOffset(0, components, gl.FLOAT, false, components*4, 0)
	gl.EnableVertexAttribArray(0)

	c.BindVertexArray(0)
	return b
}

// DrawStream uploads data into b and draws it as triangles with program.
// The buffer grows to fit and is never shrunk.
func (c *Context) DrawStream(program uint32, b *StreamBuffer, data []float32) error {
	if len(data) == 0 {
		return nil
	}
	if len(data)%int(b.components) != 0 {
		return fmt.Errorf("%w: %d floats, %d per vertex", ErrStreamLayout, len(data), b.components)
	}

	c.UseProgram(program)
	c.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	if len(data) > b.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.DYNAMIC_DRAW)
		b.capacity = len(data)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data)*4, unsafe.Pointer(&data[0]))
	}
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(data))/b.components)

	c.stats.DrawCalls++
	c.stats.Instances++
	return c.CheckError("draw stream")
}

// DeleteStream releases b.
func (c *Context) DeleteStream(b *StreamBuffer) {
	if c.vao == b.vao {
		c.BindVertexArray(0)
	}
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
		b.vbo = 0
	}
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
}
