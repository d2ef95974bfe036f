package gui

import vk "github.com/goki/vulkan"

// drawCall is one indexed draw into the merged vertex and index buffers.
type drawCall struct {
	indexCount   uint32
	firstIndex   uint32
	vertexOffset int32
}

// drawOffsets is where the current draw list starts in the merged buffers,
// counted in vertices and indices.
type drawOffsets struct {
	vertex int
	index  int
}

// call places a command of the current list, whose offsets are relative to
// the list, in the merged buffers.
func (o drawOffsets) call(elementCount, indexOffset, vertexOffset int) drawCall {
	return drawCall{
		indexCount:   uint32(elementCount),
		firstIndex:   uint32(o.index + indexOffset),
		vertexOffset: int32(o.vertex + vertexOffset),
	}
}

// advance moves past a list holding vertexCount vertices and indexCount indices.
func (o drawOffsets) advance(vertexCount, indexCount int) drawOffsets {
	return drawOffsets{
		vertex: o.vertex + vertexCount,
		index:  o.index + indexCount,
	}
}

// indexTypeFor maps the GUI index size in bytes to the Vulkan index type.
func indexTypeFor(indexSize int) vk.IndexType {
	if indexSize == 4 {
		return vk.IndexTypeUint32
	}
	return vk.IndexTypeUint16
}
