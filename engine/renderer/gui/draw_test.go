package gui

import (
	"testing"

	vk "github.com/goki/vulkan"
)

type testCommand struct {
	elementCount, indexOffset, vertexOffset int
}

type testList struct {
	vertexCount, indexCount int
	commands                []testCommand
}

func TestDrawOffsets(t *testing.T) {
	tests := []struct {
		name  string
		lists []testList
		want  []drawCall
	}{
		{
			name: "single list",
			lists: []testList{
				{vertexCount: 8, indexCount: 18, commands: []testCommand{{12, 0, 0}, {6, 12, 4}}},
			},
			want: []drawCall{{12, 0, 0}, {6, 12, 4}},
		},
		{
			name: "second list starts after the first",
			lists: []testList{
				{vertexCount: 10, indexCount: 30, commands: []testCommand{{12, 0, 0}, {18, 12, 0}}},
				{vertexCount: 20, indexCount: 12, commands: []testCommand{{6, 0, 0}, {6, 6, 4}}},
			},
			want: []drawCall{{12, 0, 0}, {18, 12, 0}, {6, 30, 10}, {6, 36, 14}},
		},
		{
			name: "empty list in between",
			lists: []testList{
				{vertexCount: 4, indexCount: 6, commands: []testCommand{{6, 0, 0}}},
				{},
				{vertexCount: 4, indexCount: 6, commands: []testCommand{{6, 0, 0}}},
			},
			want: []drawCall{{6, 0, 0}, {6, 6, 4}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []drawCall
			var offsets drawOffsets
			for _, list := range tt.lists {
				for _, command := range list.commands {
					got = append(got, offsets.call(command.elementCount, command.indexOffset, command.vertexOffset))
				}
				offsets = offsets.advance(list.vertexCount, list.indexCount)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d draws, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("draw %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestIndexTypeFor(t *testing.T) {
	if got := indexTypeFor(2); got != vk.IndexTypeUint16 {
		t.Errorf("2-byte indices: got %d", got)
	}
	if got := indexTypeFor(4); got != vk.IndexTypeUint32 {
		t.Errorf("4-byte indices: got %d", got)
	}
}
