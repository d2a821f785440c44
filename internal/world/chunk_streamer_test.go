package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamerRefusesRequestsAfterClose(t *testing.T) {
	cs := NewChunkStore()
	s := NewChunkStreamer(cs, NewFlatGenerator(0, 1), 1)
	s.Close()

	assert.NotPanics(t, func() {
		assert.False(t, s.Request(ChunkPos{X: 3}))
		assert.Zero(t, s.StreamAround(ChunkPos{}, 1))
	})
	assert.NotPanics(t, s.Close, "second close")
	s.Wait()
	assert.Zero(t, cs.Len())
}

func TestStreamerCloseDuringStreaming(t *testing.T) {
	cs := NewChunkStore()
	s := NewChunkStreamer(cs, NewFlatGenerator(0, 1), 2)

	done := make(chan int)
	go func() {
		queued := 0
		for r := range 8 {
			queued += s.StreamAround(ChunkPos{Y: 100 * r}, 4)
		}
		done <- queued
	}()
	s.Close()
	queued := <-done
	s.Wait()

	assert.Equal(t, queued, cs.Len())
	assert.False(t, s.Request(ChunkPos{Y: -100}))
}
