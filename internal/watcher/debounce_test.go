package watcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebounceBatches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan string)
	out := Debounce(ctx, in, 50*time.Millisecond)

	in <- "a.cpp"
	in <- "b.cpp"
	in <- "a.cpp"

	select {
	case batch := <-out:
		assert.Equal(t, []string{"a.cpp", "b.cpp", "a.cpp"}, batch)
	case <-time.After(5 * time.Second):
		t.Fatal("no batch")
	}

	in <- "c.cpp"
	select {
	case batch := <-out:
		assert.Equal(t, []string{"c.cpp"}, batch)
	case <-time.After(5 * time.Second):
		t.Fatal("no second batch")
	}
}

func TestDebounceFlushesOnClose(t *testing.T) {
	in := make(chan string, 1)
	out := Debounce(context.Background(), in, time.Hour)

	in <- "x.h"
	close(in)

	batch, ok := <-out
	require.True(t, ok)
	assert.Equal(t, []string{"x.h"}, batch)

	_, ok = <-out
	assert.False(t, ok)
}
