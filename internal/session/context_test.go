package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContext_Defaults(t *testing.T) {
	ctx := NewContext()

	info := ctx.Info()
	assert.Equal(t, "No scene loaded", info.SceneName)
	assert.True(t, info.StartedAt.IsZero())

	commands, markers, polylines := ctx.Counters()
	assert.Zero(t, commands)
	assert.Zero(t, markers)
	assert.Zero(t, polylines)
}

func TestContext_BeginStampsStart(t *testing.T) {
	ctx := NewContext()
	ctx.CountCommand()

	ctx.Begin(Info{SceneName: "harbor", EngineKind: "memory"})

	info := ctx.Info()
	assert.Equal(t, "harbor", info.SceneName)
	assert.False(t, info.StartedAt.IsZero())

	// Counters restart with the run.
	commands, _, _ := ctx.Counters()
	assert.Zero(t, commands)
}

func TestContext_BeginKeepsGivenStart(t *testing.T) {
	ctx := NewContext()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	ctx.Begin(Info{SceneName: "harbor", StartedAt: at})
	assert.Equal(t, at, ctx.Info().StartedAt)
}

func TestContext_ThreadSafe(t *testing.T) {
	ctx := NewContext()
	ctx.Begin(Info{SceneName: "harbor"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx.CountCommand()
			ctx.CountMarker()
			ctx.CountPolyline()
			_ = ctx.Info()
			_ = ctx.LogAttrs()
		}()
	}
	wg.Wait()

	commands, markers, polylines := ctx.Counters()
	assert.Equal(t, 50, commands)
	assert.Equal(t, 50, markers)
	assert.Equal(t, 50, polylines)
}

func TestContext_LogAttrs(t *testing.T) {
	ctx := NewContext()
	ctx.Begin(Info{SceneName: "harbor", EngineKind: "journal"})

	attrs := ctx.LogAttrs()
	assert.Len(t, attrs, 2)
	assert.Equal(t, "scene", attrs[0].Key)
	assert.Equal(t, "harbor", attrs[0].Value.String())
	assert.Equal(t, "engine", attrs[1].Key)
	assert.Equal(t, "journal", attrs[1].Value.String())
}
