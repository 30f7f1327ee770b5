package scene

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMap_BindsSurface(t *testing.T) {
	eng := &fakeEngine{}

	m, err := NewMap(eng, "map-root")

	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, []string{"map-root"}, eng.surfaces)
	assert.Equal(t, MapHandle(1), m.Handle())
}

func TestNewMap_EngineErrorPropagatesUnchanged(t *testing.T) {
	engineErr := errors.New("no such surface")
	eng := &fakeEngine{failOp: "createMap", failErr: engineErr}

	m, err := NewMap(eng, "missing")

	assert.Nil(t, m)
	assert.Equal(t, engineErr, err)
}

func TestMap_FluentChain(t *testing.T) {
	eng := &fakeEngine{}
	m, err := NewMap(eng, "root")
	require.NoError(t, err)

	opts := LayerOptions{MaxZoom: 19, MinZoom: 0, Opacity: 1, Attribution: "(c) OSM"}
	got := m.
		SetView(59.437, 24.7536, 13).
		AddTileLayer("https://tile.example.org/{z}/{x}/{y}.png", opts).
		AddMapLibreGLStyle("https://styles.example.org/basic.json")

	require.NoError(t, m.Err())
	assert.Same(t, m, got, "chain returns the same handle wrapper")
	assert.Equal(t, []string{"createMap", "setView", "addTileLayer", "addGlStyle"}, eng.ops)

	require.Len(t, eng.views, 1)
	assert.Equal(t, viewCall{m: m.Handle(), lat: 59.437, lon: 24.7536, zoom: 13}, eng.views[0])
	require.Len(t, eng.tileLayers, 1)
	assert.Equal(t, "https://tile.example.org/{z}/{x}/{y}.png", eng.tileLayers[0].template)
	assert.Equal(t, opts, eng.tileLayers[0].opts, "layer options pass through unchanged")
	require.Len(t, eng.glStyles, 1)
	assert.Equal(t, "https://styles.example.org/basic.json", eng.glStyles[0].url)
}

func TestMap_ChainStopsAtFirstError(t *testing.T) {
	engineErr := errors.New("view rejected")
	eng := &fakeEngine{failOp: "setView", failErr: engineErr}
	m, err := NewMap(eng, "root")
	require.NoError(t, err)

	m.SetView(0, 0, 1).
		AddTileLayer("https://t/{z}/{x}/{y}.png", LayerOptions{MaxZoom: 18, Opacity: 1}).
		SetView(1, 1, 2)

	assert.Equal(t, engineErr, m.Err(), "the first engine error is kept verbatim")
	assert.Equal(t, []string{"createMap", "setView"}, eng.ops, "calls after the failure are skipped")
}

func TestMap_PopupBoundBeforeAttach(t *testing.T) {
	eng := &fakeEngine{}
	m, err := NewMap(eng, "root")
	require.NoError(t, err)

	mk, err := NewMarker(40.7128, -74.006, "NY").WithPopup("Hi").Build(eng)
	require.NoError(t, err)

	m.AddMarker(mk)

	require.NoError(t, m.Err())
	assert.Equal(t, []string{"createMap", "createMarker", "bindPopup", "attachMarker"}, eng.ops)
	require.Len(t, eng.popups, 1)
	assert.Equal(t, popupCall{m: mk.Handle(), text: "Hi"}, eng.popups[0])
}

func TestMap_MarkerWithoutPopupAttachesDirectly(t *testing.T) {
	eng := &fakeEngine{}
	m, err := NewMap(eng, "root")
	require.NoError(t, err)

	mk, err := NewMarker(1, 2, "plain").Build(eng)
	require.NoError(t, err)

	m.AddMarker(mk)

	require.NoError(t, m.Err())
	assert.Empty(t, eng.popups)
	assert.Equal(t, []string{"createMap", "createMarker", "attachMarker"}, eng.ops)
}

func TestMap_PopupBindErrorStopsAttach(t *testing.T) {
	engineErr := errors.New("popup rejected")
	eng := &fakeEngine{failOp: "bindPopup", failErr: engineErr}
	m, err := NewMap(eng, "root")
	require.NoError(t, err)

	mk, err := NewMarker(1, 2, "a").WithPopup("text").Build(eng)
	require.NoError(t, err)

	m.AddMarker(mk)

	assert.Equal(t, engineErr, m.Err())
	assert.NotContains(t, eng.ops, "attachMarker")
}

func TestMap_AddPolyline(t *testing.T) {
	eng := &fakeEngine{}
	m, err := NewMap(eng, "root")
	require.NoError(t, err)

	p, err := NewPolyline([]Coordinate{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}).Build(eng)
	require.NoError(t, err)

	m.AddPolyline(p)

	require.NoError(t, m.Err())
	require.Len(t, eng.attachments, 1)
	assert.Equal(t, attachCall{mp: m.Handle(), entity: uint64(p.Handle())}, eng.attachments[0])
}

func TestMap_RemoveMarker(t *testing.T) {
	eng := &fakeEngine{}
	m, err := NewMap(eng, "root")
	require.NoError(t, err)
	mk, err := NewMarker(1, 2, "a").Build(eng)
	require.NoError(t, err)
	m.AddMarker(mk)
	require.NoError(t, m.Err())

	require.NoError(t, m.RemoveMarker(mk))
	assert.Equal(t, "detachMarker", eng.ops[len(eng.ops)-1])
}

func TestMap_RemoveErrorPropagatesUnchanged(t *testing.T) {
	engineErr := errors.New("detach failed")
	eng := &fakeEngine{failOp: "detachPolyline", failErr: engineErr}
	m, err := NewMap(eng, "root")
	require.NoError(t, err)
	p, err := NewPolyline([]Coordinate{{Lat: 1, Lon: 1}}).Build(eng)
	require.NoError(t, err)

	assert.Equal(t, engineErr, m.RemovePolyline(p))
}

func TestMap_RemoveNeverAttachedPassesThrough(t *testing.T) {
	// Detaching something that was never attached is the engine's
	// call; nothing here second-guesses it.
	eng := &fakeEngine{}
	m, err := NewMap(eng, "root")
	require.NoError(t, err)
	mk, err := NewMarker(1, 2, "a").Build(eng)
	require.NoError(t, err)

	require.NoError(t, m.RemoveMarker(mk))
	require.NoError(t, m.RemoveMarker(mk))
	assert.Equal(t, []string{"createMap", "createMarker", "detachMarker", "detachMarker"}, eng.ops)
}

func TestMap_ReattachAfterRemove(t *testing.T) {
	eng := &fakeEngine{}
	m, err := NewMap(eng, "root")
	require.NoError(t, err)
	mk, err := NewMarker(1, 2, "a").Build(eng)
	require.NoError(t, err)

	m.AddMarker(mk)
	require.NoError(t, m.Err())
	require.NoError(t, m.RemoveMarker(mk))
	m.AddMarker(mk)

	require.NoError(t, m.Err())
	assert.Equal(t, []string{
		"createMap", "createMarker",
		"attachMarker", "detachMarker", "attachMarker",
	}, eng.ops)
}
