package main

import (
	"time"

	"github.com/Cmooon-dev/gleaflet/internal/config"
	"github.com/Cmooon-dev/gleaflet/internal/session"
	"github.com/Cmooon-dev/gleaflet/pkg/scene"
)

// runDemo builds the built-in demo scene through the public library
// API against the configured engine, then finishes with the same
// snapshot tail a script run gets.
func runDemo() error {
	if err := startServices("demo"); err != nil {
		return err
	}
	defer stopServices()

	checkViewerStatus()

	sessionCtx.Begin(session.Info{
		SceneName:  "demo",
		EngineKind: config.GetEngineConfig().Type,
		StartedAt:  time.Now(),
	})

	Logger.Info("Populating demo scene...")
	demoStart := time.Now()
	if err := populateDemoScene(); err != nil {
		return err
	}
	Logger.Info("Demo scene populated.", "duration", time.Since(demoStart))

	return finishScene("demo")
}

// populateDemoScene walks the whole builder surface: a styled icon
// with shadow art, a marker carrying it plus a popup, a bare marker
// on the stock pin, a styled polyline between the two, and a
// detach/re-attach round trip.
func populateDemoScene() error {
	defaults := config.GetDefaultsConfig()

	m, err := scene.NewMap(sceneEngine, defaults.Surface)
	if err != nil {
		return err
	}
	sessionCtx.SetSurface(defaults.Surface)

	leafIcon := scene.NewIcon("https://leafletjs.com/examples/custom-icons/leaf-green.png").
		WithShadow("https://leafletjs.com/examples/custom-icons/leaf-shadow.png").
		WithIconSize(scene.Point{X: 38, Y: 95}).
		WithShadowSize(scene.Point{X: 50, Y: 64}).
		WithIconAnchor(scene.Point{X: 22, Y: 94}).
		WithShadowAnchor(scene.Point{X: 4, Y: 62}).
		WithPopupAnchor(scene.Point{X: -3, Y: -76}).
		Build()

	newYork, err := scene.NewMarker(40.7128, -74.0060, "new-york").
		WithIcon(leafIcon).
		WithPopup("Hello New York").
		Build(sceneEngine)
	if err != nil {
		return err
	}
	sessionCtx.CountMarker()

	// stock pin, no popup
	london, err := scene.NewMarker(51.5074, -0.1278, "london").Build(sceneEngine)
	if err != nil {
		return err
	}
	sessionCtx.CountMarker()

	route, err := scene.NewPolyline([]scene.Coordinate{
		{Lat: 40.7128, Lon: -74.0060},
		{Lat: 51.5074, Lon: -0.1278},
	}).
		WithColor("#d33682").
		WithWeight(4).
		WithOpacity(0.8).
		Build(sceneEngine)
	if err != nil {
		return err
	}
	sessionCtx.CountPolyline()

	m.SetView(defaults.Lat, defaults.Lon, defaults.Zoom).
		AddTileLayer(defaults.TileURL, scene.LayerOptions{
			MaxZoom:     defaults.MaxZoom,
			MinZoom:     defaults.MinZoom,
			Opacity:     1,
			Attribution: defaults.Attribution,
		}).
		AddMarker(newYork).
		AddMarker(london).
		AddPolyline(route)
	if err := m.Err(); err != nil {
		return err
	}

	// round-trip the detach path: take the stock marker off the map
	// and put it back
	if err := m.RemoveMarker(london); err != nil {
		return err
	}
	return m.AddMarker(london).Err()
}
