// internal/engine/factory.go
package engine

import (
	"fmt"

	"github.com/Cmooon-dev/gleaflet/internal/config"
	"github.com/Cmooon-dev/gleaflet/internal/engine/journal"
	"github.com/Cmooon-dev/gleaflet/internal/engine/memory"
	"github.com/Cmooon-dev/gleaflet/internal/engine/websocket"
	"github.com/Cmooon-dev/gleaflet/pkg/scene"
)

// New creates a scene engine based on configuration. Engines that talk
// to the outside world are initialized before they are returned.
func New(cfg config.EngineConfig) (scene.Engine, error) {
	switch cfg.Type {
	case "memory":
		return memory.New(), nil
	case "websocket":
		eng := websocket.New(websocket.Config{
			URL:       cfg.Websocket.URL,
			Secret:    cfg.Websocket.Secret,
			SceneName: cfg.SceneName,
			Version:   cfg.Version,
		})
		if err := eng.Init(); err != nil {
			return nil, fmt.Errorf("error initializing websocket engine: %w", err)
		}
		return eng, nil
	case "journal":
		eng := journal.New(journal.Config{
			Journal:   cfg.Journal,
			SceneName: cfg.SceneName,
			Version:   cfg.Version,
		}, journal.Dependencies{})
		if err := eng.Init(); err != nil {
			return nil, fmt.Errorf("error initializing journal engine: %w", err)
		}
		return eng, nil
	default:
		return nil, fmt.Errorf("unknown engine type: %s", cfg.Type)
	}
}
