// Package scriptdefs holds the scene script vocabulary shared by the
// parser and the command handlers.
package scriptdefs

import (
	"sync"
)

// Script command words, one per line kind.
const (
	CmdMap    = "map"
	CmdView   = "view"
	CmdTiles  = "tiles"
	CmdStyle  = "style"
	CmdIcon   = "icon"
	CmdMarker = "marker"
	CmdLine   = "line"
	CmdAttach = "attach"
	CmdDetach = "detach"
)

// MinArgs is the minimum positional argument count per command, not
// counting the command word or key=value options. A line command with
// just a name builds an empty polyline, the engine decides what that
// means.
var MinArgs = map[string]int{
	CmdMap:    1, // surface
	CmdView:   3, // lat lon zoom
	CmdTiles:  1, // url template
	CmdStyle:  1, // style url
	CmdIcon:   2, // name, icon url
	CmdMarker: 2, // name, lat,lon
	CmdLine:   1, // name, then points
	CmdAttach: 1, // name
	CmdDetach: 1, // name
}

// Option keys accepted as key=value fields.
const (
	OptIcon         = "icon"
	OptPopup        = "popup"
	OptSize         = "size"
	OptAnchor       = "anchor"
	OptPopupAnchor  = "popupAnchor"
	OptShadow       = "shadow"
	OptShadowSize   = "shadowSize"
	OptShadowAnchor = "shadowAnchor"
	OptColor        = "color"
	OptWeight       = "weight"
	OptOpacity      = "opacity"
	OptMaxZoom      = "maxZoom"
	OptMinZoom      = "minZoom"
	OptAttribution  = "attribution"
)

// IsCommand reports whether word is a known script command.
func IsCommand(word string) bool {
	_, ok := MinArgs[word]
	return ok
}

// SafeCounter is a thread-safe counter
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Set(v int) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}
