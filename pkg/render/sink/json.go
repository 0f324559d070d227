package sink

import (
	"encoding/json"

	"github.com/matzehuels/kbgraph/pkg/render/scene"
)

// RenderJSON serializes the resolved scene, including draw order and
// interaction state, for clients that draw it themselves.
func RenderJSON(s scene.Scene) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
