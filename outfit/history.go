package outfit

import "github.com/raushankrgupta/tryon-studio/models"

// Layer is one step of the outfit. The base layer has no garment.
type Layer struct {
	Garment *models.WardrobeItem
	Poses   *PoseImages
}

func (l *Layer) garmentID() string {
	if l == nil || l.Garment == nil {
		return ""
	}
	return l.Garment.ID
}

// History is the list of outfit layers with a cursor on the active one.
// Layers after the cursor are kept so re-applying the same garment is free.
type History struct {
	layers []*Layer
	cursor int
}

// Reset replaces the history with the single base layer.
func (h *History) Reset(base *Layer) {
	h.layers = []*Layer{base}
	h.cursor = 0
}

func (h *History) Clear() {
	h.layers = nil
	h.cursor = 0
}

func (h *History) Empty() bool { return len(h.layers) == 0 }

func (h *History) Len() int { return len(h.layers) }

func (h *History) Cursor() int { return h.cursor }

// Active returns the layer under the cursor, or nil for an empty history.
func (h *History) Active() *Layer {
	if h.Empty() {
		return nil
	}
	return h.layers[h.cursor]
}

// Next returns the layer right after the cursor, or nil.
func (h *History) Next() *Layer {
	if h.cursor+1 >= len(h.layers) {
		return nil
	}
	return h.layers[h.cursor+1]
}

// Advance moves the cursor onto the next layer.
func (h *History) Advance() bool {
	if h.Next() == nil {
		return false
	}
	h.cursor++
	return true
}

// Undo moves the cursor back one layer without dropping anything.
func (h *History) Undo() bool {
	if h.cursor == 0 {
		return false
	}
	h.cursor--
	return true
}

// Commit drops every layer after index at, appends layer and makes it active.
func (h *History) Commit(at int, layer *Layer) {
	if at >= len(h.layers) {
		at = len(h.layers) - 1
	}
	h.layers = append(h.layers[:at+1:at+1], layer)
	h.cursor = len(h.layers) - 1
}

// ActiveLayers returns the layers from the base up to the cursor.
func (h *History) ActiveLayers() []*Layer {
	if h.Empty() {
		return nil
	}
	return append([]*Layer(nil), h.layers[:h.cursor+1]...)
}

// Garments returns the worn items of the active layers in order.
func (h *History) Garments() []models.WardrobeItem {
	var items []models.WardrobeItem
	for _, l := range h.ActiveLayers() {
		if l.Garment != nil {
			items = append(items, *l.Garment)
		}
	}
	return items
}
