package outfit

import "github.com/raushankrgupta/tryon-studio/models"

// View is the derived studio state the presentation layer renders.
type View struct {
	HasModel         bool                  `json:"has_model"`
	DisplayedImage   string                `json:"displayed_image"`
	Cursor           int                   `json:"cursor"`
	HistoryLength    int                   `json:"history_length"`
	ActiveGarments   []models.WardrobeItem `json:"active_garments"`
	ActiveGarmentIDs []string              `json:"active_garment_ids"`
	PoseIndex        int                   `json:"pose_index"`
	PoseInstruction  string                `json:"pose_instruction"`
	AvailablePoses   []string              `json:"available_poses"`
	Videos           []string              `json:"videos"`
	CanUndo          bool                  `json:"can_undo"`
	Busy             bool                  `json:"busy"`
	BusyMessage      string                `json:"busy_message,omitempty"`
	VideoBusy        bool                  `json:"video_busy"`
	VideoMessage     string                `json:"video_message,omitempty"`
	LastError        string                `json:"last_error,omitempty"`
}

// View computes the current derived state.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	v := View{
		HasModel:         !e.history.Empty(),
		DisplayedImage:   e.displayedImage(),
		Cursor:           e.history.Cursor(),
		HistoryLength:    e.history.Len(),
		ActiveGarments:   e.history.Garments(),
		ActiveGarmentIDs: []string{},
		PoseIndex:        e.poseIndex,
		PoseInstruction:  PoseInstructions[e.poseIndex],
		AvailablePoses:   []string{},
		Videos:           append([]string{}, e.videoRefs...),
		CanUndo:          e.history.Cursor() > 0,
		Busy:             e.busy != 0,
		BusyMessage:      e.busyMessage,
		VideoBusy:        e.videoBusy != 0,
		VideoMessage:     e.videoMessage,
		LastError:        e.lastError,
	}
	if v.ActiveGarments == nil {
		v.ActiveGarments = []models.WardrobeItem{}
	}
	for _, g := range v.ActiveGarments {
		v.ActiveGarmentIDs = append(v.ActiveGarmentIDs, g.ID)
	}
	if layer := e.history.Active(); layer != nil {
		v.AvailablePoses = layer.Poses.Keys()
	}
	return v
}
