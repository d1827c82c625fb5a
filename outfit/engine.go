// Package outfit holds the try-on studio state: the outfit layer history, the
// per-layer pose images, the working wardrobe, generated videos and saved
// outfits. Generation calls run without the engine lock held; their results
// are folded back only if the studio has not been reset in the meantime.
package outfit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/raushankrgupta/tryon-studio/logger"
	"github.com/raushankrgupta/tryon-studio/media"
	"github.com/raushankrgupta/tryon-studio/metrics"
	"github.com/raushankrgupta/tryon-studio/models"
	"go.uber.org/zap"
)

const maxVideos = 2

// ImageGenerator performs the image operations. Every method returns a media ref.
type ImageGenerator interface {
	SynthesizeModel(ctx context.Context, photo media.Image) (string, error)
	RemoveBackground(ctx context.Context, img media.Image) (string, error)
	ComposeGarment(ctx context.Context, baseRef string, garment media.Image, category models.Category) (string, error)
	RegeneratePose(ctx context.Context, baseRef string, instruction string) (string, error)
}

type VideoGenerator interface {
	GenerateVideo(ctx context.Context, sourceRef string, quality models.VideoQuality) (string, error)
}

// CredentialProvider reports and requests the credential video generation needs.
type CredentialProvider interface {
	HasUsableCredential() bool
	PromptCredentialSelection()
}

// OutfitStore persists the saved outfit list under a single key.
type OutfitStore interface {
	Load(ctx context.Context) ([]models.SavedOutfit, error)
	Save(ctx context.Context, outfits []models.SavedOutfit) error
}

type Options struct {
	Images      ImageGenerator
	Videos      VideoGenerator
	Credentials CredentialProvider
	Outfits     OutfitStore
	Media       media.Store
	Catalog     []models.WardrobeItem
	Logger      *zap.Logger
}

type Engine struct {
	images  ImageGenerator
	videos  VideoGenerator
	creds   CredentialProvider
	outfits OutfitStore
	media   media.Store
	logger  *zap.Logger

	mu        sync.Mutex
	history   History
	poseIndex int
	wardrobe  []models.WardrobeItem
	videoRefs []string
	saved     []models.SavedOutfit
	lastError string

	busy         uint64
	busyMessage  string
	videoBusy    uint64
	videoMessage string
	seq          uint64

	// epoch changes on Reset, revision whenever the displayed outfit or pose changes.
	epoch    uint64
	revision uint64
}

// NewEngine wires the engine and loads the saved outfits.
func NewEngine(ctx context.Context, opts Options) (*Engine, error) {
	switch {
	case opts.Images == nil:
		return nil, errors.New("image generator is required")
	case opts.Videos == nil:
		return nil, errors.New("video generator is required")
	case opts.Credentials == nil:
		return nil, errors.New("credential provider is required")
	case opts.Outfits == nil:
		return nil, errors.New("outfit store is required")
	case opts.Media == nil:
		return nil, errors.New("media store is required")
	}

	e := &Engine{
		images:  opts.Images,
		videos:  opts.Videos,
		creds:   opts.Credentials,
		outfits: opts.Outfits,
		media:   opts.Media,
		logger:  logger.OrNop(opts.Logger),
	}
	for _, item := range opts.Catalog {
		e.addToWardrobe(item)
	}

	saved, err := opts.Outfits.Load(ctx)
	if err != nil {
		e.logger.Warn("failed to load saved outfits, starting empty", zap.Error(err))
		saved = nil
	}
	e.saved = saved
	metrics.SavedOutfits.Set(float64(len(e.saved)))
	return e, nil
}

// Initialize starts a new history from the model image. An empty ref is ignored.
func (e *Engine) Initialize(modelRef string) {
	if modelRef == "" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initialize(modelRef)
}

func (e *Engine) initialize(modelRef string) {
	e.history.Reset(&Layer{Poses: NewPoseImages(PoseInstructions[0], modelRef)})
	e.poseIndex = 0
	e.clearVideos()
}

// CreateModel turns the user's photo into the base model image and initializes the history with it.
func (e *Engine) CreateModel(ctx context.Context, photo media.Image) error {
	e.mu.Lock()
	if e.busy != 0 {
		e.mu.Unlock()
		return ErrBusy
	}
	token, epoch := e.beginBusy("Creating your model...")
	e.mu.Unlock()

	ref, err := e.images.SynthesizeModel(ctx, photo)

	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.endBusy(token)

	if epoch != e.epoch {
		return e.stale("create_model")
	}
	if err != nil {
		return e.fail("create_model", "Failed to create model", err)
	}
	e.initialize(ref)
	e.record("create_model", "success")
	e.logger.Info("model created", zap.String("ref", ref))
	return nil
}

// ApplyGarment puts item on the active outfit. If the layer after the cursor
// already wears item, the cursor just moves onto it.
func (e *Engine) ApplyGarment(ctx context.Context, garment media.Image, item models.WardrobeItem) error {
	e.mu.Lock()
	if e.busy != 0 {
		e.mu.Unlock()
		return ErrBusy
	}
	if e.history.Empty() {
		e.mu.Unlock()
		return ErrNoModel
	}

	if e.history.Active().garmentID() == item.ID && item.ID != "" {
		e.mu.Unlock()
		e.record("apply_garment", "noop")
		return nil
	}
	if next := e.history.Next(); next != nil && next.garmentID() == item.ID {
		e.history.Advance()
		e.poseIndex = 0
		e.clearVideos()
		e.lastError = ""
		e.mu.Unlock()
		e.record("apply_garment", "redo")
		return nil
	}

	baseRef := e.displayedImage()
	at := e.history.Cursor()
	pose := PoseInstructions[e.poseIndex]
	message := "Changing clothes..."
	if item.Category == models.CategoryAccessory {
		message = "Adding accessory..."
	}
	token, epoch := e.beginBusy(message)
	e.mu.Unlock()

	ref, err := e.images.ComposeGarment(ctx, baseRef, garment, item.Category)

	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.endBusy(token)

	if epoch != e.epoch {
		return e.stale("apply_garment")
	}
	if err != nil {
		return e.fail("apply_garment", "Failed to apply garment", err)
	}

	worn := item
	e.history.Commit(at, &Layer{Garment: &worn, Poses: NewPoseImages(pose, ref)})
	e.addToWardrobe(item)
	e.clearVideos()
	e.record("apply_garment", "success")
	e.logger.Info("garment applied",
		zap.String("item", item.ID),
		zap.Int("cursor", e.history.Cursor()),
		zap.Int("layers", e.history.Len()),
	)
	return nil
}

// ApplyWardrobeItem applies a wardrobe item by id, loading its image from the media store.
func (e *Engine) ApplyWardrobeItem(ctx context.Context, id string) error {
	e.mu.Lock()
	empty := e.history.Empty()
	e.mu.Unlock()
	if empty {
		return ErrNoModel
	}

	item, ok := e.wardrobeItem(id)
	if !ok {
		return fmt.Errorf("wardrobe item %q: %w", id, ErrNotFound)
	}
	img, err := e.media.Load(ctx, item.URL)
	if err != nil {
		e.mu.Lock()
		e.lastError = friendlyError("Failed to load garment", err)
		e.mu.Unlock()
		return err
	}
	return e.ApplyGarment(ctx, img, item)
}

// RemoveLastGarment moves the cursor back one layer. The removed layer stays
// in the history and can be re-applied without a new generation. It is
// rejected while an image generation is in flight.
func (e *Engine) RemoveLastGarment() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.busy != 0 {
		return ErrBusy
	}
	if e.history.Empty() {
		return ErrNoHistory
	}
	if !e.history.Undo() {
		return ErrNothingToUndo
	}
	e.poseIndex = 0
	e.clearVideos()
	e.record("remove_garment", "success")
	return nil
}

// SelectPose switches the displayed pose, generating the image for it from
// the active layer when it is not cached yet.
func (e *Engine) SelectPose(ctx context.Context, index int) error {
	if index < 0 || index >= len(PoseInstructions) {
		return ErrPoseOutOfRange
	}

	e.mu.Lock()
	if e.busy != 0 {
		e.mu.Unlock()
		return ErrBusy
	}
	if e.history.Empty() {
		e.mu.Unlock()
		return ErrNoHistory
	}
	if index == e.poseIndex {
		e.mu.Unlock()
		return nil
	}

	layer := e.history.Active()
	pose := PoseInstructions[index]
	if _, ok := layer.Poses.Get(pose); ok {
		e.poseIndex = index
		e.clearVideos()
		e.mu.Unlock()
		e.record("select_pose", "cached")
		return nil
	}

	baseRef, _ := layer.Poses.First()
	prev := e.poseIndex
	e.poseIndex = index
	token, epoch := e.beginBusy("Changing pose...")
	e.mu.Unlock()

	ref, err := e.images.RegeneratePose(ctx, baseRef, pose)

	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.endBusy(token)

	if epoch != e.epoch {
		return e.stale("select_pose")
	}
	if err != nil {
		if e.poseIndex == index {
			e.poseIndex = prev
		}
		return e.fail("select_pose", "Failed to change pose", err)
	}

	layer.Poses.Set(pose, ref)
	e.clearVideos()
	e.record("select_pose", "success")
	e.logger.Info("pose generated", zap.String("pose", pose), zap.String("ref", ref))
	return nil
}

// GenerateVideo animates the displayed image. It keeps the two most recent videos.
func (e *Engine) GenerateVideo(ctx context.Context, quality models.VideoQuality) error {
	e.mu.Lock()
	if e.videoBusy != 0 {
		e.mu.Unlock()
		return ErrBusy
	}
	if e.history.Empty() {
		e.mu.Unlock()
		return ErrNoModel
	}
	if !e.creds.HasUsableCredential() {
		e.creds.PromptCredentialSelection()
		if !e.creds.HasUsableCredential() {
			e.lastError = "Please select an API key to generate videos."
			e.mu.Unlock()
			e.record("generate_video", "credential_required")
			return ErrCredentialRequired
		}
	}

	sourceRef := e.displayedImage()
	revision := e.revision
	e.seq++
	token, epoch := e.seq, e.epoch
	e.videoBusy = token
	e.videoMessage = "Generating video... This may take a few minutes."
	e.lastError = ""
	e.mu.Unlock()

	ref, err := e.videos.GenerateVideo(ctx, sourceRef, quality)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.videoBusy == token {
		e.videoBusy = 0
		e.videoMessage = ""
	}

	if epoch != e.epoch {
		return e.stale("generate_video")
	}
	if err != nil {
		if isCredentialError(err) {
			e.creds.PromptCredentialSelection()
			e.lastError = "Your API key could not be used for video generation. Please select a different key."
			e.record("generate_video", "credential_required")
			return fmt.Errorf("%w: %w", ErrCredentialRequired, err)
		}
		return e.fail("generate_video", "Failed to generate video", err)
	}
	if revision != e.revision {
		return e.stale("generate_video")
	}

	e.videoRefs = append(e.videoRefs, ref)
	if len(e.videoRefs) > maxVideos {
		e.videoRefs = append([]string(nil), e.videoRefs[len(e.videoRefs)-maxVideos:]...)
	}
	e.record("generate_video", "success")
	e.logger.Info("video generated", zap.String("ref", ref), zap.String("quality", string(quality)))
	return nil
}

// Reset drops the model and the outfit history. Results of calls still in
// flight are discarded when they return.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.history.Clear()
	e.poseIndex = 0
	e.clearVideos()
	e.lastError = ""
	e.busy, e.busyMessage = 0, ""
	e.videoBusy, e.videoMessage = 0, ""
	e.epoch++
	e.record("reset", "success")
}

// AddWardrobeItem stores an uploaded garment and adds it to the wardrobe,
// optionally removing its background first.
func (e *Engine) AddWardrobeItem(ctx context.Context, img media.Image, name string, category models.Category, removeBackground bool) (models.WardrobeItem, error) {
	var (
		ref string
		err error
	)
	if removeBackground {
		ref, err = e.images.RemoveBackground(ctx, img)
	} else {
		ref, err = e.media.Save(ctx, img)
	}
	if err != nil {
		e.mu.Lock()
		e.lastError = friendlyError("Failed to add item", err)
		e.mu.Unlock()
		e.record("add_wardrobe_item", "error")
		return models.WardrobeItem{}, err
	}

	if name == "" {
		name = "Custom item"
	}
	item := models.WardrobeItem{
		ID:       "custom-" + uuid.New().String(),
		Name:     name,
		URL:      ref,
		Category: category,
	}
	e.AddToWardrobe(item)
	e.record("add_wardrobe_item", "success")
	return item, nil
}

// AddToWardrobe appends item unless an item with the same id is present.
func (e *Engine) AddToWardrobe(item models.WardrobeItem) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addToWardrobe(item)
}

func (e *Engine) addToWardrobe(item models.WardrobeItem) bool {
	for _, w := range e.wardrobe {
		if w.ID == item.ID {
			return false
		}
	}
	e.wardrobe = append(e.wardrobe, item)
	return true
}

func (e *Engine) Wardrobe() []models.WardrobeItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.WardrobeItem(nil), e.wardrobe...)
}

func (e *Engine) wardrobeItem(id string) (models.WardrobeItem, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, w := range e.wardrobe {
		if w.ID == id {
			return w, true
		}
	}
	return models.WardrobeItem{}, false
}

// SaveActiveOutfit snapshots the displayed image and the worn garments at the
// head of the saved list and persists the list.
func (e *Engine) SaveActiveOutfit(ctx context.Context) (models.SavedOutfit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.history.Empty() {
		return models.SavedOutfit{}, ErrNoModel
	}
	saved := models.SavedOutfit{
		ID:        uuid.New().String(),
		ImageURL:  e.displayedImage(),
		Garments:  e.history.Garments(),
		CreatedAt: time.Now().UTC(),
	}
	if saved.Garments == nil {
		saved.Garments = []models.WardrobeItem{}
	}

	next := append([]models.SavedOutfit{saved}, e.saved...)
	if err := e.persist(ctx, next); err != nil {
		return models.SavedOutfit{}, err
	}
	e.record("save_outfit", "success")
	return saved, nil
}

func (e *Engine) DeleteSavedOutfit(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := make([]models.SavedOutfit, 0, len(e.saved))
	for _, o := range e.saved {
		if o.ID != id {
			next = append(next, o)
		}
	}
	if len(next) == len(e.saved) {
		return fmt.Errorf("saved outfit %q: %w", id, ErrNotFound)
	}
	if err := e.persist(ctx, next); err != nil {
		return err
	}
	e.record("delete_outfit", "success")
	return nil
}

func (e *Engine) SavedOutfits() []models.SavedOutfit {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.SavedOutfit(nil), e.saved...)
}

// persist writes outfits and only then makes them the in-memory list.
func (e *Engine) persist(ctx context.Context, outfits []models.SavedOutfit) error {
	if err := e.outfits.Save(ctx, outfits); err != nil {
		e.logger.Error("failed to persist saved outfits", zap.Error(err))
		e.lastError = friendlyError("Failed to save outfits", err)
		return err
	}
	e.saved = outfits
	metrics.SavedOutfits.Set(float64(len(outfits)))
	return nil
}

// displayedImage is the active layer's image for the current pose, or its
// first generated pose when that one is missing.
func (e *Engine) displayedImage() string {
	layer := e.history.Active()
	if layer == nil {
		return ""
	}
	if ref, ok := layer.Poses.Get(PoseInstructions[e.poseIndex]); ok {
		return ref
	}
	ref, _ := layer.Poses.First()
	return ref
}

func (e *Engine) clearVideos() {
	e.videoRefs = nil
	e.revision++
}

func (e *Engine) beginBusy(message string) (token, epoch uint64) {
	e.seq++
	e.busy = e.seq
	e.busyMessage = message
	e.lastError = ""
	return e.seq, e.epoch
}

func (e *Engine) endBusy(token uint64) {
	if e.busy == token {
		e.busy = 0
		e.busyMessage = ""
	}
}

func (e *Engine) fail(op, action string, err error) error {
	e.lastError = friendlyError(action, err)
	e.record(op, "error")
	e.logger.Warn("operation failed", zap.String("operation", op), zap.Error(err))
	return err
}

func (e *Engine) stale(op string) error {
	e.record(op, "stale")
	e.logger.Info("discarding stale result", zap.String("operation", op))
	return ErrStale
}

func (e *Engine) record(op, result string) {
	metrics.EngineOperations.WithLabelValues(op, result).Inc()
}
