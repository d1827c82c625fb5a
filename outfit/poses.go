package outfit

// PoseInstructions are the poses a layer can be rendered in. Index 0 is the
// pose every new layer starts with.
var PoseInstructions = []string{
	"Full frontal view, hands on hips",
	"Slightly turned, 3/4 view",
	"Side profile view",
	"Jumping in the air, mid-action shot",
	"Walking towards camera",
	"Leaning against a wall",
}

// PoseImages maps pose instructions to image refs, remembering insertion order.
type PoseImages struct {
	keys []string
	refs map[string]string
}

func NewPoseImages(pose, ref string) *PoseImages {
	p := &PoseImages{refs: make(map[string]string)}
	p.Set(pose, ref)
	return p
}

func (p *PoseImages) Get(pose string) (string, bool) {
	ref, ok := p.refs[pose]
	return ref, ok
}

// Set adds or replaces the image for pose. New poses go to the end.
func (p *PoseImages) Set(pose, ref string) {
	if _, ok := p.refs[pose]; !ok {
		p.keys = append(p.keys, pose)
	}
	p.refs[pose] = ref
}

// First returns the earliest inserted image.
func (p *PoseImages) First() (string, bool) {
	if len(p.keys) == 0 {
		return "", false
	}
	return p.refs[p.keys[0]], true
}

// Keys returns the poses in insertion order.
func (p *PoseImages) Keys() []string {
	return append([]string(nil), p.keys...)
}

func (p *PoseImages) Len() int { return len(p.keys) }
