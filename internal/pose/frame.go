package pose

// Side identifies which limb a sample belongs to.
type Side string

const (
	Left  Side = "L"
	Right Side = "R"
)

// Sides lists both limb sides in display order.
var Sides = []Side{Left, Right}

// Sample holds one frame of derived measurements for a single limb side.
// Every field except the frame timestamp may be absent when the upstream
// perception process reports low detection confidence; a nil field skips
// that metric for the frame and is never an error.
//
// Angles are in degrees. Distances are scale-normalized by the perception
// process. Supination is the palm-rotation ratio in [-1, 1], positive when
// the palm faces up.
type Sample struct {
	Elbow       *float64 `json:"elbow,omitempty"`
	Shoulder    *float64 `json:"shoulder,omitempty"`
	Wrist       *float64 `json:"wrist,omitempty"`
	Lean        *float64 `json:"lean,omitempty"`
	ShoulderEar *float64 `json:"shoulder_ear,omitempty"`
	ElbowHip    *float64 `json:"elbow_hip,omitempty"`
	Supination  *float64 `json:"supination,omitempty"`
}

// Frame is one captured frame of measurements for both sides.
// T is monotonic seconds, strictly non-decreasing across frames.
type Frame struct {
	T     float64 `json:"t"`
	Left  Sample  `json:"left"`
	Right Sample  `json:"right"`
}

// Side returns the sample for the given side.
func (f *Frame) Side(s Side) Sample {
	if s == Left {
		return f.Left
	}
	return f.Right
}

// Float returns a pointer to v, for building samples in tests and adapters.
func Float(v float64) *float64 { return &v }
