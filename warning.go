package tabgrid

import (
	"fmt"
	"strings"

	"github.com/tsawler/tabgrid/model"
)

// Stage names the pipeline step a warning comes from
type Stage string

const (
	StageRender   Stage = "render"
	StageDetect   Stage = "detect"
	StageFrames   Stage = "frames"
	StageCorrect  Stage = "correct"
	StageBuild    Stage = "build"
	StageClassify Stage = "classify"
)

// Warning records a recoverable problem. The region or page it concerns
// contributes nothing; sibling regions and pages are unaffected.
type Warning struct {
	Page    int
	Region  model.Rect
	Stage   Stage
	Message string
}

func (w Warning) String() string {
	if w.Region.IsEmpty() {
		return fmt.Sprintf("page %d: %s: %s", w.Page, w.Stage, w.Message)
	}
	r := w.Region
	return fmt.Sprintf("page %d [%.1f,%.1f %.1fx%.1f]: %s: %s",
		w.Page, r.Left, r.Top, r.Width, r.Height, w.Stage, w.Message)
}

// FormatWarnings renders warnings one per line
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
