package page

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/tabgrid/model"
)

// ErrBadRect is returned when a rectangle is not given as four numbers
var ErrBadRect = errors.New("rectangle must be [left, top, width, height]")

// ErrBadOrientation is returned for an unknown ruling orientation
var ErrBadOrientation = errors.New("ruling orientation must be horizontal or vertical")

// snapshotDoc is the YAML form of a page. JSON documents decode too since
// JSON is a subset of YAML.
type snapshotDoc struct {
	Number        int          `yaml:"number"`
	Width         float64      `yaml:"width"`
	Height        float64      `yaml:"height"`
	Chunks        []chunkDoc   `yaml:"chunks"`
	Rulings       []rulingDoc  `yaml:"rulings"`
	StructureRows [][]chunkDoc `yaml:"structure_rows"`
	TaggedRegions [][]float64  `yaml:"tagged_regions"`
	Hints         [][]float64  `yaml:"hints"`
}

type chunkDoc struct {
	Text          string    `yaml:"text"`
	Bounds        []float64 `yaml:"bounds"`
	VisibleBounds []float64 `yaml:"visible_bounds,omitempty"`
	CharWidth     float64   `yaml:"char_width,omitempty"`
	CharHeight    float64   `yaml:"char_height,omitempty"`
	Tag           string    `yaml:"tag,omitempty"`
	Direction     string    `yaml:"direction,omitempty"`
}

type rulingDoc struct {
	Orientation string  `yaml:"orientation"`
	Position    float64 `yaml:"position"`
	Start       float64 `yaml:"start"`
	End         float64 `yaml:"end"`
}

// LoadFile reads every page snapshot stored in a YAML file
func LoadFile(path string) ([]*Snapshot, error) {
	f, err := os.Open(path) //nolint:gosec // caller-chosen snapshot path
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a stream of YAML documents, one page per document
func Decode(r io.Reader) ([]*Snapshot, error) {
	dec := yaml.NewDecoder(r)
	var pages []*Snapshot
	for {
		var doc snapshotDoc
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding page %d: %w", len(pages)+1, err)
		}
		content, err := doc.content()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", len(pages)+1, err)
		}
		if content.Number == 0 {
			content.Number = len(pages) + 1
		}
		pages = append(pages, New(content))
	}
	return pages, nil
}

func (d snapshotDoc) content() (Content, error) {
	c := Content{Number: d.Number, Width: d.Width, Height: d.Height}

	for i, cd := range d.Chunks {
		ch, err := cd.chunk()
		if err != nil {
			return c, fmt.Errorf("chunk %d: %w", i, err)
		}
		c.Chunks = append(c.Chunks, ch)
	}

	for i, rd := range d.Rulings {
		switch rd.Orientation {
		case "horizontal", "h":
			c.Rulings = append(c.Rulings, model.NewHorizontal(rd.Position, rd.Start, rd.End))
		case "vertical", "v":
			c.Rulings = append(c.Rulings, model.NewVertical(rd.Position, rd.Start, rd.End))
		default:
			return c, fmt.Errorf("ruling %d: %q: %w", i, rd.Orientation, ErrBadOrientation)
		}
	}

	for i, row := range d.StructureRows {
		var block model.TextBlock
		for j, cd := range row {
			ch, err := cd.chunk()
			if err != nil {
				return c, fmt.Errorf("structure row %d cell %d: %w", i, j, err)
			}
			block.Add(ch)
		}
		c.StructureRows = append(c.StructureRows, block)
	}

	for i, raw := range d.TaggedRegions {
		r, err := rect(raw)
		if err != nil {
			return c, fmt.Errorf("tagged region %d: %w", i, err)
		}
		c.TaggedRegions = append(c.TaggedRegions, r)
	}

	for i, raw := range d.Hints {
		r, err := rect(raw)
		if err != nil {
			return c, fmt.Errorf("hint %d: %w", i, err)
		}
		c.Hints = append(c.Hints, r)
	}
	return c, nil
}

func (cd chunkDoc) chunk() (model.TextChunk, error) {
	b, err := rect(cd.Bounds)
	if err != nil {
		return model.TextChunk{}, err
	}
	ch := model.TextChunk{
		Text:          cd.Text,
		Bounds:        b,
		AvgCharWidth:  cd.CharWidth,
		AvgCharHeight: cd.CharHeight,
		Tag:           cd.Tag,
	}
	if len(cd.VisibleBounds) > 0 {
		if ch.VisibleBounds, err = rect(cd.VisibleBounds); err != nil {
			return ch, err
		}
	}
	switch cd.Direction {
	case "vertical":
		ch.Direction = model.DirectionVertical
	case "rotated":
		ch.Direction = model.DirectionRotated
	}
	return ch, nil
}

func rect(v []float64) (model.Rect, error) {
	if len(v) != 4 {
		return model.Rect{}, ErrBadRect
	}
	return model.NewRect(v[0], v[1], v[2], v[3]), nil
}
