package detect

import (
	"context"
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/tsawler/tabgrid/model"
	"github.com/tsawler/tabgrid/page"
)

// ErrNoDetector is returned when image proposals are requested without a
// detector
var ErrNoDetector = errors.New("no region detector configured")

// RegionType is the kind of content a detector found in a page image
type RegionType int

const (
	TypeText RegionType = iota
	TypeTitle
	TypeFigure
	TypeTable
	TypeTableCaption
	TypeFormula
	TypeOther
)

func (t RegionType) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeTitle:
		return "title"
	case TypeFigure:
		return "figure"
	case TypeTable:
		return "table"
	case TypeTableCaption:
		return "table_caption"
	case TypeFormula:
		return "formula"
	default:
		return "other"
	}
}

// Region is a box found by a detector, in pixels of the image it was given
type Region struct {
	Box   image.Rectangle
	Type  RegionType
	Score float64
}

// RegionDetector finds content regions in a rendered page
type RegionDetector interface {
	DetectTableRegions(ctx context.Context, img image.Image) ([]Region, error)
}

// Classification is the verdict of an ImageClassifier
type Classification struct {
	Type  string
	Score float64
}

// ImageClassifier labels the image of a single table
type ImageClassifier interface {
	ClassifyTableImage(ctx context.Context, img image.Image) (Classification, error)
}

// ImageConfig controls image proposals
type ImageConfig struct {
	// MaxSide is the longest image side handed to the detector; larger
	// images are scaled down first (pixels, 0 disables scaling)
	MaxSide int `yaml:"max_side"`

	// MinScore drops regions scored below it
	MinScore float64 `yaml:"min_score"`
}

// DefaultImageConfig returns default configuration
func DefaultImageConfig() ImageConfig {
	return ImageConfig{MaxSide: 1600, MinScore: 0.5}
}

// ImageProposals runs det on a rendered page image and returns the table
// regions it finds in page units. pageWidth and pageHeight are the page
// size the image was rendered from.
func ImageProposals(ctx context.Context, det RegionDetector, img image.Image, pageWidth, pageHeight float64, cfg ImageConfig) ([]model.TableRegion, error) {
	if det == nil {
		return nil, ErrNoDetector
	}
	if img == nil || img.Bounds().Empty() {
		return nil, nil
	}

	scaled := Downscale(img, cfg.MaxSide)
	regions, err := det.DetectTableRegions(ctx, scaled)
	if err != nil {
		return nil, fmt.Errorf("detecting regions: %w", err)
	}

	pageRect := model.NewRect(0, 0, pageWidth, pageHeight)
	var out []model.TableRegion
	for _, r := range regions {
		if r.Type != TypeTable || r.Score < cfg.MinScore {
			continue
		}
		b := ToPage(r.Box, scaled.Bounds(), pageWidth, pageHeight).Intersection(pageRect)
		if b.IsEmpty() {
			continue
		}
		out = append(out, model.TableRegion{Bounds: b, Confidence: r.Score, Source: model.SourceImage})
	}
	return out, nil
}

// Downscale returns img scaled so that its longest side is at most
// maxSide pixels. Smaller images are returned unchanged.
func Downscale(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	longest := b.Dx()
	if b.Dy() > longest {
		longest = b.Dy()
	}
	if maxSide <= 0 || longest <= maxSide {
		return img
	}

	scale := float64(maxSide) / float64(longest)
	w := max(1, int(float64(b.Dx())*scale+0.5))
	h := max(1, int(float64(b.Dy())*scale+0.5))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// ToPage maps a pixel box inside an image with bounds img onto page units
func ToPage(box, img image.Rectangle, pageWidth, pageHeight float64) model.Rect {
	if img.Dx() == 0 || img.Dy() == 0 {
		return model.Rect{}
	}
	sx := pageWidth / float64(img.Dx())
	sy := pageHeight / float64(img.Dy())
	return model.RectFromEdges(
		float64(box.Min.X-img.Min.X)*sx,
		float64(box.Min.Y-img.Min.Y)*sy,
		float64(box.Max.X-img.Min.X)*sx,
		float64(box.Max.Y-img.Min.Y)*sy,
	)
}

// ToPixels maps a page rectangle onto the pixel grid of an image with
// bounds img
func ToPixels(r model.Rect, img image.Rectangle, pageWidth, pageHeight float64) image.Rectangle {
	if pageWidth <= 0 || pageHeight <= 0 {
		return image.Rectangle{}
	}
	sx := float64(img.Dx()) / pageWidth
	sy := float64(img.Dy()) / pageHeight
	return image.Rect(
		img.Min.X+int(r.Left*sx),
		img.Min.Y+int(r.Top*sy),
		img.Min.X+int(r.Right()*sx+0.5),
		img.Min.Y+int(r.Bottom()*sy+0.5),
	).Intersect(img)
}

// Crop copies the part of a page image covered by r
func Crop(img image.Image, r model.Rect, pageWidth, pageHeight float64) image.Image {
	px := ToPixels(r, img.Bounds(), pageWidth, pageHeight)
	dst := image.NewRGBA(image.Rect(0, 0, px.Dx(), px.Dy()))
	draw.Copy(dst, image.Point{}, img, px, draw.Src, nil)
	return dst
}

// TagProposals returns the table boxes declared by the page's structure
// tags. They bound whole tables, so they are marked complete.
func TagProposals(src page.Source) []model.TableRegion {
	return complete(src.TaggedRegions(), model.SourceStructure)
}

// HintProposals turns hand-supplied boxes into complete proposals
func HintProposals(hints []model.Rect) []model.TableRegion {
	return complete(hints, model.SourceHint)
}

func complete(boxes []model.Rect, src model.Source) []model.TableRegion {
	var out []model.TableRegion
	for _, b := range boxes {
		if b.IsEmpty() {
			continue
		}
		out = append(out, model.TableRegion{Bounds: b, Confidence: 1, Complete: true, Source: src})
	}
	return out
}
