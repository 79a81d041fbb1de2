// Package detect gathers table region proposals from sources outside the
// geometric core: an image-based [RegionDetector], structure tags and
// hand-supplied hints.
//
// Detectors work on rendered page images. [ImageProposals] scales the
// image down to the detector's working size, maps the returned pixel
// boxes back to page units and keeps the table regions only. The package
// ships no detector; callers inject one.
package detect
