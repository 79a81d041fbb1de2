// Package report renders reconstruction results as a Markdown document:
// a per-page summary, every table with its provenance, and the warnings
// raised while processing.
package report
