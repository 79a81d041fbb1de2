// Package reconcile combines table regions proposed by independent
// detectors with the tables already built on a page.
//
// Reconciliation runs in three steps:
//
//  1. Proposals are merged among themselves, largest first. A proposal
//     lying mostly inside another is absorbed; two that merely intersect
//     are split at the row with the fewest chunks.
//  2. A single no-ruling table spanning most of the page text is dropped
//     when several separate proposals sit inside it.
//  3. Each proposal is tested against the table it overlaps most and is
//     kept beside it, replaces it, or is discarded as redundant.
//
// A table and a proposal covering each other by more than 90% are never
// both returned.
package reconcile
