// Package window computes the visible slice of a uniformly sized list.
//
// Given the number of items, a fixed item height, a viewport height and a
// scroll offset, Compute returns the contiguous index range that intersects
// the viewport, widened by an overscan margin on each side and clamped to
// the list bounds. The same Range carries the total scrollable extent and the
// vertical offset at which the rendered block must be placed so that item i
// always sits at i*ItemHeight in content coordinates.
//
// Compute is pure: it caches nothing and must be re-run whenever the scroll
// offset, the item count or the dimensions change.
package window
