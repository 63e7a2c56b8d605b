// Package listview provides a windowed list component for Bubble Tea TUI applications.
//
// VirtualListModel renders only the items whose rows intersect the viewport,
// plus an overscan margin on each side, so render cost is bounded by the
// viewport size rather than the list length. Key features:
//   - Fixed-height items addressed by a scroll offset in rows
//   - Range arithmetic delegated to the window package (recomputed on every
//     scroll, resize and item replacement; never cached across inputs)
//   - Stable item identity through a caller-supplied key function, used to
//     keep the selection attached to the same logical item across SetItems
//   - Render output cached per range and re-rendered only when the range,
//     the items, the width or the selection change
//   - Keyboard (bubbles/key) and mouse-wheel navigation
//
// Preconditions: the key function must return unique keys for the items in a
// single rendered range; duplicate keys leave selection tracking undefined.
// A panic raised by the render function propagates to the caller of View.
package listview
