package window

import (
	"errors"
	"fmt"
	"math"
)

// DefaultOverscan is the number of extra items rendered beyond each visible edge.
const DefaultOverscan = 5

// Configuration errors returned by NewParams and Params.Validate.
var (
	ErrInvalidItemHeight      = errors.New("item height must be positive")
	ErrInvalidContainerHeight = errors.New("container height must be positive")
	ErrNegativeOverscan       = errors.New("overscan must be non-negative")

	// ErrExtentOverflow is returned by CheckExtent when n*ItemHeight does not fit in an int.
	ErrExtentOverflow = errors.New("total height overflows")
)

// Params holds the fixed dimensions of a windowed list.
// All heights share one unit (terminal rows in this module).
type Params struct {
	// ItemHeight is the height of every item.
	ItemHeight int

	// ContainerHeight is the height of the viewport.
	ContainerHeight int

	// Overscan is the number of extra items kept on each side of the visible range.
	Overscan int
}

// NewParams builds validated Params.
func NewParams(itemHeight, containerHeight, overscan int) (Params, error) {
	p := Params{
		ItemHeight:      itemHeight,
		ContainerHeight: containerHeight,
		Overscan:        overscan,
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Validate rejects dimensions that would make the range arithmetic meaningless.
func (p Params) Validate() error {
	if p.ItemHeight <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidItemHeight, p.ItemHeight)
	}
	if p.ContainerHeight <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidContainerHeight, p.ContainerHeight)
	}
	if p.Overscan < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeOverscan, p.Overscan)
	}
	return nil
}

// CheckExtent reports whether n items of ItemHeight rows can be addressed.
// Compute saturates instead of failing, so callers that print extents use
// this to reject lists whose total height would be clipped.
func (p Params) CheckExtent(n int) error {
	if n > 0 && n > math.MaxInt/p.ItemHeight {
		return fmt.Errorf("%w: %d items of height %d", ErrExtentOverflow, n, p.ItemHeight)
	}
	return nil
}

// VisibleRows returns how many item slots fit in the viewport, rounded up.
func (p Params) VisibleRows() int {
	return ceilDiv(p.ContainerHeight, p.ItemHeight)
}

// Range is the result of a window computation.
//
// Start and End are inclusive indices. When Count is zero the range is empty
// and Start/End carry no meaning.
type Range struct {
	// Start is the first index to render (inclusive).
	Start int

	// End is the last index to render (inclusive).
	End int

	// FirstVisible is floor(scrollOffset / ItemHeight) before clamping.
	FirstVisible int

	// LastVisible is FirstVisible + ceil(ContainerHeight / ItemHeight) before clamping.
	LastVisible int

	// OffsetY is the content-space position of the rendered block: Start * ItemHeight.
	OffsetY int

	// TotalHeight is the full scrollable extent: Count * ItemHeight.
	TotalHeight int

	// Count is the item count the range was computed for.
	Count int
}

// Empty reports whether there is nothing to render.
func (r Range) Empty() bool {
	return r.Count <= 0
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return r.End - r.Start + 1
}

// Contains reports whether index i falls inside the range.
func (r Range) Contains(i int) bool {
	return !r.Empty() && i >= r.Start && i <= r.End
}

// Indices returns every index in the range in ascending order.
func (r Range) Indices() []int {
	out := make([]int, 0, r.Len())
	for i := r.Start; i < r.Start+r.Len(); i++ {
		out = append(out, i)
	}
	return out
}

// Compute derives the render range for n items at the given scroll offset.
//
// The offset is used as-is: negative values and values past the end of the
// content are legal and simply clamp to the first or last index. Params are
// assumed to be valid; callers construct them with NewParams.
//
// All sums and products saturate at the int limits, so Start <= End holds for
// every offset and overscan. TotalHeight and OffsetY saturate at math.MaxInt
// when n*ItemHeight does not fit (see CheckExtent).
func Compute(p Params, scrollOffset, n int) Range {
	first := floorDiv(scrollOffset, p.ItemHeight)
	last := addSat(first, p.VisibleRows())

	if n <= 0 {
		return Range{FirstVisible: first, LastVisible: last}
	}

	start := clamp(subSat(first, p.Overscan), 0, n-1)
	end := clamp(addSat(last, p.Overscan), 0, n-1)

	return Range{
		Start:        start,
		End:          end,
		FirstVisible: first,
		LastVisible:  last,
		OffsetY:      mulSat(start, p.ItemHeight),
		TotalHeight:  mulSat(n, p.ItemHeight),
		Count:        n,
	}
}

// TotalHeight returns n * ItemHeight, or zero for an empty list.
func TotalHeight(p Params, n int) int {
	if n <= 0 {
		return 0
	}
	return mulSat(n, p.ItemHeight)
}

// MaxScrollOffset returns the largest offset that still fills the viewport.
func MaxScrollOffset(p Params, n int) int {
	return max(0, TotalHeight(p, n)-p.ContainerHeight)
}

// ItemTop returns the content-space position of item i.
func ItemTop(p Params, i int) int {
	return mulSat(i, p.ItemHeight)
}

// ScreenY returns the viewport-relative position of item i.
func ScreenY(p Params, i, scrollOffset int) int {
	return subSat(ItemTop(p, i), scrollOffset)
}

// ShiftOffset moves a scroll offset by delta rows, saturating at the int limits.
func ShiftOffset(offset, delta int) int {
	return addSat(offset, delta)
}

// floorDiv divides rounding toward negative infinity. b must be positive.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

// ceilDiv divides rounding toward positive infinity. b must be positive.
func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a > 0 {
		q++
	}
	return q
}

func addSat(a, b int) int {
	s := a + b
	switch {
	case b > 0 && s < a:
		return math.MaxInt
	case b < 0 && s > a:
		return math.MinInt
	}
	return s
}

func subSat(a, b int) int {
	if b == math.MinInt {
		if a >= 0 {
			return math.MaxInt
		}
		return a - b
	}
	return addSat(a, -b)
}

// mulSat multiplies a by a positive b.
func mulSat(a, b int) int {
	switch {
	case a > 0 && a > math.MaxInt/b:
		return math.MaxInt
	case a < 0 && a < math.MinInt/b:
		return math.MinInt
	}
	return a * b
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
