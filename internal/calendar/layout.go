package calendar

// revealGapPx is the pixel gap left between stacked cards so each card in a
// dense cluster stays clickable.
const revealGapPx = 18.0

// Layout positions one booking card inside its day column. Width and left
// offset are each a percent term plus a pixel term, mirroring a CSS
// calc(p% + q px) expression; the pixel term may be negative.
type Layout struct {
	WidthPct float64
	WidthPx  float64
	LeftPct  float64
	LeftPx   float64
}

// LayoutFor derives the card position for the entry's booking from the size
// of its overlap set and its column index within it.
//
// The rules are special-cased rather than uniform: a lone booking spans the
// column, a pair renders 75/50 with the second shifted one column, and denser
// clusters stagger the remaining cards with a pixel reveal gap.
func LayoutFor(entry *ClusterEntry) Layout {
	n := len(entry.Overlaps)
	k := entry.ColumnIndex()

	if n <= 1 {
		return Layout{WidthPct: 100}
	}

	if n == 2 {
		if k == 0 {
			return Layout{WidthPct: 75}
		}
		return Layout{
			WidthPct: 50,
			LeftPct:  100.0 / float64(n),
		}
	}

	column := 100.0 / float64(n)
	offset := Layout{
		LeftPct: column * float64(k),
		LeftPx:  -revealGapPx * float64(k),
	}

	switch k {
	case 0:
		offset.WidthPct = column * float64(n-1)
		offset.WidthPx = -revealGapPx
	case 1:
		offset.WidthPct = 50
		offset.WidthPx = -revealGapPx
	default:
		offset.WidthPct = column
		offset.WidthPx = revealGapPx * float64(k)
	}

	return offset
}
