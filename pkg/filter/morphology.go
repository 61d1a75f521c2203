package filter

import (
	"fmt"
	"strings"
)

// StructuringElement is an odd-sized boolean mask for the morphology operators.
//
// Rows address the x offset and columns the y offset: the neighbor at
// (x+dx, y+dy) is selected by At(Rows()/2+dx, Cols()/2+dy).
type StructuringElement struct {
	cells [][]bool
}

// NewStructuringElement validates and copies mask. It must be non-empty,
// rectangular and odd in both dimensions.
func NewStructuringElement(mask [][]bool) (StructuringElement, error) {
	if len(mask) == 0 || len(mask[0]) == 0 {
		return StructuringElement{}, fmt.Errorf("%w: empty mask", ErrInvalidMask)
	}
	cols := len(mask[0])
	if len(mask)%2 == 0 || cols%2 == 0 {
		return StructuringElement{}, fmt.Errorf("%w: %dx%d is not odd-sized", ErrInvalidMask, len(mask), cols)
	}
	if len(mask) > 2*MaxRadius+1 || cols > 2*MaxRadius+1 {
		return StructuringElement{}, fmt.Errorf("%w: %dx%d is larger than %d", ErrInvalidMask, len(mask), cols, 2*MaxRadius+1)
	}
	cells := make([][]bool, len(mask))
	for i, row := range mask {
		if len(row) != cols {
			return StructuringElement{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidMask, i, len(row), cols)
		}
		cells[i] = append([]bool(nil), row...)
	}
	return StructuringElement{cells: cells}, nil
}

// ParseStructuringElement reads a mask written as comma-separated rows of 0/1,
// e.g. "010,111,010".
func ParseStructuringElement(s string) (StructuringElement, error) {
	var mask [][]bool
	for _, row := range strings.Split(strings.TrimSpace(s), ",") {
		row = strings.TrimSpace(row)
		cells := make([]bool, 0, len(row))
		for _, ch := range row {
			switch ch {
			case '1':
				cells = append(cells, true)
			case '0':
				cells = append(cells, false)
			default:
				return StructuringElement{}, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidMask, ch, s)
			}
		}
		mask = append(mask, cells)
	}
	return NewStructuringElement(mask)
}

// PlusElement returns the 3×3 cross.
func PlusElement() StructuringElement {
	return StructuringElement{cells: [][]bool{
		{false, true, false},
		{true, true, true},
		{false, true, false},
	}}
}

// SquareElement returns an all-true size×size mask.
func SquareElement(size int) (StructuringElement, error) {
	if size < 1 || size > 2*MaxRadius+1 {
		return StructuringElement{}, fmt.Errorf("%w: size %d not in 1..%d", ErrInvalidMask, size, 2*MaxRadius+1)
	}
	mask := make([][]bool, size)
	for i := range mask {
		mask[i] = make([]bool, size)
		for j := range mask[i] {
			mask[i][j] = true
		}
	}
	return NewStructuringElement(mask)
}

func (s StructuringElement) Rows() int { return len(s.cells) }

func (s StructuringElement) Cols() int {
	if len(s.cells) == 0 {
		return 0
	}
	return len(s.cells[0])
}

func (s StructuringElement) At(row, col int) bool { return s.cells[row][col] }

func (s StructuringElement) String() string {
	var sb strings.Builder
	for i, row := range s.cells {
		if i > 0 {
			sb.WriteByte(',')
		}
		for _, c := range row {
			if c {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
	}
	return sb.String()
}

// extremum scans the masked neighborhood of every interior pixel and keeps the
// candidate for which better(candidate, current) holds, starting from seed.
// Pixels closer to the border than the mask half-size are copied unchanged.
func extremum(src Image, se StructuringElement, opts *Options, seed Pixel, better func(cand, cur Pixel) bool) (*Frame, error) {
	if isEmpty(src) {
		return nil, ErrEmptyImage
	}
	if se.Rows() == 0 {
		return nil, fmt.Errorf("%w: empty mask", ErrInvalidMask)
	}
	hx, hy := se.Rows()/2, se.Cols()/2
	w, h := src.Width(), src.Height()
	out := copyFrame(src)
	scanRows(h, opts, func(y0, y1 int) {
		for y := max(y0, hy); y < min(y1, h-hy); y++ {
			for x := hx; x < w-hx; x++ {
				best := seed
				for dy := -hy; dy <= hy; dy++ {
					for dx := -hx; dx <= hx; dx++ {
						if !se.cells[hx+dx][hy+dy] {
							continue
						}
						if p := src.PixelAt(x+dx, y+dy); better(p, best) {
							best = p
						}
					}
				}
				out.Set(x, y, best)
			}
		}
	})
	return out, nil
}

// Dilate replaces every interior pixel by the brightest masked neighbor.
// Ties keep the first maximum found.
func Dilate(src Image, se StructuringElement, opts *Options) (*Frame, error) {
	return extremum(src, se, opts, black, func(cand, cur Pixel) bool {
		return cand.Brightness() > cur.Brightness()
	})
}

// Erode replaces every interior pixel by the dimmest masked neighbor.
func Erode(src Image, se StructuringElement, opts *Options) (*Frame, error) {
	return extremum(src, se, opts, white, func(cand, cur Pixel) bool {
		return cand.Brightness() < cur.Brightness()
	})
}

// Open is erosion followed by dilation.
func Open(src Image, se StructuringElement, opts *Options) (*Frame, error) {
	eroded, err := Erode(src, se, opts)
	if err != nil {
		return nil, err
	}
	return Dilate(eroded, se, opts)
}

// Close is dilation followed by erosion.
func Close(src Image, se StructuringElement, opts *Options) (*Frame, error) {
	dilated, err := Dilate(src, se, opts)
	if err != nil {
		return nil, err
	}
	return Erode(dilated, se, opts)
}

// MorphGradient is the per-channel absolute difference between the dilation
// and the erosion of src, taken over every pixel.
func MorphGradient(src Image, se StructuringElement, opts *Options) (*Frame, error) {
	dilated, err := Dilate(src, se, opts)
	if err != nil {
		return nil, err
	}
	eroded, err := Erode(src, se, opts)
	if err != nil {
		return nil, err
	}
	diff := func(a, b uint8) uint8 {
		if a > b {
			return a - b
		}
		return b - a
	}
	e := EvaluatorFunc(func(_ Image, x, y int) Pixel {
		d, er := dilated.PixelAt(x, y), eroded.PixelAt(x, y)
		return Pixel{diff(d.R, er.R), diff(d.G, er.G), diff(d.B, er.B)}
	})
	return Run(dilated, e, opts), nil
}

// MorphOp names a morphology operator.
type MorphOp string

const (
	OpDilate   MorphOp = "dilate"
	OpErode    MorphOp = "erode"
	OpOpen     MorphOp = "open"
	OpClose    MorphOp = "close"
	OpGradient MorphOp = "gradient"
)

// Morphology wraps one operator and its element as a Filter.
type Morphology struct {
	Op      MorphOp
	Element StructuringElement
}

func (m Morphology) Process(src Image, opts *Options) (*Frame, error) {
	switch m.Op {
	case OpDilate:
		return Dilate(src, m.Element, opts)
	case OpErode:
		return Erode(src, m.Element, opts)
	case OpOpen:
		return Open(src, m.Element, opts)
	case OpClose:
		return Close(src, m.Element, opts)
	case OpGradient:
		return MorphGradient(src, m.Element, opts)
	default:
		return nil, fmt.Errorf("unsupported morphology op %q", m.Op)
	}
}
