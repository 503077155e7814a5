package medusa

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidMargin is returned for root margins that are not one to four
// space-separated lengths in px or %.
var ErrInvalidMargin = errors.New("medusa: invalid root margin")

type marginValue struct {
	v       float64
	percent bool
}

// resolve returns the value in world units. Percentages are relative to
// extent, pixel values are divided by zoom.
func (m marginValue) resolve(extent, zoom float64) float64 {
	if m.percent {
		return extent * m.v / 100
	}
	if zoom == 0 {
		return m.v
	}
	return m.v / zoom
}

// rootMargin is a parsed CSS-style margin (top, right, bottom, left).
type rootMargin [4]marginValue

// parseRootMargin parses margins such as "10px", "0px 20%" or
// "-5px 0 10px 0". An empty string is the zero margin.
func parseRootMargin(s string) (rootMargin, error) {
	var m rootMargin
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return m, nil
	}
	if len(fields) > 4 {
		return m, errors.Wrapf(ErrInvalidMargin, "%q has %d values", s, len(fields))
	}

	vals := make([]marginValue, len(fields))
	for i, f := range fields {
		v, err := parseMarginValue(f)
		if err != nil {
			return m, errors.Wrapf(err, "%q", s)
		}
		vals[i] = v
	}

	// CSS shorthand expansion.
	switch len(vals) {
	case 1:
		m = rootMargin{vals[0], vals[0], vals[0], vals[0]}
	case 2:
		m = rootMargin{vals[0], vals[1], vals[0], vals[1]}
	case 3:
		m = rootMargin{vals[0], vals[1], vals[2], vals[1]}
	case 4:
		m = rootMargin{vals[0], vals[1], vals[2], vals[3]}
	}
	return m, nil
}

func parseMarginValue(f string) (marginValue, error) {
	var mv marginValue
	num := f
	switch {
	case strings.HasSuffix(f, "px"):
		num = strings.TrimSuffix(f, "px")
	case strings.HasSuffix(f, "%"):
		num = strings.TrimSuffix(f, "%")
		mv.percent = true
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return mv, errors.Wrapf(ErrInvalidMargin, "bad length %q", f)
	}
	// Only zero may omit its unit.
	if num == f && v != 0 {
		return mv, errors.Wrapf(ErrInvalidMargin, "length %q needs px or %%", f)
	}
	mv.v = v
	return mv, nil
}

// apply grows root by the margin.
func (m rootMargin) apply(root Rect, zoom float64) Rect {
	return root.Inset(
		m[0].resolve(root.Height, zoom),
		m[1].resolve(root.Width, zoom),
		m[2].resolve(root.Height, zoom),
		m[3].resolve(root.Width, zoom),
	)
}
