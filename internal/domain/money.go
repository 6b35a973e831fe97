package domain

import "strconv"

// Money is an amount in minor units (TShs). All arithmetic stays in int64
// to avoid floating-point drift.
type Money int64

// Format renders a display string like "TShs 1,234,567".
func (m Money) Format() string {
	neg := m < 0
	v := int64(m)
	if neg {
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	// group digits in threes from the right
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "TShs -" + string(out)
	}
	return "TShs " + string(out)
}
