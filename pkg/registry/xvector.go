package registry

import "fmt"

// LabelKind distinguishes how an axis's labels should be interpreted.
type LabelKind int

const (
	LabelValue LabelKind = iota
	LabelString
	LabelTime
)

// Axis is one ordered dimension of a tensor-valued slot.
type Axis struct {
	Name   string
	Kind   LabelKind
	Labels []string // stringified labels; LabelValue axes store numeric text
}

// Size returns the number of elements along this axis.
func (a Axis) Size() int { return len(a.Labels) }

// XVector is the ordered list of axis descriptors attached to a value slot.
// An empty XVector means the slot is scalar.
type XVector []Axis

// NumElements returns the product of all axis sizes, or 1 for a scalar.
func (x XVector) NumElements() int {
	n := 1
	for _, a := range x {
		n *= a.Size()
	}
	return n
}

func (x XVector) Empty() bool { return len(x) == 0 }

// Clone returns a deep copy safe to mutate independently.
func (x XVector) Clone() XVector {
	if x == nil {
		return nil
	}
	out := make(XVector, len(x))
	for i, a := range x {
		labels := make([]string, len(a.Labels))
		copy(labels, a.Labels)
		out[i] = Axis{Name: a.Name, Kind: a.Kind, Labels: labels}
	}
	return out
}

// Conform narrows x to the intersection of its axes with other's axes,
// matching by axis name and truncating label sets to the common prefix
// length. An axis present in x but absent from other is left untouched,
// mirroring VariableValue::makeXConformant's permissive matching. If no
// axis in x shares a name with an axis in other and both are non-empty,
// the function returns an empty XVector signalling "no common intersection".
func (x XVector) Conform(other XVector) XVector {
	if x.Empty() || other.Empty() {
		return x
	}
	byName := make(map[string]Axis, len(other))
	for _, a := range other {
		byName[a.Name] = a
	}
	sharedAny := false
	out := make(XVector, len(x))
	for i, a := range x {
		if b, ok := byName[a.Name]; ok {
			sharedAny = true
			n := a.Size()
			if b.Size() < n {
				n = b.Size()
			}
			out[i] = Axis{Name: a.Name, Kind: a.Kind, Labels: append([]string(nil), a.Labels[:n]...)}
		} else {
			out[i] = a
		}
	}
	if !sharedAny {
		return nil
	}
	return out
}

// StrideAndSize returns the element stride and dimension length of the
// named axis within this XVector, in row-major (last axis fastest) order.
// It mirrors VariableValue::computeStrideAndSize from the original engine.
func (x XVector) StrideAndSize(axis string) (stride, size int, err error) {
	if len(x) == 0 {
		return 0, 0, fmt.Errorf("axis %q not found: slot is scalar", axis)
	}
	stride = 1
	for i := len(x) - 1; i >= 0; i-- {
		if x[i].Name == axis || (axis == "" && len(x) == 1) {
			return stride, x[i].Size(), nil
		}
		stride *= x[i].Size()
	}
	return 0, 0, fmt.Errorf("axis %q not found", axis)
}

// IndexAxis replaces the labels of the selected axis with 0..n-1, used by
// the index/gather operators (§4.6).
func (x XVector) IndexAxis(axis string) XVector {
	out := x.Clone()
	for i := range out {
		if axis == "" || out[i].Name == axis || len(out) == 1 {
			n := out[i].Size()
			labels := make([]string, n)
			for j := 0; j < n; j++ {
				labels[j] = fmt.Sprintf("%d", j)
			}
			out[i].Kind = LabelValue
			out[i].Labels = labels
			break
		}
	}
	return out
}

// Trim removes `arg` leading (arg>0) or trailing (arg<0) labels from the
// named axis, as difference's xVector resize does. It returns an error if
// |arg| is not smaller than the axis length.
func (x XVector) Trim(axis string, arg int) (XVector, error) {
	out := x.Clone()
	for i := range out {
		if axis == "" || out[i].Name == axis || len(out) == 1 {
			n := out[i].Size()
			if arg >= n || -arg >= n {
				return nil, fmt.Errorf("difference argument %d greater than vector length %d", arg, n)
			}
			if arg > 0 {
				out[i].Labels = append([]string(nil), out[i].Labels[arg:]...)
			} else if arg < 0 {
				out[i].Labels = append([]string(nil), out[i].Labels[:n+arg]...)
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("axis %q not found", axis)
}
