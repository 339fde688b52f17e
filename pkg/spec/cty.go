package spec

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// FromCty converts an evaluated cty value into a specification Value.
// Unknown and null values become null; numbers are converted to
// float64, the natural JSON representation. Capsule and other exotic
// types are rejected.
func FromCty(v cty.Value) (Value, error) {
	if v.IsNull() || !v.IsKnown() {
		return NullVal(), nil
	}

	ty := v.Type()

	switch {
	case ty == cty.String:
		return StringVal(v.AsString()), nil

	case ty == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return NumberVal(f), nil

	case ty == cty.Bool:
		return BoolVal(v.True()), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		elems := make([]Value, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, ev := it.Element()
			conv, err := FromCty(ev)
			if err != nil {
				return NullVal(), err
			}
			elems = append(elems, conv)
		}
		return ListVal(elems), nil

	case ty.IsObjectType() || ty.IsMapType():
		fields := make(map[string]Value, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			key, ev := it.Element()
			name := key.AsString()
			conv, err := FromCty(ev)
			if err != nil {
				return NullVal(), fmt.Errorf("in attribute %q: %w", name, err)
			}
			fields[name] = conv
		}
		return ObjectVal(fields), nil

	default:
		return NullVal(), fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
