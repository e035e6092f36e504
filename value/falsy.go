package value

// Falsy reports whether v yields to any truthy value during merging: Absent,
// a scalar holding nil, false, "" or a numeric zero, and an empty List or Map.
func Falsy(v Value) bool {
	switch v.kind {
	case Absent:
		return true
	case List, Map:
		return v.Len() == 0
	case Scalar:
		return falsyScalar(v.scalar)
	default:
		return false
	}
}

func falsyScalar(s any) bool {
	switch x := s.(type) {
	case nil:
		return true
	case bool:
		return !x
	case string:
		return x == ""
	case int64:
		return x == 0
	case uint64:
		return x == 0
	case float64:
		return x == 0
	default:
		return false
	}
}
