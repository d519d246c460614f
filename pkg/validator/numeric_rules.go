package validator

// Min checks value >= params["min"]. Non-numeric values fail; a missing bound passes.
func Min(value any, params Params) bool {
	limit, ok := params.Float("min")
	if !ok {
		return true
	}
	n, ok := toFloat(value)
	return ok && n >= limit
}

// Max checks value <= params["max"]. Non-numeric values fail; a missing bound passes.
func Max(value any, params Params) bool {
	limit, ok := params.Float("max")
	if !ok {
		return true
	}
	n, ok := toFloat(value)
	return ok && n <= limit
}
