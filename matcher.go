package lsys

// contextAt builds the (left, direct, right) window for position i of seq.
// Boundary positions carry nil neighbors.
func contextAt(seq []Module, i int) ModuleSet {
	var left, right Module
	if i > 0 {
		left = seq[i-1]
	}
	if i < len(seq)-1 {
		right = seq[i+1]
	}
	return NewModuleSet(left, seq[i], right)
}

// firstMatch scans rules in registration order and returns the index of
// the first rule matching the context window, or -1 when none applies.
// There is no priority or cost model; registration index is the only
// tie-break. Guard errors propagate.
func firstMatch(rules []Rule, set ModuleSet, param Value) (int, error) {
	for i := range rules {
		ok, err := rules[i].Matches(set, param)
		if err != nil {
			return -1, err
		}
		if ok {
			return i, nil
		}
	}
	return -1, nil
}
