package lsys

// ModuleSet is the immutable (left, direct, right) context window built for
// one position of a state sequence during rule evaluation.
//
// Boundary positions carry no neighbor on the outer side; the accessor
// reports ok=false there. A missing neighbor satisfies only rules that
// declare no requirement on that side.
type ModuleSet struct {
	left   Module
	direct Module
	right  Module
}

// NewModuleSet builds a context window. The neighbors may be nil at
// sequence boundaries; direct must not be nil.
func NewModuleSet(left, direct, right Module) ModuleSet {
	if direct == nil {
		panic("lsys: ModuleSet requires a direct module")
	}
	return ModuleSet{left: left, direct: direct, right: right}
}

// Left returns the left neighbor, with ok=false at the left boundary.
func (s ModuleSet) Left() (Module, bool) {
	return s.left, s.left != nil
}

// Direct returns the module under rewrite. Never nil.
func (s ModuleSet) Direct() Module {
	return s.direct
}

// Right returns the right neighbor, with ok=false at the right boundary.
func (s ModuleSet) Right() (Module, bool) {
	return s.right, s.right != nil
}
