package trace

// Divergence reports the first generation where a replayed derivation
// stopped matching its recording.
type Divergence struct {
	Generation int
	Want       string // recorded hash
	Got        string // replayed hash
}

// FirstDivergence compares a recorded run against a fresh derivation
// generation by generation.
//
// Both slices must be ordered by generation. A replay that runs longer
// or shorter than the recording diverges at the first missing
// generation, reported with an empty hash on the absent side.
//
// Returns the zero Divergence and false when every generation matches.
func FirstDivergence(recorded, replayed []GenerationRow) (Divergence, bool) {
	n := len(recorded)
	if len(replayed) > n {
		n = len(replayed)
	}

	for i := 0; i < n; i++ {
		var rec, rep GenerationRow
		haveRec, haveRep := i < len(recorded), i < len(replayed)
		if haveRec {
			rec = recorded[i]
		}
		if haveRep {
			rep = replayed[i]
		}

		switch {
		case !haveRec:
			return Divergence{Generation: rep.Generation, Want: "", Got: rep.Hash}, true
		case !haveRep:
			return Divergence{Generation: rec.Generation, Want: rec.Hash, Got: ""}, true
		case rec.Generation != rep.Generation || rec.Hash != rep.Hash:
			return Divergence{Generation: rec.Generation, Want: rec.Hash, Got: rep.Hash}, true
		}
	}

	return Divergence{}, false
}
