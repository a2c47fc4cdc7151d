package rules

// Perft counts leaf nodes of the legal move tree to the given depth.
func Perft(p Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := p.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		if err := p.Apply(m); err != nil {
			continue
		}
		nodes += Perft(p, depth-1)
		p.Undo()
	}
	return nodes
}

// PerftDivide reports the subtree size under each root move, keyed by UCI string.
func PerftDivide(p Position, depth int) map[string]uint64 {
	result := make(map[string]uint64)
	if depth <= 0 {
		return result
	}
	for _, m := range p.LegalMoves() {
		if err := p.Apply(m); err != nil {
			continue
		}
		result[m.String()] = Perft(p, depth-1)
		p.Undo()
	}
	return result
}
