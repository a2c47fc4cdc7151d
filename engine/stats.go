package engine

import "github.com/sirupsen/logrus"

// Stats collects counters for a single search.
type Stats struct {
	Nodes       uint64
	Leaves      uint64
	BetaCutoffs uint64
}

func (s Stats) fields() logrus.Fields {
	return logrus.Fields{
		"nodes":        s.Nodes,
		"leaves":       s.Leaves,
		"beta_cutoffs": s.BetaCutoffs,
	}
}

func (s *Stats) Reset() { *s = Stats{} }
