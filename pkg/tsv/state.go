package tsv

import (
	"github.com/agentstation/taxonomy-import/pkg/taxonomy"
)

const levels = 3

// State is the carry-down context of one parse: the topics currently open
// at each level and the rank counters. It belongs to exactly one pass over
// one input; replaying the input needs a fresh State.
type State struct {
	root         *taxonomy.Entity
	open         [levels]*taxonomy.Entity
	topicRank    [levels]int
	resourceRank int
}

// NewState starts a parse below the given root subject.
func NewState(root *taxonomy.Entity) *State {
	return &State{root: root}
}

// Root returns the subject every top-level topic attaches to.
func (s *State) Root() *taxonomy.Entity {
	return s.root
}

// openTopic makes e the open topic at level (0-based), closes deeper levels
// and returns e's rank.
func (s *State) openTopic(level int, e *taxonomy.Entity) int {
	s.open[level] = e
	s.topicRank[level]++
	for deeper := level + 1; deeper < levels; deeper++ {
		s.open[deeper] = nil
		s.topicRank[deeper] = 0
	}
	s.resourceRank = 0
	return s.topicRank[level]
}

func (s *State) nextResourceRank() int {
	s.resourceRank++
	return s.resourceRank
}

// parentFor returns the deepest open topic other than e, or the root.
func (s *State) parentFor(e *taxonomy.Entity) *taxonomy.Entity {
	for level := levels - 1; level >= 0; level-- {
		if t := s.open[level]; t != nil && t != e {
			return t
		}
	}
	return s.root
}
