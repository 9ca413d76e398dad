package core

// channelSet is the ordered set of channels a session has joined.
type channelSet struct {
	names []string
	index map[string]struct{}
}

func newChannelSet() *channelSet {
	return &channelSet{index: make(map[string]struct{})}
}

// Add inserts a channel. Returns true if newly added.
func (s *channelSet) Add(name string) bool {
	if _, exists := s.index[name]; exists {
		return false
	}
	s.index[name] = struct{}{}
	s.names = append(s.names, name)
	return true
}

// Remove deletes a channel. Returns true if removed.
func (s *channelSet) Remove(name string) bool {
	if _, exists := s.index[name]; !exists {
		return false
	}
	delete(s.index, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
	return true
}

// List returns a copy of the channels in join order.
func (s *channelSet) List() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}
