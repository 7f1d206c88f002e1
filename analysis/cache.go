package analysis

// cacheKey identifies the data every cached entry was computed from.
type cacheKey struct {
	identity string
	window   WindowSpec
}

type seriesKey struct {
	kind Kind
	band int
}

type fullSpectrum struct {
	freqs, mags []float64
}

// store is a single-key cache: all entries belong to key. Binding a new key
// or resetting drops every entry at once.
type store struct {
	key   cacheKey
	bound bool

	frames *frameData
	series map[seriesKey][]float64
	full   *fullSpectrum
}

func newStore() *store {
	return &store{series: make(map[seriesKey][]float64)}
}

// bind makes key current. It reports whether existing entries were dropped.
func (s *store) bind(key cacheKey) bool {
	if s.bound && s.key == key {
		return false
	}
	dropped := s.bound
	s.reset()
	s.key = key
	s.bound = true
	return dropped
}

func (s *store) reset() {
	s.bound = false
	s.key = cacheKey{}
	s.frames = nil
	s.full = nil
	clear(s.series)
}

func (s *store) lookup(key seriesKey) ([]float64, bool) {
	v, ok := s.series[key]
	return v, ok
}

func (s *store) put(key seriesKey, v []float64) {
	s.series[key] = v
}

func (s *store) len() int {
	n := len(s.series)
	if s.frames != nil {
		n++
	}
	if s.full != nil {
		n++
	}
	return n
}
