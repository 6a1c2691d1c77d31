package views

import (
	"sort"
	"sync"

	"github.com/goccy/go-json"
	"github.com/zeebo/xxh3"
)

// State is where a container sits in uninitialized -> empty <-> populated.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateEmpty         State = "empty"
	StatePopulated     State = "populated"
)

const NoDataMessage = "Data Not Available"

type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Point struct {
	Label     string  `json:"label,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Highlight bool    `json:"highlight,omitempty"`
}

type Series struct {
	Name   string  `json:"name"`
	Class  string  `json:"class,omitempty"`
	Color  string  `json:"color,omitempty"`
	Points []Point `json:"points"`
}

type LegendItem struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

type Tooltip struct {
	Series string `json:"series,omitempty"`
	Label  string `json:"label"`
	Text   string `json:"text"`
}

// Scene is the declarative model of one chart plus its SVG rendering.
// Scenes are immutable once mounted.
type Scene struct {
	Container   string       `json:"container"`
	Title       string       `json:"title,omitempty"`
	State       State        `json:"state"`
	Message     string       `json:"message,omitempty"`
	XLabel      string       `json:"x_label,omitempty"`
	YLabel      string       `json:"y_label,omitempty"`
	XDomain     *Domain      `json:"x_domain,omitempty"`
	YDomain     *Domain      `json:"y_domain,omitempty"`
	Bands       []string     `json:"bands,omitempty"`
	Series      []Series     `json:"series,omitempty"`
	Legend      []LegendItem `json:"legend,omitempty"`
	Tooltips    []Tooltip    `json:"tooltips,omitempty"`
	SVG         []byte       `json:"-"`
	Fingerprint uint64       `json:"fingerprint"`
}

// fingerprint hashes the declarative model and the SVG together.
func fingerprint(s Scene) uint64 {
	s.Fingerprint = 0
	h := xxh3.New()
	if b, err := json.Marshal(s); err == nil {
		_, _ = h.Write(b)
	}
	_, _ = h.Write(s.SVG)
	return h.Sum64()
}

// Surface is the shared drawing area. Each adapter owns exactly one
// container on it and never touches another's.
type Surface struct {
	mu     sync.RWMutex
	scenes map[string]*Scene
}

func NewSurface() *Surface {
	return &Surface{scenes: make(map[string]*Scene)}
}

// Mount replaces whatever the container shows with scene. Readers see either
// the old scene or the new one, never an empty container.
func (s *Surface) Mount(scene Scene) {
	scene.Fingerprint = fingerprint(scene)
	s.mu.Lock()
	s.scenes[scene.Container] = &scene
	s.mu.Unlock()
}

func (s *Surface) Scene(container string) (Scene, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.scenes[container]
	if !ok {
		return Scene{}, false
	}
	return *sc, true
}

func (s *Surface) State(container string) State {
	if sc, ok := s.Scene(container); ok {
		return sc.State
	}
	return StateUninitialized
}

// Containers lists mounted containers in name order.
func (s *Surface) Containers() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.scenes))
	for name := range s.scenes {
		out = append(out, name)
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out
}
