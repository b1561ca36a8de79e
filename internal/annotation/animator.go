package annotation

// AnimationConfig controls the selection pulse.
type AnimationConfig struct {
	Enabled  bool
	PulseMax int
	Speed    int
	MinAlpha float64
	MaxAlpha float64
}

// DefaultAnimation returns the stock pulse: a 30 step triangle wave
// between 0.10 and 0.40 opacity.
func DefaultAnimation() AnimationConfig {
	return AnimationConfig{Enabled: true, PulseMax: 30, Speed: 1, MinAlpha: 0.1, MaxAlpha: 0.4}
}

// Animator advances a bounded triangle wave once per frame tick and turns
// it into a fill opacity for selected shapes.
type Animator struct {
	cfg   AnimationConfig
	base  map[Kind]float64
	count int
	dir   int
}

// NewAnimator returns an animator at the bottom of its wave. Base alphas
// for unselected shapes come from styles.
func NewAnimator(cfg AnimationConfig, styles StyleTable) *Animator {
	if cfg.PulseMax <= 0 {
		cfg.PulseMax = DefaultAnimation().PulseMax
	}
	if cfg.Speed <= 0 {
		cfg.Speed = 1
	}
	styles = styles.Clone()
	base := make(map[Kind]float64, len(styles))
	for k, st := range styles {
		base[k] = st.Alpha
	}
	return &Animator{cfg: cfg, base: base, dir: 1}
}

// Tick advances the wave one step. It does nothing while disabled.
func (a *Animator) Tick() {
	if !a.cfg.Enabled {
		return
	}
	a.count += a.dir * a.cfg.Speed
	if a.count >= a.cfg.PulseMax {
		a.count = a.cfg.PulseMax
		a.dir = -1
	}
	if a.count <= 0 {
		a.count = 0
		a.dir = 1
	}
}

// Count returns the wave position in [0, PulseMax].
func (a *Animator) Count() int { return a.count }

// Direction returns +1 while rising and -1 while falling.
func (a *Animator) Direction() int { return a.dir }

// Enabled reports whether Tick advances the wave.
func (a *Animator) Enabled() bool { return a.cfg.Enabled }

// SetEnabled turns the pulse on or off without resetting its position.
func (a *Animator) SetEnabled(on bool) { a.cfg.Enabled = on }

// AlphaFor returns the fill opacity for a shape of kind.
func (a *Animator) AlphaFor(kind Kind, selected bool) float64 {
	return a.Snapshot().AlphaFor(kind, selected)
}

// Pulse is a detached copy of an animator's state.
type Pulse struct {
	Config AnimationConfig
	Count  int
	Base   map[Kind]float64
}

// Snapshot copies the animator for rendering.
func (a *Animator) Snapshot() Pulse {
	base := make(map[Kind]float64, len(a.base))
	for k, v := range a.base {
		base[k] = v
	}
	return Pulse{Config: a.cfg, Count: a.count, Base: base}
}

// AlphaFor returns the fill opacity for a shape of kind. Unselected shapes
// keep their base alpha. Selected shapes follow the wave, or double the
// base alpha when the pulse is off.
func (p Pulse) AlphaFor(kind Kind, selected bool) float64 {
	base := p.Base[kind]
	if !selected {
		return base
	}
	if !p.Config.Enabled || p.Config.PulseMax <= 0 {
		return min(base*2, 1)
	}
	t := float64(p.Count) / float64(p.Config.PulseMax)
	return p.Config.MinAlpha + (p.Config.MaxAlpha-p.Config.MinAlpha)*t
}
