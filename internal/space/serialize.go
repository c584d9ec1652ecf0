package space

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spacecore/internal/sysdesc"
)

const snapshotVersion = 1

// Encoder writes one value to a stream. A msgpack.Encoder satisfies it.
type Encoder interface {
	Encode(v interface{}) error
}

// Decoder reads one value from a stream.
type Decoder interface {
	Decode(v interface{}) error
}

// StateSaver lets a body variant persist fields BodyState does not cover.
type StateSaver interface {
	SaveState() map[string]float64
	LoadState(extra map[string]float64) error
}

// PostLoader runs once every body of a snapshot is registered, to resolve
// references between bodies.
type PostLoader interface {
	PostLoadFixup(s *Space) error
}

// Loader rebuilds a body of one kind from its saved state. Common fields
// are restored by the space afterwards.
type Loader func(s *Space, st *BodyState) (Body, error)

type Snapshot struct {
	Version    int
	HasSystem  bool
	System     sysdesc.Path
	Time       float64
	Tick       uint64
	NextID     BodyID
	Frames     []FrameState
	Bodies     []BodyState
	Transition *Transition
}

type FrameState struct {
	Label  string
	Parent FrameID
	Pos    mgl64.Vec3
	Vel    mgl64.Vec3
	AngVel mgl64.Vec3
	Orient mgl64.Quat
	Radius float64
	Astro  BodyID
	// SBody is the descriptor index, -1 for none.
	SBody int
}

type BodyState struct {
	ID       BodyID
	Kind     Kind
	Label    string
	Frame    FrameID
	Flags    Flags
	Pos      mgl64.Vec3
	Vel      mgl64.Vec3
	Orient   mgl64.Quat
	Dead     bool
	Disabled bool
	SBody    int

	Mass        float64
	Inertia     float64
	HalfExtents mgl64.Vec3
	AngVel      mgl64.Vec3

	Extra map[string]float64
}

// RegisterLoader installs the loader used for snapshot bodies of kind.
func (s *Space) RegisterLoader(kind Kind, l Loader) {
	s.loaders[kind] = l
}

func builtinLoaders() map[Kind]Loader {
	astro := func(s *Space, st *BodyState) (Body, error) {
		sb, err := s.sbodyAt(st.SBody)
		if err != nil || sb == nil {
			return nil, fmt.Errorf("%w: %s %q has no descriptor", ErrCorruptSnapshot, st.Kind, st.Label)
		}
		switch st.Kind {
		case KindStar:
			return NewStar(sb), nil
		case KindPlanet:
			var t Terrain
			if s.terrainFor != nil {
				t = s.terrainFor(sb)
			}
			return NewPlanet(sb, t), nil
		default:
			return NewSpaceStation(sb), nil
		}
	}
	return map[Kind]Loader{
		KindStar:    astro,
		KindPlanet:  astro,
		KindStation: astro,
		KindDynamic: func(s *Space, st *BodyState) (Body, error) {
			return NewDynamicBody(KindDynamic, st.Label, st.Mass, st.Inertia, st.HalfExtents), nil
		},
	}
}

func (s *Space) sbodyAt(idx int) (*sysdesc.Body, error) {
	if idx < 0 {
		return nil, nil
	}
	if s.system == nil || idx >= len(s.system.Bodies) {
		return nil, fmt.Errorf("%w: descriptor index %d", ErrCorruptSnapshot, idx)
	}
	return s.system.Bodies[idx], nil
}

func sbodyIndex(sb *sysdesc.Body) int {
	if sb == nil {
		return -1
	}
	return sb.Index
}

// Snapshot captures the frame tree, the body list and any pending jump.
func (s *Space) Snapshot() *Snapshot {
	snap := &Snapshot{
		Version: snapshotVersion,
		Time:    s.time,
		Tick:    s.tick,
		NextID:  s.nextID,
	}
	if s.system != nil {
		snap.HasSystem = true
		snap.System = sysdesc.Path{SectorX: s.system.SectorX, SectorY: s.system.SectorY, SystemIdx: s.system.Index}
	}
	if s.transition != nil {
		t := *s.transition
		snap.Transition = &t
	}
	for _, f := range s.frames {
		snap.Frames = append(snap.Frames, FrameState{
			Label:  f.Label,
			Parent: f.Parent,
			Pos:    f.Pos,
			Vel:    f.Vel,
			AngVel: f.AngVel,
			Orient: f.Orient,
			Radius: f.Radius,
			Astro:  f.Astro,
			SBody:  sbodyIndex(f.SBody),
		})
	}
	for _, b := range s.bodies {
		base := b.base()
		st := BodyState{
			ID:       base.id,
			Kind:     base.kind,
			Label:    base.label,
			Frame:    base.frame,
			Flags:    base.flags,
			Pos:      base.pos,
			Vel:      base.vel,
			Orient:   base.orient,
			Dead:     base.dead,
			Disabled: base.disabled,
			SBody:    -1,
		}
		if o, ok := b.(Orbital); ok {
			st.SBody = sbodyIndex(o.SBody())
		}
		if d, ok := b.(Dynamic); ok {
			db := d.dynamic()
			st.Mass, st.Inertia = db.mass, db.inertia
			st.HalfExtents, st.AngVel = db.halfExtents, db.angVel
		}
		if ss, ok := b.(StateSaver); ok {
			st.Extra = ss.SaveState()
		}
		snap.Bodies = append(snap.Bodies, st)
	}
	return snap
}

// Serialize writes the world as a single Snapshot value.
func (s *Space) Serialize(enc Encoder) error {
	if err := enc.Encode(s.Snapshot()); err != nil {
		return fmt.Errorf("serialize: %w", err)
	}
	return nil
}

// Unserialize replaces the world with one read from dec.
func (s *Space) Unserialize(dec Decoder) error {
	var snap Snapshot
	if err := dec.Decode(&snap); err != nil {
		return fmt.Errorf("unserialize: %w", err)
	}
	return s.Restore(&snap)
}

// Restore replaces the world with a snapshot. On error the world is left
// empty.
func (s *Space) Restore(snap *Snapshot) error {
	if snap.Version != snapshotVersion {
		return fmt.Errorf("%w: version %d", ErrCorruptSnapshot, snap.Version)
	}
	if len(snap.Frames) == 0 || snap.Frames[0].Parent != NoFrame {
		return fmt.Errorf("%w: missing root frame", ErrCorruptSnapshot)
	}

	s.transition = nil
	s.Clear(nil)
	s.corpses = nil
	s.nextID = 0

	if snap.HasSystem {
		if s.generator == nil {
			return ErrNoGenerator
		}
		sys, err := s.generator.Generate(snap.System.SectorX, snap.System.SectorY, snap.System.SystemIdx)
		if err != nil {
			return fmt.Errorf("unserialize: %w", err)
		}
		s.system = sys
	}

	if err := s.restoreFrames(snap.Frames); err != nil {
		s.Clear(nil)
		return err
	}
	if err := s.restoreBodies(snap.Bodies); err != nil {
		s.Clear(nil)
		return err
	}

	s.time = snap.Time
	s.tick = snap.Tick
	if snap.NextID > s.nextID {
		s.nextID = snap.NextID
	}
	if snap.Transition != nil {
		t := *snap.Transition
		if _, ok := s.Body(t.Jumper).(Jumper); !ok {
			s.Clear(nil)
			return fmt.Errorf("%w: transition jumper %d missing", ErrCorruptSnapshot, t.Jumper)
		}
		s.transition = &t
	}

	for _, b := range s.bodies {
		if pl, ok := b.(PostLoader); ok {
			if err := pl.PostLoadFixup(s); err != nil {
				s.Clear(nil)
				return fmt.Errorf("post load %s: %w", b.Label(), err)
			}
		}
	}
	return nil
}

func (s *Space) restoreFrames(states []FrameState) error {
	for i, fs := range states {
		var f *Frame
		if i == 0 {
			f = s.frames[RootFrame]
		} else {
			if fs.Parent < 0 || int(fs.Parent) >= i {
				return fmt.Errorf("%w: frame %d has parent %d", ErrCorruptSnapshot, i, fs.Parent)
			}
			f = s.newFrame(fs.Parent, fs.Label)
		}
		sb, err := s.sbodyAt(fs.SBody)
		if err != nil {
			return err
		}
		f.Label = fs.Label
		f.Pos, f.Vel, f.AngVel = fs.Pos, fs.Vel, fs.AngVel
		f.Orient = fs.Orient
		f.Radius = fs.Radius
		f.Astro = fs.Astro
		f.SBody = sb
	}
	return nil
}

func (s *Space) restoreBodies(states []BodyState) error {
	for i := range states {
		st := &states[i]
		if st.ID == 0 || s.byID[st.ID] != nil {
			return fmt.Errorf("%w: bad or duplicate body id %d", ErrCorruptSnapshot, st.ID)
		}
		if s.Frame(st.Frame) == nil {
			return fmt.Errorf("%w: body %d in missing frame %d", ErrCorruptSnapshot, st.ID, st.Frame)
		}
		load, ok := s.loaders[st.Kind]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownKind, st.Kind)
		}
		b, err := load(s, st)
		if err != nil {
			return err
		}

		base := b.base()
		base.id = st.ID
		base.label = st.Label
		base.flags = st.Flags
		base.pos, base.vel, base.orient = st.Pos, st.Vel, st.Orient
		base.disabled = st.Disabled
		base.frame = st.Frame
		if d, ok := b.(Dynamic); ok {
			d.SetAngVelocity(st.AngVel)
		}
		if ss, ok := b.(StateSaver); ok && st.Extra != nil {
			if err := ss.LoadState(st.Extra); err != nil {
				return fmt.Errorf("load %s: %w", st.Label, err)
			}
		}

		s.AddBody(b)
		// Saved corpses were already reported when they died.
		if st.Dead {
			base.dead = true
			s.corpses = append(s.corpses, b)
		}
	}

	for _, f := range s.frames {
		if f.Astro != 0 && s.byID[f.Astro] == nil {
			return fmt.Errorf("%w: frame %s names missing astro body %d", ErrCorruptSnapshot, f.Label, f.Astro)
		}
	}
	return nil
}
