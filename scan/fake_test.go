package scan

import "fmt"

type local struct{ x, y, z uint8 }

// fakeVolume is a sparse volume: coordinates not listed are air.
type fakeVolume struct {
	pos    SlotPos
	blocks map[local]string
	broken map[local]bool
}

func newFakeVolume(pos SlotPos) *fakeVolume {
	return &fakeVolume{pos: pos, blocks: map[local]string{}, broken: map[local]bool{}}
}

func (v *fakeVolume) set(x, y, z uint8, name string) *fakeVolume {
	v.blocks[local{x, y, z}] = name
	return v
}

func (v *fakeVolume) Position() SlotPos { return v.pos }

func (v *fakeVolume) Block(x, y, z uint8) (string, error) {
	if v.broken[local{x, y, z}] {
		return "", fmt.Errorf("palette lookup: %w", ErrUnknownBlock)
	}
	if name, ok := v.blocks[local{x, y, z}]; ok {
		return name, nil
	}
	return Air, nil
}

// filledVolume returns the same name for every coordinate.
type filledVolume struct {
	pos  SlotPos
	name string
}

func (v filledVolume) Position() SlotPos                  { return v.pos }
func (v filledVolume) Block(_, _, _ uint8) (string, error) { return v.name, nil }

type fakeWorld struct {
	subs    map[SlotPos]Volume
	probed  []SlotPos
	fetched []SlotPos
}

func newFakeWorld(vols ...Volume) *fakeWorld {
	w := &fakeWorld{subs: map[SlotPos]Volume{}}
	for _, v := range vols {
		w.subs[v.Position()] = v
	}
	return w
}

func (w *fakeWorld) Exists(pos SlotPos) bool {
	w.probed = append(w.probed, pos)
	_, ok := w.subs[pos]
	return ok
}

func (w *fakeWorld) SubChunk(pos SlotPos) Volume {
	w.fetched = append(w.fetched, pos)
	if v, ok := w.subs[pos]; ok {
		return v
	}
	return EmptyVolume(pos)
}

type fakeExporter struct {
	columns []Column
	err     error
}

func (e *fakeExporter) Export(col Column) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	e.columns = append(e.columns, col)
	if len(col.Records) == 0 {
		return "", nil
	}
	return fmt.Sprintf("%d_%d.test", col.Records[0].X, col.Records[0].Z), nil
}
