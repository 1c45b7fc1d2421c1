// Package solvfile reads and writes the persisted pool format spec.md
// §6 describes: an 8-byte magic, little-endian u32 counts, a
// length-prefixed string arena, relation triples, the raw dependency
// arena, packed solvable attributes, and a repo table. Ids read back
// from a file are stable relative to that file's own header; combining
// two files requires an idmap-based renaming pass (Merge).
package solvfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"depcore/internal/pool"
	"depcore/internal/types"
)

// Magic is the fixed 8-byte header every ".solv" file starts with.
var Magic = [8]byte{'S', 'O', 'L', 'V', 0, 0, 0, 7}

// Write serializes p's entire interned state to w in the ".solv" wire
// format.
func Write(w io.Writer, p *pool.Pool) error {
	bw := bufio.NewWriter(w)
	snap := p.Snapshot()

	if _, err := bw.Write(Magic[:]); err != nil {
		return err
	}
	if err := writeString(bw, snap.NativeArch); err != nil {
		return err
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(snap.Strings))); err != nil {
		return err
	}
	for _, s := range snap.Strings {
		if err := writeString(bw, s); err != nil {
			return err
		}
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(snap.Rels))); err != nil {
		return err
	}
	for _, r := range snap.Rels {
		if err := writeInt32s(bw, int32(r.Name), int32(r.EVR), int32(r.Flags)); err != nil {
			return err
		}
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(snap.Deps))); err != nil {
		return err
	}
	for _, id := range snap.Deps {
		if err := binary.Write(bw, binary.LittleEndian, int32(id)); err != nil {
			return err
		}
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(snap.Solvables))); err != nil {
		return err
	}
	for _, sv := range snap.Solvables {
		if err := writeInt32s(bw,
			int32(sv.Name), int32(sv.EVR), int32(sv.Arch), int32(sv.Vendor), int32(sv.Repo),
			int32(sv.Provides), int32(sv.Requires), int32(sv.Conflicts), int32(sv.Obsoletes),
			int32(sv.Recommends), int32(sv.Suggests), int32(sv.Supplements), int32(sv.Enhances),
			int32(sv.PrereqIgnoreinst),
		); err != nil {
			return err
		}
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(snap.Repos))); err != nil {
		return err
	}
	for _, r := range snap.Repos {
		if err := writeString(bw, r.Name); err != nil {
			return err
		}
		if err := writeString(bw, string(r.Scheme)); err != nil {
			return err
		}
		if err := writeInt32s(bw, int32(r.Priority), int32(r.Start), int32(r.End)); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Read parses a ".solv" stream back into a live Pool.
func Read(r io.Reader, log zerolog.Logger) (*pool.Pool, error) {
	br := bufio.NewReader(r)

	var magic [8]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, fmt.Errorf("solvfile: reading magic: %w", err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("solvfile: bad magic %x, want %x", magic, Magic)
	}

	nativeArch, err := readString(br)
	if err != nil {
		return nil, fmt.Errorf("solvfile: reading native arch: %w", err)
	}

	nstrings, err := readU32(br)
	if err != nil {
		return nil, err
	}
	strings := make([]string, nstrings)
	for i := range strings {
		if strings[i], err = readString(br); err != nil {
			return nil, fmt.Errorf("solvfile: reading string %d: %w", i, err)
		}
	}

	nrels, err := readU32(br)
	if err != nil {
		return nil, err
	}
	rels := make([]pool.Rel, nrels)
	for i := range rels {
		vals, err := readInt32s(br, 3)
		if err != nil {
			return nil, fmt.Errorf("solvfile: reading rel %d: %w", i, err)
		}
		rels[i] = pool.Rel{Name: types.Id(vals[0]), EVR: types.Id(vals[1]), Flags: pool.RelFlags(vals[2])}
	}

	ndeps, err := readU32(br)
	if err != nil {
		return nil, err
	}
	deps := make([]types.Id, ndeps)
	for i := range deps {
		v, err := readInt32(br)
		if err != nil {
			return nil, fmt.Errorf("solvfile: reading dep %d: %w", i, err)
		}
		deps[i] = types.Id(v)
	}

	nsolvables, err := readU32(br)
	if err != nil {
		return nil, err
	}
	solvables := make([]pool.Solvable, nsolvables)
	for i := range solvables {
		vals, err := readInt32s(br, 14)
		if err != nil {
			return nil, fmt.Errorf("solvfile: reading solvable %d: %w", i, err)
		}
		solvables[i] = pool.Solvable{
			Name: types.Id(vals[0]), EVR: types.Id(vals[1]), Arch: types.Id(vals[2]), Vendor: types.Id(vals[3]),
			Repo:             pool.RepoId(vals[4]),
			Provides:         types.Offset(vals[5]),
			Requires:         types.Offset(vals[6]),
			Conflicts:        types.Offset(vals[7]),
			Obsoletes:        types.Offset(vals[8]),
			Recommends:       types.Offset(vals[9]),
			Suggests:         types.Offset(vals[10]),
			Supplements:      types.Offset(vals[11]),
			Enhances:         types.Offset(vals[12]),
			PrereqIgnoreinst: types.Offset(vals[13]),
		}
	}

	nrepos, err := readU32(br)
	if err != nil {
		return nil, err
	}
	repos := make([]pool.Repo, nrepos)
	for i := range repos {
		name, err := readString(br)
		if err != nil {
			return nil, fmt.Errorf("solvfile: reading repo %d name: %w", i, err)
		}
		scheme, err := readString(br)
		if err != nil {
			return nil, fmt.Errorf("solvfile: reading repo %d scheme: %w", i, err)
		}
		vals, err := readInt32s(br, 3)
		if err != nil {
			return nil, fmt.Errorf("solvfile: reading repo %d: %w", i, err)
		}
		repos[i] = pool.Repo{Name: name, Scheme: pool.Scheme(scheme), Priority: int(vals[0]), Start: types.Id(vals[1]), End: types.Id(vals[2])}
	}

	return pool.FromSnapshot(pool.Snapshot{
		NativeArch: nativeArch,
		Strings:    strings,
		Rels:       rels,
		Deps:       deps,
		Solvables:  solvables,
		Repos:      repos,
	}, log), nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	n, err := readU32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeInt32s(w io.Writer, vals ...int32) error {
	for _, v := range vals {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

func readInt32(r io.Reader) (int32, error) {
	var v int32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readInt32s(r io.Reader, n int) ([]int32, error) {
	out := make([]int32, n)
	for i := range out {
		v, err := readInt32(r)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func readU32(r io.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}
