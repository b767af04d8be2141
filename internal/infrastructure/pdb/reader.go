// Package pdb reads ATOM/HETATM records from PDB-format coordinate files into
// a structure.Structure.
package pdb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/turtacn/hbond-engine/internal/domain/structure"
	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hbond-engine/pkg/errors"
)

// Options controls which records are kept.
type Options struct {
	// KeepHydrogens retains H and D atoms.  Detection ignores them either way.
	KeepHydrogens bool
	// KeepWater retains water residues.
	KeepWater bool
	// AllModels reads every MODEL instead of stopping at the first ENDMDL.
	AllModels bool
}

// Reader parses PDB text.
type Reader struct {
	opts   Options
	logger logging.Logger
}

// NewReader returns a Reader.  A nil logger is replaced by a no-op.
func NewReader(opts Options, logger logging.Logger) *Reader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Reader{opts: opts, logger: logger}
}

type residueKey struct {
	chain, name, icode string
	seq                int
}

// Read parses r.  name labels the resulting Structure.
func (rd *Reader) Read(r io.Reader, name string) (*structure.Structure, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 256), 1<<20)

	var (
		residues []*structure.Residue
		atoms    []structure.Atom
		cur      residueKey
		open     bool
		lineNo   int
		skipped  int
	)
	flush := func() {
		if open && len(atoms) > 0 {
			res := structure.NewResidue(cur.name, cur.chain, cur.seq, cur.icode, atoms)
			if rd.opts.KeepWater || res.MoleculeType != structure.MoleculeWater {
				residues = append(residues, res)
			}
		}
		atoms, open = nil, false
	}

	for sc.Scan() {
		lineNo++
		line := sc.Text()
		record := recordName(line)
		switch record {
		case "ENDMDL":
			if !rd.opts.AllModels {
				flush()
				return rd.finish(residues, name, skipped)
			}
			continue
		case "ATOM", "HETATM":
		default:
			continue
		}

		rec, err := parseAtomLine(line)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeStructureParse, "malformed coordinate record").
				WithDetail(fmt.Sprintf("%s line %d", name, lineNo))
		}
		if rec.altLoc != "" && rec.altLoc != "A" && rec.altLoc != "1" {
			skipped++
			continue
		}
		atom := structure.NewAtom(rec.serial, rec.name, rec.element, rec.pos)
		if atom.IsHydrogen() && !rd.opts.KeepHydrogens {
			continue
		}

		key := residueKey{chain: rec.chain, name: rec.resName, icode: rec.icode, seq: rec.resSeq}
		if !open || key != cur {
			flush()
			cur, open = key, true
		}
		atoms = append(atoms, atom)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStructureParse, "read structure")
	}
	flush()
	return rd.finish(residues, name, skipped)
}

func (rd *Reader) finish(residues []*structure.Residue, name string, skipped int) (*structure.Structure, error) {
	if len(residues) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyStructure, "no residues with coordinates").WithDetail(name)
	}
	s := structure.New(name, residues)
	rd.logger.Debug("structure parsed",
		logging.String("name", name),
		logging.Int("residues", s.Len()),
		logging.Int("atoms", s.AtomCount()),
		logging.Int("alt_loc_skipped", skipped),
	)
	return s, nil
}

// ReadFile parses the file at path, naming the structure after the file.
func (rd *Reader) ReadFile(path string) (*structure.Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStructureParse, "open structure file").WithDetail(path)
	}
	defer f.Close()
	return rd.Read(f, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}

// ReadString parses PDB text held in memory.
func (rd *Reader) ReadString(text, name string) (*structure.Structure, error) {
	return rd.Read(strings.NewReader(text), name)
}

// ─────────────────────────────────────────────────────────────────────────────
// Fixed-column record parsing
// ─────────────────────────────────────────────────────────────────────────────

type atomRecord struct {
	serial  int
	name    string
	altLoc  string
	resName string
	chain   string
	resSeq  int
	icode   string
	pos     r3.Vec
	element string
}

func recordName(line string) string {
	return strings.TrimSpace(column(line, 0, 6))
}

// column returns line[from:to], clipped to the line length.
func column(line string, from, to int) string {
	if from >= len(line) {
		return ""
	}
	if to > len(line) {
		to = len(line)
	}
	return line[from:to]
}

func parseAtomLine(line string) (atomRecord, error) {
	if len(line) < 54 {
		return atomRecord{}, fmt.Errorf("record too short (%d columns)", len(line))
	}
	var rec atomRecord
	var err error

	if s := strings.TrimSpace(column(line, 6, 11)); s != "" {
		if rec.serial, err = strconv.Atoi(s); err != nil {
			return rec, fmt.Errorf("serial %q: %w", s, err)
		}
	}
	rec.name = strings.TrimSpace(column(line, 12, 16))
	rec.altLoc = strings.TrimSpace(column(line, 16, 17))
	rec.resName = strings.TrimSpace(column(line, 17, 20))
	rec.chain = strings.TrimSpace(column(line, 21, 22))
	if s := strings.TrimSpace(column(line, 22, 26)); s != "" {
		if rec.resSeq, err = strconv.Atoi(s); err != nil {
			return rec, fmt.Errorf("residue number %q: %w", s, err)
		}
	}
	rec.icode = strings.TrimSpace(column(line, 26, 27))

	coords := [3]float64{}
	for i, span := range [3][2]int{{30, 38}, {38, 46}, {46, 54}} {
		s := strings.TrimSpace(column(line, span[0], span[1]))
		if coords[i], err = strconv.ParseFloat(s, 64); err != nil {
			return rec, fmt.Errorf("coordinate %q: %w", s, err)
		}
	}
	rec.pos = r3.Vec{X: coords[0], Y: coords[1], Z: coords[2]}
	rec.element = strings.TrimSpace(column(line, 76, 78))

	if rec.name == "" {
		return rec, fmt.Errorf("blank atom name")
	}
	return rec, nil
}

//Personal.AI order the ending
