package biom

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"
)

// fragmentEntries bounds how many data entries go into one fragment.
const fragmentEntries = 1024

func kindFor(axis Axis) blockKind {
	if axis == Samples {
		return blockColumns
	}

	return blockRows
}

func requireMember(members []member, kind blockKind, name string) (member, error) {
	m, ok := findMember(members, kind)
	if !ok {
		return member{}, &MalformedTextError{Field: name, Message: "field not found"}
	}

	return m, nil
}

// AxisIndices locates the requested ids along one axis of BIOM text without
// parsing the matrix. It returns their positions in the table's own order
// (not the order of ids) along with the untouched JSON record of each.
//
// Ids that are not present in the table are silently ignored, so fewer
// positions than ids may come back. A typo in a requested id therefore goes
// unnoticed here; callers that care should compare the counts.
func AxisIndices(text []byte, ids []string, axis Axis) ([]int, []json.RawMessage, error) {
	members, err := scanMembers(text)
	if err != nil {
		return nil, nil, err
	}

	return selectRecords(text, members, ids, axis)
}

func selectRecords(text []byte, members []member, ids []string, axis Axis) ([]int, []json.RawMessage, error) {
	m, err := requireMember(members, kindFor(axis), axis.key())
	if err != nil {
		return nil, nil, err
	}

	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	cursor, err := newArrayCursor(text, m.name, m.value)
	if err != nil {
		return nil, nil, err
	}

	positions := make([]int, 0, len(ids))
	records := make([]json.RawMessage, 0, len(ids))
	for pos := 0; ; pos++ {
		elem, ok, err := cursor.next()
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			break
		}

		var rec struct {
			ID string `json:"id"`
		}
		raw := text[elem.start:elem.end]
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, nil, &MalformedTextError{Field: m.name, Offset: elem.start, Message: err.Error()}
		}

		if _, keep := want[rec.ID]; keep {
			positions = append(positions, pos)
			records = append(records, json.RawMessage(raw))
		}
	}

	return positions, records, nil
}

// countElements returns the number of elements in the array value of m.
func countElements(text []byte, m member) (int, error) {
	cursor, err := newArrayCursor(text, m.name, m.value)
	if err != nil {
		return 0, err
	}

	n := 0
	for {
		_, ok, err := cursor.next()
		if err != nil {
			return 0, err
		}
		if !ok {
			return n, nil
		}
		n++
	}
}

func isDense(text []byte, members []member) bool {
	for _, m := range members {
		if m.name != "matrix_type" {
			continue
		}

		var matrixType string
		if err := json.Unmarshal(text[m.value.start:m.value.end], &matrixType); err != nil {
			return false
		}
		return strings.EqualFold(matrixType, MatrixTypeDense)
	}

	return false
}

// dataSlicer walks the data array and re-emits only the entries whose index
// along axis was retained, renumbering that index.
type dataSlicer struct {
	text   []byte
	cursor *arrayCursor
	axis   Axis
	dense  bool
	remap  map[int]int
	row    int
	wrote  bool
}

func newDataSlicer(text []byte, members []member, positions []int, axis Axis) (*dataSlicer, error) {
	m, err := requireMember(members, blockData, "data")
	if err != nil {
		return nil, err
	}

	cursor, err := newArrayCursor(text, m.name, m.value)
	if err != nil {
		return nil, err
	}

	remap := make(map[int]int, len(positions))
	for k, p := range positions {
		remap[p] = k
	}

	return &dataSlicer{
		text:   text,
		cursor: cursor,
		axis:   axis,
		dense:  isDense(text, members),
		remap:  remap,
	}, nil
}

// next renders up to limit retained entries, comma separated. done is true
// once the data array has been fully consumed.
func (d *dataSlicer) next(limit int) (chunk string, done bool, err error) {
	var sb strings.Builder

	for kept := 0; kept < limit; {
		elem, ok, err := d.cursor.next()
		if err != nil {
			return "", false, err
		}
		if !ok {
			return sb.String(), true, nil
		}

		var out string
		var keep bool
		if d.dense {
			out, keep, err = d.denseRow(elem)
		} else {
			out, keep, err = d.sparseEntry(elem)
		}
		if err != nil {
			return "", false, err
		}
		if !keep {
			continue
		}

		if d.wrote {
			sb.WriteByte(',')
		}
		sb.WriteString(out)
		d.wrote = true
		kept++
	}

	return sb.String(), false, nil
}

func (d *dataSlicer) sparseEntry(elem span) (string, bool, error) {
	raw := d.text[elem.start:elem.end]
	if len(raw) < 2 || raw[0] != '[' || raw[len(raw)-1] != ']' {
		return "", false, &MalformedTextError{Field: "data", Offset: elem.start, Message: "expected a [row, column, value] entry"}
	}

	parts := strings.Split(string(raw[1:len(raw)-1]), ",")
	if len(parts) != 3 {
		return "", false, &MalformedTextError{Field: "data", Offset: elem.start, Message: "expected a [row, column, value] entry"}
	}

	row, err := parseIndex(parts[0])
	if err != nil {
		return "", false, &MalformedTextError{Field: "data", Offset: elem.start, Message: err.Error()}
	}
	col, err := parseIndex(parts[1])
	if err != nil {
		return "", false, &MalformedTextError{Field: "data", Offset: elem.start, Message: err.Error()}
	}

	if d.axis == Samples {
		k, keep := d.remap[col]
		if !keep {
			return "", false, nil
		}
		col = k
	} else {
		k, keep := d.remap[row]
		if !keep {
			return "", false, nil
		}
		row = k
	}

	return "[" + strconv.Itoa(row) + "," + strconv.Itoa(col) + "," + strings.TrimSpace(parts[2]) + "]", true, nil
}

func (d *dataSlicer) denseRow(elem span) (string, bool, error) {
	row := d.row
	d.row++

	if d.axis == Observations {
		if _, keep := d.remap[row]; !keep {
			return "", false, nil
		}
		return string(d.text[elem.start:elem.end]), true, nil
	}

	cursor, err := newArrayCursor(d.text, "data", elem)
	if err != nil {
		return "", false, err
	}

	var sb strings.Builder
	sb.WriteByte('[')
	first := true
	for col := 0; ; col++ {
		v, ok, err := cursor.next()
		if err != nil {
			return "", false, err
		}
		if !ok {
			break
		}
		if _, keep := d.remap[col]; !keep {
			continue
		}
		if !first {
			sb.WriteByte(',')
		}
		sb.Write(d.text[v.start:v.end])
		first = false
	}
	sb.WriteByte(']')

	return sb.String(), true, nil
}

func parseIndex(s string) (int, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		return i, nil
	}

	// Some writers emit indices as floats, e.g. 3.0
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, &strconv.NumError{Func: "parseIndex", Num: s, Err: strconv.ErrSyntax}
	}

	return int(f), nil
}

// SliceData returns the "data" array of BIOM text restricted to positions
// along axis. The retained index is renumbered from zero in the order of
// positions, which must be ascending; the other index is left alone.
func SliceData(text []byte, positions []int, axis Axis) (string, error) {
	members, err := scanMembers(text)
	if err != nil {
		return "", err
	}

	d, err := newDataSlicer(text, members, positions, axis)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteByte('[')
	for {
		chunk, done, err := d.next(fragmentEntries)
		if err != nil {
			return "", err
		}
		sb.WriteString(chunk)
		if done {
			break
		}
	}
	sb.WriteByte(']')

	return sb.String(), nil
}

type fragmentStage byte

const (
	stageOpen fragmentStage = iota
	stageMembers
	stageData
	stageFinished
)

// Fragments is a lazily produced sequence of text pieces that concatenate to
// a BIOM document holding a subset of another document. It is consumed once,
// in order, by a single reader; abandoning it part way needs no cleanup.
type Fragments struct {
	text     []byte
	members  []member
	axis     Axis
	records  []json.RawMessage
	shape    [2]int
	hasShape bool
	data     *dataSlicer

	stage   fragmentStage
	member  int
	pending []string
	err     error
}

// SubsetFragments prepares the fragments of a document that keeps only the
// given ids along axis. Unknown ids are silently ignored, as in AxisIndices.
// Structural problems with the ids or the document are reported here; a
// malformed data entry is only found while iterating and surfaces via Err.
func SubsetFragments(text []byte, ids []string, axis Axis) (*Fragments, error) {
	members, err := scanMembers(text)
	if err != nil {
		return nil, err
	}

	positions, records, err := selectRecords(text, members, ids, axis)
	if err != nil {
		return nil, err
	}

	data, err := newDataSlicer(text, members, positions, axis)
	if err != nil {
		return nil, err
	}

	other, err := requireMember(members, kindFor(axis.Other()), axis.Other().key())
	if err != nil {
		return nil, err
	}

	f := &Fragments{
		text:    text,
		members: members,
		axis:    axis,
		records: records,
		data:    data,
	}

	otherCount := -1
	if m, ok := findMember(members, blockShape); ok {
		f.hasShape = true
		var shape []int
		if err := json.Unmarshal(text[m.value.start:m.value.end], &shape); err == nil && len(shape) == 2 {
			otherCount = shape[int(axis.Other())]
		}
	}
	if otherCount < 0 {
		if otherCount, err = countElements(text, other); err != nil {
			return nil, err
		}
	}
	f.shape[int(axis)] = len(records)
	f.shape[int(axis.Other())] = otherCount

	return f, nil
}

// Len is the number of ids retained along the subset axis.
func (f *Fragments) Len() int {
	return len(f.records)
}

// Next returns the following fragment. ok is false when the sequence is
// exhausted or an error occurred; check Err afterwards.
func (f *Fragments) Next() (fragment string, ok bool) {
	for len(f.pending) == 0 {
		if f.err != nil || f.stage == stageFinished {
			return "", false
		}
		f.fill()
	}

	fragment = f.pending[0]
	f.pending = f.pending[1:]

	return fragment, true
}

// Err returns the first error hit while producing fragments.
func (f *Fragments) Err() error {
	return f.err
}

// WriteTo streams the remaining fragments into w.
func (f *Fragments) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for {
		fragment, ok := f.Next()
		if !ok {
			break
		}
		n, err := io.WriteString(w, fragment)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	return total, f.err
}

func (f *Fragments) fill() {
	switch f.stage {
	case stageOpen:
		f.pending = append(f.pending, "{")
		f.stage = stageMembers

	case stageMembers:
		if f.member == len(f.members) {
			if !f.hasShape {
				f.pending = append(f.pending, ",", `"shape": `+f.shapeText())
			}
			f.pending = append(f.pending, "}")
			f.stage = stageFinished
			return
		}

		m := f.members[f.member]
		if f.member > 0 {
			f.pending = append(f.pending, ",")
		}
		f.member++

		if m.kind == blockData {
			f.pending = append(f.pending, f.keyText(m)+": [")
			f.stage = stageData
			return
		}
		f.pending = append(f.pending, f.render(m))

	case stageData:
		chunk, done, err := f.data.next(fragmentEntries)
		if err != nil {
			f.err = err
			return
		}
		if chunk != "" {
			f.pending = append(f.pending, chunk)
		}
		if done {
			f.pending = append(f.pending, "]")
			f.stage = stageMembers
		}
	}
}

func (f *Fragments) keyText(m member) string {
	return string(f.text[m.key.start:m.key.end])
}

func (f *Fragments) shapeText() string {
	return "[" + strconv.Itoa(f.shape[0]) + ", " + strconv.Itoa(f.shape[1]) + "]"
}

func (f *Fragments) render(m member) string {
	switch {
	case m.kind == kindFor(f.axis):
		var sb strings.Builder
		sb.WriteString(f.keyText(m))
		sb.WriteString(": [")
		for i, rec := range f.records {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.Write(rec)
		}
		sb.WriteByte(']')
		return sb.String()

	case m.kind == blockShape:
		return f.keyText(m) + ": " + f.shapeText()
	}

	return f.keyText(m) + ": " + string(f.text[m.value.start:m.value.end])
}

// LoadSubset parses only the requested ids along axis out of BIOM text. The
// subset document is streamed into the parser, never held as one string.
// Unknown ids are silently ignored.
func LoadSubset(text []byte, ids []string, axis Axis) (*Table, error) {
	fragments, err := SubsetFragments(text, ids, axis)
	if err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	produced := make(chan error, 1)
	go func() {
		_, err := fragments.WriteTo(pw)
		pw.CloseWithError(err)
		produced <- err
	}()

	t, err := Parse(pr)

	// Unblocks the writer if the parser stopped early.
	pr.Close()

	if werr := <-produced; werr != nil && werr != io.ErrClosedPipe {
		return nil, werr
	}

	return t, err
}
