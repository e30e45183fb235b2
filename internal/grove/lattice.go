package grove

// MaxNeighbors is the lattice degree: a planting position has at most six
// adjacent positions under the quincunx pattern.
const MaxNeighbors = 6

// Neighbor offset tables for the triangular (quincunx) planting lattice.
// The six candidate neighbors depend on row parity: odd rows sit shifted
// half a position relative to even rows, so the diagonal offsets differ.
// A square-grid 8-neighborhood would be wrong for this layout.
var (
	oddRowOffsets = [MaxNeighbors]Coord{
		{Row: -1, Pos: -1}, {Row: -1, Pos: 0},
		{Row: 0, Pos: -1}, {Row: 0, Pos: 1},
		{Row: 1, Pos: -1}, {Row: 1, Pos: 0},
	}
	evenRowOffsets = [MaxNeighbors]Coord{
		{Row: -1, Pos: 0}, {Row: -1, Pos: 1},
		{Row: 0, Pos: -1}, {Row: 0, Pos: 1},
		{Row: 1, Pos: 0}, {Row: 1, Pos: 1},
	}
)

// NeighborCoords returns the six candidate neighbor coordinates of c.
// Candidates are coordinates only; whether a record exists there is a
// separate question answered by BlockIndex.
func NeighborCoords(c Coord) [MaxNeighbors]Coord {
	offsets := evenRowOffsets
	if c.Row%2 != 0 {
		offsets = oddRowOffsets
	}
	var out [MaxNeighbors]Coord
	for i, o := range offsets {
		out[i] = Coord{Row: c.Row + o.Row, Pos: c.Pos + o.Pos}
	}
	return out
}

// BlockIndex is a coordinate-indexed record set for a single block.
// Adjacency never crosses block boundaries, so each block gets its own
// index and lookups outside the block simply miss.
type BlockIndex struct {
	byCoord map[Coord]*Record
}

// NewBlockIndex builds an index over the given records. All records are
// assumed to belong to one block; a duplicate coordinate keeps the last
// record seen.
func NewBlockIndex(records []*Record) *BlockIndex {
	idx := &BlockIndex{byCoord: make(map[Coord]*Record, len(records))}
	for _, r := range records {
		idx.byCoord[r.Coord] = r
	}
	return idx
}

// At returns the record at c, or nil.
func (bi *BlockIndex) At(c Coord) *Record {
	return bi.byCoord[c]
}

// Neighbors returns the records actually present at the six candidate
// neighbor coordinates of c. A position at the lattice edge legitimately
// yields fewer than six entries; that is expected, not an error.
func (bi *BlockIndex) Neighbors(c Coord) []*Record {
	var out []*Record
	for _, nc := range NeighborCoords(c) {
		if r := bi.byCoord[nc]; r != nil {
			out = append(out, r)
		}
	}
	return out
}

// BuildBlockIndexes groups records by block id and indexes each block.
func BuildBlockIndexes(records []*Record) map[string]*BlockIndex {
	grouped := make(map[string][]*Record)
	for _, r := range records {
		grouped[r.BlockID] = append(grouped[r.BlockID], r)
	}
	indexes := make(map[string]*BlockIndex, len(grouped))
	for blockID, rs := range grouped {
		indexes[blockID] = NewBlockIndex(rs)
	}
	return indexes
}
