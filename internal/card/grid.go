package card

// Default column bounds for the summary grid.
const (
	DefaultMinCols = 2
	DefaultMaxCols = 4
)

// Fact is a display-ready key/value pair rendered as one grid cell. A zero Fact
// marks a padding cell.
type Fact struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// IsZero reports whether the fact is a padding cell.
func (f Fact) IsZero() bool {
	return f.Key == "" && f.Value == ""
}

// GridOptions bounds the column selection. ForcedCols bypasses selection
// entirely when positive.
type GridOptions struct {
	MinCols    int
	MaxCols    int
	ForcedCols int
}

func (o GridOptions) withDefaults() GridOptions {
	if o.MinCols <= 0 {
		o.MinCols = DefaultMinCols
	}
	if o.MaxCols < o.MinCols {
		o.MaxCols = DefaultMaxCols
	}
	return o
}

// Columns chooses the column count for n items: the largest divisor of n within
// [MinCols, MaxCols] minimizes the row count; with no divisor in range the grid
// falls back to MinCols and accepts a partially filled last row.
func Columns(n int, opts GridOptions) int {
	opts = opts.withDefaults()
	if opts.ForcedCols > 0 {
		return opts.ForcedCols
	}

	best := 0
	for c := opts.MinCols; c <= opts.MaxCols; c++ {
		if n > 0 && n%c == 0 {
			best = c
		}
	}
	if best == 0 {
		best = opts.MinCols
	}

	if best < opts.MinCols {
		best = opts.MinCols
	}
	if best > opts.MaxCols {
		best = opts.MaxCols
	}
	return best
}

// Pack lays the facts into rows of the chosen column count, right-padding the
// last row with zero Facts. Zero items produce a zero-row grid.
func Pack(facts []Fact, opts GridOptions) [][]Fact {
	if len(facts) == 0 {
		return nil
	}

	cols := Columns(len(facts), opts)
	rows := (len(facts) + cols - 1) / cols

	grid := make([][]Fact, rows)
	for r := 0; r < rows; r++ {
		row := make([]Fact, cols)
		for c := 0; c < cols; c++ {
			i := r*cols + c
			if i < len(facts) {
				row[c] = facts[i]
			}
		}
		grid[r] = row
	}
	return grid
}
