package pgexport

// AUCSRow is one row of the composed-score export table. Field names and
// nullability mirror the "aucs" contract schema.
type AUCSRow struct {
	CellID    string   `db:"cell_id"`
	AUCS      *float64 `db:"aucs"`
	EA        *float64 `db:"ea"`
	LCA       *float64 `db:"lca"`
	MUHAA     *float64 `db:"muhaa"`
	JEA       *float64 `db:"jea"`
	MORR      *float64 `db:"morr"`
	CTE       *float64 `db:"cte"`
	SOU       *float64 `db:"sou"`
	Metro     string   `db:"metro"`
	ParamHash string   `db:"param_hash"`
}

// SubscoresRawRow is one row of the pre-composition subscore export table,
// mirroring the "subscores_raw" contract schema.
type SubscoresRawRow struct {
	CellID string   `db:"cell_id"`
	EA     *float64 `db:"ea"`
	LCA    *float64 `db:"lca"`
	MUHAA  *float64 `db:"muhaa"`
	JEA    *float64 `db:"jea"`
	MORR   *float64 `db:"morr"`
	CTE    *float64 `db:"cte"`
	SOU    *float64 `db:"sou"`
	Metro  string   `db:"metro"`
}

// ExplainabilityRow is one ranked contributor row, mirroring the
// "explainability" contract schema (spec §4.10's top-K contributor table).
type ExplainabilityRow struct {
	CellID       string  `db:"cell_id"`
	Subscore     string  `db:"subscore"`
	Rank         int     `db:"rank"`
	AmenityID    *string `db:"amenity_id"`
	Category     *string `db:"category"`
	Mode         *string `db:"mode"`
	TimeSlice    *string `db:"time_slice"`
	Contribution float64 `db:"contribution"`
}
