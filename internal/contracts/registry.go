package contracts

// ptr is a small helper for building *float64 schema bounds inline.
func ptr(f float64) *float64 { return &f }

// DefaultRegistry returns a Validator pre-loaded with the schemas for every
// artifact table named in spec §6: places, skims, the derived kernel tables,
// and the three output tables. The run manifest has no schema here.
func DefaultRegistry() *Validator {
	v := NewValidator()
	for _, s := range []Schema{
		placesSchema(),
		skimSchema(),
		gtcSchema(),
		weightSchema(),
		qualitySchema(),
		categoryValueSchema(),
		subscoresRawSchema(),
		aucsSchema(),
		explainabilitySchema(),
	} {
		// Registration only fails on malformed regex patterns baked in below;
		// a panic here means this file itself is wrong, not caller input.
		if err := v.Register(s); err != nil {
			panic(err)
		}
	}
	return v
}

func placesSchema() Schema {
	return Schema{
		Name:    "places",
		Version: "1",
		Fields: map[string]FieldSchema{
			"amenity_id":         {Type: FieldTypeString, Required: true, Unique: true},
			"cell_id":            {Type: FieldTypeString, Required: true},
			"category":           {Type: FieldTypeString, Required: true},
			"subtype":            {Type: FieldTypeString, Required: false, Nullable: true},
			"brand_key":          {Type: FieldTypeString, Required: false, Nullable: true},
			"size_metric":        {Type: FieldTypeFloat, Required: false, Nullable: true, MinValue: ptr(0)},
			"popularity_metric":  {Type: FieldTypeFloat, Required: false, Nullable: true, MinValue: ptr(0)},
			"brand_recognized":   {Type: FieldTypeBoolean, Required: false, Nullable: true},
			"heritage_flag":      {Type: FieldTypeBoolean, Required: false, Nullable: true},
			"hours_regime":       {Type: FieldTypeString, Required: true, Enum: []string{"24_7", "extended", "standard", "limited"}},
			"lon":                {Type: FieldTypeFloat, Required: true, MinValue: ptr(-180), MaxValue: ptr(180)},
			"lat":                {Type: FieldTypeFloat, Required: true, MinValue: ptr(-90), MaxValue: ptr(90)},
		},
	}
}

func skimSchema() Schema {
	return Schema{
		Name:    "skim",
		Version: "1",
		Fields: map[string]FieldSchema{
			"origin_cell":             {Type: FieldTypeString, Required: true},
			"destination_id":          {Type: FieldTypeString, Required: true},
			"mode":                    {Type: FieldTypeString, Required: true, Enum: []string{"walk", "bike", "car", "transit"}},
			"time_slice":              {Type: FieldTypeString, Required: true},
			"in_vehicle_min":          {Type: FieldTypeFloat, Required: false, Nullable: true, MinValue: ptr(0)},
			"access_min":              {Type: FieldTypeFloat, Required: false, Nullable: true, MinValue: ptr(0)},
			"egress_min":              {Type: FieldTypeFloat, Required: false, Nullable: true, MinValue: ptr(0)},
			"wait_min":                {Type: FieldTypeFloat, Required: false, Nullable: true, MinValue: ptr(0)},
			"transfers":               {Type: FieldTypeInteger, Required: false, Nullable: true, MinValue: ptr(0)},
			"fare":                    {Type: FieldTypeFloat, Required: false, Nullable: true, MinValue: ptr(0)},
			"reliability_buffer_min":  {Type: FieldTypeFloat, Required: false, Nullable: true, MinValue: ptr(0)},
			"reachable":               {Type: FieldTypeBoolean, Required: true},
			"fingerprint":             {Type: FieldTypeString, Required: true},
		},
	}
}

func gtcSchema() Schema {
	return Schema{
		Name:    "gtc",
		Version: "1",
		Fields: map[string]FieldSchema{
			"origin_cell":    {Type: FieldTypeString, Required: true},
			"amenity_id":     {Type: FieldTypeString, Required: true},
			"mode":           {Type: FieldTypeString, Required: true, Enum: []string{"walk", "bike", "car", "transit"}},
			"time_slice":     {Type: FieldTypeString, Required: true},
			"gtc_minutes":    {Type: FieldTypeFloat, Required: true, MinValue: ptr(0)},
			"reachable":      {Type: FieldTypeBoolean, Required: true},
		},
	}
}

func weightSchema() Schema {
	return Schema{
		Name:    "accessibility_weight",
		Version: "1",
		Fields: map[string]FieldSchema{
			"cell_id":    {Type: FieldTypeString, Required: true},
			"amenity_id": {Type: FieldTypeString, Required: true},
			"w":          {Type: FieldTypeFloat, Required: true, MinValue: ptr(0), MaxValue: ptr(1)},
		},
	}
}

func qualitySchema() Schema {
	return Schema{
		Name:    "quality",
		Version: "1",
		Fields: map[string]FieldSchema{
			"amenity_id":    {Type: FieldTypeString, Required: true, Unique: true},
			"q":             {Type: FieldTypeFloat, Required: true, MinValue: ptr(0), MaxValue: ptr(100)},
			"brand_penalty": {Type: FieldTypeFloat, Required: true, MinValue: ptr(0), MaxValue: ptr(1)},
			"hours_regime":  {Type: FieldTypeString, Required: true, Enum: []string{"24_7", "extended", "standard", "limited"}},
		},
	}
}

func categoryValueSchema() Schema {
	return Schema{
		Name:    "category_value",
		Version: "1",
		Fields: map[string]FieldSchema{
			"cell_id":  {Type: FieldTypeString, Required: true},
			"category": {Type: FieldTypeString, Required: true},
			"v":        {Type: FieldTypeFloat, Required: true, MinValue: ptr(0)},
			"s":        {Type: FieldTypeFloat, Required: true, MinValue: ptr(0), MaxValue: ptr(100)},
			"s_hat":    {Type: FieldTypeFloat, Required: true, MinValue: ptr(0), MaxValue: ptr(100)},
		},
	}
}

func subscoresRawSchema() Schema {
	return Schema{
		Name:    "subscores_raw",
		Version: "1",
		Fields: map[string]FieldSchema{
			"cell_id": {Type: FieldTypeString, Required: true, Unique: true},
			"ea":      {Type: FieldTypeFloat, Required: true, Nullable: true, MinValue: ptr(0)},
			"lca":     {Type: FieldTypeFloat, Required: true, Nullable: true, MinValue: ptr(0)},
			"muhaa":   {Type: FieldTypeFloat, Required: true, Nullable: true, MinValue: ptr(0)},
			"jea":     {Type: FieldTypeFloat, Required: true, Nullable: true, MinValue: ptr(0)},
			"morr":    {Type: FieldTypeFloat, Required: true, Nullable: true, MinValue: ptr(0), MaxValue: ptr(100)},
			"cte":     {Type: FieldTypeFloat, Required: true, Nullable: true, MinValue: ptr(0)},
			"sou":     {Type: FieldTypeFloat, Required: true, Nullable: true, MinValue: ptr(0), MaxValue: ptr(100)},
			"metro":   {Type: FieldTypeString, Required: true},
		},
	}
}

func aucsSchema() Schema {
	return Schema{
		Name:    "aucs",
		Version: "1",
		Fields: map[string]FieldSchema{
			"cell_id":    {Type: FieldTypeString, Required: true, Unique: true},
			"aucs":       {Type: FieldTypeFloat, Required: true, Nullable: true, MinValue: ptr(0), MaxValue: ptr(100)},
			"ea":         {Type: FieldTypeFloat, Required: true, Nullable: true, MinValue: ptr(0), MaxValue: ptr(100)},
			"lca":        {Type: FieldTypeFloat, Required: true, Nullable: true, MinValue: ptr(0), MaxValue: ptr(100)},
			"muhaa":      {Type: FieldTypeFloat, Required: true, Nullable: true, MinValue: ptr(0), MaxValue: ptr(100)},
			"jea":        {Type: FieldTypeFloat, Required: true, Nullable: true, MinValue: ptr(0), MaxValue: ptr(100)},
			"morr":       {Type: FieldTypeFloat, Required: true, Nullable: true, MinValue: ptr(0), MaxValue: ptr(100)},
			"cte":        {Type: FieldTypeFloat, Required: true, Nullable: true, MinValue: ptr(0), MaxValue: ptr(100)},
			"sou":        {Type: FieldTypeFloat, Required: true, Nullable: true, MinValue: ptr(0), MaxValue: ptr(100)},
			"metro":      {Type: FieldTypeString, Required: true},
			"param_hash": {Type: FieldTypeString, Required: true},
		},
	}
}

func explainabilitySchema() Schema {
	return Schema{
		Name:    "explainability",
		Version: "1",
		Fields: map[string]FieldSchema{
			"cell_id":      {Type: FieldTypeString, Required: true},
			"subscore":     {Type: FieldTypeString, Required: true, Enum: []string{"EA", "LCA", "MUHAA", "JEA", "MORR", "CTE", "SOU"}},
			"rank":         {Type: FieldTypeInteger, Required: true, MinValue: ptr(1)},
			"amenity_id":   {Type: FieldTypeString, Required: false, Nullable: true},
			"category":     {Type: FieldTypeString, Required: false, Nullable: true},
			"mode":         {Type: FieldTypeString, Required: false, Nullable: true, Enum: []string{"walk", "bike", "car", "transit"}},
			"time_slice":   {Type: FieldTypeString, Required: false, Nullable: true},
			"contribution": {Type: FieldTypeFloat, Required: true, MinValue: ptr(0)},
		},
	}
}
