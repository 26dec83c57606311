package layout

// Result is the analysis output of the layout/OCR service: per-page text
// lines with geometry, typed field candidates for prebuilt models, and table
// cells. The core treats the service as a black box; any of these slices may
// be empty.
type Result struct {
	ModelID   string             `json:"model_id,omitempty"`
	Pages     []Page             `json:"pages,omitempty"`
	Documents []AnalyzedDocument `json:"documents,omitempty"`
	Tables    []Table            `json:"tables,omitempty"`
}

// Page holds the OCR lines of a single page plus its dimensions in the
// source unit (pixels or inches, whichever the service reports).
type Page struct {
	Number int     `json:"page_number"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Lines  []Line  `json:"lines,omitempty"`
}

// Line is one recognized text line. Polygon is a flat [x1,y1,x2,y2,...]
// vertex sequence; empty when the service returns no geometry.
type Line struct {
	Content string    `json:"content"`
	Polygon []float64 `json:"polygon,omitempty"`
}

// AnalyzedDocument carries the typed fields a prebuilt model recognized.
type AnalyzedDocument struct {
	DocType string                   `json:"doc_type,omitempty"`
	Fields  map[string]DocumentField `json:"fields,omitempty"`
}

// DocumentField is the service's polymorphic field value. Exactly one of the
// Value* members is normally set; Content is the raw text span fallback.
type DocumentField struct {
	ValueString   string                   `json:"value_string,omitempty"`
	ValueNumber   *float64                 `json:"value_number,omitempty"`
	ValueDate     string                   `json:"value_date,omitempty"`
	ValueCurrency *CurrencyValue           `json:"value_currency,omitempty"`
	ValueArray    []DocumentField          `json:"value_array,omitempty"`
	ValueObject   map[string]DocumentField `json:"value_object,omitempty"`
	Content       string                   `json:"content,omitempty"`
	Confidence    float64                  `json:"confidence"`
	Polygon       []float64                `json:"polygon,omitempty"`
	PageNumber    int                      `json:"page_number,omitempty"`
}

// CurrencyValue is an amount plus optional symbol, e.g. {"$", 105.00}.
type CurrencyValue struct {
	Symbol string  `json:"symbol,omitempty"`
	Amount float64 `json:"amount"`
}

// Table is a grid of recognized cells.
type Table struct {
	RowCount    int         `json:"row_count"`
	ColumnCount int         `json:"column_count"`
	Cells       []TableCell `json:"cells,omitempty"`
}

// TableCell is one cell of a recognized table.
type TableCell struct {
	RowIndex    int    `json:"row_index"`
	ColumnIndex int    `json:"column_index"`
	Content     string `json:"content"`
	Kind        string `json:"kind,omitempty"`
}
