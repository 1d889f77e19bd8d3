package models

// Record is one row of an ingested spreadsheet, keyed by column header.
// Values are whatever the decoder produced; the backend owns validation
// of record shape, so nothing here inspects them.
type Record map[string]any

// Sheet is one worksheet of a decoded spreadsheet file.
type Sheet struct {
	Name    string
	Records []Record
}
