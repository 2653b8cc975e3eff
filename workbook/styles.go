package workbook

// builtinStyles maps the built-in style identifier shared by BIFF8 STYLE
// records and SpreadsheetML cellStyle/@builtinId to the name Excel shows.
// Localized installs may instead store user-defined styles with translated
// names, e.g. "Заголовок 1".
var builtinStyles = map[uint8]string{
	0x00: "Normal",
	0x01: "RowLevel",
	0x02: "ColLevel",
	0x03: "Comma",
	0x04: "Currency",
	0x05: "Percent",
	0x06: "Comma [0]",
	0x07: "Currency [0]",
	0x08: "Hyperlink",
	0x09: "Followed Hyperlink",
	0x0A: "Note",
	0x0B: "Warning Text",
	0x0F: "Title",
	0x10: "Heading 1",
	0x11: "Heading 2",
	0x12: "Heading 3",
	0x13: "Heading 4",
	0x14: "Input",
	0x15: "Output",
	0x16: "Calculation",
	0x17: "Check Cell",
	0x18: "Linked Cell",
	0x19: "Total",
	0x1A: "Good",
	0x1B: "Bad",
	0x1C: "Neutral",
	0x1D: "Accent1",
	0x21: "Accent2",
	0x25: "Accent3",
	0x29: "Accent4",
	0x2D: "Accent5",
	0x31: "Accent6",
	0x35: "Explanatory Text",
}

// BuiltinStyle returns the English name of a built-in cell style, or "" for
// identifiers without a fixed name.
func BuiltinStyle(id uint8) string {
	return builtinStyles[id]
}
