package xls

// BIFF8 record identifiers, as listed in [MS-XLS] section 2.3. Only the records
// the reader interprets are named here; everything else is skipped by length.
const (
	recFormula    = 0x0006
	recEOF        = 0x000A
	recContinue   = 0x003C
	recBoundSheet = 0x0085
	recMulRK      = 0x00BD
	recMulBlank   = 0x00BE
	recRString    = 0x00D6
	recXF         = 0x00E0
	recSST        = 0x00FC
	recLabelSST   = 0x00FD
	recBlank      = 0x0201
	recNumber     = 0x0203
	recLabel      = 0x0204
	recBoolErr    = 0x0205
	recString     = 0x0207
	recRK         = 0x027E
	recStyle      = 0x0293
	recBOF        = 0x0809
)

// BOF substream types and the BIFF8 version stamp.
const (
	biff8Version   = 0x0600
	bofGlobals     = 0x0005
	bofWorksheet   = 0x0010
	sheetTypeWorks = 0x00
)

// errorNames maps BErr codes of BOOLERR and FORMULA results to their display text.
var errorNames = map[uint8]string{
	0x00: "#NULL!",
	0x07: "#DIV/0!",
	0x0F: "#VALUE!",
	0x17: "#REF!",
	0x1D: "#NAME?",
	0x24: "#NUM!",
	0x2A: "#N/A",
}
