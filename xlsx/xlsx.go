package xlsx

import (
	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"

	"github.com/aerissecure/rfpconvert/workbook"
)

// Helper to extract the underlying cell format XML struct from a style ID
func GetCellXf(ss spreadsheet.StyleSheet, styleID uint32) *sml.CT_Xf {
	if ss.X().CellXfs == nil || int(styleID) >= len(ss.X().CellXfs.Xf) {
		return nil
	}
	return ss.X().CellXfs.Xf[styleID]
}

// Helper to extract the named cell style a cell format inherits from
func GetCellStyle(ss spreadsheet.StyleSheet, styleID uint32) *sml.CT_CellStyle {
	xf := GetCellXf(ss, styleID)
	if xf == nil || xf.XfIdAttr == nil || ss.X().CellStyles == nil {
		return nil
	}
	for _, cs := range ss.X().CellStyles.CellStyle {
		if cs.XfIdAttr == *xf.XfIdAttr {
			return cs
		}
	}
	return nil
}

// StyleName resolves the name of the cell style applied to cells with the
// given style ID. Built-in styles are reported by their English name even
// when the file carries a translated one, except when the translation is
// the only name stored.
func StyleName(ss spreadsheet.StyleSheet, styleID uint32) string {
	cs := GetCellStyle(ss, styleID)
	if cs == nil {
		return ""
	}
	if cs.BuiltinIdAttr != nil && *cs.BuiltinIdAttr <= 0xFF {
		if name := workbook.BuiltinStyle(uint8(*cs.BuiltinIdAttr)); name != "" {
			return name
		}
	}
	if cs.NameAttr != nil {
		return *cs.NameAttr
	}
	return ""
}
