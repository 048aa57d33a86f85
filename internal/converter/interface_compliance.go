package converter

import (
	"sheetxml/internal/deployment"
	"sheetxml/internal/sheets"
	"sheetxml/internal/workbook"
)

// Compile-time interface compliance checks
// These will cause compilation errors if the types don't implement the interfaces

var (
	_ sheets.SheetsAPI  = (*sheets.Client)(nil)
	_ SpreadsheetSource = (*sheets.Client)(nil)
	_ SpreadsheetSource = (*workbook.Source)(nil)
	_ SpreadsheetTarget = (*sheets.Client)(nil)
	_ SpreadsheetTarget = (sheets.SheetsAPI)(nil)
	_ Publisher         = (*deployment.SSHDeployer)(nil)
)
