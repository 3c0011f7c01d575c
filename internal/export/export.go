package export

// Company is the business identity printed in the header of every export.
type Company struct {
	Name    string
	Address string
	Phone   string
}

// MIME types and filename patterns for the two export endpoints.
const (
	ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	PDFContentType   = "application/pdf"

	ExcelFilenameFormat = "invoice_%s.xlsx"
	PDFFilenameFormat   = "invoice_%s.pdf"
)
