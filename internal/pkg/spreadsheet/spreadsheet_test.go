package spreadsheet_test

import (
	"bytes"
	"strings"
	"time"

	"inmoscan/internal/pkg/spreadsheet"
	"inmoscan/internal/testhelpers"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
)

var _ = Describe("Read", func() {
	Describe("xlsx", func() {
		It("reads the header and rows in order", func() {
			data, err := testhelpers.BuildWorkbook(
				[]string{"ID", " bienes_referencia_catastral ", "Lotes"},
				[]any{"SUB-1", "9872023VH5797S0001WX", 2},
				[]any{"SUB-2", "", 1.5},
			)
			Expect(err).NotTo(HaveOccurred())

			sheet, err := spreadsheet.Read("subastas.xlsx", bytes.NewReader(data))
			Expect(err).NotTo(HaveOccurred())

			Expect(sheet.Header).To(Equal([]string{"ID", "bienes_referencia_catastral", "Lotes"}))
			Expect(sheet.Rows).To(HaveLen(2))

			Expect(sheet.Rows[0].Index).To(Equal(1))
			Expect(sheet.Rows[0].Get("id")).To(Equal("SUB-1"))
			Expect(sheet.Rows[0].Get("BIENES_REFERENCIA_CATASTRAL")).To(Equal("9872023VH5797S0001WX"))
			Expect(sheet.Rows[0].Get("lotes")).To(Equal("2"))

			Expect(sheet.Rows[1].Index).To(Equal(2))
			Expect(sheet.Rows[1].Get("bienes_referencia_catastral")).To(Equal(""))
			Expect(sheet.Rows[1].Has("bienes_referencia_catastral")).To(BeTrue())
			Expect(sheet.Rows[1].Get("lotes")).To(Equal("1.5"))
		})

		It("renders date formatted cells as timestamps", func() {
			f := excelize.NewFile()
			sheet := f.GetSheetName(0)
			Expect(f.SetCellValue(sheet, "A1", "fecha")).To(Succeed())
			Expect(f.SetCellValue(sheet, "B1", "importe")).To(Succeed())
			Expect(f.SetCellValue(sheet, "A2", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC))).To(Succeed())
			Expect(f.SetCellValue(sheet, "B2", 45306.5)).To(Succeed())

			var buf bytes.Buffer
			Expect(f.Write(&buf)).To(Succeed())

			parsed, err := spreadsheet.Read("export.XLSX", &buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed.Rows).To(HaveLen(1))
			Expect(parsed.Rows[0].Get("fecha")).To(Equal("2024-01-15 10:30:00"))
			Expect(parsed.Rows[0].Get("importe")).To(Equal("45306.5"))
		})

		It("honours the 1904 date system", func() {
			f := excelize.NewFile()
			sheet := f.GetSheetName(0)
			date1904 := true
			Expect(f.SetWorkbookProps(&excelize.WorkbookPropsOptions{Date1904: &date1904})).To(Succeed())

			style, err := f.NewStyle(&excelize.Style{NumFmt: 22})
			Expect(err).NotTo(HaveOccurred())
			Expect(f.SetCellValue(sheet, "A1", "fecha")).To(Succeed())
			// 2024-01-15 10:30:00 counted from 1904-01-01
			Expect(f.SetCellValue(sheet, "A2", 43844.4375)).To(Succeed())
			Expect(f.SetCellStyle(sheet, "A2", "A2", style)).To(Succeed())

			var buf bytes.Buffer
			Expect(f.Write(&buf)).To(Succeed())

			parsed, err := spreadsheet.Read("mac.xlsx", &buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed.Rows[0].Get("fecha")).To(Equal("2024-01-15 10:30:00"))
		})

		It("fails on a corrupt workbook", func() {
			_, err := spreadsheet.Read("broken.xlsx", strings.NewReader("not a zip"))
			Expect(err).To(HaveOccurred())
		})

		It("fails on an empty sheet", func() {
			data, err := testhelpers.BuildWorkbook(nil)
			Expect(err).NotTo(HaveOccurred())

			_, err = spreadsheet.Read("empty.xlsx", bytes.NewReader(data))
			Expect(err).To(MatchError(spreadsheet.ErrNoHeader))
		})
	})

	Describe("csv", func() {
		It("detects semicolons and strips the BOM", func() {
			input := "\xEF\xBB\xBFid;valor\nA;1.5\n;\nB; 2 \n"

			sheet, err := spreadsheet.Read("export.csv", strings.NewReader(input))
			Expect(err).NotTo(HaveOccurred())
			Expect(sheet.Header).To(Equal([]string{"id", "valor"}))
			Expect(sheet.Rows).To(HaveLen(2))
			Expect(sheet.Rows[1].Index).To(Equal(2))
			Expect(sheet.Rows[1].Get("valor")).To(Equal("2"))
		})

		It("pads short records", func() {
			sheet, err := spreadsheet.Read("export.csv", strings.NewReader("a,b,c\n1,2\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(sheet.Rows[0].Get("c")).To(Equal(""))
			Expect(sheet.Rows[0].Has("c")).To(BeTrue())
			Expect(sheet.Rows[0].Has("d")).To(BeFalse())
		})
	})

	Describe("html", func() {
		It("reads the first table of an .xls export", func() {
			input := `<html><body>
				<p>Listado de subastas</p>
				<table>
					<tr><th>informacion_general_identificador</th><th>bienes_referencia_catastral</th></tr>
					<tr><td>SUB-JA-2024-1</td><td> 9872023VH5797S0001WX </td></tr>
					<tr><td>SUB-JA-2024-2</td><td><span>Local &amp; garaje</span></td></tr>
				</table>
				<table><tr><td>ignored</td></tr></table>
			</body></html>`

			sheet, err := spreadsheet.Read("listado.xls", strings.NewReader(input))
			Expect(err).NotTo(HaveOccurred())
			Expect(sheet.HasColumn("INFORMACION_GENERAL_IDENTIFICADOR")).To(BeTrue())
			Expect(sheet.Rows).To(HaveLen(2))
			Expect(sheet.Rows[0].Get("bienes_referencia_catastral")).To(Equal("9872023VH5797S0001WX"))
			Expect(sheet.Rows[1].Get("bienes_referencia_catastral")).To(Equal("Local & garaje"))
		})

		It("fails without a table", func() {
			_, err := spreadsheet.Read("listado.html", strings.NewReader("<p>nada</p>"))
			Expect(err).To(MatchError(spreadsheet.ErrNoTable))
		})
	})

	Describe("content detection", func() {
		var workbook []byte

		BeforeEach(func() {
			var err error
			workbook, err = testhelpers.BuildWorkbook([]string{"id"}, []any{"SUB-1"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("reads a workbook uploaded without extension", func() {
			sheet, err := spreadsheet.Read("subastas", bytes.NewReader(workbook))
			Expect(err).NotTo(HaveOccurred())
			Expect(sheet.Rows[0].Get("id")).To(Equal("SUB-1"))
		})

		It("reads an xlsx workbook named .xls", func() {
			sheet, err := spreadsheet.Read("subastas.xls", bytes.NewReader(workbook))
			Expect(err).NotTo(HaveOccurred())
			Expect(sheet.Rows[0].Get("id")).To(Equal("SUB-1"))
		})

		It("rejects Excel 97-2003 workbooks", func() {
			biff := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 504)...)

			_, err := spreadsheet.Read("subastas.xls", bytes.NewReader(biff))
			Expect(err).To(MatchError(spreadsheet.ErrUnsupportedFormat))
			Expect(err.Error()).To(ContainSubstring("save it as .xlsx"))
		})

		It("reads an html table uploaded without extension", func() {
			input := "\n  <table><tr><th>id</th></tr><tr><td>SUB-1</td></tr></table>"

			sheet, err := spreadsheet.Read("listado", strings.NewReader(input))
			Expect(err).NotTo(HaveOccurred())
			Expect(sheet.Rows[0].Get("id")).To(Equal("SUB-1"))
		})

		It("rejects unrecognised content without extension", func() {
			_, err := spreadsheet.Read("listado", strings.NewReader("id,valor\n1,2\n"))
			Expect(err).To(MatchError(spreadsheet.ErrUnsupportedFormat))
		})
	})

	It("rejects unknown extensions", func() {
		_, err := spreadsheet.Read("notes.pdf", strings.NewReader(""))
		Expect(err).To(MatchError(spreadsheet.ErrUnsupportedFormat))
	})
})
