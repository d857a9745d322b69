package testhelpers

import (
	"bytes"

	"inmoscan/internal/models"

	g "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// CleanupDB creates subastas when missing and empties it.
func CleanupDB(db *gorm.DB) {
	err := db.AutoMigrate(&models.Auction{})
	g.Expect(err).NotTo(g.HaveOccurred())

	err = db.Exec("DELETE FROM " + models.AuctionsTable).Error
	g.Expect(err).NotTo(g.HaveOccurred(), "Failed to empty table: "+models.AuctionsTable)
}

// AuctionHeader is the column layout of the auction portal export.
var AuctionHeader = []string{
	"informacion_general_identificador",
	"informacion_general_fecha_de_inicio",
	"informacion_general_fecha_de_conclusion",
	"informacion_general_tipo_de_subasta",
	"informacion_general_estado",
	"autoridad_gestora_descripcion",
	"autoridad_gestora_codigo",
	"bienes_tipo",
	"bienes_descripcion",
	"bienes_provincia",
	"bienes_localidad",
	"informacion_general_valor_subasta",
	"informacion_general_tasacion",
	"informacion_general_puja_minima",
	"pujas_puja_maxima",
	"informacion_general_lotes",
	"bienes_referencia_catastral",
}

// AuctionCells returns one export row for identifier with the given
// cadastral reference, in AuctionHeader order.
func AuctionCells(identifier, reference string) []any {
	return []any{
		identifier,
		"2024-01-15 10:30:00",
		"2024-02-05",
		"JUDICIAL EN VIA DE APREMIO",
		"Celebrándose",
		"Juzgado",
		"3003000230",
		"Inmueble",
		"Vivienda",
		"Madrid",
		"Madrid",
		150000.5,
		180000,
		"",
		"nan",
		1,
		reference,
	}
}

// BuildWorkbook writes header and rows to the first sheet of a new xlsx.
func BuildWorkbook(header []string, rows ...[]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	headerCells := make([]any, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
