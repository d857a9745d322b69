package ingest

import (
	"inmoscan/internal/models"
	"inmoscan/internal/normalize"
	"inmoscan/internal/pkg/catastro"
	"inmoscan/internal/pkg/spreadsheet"
)

// Export column names of the auction portal spreadsheet.
const (
	ColIdentifier         = "informacion_general_identificador"
	ColStartDate          = "informacion_general_fecha_de_inicio"
	ColConclusionDate     = "informacion_general_fecha_de_conclusion"
	ColAuctionType        = "informacion_general_tipo_de_subasta"
	ColAuctionState       = "informacion_general_estado"
	ColAuthorityDesc      = "autoridad_gestora_descripcion"
	ColAuthorityCode      = "autoridad_gestora_codigo"
	ColAssetType          = "bienes_tipo"
	ColAssetDescription   = "bienes_descripcion"
	ColAssetProvince      = "bienes_provincia"
	ColAssetLocality      = "bienes_localidad"
	ColAuctionValue       = "informacion_general_valor_subasta"
	ColAppraisalValue     = "informacion_general_tasacion"
	ColMinimumBid         = "informacion_general_puja_minima"
	ColHighestBid         = "pujas_puja_maxima"
	ColLots               = "informacion_general_lotes"
	ColCadastralReference = "bienes_referencia_catastral"
)

// Columns lists every column the pipeline reads.
var Columns = []string{
	ColIdentifier,
	ColStartDate,
	ColConclusionDate,
	ColAuctionType,
	ColAuctionState,
	ColAuthorityDesc,
	ColAuthorityCode,
	ColAssetType,
	ColAssetDescription,
	ColAssetProvince,
	ColAssetLocality,
	ColAuctionValue,
	ColAppraisalValue,
	ColMinimumBid,
	ColHighestBid,
	ColLots,
	ColCadastralReference,
}

// AuctionRow is a spreadsheet row after per-column normalization.
type AuctionRow struct {
	Index int

	Identifier         string
	PublicationDate    *string
	ConclusionDate     *string
	AuctionType        string
	AuctionState       string
	AuthorityType      string
	Authority          string
	AssetType          string
	AssetSubtype       string
	Province           string
	Locality           string
	AuctionValue       *float64
	AppraisalValue     *float64
	MinimumBid         *float64
	CurrentBid         *float64
	Lots               *int
	CadastralReference string
}

// ParseRow applies the column policy: dates through ParseDate, amounts
// through ParseNumeric, the lot count through ParseInt, everything else
// through Text. Missing columns read as empty cells.
func ParseRow(row spreadsheet.Row) AuctionRow {
	return AuctionRow{
		Index:              row.Index,
		Identifier:         normalize.Text(row.Get(ColIdentifier)),
		PublicationDate:    normalize.ParseDate(row.Get(ColStartDate)),
		ConclusionDate:     normalize.ParseDate(row.Get(ColConclusionDate)),
		AuctionType:        normalize.Text(row.Get(ColAuctionType)),
		AuctionState:       normalize.Text(row.Get(ColAuctionState)),
		AuthorityType:      normalize.Text(row.Get(ColAuthorityDesc)),
		Authority:          normalize.Text(row.Get(ColAuthorityCode)),
		AssetType:          normalize.Text(row.Get(ColAssetType)),
		AssetSubtype:       normalize.Text(row.Get(ColAssetDescription)),
		Province:           normalize.Text(row.Get(ColAssetProvince)),
		Locality:           normalize.Text(row.Get(ColAssetLocality)),
		AuctionValue:       normalize.ParseNumeric(row.Get(ColAuctionValue)),
		AppraisalValue:     normalize.ParseNumeric(row.Get(ColAppraisalValue)),
		MinimumBid:         normalize.ParseNumeric(row.Get(ColMinimumBid)),
		CurrentBid:         normalize.ParseNumeric(row.Get(ColHighestBid)),
		Lots:               normalize.ParseInt(row.Get(ColLots)),
		CadastralReference: normalize.Text(row.Get(ColCadastralReference)),
	}
}

// Auction merges the normalized row with its cadastral record.
func (r AuctionRow) Auction(c catastro.Record) models.Auction {
	return models.Auction{
		Referencia:       r.Identifier,
		FechaPublicacion: r.PublicationDate,
		FechaConclusion:  r.ConclusionDate,
		TipoSubasta:      r.AuctionType,
		EstadoSubasta:    r.AuctionState,
		TipoEntidad:      r.AuthorityType,
		Entidad:          r.Authority,
		TipoBien:         r.AssetType,
		SubtipoBien:      r.AssetSubtype,
		Provincia:        r.Province,
		Poblacion:        r.Locality,
		ValorSubasta:     r.AuctionValue,
		ValorTasacion:    r.AppraisalValue,
		PujaMinima:       r.MinimumBid,
		PujaActual:       r.CurrentBid,
		NumeroLotes:      r.Lots,

		CatastralReference: r.CadastralReference,
		CatastralClass:     c.Class,
		CatastralYear:      c.Year,
		CatastralArea:      c.Area,
		CatastralFloor:     c.Floor,
		CatastralLocation:  c.Location,
		CatastralProvince:  c.Province,
		CatastralCity:      c.City,
		CatastralDistrict:  c.District,
	}
}

// MissingColumns returns the pipeline columns absent from sheet's header.
func MissingColumns(sheet *spreadsheet.Sheet) []string {
	missing := []string{}
	for _, col := range Columns {
		if !sheet.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}
