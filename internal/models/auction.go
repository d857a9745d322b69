package models

// Auction is one enriched auction listing in the subastas table.
// Nullable source fields are pointers; cadastral fields hold "N/A" when
// the registry lookup could not resolve them.
type Auction struct {
	ID               uint     `gorm:"primaryKey" json:"id"`
	Referencia       string   `json:"referencia"`
	FechaPublicacion *string  `json:"fecha_publicacion"`
	FechaConclusion  *string  `json:"fecha_conclusion"`
	TipoSubasta      string   `json:"tipo_subasta"`
	EstadoSubasta    string   `json:"estado_subasta"`
	TipoEntidad      string   `json:"tipo_entidad"`
	Entidad          string   `json:"entidad"`
	TipoBien         string   `json:"tipo_bien"`
	SubtipoBien      string   `json:"subtipo_bien"`
	Provincia        string   `json:"provincia"`
	Poblacion        string   `json:"poblacion"`
	ValorSubasta     *float64 `json:"valor_subasta"`
	ValorTasacion    *float64 `json:"valor_tasacion"`
	PujaMinima       *float64 `json:"puja_minima"`
	PujaActual       *float64 `json:"puja_actual"`
	NumeroLotes      *int     `json:"numero_lotes"`

	CatastralReference string `gorm:"column:catastral_reference" json:"catastral_reference"`
	CatastralClass     string `gorm:"column:catastral_class" json:"catastral_class"`
	CatastralYear      string `gorm:"column:catastral_year" json:"catastral_year"`
	CatastralArea      string `gorm:"column:catastral_area" json:"catastral_area"`
	CatastralFloor     string `gorm:"column:catastral_floor" json:"catastral_floor"`
	CatastralLocation  string `gorm:"column:catastral_location" json:"catastral_location"`
	CatastralProvince  string `gorm:"column:catastral_province" json:"catastral_province"`
	CatastralCity      string `gorm:"column:catastral_city" json:"catastral_city"`
	CatastralDistrict  string `gorm:"column:catastral_district" json:"catastral_district"`
}

// AuctionsTable is the dataset replaced on every ingestion run.
const AuctionsTable = "subastas"

func (Auction) TableName() string {
	return AuctionsTable
}
