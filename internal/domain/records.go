package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record type tags as they appear in the first column of every MEPS line.
const (
	TagHeader  = "0"
	TagDetail  = "2"
	TagTrailer = "9"
)

// Detail layout versions. The two layouts carry the same logical fields;
// version 2 widens the fee field from 5 to 10 digits, shifting everything
// after it by 5 positions.
const (
	DetailV1 = 1
	DetailV2 = 2
)

// HeaderRecord is the single type-0 record opening a MEPS clearing file.
type HeaderRecord struct {
	TipReg     string          `json:"tipreg"`
	Fich       string          `json:"fich"`
	IDInstOri  string          `json:"idinstori"`
	IDInstDes  string          `json:"idinstdes"`
	IDFich     string          `json:"idfich"`
	IDFichAnt  string          `json:"idfichant"`
	Entidade   string          `json:"entidade"`
	CodMoeda   string          `json:"codmoeda"`
	TaxaIVA    decimal.Decimal `json:"taxaiva"`
	IDFichEDST string          `json:"idfichedst"`
}

// DetailRecord is one type-2 payment transaction. Version is derived from
// the line layout during decoding, not read from the wire.
type DetailRecord struct {
	TipReg     string          `json:"tipreg"`
	CodProc    string          `json:"codproc"`
	IDLog      string          `json:"idlog"`
	NrLog      string          `json:"nrlog"`
	DtHora     time.Time       `json:"dthora"`
	MontPgPS   decimal.Decimal `json:"montpgps"`
	TarifaPS   decimal.Decimal `json:"tarifaps"`
	TipoTerm   string          `json:"tipoterm"`
	IDTerminal string          `json:"idterminal"`
	IdenTranPS string          `json:"identranps"`
	LocMorTer  string          `json:"locmorter"`
	RefPag     string          `json:"refpag"`
	ModEnv     string          `json:"modenv"`
	CodResp    string          `json:"codresp"`
	NrIDRespS  string          `json:"nridresps"`
	Version    int             `json:"version"`
}

// TrailerRecord is the single type-9 record closing the file. Its totals are
// the producer's claims and are verified against the detail records, never
// trusted as-is.
type TrailerRecord struct {
	TipReg    string          `json:"tipreg"`
	TotReg    int             `json:"totreg"`
	MontranPS decimal.Decimal `json:"montranps"`
	TotTarPS  decimal.Decimal `json:"tottarps"`
	ValIVA    decimal.Decimal `json:"valiva"`
}

// ClearingFile is a fully parsed and validated MEPS file. It is only ever
// constructed whole; callers never see a partially populated value.
type ClearingFile struct {
	Header  HeaderRecord   `json:"header"`
	Details []DetailRecord `json:"details"`
	Trailer TrailerRecord  `json:"trailer"`
}
