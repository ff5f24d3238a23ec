package meps

import (
	"strings"

	"github.com/clearport/mepsfeed/internal/domain"
)

// v2MinTrimmedLen is the detail-version discriminator: a detail line whose
// right-trimmed length reaches the v2 layout's full span uses the 10-digit
// fee field, anything shorter uses the 5-digit v1 field.
const v2MinTrimmedLen = 103

func recordTag(line string) string {
	if line == "" {
		return ""
	}
	return line[0:1]
}

// DecodeHeader decodes a type-0 header line. Decoding is stateless; it can
// be called on any line in any order.
func DecodeHeader(line string) (*domain.HeaderRecord, error) {
	if tag := recordTag(line); tag != domain.TagHeader {
		return nil, &UnexpectedRecordTypeError{Expected: domain.TagHeader, Found: tag}
	}

	h := domain.HeaderRecord{TipReg: domain.TagHeader}
	var err error
	if h.Fich, err = decodeText(line, headerFields.fich); err != nil {
		return nil, err
	}
	if h.IDInstOri, err = decodeText(line, headerFields.idinstori); err != nil {
		return nil, err
	}
	if h.IDInstDes, err = decodeText(line, headerFields.idinstdes); err != nil {
		return nil, err
	}
	if h.IDFich, err = decodeText(line, headerFields.idfich); err != nil {
		return nil, err
	}
	if h.IDFichAnt, err = decodeText(line, headerFields.idfichant); err != nil {
		return nil, err
	}
	if h.Entidade, err = decodeText(line, headerFields.entidade); err != nil {
		return nil, err
	}
	if h.CodMoeda, err = decodeText(line, headerFields.codmoeda); err != nil {
		return nil, err
	}
	if h.TaxaIVA, err = decodeDecimal(line, headerFields.taxaiva); err != nil {
		return nil, err
	}
	if h.IDFichEDST, err = decodeText(line, headerFields.idfichedst); err != nil {
		return nil, err
	}
	return &h, nil
}

// DecodeDetail decodes a type-2 detail line, selecting the v1 or v2 layout
// from the line length. The chosen version is recorded on the result.
func DecodeDetail(line string) (*domain.DetailRecord, error) {
	if tag := recordTag(line); tag != domain.TagDetail {
		return nil, &UnexpectedRecordTypeError{Expected: domain.TagDetail, Found: tag}
	}

	layout := detailFieldsV1
	if len(strings.TrimRight(line, " \r\n")) >= v2MinTrimmedLen {
		layout = detailFieldsV2
	}

	d := domain.DetailRecord{TipReg: domain.TagDetail, Version: layout.version}
	var err error
	if d.CodProc, err = decodeText(line, layout.codproc); err != nil {
		return nil, err
	}
	if d.IDLog, err = decodeText(line, layout.idlog); err != nil {
		return nil, err
	}
	if d.NrLog, err = decodeText(line, layout.nrlog); err != nil {
		return nil, err
	}
	if d.DtHora, err = decodeTime(line, layout.dthora); err != nil {
		return nil, err
	}
	if d.MontPgPS, err = decodeDecimal(line, layout.montpgps); err != nil {
		return nil, err
	}
	if d.TarifaPS, err = decodeDecimal(line, layout.tarifaps); err != nil {
		return nil, err
	}
	if d.TipoTerm, err = decodeText(line, layout.tipoterm); err != nil {
		return nil, err
	}
	if d.IDTerminal, err = decodeText(line, layout.idterminal); err != nil {
		return nil, err
	}
	if d.IdenTranPS, err = decodeText(line, layout.identranps); err != nil {
		return nil, err
	}
	if d.LocMorTer, err = decodeText(line, layout.locmorter); err != nil {
		return nil, err
	}
	if d.RefPag, err = decodeText(line, layout.refpag); err != nil {
		return nil, err
	}
	if d.ModEnv, err = decodeText(line, layout.modenv); err != nil {
		return nil, err
	}
	if d.CodResp, err = decodeText(line, layout.codresp); err != nil {
		return nil, err
	}
	if d.NrIDRespS, err = decodeText(line, layout.nridresps); err != nil {
		return nil, err
	}
	return &d, nil
}

// DecodeTrailer decodes a type-9 trailer line.
func DecodeTrailer(line string) (*domain.TrailerRecord, error) {
	if tag := recordTag(line); tag != domain.TagTrailer {
		return nil, &UnexpectedRecordTypeError{Expected: domain.TagTrailer, Found: tag}
	}

	t := domain.TrailerRecord{TipReg: domain.TagTrailer}
	var err error
	if t.TotReg, err = decodeInt(line, trailerFields.totreg); err != nil {
		return nil, err
	}
	if t.MontranPS, err = decodeDecimal(line, trailerFields.montranps); err != nil {
		return nil, err
	}
	if t.TotTarPS, err = decodeDecimal(line, trailerFields.tottarps); err != nil {
		return nil, err
	}
	if t.ValIVA, err = decodeDecimal(line, trailerFields.valiva); err != nil {
		return nil, err
	}
	return &t, nil
}
