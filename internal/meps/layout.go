package meps

// Field tables for the four record layouts. Offsets come from the MEPS
// interchange layout: header and trailer are single fixed layouts; the detail
// record exists in two versions that differ only in the width of the tarifaps
// field (5 digits in v1, 10 in v2), shifting every later field by 5.

type headerLayout struct {
	fich, idinstori, idinstdes, idfich, idfichant,
	entidade, codmoeda, taxaiva, idfichedst FieldSpec
}

var headerFields = headerLayout{
	fich:       FieldSpec{Name: "fich", Offset: 1, Length: 4, Kind: Text},
	idinstori:  FieldSpec{Name: "idinstori", Offset: 5, Length: 8, Kind: Text},
	idinstdes:  FieldSpec{Name: "idinstdes", Offset: 13, Length: 8, Kind: Text},
	idfich:     FieldSpec{Name: "idfich", Offset: 21, Length: 11, Kind: Text},
	idfichant:  FieldSpec{Name: "idfichant", Offset: 32, Length: 11, Kind: Text},
	entidade:   FieldSpec{Name: "entidade", Offset: 46, Length: 5, Kind: Text},
	codmoeda:   FieldSpec{Name: "codmoeda", Offset: 51, Length: 3, Kind: Text},
	taxaiva:    FieldSpec{Name: "taxaiva", Offset: 54, Length: 3, Kind: FixedDecimal, Scale: 0},
	idfichedst: FieldSpec{Name: "idfichedst", Offset: 57, Length: 11, Kind: Text},
}

type detailLayout struct {
	version int
	codproc, idlog, nrlog, dthora, montpgps, tarifaps, tipoterm,
	idterminal, identranps, locmorter, refpag, modenv, codresp, nridresps FieldSpec
}

var detailFieldsV1 = detailLayout{
	version:    1,
	codproc:    FieldSpec{Name: "codproc", Offset: 1, Length: 2, Kind: Text},
	idlog:      FieldSpec{Name: "idlog", Offset: 3, Length: 4, Kind: Text},
	nrlog:      FieldSpec{Name: "nrlog", Offset: 7, Length: 8, Kind: Text},
	dthora:     FieldSpec{Name: "dthora", Offset: 15, Length: 14, Kind: DateTime},
	montpgps:   FieldSpec{Name: "montpgps", Offset: 29, Length: 10, Kind: FixedDecimal, Scale: 2},
	tarifaps:   FieldSpec{Name: "tarifaps", Offset: 39, Length: 5, Kind: FixedDecimal, Scale: 2},
	tipoterm:   FieldSpec{Name: "tipoterm", Offset: 44, Length: 1, Kind: Text},
	idterminal: FieldSpec{Name: "idterminal", Offset: 45, Length: 10, Kind: Text},
	identranps: FieldSpec{Name: "identranps", Offset: 55, Length: 5, Kind: Text},
	locmorter:  FieldSpec{Name: "locmorter", Offset: 60, Length: 15, Kind: Text},
	refpag:     FieldSpec{Name: "refpag", Offset: 75, Length: 9, Kind: Text},
	modenv:     FieldSpec{Name: "modenv", Offset: 84, Length: 1, Kind: Text},
	codresp:    FieldSpec{Name: "codresp", Offset: 85, Length: 1, Kind: Text},
	nridresps:  FieldSpec{Name: "nridresps", Offset: 86, Length: 12, Kind: Text},
}

var detailFieldsV2 = detailLayout{
	version:    2,
	codproc:    FieldSpec{Name: "codproc", Offset: 1, Length: 2, Kind: Text},
	idlog:      FieldSpec{Name: "idlog", Offset: 3, Length: 4, Kind: Text},
	nrlog:      FieldSpec{Name: "nrlog", Offset: 7, Length: 8, Kind: Text},
	dthora:     FieldSpec{Name: "dthora", Offset: 15, Length: 14, Kind: DateTime},
	montpgps:   FieldSpec{Name: "montpgps", Offset: 29, Length: 10, Kind: FixedDecimal, Scale: 2},
	tarifaps:   FieldSpec{Name: "tarifaps", Offset: 39, Length: 10, Kind: FixedDecimal, Scale: 2},
	tipoterm:   FieldSpec{Name: "tipoterm", Offset: 49, Length: 1, Kind: Text},
	idterminal: FieldSpec{Name: "idterminal", Offset: 50, Length: 10, Kind: Text},
	identranps: FieldSpec{Name: "identranps", Offset: 60, Length: 5, Kind: Text},
	locmorter:  FieldSpec{Name: "locmorter", Offset: 65, Length: 15, Kind: Text},
	refpag:     FieldSpec{Name: "refpag", Offset: 80, Length: 9, Kind: Text},
	modenv:     FieldSpec{Name: "modenv", Offset: 89, Length: 1, Kind: Text},
	codresp:    FieldSpec{Name: "codresp", Offset: 90, Length: 1, Kind: Text},
	nridresps:  FieldSpec{Name: "nridresps", Offset: 91, Length: 12, Kind: Text},
}

type trailerLayout struct {
	totreg, montranps, tottarps, valiva FieldSpec
}

var trailerFields = trailerLayout{
	totreg:    FieldSpec{Name: "totreg", Offset: 1, Length: 8, Kind: Integer},
	montranps: FieldSpec{Name: "montranps", Offset: 9, Length: 16, Kind: FixedDecimal, Scale: 2},
	tottarps:  FieldSpec{Name: "tottarps", Offset: 25, Length: 12, Kind: FixedDecimal, Scale: 2},
	valiva:    FieldSpec{Name: "valiva", Offset: 37, Length: 12, Kind: FixedDecimal, Scale: 2},
}
