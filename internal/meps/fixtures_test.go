package meps

import "fmt"

// Line builders shared by the decode and parse tests. Widths follow the MEPS
// layout; amounts and fees are given in cents.

const testHeaderLine = "0MEPS0000003500000029MEPS0000123MEPS0000122   10294978023EDST0000123"

func detailLineV1(nrlog string, amountCents, feeCents int64) string {
	return "2" + "03" + "0001" + nrlog + "20241027011323" +
		fmt.Sprintf("%010d", amountCents) +
		fmt.Sprintf("%05d", feeCents) +
		"M" + "TRM0000001" + "00001" + "LISBOA         " + "123456789" + "O" + "0" + "MSG000000001"
}

func detailLineV2(nrlog string, amountCents, feeCents int64) string {
	return "2" + "03" + "0001" + nrlog + "20241027011323" +
		fmt.Sprintf("%010d", amountCents) +
		fmt.Sprintf("%010d", feeCents) +
		"M" + "TRM0000001" + "00001" + "LISBOA         " + "123456789" + "O" + "0" + "MSG000000001"
}

func trailerLine(totreg int, amountCents, feeCents, vatCents int64) string {
	return "9" + fmt.Sprintf("%08d", totreg) +
		fmt.Sprintf("%016d", amountCents) +
		fmt.Sprintf("%012d", feeCents) +
		fmt.Sprintf("%012d", vatCents)
}
