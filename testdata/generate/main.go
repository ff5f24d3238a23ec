// Command generate writes deterministic sample MEPS clearing files under
// testdata/samples: valid files in both detail layouts plus corrupted
// variants for exercising the failure paths.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const headerLine = "0MEPS0000003500000029MEPS0000123MEPS0000122   10294978023EDST0000123"

func main() {
	rng := rand.New(rand.NewSource(42))
	dir := filepath.Join(findTestdataDir(), "samples")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir %s: %v\n", dir, err)
		os.Exit(1)
	}

	base := time.Date(2024, 10, 27, 1, 0, 0, 0, time.UTC)

	type sample struct {
		name  string
		lines []string
	}

	v1Lines, v1Amount, v1Fees := details(rng, base, 25, false)
	v2Lines, v2Amount, v2Fees := details(rng, base, 25, true)
	mixLines, mixAmount, mixFees := details(rng, base, 40, rng.Intn(2) == 0)

	samples := []sample{
		{"valid_v1.meps", file(v1Lines, len(v1Lines), v1Amount, v1Fees)},
		{"valid_v2.meps", file(v2Lines, len(v2Lines), v2Amount, v2Fees)},
		{"valid_mixed.meps", file(mixLines, len(mixLines), mixAmount, mixFees)},
		{"empty_window.meps", file(nil, 0, 0, 0)},
		// Trailer claims one cent more than the details sum to.
		{"bad_amount.meps", file(v1Lines, len(v1Lines), v1Amount+1, v1Fees)},
		// Trailer line deleted.
		{"missing_trailer.meps", append([]string{headerLine}, v1Lines...)},
		// Last detail cut mid-field.
		{"truncated_detail.meps", truncated(v1Lines, v1Amount, v1Fees)},
	}

	for _, s := range samples {
		path := filepath.Join(dir, s.name)
		body := strings.Join(s.lines, "\n") + "\n"
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s (%d lines)\n", path, len(s.lines))
	}
}

// details builds n detail lines with random amounts, returning the lines and
// the exact cent sums the trailer must assert.
func details(rng *rand.Rand, base time.Time, n int, v2 bool) (lines []string, amountCents, feeCents int64) {
	for i := 1; i <= n; i++ {
		amount := int64(rng.Intn(500000) + 100) // 1.00 .. 5001.00
		fee := int64(rng.Intn(500) + 5)         // 0.05 .. 5.05
		ts := base.Add(time.Duration(rng.Intn(3600)) * time.Second)

		lines = append(lines, detail(i, ts, amount, fee, v2))
		amountCents += amount
		feeCents += fee
	}
	return lines, amountCents, feeCents
}

func detail(seq int, ts time.Time, amountCents, feeCents int64, v2 bool) string {
	fee := fmt.Sprintf("%05d", feeCents)
	if v2 {
		fee = fmt.Sprintf("%010d", feeCents)
	}
	return "2" + "03" +
		fmt.Sprintf("%04d", seq%10000) +
		fmt.Sprintf("%08d", seq) +
		ts.Format("20060102150405") +
		fmt.Sprintf("%010d", amountCents) +
		fee +
		"M" +
		fmt.Sprintf("TRM%07d", seq%5+1) +
		fmt.Sprintf("%05d", seq) +
		fmt.Sprintf("%-15s", "LISBOA") +
		fmt.Sprintf("%09d", 100000000+seq) +
		"O" + "0" +
		fmt.Sprintf("MSG%09d", seq)
}

func trailer(totreg int, amountCents, feeCents int64) string {
	vat := feeCents * 23 / 100
	return "9" + fmt.Sprintf("%08d", totreg) +
		fmt.Sprintf("%016d", amountCents) +
		fmt.Sprintf("%012d", feeCents) +
		fmt.Sprintf("%012d", vat)
}

func file(detailLines []string, totreg int, amountCents, feeCents int64) []string {
	lines := append([]string{headerLine}, detailLines...)
	return append(lines, trailer(totreg, amountCents, feeCents))
}

func truncated(detailLines []string, amountCents, feeCents int64) []string {
	lines := file(detailLines, len(detailLines), amountCents, feeCents)
	last := len(lines) - 2
	lines[last] = lines[last][:47]
	return lines
}

// findTestdataDir locates the testdata directory whether the generator runs
// from the repo root or from its own directory.
func findTestdataDir() string {
	candidates := []string{"testdata", ".", filepath.Join("..", "..")}
	for _, c := range candidates {
		if info, err := os.Stat(filepath.Join(c, "generate")); err == nil && info.IsDir() {
			return c
		}
	}
	return "testdata"
}
