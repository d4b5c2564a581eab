package extract

import "testing"

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		inferredYear string
		want         string
	}{
		{"two digit year", "31.10.22", "", "2022-10-31"},
		{"four digit year", "05.01.2023", "", "2023-01-05"},
		{"year elided with inferred year", "12.03.", "2022", "2022-03-12"},
		{"year elided without inferred year", "12.03.", "", "12.03."},
		{"unrecognized shape passes through", "2023-01-05", "", "2023-01-05"},
		{"garbage passes through", "Gutschrift", "2022", "Gutschrift"},
		{"empty passes through", "", "2022", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDate(tt.input, tt.inferredYear); got != tt.want {
				t.Errorf("NormalizeDate(%q, %q) = %q, want %q", tt.input, tt.inferredYear, got, tt.want)
			}
		})
	}
}

func TestInferYear(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"four digit year", "Kontoauszug vom 31.03.2022 bis 30.04.2022", "2022"},
		{"two digit year expanded", "Stand 01.12.23", "2023"},
		{"first token wins", "vom 15.01.2021 bis 15.02.2022", "2021"},
		{"no dated token", "Kontoauszug Nr. 3", ""},
		{"year elided token does not count", "Buchung 12.03. Gutschrift", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferYear(tt.text); got != tt.want {
				t.Errorf("InferYear(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
