package billing

import "testing"

func TestUnitAmount(t *testing.T) {
	tests := []struct {
		price   string
		isFree  bool
		want    int64
		wantErr bool
	}{
		{price: "20", isFree: false, want: 2000},
		{price: "19.99", isFree: false, want: 1999},
		{price: "0", isFree: false, want: 0},
		{price: "20", isFree: true, want: 0},
		{price: "", isFree: true, want: 0},
		// a paid event with an unparsable price must abort the checkout,
		// never charge zero
		{price: "$20", isFree: false, wantErr: true},
		{price: "not-a-number", isFree: false, wantErr: true},
		{price: "", isFree: false, wantErr: true},
	}

	for _, tt := range tests {
		got, err := UnitAmount(tt.price, tt.isFree)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("UnitAmount(%q, %v) = %d, want error", tt.price, tt.isFree, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("UnitAmount(%q, %v) returned error: %v", tt.price, tt.isFree, err)
		}
		if got != tt.want {
			t.Fatalf("UnitAmount(%q, %v) = %d, want %d", tt.price, tt.isFree, got, tt.want)
		}
	}
}

func TestMajorUnits(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{amount: 2000, want: "20"},
		{amount: 2050, want: "20.5"},
		{amount: 1999, want: "19.99"},
		{amount: 0, want: "0"},
		{amount: 5, want: "0.05"},
	}

	for _, tt := range tests {
		if got := MajorUnits(tt.amount); got != tt.want {
			t.Fatalf("MajorUnits(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}
