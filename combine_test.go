package tradeledger

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestCombine(t *testing.T) {
	testCases := []struct {
		name string
		rows []Row
		opts CombineOptions
		want []Trade
	}{
		{
			name: "empty",
			rows: nil,
			want: nil,
		},
		{
			name: "single row is rounded",
			rows: []Row{row("2024-03-01 10:00:00", "AAPL", Buy, "1", "10.123456", "10.123")},
			want: []Trade{trade("2024-03-01 10:00:00", "AAPL", Buy, "1", "10.1235", "10.12")},
		},
		{
			name: "partial fills within the gap",
			rows: []Row{
				row("2024-03-01 10:00:00", "AAPL", Buy, "1", "10", "10"),
				row("2024-03-01 10:02:00", "AAPL", Buy, "2", "11", "22"),
			},
			want: []Trade{trade("2024-03-01 10:00:00", "AAPL", Buy, "3", "10.6667", "32")},
		},
		{
			name: "fills beyond the gap",
			rows: []Row{
				row("2024-03-01 10:00:00", "AAPL", Buy, "1", "10", "10"),
				row("2024-03-01 10:10:00", "AAPL", Buy, "2", "11", "22"),
			},
			want: []Trade{
				trade("2024-03-01 10:00:00", "AAPL", Buy, "1", "10", "10"),
				trade("2024-03-01 10:10:00", "AAPL", Buy, "2", "11", "22"),
			},
		},
		{
			name: "gap is inclusive",
			rows: []Row{
				row("2024-03-01 10:00:00", "AAPL", Buy, "1", "10", "10"),
				row("2024-03-01 10:05:00", "AAPL", Buy, "1", "10", "10"),
			},
			want: []Trade{trade("2024-03-01 10:00:00", "AAPL", Buy, "2", "10", "20")},
		},
		{
			name: "action change splits",
			rows: []Row{
				row("2024-03-01 10:00:00", "AAPL", Buy, "1", "10", "10"),
				row("2024-03-01 10:01:00", "AAPL", Sell, "1", "10", "10"),
				row("2024-03-01 10:02:00", "AAPL", Buy, "1", "10", "10"),
			},
			want: []Trade{
				trade("2024-03-01 10:00:00", "AAPL", Buy, "1", "10", "10"),
				trade("2024-03-01 10:01:00", "AAPL", Sell, "1", "10", "10"),
				trade("2024-03-01 10:02:00", "AAPL", Buy, "1", "10", "10"),
			},
		},
		{
			name: "ticker change splits",
			rows: []Row{
				row("2024-03-01 10:00:00", "AAPL", Buy, "1", "10", "10"),
				row("2024-03-01 10:01:00", "MSFT", Buy, "1", "400", "400"),
			},
			want: []Trade{
				trade("2024-03-01 10:00:00", "AAPL", Buy, "1", "10", "10"),
				trade("2024-03-01 10:01:00", "MSFT", Buy, "1", "400", "400"),
			},
		},
		{
			name: "previous anchor chains",
			rows: []Row{
				row("2024-03-01 10:00:00", "AAPL", Buy, "1", "10", "10"),
				row("2024-03-01 10:04:00", "AAPL", Buy, "1", "10", "10"),
				row("2024-03-01 10:08:00", "AAPL", Buy, "1", "10", "10"),
			},
			want: []Trade{trade("2024-03-01 10:00:00", "AAPL", Buy, "3", "10", "30")},
		},
		{
			name: "first anchor does not chain",
			rows: []Row{
				row("2024-03-01 10:00:00", "AAPL", Buy, "1", "10", "10"),
				row("2024-03-01 10:04:00", "AAPL", Buy, "1", "10", "10"),
				row("2024-03-01 10:08:00", "AAPL", Buy, "1", "10", "10"),
			},
			opts: CombineOptions{Anchor: AnchorFirst},
			want: []Trade{
				trade("2024-03-01 10:00:00", "AAPL", Buy, "2", "10", "20"),
				trade("2024-03-01 10:08:00", "AAPL", Buy, "1", "10", "10"),
			},
		},
		{
			name: "custom gap",
			rows: []Row{
				row("2024-03-01 10:00:00", "AAPL", Buy, "1", "10", "10"),
				row("2024-03-01 10:02:00", "AAPL", Buy, "1", "10", "10"),
			},
			opts: CombineOptions{Gap: time.Minute},
			want: []Trade{
				trade("2024-03-01 10:00:00", "AAPL", Buy, "1", "10", "10"),
				trade("2024-03-01 10:02:00", "AAPL", Buy, "1", "10", "10"),
			},
		},
		{
			name: "zero quantity",
			rows: []Row{
				row("2024-03-01 10:00:00", "AAPL", Buy, "0", "10", "0"),
				row("2024-03-01 10:01:00", "AAPL", Buy, "0", "11", "0"),
			},
			want: []Trade{trade("2024-03-01 10:00:00", "AAPL", Buy, "0", "0", "0")},
		},
		{
			name: "fractional shares",
			rows: []Row{
				row("2024-03-01 10:00:00", "AAPL", Buy, "0.5", "180.25", "90.125"),
				row("2024-03-01 10:00:30", "AAPL", Buy, "0.25", "180.5", "45.125"),
			},
			want: []Trade{trade("2024-03-01 10:00:00", "AAPL", Buy, "0.75", "180.3333", "135.25")},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Combine(tc.rows, tc.opts)
			if diff := cmp.Diff(tc.want, got, decimalEqual); diff != "" {
				t.Errorf("Combine() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCombine_Invariants(t *testing.T) {
	rows := PrepareRows([]Row{
		row("2024-03-01 10:07:00", "AAPL", Buy, "1", "10", "10"),
		row("2024-03-01 10:00:00", "AAPL", Buy, "1", "10", "10"),
		row("2024-03-01 10:03:00", "MSFT", Buy, "2", "400", "800"),
		row("2024-03-01 10:04:00", "AAPL", Sell, "1", "12", "12"),
		row("2024-03-01 10:30:00", "AAPL", Buy, "3.5", "11", "38.5"),
	})
	trades := Combine(rows, CombineOptions{})

	quantity, total := S("0"), S("0")
	for _, r := range rows {
		quantity = quantity.Add(r.Quantity)
		total = total.Add(r.Total)
	}
	gotQuantity, gotTotal := S("0"), S("0")
	for i, tr := range trades {
		gotQuantity = gotQuantity.Add(tr.Quantity)
		gotTotal = gotTotal.Add(tr.Total)
		if i > 0 && tr.Time.Before(trades[i-1].Time) {
			t.Errorf("trade %d is before trade %d", i, i-1)
		}
	}
	if !quantity.Equal(gotQuantity) {
		t.Errorf("quantity not conserved: rows %s, trades %s", quantity, gotQuantity)
	}
	if !total.Equal(gotTotal) {
		t.Errorf("total not conserved: rows %s, trades %s", total, gotTotal)
	}
	if len(trades) != 5 {
		t.Errorf("got %d trades, want 5", len(trades))
	}
}

func TestPrepareRows(t *testing.T) {
	a := row("2024-03-01 10:00:00", "AAPL", Buy, "1", "10", "10")
	b := row("2024-03-01 10:00:00", "AAPL", Buy, "2", "11", "22")
	c := row("2024-03-01 09:00:00", "MSFT", Sell, "1", "400", "400")
	withID := a
	withID.ID = "EOF1"

	got := PrepareRows([]Row{b, a, c, a, withID, b})
	want := []Row{c, a, b, withID}
	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Errorf("PrepareRows() mismatch (-want +got):\n%s", diff)
	}

	// Grouping does not depend on the order rows were read in.
	shuffled := PrepareRows([]Row{withID, b, c, a})
	if diff := cmp.Diff(Combine(got, CombineOptions{}), Combine(shuffled, CombineOptions{}), decimalEqual); diff != "" {
		t.Errorf("Combine() depends on input order (-first +second):\n%s", diff)
	}
}

func TestMaterial(t *testing.T) {
	trades := []Trade{
		trade("2024-03-01 10:00:00", "AAPL", Buy, "25", "10", "250"),
		trade("2024-03-01 11:00:00", "AAPL", Buy, "30", "10", "300"),
		trade("2024-03-01 12:00:00", "AAPL", Sell, "1", "300.01", "300.01"),
	}
	got := Material(trades, D(DefaultMinTotal))
	want := trades[1:]
	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Errorf("Material() mismatch (-want +got):\n%s", diff)
	}
}
