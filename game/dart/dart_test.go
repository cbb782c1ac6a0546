package dart

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	parseTests := []struct {
		slot    string
		want    Throw
		wantOk  bool
		wantErr bool
	}{
		{
			slot: None,
		},
		{
			slot:   "1:1",
			want:   Throw{Multiplier: 1, Sector: 1},
			wantOk: true,
		},
		{
			slot:   "3:20",
			want:   Throw{Multiplier: 3, Sector: 20},
			wantOk: true,
		},
		{
			slot:   "2:19",
			want:   Throw{Multiplier: 2, Sector: 19},
			wantOk: true,
		},
		{
			slot:   "2:25",
			want:   Throw{Multiplier: 2, Sector: 25},
			wantOk: true,
		},
		{
			slot:   "1:25",
			want:   Throw{Multiplier: 1, Sector: 25},
			wantOk: true,
		},
		{
			slot:    "3:25",
			wantErr: true,
		},
		{
			slot:    "4:20",
			wantErr: true,
		},
		{
			slot:    "0:20",
			wantErr: true,
		},
		{
			slot:    "1:0",
			wantErr: true,
		},
		{
			slot:    "1:21",
			wantErr: true,
		},
		{
			slot:    "1:24",
			wantErr: true,
		},
		{
			slot:    "1:05",
			wantErr: true,
		},
		{
			slot:    "1:-5",
			wantErr: true,
		},
		{
			slot:    " 1:5",
			wantErr: true,
		},
		{
			slot:    "15",
			wantErr: true,
		},
		{
			slot:    "1:2:3",
			wantErr: true,
		},
		{
			slot:    "",
			wantErr: true,
		},
		{
			slot:    "NONE",
			wantErr: true,
		},
	}
	for i, test := range parseTests {
		got, ok, err := Parse(test.slot)
		switch {
		case test.wantErr:
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("Test %v: wanted %v for %q, got %v", i, ErrInvalidFormat, test.slot, err)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		case test.wantOk != ok:
			t.Errorf("Test %v: wanted ok=%v for %q", i, test.wantOk, test.slot)
		case test.want != got:
			t.Errorf("Test %v:\nwanted %v\ngot    %v", i, test.want, got)
		}
	}
}

func TestParseTurn(t *testing.T) {
	parseTurnTests := []struct {
		slots  [TurnSize]string
		want   []Throw
		wantOk bool
	}{
		{
			slots:  [TurnSize]string{"3:20", "3:20", "3:20"},
			want:   []Throw{{3, 20}, {3, 20}, {3, 20}},
			wantOk: true,
		},
		{
			slots:  [TurnSize]string{"2:20", None, None},
			want:   []Throw{{2, 20}},
			wantOk: true,
		},
		{
			slots:  [TurnSize]string{None, "1:5", "2:3"},
			want:   []Throw{{1, 5}, {2, 3}},
			wantOk: true,
		},
		{
			slots: [TurnSize]string{None, None, None},
		},
		{
			slots: [TurnSize]string{"2:20", "3:25", None},
		},
	}
	for i, test := range parseTurnTests {
		got, err := ParseTurn(test.slots)
		switch {
		case !test.wantOk:
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("Test %v: wanted %v, got %v", i, ErrInvalidFormat, err)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		case !reflect.DeepEqual(test.want, got):
			t.Errorf("Test %v:\nwanted %v\ngot    %v", i, test.want, got)
		}
	}
}

func TestThrowPointsString(t *testing.T) {
	th := Throw{Multiplier: 3, Sector: 19}
	if want, got := 57, th.Points(); want != got {
		t.Errorf("wanted %v points, got %v", want, got)
	}
	if want, got := "3:19", th.String(); want != got {
		t.Errorf("wanted %q, got %q", want, got)
	}
}
