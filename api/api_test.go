package api

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNullIntUnmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    NullInt
		wantErr bool
	}{
		{`12`, IntOf(12), false},
		{`"7"`, IntOf(7), false},
		{`""`, NullInt{}, false},
		{`"  "`, NullInt{}, false},
		{`null`, NullInt{}, false},
		{`3.0`, IntOf(3), false},
		{`3.5`, NullInt{}, true},
		{`"abc"`, NullInt{}, true},
	}
	for _, tt := range tests {
		var got NullInt
		err := json.Unmarshal([]byte(tt.in), &got)
		if (err != nil) != tt.wantErr {
			t.Fatalf("%s: err = %v", tt.in, err)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("%s: got %+v want %+v", tt.in, got, tt.want)
		}
	}
}

func TestNullFloatUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want NullFloat
	}{
		{`4.5`, FloatOf(4.5)},
		{`"4,2"`, FloatOf(4.2)},
		{`""`, NullFloat{}},
		{`null`, NullFloat{}},
	}
	for _, tt := range tests {
		var got NullFloat
		if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
			t.Fatalf("%s: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("%s: got %+v want %+v", tt.in, got, tt.want)
		}
	}
}

func TestNullMarshal(t *testing.T) {
	b, _ := json.Marshal(struct {
		A NullInt   `json:"a"`
		B NullFloat `json:"b"`
		C NullInt   `json:"c"`
	}{A: IntOf(3), C: NullInt{}})
	if string(b) != `{"a":3,"b":null,"c":null}` {
		t.Fatalf("unexpected json %s", b)
	}
}

func TestNullPointers(t *testing.T) {
	if IntOf(0).UintPtr() != nil {
		t.Fatalf("zero id must map to nil foreign key")
	}
	if p := IntOf(5).UintPtr(); p == nil || *p != 5 {
		t.Fatalf("expected 5")
	}
	if (NullFloat{}).Ptr() != nil {
		t.Fatalf("expected nil")
	}
}

func TestParseDateTime(t *testing.T) {
	want := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	for _, in := range []string{
		"2025-03-14T09:30:00",
		"2025-03-14T09:30",
		"2025-03-14 09:30:00",
		"2025-03-14T10:30:00+01:00",
		"2025-03-14T09:30:00Z",
	} {
		got, err := ParseDateTime(in)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("%s: got %v want %v", in, got.Time, want)
		}
	}
	if _, err := ParseDateTime("14/03/2025"); err == nil {
		t.Fatalf("expected error for unsupported layout")
	}
}

func TestDateTimeJSON(t *testing.T) {
	var v struct {
		At DateTime `json:"at"`
	}
	if err := json.Unmarshal([]byte(`{"at":"2025-03-14"}`), &v); err != nil {
		t.Fatal(err)
	}
	b, _ := json.Marshal(v)
	if string(b) != `{"at":"2025-03-14T00:00:00"}` {
		t.Fatalf("unexpected json %s", b)
	}
	if err := json.Unmarshal([]byte(`{"at":""}`), &v); err != nil {
		t.Fatal(err)
	}
	if !v.At.IsZero() {
		t.Fatalf("blank date must be zero")
	}
	if val, _ := v.At.Value(); val != nil {
		t.Fatalf("zero date must be a nil value")
	}
}

func TestPercent(t *testing.T) {
	if Percent(1, 3) != 33.3 {
		t.Fatalf("got %v", Percent(1, 3))
	}
	if Percent(5, 0) != 0 {
		t.Fatalf("expected 0 for empty total")
	}
}

func TestValidRole(t *testing.T) {
	if !ValidRole("admin") || !ValidRole("closer") || ValidRole("manager") {
		t.Fatalf("unexpected role validation")
	}
}
