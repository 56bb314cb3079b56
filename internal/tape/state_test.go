package tape

import (
	"bytes"
	"strings"
	"testing"
)

func TestGetcharReadsOneByteAndCountsStats(t *testing.T) {
	s := New(strings.NewReader("Z"), nil, 10)
	var cell byte
	if code := Getchar(s, &cell); code != trampolineOK {
		t.Fatalf("got code %d, want ok", code)
	}
	if cell != 'Z' {
		t.Fatalf("got cell %q, want 'Z'", cell)
	}
	if s.Stats.BytesRead != 1 {
		t.Fatalf("got BytesRead %d, want 1", s.Stats.BytesRead)
	}
}

func TestGetcharAtEOFReturnsIOError(t *testing.T) {
	s := New(strings.NewReader(""), nil, 10)
	var cell byte
	if code := Getchar(s, &cell); code != trampolineIOError {
		t.Fatalf("got code %d, want io error", code)
	}
}

func TestGetcharNilReaderReturnsIOError(t *testing.T) {
	s := New(nil, nil, 10)
	var cell byte
	if code := Getchar(s, &cell); code != trampolineIOError {
		t.Fatalf("got code %d, want io error", code)
	}
}

func TestPutcharWritesOneByteAndCountsStats(t *testing.T) {
	var out bytes.Buffer
	s := New(nil, &out, 10)
	cell := byte('Q')
	if code := Putchar(s, &cell); code != trampolineOK {
		t.Fatalf("got code %d, want ok", code)
	}
	if out.String() != "Q" {
		t.Fatalf("got output %q, want %q", out.String(), "Q")
	}
	if s.Stats.BytesWritten != 1 {
		t.Fatalf("got BytesWritten %d, want 1", s.Stats.BytesWritten)
	}
}

func TestPutcharNilWriterReturnsIOError(t *testing.T) {
	s := New(nil, nil, 10)
	cell := byte('Q')
	if code := Putchar(s, &cell); code != trampolineIOError {
		t.Fatalf("got code %d, want io error", code)
	}
}

func TestTrackExcursionRecordsExtremes(t *testing.T) {
	s := New(nil, nil, 100)
	s.TrackExcursion(5)
	s.TrackExcursion(-3)
	s.TrackExcursion(2)
	if s.Stats.MaxExcursion != 5 {
		t.Fatalf("got MaxExcursion %d, want 5", s.Stats.MaxExcursion)
	}
	if s.Stats.MinExcursion != -3 {
		t.Fatalf("got MinExcursion %d, want -3", s.Stats.MinExcursion)
	}
}

func TestNewZeroesTape(t *testing.T) {
	s := New(nil, nil, 64)
	for i, b := range s.Tape {
		if b != 0 {
			t.Fatalf("tape[%d] = %d, want 0", i, b)
		}
	}
}
