package result

import (
	"errors"
	"testing"
)

func TestFromByteKnownCodes(t *testing.T) {
	for _, c := range []Code{Ok, IoError, OutOfBounds} {
		got, err := FromByte(uint8(c))
		if err != nil {
			t.Fatalf("code %v: unexpected error %v", c, err)
		}
		if got != c {
			t.Fatalf("got %v, want %v", got, c)
		}
	}
}

func TestFromByteUnknownCodeFailsLoudly(t *testing.T) {
	_, err := FromByte(200)
	if err == nil {
		t.Fatal("expected an error for an unrecognized code")
	}
	var unk *ErrUnknownResultCode
	if !errors.As(err, &unk) {
		t.Fatalf("expected *ErrUnknownResultCode, got %T", err)
	}
	if unk.Raw != 200 {
		t.Fatalf("got Raw %d, want 200", unk.Raw)
	}
}

func TestCodeString(t *testing.T) {
	cases := map[Code]string{
		Ok:          "Ok",
		IoError:     "IoError",
		OutOfBounds: "OutOfBounds",
		Code(77):    "Code(77)",
	}
	for code, want := range cases {
		if got := code.String(); got != want {
			t.Fatalf("code %d: got %q, want %q", uint8(code), got, want)
		}
	}
}
