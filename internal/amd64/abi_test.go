package amd64

import (
	"runtime"
	"testing"

	"bfjit/internal/backend"
)

func TestHostABISelectsByOS(t *testing.T) {
	abi, err := HostABI()
	if runtime.GOARCH != "amd64" {
		if err != backend.ErrUnsupportedArch {
			t.Fatalf("non-amd64 arch: got err %v, want ErrUnsupportedArch", err)
		}
		return
	}
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runtime.GOOS == "windows" {
		if abi.Name != "win64" {
			t.Fatalf("got abi %q, want win64", abi.Name)
		}
	} else if abi.Name != "sysv" {
		t.Fatalf("got abi %q, want sysv", abi.Name)
	}
}

func TestSysVAndWin64ArgRegsDiffer(t *testing.T) {
	if SysV.ArgRegs == Win64.ArgRegs {
		t.Fatal("expected SysV and Win64 to use different argument registers")
	}
	if SysV.ShadowBytes != 32 || Win64.ShadowBytes != 32 {
		t.Fatal("expected both ABIs to reserve 32 bytes of shadow space")
	}
}
