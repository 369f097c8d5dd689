package sockit

import "testing"

func TestResolvePassiveWildcard(t *testing.T) {
	addrs, err := Resolve("", 9000, TCPHints(IPv4, true))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(addrs) != 1 {
		t.Fatalf("len(addrs) = %d, want 1", len(addrs))
	}
	if addrs[0].Family() != IPv4 {
		t.Errorf("Family() = %v, want IPv4", addrs[0].Family())
	}
	if addrs[0].Port() != 9000 {
		t.Errorf("Port() = %d, want 9000", addrs[0].Port())
	}
}

func TestResolveEmptyHostnameNotPassive(t *testing.T) {
	addrs, err := Resolve("", 9000, TCPHints(Any, false))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if addrs != nil {
		t.Errorf("addrs = %v, want nil", addrs)
	}
}

func TestResolveNumericAddress(t *testing.T) {
	addrs, err := Resolve("127.0.0.1", 80, TCPHints(Any, false))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(addrs) != 1 {
		t.Fatalf("len(addrs) = %d, want 1", len(addrs))
	}
	if got, want := addrs[0].IP().String(), "127.0.0.1"; got != want {
		t.Errorf("IP().String() = %q, want %q", got, want)
	}
}

func TestResolveFiltersByVersion(t *testing.T) {
	addrs, err := Resolve("::1", 80, TCPHints(IPv4, false))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(addrs) != 0 {
		t.Errorf("len(addrs) = %d, want 0 (IPv6 literal filtered under IPv4 hint)", len(addrs))
	}
}

func TestVersionToFamily(t *testing.T) {
	if versionToFamily(IPv6) == versionToFamily(IPv4) {
		t.Error("versionToFamily(IPv6) == versionToFamily(IPv4), want distinct families")
	}
}
