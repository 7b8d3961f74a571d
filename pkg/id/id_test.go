package id

import "testing"

func TestMakeRoundTrip(t *testing.T) {
	i := Make(1700000000123, 42)
	if i.Millis() != 1700000000123 {
		t.Fatalf("millis: %d", i.Millis())
	}
	if i.Seq() != 42 {
		t.Fatalf("seq: %d", i.Seq())
	}
	parsed, err := Parse(i.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Compare(i) != 0 {
		t.Fatalf("round trip mismatch: %s vs %s", parsed, i)
	}
}

func TestOrdering(t *testing.T) {
	a := Make(1000, 5)
	b := Make(1000, 6)
	c := Make(1001, 0)
	if a.Compare(b) != -1 {
		t.Fatalf("same ms orders by seq")
	}
	if b.Compare(c) != -1 {
		t.Fatalf("later ms orders after")
	}
	// hex strings must order the same way
	if !(a.String() < b.String() && b.String() < c.String()) {
		t.Fatalf("string ordering broken: %s %s %s", a, b, c)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse("zz"); err == nil {
		t.Fatalf("short string should fail")
	}
	if _, err := Parse("zz000000000000000000000000000000"); err == nil {
		t.Fatalf("non-hex should fail")
	}
}
