package syntax

import "testing"

func TestKindSet(t *testing.T) {
	set := NewKindSet(KindIdent, KindBinaryExpression, KindMissing)
	for _, k := range []Kind{KindIdent, KindBinaryExpression, KindMissing} {
		if !set.Contains(k) {
			t.Errorf("set should contain %v", k)
		}
	}
	if set.Contains(KindEOF) {
		t.Error("set should not contain EOF")
	}
	if NewKindSet(KindIdent) != NewKindSet(KindIdent) {
		t.Error("equal sets should compare equal")
	}
	union := NewKindSet(KindIdent).Union(NewKindSet(KindEOF))
	if !union.Contains(KindIdent) || !union.Contains(KindEOF) {
		t.Errorf("union = %v", union)
	}
	if !(KindSet{}).IsEmpty() || set.IsEmpty() {
		t.Error("IsEmpty mismatch")
	}
	if got, want := NewKindSet(KindEOF, KindIdent).String(), "{EOF, Ident}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestKindClassification(t *testing.T) {
	tests := []struct {
		kind    Kind
		token   bool
		trivia  bool
		list    bool
		unknown bool
		slots   int
	}{
		{KindIdent, true, false, false, false, 0},
		{KindComment, true, true, false, false, 0},
		{KindEq3, true, false, false, false, 0},
		{KindStatementList, false, false, true, false, -1},
		{KindUnknownStatement, false, false, false, true, -1},
		{KindIfStatement, false, false, false, false, 6},
		{KindBinaryExpression, false, false, false, false, 3},
		{KindRoot, false, false, false, false, -1},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.IsToken(); got != tt.token {
				t.Errorf("IsToken() = %v", got)
			}
			if got := tt.kind.IsTrivia(); got != tt.trivia {
				t.Errorf("IsTrivia() = %v", got)
			}
			if got := tt.kind.IsList(); got != tt.list {
				t.Errorf("IsList() = %v", got)
			}
			if got := tt.kind.IsUnknown(); got != tt.unknown {
				t.Errorf("IsUnknown() = %v", got)
			}
			if got := tt.kind.Slots(); got != tt.slots {
				t.Errorf("Slots() = %d, want %d", got, tt.slots)
			}
		})
	}
}

func TestKindFromName(t *testing.T) {
	for k := Kind(0); k < kindCount; k++ {
		name := k.String()
		got, ok := KindFromName(name)
		if !ok || got != k {
			t.Errorf("KindFromName(%q) = %v, %v", name, got, ok)
		}
	}
}

func TestLookupKeyword(t *testing.T) {
	if LookupKeyword("while") != KindWhileKw {
		t.Error("while should be a keyword")
	}
	for _, contextual := range []string{"let", "async", "await", "yield", "as"} {
		if LookupKeyword(contextual) != KindIdent {
			t.Errorf("%s should lex as an identifier", contextual)
		}
	}
}

func TestTextRange(t *testing.T) {
	r := NewRange(2, 6)
	if r.Len() != 4 || r.IsEmpty() {
		t.Errorf("Len/IsEmpty of %v", r)
	}
	if !r.Contains(2) || r.Contains(6) {
		t.Error("Contains should be half-open")
	}
	if !r.ContainsRange(NewRange(3, 6)) || r.ContainsRange(NewRange(1, 3)) {
		t.Error("ContainsRange mismatch")
	}
	if !r.Intersects(NewRange(6, 8)) || r.Intersects(NewRange(7, 8)) {
		t.Error("Intersects mismatch")
	}
	if got := r.Cover(NewRange(8, 9)); got != NewRange(2, 9) {
		t.Errorf("Cover = %v", got)
	}
	if got := r.Slice("abcdefgh"); got != "cdef" {
		t.Errorf("Slice = %q", got)
	}
}
