package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnionIDs(t *testing.T) {
	tests := []struct {
		name       string
		existing   []string
		candidates []string
		want       []string
	}{
		{"creator then new member", []string{"u1"}, []string{"u1", "u2"}, []string{"u1", "u2"}},
		{"duplicates in input", []string{"u1"}, []string{"u3", "u3", "u2", "u3"}, []string{"u1", "u3", "u2"}},
		{"empty existing", nil, []string{"a", "b", "a"}, []string{"a", "b"}},
		{"no candidates", []string{"a", "b"}, nil, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UnionIDs(tt.existing, tt.candidates))
		})
	}
}

func TestUnionIDs_IdempotentAcrossCalls(t *testing.T) {
	ids := []string{"u1"}
	batches := [][]string{{"u2", "u1"}, {"u2", "u3"}, {"u3", "u3", "u1"}}
	for _, b := range batches {
		ids = UnionIDs(ids, b)
	}
	assert.Equal(t, []string{"u1", "u2", "u3"}, ids)

	again := UnionIDs(ids, ids)
	assert.Equal(t, ids, again)
}

func TestRemoveID(t *testing.T) {
	ids := []string{"u1", "u2"}
	once := RemoveID(ids, "u1")
	assert.Equal(t, []string{"u2"}, once)
	assert.Equal(t, once, RemoveID(once, "u1"))
	assert.Equal(t, []string{}, RemoveID([]string{"x"}, "x"))
}

func TestContainsID(t *testing.T) {
	assert.True(t, ContainsID([]string{"a", "b"}, "b"))
	assert.False(t, ContainsID([]string{"a", "b"}, "B"))
	assert.False(t, ContainsID(nil, "a"))
}

func TestGender_Valid(t *testing.T) {
	for _, g := range []Gender{GenderMale, GenderFemale, GenderLGBTQIA, GenderOthers} {
		assert.True(t, g.Valid(), g)
	}
	assert.False(t, Gender("male").Valid())
	assert.False(t, Gender("").Valid())
}

func TestStringList_ScanValue(t *testing.T) {
	var s StringList
	assert.NoError(t, s.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, StringList{"a", "b"}, s)

	assert.NoError(t, s.Scan(nil))
	assert.Equal(t, StringList{}, s)

	v, err := StringList(nil).Value()
	assert.NoError(t, err)
	assert.Equal(t, "[]", v)

	assert.Error(t, s.Scan(42))
}

func TestUser_Sanitized(t *testing.T) {
	u := User{ID: "u1", Username: "alice", PasswordHash: "$2a$10$hash"}
	safe := u.Sanitized()
	assert.Empty(t, safe.PasswordHash)
	assert.Equal(t, "$2a$10$hash", u.PasswordHash)
}
