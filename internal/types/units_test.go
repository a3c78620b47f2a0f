package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequirementKind_Valid(t *testing.T) {
	tests := []struct {
		kind RequirementKind
		want bool
	}{
		{KindRequired, true},
		{KindPreferred, true},
		{KindResponsibility, true},
		{KindConstraint, true},
		{KindBenefit, true},
		{RequirementKind(""), false},
		{RequirementKind("mandatory"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Valid())
		})
	}
}

func TestRequirementKind_MustHave(t *testing.T) {
	assert.True(t, KindRequired.MustHave())
	assert.True(t, KindConstraint.MustHave())

	assert.False(t, KindPreferred.MustHave())
	assert.False(t, KindResponsibility.MustHave())
	assert.False(t, KindBenefit.MustHave())
}

func TestRequirementUnit_MustHave(t *testing.T) {
	required := RequirementUnit{ID: uuid.New(), Kind: KindRequired}
	preferred := RequirementUnit{ID: uuid.New(), Kind: KindPreferred}

	assert.True(t, required.MustHave())
	assert.False(t, preferred.MustHave())
}
