package reminder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sphuta/tmsmail/pkg/reminder"
)

func TestResolve_RoundTrip(t *testing.T) {
	t.Parallel()

	seen := make(map[reminder.Type]bool)
	for code := 1; code <= 8; code++ {
		typ, err := reminder.Resolve(code)
		require.NoError(t, err, "code %d", code)
		require.False(t, seen[typ], "code %d resolved to a type seen before", code)
		seen[typ] = true

		assert.Equal(t, code, typ.Code())
	}
	assert.Len(t, seen, 8)
}

func TestResolve_UnsupportedCodes(t *testing.T) {
	t.Parallel()

	for _, code := range []int{-1, 0, 9, 42, 999} {
		_, err := reminder.Resolve(code)
		require.ErrorIs(t, err, reminder.ErrUnsupportedCode, "code %d", code)
	}
}

func TestResolve_StableTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag  string
		tier reminder.Tier
		code int
	}{
		{code: 1, tag: "EMPLOYEE_REMINDER", tier: reminder.TierEmployee},
		{code: 2, tag: "EMPLOYEE_FINAL_REMINDER", tier: reminder.TierEmployee},
		{code: 3, tag: "EMPLOYEE_MISSED_DEADLINE", tier: reminder.TierEmployee},
		{code: 4, tag: "MANAGER_READY_FOR_APPROVAL", tier: reminder.TierManager},
		{code: 5, tag: "MANAGER_APPROVAL_OVERDUE", tier: reminder.TierManager},
		{code: 6, tag: "MANAGER_ESCALATION", tier: reminder.TierManager},
		{code: 7, tag: "ADMIN_ESCALATION", tier: reminder.TierAdmin},
		{code: 8, tag: "HR_ESCALATION", tier: reminder.TierHR},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			t.Parallel()

			typ, err := reminder.Resolve(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.tag, typ.String())
			assert.Equal(t, tt.tier, typ.Tier())
		})
	}
}

func TestTypes_CodeOrder(t *testing.T) {
	t.Parallel()

	types := reminder.Types()
	require.Len(t, types, 8)
	for i, typ := range types {
		assert.Equal(t, i+1, typ.Code())
	}
}

func TestType_Invalid(t *testing.T) {
	t.Parallel()

	typ := reminder.Type(12)
	assert.False(t, typ.Valid())
	assert.Equal(t, "Type(12)", typ.String())
	assert.Empty(t, typ.Tier())
}
