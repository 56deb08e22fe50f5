package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqve/wtm/internal/errors"
)

func TestValidateWorktreeName_Valid(t *testing.T) {
	validNames := []string{
		"feature-x",
		"bugfix_123",
		"v1.2.3",
		"Release",
		"head-start",
		"my.worktree",
	}

	for _, name := range validNames {
		t.Run(name, func(t *testing.T) {
			got, err := ValidateWorktreeName(name)
			require.NoError(t, err)
			assert.Equal(t, WorktreeName(name), got)
		})
	}
}

func TestValidateWorktreeName_Idempotent(t *testing.T) {
	for _, input := range []string{"feature", "  padded  ", ".hidden", "HEAD", ""} {
		first, err1 := ValidateWorktreeName(input)
		second, err2 := ValidateWorktreeName(input)

		assert.Equal(t, first, second)
		assert.Equal(t, errors.GetErrorCode(err1), errors.GetErrorCode(err2))
	}
}

func TestValidateWorktreeName_TrimInvariance(t *testing.T) {
	padded, err := ValidateWorktreeName(" foo ")
	require.NoError(t, err)

	plain, err := ValidateWorktreeName("foo")
	require.NoError(t, err)

	assert.Equal(t, plain, padded)
	assert.Equal(t, "foo", padded.String())
}

func TestValidateWorktreeName_Empty(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		_, err := ValidateWorktreeName(input)
		assert.True(t, errors.Is(err, errors.ErrNameEmpty), "input %q", input)
	}
}

func TestValidateWorktreeName_Reserved(t *testing.T) {
	for _, reserved := range reservedNames {
		for _, variant := range []string{reserved, strings.ToLower(reserved), strings.ToUpper(reserved)} {
			t.Run(variant, func(t *testing.T) {
				_, err := ValidateWorktreeName(variant)
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrNameReserved))
				assert.Contains(t, err.Error(), "reserved")
			})
		}
	}
}

func TestValidateWorktreeName_ReservedIsExactMatch(t *testing.T) {
	for _, name := range []string{"HEADS", "my-refs", "hooks2", "objects_old"} {
		_, err := ValidateWorktreeName(name)
		assert.NoError(t, err, name)
	}
}

func TestValidateWorktreeName_Length(t *testing.T) {
	_, err := ValidateWorktreeName(strings.Repeat("a", 255))
	assert.NoError(t, err)

	_, err = ValidateWorktreeName(strings.Repeat("a", 256))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNameTooLong))
	assert.Contains(t, err.Error(), "256")
}

func TestValidateWorktreeName_InvalidChars(t *testing.T) {
	for _, c := range []string{"/", `\`, ":", "*", "?", `"`, "<", ">", "|", "\x00"} {
		t.Run(c, func(t *testing.T) {
			_, err := ValidateWorktreeName("bad" + c + "name")
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrNameInvalidChar))
		})
	}
}

func TestValidateWorktreeName_Hidden(t *testing.T) {
	_, err := ValidateWorktreeName(".hidden")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNameHidden))
	assert.Contains(t, err.Error(), "dot")
}

func TestValidateWorktreeName_NonASCII(t *testing.T) {
	for _, name := range []string{"café", "功能", "naïve-branch"} {
		_, err := ValidateWorktreeName(name)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrNameNonASCII), name)
	}
}

func TestValidateWorktreeName_CheckOrder(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"too long beats invalid char", strings.Repeat("/", 300), errors.ErrNameTooLong},
		{"reserved beats hidden", ".GIT", errors.ErrNameReserved},
		{"invalid char beats hidden", ".a:b", errors.ErrNameInvalidChar},
		{"hidden beats non-ascii", ".café", errors.ErrNameHidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateWorktreeName(tt.input)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestValidateWorktreeName_ErrorKind(t *testing.T) {
	_, err := ValidateWorktreeName("HEAD")
	assert.Equal(t, errors.KindValidation, errors.GetKind(err))
}
