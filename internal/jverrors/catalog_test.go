package jverrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpret_SuccessCodesReturnNil(t *testing.T) {
	assert.NoError(t, Interpret("JVOpen", 0))
	assert.NoError(t, Interpret("JVRead", 1))
	assert.NoError(t, Interpret("JVOpen", 512), "positive informational codes are success")
}

func TestInterpret_ClassifiesByCodeRange(t *testing.T) {
	tests := []struct {
		name   string
		method string
		code   int
		kind   Kind
	}{
		{"no data", "JVOpen", -1, KindNoData},
		{"setup cancelled", "JVSetUIProperties", -2, KindCancelled},
		{"bad dataspec", "JVOpen", -111, KindInput},
		{"bad fromtime", "JVOpen", -112, KindInput},
		{"bad file path", "JVCourseFile", -118, KindInput},
		{"not initialized", "JVOpen", -201, KindNotInitialized},
		{"bad registry", "JVInit", -211, KindNotInitialized},
		{"session still open", "JVOpen", -202, KindInvalidState},
		{"open not executed", "JVRead", -203, KindInvalidState},
		{"auth failure", "JVInit", -301, KindAuthentication},
		{"expired key", "JVInit", -302, KindAuthentication},
		{"agreement missing", "JVInit", -305, KindAuthentication},
		{"provider internal", "JVRead", -401, KindCommunication},
		{"corrupt download", "JVRead", -403, KindCommunication},
		{"http 404", "JVRead", -411, KindCommunication},
		{"server internal", "JVRead", -431, KindCommunication},
		{"download failed", "JVRead", -502, KindCommunication},
		{"file deleted", "JVRead", -503, KindCommunication},
		{"bad setup media", "JVInit", -501, KindMaintenance},
		{"maintenance", "JVOpen", -504, KindMaintenance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Interpret(tt.method, tt.code)
			var pe *ProviderError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.kind, pe.Kind)
			assert.Equal(t, tt.code, pe.Code)
			assert.Equal(t, tt.method, pe.Method)
			assert.NotEmpty(t, pe.Message)
		})
	}
}

func TestInterpret_MethodOverridesRefineMessage(t *testing.T) {
	base := Interpret("JVRead", -503)
	override := Interpret("JVClose", -503)

	var basePE, overridePE *ProviderError
	require.ErrorAs(t, base, &basePE)
	require.ErrorAs(t, override, &overridePE)
	assert.NotEqual(t, basePE.Message, overridePE.Message)
	assert.Contains(t, overridePE.Message, "closure can continue")
}

func TestInterpret_UndocumentedCodeStillTyped(t *testing.T) {
	err := Interpret("JVRead", -999)
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindUnexpected, pe.Kind)
	assert.Contains(t, pe.Message, "-999")
}

func TestProviderError_Retryability(t *testing.T) {
	retryable := []int{-502, -504, -301}
	for _, code := range retryable {
		var pe *ProviderError
		require.ErrorAs(t, Interpret("JVOpen", code), &pe)
		assert.True(t, pe.IsRetryable(), "code %d", code)
	}

	terminal := []int{-111, -201, -203}
	for _, code := range terminal {
		var pe *ProviderError
		require.ErrorAs(t, Interpret("JVOpen", code), &pe)
		assert.False(t, pe.IsRetryable(), "code %d", code)
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindInvalidState, KindOf(Interpret("JVRead", -203)))
	assert.Equal(t, KindOverflow, KindOf(&OverflowError{Dropped: 3}))
	assert.Equal(t, KindCancelled, KindOf(&CancelledError{Op: "JVRead"}))
	assert.Equal(t, KindUnexpected, KindOf(errors.New("untyped")))
}

func TestCancelledError_UnwrapsCause(t *testing.T) {
	cause := errors.New("context canceled")
	err := &CancelledError{Op: "JVRead", Cause: cause}
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "JVRead")
}

func TestOverflowError_MessageCarriesCount(t *testing.T) {
	err := &OverflowError{Dropped: 17}
	assert.Contains(t, err.Error(), "17")
}
