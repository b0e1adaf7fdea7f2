package jverrors

import "fmt"

// Flow codes returned by the native read primitives. These are not
// failures: the read loop converts them into outcome variants and they
// never appear inside a ProviderError.
const (
	// CodeSuccess indicates the call completed normally.
	CodeSuccess = 0

	// CodeNoData indicates no matching data for the current parameters.
	CodeNoData = -1

	// CodeSetupCancelled indicates the setup dialog was cancelled.
	CodeSetupCancelled = -2

	// CodeDownloadPending indicates target files are still downloading.
	CodeDownloadPending = -3
)

// catalogMessages maps each documented provider status code to its
// baseline description. Method-specific overrides refine a handful of
// entries below.
var catalogMessages = map[int]string{
	-504: "service is currently under maintenance",
	-503: "required file or temporary file was deleted before the provider could process it",
	-502: "download failed because of a communication or disk error",
	-501: "setup media is invalid or missing",
	-431: "server reported an internal error",
	-421: "server returned a malformed response",
	-413: "server returned a restricted HTTP status",
	-412: "server returned HTTP 403 Forbidden",
	-411: "server returned HTTP 404 or registry contents are invalid",
	-403: "downloaded data is corrupted",
	-402: "downloaded file has an invalid size",
	-401: "provider reported an internal error",
	-305: "user agreement has not been accepted",
	-304: "movie license state is invalid",
	-303: "service key is not configured",
	-302: "service key has expired",
	-301: "authentication failure (invalid or duplicated service key)",
	-211: "registry values are invalid or initialization has not been executed",
	-203: "open was not executed before the current call",
	-202: "previous open session is still active",
	-201: "initialization was not executed before the current call",
	-118: "file path parameter is invalid or the directory does not exist",
	-116: "option and dataspec combination is invalid",
	-115: "option parameter is invalid",
	-114: "key parameter is invalid",
	-113: "fromtime (end) parameter is invalid",
	-112: "fromtime (start) parameter is invalid",
	-111: "dataspec parameter is invalid",
	-103: "identifier begins with a space",
	-102: "identifier exceeds 64 bytes",
	-101: "identifier is missing",
	-100: "UI configuration was cancelled or could not be persisted",
	-3:   "target files are still downloading",
	-2:   "setup dialog was cancelled by the user",
	-1:   "no matching data exists for the current parameters",
}

// methodOverrides refines catalog messages for methods where the same
// code carries a different meaning.
var methodOverrides = map[int]map[string]string{
	-503: {
		"JVClose": "target file was already removed; closure can continue",
	},
	-201: {
		"JVClose": "initialization must be executed before close",
		"JVRead":  "initialization must be executed before reading",
		"JVGets":  "initialization must be executed before reading",
	},
}

// classify assigns a Kind to a raw status code based on the documented
// code ranges.
func classify(code int) Kind {
	switch {
	case code == CodeNoData:
		return KindNoData
	case code == CodeSetupCancelled:
		return KindCancelled
	case code >= -118 && code <= -100:
		return KindInput
	case code >= -211 && code <= -201:
		return classifyState(code)
	case code >= -305 && code <= -301:
		return KindAuthentication
	case code == -504 || code == -501:
		return KindMaintenance
	case code >= -431 && code <= -401 || code == -502 || code == -503:
		return KindCommunication
	default:
		return KindUnexpected
	}
}

// classifyState splits the -2xx range between missing initialization and
// call-sequence violations.
func classifyState(code int) Kind {
	if code == -201 || code == -211 {
		return KindNotInitialized
	}
	return KindInvalidState
}

// Interpret maps a native method result code to a typed error.
// Non-negative codes (and positive informational codes) interpret as
// success and return nil. Flow codes CodeDownloadPending and
// CodeSetupCancelled are resolved by the read loop and the UI layer
// respectively before reaching Interpret; when they do arrive here they
// are reported as typed errors so misuse is visible rather than silent.
func Interpret(method string, code int) error {
	if code >= CodeSuccess {
		return nil
	}

	msg, ok := catalogMessages[code]
	if !ok {
		msg = fmt.Sprintf("undocumented provider status %d", code)
	}
	if overrides, ok := methodOverrides[code]; ok {
		if override, ok := overrides[method]; ok {
			msg = override
		}
	}

	return &ProviderError{
		Method:  method,
		Code:    code,
		Kind:    classify(code),
		Message: msg,
	}
}
