package exc

const (
	CodeUnknownFatal                  = "M0000"
	CodeFileNotFound                  = "M0001"
	CodeUnsuportedFileSystemOperation = "M0002"
	CodePermissionDenied              = "M0003"
	CodeUnsupportedFileFormat         = "M0004"
	CodeUnexpectedEOF                 = "M0005"
	CodeInvalidNumber                 = "M0007"
	CodeInvalidDefinition             = "M0008"
	CodeInvalidArithmetic             = "M0009"
)

// Parse failures.
const (
	CodeExpected          = "M0100"
	CodeUnexpected        = "M0101"
	CodeGuard             = "M0102"
	CodeAmbiguousOperator = "M0103"
)

const (
	CodeEOF = "_EOF_"
)

var (
	defaultNonFatal = map[string]bool{
		CodeExpected: true,
		CodeGuard:    true,
	}
)
