// ABOUTME: Backend error codes and the error type carrying them
// ABOUTME: Codes and messages follow the AL error vocabulary
package output

import "fmt"

// Error codes.
const (
	InvalidName      int32 = 0xA001
	InvalidEnum      int32 = 0xA002
	InvalidValue     int32 = 0xA003
	InvalidOperation int32 = 0xA004
	OutOfMemory      int32 = 0xA005
)

// CodeString returns the standard message for an error code.
func CodeString(code int32) string {
	switch code {
	case InvalidName:
		return "Invalid Name"
	case InvalidEnum:
		return "Invalid Enum"
	case InvalidValue:
		return "Invalid Value"
	case InvalidOperation:
		return "Invalid Operation"
	case OutOfMemory:
		return "Out of Memory"
	}
	return fmt.Sprintf("Unknown Error 0x%X", code)
}

// Error is a failed backend call.
type Error struct {
	Op      Op
	Code    int32
	Message string // defaults to CodeString(Code)
	Err     error  // driver failure, if any
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return CodeString(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

func fail(op Op, code int32) *Error {
	return &Error{Op: op, Code: code}
}

// Op names a backend call for fault injection and call accounting.
type Op string

const (
	OpOpenDevice         Op = "OpenDevice"
	OpCloseDevice        Op = "CloseDevice"
	OpCreateContext      Op = "CreateContext"
	OpMakeContextCurrent Op = "MakeContextCurrent"
	OpDestroyContext     Op = "DestroyContext"
	OpGenBuffer          Op = "GenBuffer"
	OpBufferData         Op = "BufferData"
	OpDeleteBuffer       Op = "DeleteBuffer"
	OpGenSource          Op = "GenSource"
	OpDeleteSource       Op = "DeleteSource"
	OpSourcef            Op = "Sourcef"
	OpSource3f           Op = "Source3f"
	OpSourcei            Op = "Sourcei"
	OpGetSourcef         Op = "GetSourcef"
	OpGetSourcei         Op = "GetSourcei"
	OpSourcePlay         Op = "SourcePlay"
	OpSourcePause        Op = "SourcePause"
	OpSourceStop         Op = "SourceStop"
)
