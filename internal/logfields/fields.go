package logfields

const (
	// Identifiers

	Name      = "name"
	Operation = "operation"
	Backend   = "backend"

	// handles and IO

	Handle = "handle"
	Bytes  = "bytes"
	Offset = "offset"
	Path   = "path"
	Drive  = "drive"
	Seq    = "seq"

	// security

	Privilege  = "privilege"
	Privileges = "privileges"

	// Status

	Win32 = "win32"

	// Time

	Duration = "duration"
	Timeout  = "timeout"

	// logging and tracing

	TraceID = "traceID"
	SpanID  = "spanID"
)
