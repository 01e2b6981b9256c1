package protocol

// MCPVersion is the protocol version advertised during initialization.
// It is not negotiated; clients get this value regardless of what they ask for.
const MCPVersion = "2024-11-05"

// Method names handled by the dispatcher. Anything else is answered with a
// method-not-found error.
const (
	MethodInitialize  = "initialize"
	MethodInitialized = "notifications/initialized"
	MethodToolsList   = "tools/list"
	MethodToolsCall   = "tools/call"
)
