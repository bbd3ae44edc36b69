package msgs

const (
	MsgOperationFailed     = "Operation failed"
	MsgOperationSuccessful = "Operation successful"
	MsgYouMustLoginFirst   = "You must login first"
	MsgServerIsHealthy     = "Server is healthy"
)
