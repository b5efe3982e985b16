package msgs

const (
	MsgOperationSuccessful        = "operation successful"
	MsgOperationFailed            = "operation failed"
	MsgUserCreatedSuccessfully    = "user created successfully"
	MsgYouMustLoginFirst          = "you must login first"
	MsgWhiteboardDeleted          = "whiteboard deleted successfully"
	MsgRoleUpdated                = "user role updated successfully"
	MsgParticipantRemoved         = "participant removed successfully"
	MsgInvitationRevoked          = "invitation revoked successfully"
	MsgShareCode                  = "share this code with the intended user to join the whiteboard"
)
