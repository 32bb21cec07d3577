package apperr

var (
	// Swap lifecycle and rating ledger
	ErrInvalidTarget      = InvalidArg("skill does not exist or belongs to you")
	ErrInvalidAction      = InvalidArg("action must be accept or reject")
	ErrSwapNotFound       = NotFound("swap request not found")
	ErrSwapAlreadyDecided = FailedPrecondition("swap request has already been decided")
	ErrSwapNotDeletable   = Forbidden("only the requester can delete a pending swap request")
	ErrNotRateable        = Forbidden("swap is not accepted or you are not part of it")
	ErrInvalidScore       = InvalidArg("score must be between 1 and 5")
	ErrAlreadyRated       = Soft("you have already rated this swap")

	// Rooms
	ErrRoomNotFound       = NotFound("room not found")
	ErrInviteeNotFound    = NotFound("user not found")
	ErrNotRoomCreator     = Forbidden("only the room creator can do that")
	ErrCreatorCannotLeave = Forbidden("creators cannot leave their room")
	ErrNotMember          = FailedPrecondition("you are not a member of this room")
	ErrRoomForbidden      = Forbidden("this room is private")
	ErrAlreadyMember      = Soft("already a member of this room")
	ErrRoomCodesExhausted = ResourceExhausted("could not generate a unique room code")
	ErrRoomNameRequired   = InvalidArg("room name cannot be empty")
	ErrMessageEmpty       = InvalidArg("message text cannot be empty")

	// Identity and catalog
	ErrUserNotFound        = NotFound("user not found")
	ErrUsernameTaken       = AlreadyExists("username or email already exists")
	ErrInvalidCredentials  = Unauthorized("invalid username or password")
	ErrAccountBanned       = Forbidden("your account has been banned")
	ErrProfilePrivate      = NotFound("user not found")
	ErrSkillNotFound       = NotFound("skill not found")
	ErrSkillNameRequired   = InvalidArg("skill name cannot be empty")
	ErrInvalidRegistration = InvalidArg("username, email, password and name are required")

	// Moderation
	ErrAdminRequired   = Forbidden("admin access required")
	ErrCannotBanAdmin  = FailedPrecondition("admins cannot be banned")
	ErrBroadcastFields = InvalidArg("title and message are required")
)
