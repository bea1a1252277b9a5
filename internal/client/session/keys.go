package session

// Persisted keys. Writer and reader must agree on these names exactly.
const (
	KeyIdentifier = "identifier"
	KeyChannel    = "type"
	KeyToken      = "token"
	KeyUserID     = "user_id"
)

// legacyTokenKey is where an older dashboard looked for the token, while the
// verifier wrote KeyToken. Only the storage migration still refers to it.
const legacyTokenKey = "access_token"
