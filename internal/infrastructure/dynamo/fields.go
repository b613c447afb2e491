package dynamo

// DynamoDB attribute names for the credentials table.
const (
	fieldEmail     = "email"
	fieldCode      = "code"
	fieldExpiresAt = "expires_at"
)
