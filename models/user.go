package models

// User is the identity record, created on the first authenticated request.
// Latitude/Longitude are the legacy default location; presence flows read
// coordinates from Status instead.
type User struct {
	UserID    string  `dynamodbav:"userId" json:"userId"`
	EmailID   string  `dynamodbav:"emailId,omitempty" json:"emailId,omitempty"`
	FullName  string  `dynamodbav:"fullName,omitempty" json:"fullName,omitempty"`
	AvatarKey string  `dynamodbav:"avatarKey,omitempty" json:"avatarKey,omitempty"`
	Latitude  float64 `dynamodbav:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude float64 `dynamodbav:"longitude,omitempty" json:"longitude,omitempty"`
	CreatedAt string  `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// UsersTable is the DynamoDB table name for user identity records
const UsersTable = "Users"

// UsersByEmailIndex is the GSI used for lookup by email
const UsersByEmailIndex = "emailId-index"
