package models

// Profile defines the structure for a user's self-described display attributes.
// Keyed by userId, so the table's primary key guarantees at most one profile
// per user.
type Profile struct {
	UserID      string   `dynamodbav:"userId" json:"userId"`
	DisplayName string   `dynamodbav:"displayName,omitempty" json:"displayName,omitempty"`
	Description string   `dynamodbav:"description,omitempty" json:"description,omitempty"`
	AvatarKey   string   `dynamodbav:"avatarKey,omitempty" json:"avatarKey,omitempty"`
	DOB         string   `dynamodbav:"dob,omitempty" json:"dob,omitempty"`
	Pronouns    string   `dynamodbav:"pronouns,omitempty" json:"pronouns,omitempty"`
	Position    string   `dynamodbav:"position,omitempty" json:"position,omitempty"`
	BodyType    string   `dynamodbav:"bodyType,omitempty" json:"bodyType,omitempty"`
	Interests   []string `dynamodbav:"interests,omitempty" json:"interests,omitempty"`
}

// ProfilesTable is the DynamoDB table name for user profiles
const ProfilesTable = "Profiles"
