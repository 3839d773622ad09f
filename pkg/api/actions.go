package api

// Backend action names. They are sent verbatim in the "action" field of
// every request payload and are case-sensitive on the server.
const (
	ActionGetAllTopics      = "getAllTopics"
	ActionGetTopicByStatus  = "getTopicbystatus"
	ActionGetTopicByUser    = "getTopicByUser"
	ActionGetTopicByID      = "getTopicById"
	ActionInsertTopics      = "insertTopics"
	ActionUpdateTopicStatus = "updateTopicStatus"
	ActionDeleteTopic       = "deletetopic"
	ActionInsertTopicTags   = "insertTopic_tags"

	ActionGetReplies  = "getRepliesByTopic"
	ActionCreateReply = "createReply"
	ActionUpdateReply = "updateReply"
	ActionDeleteReply = "deleteReply"

	ActionGetAllCategories = "getAllCategories"
	ActionGetAllTags       = "getAllTags"

	ActionGetAllUsers = "getAllUsers"
	ActionGetUserByID = "getUserById"
	ActionInsertUser  = "insertUser"

	// ActionAnalytics is a client-side aggregate; it never reaches the wire
	// but shares the dedup cache namespace.
	ActionAnalytics = "analytics"
)

// keyActions are authenticated with the API key rather than the session
var keyActions = map[string]bool{
	ActionGetAllUsers:     true,
	ActionGetUserByID:     true,
	ActionInsertUser:      true,
	ActionGetTopicByUser:  true,
	ActionInsertTopicTags: true,
}

// UsesAPIKey reports whether action is an API-key endpoint
func UsesAPIKey(action string) bool {
	return keyActions[action]
}

// Payload is the value sent under "input" in every request body
type Payload struct {
	Action string      `json:"action"`
	Data   interface{} `json:"data,omitempty"`
}

// Envelope is the request body
type Envelope struct {
	Input Payload `json:"input"`
}
