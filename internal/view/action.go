package view

// ActionType names a user intent. Presenters never embed executable code;
// they send the Action back to the dispatcher.
type ActionType string

const (
	ActionSignIn        ActionType = "sign_in"
	ActionSignOut       ActionType = "sign_out"
	ActionCreateCase    ActionType = "create_case"
	ActionToggleEdit    ActionType = "toggle_edit"
	ActionSaveCase      ActionType = "save_case"
	ActionDeleteCase    ActionType = "delete_case"
	ActionAddComment    ActionType = "add_comment"
	ActionHideComment   ActionType = "hide_comment"
	ActionUnhideComment ActionType = "unhide_comment"
	ActionDeleteComment ActionType = "delete_comment"
	ActionAddAdmin      ActionType = "add_admin"
	ActionRemoveAdmin   ActionType = "remove_admin"
)

// Action is a structured event with its target identifiers. A non-empty
// Confirm is the question to ask before dispatching.
type Action struct {
	Type      ActionType `json:"type" validate:"required"`
	Label     string     `json:"label,omitempty"`
	CaseID    string     `json:"case_id,omitempty"`
	CommentID string     `json:"comment_id,omitempty"`
	UID       string     `json:"uid,omitempty"`
	Field     string     `json:"field,omitempty"`
	Confirm   string     `json:"confirm,omitempty"`
}

// Input carries the form values submitted with an action.
type Input map[string]string

// Get returns the value of key, or "".
func (in Input) Get(key string) string {
	if in == nil {
		return ""
	}
	return in[key]
}
