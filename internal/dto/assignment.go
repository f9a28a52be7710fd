package dto

// MessageResponse is the envelope returned by assignment actions
type MessageResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ProjectAssignmentData describes a membership change
type ProjectAssignmentData struct {
	ProjectID   uint64 `json:"project_id"`
	UserID      uint64 `json:"user_id"`
	ProjectName string `json:"project_name"`
	UserName    string `json:"user_name"`
}

// TaskAssignmentData describes a responsible user being set
type TaskAssignmentData struct {
	TaskID      uint64 `json:"task_id"`
	UserID      uint64 `json:"user_id"`
	TaskTitle   string `json:"task_title"`
	UserName    string `json:"user_name"`
	ProjectName string `json:"project_name"`
}

// TaskUnassignmentData describes a responsible user being cleared
type TaskUnassignmentData struct {
	TaskID       uint64 `json:"task_id"`
	TaskTitle    string `json:"task_title"`
	PreviousUser string `json:"previous_user"`
}
