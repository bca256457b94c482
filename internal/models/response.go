package models

// uniform error responses, also returned by request validators
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []ValidationErrorDetail `json:"details,omitempty"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// single field validation error
type ValidationErrorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ErrorBody is the payload inside the error envelope
type ErrorBody struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Code       string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

type CreatedResponse struct {
	Created bool   `json:"created"`
	ID      string `json:"id,omitempty"`
}

type UpdatedResponse struct {
	Updated bool `json:"updated"`
}

type DeletedResponse struct {
	Deleted bool `json:"deleted"`
}

type InterviewResponse struct {
	Interview *Interview `json:"interview"`
	// ResumeIndex is the question a resumed session continues from
	ResumeIndex int `json:"resumeIndex"`
}

type ResultResponse struct {
	Result ResultSummary `json:"result"`
}

// ListResponse is one page of sessions plus the total matching the filters
type ListResponse struct {
	Items              []Interview `json:"items"`
	PageSize           int         `json:"pageSize"`
	TotalFilteredCount int64       `json:"totalFilteredCount"`
}

type StatsResponse struct {
	Data InterviewStats `json:"data"`
}

// generic ok/info response used by the feedback endpoints
type Resp struct {
	OK   bool        `json:"ok"`
	Info interface{} `json:"info"`
}
