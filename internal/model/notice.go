package model

// Notice kinds.
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

// Notice is a one-shot message shown on the next page render.
type Notice struct {
	Kind    string
	Message string
}
