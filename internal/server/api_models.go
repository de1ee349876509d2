package server

import (
	"github.com/raysh454/reqview/internal/display"
	"github.com/raysh454/reqview/internal/jsontree"
)

// SubmitRequest is the form a page posts to issue one request.
type SubmitRequest struct {
	URL     string            `json:"url" example:"http://localhost:9999/json/user"`
	Method  string            `json:"method" example:"GET"`
	Body    string            `json:"body" example:"{\"filter\":\"x\"}"`
	Headers map[string]string `json:"headers,omitempty"`
}

// DisplayResponse is one state of the display: the status text plus the
// response region as rendered HTML and as data.
type DisplayResponse struct {
	Version     uint64                `json:"version" example:"3"`
	Status      string                `json:"status" example:"200"`
	HTML        string                `json:"html"`
	Tree        *jsontree.Node        `json:"tree,omitempty" swaggertype:"object"`
	Placeholder *jsontree.Placeholder `json:"placeholder,omitempty"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid JSON"`
}

func newDisplayResponse(snap display.Snapshot, maxDepth int) (DisplayResponse, error) {
	markup, err := jsontree.HTMLString(snap.Tree, snap.Placeholder, maxDepth)
	if err != nil {
		return DisplayResponse{}, err
	}
	return DisplayResponse{
		Version:     snap.Version,
		Status:      snap.Status,
		HTML:        markup,
		Tree:        snap.Tree,
		Placeholder: snap.Placeholder,
	}, nil
}
