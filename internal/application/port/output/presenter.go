package output

import "net/http"

// Presenter defines how results are written back to HTTP clients
type Presenter interface {
	// PresentSuccess writes data as JSON with the given status
	PresentSuccess(w http.ResponseWriter, status int, data interface{})

	// PresentRaw writes an already-encoded JSON document unchanged
	PresentRaw(w http.ResponseWriter, status int, raw []byte)

	// PresentError writes an error message with the given status
	PresentError(w http.ResponseWriter, status int, message string)
}
