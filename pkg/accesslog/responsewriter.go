package accesslog

import "net/http"

// responseRecorder wraps http.ResponseWriter to capture the status code and
// the number of body bytes written.
type responseRecorder struct {
	http.ResponseWriter
	status        int
	bytes         int64
	headerWritten bool
}

// WriteHeader captures the status code before writing the header.
func (w *responseRecorder) WriteHeader(code int) {
	if !w.headerWritten {
		w.status = code
		w.headerWritten = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// Write counts body bytes and records the implicit 200 OK.
func (w *responseRecorder) Write(b []byte) (int, error) {
	if !w.headerWritten {
		w.status = http.StatusOK
		w.headerWritten = true
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += int64(n)
	return n, err
}

// Unwrap returns the underlying ResponseWriter for http.ResponseController
// support.
func (w *responseRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
