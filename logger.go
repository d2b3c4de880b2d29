package cdnify

// A Logger is used for all cdnify logging
type Logger interface {
	Log(msg string)
	Error(err error, msg string)
}
