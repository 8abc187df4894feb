package common

// Error is a string error which can be declared as a constant.
type Error string

func (e Error) Error() string { return string(e) }
