package httperr

import "errors"

// BusinessError is a rejected operation. Code is stable for clients,
// Message is the human text shown at the console.
type BusinessError struct {
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func ErrBusinessMsg(code, message string) error {
	return BusinessError{Code: code, Message: message}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
