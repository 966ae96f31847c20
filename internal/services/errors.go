package services

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrConfigNotFound     = errors.New("configuration not found")
	ErrVersionNotFound    = errors.New("version not found")
	ErrTemplateNotFound   = errors.New("template not found")
	ErrNotOwner           = errors.New("you do not have permission to access this configuration")
	ErrNotTemplate        = errors.New("this configuration is not a template")
)

// ValidationErrors carries field-level failures, collected per field so a
// caller sees all problems at once.
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	return "validation failed"
}

// RequestMeta is the caller context recorded with audit entries.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}
