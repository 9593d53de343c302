package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrForbidden indicates that the acting user is not authorized for the mutation attempted.
var ErrForbidden = errors.New("forbidden")

// ErrNoIncomeData indicates that no paycheck averages exist at all, so shares cannot be computed.
var ErrNoIncomeData = errors.New("no paycheck data found, ask all users to update their paychecks first")

// ErrNoParticipants indicates that the sharing policy resolved to zero eligible debtors.
var ErrNoParticipants = errors.New("no participants found for this share type")

// ErrInvalidIncome indicates that the participants' combined income is not positive.
var ErrInvalidIncome = errors.New("participants must have positive average paychecks")
