// Package repository implements database access for the referral program.
// Repositories hold a *sql.DB; methods ending in Tx run inside a caller
// supplied transaction so multi-step units (status update + reward
// creation, payment processing + bulk mark-paid) stay atomic. Sentinel
// errors below let handlers pick the right HTTP status without inspecting
// driver errors.
package repository

import "errors"

// ErrEmailExists is returned when registering an email that is already
// taken. Handlers translate this into a 409 response.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when the requested row does not exist. Handlers
// translate this into a 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as marking someone else's message read.
// Handlers translate this into a 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrDuplicateReward is returned when a reward record already exists for a
// lead. The commissions table enforces this with a unique key on lead_id,
// so the error is authoritative even when two installed transitions race.
var ErrDuplicateReward = errors.New("reward already exists for lead")

// ErrAlreadyProcessed is returned when processing a payment request that
// is no longer in the requested state. Terminal states are never revisited.
var ErrAlreadyProcessed = errors.New("payment request already processed")
