/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package apperrors defines the error taxonomy shared by the sagas, the
// executors and the external adapters.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ValidationError is bad caller input. Never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError is a missing local record (profile, bank).
type NotFoundError struct {
	Kind string
	Id   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Id)
}

func NewNotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, Id: id}
}

// ExternalError is a failed call to one of the external systems. Transient
// failures (network, timeout, 5xx, 429) may be retried by the caller by
// re-running the whole operation; permanent ones may not.
type ExternalError struct {
	Service    string
	Operation  string
	StatusCode int
	Code       string
	Transient  bool
	Err        error
}

func (e *ExternalError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	msg := fmt.Sprintf("%s %s failed (%s", e.Service, e.Operation, kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(", status %d", e.StatusCode)
	}
	if e.Code != "" {
		msg += ", code " + e.Code
	}
	msg += ")"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExternalError) Unwrap() error { return e.Err }

// FromStatus classifies a non-2xx HTTP response.
func FromStatus(service, operation string, status int, code string, err error) error {
	return &ExternalError{
		Service:    service,
		Operation:  operation,
		StatusCode: status,
		Code:       code,
		Transient:  status == http.StatusTooManyRequests || status == http.StatusRequestTimeout || status >= 500,
		Err:        err,
	}
}

// FromTransport classifies an error raised before any HTTP response arrived.
// Context cancellation is permanent: the caller gave up, retrying it is the
// caller's decision and not a property of the remote system.
func FromTransport(service, operation string, err error) error {
	transient := true
	if errors.Is(err, context.Canceled) {
		transient = false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		transient = true
	}
	return &ExternalError{
		Service:   service,
		Operation: operation,
		Transient: transient,
		Err:       err,
	}
}

// InconsistentStateError means an external side effect succeeded but the
// local record of it could not be written. Callers must not report the
// operation as failed.
type InconsistentStateError struct {
	Operation string
	Reference string
	Err       error
}

func (e *InconsistentStateError) Error() string {
	return fmt.Sprintf("%s completed externally (%s) but was not recorded locally: %v", e.Operation, e.Reference, e.Err)
}

func (e *InconsistentStateError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsExternal(err error) bool {
	var target *ExternalError
	return errors.As(err, &target)
}

func IsTransient(err error) bool {
	var target *ExternalError
	return errors.As(err, &target) && target.Transient
}

func IsPermanent(err error) bool {
	var target *ExternalError
	return errors.As(err, &target) && !target.Transient
}

func IsInconsistent(err error) bool {
	var target *InconsistentStateError
	return errors.As(err, &target)
}
