// Copyright 2026 The Arbor Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arbor

import (
	"errors"
	"fmt"
)

// Error codes returned by recoverable failures.
const (
	// InvalidBranchErr indicates a branch index at or beyond the tree's
	// branch factor.
	InvalidBranchErr = "arbor_invalid_branch_error"

	// ChildNotFoundErr indicates a descend on an empty branch.
	ChildNotFoundErr = "arbor_child_not_found_error"

	// NoParentErr indicates an ascend from a root or detached node.
	NoParentErr = "arbor_no_parent_error"

	// WrongChildrenNumErr indicates a bulk child operation was handed an
	// output of the wrong size.
	WrongChildrenNumErr = "arbor_wrong_children_num_error"
)

// Error is the error type returned by all recoverable tree operations.
type Error struct {
	Code    string
	Message string

	// Branch is the offending branch index for InvalidBranchErr and
	// ChildNotFoundErr; -1 otherwise.
	Branch int
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

func invalidBranch(branch, factor int) *Error {
	return &Error{
		Code:    InvalidBranchErr,
		Message: fmt.Sprintf("branch %d out of range for branch factor %d", branch, factor),
		Branch:  branch,
	}
}

func childNotFound(branch int) *Error {
	return &Error{
		Code:    ChildNotFoundErr,
		Message: fmt.Sprintf("no child at branch %d", branch),
		Branch:  branch,
	}
}

func noParent(pos Position) *Error {
	return &Error{
		Code:    NoParentErr,
		Message: fmt.Sprintf("node has no parent (%s)", pos),
		Branch:  -1,
	}
}

func wrongChildrenNum(got, want int) *Error {
	return &Error{
		Code:    WrongChildrenNumErr,
		Message: fmt.Sprintf("output holds %d slots, tree has branch factor %d", got, want),
		Branch:  -1,
	}
}

// IsInvalidBranch reports whether err is an InvalidBranchErr error.
func IsInvalidBranch(err error) bool {
	return hasCode(err, InvalidBranchErr)
}

// IsChildNotFound reports whether err is a ChildNotFoundErr error.
func IsChildNotFound(err error) bool {
	return hasCode(err, ChildNotFoundErr)
}

// IsNoParent reports whether err is a NoParentErr error.
func IsNoParent(err error) bool {
	return hasCode(err, NoParentErr)
}

// IsWrongChildrenNum reports whether err is a WrongChildrenNumErr error.
func IsWrongChildrenNum(err error) bool {
	return hasCode(err, WrongChildrenNumErr)
}

func hasCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
