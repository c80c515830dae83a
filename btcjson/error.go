// Copyright (c) 2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcjson

import (
	"github.com/blockvault/ledgerd/btcutil/er"
)

// ErrorCode identifies a kind of error.  These error codes are NOT used for
// JSON-RPC response errors.
//type ErrorCode int

// InternalErr is a type for the json errors which are not response types
var InternalErr er.ErrorType = er.NewErrorType("btcjson.InternalErr")

var (
	ErrInvalidType = InternalErr.CodeWithDetail("ErrInvalidType",
		"a type was passed that is not the required type")
)

func makeError(c *er.ErrorCode, str string) er.R {
	return c.New(str, nil)
}
