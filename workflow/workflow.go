// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package workflow

import "context"

type Workflow interface {
	Execute(ctx context.Context) error
}
