// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ava-labs/srccache/workflow"
)

var _ workflow.Executor = &WorkflowEngine{}

func NewWorkflowEngine(log logrus.FieldLogger) *WorkflowEngine {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	return &WorkflowEngine{
		log: log,
	}
}

// WorkflowEngine runs workflows one at a time on the calling goroutine.
type WorkflowEngine struct {
	log logrus.FieldLogger
}

func (w *WorkflowEngine) Execute(ctx context.Context, wf workflow.Workflow) error {
	log := w.log.WithField("workflow", fmt.Sprintf("%T", wf))
	start := time.Now()

	log.Debug("Executing workflow")
	if err := wf.Execute(ctx); err != nil {
		log.WithError(err).Error("Workflow failed")
		return err
	}
	log.WithField("elapsed", time.Since(start)).Debug("Workflow finished")

	return nil
}
