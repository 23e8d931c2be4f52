// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	cfn "github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/smithy-go"

	"github.com/hackerinthewoods/sitectl/internal/log"
)

// ErrStackNotFound is returned when the named stack does not exist.
var ErrStackNotFound = errors.New("stack not found")

// CloudFormationAPI is the subset of the CloudFormation client the engine
// uses.
type CloudFormationAPI interface {
	DescribeStacks(ctx context.Context, in *cfn.DescribeStacksInput, optFns ...func(*cfn.Options)) (*cfn.DescribeStacksOutput, error)
	CreateStack(ctx context.Context, in *cfn.CreateStackInput, optFns ...func(*cfn.Options)) (*cfn.CreateStackOutput, error)
	UpdateStack(ctx context.Context, in *cfn.UpdateStackInput, optFns ...func(*cfn.Options)) (*cfn.UpdateStackOutput, error)
	DeleteStack(ctx context.Context, in *cfn.DeleteStackInput, optFns ...func(*cfn.Options)) (*cfn.DeleteStackOutput, error)
	GetTemplate(ctx context.Context, in *cfn.GetTemplateInput, optFns ...func(*cfn.Options)) (*cfn.GetTemplateOutput, error)
}

// StackSpec describes the stack to submit.
type StackSpec struct {
	Name string
	Body []byte
	Tags map[string]string
}

// Result reports the outcome of Apply.
type Result struct {
	StackID string
	Status  string
	// Changed is false when CloudFormation found nothing to update.
	Changed bool
	// Created is true when the stack, and so every resource in it, is new.
	Created bool
	Outputs map[string]string
}

// Engine submits templates to CloudFormation and waits for them to settle.
type Engine struct {
	Client CloudFormationAPI
	// Timeout bounds each wait. Zero means 30 minutes.
	Timeout time.Duration
	// Poll is the minimum delay between status checks. Zero leaves the SDK
	// waiter default.
	Poll time.Duration
	// OnStatus, when set, receives progress messages.
	OnStatus func(string)
}

// NewEngine returns an Engine for client.
func NewEngine(client CloudFormationAPI) *Engine {
	return &Engine{Client: client}
}

func (e *Engine) timeout() time.Duration {
	if e.Timeout <= 0 {
		return 30 * time.Minute
	}
	return e.Timeout
}

func (e *Engine) status(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Infof("%s", msg)
	if e.OnStatus != nil {
		e.OnStatus(msg)
	}
}

// Describe returns the named stack or ErrStackNotFound.
func (e *Engine) Describe(ctx context.Context, name string) (*types.Stack, error) {
	out, err := e.Client.DescribeStacks(ctx, &cfn.DescribeStacksInput{StackName: awsv2.String(name)})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrStackNotFound
		}
		return nil, fmt.Errorf("failed to describe stack %s: %w", name, err)
	}
	if len(out.Stacks) == 0 || out.Stacks[0].StackStatus == types.StackStatusDeleteComplete {
		return nil, ErrStackNotFound
	}
	return &out.Stacks[0], nil
}

// Apply creates the stack when absent and updates it otherwise, then waits for
// a terminal state. A stack left in ROLLBACK_COMPLETE by a failed first create
// cannot be updated, so it is deleted and created again.
func (e *Engine) Apply(ctx context.Context, spec StackSpec) (*Result, error) {
	if spec.Name == "" {
		return nil, errors.New("stack name is required")
	}
	if len(spec.Body) == 0 {
		return nil, errors.New("template body is empty")
	}

	stack, err := e.Describe(ctx, spec.Name)
	switch {
	case errors.Is(err, ErrStackNotFound):
		return e.create(ctx, spec)
	case err != nil:
		return nil, err
	}

	status := stack.StackStatus
	if strings.HasSuffix(string(status), "_IN_PROGRESS") {
		return nil, fmt.Errorf("stack %s is busy (%s)", spec.Name, status)
	}
	if status == types.StackStatusRollbackComplete {
		e.status("stack %s is in %s, replacing it", spec.Name, status)
		if err := e.Destroy(ctx, spec.Name); err != nil {
			return nil, err
		}
		return e.create(ctx, spec)
	}

	return e.update(ctx, spec)
}

func (e *Engine) create(ctx context.Context, spec StackSpec) (*Result, error) {
	e.status("creating stack %s", spec.Name)
	out, err := e.Client.CreateStack(ctx, &cfn.CreateStackInput{
		StackName:    awsv2.String(spec.Name),
		TemplateBody: awsv2.String(string(spec.Body)),
		Tags:         tags(spec.Tags),
		OnFailure:    types.OnFailureRollback,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create stack %s: %w", spec.Name, err)
	}

	w := cfn.NewStackCreateCompleteWaiter(e.Client, func(o *cfn.StackCreateCompleteWaiterOptions) {
		if e.Poll > 0 {
			o.MinDelay = e.Poll
			o.MaxDelay = max(o.MaxDelay, e.Poll)
		}
	})
	if err := w.Wait(ctx, &cfn.DescribeStacksInput{StackName: awsv2.String(spec.Name)}, e.timeout()); err != nil {
		return nil, fmt.Errorf("stack %s did not reach CREATE_COMPLETE: %w", spec.Name, err)
	}

	return e.result(ctx, spec.Name, awsv2.ToString(out.StackId), true, true)
}

func (e *Engine) update(ctx context.Context, spec StackSpec) (*Result, error) {
	e.status("updating stack %s", spec.Name)
	out, err := e.Client.UpdateStack(ctx, &cfn.UpdateStackInput{
		StackName:    awsv2.String(spec.Name),
		TemplateBody: awsv2.String(string(spec.Body)),
		Tags:         tags(spec.Tags),
	})
	if err != nil {
		if isNoUpdates(err) {
			e.status("stack %s is up to date", spec.Name)
			return e.result(ctx, spec.Name, "", false, false)
		}
		return nil, fmt.Errorf("failed to update stack %s: %w", spec.Name, err)
	}

	w := cfn.NewStackUpdateCompleteWaiter(e.Client, func(o *cfn.StackUpdateCompleteWaiterOptions) {
		if e.Poll > 0 {
			o.MinDelay = e.Poll
			o.MaxDelay = max(o.MaxDelay, e.Poll)
		}
	})
	if err := w.Wait(ctx, &cfn.DescribeStacksInput{StackName: awsv2.String(spec.Name)}, e.timeout()); err != nil {
		return nil, fmt.Errorf("stack %s did not reach UPDATE_COMPLETE: %w", spec.Name, err)
	}

	return e.result(ctx, spec.Name, awsv2.ToString(out.StackId), true, false)
}

func (e *Engine) result(ctx context.Context, name, id string, changed, created bool) (*Result, error) {
	stack, err := e.Describe(ctx, name)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = awsv2.ToString(stack.StackId)
	}
	return &Result{
		StackID: id,
		Status:  string(stack.StackStatus),
		Changed: changed,
		Created: created,
		Outputs: outputs(stack),
	}, nil
}

// Outputs returns the stack outputs keyed by OutputKey.
func (e *Engine) Outputs(ctx context.Context, name string) (map[string]string, error) {
	stack, err := e.Describe(ctx, name)
	if err != nil {
		return nil, err
	}
	return outputs(stack), nil
}

// Destroy deletes the stack and waits for DELETE_COMPLETE. Deleting a stack
// that does not exist is not an error.
func (e *Engine) Destroy(ctx context.Context, name string) error {
	if _, err := e.Describe(ctx, name); err != nil {
		if errors.Is(err, ErrStackNotFound) {
			log.Debugf("destroy: stack %s already gone", name)
			return nil
		}
		return err
	}

	e.status("deleting stack %s", name)
	if _, err := e.Client.DeleteStack(ctx, &cfn.DeleteStackInput{StackName: awsv2.String(name)}); err != nil {
		return fmt.Errorf("failed to delete stack %s: %w", name, err)
	}

	w := cfn.NewStackDeleteCompleteWaiter(e.Client, func(o *cfn.StackDeleteCompleteWaiterOptions) {
		if e.Poll > 0 {
			o.MinDelay = e.Poll
			o.MaxDelay = max(o.MaxDelay, e.Poll)
		}
	})
	if err := w.Wait(ctx, &cfn.DescribeStacksInput{StackName: awsv2.String(name)}, e.timeout()); err != nil {
		return fmt.Errorf("stack %s did not reach DELETE_COMPLETE: %w", name, err)
	}
	return nil
}

// Deployed returns the template body currently deployed, or nil when the stack
// does not exist.
func (e *Engine) Deployed(ctx context.Context, name string) ([]byte, error) {
	out, err := e.Client.GetTemplate(ctx, &cfn.GetTemplateInput{
		StackName:     awsv2.String(name),
		TemplateStage: types.TemplateStageOriginal,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get template for %s: %w", name, err)
	}
	return []byte(awsv2.ToString(out.TemplateBody)), nil
}

func tags(m map[string]string) []types.Tag {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []types.Tag
	for _, k := range keys {
		out = append(out, types.Tag{Key: awsv2.String(k), Value: awsv2.String(m[k])})
	}
	return out
}

func outputs(stack *types.Stack) map[string]string {
	m := make(map[string]string, len(stack.Outputs))
	for _, o := range stack.Outputs {
		m[awsv2.ToString(o.OutputKey)] = awsv2.ToString(o.OutputValue)
	}
	return m
}

// isNotFound matches CloudFormation's "Stack with id X does not exist".
func isNotFound(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) &&
		apiErr.ErrorCode() == "ValidationError" &&
		strings.Contains(apiErr.ErrorMessage(), "does not exist")
}

// isNoUpdates matches CloudFormation's "No updates are to be performed."
func isNoUpdates(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) &&
		apiErr.ErrorCode() == "ValidationError" &&
		strings.Contains(apiErr.ErrorMessage(), "No updates are to be performed")
}
