package workflows

import (
	"context"
	"errors"
	"strings"

	"gradeflow/internal/apperr"
	"gradeflow/internal/models"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	tclient "go.temporal.io/sdk/client"
)

const EvaluationIDPrefix = "evaluation-"

// Client starts evaluations and reports their state through Temporal.
type Client struct {
	tc        tclient.Client
	taskQueue string
}

func NewClient(tc tclient.Client, taskQueue string) *Client {
	return &Client{tc: tc, taskQueue: taskQueue}
}

func (c *Client) Start(ctx context.Context, in EvaluationInput) (models.EvaluationAccepted, error) {
	id := EvaluationIDPrefix + uuid.NewString()
	run, err := c.tc.ExecuteWorkflow(ctx, tclient.StartWorkflowOptions{
		ID:        id,
		TaskQueue: c.taskQueue,
	}, EvaluationWorkflow, in)
	if err != nil {
		return models.EvaluationAccepted{}, apperr.Upstream("start_evaluation", 0, "", err)
	}
	return models.EvaluationAccepted{EvaluationID: run.GetID(), RunID: run.GetRunID(), Status: "running"}, nil
}

func (c *Client) Status(ctx context.Context, id string) (models.EvaluationStatus, error) {
	if !strings.HasPrefix(id, EvaluationIDPrefix) {
		return models.EvaluationStatus{}, apperr.NotFound("evaluation_status", "evaluation not found")
	}
	desc, err := c.tc.DescribeWorkflowExecution(ctx, id, "")
	if err != nil {
		var nf *serviceerror.NotFound
		if errors.As(err, &nf) {
			return models.EvaluationStatus{}, apperr.NotFound("evaluation_status", "evaluation not found")
		}
		return models.EvaluationStatus{}, apperr.Upstream("evaluation_status", 0, "", err)
	}

	info := desc.GetWorkflowExecutionInfo()
	out := models.EvaluationStatus{EvaluationID: id, Status: statusName(info.GetStatus())}
	if ts := info.GetStartTime(); ts != nil {
		t := ts.AsTime()
		out.StartedAt = &t
	}
	if ts := info.GetCloseTime(); ts != nil {
		t := ts.AsTime()
		out.ClosedAt = &t
	}

	switch info.GetStatus() {
	case enumspb.WORKFLOW_EXECUTION_STATUS_COMPLETED:
		var res EvaluationResult
		if err := c.tc.GetWorkflow(ctx, id, "").Get(ctx, &res); err != nil {
			return models.EvaluationStatus{}, apperr.Upstream("evaluation_status", 0, "", err)
		}
		out.Grade = res.Grade
		out.Feedback = res.Feedback
		out.Results = res.Results
		out.Errors = res.Errors
	case enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING:
		// Progress is best effort; a worker that is not polling cannot answer.
		val, err := c.tc.QueryWorkflow(ctx, id, "", QueryGetProgress)
		if err == nil {
			var p EvaluationProgress
			if err := val.Get(&p); err == nil {
				out.Steps = p.Steps
			}
		}
	}
	return out, nil
}

func statusName(s enumspb.WorkflowExecutionStatus) string {
	switch s {
	case enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING, enumspb.WORKFLOW_EXECUTION_STATUS_CONTINUED_AS_NEW:
		return "running"
	case enumspb.WORKFLOW_EXECUTION_STATUS_COMPLETED:
		return "completed"
	case enumspb.WORKFLOW_EXECUTION_STATUS_FAILED:
		return "failed"
	case enumspb.WORKFLOW_EXECUTION_STATUS_CANCELED:
		return "canceled"
	case enumspb.WORKFLOW_EXECUTION_STATUS_TERMINATED:
		return "terminated"
	case enumspb.WORKFLOW_EXECUTION_STATUS_TIMED_OUT:
		return "timed_out"
	default:
		return "unknown"
	}
}
